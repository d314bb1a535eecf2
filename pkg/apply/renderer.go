package apply

import "github.com/caldew/redline/pkg/docx"

// DefaultHighlight is the visual marker color for changed paragraphs.
const DefaultHighlight = "red"

// Redline marks every body paragraph of modified whose text differs from the
// paragraph at the same index in original, and every paragraph beyond
// original's length, with the given highlight color. It returns the number of
// paragraphs marked.
//
// This is a positional pairing, not an alignment: inserting or deleting a
// paragraph mid-document shifts every later index, so all following
// paragraphs appear changed even when their content is identical. The
// external engine is the accurate path; this renderer is the approximation
// used when the engine is unavailable.
func Redline(original, modified *docx.Document, color string) int {
	if color == "" {
		color = DefaultHighlight
	}

	origParas := original.Paragraphs()
	modParas := modified.Paragraphs()

	marked := 0
	for i, p := range modParas {
		if i < len(origParas) && origParas[i].Text() == p.Text() {
			continue
		}
		p.Highlight(color)
		marked++
	}
	return marked
}
