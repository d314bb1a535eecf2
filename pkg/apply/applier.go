package apply

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/caldew/redline/pkg/change"
	"github.com/caldew/redline/pkg/docx"
)

// Match is the per-record outcome, kept for reporting only.
type Match struct {
	Record   change.Record
	Elements int // elements whose text was substituted
}

// Report summarizes one application pass.
type Report struct {
	Applied   int      // records that matched at least one element
	Unmatched []string // original fragments that matched nothing
	Matches   []Match
}

// Applier substitutes change records into a document.
type Applier struct {
	Logger *slog.Logger
}

// Apply applies the records to the document, longest original fragment first
// so a short fragment cannot be substituted inside text that is itself part
// of a longer, not-yet-applied fragment. Every occurrence within a matching
// element is replaced literally, and the element's tracked text is updated
// immediately so later records observe the post-substitution state.
//
// Zero-match records are reported, not errors: the pass always completes.
func (a *Applier) Apply(doc *docx.Document, records []change.Record) *Report {
	elements := Flatten(doc)

	ordered := make([]change.Record, len(records))
	copy(ordered, records)
	sort.SliceStable(ordered, func(i, j int) bool {
		return len(ordered[i].OriginalText) > len(ordered[j].OriginalText)
	})

	report := &Report{}
	for _, rec := range ordered {
		touched := 0
		for _, el := range elements {
			if !strings.Contains(el.Text, rec.OriginalText) {
				continue
			}
			el.Text = strings.ReplaceAll(el.Text, rec.OriginalText, rec.NewText)
			el.Paragraph.SetText(el.Text)
			touched++

			if a.Logger != nil {
				a.Logger.Debug("applied change",
					"element", el.Address(),
					"fragment", truncate(rec.OriginalText, 40),
				)
			}
		}

		report.Matches = append(report.Matches, Match{Record: rec, Elements: touched})
		if touched > 0 {
			report.Applied++
		} else {
			report.Unmatched = append(report.Unmatched, rec.OriginalText)
			if a.Logger != nil {
				a.Logger.Warn("no match for fragment", "fragment", truncate(rec.OriginalText, 40))
			}
		}
	}

	return report
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
