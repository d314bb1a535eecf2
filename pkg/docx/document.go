// Package docx provides DOCX (Office Open XML) loading, paragraph-level text
// mutation, and serialization.
//
// A Document is loaded from a byte buffer and owned exclusively by one
// operation. Paragraph text can be rewritten in place; untouched paragraphs
// are preserved byte-for-byte in the underlying XML when the document is
// serialized again. Rewriting a paragraph collapses it to a single run, so
// run-level formatting below the paragraph is not preserved across an edit.
package docx

import "bytes"

const documentPart = "word/document.xml"

// part is one entry of the underlying ZIP package, in archive order.
type part struct {
	name string
	data []byte
}

// Document is a mutable handle on a loaded DOCX package.
type Document struct {
	parts      []part
	docXML     []byte
	paragraphs []*Paragraph // body-level, in document order
	tables     []*Table     // top-level tables, in document order
	all        []*Paragraph // every indexed paragraph, ordered by position
}

// Paragraph is one <w:p> element. Text reflects edits immediately; the
// backing XML is rewritten on serialization.
type Paragraph struct {
	text        string
	start, end  int    // byte range of the element within document.xml
	openTag     []byte // raw start tag, including attributes
	selfClosing bool
	props       []byte // raw <w:pPr> element, nil if absent
	dirty       bool
	highlight   string // highlight color applied on rebuild, "" for none
}

// Table is a top-level <w:tbl> element.
type Table struct {
	Rows []*Row
}

// Row is a <w:tr> element.
type Row struct {
	Cells []*Cell
}

// Cell is a <w:tc> element.
type Cell struct {
	Paragraphs []*Paragraph
}

// Paragraphs returns the body-level paragraphs in document order.
// Table cell paragraphs are reached through Tables.
func (d *Document) Paragraphs() []*Paragraph {
	return d.paragraphs
}

// Tables returns the top-level tables in document order.
func (d *Document) Tables() []*Table {
	return d.tables
}

// Text returns the paragraph's current text, including any pending edits.
func (p *Paragraph) Text() string {
	return p.text
}

// SetText replaces the paragraph's entire content with a single run holding
// the given text. Paragraph properties (style, numbering) are kept.
func (p *Paragraph) SetText(text string) {
	p.text = text
	p.dirty = true
}

// Highlight rewrites the paragraph as a single run carrying the given
// highlight color (e.g. "red"). The current text is kept.
func (p *Paragraph) Highlight(color string) {
	p.highlight = color
	p.dirty = true
}

// Highlighted reports whether a highlight has been applied to the paragraph
// since it was loaded.
func (p *Paragraph) Highlighted() bool {
	return p.highlight != ""
}

// BodyText returns all body paragraph texts joined by newlines. Mirrors the
// flat text view used when prompting for changes against a document.
func (d *Document) BodyText() string {
	var buf bytes.Buffer
	for i, p := range d.paragraphs {
		if i > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString(p.text)
	}
	return buf.String()
}
