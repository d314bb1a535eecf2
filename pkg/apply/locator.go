// Package apply locates change-record fragments inside a document and
// substitutes them, and renders a coarse highlighted comparison between two
// documents.
package apply

import (
	"fmt"
	"strings"

	"github.com/caldew/redline/pkg/docx"
)

// Element is one addressable unit of document text: a body paragraph or a
// table cell paragraph.
type Element struct {
	Paragraph *docx.Paragraph
	Text      string // tracked text, updated as changes land

	Body  bool
	Index int // body paragraph index

	Table, Row, Cell, Para int // table cell address when Body is false
}

// Address renders the element's position for logs and reports.
func (e *Element) Address() string {
	if e.Body {
		return fmt.Sprintf("body[%d]", e.Index)
	}
	return fmt.Sprintf("table[%d].row[%d].cell[%d].para[%d]", e.Table, e.Row, e.Cell, e.Para)
}

// Flatten lists the document's text-bearing elements in document order: body
// paragraphs first, then tables in declaration order, rows top to bottom,
// cells left to right, cell paragraphs in order. Whitespace-only paragraphs
// are excluded from consideration but keep their positional indices.
func Flatten(doc *docx.Document) []*Element {
	var elements []*Element

	for i, p := range doc.Paragraphs() {
		if strings.TrimSpace(p.Text()) == "" {
			continue
		}
		elements = append(elements, &Element{
			Paragraph: p,
			Text:      p.Text(),
			Body:      true,
			Index:     i,
		})
	}

	for ti, table := range doc.Tables() {
		for ri, row := range table.Rows {
			for ci, cell := range row.Cells {
				for pi, p := range cell.Paragraphs {
					if strings.TrimSpace(p.Text()) == "" {
						continue
					}
					elements = append(elements, &Element{
						Paragraph: p,
						Text:      p.Text(),
						Table:     ti,
						Row:       ri,
						Cell:      ci,
						Para:      pi,
					})
				}
			}
		}
	}

	return elements
}
