package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"sort"
)

// Bytes serializes the document back to a DOCX byte buffer. Parts other than
// word/document.xml are written back untouched, in their original order.
// Within document.xml only rewritten paragraphs are spliced; everything else
// keeps its original bytes.
func (d *Document) Bytes() ([]byte, error) {
	docXML := d.rebuildXML()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, p := range d.parts {
		w, err := zw.Create(p.name)
		if err != nil {
			return nil, fmt.Errorf("creating %s: %w", p.name, err)
		}
		data := p.data
		if p.name == documentPart {
			data = docXML
		}
		if _, err := w.Write(data); err != nil {
			return nil, fmt.Errorf("writing %s: %w", p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("closing archive: %w", err)
	}
	return buf.Bytes(), nil
}

// rebuildXML splices rewritten paragraphs into the original document.xml.
func (d *Document) rebuildXML() []byte {
	var dirty []*Paragraph
	for _, p := range d.all {
		if p.dirty {
			dirty = append(dirty, p)
		}
	}
	if len(dirty) == 0 {
		return d.docXML
	}
	sort.Slice(dirty, func(i, j int) bool { return dirty[i].start < dirty[j].start })

	var buf bytes.Buffer
	pos := 0
	for _, p := range dirty {
		buf.Write(d.docXML[pos:p.start])
		buf.Write(p.rebuild())
		pos = p.end
	}
	buf.Write(d.docXML[pos:])
	return buf.Bytes()
}

// rebuild renders the paragraph as its original start tag, the preserved
// paragraph properties, and a single run holding the current text.
func (p *Paragraph) rebuild() []byte {
	var buf bytes.Buffer

	open := p.openTag
	if p.selfClosing {
		open = bytes.TrimSuffix(open, []byte("/>"))
		buf.Write(open)
		buf.WriteByte('>')
	} else {
		buf.Write(open)
	}
	buf.Write(p.props)

	if p.text != "" {
		buf.WriteString("<w:r>")
		if p.highlight != "" {
			buf.WriteString(`<w:rPr><w:highlight w:val="`)
			buf.WriteString(p.highlight)
			buf.WriteString(`"/></w:rPr>`)
		}
		buf.WriteString(`<w:t xml:space="preserve">`)
		xml.EscapeText(&buf, []byte(p.text))
		buf.WriteString("</w:t></w:r>")
	}
	buf.WriteString("</w:p>")
	return buf.Bytes()
}
