// Package docxtest builds minimal in-memory DOCX packages for tests.
package docxtest

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
)

const contentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="xml" ContentType="application/xml"/><Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/></Types>`

// Doc describes the fixture content. Tables hold one paragraph per cell.
type Doc struct {
	Paragraphs []string
	Tables     [][][]string // table → rows → cell texts
}

// Bytes renders the fixture as a DOCX byte buffer.
func (d Doc) Bytes() ([]byte, error) {
	var body bytes.Buffer
	for _, text := range d.Paragraphs {
		writeParagraph(&body, text)
	}
	for _, table := range d.Tables {
		body.WriteString("<w:tbl>")
		for _, row := range table {
			body.WriteString("<w:tr>")
			for _, cell := range row {
				body.WriteString("<w:tc>")
				writeParagraph(&body, cell)
				body.WriteString("</w:tc>")
			}
			body.WriteString("</w:tr>")
		}
		body.WriteString("</w:tbl>")
	}

	var doc bytes.Buffer
	doc.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	doc.WriteString("\n")
	doc.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	doc.Write(body.Bytes())
	doc.WriteString(`<w:sectPr/></w:body></w:document>`)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	parts := []struct {
		name string
		data []byte
	}{
		{"[Content_Types].xml", []byte(contentTypes)},
		{"word/document.xml", doc.Bytes()},
	}
	for _, p := range parts {
		w, err := zw.Create(p.name)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(p.data); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeParagraph(buf *bytes.Buffer, text string) {
	if text == "" {
		buf.WriteString("<w:p/>")
		return
	}
	buf.WriteString(`<w:p><w:r><w:t xml:space="preserve">`)
	xml.EscapeText(buf, []byte(text))
	buf.WriteString("</w:t></w:r></w:p>")
}
