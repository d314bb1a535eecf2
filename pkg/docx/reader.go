package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
)

// Load parses a DOCX byte buffer into a mutable Document.
func Load(data []byte) (*Document, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}

	d := &Document{}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", f.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", f.Name, err)
		}
		d.parts = append(d.parts, part{name: f.Name, data: content})
	}

	if err := d.validate(); err != nil {
		return nil, err
	}

	for _, p := range d.parts {
		if p.name == documentPart {
			d.docXML = p.data
			break
		}
	}

	if err := d.scan(); err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}
	return d, nil
}

// validate checks that required DOCX parts exist.
func (d *Document) validate() error {
	required := map[string]bool{
		"[Content_Types].xml": false,
		documentPart:          false,
	}
	for _, p := range d.parts {
		if _, ok := required[p.name]; ok {
			required[p.name] = true
		}
	}
	for name, found := range required {
		if !found {
			return fmt.Errorf("missing required part: %s", name)
		}
	}
	return nil
}

// scan walks document.xml once, recording every paragraph's byte range, raw
// start tag, properties block, and extracted text. Matching is on local names
// since document.xml consistently uses the w: prefix.
func (d *Document) scan() error {
	dec := xml.NewDecoder(bytes.NewReader(d.docXML))

	var (
		cur      *Paragraph
		pDepth   int // <w:p> nesting; >1 means inside a text box
		tblDepth int
		curTable *Table
		curRow   *Row
		curCell  *Cell
		indexed  bool
		text     bytes.Buffer
		inText   bool
		inProps  bool
		propsAt  int
	)

	for {
		offset := int(dec.InputOffset())
		tok, err := dec.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				pDepth++
				if pDepth != 1 {
					continue
				}
				tag := d.docXML[offset:int(dec.InputOffset())]
				cur = &Paragraph{
					start:       offset,
					openTag:     tag,
					selfClosing: bytes.HasSuffix(tag, []byte("/>")),
				}
				text.Reset()
				// Paragraphs inside nested tables are not addressable.
				indexed = tblDepth == 0 || (tblDepth == 1 && curCell != nil)
			case "pPr":
				if pDepth == 1 && cur != nil {
					inProps = true
					propsAt = offset
				}
			case "t":
				if pDepth == 1 {
					inText = true
				}
			case "tab":
				if pDepth == 1 && !inProps {
					text.WriteByte('\t')
				}
			case "br", "cr":
				if pDepth == 1 && !inProps {
					text.WriteByte('\n')
				}
			case "tbl":
				tblDepth++
				if tblDepth == 1 && pDepth == 0 {
					curTable = &Table{}
					d.tables = append(d.tables, curTable)
				}
			case "tr":
				if tblDepth == 1 && curTable != nil {
					curRow = &Row{}
					curTable.Rows = append(curTable.Rows, curRow)
				}
			case "tc":
				if tblDepth == 1 && curRow != nil {
					curCell = &Cell{}
					curRow.Cells = append(curRow.Cells, curCell)
				}
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "p":
				if pDepth == 0 {
					return errors.New("unbalanced paragraph elements")
				}
				pDepth--
				if pDepth != 0 || cur == nil {
					continue
				}
				cur.end = int(dec.InputOffset())
				cur.text = text.String()
				if indexed {
					if tblDepth == 1 && curCell != nil {
						curCell.Paragraphs = append(curCell.Paragraphs, cur)
					} else {
						d.paragraphs = append(d.paragraphs, cur)
					}
					d.all = append(d.all, cur)
				}
				cur = nil
			case "pPr":
				if inProps {
					inProps = false
					cur.props = d.docXML[propsAt:int(dec.InputOffset())]
				}
			case "t":
				inText = false
			case "tbl":
				if tblDepth > 0 {
					tblDepth--
					if tblDepth == 0 {
						curTable = nil
					}
				}
			case "tr":
				if tblDepth == 1 {
					curRow = nil
				}
			case "tc":
				if tblDepth == 1 {
					curCell = nil
				}
			}

		case xml.CharData:
			if inText {
				text.Write(t)
			}
		}
	}

	if pDepth != 0 || tblDepth != 0 {
		return errors.New("unbalanced document structure")
	}
	return nil
}
