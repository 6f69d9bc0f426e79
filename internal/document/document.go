// Package document reads, mutates and writes the body paragraphs of a DOCX
// (WordprocessingML) package. Only word/document.xml is parsed; every other
// part of the package is carried through untouched.
package document

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/beevik/etree"
)

const mainPart = "word/document.xml"

var (
	// ErrNotDocx is returned when the input is not a WordprocessingML package.
	ErrNotDocx = errors.New("not a docx package")
	// ErrNoBody is returned when word/document.xml lacks a w:body element.
	ErrNoBody = errors.New("document has no body")
)

type part struct {
	header zip.FileHeader
	data   []byte
}

// Document is an in-memory DOCX package.
type Document struct {
	parts []part
	main  int
	xml   *etree.Document
	body  *etree.Element
}

// Open parses a DOCX package from raw bytes.
func Open(data []byte) (*Document, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotDocx, err)
	}

	d := &Document{main: -1}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open part %s: %w", f.Name, err)
		}
		b, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read part %s: %w", f.Name, err)
		}
		if f.Name == mainPart {
			d.main = len(d.parts)
		}
		d.parts = append(d.parts, part{header: f.FileHeader, data: b})
	}
	if d.main < 0 {
		return nil, fmt.Errorf("%w: missing %s", ErrNotDocx, mainPart)
	}

	if err := d.parseMain(d.parts[d.main].data); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Document) parseMain(data []byte) error {
	x := etree.NewDocument()
	if err := x.ReadFromBytes(data); err != nil {
		return fmt.Errorf("parse %s: %w", mainPart, err)
	}
	root := x.Root()
	if root == nil {
		return ErrNoBody
	}
	body := root.SelectElement("w:body")
	if body == nil {
		return ErrNoBody
	}
	d.xml = x
	d.body = body
	return nil
}

// Paragraphs returns the top-level body paragraphs in document order.
func (d *Document) Paragraphs() []*Paragraph {
	var out []*Paragraph
	for _, el := range d.body.ChildElements() {
		if isParagraph(el) {
			out = append(out, &Paragraph{el: el})
		}
	}
	return out
}

// Remove detaches p from the body.
func (d *Document) Remove(p *Paragraph) {
	if parent := p.el.Parent(); parent != nil {
		parent.RemoveChild(p.el)
	}
}

// InsertAfter places p immediately after anchor and returns p.
func (d *Document) InsertAfter(anchor, p *Paragraph) *Paragraph {
	parent := anchor.el.Parent()
	parent.InsertChildAt(anchor.el.Index()+1, p.el)
	return p
}

// Append adds a paragraph at the end of the body, before the final section
// properties when present.
func (d *Document) Append(p *Paragraph) *Paragraph {
	if sect := d.body.SelectElement("w:sectPr"); sect != nil {
		d.body.InsertChildAt(sect.Index(), p.el)
		return p
	}
	d.body.AddChild(p.el)
	return p
}

// Bytes serializes the package with the current body.
func (d *Document) Bytes() ([]byte, error) {
	xmlData, err := d.xml.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("serialize %s: %w", mainPart, err)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for i, p := range d.parts {
		data := p.data
		if i == d.main {
			data = xmlData
		}
		hdr := &zip.FileHeader{
			Name:     p.header.Name,
			Method:   zip.Deflate,
			Modified: p.header.Modified,
		}
		w, err := zw.CreateHeader(hdr)
		if err != nil {
			return nil, fmt.Errorf("write part %s: %w", hdr.Name, err)
		}
		if _, err := w.Write(data); err != nil {
			return nil, fmt.Errorf("write part %s: %w", hdr.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close docx: %w", err)
	}
	return buf.Bytes(), nil
}
