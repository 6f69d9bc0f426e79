package document

import (
	"strings"

	"github.com/beevik/etree"
)

// Paragraph style IDs understood by Word and LibreOffice.
const (
	StyleNormal     = "Normal"
	StyleHeading1   = "Heading1"
	StyleHeading2   = "Heading2"
	StyleHeading4   = "Heading4"
	StyleListBullet = "ListBullet"
)

// Paragraph is a w:p element of the document body.
type Paragraph struct {
	el *etree.Element
}

// NewParagraph builds a detached paragraph with one run holding text.
// StyleNormal and the empty style emit no w:pStyle.
func NewParagraph(text, style string) *Paragraph {
	el := etree.NewElement("w:p")
	if style != "" && style != StyleNormal {
		pPr := el.CreateElement("w:pPr")
		pPr.CreateElement("w:pStyle").CreateAttr("w:val", style)
	}
	p := &Paragraph{el: el}
	p.addRun(text)
	return p
}

func isParagraph(el *etree.Element) bool {
	return el.Space == "w" && el.Tag == "p"
}

// Text concatenates the text of every run in the paragraph.
func (p *Paragraph) Text() string {
	var sb strings.Builder
	for _, el := range p.el.FindElements(".//*") {
		if el.Space != "w" {
			continue
		}
		switch el.Tag {
		case "t":
			sb.WriteString(el.Text())
		case "tab":
			sb.WriteString("\t")
		case "br", "cr":
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// Style returns the paragraph style ID, or StyleNormal when unset.
func (p *Paragraph) Style() string {
	pPr := p.el.SelectElement("w:pPr")
	if pPr == nil {
		return StyleNormal
	}
	ps := pPr.SelectElement("w:pStyle")
	if ps == nil {
		return StyleNormal
	}
	if v := ps.SelectAttrValue("w:val", ""); v != "" {
		return v
	}
	return StyleNormal
}

// SetText removes all paragraph content except its properties and, when
// text is non-empty, adds a single run holding it.
func (p *Paragraph) SetText(text string) {
	for _, child := range p.el.ChildElements() {
		if child.Space == "w" && child.Tag == "pPr" {
			continue
		}
		p.el.RemoveChild(child)
	}
	p.addRun(text)
}

func (p *Paragraph) addRun(text string) {
	if text == "" {
		return
	}
	r := p.el.CreateElement("w:r")
	t := r.CreateElement("w:t")
	t.CreateAttr("xml:space", "preserve")
	t.SetText(text)
}
