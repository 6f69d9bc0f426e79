package usecase

import (
	"fmt"
	"strings"

	"github.com/ajambaliya/gktodaypostpdf/internal/document"
	"github.com/ajambaliya/gktodaypostpdf/internal/domain"
)

// Assembler merges bilingual content into a template between two marker
// paragraphs.
type Assembler struct {
	startMarker string
	endMarker   string
}

func NewAssembler(startMarker, endMarker string) *Assembler {
	return &Assembler{startMarker: startMarker, endMarker: endMarker}
}

// StyleFor maps a block kind to its paragraph style.
func StyleFor(k domain.Kind) string {
	switch k {
	case domain.Heading:
		return document.StyleHeading1
	case domain.SubHeading2:
		return document.StyleHeading2
	case domain.SubHeading4:
		return document.StyleHeading4
	case domain.ListItem:
		return document.StyleListBullet
	default:
		return document.StyleNormal
	}
}

// Assemble replaces every paragraph strictly between the start and end
// markers with the entries of list, in order, then clears the marker text.
// The markers themselves stay in place as empty paragraphs. When either
// marker is missing the document is left untouched.
func (a *Assembler) Assemble(doc *document.Document, list domain.BilingualContentList) error {
	paras := doc.Paragraphs()

	start, end := -1, -1
	for i, p := range paras {
		if strings.Contains(p.Text(), a.startMarker) {
			start = i
			break
		}
	}
	if start >= 0 {
		for i := start + 1; i < len(paras); i++ {
			if strings.Contains(paras[i].Text(), a.endMarker) {
				end = i
				break
			}
		}
	}
	if start < 0 || end < 0 {
		return fmt.Errorf("%w: could not find both %s and %s placeholders", domain.ErrTemplate, a.startMarker, a.endMarker)
	}

	for _, p := range paras[start+1 : end] {
		doc.Remove(p)
	}

	anchor := paras[start]
	for _, e := range list.Entries() {
		anchor = doc.InsertAfter(anchor, document.NewParagraph(e.Text, StyleFor(e.Kind)))
	}

	paras[start].SetText("")
	paras[end].SetText("")
	return nil
}
