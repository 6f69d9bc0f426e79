package render

import (
	"bytes"
	"html/template"

	"github.com/ajambaliya/gktodaypostpdf/internal/document"
)

type htmlBlock struct {
	Tag   string
	Class string
	Text  string
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
body { font-family: "Noto Sans", "Noto Sans Gujarati", "Noto Sans Devanagari", sans-serif; font-size: 12pt; margin: 2cm; }
h1 { font-size: 20pt; }
h2 { font-size: 16pt; }
h4 { font-size: 12pt; font-style: italic; }
p.bullet { margin-left: 1.5em; }
</style>
</head>
<body>
{{- range . }}
{{ if eq .Tag "h1" }}<h1>{{ .Text }}</h1>
{{- else if eq .Tag "h2" }}<h2>{{ .Text }}</h2>
{{- else if eq .Tag "h4" }}<h4>{{ .Text }}</h4>
{{- else if .Class }}<p class="{{ .Class }}">{{ .Text }}</p>
{{- else }}<p>{{ .Text }}</p>
{{- end }}
{{- end }}
</body>
</html>
`))

// HTML lays the document body out as a printable HTML page. Paragraph styles
// map to heading levels; everything else becomes a plain paragraph.
func HTML(doc *document.Document) (string, error) {
	var blocks []htmlBlock
	for _, p := range doc.Paragraphs() {
		text := p.Text()
		if text == "" {
			continue
		}
		blocks = append(blocks, blockFor(p.Style(), text))
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, blocks); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func blockFor(style, text string) htmlBlock {
	switch style {
	case document.StyleHeading1, "Title":
		return htmlBlock{Tag: "h1", Text: text}
	case document.StyleHeading2:
		return htmlBlock{Tag: "h2", Text: text}
	case document.StyleHeading4:
		return htmlBlock{Tag: "h4", Text: text}
	case document.StyleListBullet:
		return htmlBlock{Tag: "p", Class: "bullet", Text: text}
	default:
		return htmlBlock{Tag: "p", Text: text}
	}
}
