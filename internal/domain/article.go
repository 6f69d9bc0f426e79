package domain

// Kind classifies one semantic unit of an article.
type Kind int

const (
	Heading Kind = iota
	SubHeading2
	SubHeading4
	Paragraph
	ListItem
)

func (k Kind) String() string {
	switch k {
	case Heading:
		return "heading"
	case SubHeading2:
		return "heading_2"
	case SubHeading4:
		return "heading_4"
	case Paragraph:
		return "paragraph"
	case ListItem:
		return "list_item"
	default:
		return "unknown"
	}
}

// ArticleURL is the canonical link of one article on the listing site.
type ArticleURL = string

// ContentBlock is one logical unit extracted from an article, carrying both
// the source text and its translation. TranslatedText equals OriginalText
// when translation fell back.
type ContentBlock struct {
	Kind           Kind
	OriginalText   string
	TranslatedText string
}

// Entry is a single emitted paragraph of the bilingual document.
type Entry struct {
	Kind       Kind
	Text       string
	Translated bool
}

// BilingualContentList holds content blocks in extraction order, concatenated
// across articles in discovery order.
type BilingualContentList []ContentBlock

// Entries flattens the list into document order. Each block yields its
// translated entry immediately followed by its original entry.
func (l BilingualContentList) Entries() []Entry {
	out := make([]Entry, 0, len(l)*2)
	for _, b := range l {
		out = append(out,
			Entry{Kind: b.Kind, Text: b.TranslatedText, Translated: true},
			Entry{Kind: b.Kind, Text: b.OriginalText},
		)
	}
	return out
}
