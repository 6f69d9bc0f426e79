package repository

import (
	"context"

	"github.com/ajambaliya/gktodaypostpdf/internal/document"
	"github.com/ajambaliya/gktodaypostpdf/internal/domain"
)

// Scraper discovers article links on the listing site and extracts the
// bilingual content of a single article.
type Scraper interface {
	Discover(ctx context.Context) ([]domain.ArticleURL, error)
	Extract(ctx context.Context, url domain.ArticleURL) (domain.BilingualContentList, error)
}

// Translator translates text into the configured target language. It never
// fails: on error it returns the input unchanged.
type Translator interface {
	Translate(ctx context.Context, text string) string
}

// SeenStore is the persistent set of article URLs processed by earlier runs.
type SeenStore interface {
	Exists(ctx context.Context, url domain.ArticleURL) (bool, error)
	Insert(ctx context.Context, url domain.ArticleURL) error
}

// TemplateSource fetches the raw DOCX template.
type TemplateSource interface {
	Download(ctx context.Context) ([]byte, error)
}

// Renderer converts an assembled document into PDF bytes.
type Renderer interface {
	Render(ctx context.Context, doc *document.Document) ([]byte, error)
}

// Sender pushes a named file to the delivery channel.
type Sender interface {
	SendDocument(ctx context.Context, name string, data []byte) error
}

// Archiver stores a copy of a rendered file and returns its key.
type Archiver interface {
	Archive(ctx context.Context, name string, data []byte) (string, error)
}
