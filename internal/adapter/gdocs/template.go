// Package gdocs downloads the DOCX template from a shared Google Docs link.
package gdocs

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/ajambaliya/gktodaypostpdf/internal/adapter/httpclient"
	"github.com/ajambaliya/gktodaypostpdf/internal/domain"
)

type TemplateSource struct {
	client    *http.Client
	url       string
	userAgent string
}

func NewTemplateSource(client *http.Client, docURL, userAgent string) *TemplateSource {
	return &TemplateSource{client: client, url: ExportURL(docURL), userAgent: userAgent}
}

// ExportURL turns a Docs editor link into its DOCX export link. Other URLs
// are returned as is.
func ExportURL(docURL string) string {
	if !strings.Contains(docURL, "docs.google.com/document/") {
		return docURL
	}
	if i := strings.Index(docURL, "/edit"); i >= 0 {
		return docURL[:i] + "/export?format=docx"
	}
	if strings.Contains(docURL, "/export") {
		return docURL
	}
	return strings.TrimSuffix(docURL, "/") + "/export?format=docx"
}

// Download fetches the template bytes. Any failure is a template error.
func (t *TemplateSource) Download(ctx context.Context) ([]byte, error) {
	data, err := httpclient.Fetch(ctx, t.client, t.url, t.userAgent)
	if err != nil {
		return nil, fmt.Errorf("%w: download template: %w", domain.ErrTemplate, err)
	}
	return data, nil
}
