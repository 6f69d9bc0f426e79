package render

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/ajambaliya/gktodaypostpdf/internal/document"
	"github.com/ajambaliya/gktodaypostpdf/internal/domain"
	"github.com/ajambaliya/gktodaypostpdf/internal/logger"
)

// LibreOfficeRenderer converts the DOCX itself with soffice, keeping the
// template's fonts and layout.
type LibreOfficeRenderer struct {
	path    string
	timeout time.Duration
	log     logger.Logger
}

func NewLibreOfficeRenderer(path string, timeout time.Duration, log logger.Logger) *LibreOfficeRenderer {
	if log == nil {
		log = logger.NewNop()
	}
	return &LibreOfficeRenderer{path: path, timeout: timeout, log: log}
}

func (l *LibreOfficeRenderer) Render(ctx context.Context, doc *document.Document) ([]byte, error) {
	data, err := doc.Bytes()
	if err != nil {
		return nil, fmt.Errorf("%w: serialize docx: %w", domain.ErrRender, err)
	}

	bin := l.path
	if bin == "" {
		bin = findFirstExecutable("soffice", "libreoffice")
	}
	if bin == "" {
		return nil, fmt.Errorf("%w: soffice not found in PATH", domain.ErrRender)
	}

	dir, err := os.MkdirTemp("", "gktoday-render-*")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRender, err)
	}
	defer os.RemoveAll(dir)

	in := filepath.Join(dir, "digest.docx")
	if err := os.WriteFile(in, data, 0o600); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRender, err)
	}

	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, bin, "--headless", "--convert-to", "pdf", "--outdir", dir, in)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("%w: soffice: %w: %s", domain.ErrRender, err, out)
	}

	pdf, err := os.ReadFile(filepath.Join(dir, "digest.pdf"))
	if err != nil {
		return nil, fmt.Errorf("%w: read converted pdf: %w", domain.ErrRender, err)
	}

	l.log.Debug("rendered pdf with libreoffice", logger.Int("bytes", len(pdf)))
	return pdf, nil
}
