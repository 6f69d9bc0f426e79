package render

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajambaliya/gktodaypostpdf/internal/config"
	"github.com/ajambaliya/gktodaypostpdf/internal/document"
	"github.com/ajambaliya/gktodaypostpdf/internal/domain"
)

func TestHTML(t *testing.T) {
	doc, err := document.New("Intro")
	require.NoError(t, err)
	doc.Append(document.NewParagraph("Title <One>", document.StyleHeading1))
	doc.Append(document.NewParagraph("", document.StyleNormal))
	doc.Append(document.NewParagraph("Section", document.StyleHeading2))
	doc.Append(document.NewParagraph("Detail", document.StyleHeading4))
	doc.Append(document.NewParagraph("• point", document.StyleListBullet))

	html, err := HTML(doc)
	require.NoError(t, err)

	assert.Contains(t, html, "<p>Intro</p>")
	assert.Contains(t, html, "<h1>Title &lt;One&gt;</h1>")
	assert.Contains(t, html, "<h2>Section</h2>")
	assert.Contains(t, html, "<h4>Detail</h4>")
	assert.Contains(t, html, `<p class="bullet">• point</p>`)
	assert.NotContains(t, html, "<p></p>")
}

func TestNew(t *testing.T) {
	r, err := New(config.RenderConfig{Engine: "chrome"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &ChromeRenderer{}, r)

	r, err = New(config.RenderConfig{Engine: "libreoffice"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &LibreOfficeRenderer{}, r)

	_, err = New(config.RenderConfig{Engine: "word"}, nil)
	assert.Error(t, err)
}

// fakeSoffice writes a shell script that mimics soffice --convert-to pdf.
func fakeSoffice(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script stub requires a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "soffice")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
	return path
}

func TestLibreOfficeRenderer(t *testing.T) {
	doc, err := document.New("hello")
	require.NoError(t, err)

	t.Run("converts", func(t *testing.T) {
		// Arguments: --headless --convert-to pdf --outdir DIR INPUT
		bin := fakeSoffice(t, `printf '%%PDF-1.4 fake' > "$5/$(basename "$6" .docx).pdf"`+"\n")
		r := NewLibreOfficeRenderer(bin, 10*time.Second, nil)

		pdf, err := r.Render(context.Background(), doc)
		require.NoError(t, err)
		assert.Equal(t, "%PDF-1.4 fake", string(pdf))
	})

	t.Run("command failure", func(t *testing.T) {
		bin := fakeSoffice(t, "echo boom >&2\nexit 3\n")
		r := NewLibreOfficeRenderer(bin, 10*time.Second, nil)

		_, err := r.Render(context.Background(), doc)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrRender))
		assert.Contains(t, err.Error(), "boom")
	})

	t.Run("no output file", func(t *testing.T) {
		bin := fakeSoffice(t, "exit 0\n")
		r := NewLibreOfficeRenderer(bin, 10*time.Second, nil)

		_, err := r.Render(context.Background(), doc)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrRender))
	})
}

func TestChromeRenderer(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	if findFirstExecutable("chromium", "chromium-browser", "google-chrome", "brave-browser") == "" {
		t.Skip("no chrome executable available")
	}

	doc, err := document.New("hello")
	require.NoError(t, err)

	pdf, err := NewChromeRenderer("", 60*time.Second, nil).Render(context.Background(), doc)
	require.NoError(t, err)
	assert.True(t, len(pdf) > 4)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}
