package render

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/ajambaliya/gktodaypostpdf/internal/document"
	"github.com/ajambaliya/gktodaypostpdf/internal/domain"
	"github.com/ajambaliya/gktodaypostpdf/internal/logger"
)

// ChromeRenderer prints the HTML layout of a document with headless Chrome.
type ChromeRenderer struct {
	execPath string
	timeout  time.Duration
	log      logger.Logger
}

func NewChromeRenderer(execPath string, timeout time.Duration, log logger.Logger) *ChromeRenderer {
	if log == nil {
		log = logger.NewNop()
	}
	return &ChromeRenderer{execPath: execPath, timeout: timeout, log: log}
}

func (c *ChromeRenderer) Render(ctx context.Context, doc *document.Document) ([]byte, error) {
	html, err := HTML(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: build html: %w", domain.ErrRender, err)
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:], chromedp.Flag("headless", true))
	execPath := c.execPath
	if execPath == "" {
		execPath = findFirstExecutable("chromium", "chromium-browser", "google-chrome", "brave-browser")
	}
	if execPath != "" {
		opts = append(opts, chromedp.ExecPath(execPath))
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	taskCtx, cancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(format string, args ...interface{}) {
		c.log.Debug(fmt.Sprintf(format, args...))
	}))
	defer cancel()

	var pdf []byte
	err = chromedp.Run(taskCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: chromedp print: %w", domain.ErrRender, err)
	}

	c.log.Debug("rendered pdf with chrome", logger.Int("bytes", len(pdf)))
	return pdf, nil
}
