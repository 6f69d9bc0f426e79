package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ajambaliya/gktodaypostpdf/internal/document"
	"github.com/ajambaliya/gktodaypostpdf/internal/domain"
	"github.com/ajambaliya/gktodaypostpdf/internal/logger"
	"github.com/ajambaliya/gktodaypostpdf/internal/repository"
)

// Pipeline runs discovery, dedup, extraction, assembly, rendering and
// delivery as one sequential invocation.
type Pipeline struct {
	scraper   repository.Scraper
	gate      *DedupGate
	templates repository.TemplateSource
	assembler *Assembler
	renderer  repository.Renderer
	deliverer *Deliverer
	archiver  repository.Archiver
	log       logger.Logger
	now       func() time.Time

	mu sync.Mutex
}

// Deps groups the collaborators of a Pipeline. Deliverer and Archiver are
// optional; a nil Deliverer makes the run a dry run.
type Deps struct {
	Scraper   repository.Scraper
	Gate      *DedupGate
	Templates repository.TemplateSource
	Assembler *Assembler
	Renderer  repository.Renderer
	Deliverer *Deliverer
	Archiver  repository.Archiver
	Logger    logger.Logger
	Now       func() time.Time
}

func NewPipeline(d Deps) *Pipeline {
	now := d.Now
	if now == nil {
		now = time.Now
	}
	return &Pipeline{
		scraper:   d.Scraper,
		gate:      d.Gate,
		templates: d.Templates,
		assembler: d.Assembler,
		renderer:  d.Renderer,
		deliverer: d.Deliverer,
		archiver:  d.Archiver,
		log:       d.Logger,
		now:       now,
	}
}

// RunResult summarizes one invocation. Document and PDF are nil when no new
// articles were found.
type RunResult struct {
	NewArticles int                `json:"new_articles"`
	Blocks      int                `json:"blocks"`
	FileName    string             `json:"file_name,omitempty"`
	Delivered   bool               `json:"delivered"`
	ArchiveKey  string             `json:"archive_key,omitempty"`
	Document    *document.Document `json:"-"`
	PDF         []byte             `json:"-"`
}

// FileName is the delivered PDF name for the given run date.
func FileName(t time.Time) string {
	return t.Format("02 January 2006") + " Current Affairs.pdf"
}

// Run executes one invocation. Any failure before delivery aborts the run;
// URLs already recorded by the dedup gate stay recorded. Delivery and
// archive failures are logged and reflected in the result only.
func (p *Pipeline) Run(ctx context.Context) (*RunResult, error) {
	if !p.mu.TryLock() {
		return nil, ErrRunInProgress
	}
	defer p.mu.Unlock()

	started := p.now()
	res := &RunResult{}

	urls, err := p.scraper.Discover(ctx)
	if err != nil {
		p.log.Error("url discovery failed", logger.Error(err))
		return nil, err
	}
	p.log.Info("urls discovered", logger.Int("count", len(urls)))
	p.log.Debug("discovered urls", logger.Strings("urls", urls))

	fresh, err := p.gate.FilterNew(ctx, urls)
	if err != nil {
		p.log.Error("dedup gate failed", logger.Error(err))
		return nil, err
	}
	res.NewArticles = len(fresh)
	if len(fresh) == 0 {
		p.log.Info("no new articles found to scrape")
		return res, nil
	}

	raw, err := p.templates.Download(ctx)
	if err != nil {
		p.log.Error("template download failed", logger.Error(err))
		return nil, err
	}
	doc, err := document.Open(raw)
	if err != nil {
		p.log.Error("template is not a valid docx", logger.Error(err))
		return nil, fmt.Errorf("%w: %w", domain.ErrTemplate, err)
	}
	p.log.Info("template loaded successfully")

	var all domain.BilingualContentList
	for i, u := range fresh {
		p.log.Info("scraping article",
			logger.String("url", u), logger.Int("index", i+1), logger.Int("total", len(fresh)))
		blocks, err := p.scraper.Extract(ctx, u)
		if err != nil {
			p.log.Error("article extraction failed", logger.String("url", u), logger.Error(err))
			return nil, err
		}
		all = append(all, blocks...)
	}
	res.Blocks = len(all)

	if err := p.assembler.Assemble(doc, all); err != nil {
		p.log.Error("template placeholders missing, fix the template", logger.Error(err))
		return nil, err
	}
	res.Document = doc

	pdf, err := p.renderer.Render(ctx, doc)
	if err != nil {
		p.log.Error("pdf rendering failed", logger.Error(err))
		if !errors.Is(err, domain.ErrRender) {
			err = fmt.Errorf("%w: %w", domain.ErrRender, err)
		}
		return nil, err
	}
	res.PDF = pdf
	res.FileName = FileName(started)

	if p.deliverer != nil {
		if err := p.deliverer.Deliver(ctx, res.FileName, pdf); err != nil {
			p.log.Error("delivery failed", logger.String("file", res.FileName), logger.Error(err))
		} else {
			res.Delivered = true
		}
	}

	if p.archiver != nil {
		key, err := p.archiver.Archive(ctx, res.FileName, pdf)
		if err != nil {
			p.log.Warn("archive upload failed", logger.String("file", res.FileName), logger.Error(err))
		} else {
			res.ArchiveKey = key
		}
	}

	p.log.Info("run complete",
		logger.Int("articles", res.NewArticles),
		logger.Int("blocks", res.Blocks),
		logger.Bool("delivered", res.Delivered),
		logger.Duration("elapsed", p.now().Sub(started)))
	return res, nil
}
