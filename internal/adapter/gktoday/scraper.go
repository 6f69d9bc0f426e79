package gktoday

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ajambaliya/gktodaypostpdf/internal/adapter/httpclient"
	"github.com/ajambaliya/gktodaypostpdf/internal/config"
	"github.com/ajambaliya/gktodaypostpdf/internal/domain"
	"github.com/ajambaliya/gktodaypostpdf/internal/logger"
	"github.com/ajambaliya/gktodaypostpdf/internal/repository"
)

const bullet = "• "

type GKTodayScraper struct {
	client     *http.Client
	translator repository.Translator
	source     config.SourceConfig
	userAgent  string
	log        logger.Logger
}

func NewGKTodayScraper(client *http.Client, translator repository.Translator, source config.SourceConfig, userAgent string, log logger.Logger) *GKTodayScraper {
	return &GKTodayScraper{
		client:     client,
		translator: translator,
		source:     source,
		userAgent:  userAgent,
		log:        log,
	}
}

// Discover collects article links from the first source.Pages listing pages.
// Duplicates across pages are kept; the dedup gate handles them.
func (g *GKTodayScraper) Discover(ctx context.Context) ([]domain.ArticleURL, error) {
	var urls []domain.ArticleURL
	for page := 1; page <= g.source.Pages; page++ {
		pageURL := g.source.PageURL(page)

		doc, err := g.fetch(ctx, pageURL)
		if err != nil {
			return nil, fmt.Errorf("%w: page %d: %w", domain.ErrDiscovery, page, err)
		}

		found := ParseListing(doc, pageURL)
		g.log.Debug("listing page parsed", logger.String("url", pageURL), logger.Int("links", len(found)))
		urls = append(urls, found...)
	}
	return urls, nil
}

// ParseListing returns the href of the first anchor inside every h1#list
// heading. Headings without an anchor or href are skipped.
func ParseListing(doc *goquery.Document, pageURL string) []domain.ArticleURL {
	base, _ := url.Parse(pageURL)

	var urls []domain.ArticleURL
	doc.Find("h1#list").Each(func(i int, s *goquery.Selection) {
		href, ok := s.Find("a").First().Attr("href")
		href = strings.TrimSpace(href)
		if !ok || href == "" {
			return
		}
		urls = append(urls, resolve(base, href))
	})
	return urls
}

func resolve(base *url.URL, href string) string {
	if base == nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

// Extract fetches one article and returns its blocks in document order, each
// carrying the original text and its translation.
func (g *GKTodayScraper) Extract(ctx context.Context, articleURL domain.ArticleURL) (domain.BilingualContentList, error) {
	doc, err := g.fetch(ctx, articleURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrExtraction, articleURL, err)
	}

	nodes, err := ParseArticle(doc, g.source.ContentClass, g.source.SkipClasses)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrExtraction, articleURL, err)
	}

	list := make(domain.BilingualContentList, 0, len(nodes))
	for _, n := range nodes {
		translated := g.translator.Translate(ctx, n.Text)
		original := n.Text
		if n.Kind == domain.ListItem {
			translated = bullet + translated
			original = bullet + original
		}
		list = append(list, domain.ContentBlock{
			Kind:           n.Kind,
			OriginalText:   original,
			TranslatedText: translated,
		})
	}

	g.log.Info("article extracted", logger.String("url", articleURL), logger.Int("blocks", len(list)))
	return list, nil
}

// Node is one untranslated unit of article content.
type Node struct {
	Kind domain.Kind
	Text string
}

// ParseArticle locates the content container, its h1#list heading and the
// supported direct children. The heading node always comes first.
func ParseArticle(doc *goquery.Document, contentClass string, skipClasses [][]string) ([]Node, error) {
	want := strings.Fields(contentClass)
	container := doc.Find("div").FilterFunction(func(i int, s *goquery.Selection) bool {
		return classesEqual(classList(s), want)
	}).First()
	if container.Length() == 0 {
		return nil, fmt.Errorf("main content div not found")
	}

	heading := container.Find("h1#list").First()
	if heading.Length() == 0 {
		return nil, fmt.Errorf("heading not found")
	}

	nodes := []Node{{Kind: domain.Heading, Text: text(heading)}}

	container.Children().Each(func(i int, s *goquery.Selection) {
		if shouldSkip(classList(s), skipClasses) {
			return
		}
		switch goquery.NodeName(s) {
		case "p":
			nodes = append(nodes, Node{Kind: domain.Paragraph, Text: text(s)})
		case "h2":
			nodes = append(nodes, Node{Kind: domain.SubHeading2, Text: text(s)})
		case "h4":
			nodes = append(nodes, Node{Kind: domain.SubHeading4, Text: text(s)})
		case "ul":
			s.Find("li").Each(func(j int, li *goquery.Selection) {
				nodes = append(nodes, Node{Kind: domain.ListItem, Text: text(li)})
			})
		}
	})

	return nodes, nil
}

func text(s *goquery.Selection) string {
	return strings.TrimSpace(s.Text())
}

func classList(s *goquery.Selection) []string {
	class, ok := s.Attr("class")
	if !ok {
		return nil
	}
	return strings.Fields(class)
}

func classesEqual(a, b []string) bool {
	if len(a) != len(b) || len(a) == 0 {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func shouldSkip(classes []string, skip [][]string) bool {
	for _, sig := range skip {
		if classesEqual(classes, sig) {
			return true
		}
	}
	return false
}

func (g *GKTodayScraper) fetch(ctx context.Context, pageURL string) (*goquery.Document, error) {
	body, err := httpclient.Fetch(ctx, g.client, pageURL, g.userAgent)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	return doc, nil
}
