// Package translate implements the block translator against the Google
// Translate web endpoint.
package translate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cenkalti/backoff/v5"
	"github.com/tidwall/gjson"

	"github.com/ajambaliya/gktodaypostpdf/internal/logger"
)

// MaxChars is the largest payload the endpoint accepts.
const MaxChars = 5000

// ErrNotFound means the service answered but produced no translation. It is
// terminal: retrying will not change the answer.
var ErrNotFound = errors.New("no translation found")

// Options configures a GoogleTranslator.
type Options struct {
	Endpoint    string
	Source      string
	Target      string
	MaxAttempts int
	Backoff     time.Duration
	UserAgent   string
}

// GoogleTranslator translates text with retry and falls back to the input
// when the service cannot help.
type GoogleTranslator struct {
	client *http.Client
	opts   Options
	log    logger.Logger
}

func NewGoogleTranslator(client *http.Client, opts Options, log logger.Logger) *GoogleTranslator {
	if opts.Source == "" {
		opts.Source = "auto"
	}
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1
	}
	return &GoogleTranslator{client: client, opts: opts, log: log}
}

// Translate returns text in the target language, or text itself when the
// translation is not found or every attempt failed.
func (g *GoogleTranslator) Translate(ctx context.Context, text string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	if utf8.RuneCountInString(text) > MaxChars {
		g.log.Warn("text too long to translate, keeping original",
			logger.Int("chars", utf8.RuneCountInString(text)))
		return text
	}

	attempt := 0
	op := func() (string, error) {
		attempt++
		out, err := g.request(ctx, text)
		if errors.Is(err, ErrNotFound) {
			return "", backoff.Permanent(err)
		}
		if err != nil {
			g.log.Warn("error in translation", logger.Int("attempt", attempt), logger.Error(err))
			return "", err
		}
		return out, nil
	}

	out, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(backoff.NewConstantBackOff(g.opts.Backoff)),
		backoff.WithMaxTries(uint(g.opts.MaxAttempts)),
	)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			g.log.Warn("translation not found, keeping original")
		} else {
			g.log.Warn("translation degraded, keeping original",
				logger.Int("attempts", attempt), logger.Error(err))
		}
		return text
	}
	return out
}

func (g *GoogleTranslator) request(ctx context.Context, text string) (string, error) {
	params := url.Values{}
	params.Set("client", "gtx")
	params.Set("sl", g.opts.Source)
	params.Set("tl", g.opts.Target)
	params.Set("dt", "t")

	form := url.Values{}
	form.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		g.opts.Endpoint+"?"+params.Encode(), strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded;charset=utf-8")
	if g.opts.UserAgent != "" {
		req.Header.Set("User-Agent", g.opts.UserAgent)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("translate request failed: %d", resp.StatusCode)
	}

	return parseResponse(body)
}

// parseResponse joins the translated segments of a gtx response:
// [[["translated","source",...],...],null,"en",...].
func parseResponse(body []byte) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", fmt.Errorf("invalid translate response")
	}
	root := gjson.ParseBytes(body)
	if !root.IsArray() {
		return "", fmt.Errorf("unexpected translate response shape")
	}

	var sb strings.Builder
	root.Get("0").ForEach(func(_, seg gjson.Result) bool {
		sb.WriteString(seg.Get("0").String())
		return true
	})

	out := sb.String()
	if strings.TrimSpace(out) == "" {
		return "", ErrNotFound
	}
	return out, nil
}
