package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/ajambaliya/gktodaypostpdf/internal/domain"
	"github.com/ajambaliya/gktodaypostpdf/internal/logger"
	"github.com/ajambaliya/gktodaypostpdf/internal/repository"
)

// DedupGate filters discovered URLs against the persistent seen-set.
type DedupGate struct {
	store repository.SeenStore
	log   logger.Logger
}

func NewDedupGate(store repository.SeenStore, log logger.Logger) *DedupGate {
	return &DedupGate{store: store, log: log}
}

// FilterNew returns the URLs not seen by any earlier run, in input order.
// Each new URL is recorded as soon as it is found, so a crash later in the
// run leaves it marked seen.
func (g *DedupGate) FilterNew(ctx context.Context, urls []domain.ArticleURL) ([]domain.ArticleURL, error) {
	var fresh []domain.ArticleURL
	for _, u := range urls {
		seen, err := g.store.Exists(ctx, u)
		if err != nil {
			return nil, fmt.Errorf("%w: exists %s: %w", domain.ErrStore, u, err)
		}
		if seen {
			g.log.Debug("skipping seen url", logger.String("url", u))
			continue
		}
		if err := g.store.Insert(ctx, u); err != nil {
			return nil, fmt.Errorf("%w: insert %s: %w", domain.ErrStore, u, err)
		}
		fresh = append(fresh, u)
	}
	return fresh, nil
}

// DryRunStore reads through to a SeenStore but keeps inserts in memory, so a
// dry run leaves the persistent seen-set untouched.
type DryRunStore struct {
	store repository.SeenStore

	mu   sync.Mutex
	seen map[domain.ArticleURL]bool
}

func NewDryRunStore(store repository.SeenStore) *DryRunStore {
	return &DryRunStore{store: store, seen: make(map[domain.ArticleURL]bool)}
}

func (s *DryRunStore) Exists(ctx context.Context, url domain.ArticleURL) (bool, error) {
	s.mu.Lock()
	local := s.seen[url]
	s.mu.Unlock()
	if local {
		return true, nil
	}
	return s.store.Exists(ctx, url)
}

func (s *DryRunStore) Insert(_ context.Context, url domain.ArticleURL) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen[url] = true
	return nil
}
