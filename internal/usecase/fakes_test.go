package usecase

import (
	"context"
	"errors"
	"sync"

	"github.com/ajambaliya/gktodaypostpdf/internal/document"
	"github.com/ajambaliya/gktodaypostpdf/internal/domain"
)

var errConnReset = errors.New("connection reset")

type memStore struct {
	mu      sync.Mutex
	seen    map[string]bool
	inserts []string
	failOn  string
}

func newMemStore(urls ...string) *memStore {
	s := &memStore{seen: map[string]bool{}}
	for _, u := range urls {
		s.seen[u] = true
	}
	return s
}

func (s *memStore) Exists(_ context.Context, url string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if url == s.failOn {
		return false, errConnReset
	}
	return s.seen[url], nil
}

func (s *memStore) Insert(_ context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen[url] = true
	s.inserts = append(s.inserts, url)
	return nil
}

type fakeScraper struct {
	urls        []string
	discoverErr error
	articles    map[string]domain.BilingualContentList
	extractErr  map[string]error
	extracted   []string
	started     chan struct{}
	block       chan struct{}
}

func (f *fakeScraper) Discover(context.Context) ([]string, error) {
	if f.started != nil {
		close(f.started)
	}
	if f.block != nil {
		<-f.block
	}
	return f.urls, f.discoverErr
}

func (f *fakeScraper) Extract(_ context.Context, url string) (domain.BilingualContentList, error) {
	f.extracted = append(f.extracted, url)
	if err := f.extractErr[url]; err != nil {
		return nil, err
	}
	return f.articles[url], nil
}

type fakeTemplates struct {
	data  []byte
	err   error
	calls int
}

func (f *fakeTemplates) Download(context.Context) ([]byte, error) {
	f.calls++
	return f.data, f.err
}

type fakeRenderer struct {
	err  error
	docs []*document.Document
}

func (f *fakeRenderer) Render(_ context.Context, doc *document.Document) ([]byte, error) {
	f.docs = append(f.docs, doc)
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.4 fake"), nil
}

type fakeSender struct {
	errs  []error
	calls int
	names []string
}

func (f *fakeSender) SendDocument(_ context.Context, name string, _ []byte) error {
	f.calls++
	f.names = append(f.names, name)
	if len(f.errs) == 0 {
		return nil
	}
	err := f.errs[0]
	f.errs = f.errs[1:]
	return err
}

type fakeArchiver struct {
	err  error
	keys []string
}

func (f *fakeArchiver) Archive(_ context.Context, name string, _ []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	key := "digests/" + name
	f.keys = append(f.keys, key)
	return key, nil
}
