package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajambaliya/gktodaypostpdf/internal/usecase"
)

type fakeRunner struct {
	res   *usecase.RunResult
	err   error
	calls int
}

func (f *fakeRunner) Run(context.Context) (*usecase.RunResult, error) {
	f.calls++
	return f.res, f.err
}

func serve(t *testing.T, h *RunHandler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestHandleRun(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		runner     *fakeRunner
		wantStatus int
		wantCalls  int
	}{
		{
			name:       "success",
			method:     http.MethodPost,
			runner:     &fakeRunner{res: &usecase.RunResult{NewArticles: 2, Blocks: 6, FileName: "x.pdf", Delivered: true, PDF: []byte("%PDF")}},
			wantStatus: http.StatusOK,
			wantCalls:  1,
		},
		{
			name:       "already running",
			method:     http.MethodPost,
			runner:     &fakeRunner{err: usecase.ErrRunInProgress},
			wantStatus: http.StatusConflict,
			wantCalls:  1,
		},
		{
			name:       "run failure",
			method:     http.MethodPost,
			runner:     &fakeRunner{err: errors.New("url discovery failed")},
			wantStatus: http.StatusInternalServerError,
			wantCalls:  1,
		},
		{
			name:       "wrong method",
			method:     http.MethodGet,
			runner:     &fakeRunner{},
			wantStatus: http.StatusMethodNotAllowed,
			wantCalls:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, NewRunHandler(tt.runner, 0, nil), tt.method, "/run")

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCalls, tt.runner.calls)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}

func TestHandleRun_Body(t *testing.T) {
	runner := &fakeRunner{res: &usecase.RunResult{NewArticles: 2, Blocks: 6, FileName: "x.pdf", Delivered: true, PDF: []byte("%PDF")}}
	rec := serve(t, NewRunHandler(runner, 0, nil), http.MethodPost, "/run")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, float64(2), body["new_articles"])
	assert.Equal(t, float64(6), body["blocks"])
	assert.Equal(t, "x.pdf", body["file_name"])
	assert.Equal(t, true, body["delivered"])
	assert.NotContains(t, body, "PDF")
}

func TestHandleHealth(t *testing.T) {
	h := NewRunHandler(&fakeRunner{}, 0, nil)

	rec := serve(t, h, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = serve(t, h, http.MethodPost, "/health")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

type blockingRunner struct {
	started chan context.Context
	release chan struct{}
}

func (b *blockingRunner) Run(ctx context.Context) (*usecase.RunResult, error) {
	b.started <- ctx
	<-b.release
	return &usecase.RunResult{}, ctx.Err()
}

func TestHandleRun_SurvivesClientDisconnect(t *testing.T) {
	runner := &blockingRunner{started: make(chan context.Context, 1), release: make(chan struct{})}
	h := NewRunHandler(runner, time.Minute, nil)

	reqCtx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodPost, "/run", nil).WithContext(reqCtx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.Routes().ServeHTTP(rec, req)
	}()

	runCtx := <-runner.started
	cancel()

	assert.NoError(t, runCtx.Err())
	_, hasDeadline := runCtx.Deadline()
	assert.True(t, hasDeadline, "run timeout still applies")

	close(runner.release)
	<-done
	assert.Equal(t, http.StatusOK, rec.Code)
}
