package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ajambaliya/gktodaypostpdf/internal/logger"
	"github.com/ajambaliya/gktodaypostpdf/internal/usecase"
)

// Runner executes one pipeline invocation.
type Runner interface {
	Run(ctx context.Context) (*usecase.RunResult, error)
}

// RunHandler exposes the pipeline to schedulers over HTTP.
type RunHandler struct {
	runner  Runner
	timeout time.Duration
	log     logger.Logger
}

// NewRunHandler creates a handler. A zero timeout leaves runs bounded only by
// the request context.
func NewRunHandler(runner Runner, timeout time.Duration, log logger.Logger) *RunHandler {
	if log == nil {
		log = logger.NewNop()
	}
	return &RunHandler{runner: runner, timeout: timeout, log: log}
}

// Routes registers the handler endpoints on a new mux.
func (h *RunHandler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/run", h.HandleRun)
	mux.HandleFunc("/health", h.HandleHealth)
	return mux
}

// HandleRun triggers a run and reports its summary.
func (h *RunHandler) HandleRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	// The run outlives the request; URLs are marked seen before extraction.
	ctx := context.WithoutCancel(r.Context())
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	h.log.Info("run triggered over http", logger.String("remote", r.RemoteAddr))
	res, err := h.runner.Run(ctx)
	if err != nil {
		if errors.Is(err, usecase.ErrRunInProgress) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		h.log.Error("triggered run failed", logger.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSONResponse(w, http.StatusOK, res)
}

func (h *RunHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSONResponse(w, status, map[string]string{"error": msg})
}

// writeJSONResponse is a helper for sending JSON replies.
func writeJSONResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
