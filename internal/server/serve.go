package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"path"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"mockline/internal/engine"
)

const (
	msgMockNotFound = "Mock API not found"
	msgServeFailed  = "Failed to serve mock API"
)

// registerServe mounts the public serving route. It bypasses huma so the
// body is written exactly as materialized, and chaos responses carry nothing
// that tells them apart from a real failure.
func registerServe(r chi.Router, basePath string, e engine.Engine, log *zap.SugaredLogger) {
	r.Get(path.Join(basePath, "mock", "{mockId}"), func(w http.ResponseWriter, req *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Errorw("panic serving mock", "mock_id", chi.URLParam(req, "mockId"), "panic", rec)
				writeFlatError(w, http.StatusInternalServerError, msgServeFailed)
			}
		}()

		mockID := chi.URLParam(req, "mockId")
		resp, err := e.Serve(req.Context(), mockID)
		switch {
		case err == nil:
		case errors.Is(err, engine.ErrMockNotFound):
			writeFlatError(w, http.StatusNotFound, msgMockNotFound)
			return
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			// Caller went away during a delay; nobody is left to answer.
			log.Debugw("serve abandoned", "mock_id", mockID, "err", err)
			return
		default:
			log.Errorw("serve mock failed", "mock_id", mockID, "err", err)
			writeFlatError(w, http.StatusInternalServerError, msgServeFailed)
			return
		}

		data, err := json.Marshal(resp.Body)
		if err != nil {
			log.Errorw("encode mock body failed", "mock_id", mockID, "err", err)
			writeFlatError(w, http.StatusInternalServerError, msgServeFailed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(resp.Status)
		_, _ = w.Write(data)
	})
}

func writeFlatError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
