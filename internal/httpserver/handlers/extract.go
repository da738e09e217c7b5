package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/MrSnakeDoc/propintel/internal/domain"
	"github.com/MrSnakeDoc/propintel/internal/extraction"
	"github.com/MrSnakeDoc/propintel/internal/httpserver/deps"
	"github.com/MrSnakeDoc/propintel/internal/logger"
)

// maxExtractBody caps pasted listing text.
const maxExtractBody = 2 << 20

// Extract runs one extraction attempt from {"url": ..., "text": ...}.
func Extract(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req extraction.Request
		dec := json.NewDecoder(io.LimitReader(r.Body, maxExtractBody))
		if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "request body must be JSON: {\"url\": \"...\", \"text\": \"...\"}")
			return
		}

		res, err := d.Extraction.Extract(r.Context(), req)
		if err != nil {
			status := extractStatus(err)
			if status == http.StatusTooManyRequests {
				w.Header().Set("Retry-After", "5")
				d.Logger.Debug("extraction rejected, another one is running",
					logger.String("remote_ip", r.RemoteAddr))
			}
			writeError(w, status, extraction.Message(err))
			return
		}

		writeJSON(w, http.StatusOK, res)
	}
}

func extractStatus(err error) int {
	var (
		verr *domain.ValidationError
		ferr *domain.FetchError
		eerr *domain.ExtractionError
	)
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.As(err, &ferr), errors.Is(err, domain.ErrEmptyContent):
		return http.StatusBadGateway
	case errors.As(err, &eerr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, extraction.ErrBusy):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
