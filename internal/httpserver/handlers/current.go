package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/propintel/internal/httpserver/deps"
)

// Current returns the workspace: the record on display and the error, if any.
func Current(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Workspace.Snapshot())
	}
}

// ClearCurrent empties the workspace.
func ClearCurrent(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d.Workspace.Clear()
		w.WriteHeader(http.StatusNoContent)
	}
}

type sampleResponse struct {
	Text string `json:"text"`
}

// Sample returns a ready-made listing to try the extractor with.
func Sample(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, sampleResponse{Text: d.SampleText})
	}
}
