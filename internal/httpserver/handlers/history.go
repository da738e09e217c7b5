package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/propintel/internal/httpserver/deps"
)

const historyNotFound = "history entry not found"

// History lists retained extractions, most recent first.
func History(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Records.History())
	}
}

func HistoryEntry(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entry, ok := d.Records.HistoryEntry(idParam(r))
		if !ok {
			writeError(w, http.StatusNotFound, historyNotFound)
			return
		}
		writeJSON(w, http.StatusOK, entry)
	}
}

// ViewHistory makes a history entry the current record.
func ViewHistory(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entry, ok := d.Records.HistoryEntry(idParam(r))
		if !ok {
			writeError(w, http.StatusNotFound, historyNotFound)
			return
		}
		d.Workspace.Show(entry.Details)
		writeJSON(w, http.StatusOK, d.Workspace.Snapshot())
	}
}
