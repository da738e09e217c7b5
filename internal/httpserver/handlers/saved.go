package handlers

import (
	"errors"
	"net/http"

	"github.com/MrSnakeDoc/propintel/internal/domain"
	"github.com/MrSnakeDoc/propintel/internal/httpserver/deps"
)

const (
	savedNotFound = "saved property not found"
	nothingToSave = "No property details to save. Extract a listing first."

	// SaveWarning is shown when the saved collection could not be written
	// to Redis. The change is kept in memory only.
	SaveWarning = "Could not save properties to durable storage. They will be lost when the service restarts."
)

type savedResponse struct {
	Property domain.StoredProperty `json:"property"`
	Warning  string                `json:"warning,omitempty"`
}

type deletedResponse struct {
	Deleted string `json:"deleted"`
	Warning string `json:"warning,omitempty"`
}

// SavedList lists saved properties, most recently saved first.
func SavedList(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Records.Saved())
	}
}

// Save stores the current record.
func Save(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, ok := d.Workspace.Current()
		if !ok {
			writeError(w, http.StatusConflict, nothingToSave)
			return
		}

		item, err := d.Records.Save(r.Context(), rec)
		resp := savedResponse{Property: item}
		if persistFailed(err) {
			d.Workspace.Warn(SaveWarning)
			resp.Warning = SaveWarning
		} else if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		writeJSON(w, http.StatusCreated, resp)
	}
}

func SavedGet(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		item, ok := d.Records.SavedProperty(idParam(r))
		if !ok {
			writeError(w, http.StatusNotFound, savedNotFound)
			return
		}
		writeJSON(w, http.StatusOK, item)
	}
}

// SavedDelete removes a saved property. Unknown ids succeed.
func SavedDelete(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := idParam(r)
		resp := deletedResponse{Deleted: id}

		err := d.Records.Delete(r.Context(), id)
		if persistFailed(err) {
			d.Workspace.Warn(SaveWarning)
			resp.Warning = SaveWarning
		} else if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

// ViewSaved makes a saved property the current record.
func ViewSaved(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		item, ok := d.Records.SavedProperty(idParam(r))
		if !ok {
			writeError(w, http.StatusNotFound, savedNotFound)
			return
		}
		d.Workspace.Show(item.Details)
		writeJSON(w, http.StatusOK, d.Workspace.Snapshot())
	}
}

func persistFailed(err error) bool {
	var werr *domain.PersistenceWriteError
	return errors.As(err, &werr)
}
