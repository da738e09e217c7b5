package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/propintel/internal/domain"
	"github.com/MrSnakeDoc/propintel/internal/export"
	"github.com/MrSnakeDoc/propintel/internal/httpserver/deps"
	"github.com/MrSnakeDoc/propintel/internal/logger"
)

// errNoRecord means the export source has nothing to render.
var errNoRecord = errors.New("no record")

// recordSource picks the record an export route renders.
type recordSource func(d deps.Deps, r *http.Request) (domain.PropertyDetails, error)

func currentRecord(d deps.Deps, _ *http.Request) (domain.PropertyDetails, error) {
	rec, ok := d.Workspace.Current()
	if !ok {
		return domain.PropertyDetails{}, errNoRecord
	}
	return rec, nil
}

func historyRecord(d deps.Deps, r *http.Request) (domain.PropertyDetails, error) {
	entry, ok := d.Records.HistoryEntry(idParam(r))
	if !ok {
		return domain.PropertyDetails{}, errNoRecord
	}
	return entry.Details, nil
}

func savedRecord(d deps.Deps, r *http.Request) (domain.PropertyDetails, error) {
	item, ok := d.Records.SavedProperty(idParam(r))
	if !ok {
		return domain.PropertyDetails{}, errNoRecord
	}
	return item.Details, nil
}

func ExportCurrent(d deps.Deps) http.HandlerFunc { return exportHandler(d, currentRecord) }
func ExportHistory(d deps.Deps) http.HandlerFunc { return exportHandler(d, historyRecord) }
func ExportSaved(d deps.Deps) http.HandlerFunc   { return exportHandler(d, savedRecord) }

// exportHandler renders a record as a downloadable JSON, CSV or XLSX file.
func exportHandler(d deps.Deps, source recordSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		format, err := export.ParseFormat(chi.URLParam(r, "format"))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		rec, err := source(d, r)
		if err != nil {
			writeError(w, http.StatusNotFound, "nothing to export")
			return
		}

		payload, err := export.Render(format, rec)
		if err != nil {
			d.Logger.Error("export failed",
				logger.String("format", string(format)),
				logger.Error(err))
			writeError(w, http.StatusInternalServerError, "export failed")
			return
		}
		d.Metrics.ExportRendered(string(format))

		w.Header().Set("Content-Type", payload.ContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", payload.Filename))
		w.Header().Set("Content-Length", strconv.Itoa(len(payload.Data)))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(payload.Data)
	}
}
