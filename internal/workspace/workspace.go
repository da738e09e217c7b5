// Package workspace holds what the user is currently looking at: at most
// one record and at most one error message.
package workspace

import (
	"sync"

	"github.com/MrSnakeDoc/propintel/internal/domain"
)

// Snapshot is a copy of the workspace state.
type Snapshot struct {
	Record *domain.PropertyDetails `json:"record"`
	Error  string                  `json:"error,omitempty"`
}

// Workspace is safe for concurrent use.
type Workspace struct {
	mu      sync.RWMutex
	current *domain.PropertyDetails
	err     string
}

func New() *Workspace {
	return &Workspace{}
}

// Show makes a copy of rec the current record and clears any error.
func (w *Workspace) Show(rec domain.PropertyDetails) {
	rec = rec.Clone()
	rec.Normalize()
	w.mu.Lock()
	w.current = &rec
	w.err = ""
	w.mu.Unlock()
}

// Fail clears the current record and shows msg.
func (w *Workspace) Fail(msg string) {
	w.mu.Lock()
	w.current = nil
	w.err = msg
	w.mu.Unlock()
}

// Warn shows msg and keeps the current record.
func (w *Workspace) Warn(msg string) {
	w.mu.Lock()
	w.err = msg
	w.mu.Unlock()
}

// Clear drops both the record and the error.
func (w *Workspace) Clear() {
	w.mu.Lock()
	w.current = nil
	w.err = ""
	w.mu.Unlock()
}

// Current returns a copy of the current record, if any.
func (w *Workspace) Current() (domain.PropertyDetails, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.current == nil {
		return domain.PropertyDetails{}, false
	}
	return w.current.Clone(), true
}

func (w *Workspace) Snapshot() Snapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()
	s := Snapshot{Error: w.err}
	if w.current != nil {
		rec := w.current.Clone()
		s.Record = &rec
	}
	return s
}
