package routes

import (
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/propintel/internal/httpserver/deps"
)

type (
	Registrar  func(r chi.Router, d deps.Deps)
	Middleware = func(http.Handler) http.Handler
)

type entry struct {
	name string
	reg  Registrar
	mws  []Middleware
}

var registry []entry

// Register adds a named group of routes. Route files call it from init.
// mws apply to every route of the group.
func Register(name string, reg Registrar, mws ...Middleware) {
	registry = append(registry, entry{name: name, reg: reg, mws: mws})
}

// RegisterAll mounts every group on r, in name order so the routing table
// does not depend on file init order. Called once per router from server.New.
func RegisterAll(r chi.Router, d deps.Deps) {
	for _, e := range sorted() {
		target := r
		if len(e.mws) > 0 {
			target = r.With(e.mws...)
		}
		e.reg(target, d)
		d.Logger.Debugf("routes: mounted %s", e.name)
	}
}

// Names lists the registered groups.
func Names() []string {
	out := make([]string, 0, len(registry))
	for _, e := range sorted() {
		out = append(out, e.name)
	}
	return out
}

func sorted() []entry {
	out := append([]entry(nil), registry...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}
