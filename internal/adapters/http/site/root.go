// Package site serves the embedded comparison page.
package site

import (
	"context"
	"errors"
	"net/http"
)

// ErrServe is returned when the embedded page cannot be served.
var ErrServe = errors.New("site serve failed")

// Register attaches the comparison page and its assets at / on mux.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	mux.Handle("/", NewRootHandler())
}

// RootHandler serves the embedded page. Only GET and HEAD are answered.
type RootHandler struct {
	files http.Handler
}

// NewRootHandler creates a new root handler
func NewRootHandler() *RootHandler {
	return &RootHandler{files: http.FileServer(FS())}
}

// ServeHTTP serves index.html at / and the static assets next to it.
func (h *RootHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.NotFound(w, r)
		return
	}
	h.files.ServeHTTP(w, r)
}
