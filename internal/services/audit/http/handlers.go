// Package http exposes the identity-access trail to operators
package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	pnet "rolelink/internal/platform/net"
	"rolelink/internal/services/audit/domain"
)

// Handlers serves the audit endpoints
type Handlers struct {
	query domain.QueryPort
}

// NewHandlers constructs the handler set
func NewHandlers(query domain.QueryPort) *Handlers { return &Handlers{query: query} }

// Mount attaches the routes to the router
func (h *Handlers) Mount(r chi.Router) {
	r.Get("/admin/audit", h.recent)
}

// recent lists the latest identity accesses, optionally filtered by target
func (h *Handlers) recent(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	events, err := h.query.Recent(r.Context(), r.URL.Query().Get("target"), limit)
	if err != nil {
		pnet.RespondError(w, r, err)
		return
	}
	pnet.RespondOK(w, r, events)
}
