// Package module assembles the audit service over the configured backend
package module

import (
	"context"

	"github.com/go-chi/chi/v5"

	"rolelink/internal/platform/store"
	ahttp "rolelink/internal/services/audit/http"
	"rolelink/internal/services/audit/repo"
	"rolelink/internal/services/audit/service"
)

// Module bundles the audit service and its storage
type Module struct {
	Svc      *service.Svc
	Handlers *ahttp.Handlers
}

// New picks the columnar trail when clickhouse is configured and the
// in-process trail otherwise
func New(ctx context.Context, st *store.Store) (*Module, error) {
	var svc *service.Svc
	if st.CH != nil {
		ch := repo.NewCH(st.CH)
		if err := ch.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		svc = service.New(ch)
	} else {
		svc = service.New(repo.NewMemory(0))
	}
	return &Module{Svc: svc, Handlers: ahttp.NewHandlers(svc)}, nil
}

// Mount attaches the audit routes
func (m *Module) Mount(r chi.Router) { m.Handlers.Mount(r) }
