// Package module assembles identity storage, service, and HTTP surface
package module

import (
	"context"

	"github.com/go-chi/chi/v5"

	"rolelink/internal/platform/store"
	auditdom "rolelink/internal/services/audit/domain"
	ihttp "rolelink/internal/services/identity/http"
	"rolelink/internal/services/identity/repo"
	"rolelink/internal/services/identity/service"
)

// Module bundles the identity service with its repo and handlers
type Module struct {
	Svc      *service.Svc
	Repo     *repo.PG
	Handlers *ihttp.Handlers
}

// New wires the identity service against postgres and the audit trail
func New(ctx context.Context, st *store.Store, audit auditdom.RecorderPort, cfg service.Config) (*Module, error) {
	r := repo.NewPG(st.PG)
	if err := r.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	svc := service.New(r, audit, cfg)
	return &Module{Svc: svc, Repo: r, Handlers: ihttp.NewHandlers(svc)}, nil
}

// Mount attaches the identity routes
func (m *Module) Mount(r chi.Router) { m.Handlers.Mount(r) }
