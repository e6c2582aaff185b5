// Package module assembles the registration flow
package module

import (
	"github.com/go-chi/chi/v5"

	"rolelink/internal/platform/store"
	iddom "rolelink/internal/services/identity/domain"
	"rolelink/internal/services/register/domain"
	rhttp "rolelink/internal/services/register/http"
	"rolelink/internal/services/register/repo"
	"rolelink/internal/services/register/service"
)

// Module bundles the register service with its session store and handlers
type Module struct {
	Svc      *service.Svc
	Handlers *rhttp.Handlers
}

// New wires the register service. Sessions live in redis when configured and
// in process memory otherwise.
func New(st *store.Store, checker iddom.CheckerPort, creator iddom.CreatorPort, cfg service.Config) *Module {
	var sessions domain.SessionPort
	if st.RD != nil {
		sessions = repo.NewRedis(st.RD)
	} else {
		sessions = repo.NewMemory()
	}
	svc := service.New(sessions, checker, creator, cfg)
	return &Module{Svc: svc, Handlers: rhttp.NewHandlers(svc)}
}

// Mount attaches the registration routes
func (m *Module) Mount(r chi.Router) { m.Handlers.Mount(r) }
