// Package module assembles the command pipeline behind the gateway webhook
package module

import (
	"github.com/go-chi/chi/v5"

	"rolelink/internal/services/bot/domain"
	bhttp "rolelink/internal/services/bot/http"
	"rolelink/internal/services/bot/service"
)

// Module bundles the bot service and its webhook surface
type Module struct {
	Svc      *service.Svc
	Handlers *bhttp.Handlers
}

// New wires the command pipeline
func New(ids service.IdentityPort, dir domain.DirectoryPort, msg domain.MessengerPort, cfg service.Config) *Module {
	svc := service.New(ids, dir, msg, cfg)
	return &Module{Svc: svc, Handlers: bhttp.NewHandlers(svc)}
}

// Mount attaches the webhook routes
func (m *Module) Mount(r chi.Router) { m.Handlers.Mount(r) }
