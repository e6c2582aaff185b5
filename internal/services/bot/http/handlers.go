// Package http receives message events from the chat-platform gateway
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	pnet "rolelink/internal/platform/net"
	"rolelink/internal/platform/net/http/bind"
	"rolelink/internal/services/bot/domain"
	"rolelink/internal/services/bot/service"
)

// Handlers serves the gateway webhook
type Handlers struct {
	svc *service.Svc
}

// NewHandlers constructs the handler set
func NewHandlers(svc *service.Svc) *Handlers { return &Handlers{svc: svc} }

// Mount attaches the routes to the router
func (h *Handlers) Mount(r chi.Router) {
	r.Post("/webhook/message", h.message)
}

type messageEvent struct {
	ID        string `json:"id" validate:"required"`
	ChannelID string `json:"channel_id" validate:"required"`
	ServerID  string `json:"server_id"`
	SenderID  string `json:"sender_id" validate:"required"`
	Content   string `json:"content"`
}

type messageAck struct {
	Handled bool `json:"handled"`
}

// message runs one gateway message event through the command pipeline.
// Rejected and non-command messages still acknowledge with 200; the gateway
// must not retry them.
func (h *Handlers) message(w http.ResponseWriter, r *http.Request) {
	ev, err := bind.ParseJSON[messageEvent](r)
	if err != nil {
		pnet.RespondError(w, r, err)
		return
	}

	m := domain.IncomingMessage{
		ID:        ev.ID,
		ChannelID: ev.ChannelID,
		ServerID:  ev.ServerID,
		SenderID:  ev.SenderID,
		Content:   ev.Content,
	}
	if err := h.svc.HandleMessage(r.Context(), m); err != nil {
		pnet.RespondError(w, r, err)
		return
	}
	pnet.RespondOK(w, r, messageAck{Handled: true})
}
