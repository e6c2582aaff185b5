// Package http exposes the registration flow over REST
package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	pnet "rolelink/internal/platform/net"
	"rolelink/internal/platform/net/http/bind"
	"rolelink/internal/services/register/domain"
	"rolelink/internal/services/register/service"
)

// Handlers serves the registration endpoints
type Handlers struct {
	svc *service.Svc
}

// NewHandlers constructs the handler set
func NewHandlers(svc *service.Svc) *Handlers { return &Handlers{svc: svc} }

// Mount attaches the routes to the router
func (h *Handlers) Mount(r chi.Router) {
	r.Route("/register", func(r chi.Router) {
		r.Post("/", h.begin)
		r.Get("/{id}", h.info)
		r.Post("/{id}/discord", h.attachDiscord)
		r.Post("/{id}/idp", h.attachIdp)
		r.Post("/{id}/complete", h.complete)
		r.Delete("/{id}", h.cancel)
	})
}

type sessionView struct {
	ID              string    `json:"id"`
	HasDiscord      bool      `json:"has_discord"`
	HasIdp          bool      `json:"has_idp"`
	DiscordUsername string    `json:"discord_username,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	ExpiresAt       time.Time `json:"expires_at"`
}

// viewOf strips everything sensitive from a session before it goes on the wire
func viewOf(s *domain.Session) sessionView {
	return sessionView{
		ID:              s.ID,
		HasDiscord:      s.HasDiscord(),
		HasIdp:          s.HasIdp(),
		DiscordUsername: s.DiscordUsername,
		CreatedAt:       s.CreatedAt,
		ExpiresAt:       s.ExpiresAt,
	}
}

type userView struct {
	DiscordID string    `json:"discord_id"`
	CreatedAt time.Time `json:"created_at"`
}

type attachDiscordRequest struct {
	DiscordID string `json:"discord_id" validate:"required"`
	Username  string `json:"username" validate:"required"`
	Avatar    string `json:"avatar"`
}

type attachIdpRequest struct {
	IdpID string `json:"idp_id" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

type completeRequest struct {
	KeepIdentity bool `json:"keep_identity"`
}

func (h *Handlers) begin(w http.ResponseWriter, r *http.Request) {
	sess, err := h.svc.Begin(r.Context())
	if err != nil {
		pnet.RespondError(w, r, err)
		return
	}
	pnet.RespondCreated(w, r, viewOf(sess))
}

func (h *Handlers) info(w http.ResponseWriter, r *http.Request) {
	sess, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		pnet.RespondError(w, r, err)
		return
	}
	pnet.RespondOK(w, r, viewOf(sess))
}

func (h *Handlers) attachDiscord(w http.ResponseWriter, r *http.Request) {
	req, err := bind.ParseJSON[attachDiscordRequest](r)
	if err != nil {
		pnet.RespondError(w, r, err)
		return
	}
	sess, err := h.svc.AttachDiscord(r.Context(), chi.URLParam(r, "id"), req.DiscordID, req.Username, req.Avatar)
	if err != nil {
		pnet.RespondError(w, r, err)
		return
	}
	pnet.RespondOK(w, r, viewOf(sess))
}

func (h *Handlers) attachIdp(w http.ResponseWriter, r *http.Request) {
	req, err := bind.ParseJSON[attachIdpRequest](r)
	if err != nil {
		pnet.RespondError(w, r, err)
		return
	}
	sess, err := h.svc.AttachIdp(r.Context(), chi.URLParam(r, "id"), req.IdpID, req.Email)
	if err != nil {
		pnet.RespondError(w, r, err)
		return
	}
	pnet.RespondOK(w, r, viewOf(sess))
}

func (h *Handlers) complete(w http.ResponseWriter, r *http.Request) {
	req, err := bind.ParseJSON[completeRequest](r)
	if err != nil {
		pnet.RespondError(w, r, err)
		return
	}
	u, err := h.svc.Complete(r.Context(), chi.URLParam(r, "id"), req.KeepIdentity)
	if err != nil {
		pnet.RespondError(w, r, err)
		return
	}
	pnet.RespondCreated(w, r, userView{DiscordID: u.DiscordID, CreatedAt: u.CreatedAt})
}

func (h *Handlers) cancel(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Cancel(r.Context(), chi.URLParam(r, "id")); err != nil {
		pnet.RespondError(w, r, err)
		return
	}
	pnet.RespondOK(w, r, nil)
}
