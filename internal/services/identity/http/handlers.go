// Package http exposes user lookups and the audited identity access endpoint
package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	perr "rolelink/internal/platform/errors"
	pnet "rolelink/internal/platform/net"
	"rolelink/internal/platform/net/http/bind"
	"rolelink/internal/services/identity/domain"
	"rolelink/internal/services/identity/service"
)

// Handlers serves the identity endpoints
type Handlers struct {
	svc *service.Svc
}

// NewHandlers constructs the handler set
func NewHandlers(svc *service.Svc) *Handlers { return &Handlers{svc: svc} }

// Mount attaches the routes to the router
func (h *Handlers) Mount(r chi.Router) {
	r.Route("/user", func(r chi.Router) {
		r.Get("/{discordID}", h.getUser)
		r.Get("/{discordID}/advisory", h.getAdvisory)
	})
	r.Post("/admin/identity", h.accessIdentity)
}

type userView struct {
	DiscordID  string    `json:"discord_id"`
	Registered bool      `json:"registered"`
	CreatedAt  time.Time `json:"created_at,omitempty"`
}

func (h *Handlers) getUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "discordID")
	u, err := h.svc.GetUser(r.Context(), id)
	if err != nil {
		pnet.RespondError(w, r, err)
		return
	}
	if u == nil {
		pnet.RespondOK(w, r, userView{DiscordID: id})
		return
	}
	pnet.RespondOK(w, r, userView{DiscordID: u.DiscordID, Registered: true, CreatedAt: u.CreatedAt})
}

type advisoryView struct {
	Allowed  bool              `json:"allowed"`
	Reason   string            `json:"reason,omitempty"`
	I18nKey  string            `json:"i18n,omitempty"`
	I18nData map[string]string `json:"i18n_data,omitempty"`
}

// getAdvisory re-runs the service-usage advisory for a registered user
func (h *Handlers) getAdvisory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "discordID")
	u, err := h.svc.GetUser(r.Context(), id)
	if err != nil {
		pnet.RespondError(w, r, err)
		return
	}
	if u == nil {
		pnet.RespondError(w, r, perr.NotFoundf("user %s is not registered", id))
		return
	}
	adv, err := h.svc.CanUseService(r.Context(), u)
	if err != nil {
		pnet.RespondError(w, r, err)
		return
	}
	pnet.RespondOK(w, r, advisoryView{
		Allowed:  adv.Allowed(),
		Reason:   adv.Reason(),
		I18nKey:  adv.I18nKey(),
		I18nData: adv.I18nData(),
	})
}

type identityAccessRequest struct {
	Target    string `json:"target" validate:"required"`
	Requester string `json:"requester" validate:"required"`
	Reason    string `json:"reason" validate:"required"`
}

type identityAccessView struct {
	DiscordID string `json:"discord_id"`
	Email     string `json:"email"`
}

// accessIdentity reads a user's recorded identity under an explicit, audited
// grant. The requester must be on the admin list.
func (h *Handlers) accessIdentity(w http.ResponseWriter, r *http.Request) {
	req, err := bind.ParseJSON[identityAccessRequest](r)
	if err != nil {
		pnet.RespondError(w, r, err)
		return
	}
	if !h.svc.IsAdmin(req.Requester) {
		pnet.RespondError(w, r, perr.Newf(perr.ErrorCodeForbidden,
			"requester %s is not an admin", req.Requester))
		return
	}

	u, err := h.svc.GetUser(r.Context(), req.Target)
	if err != nil {
		pnet.RespondError(w, r, err)
		return
	}
	if u == nil {
		pnet.RespondError(w, r, perr.NotFoundf("user %s is not registered", req.Target))
		return
	}

	grant := domain.GrantIdentityAccess(req.Requester, req.Reason, false)
	email, err := h.svc.GetIdentity(r.Context(), u, grant)
	if err != nil {
		pnet.RespondError(w, r, err)
		return
	}
	pnet.RespondOK(w, r, identityAccessView{DiscordID: u.DiscordID, Email: email})
}
