package user

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/tenant-crm/internal"
	"github.com/frahmantamala/tenant-crm/internal/auth"
	"github.com/frahmantamala/tenant-crm/internal/tenancy"
	"github.com/frahmantamala/tenant-crm/internal/transport"
)

type ServiceAPI interface {
	List(ctx context.Context, scope tenancy.Scope, limit, offset int) ([]*User, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI, lg *slog.Logger) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

// GetCurrentUser handles GET /users/me. It answers from the principal the
// identity stage already loaded.
func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		h.WriteAppError(w, r, internal.ErrAuthenticationRequired)
		return
	}
	h.WriteJSON(w, http.StatusOK, NewCurrentUserResponse(principal))
}

// ListUsers handles GET /users
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	scope, err := auth.ScopeFromContext(r.Context())
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	page := transport.PageFromRequest(r)
	users, err := h.Service.List(r.Context(), scope, page.Limit, page.Offset)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, transport.ListResponse{Data: users, Page: page})
}
