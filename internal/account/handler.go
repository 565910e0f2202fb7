package account

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
	List(ctx context.Context, scope tenancy.Scope, limit, offset int) ([]*Account, error)
	Get(ctx context.Context, id int64) (*Account, error)
	Create(ctx context.Context, actor *auth.User, dto CreateAccountDTO) (*Account, error)
	Update(ctx context.Context, id int64, dto UpdateAccountDTO) (*Account, error)
	Delete(ctx context.Context, id int64) error
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

// ListAccounts handles GET /accounts
func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	scope, err := auth.ScopeFromContext(r.Context())
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	page := transport.PageFromRequest(r)
	accounts, err := h.Service.List(r.Context(), scope, page.Limit, page.Offset)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, transport.ListResponse{Data: accounts, Page: page})
}

// GetAccount handles GET /accounts/{id}
func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	id, err := h.IDParam(r, "id")
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	a, err := h.Service.Get(r.Context(), id)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, a)
}

// CreateAccount handles POST /accounts
func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		h.WriteAppError(w, r, internal.ErrAuthenticationRequired)
		return
	}

	var dto CreateAccountDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	a, err := h.Service.Create(r.Context(), principal.User, dto)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, a)
}

// UpdateAccount handles PUT /accounts/{id}
func (h *Handler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	id, err := h.IDParam(r, "id")
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	var dto UpdateAccountDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	a, err := h.Service.Update(r.Context(), id, dto)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, a)
}

// DeleteAccount handles DELETE /accounts/{id}
func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	id, err := h.IDParam(r, "id")
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	if err := h.Service.Delete(r.Context(), id); err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
