package tenant

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/tenant-crm/internal/auth"
	"github.com/frahmantamala/tenant-crm/internal/tenancy"
	"github.com/frahmantamala/tenant-crm/internal/transport"
)

type ServiceAPI interface {
	List(ctx context.Context, scope tenancy.Scope, limit, offset int) ([]*Tenant, error)
	Get(ctx context.Context, id int64) (*Tenant, error)
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

// ListTenants handles GET /tenants
func (h *Handler) ListTenants(w http.ResponseWriter, r *http.Request) {
	scope, err := auth.ScopeFromContext(r.Context())
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	page := transport.PageFromRequest(r)
	tenants, err := h.Service.List(r.Context(), scope, page.Limit, page.Offset)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, transport.ListResponse{Data: tenants, Page: page})
}

// GetTenant handles GET /tenants/{id}
func (h *Handler) GetTenant(w http.ResponseWriter, r *http.Request) {
	id, err := h.IDParam(r, "id")
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	t, err := h.Service.Get(r.Context(), id)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, t)
}
