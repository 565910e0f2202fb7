package businessunit

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
	List(ctx context.Context, scope tenancy.Scope, limit, offset int) ([]*BusinessUnit, error)
	Get(ctx context.Context, id int64) (*BusinessUnit, error)
	Create(ctx context.Context, actor *auth.User, dto CreateBusinessUnitDTO) (*BusinessUnit, error)
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

// ListBusinessUnits handles GET /business-units
func (h *Handler) ListBusinessUnits(w http.ResponseWriter, r *http.Request) {
	scope, err := auth.ScopeFromContext(r.Context())
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	page := transport.PageFromRequest(r)
	units, err := h.Service.List(r.Context(), scope, page.Limit, page.Offset)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, transport.ListResponse{Data: units, Page: page})
}

// GetBusinessUnit handles GET /business-units/{id}
func (h *Handler) GetBusinessUnit(w http.ResponseWriter, r *http.Request) {
	id, err := h.IDParam(r, "id")
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	unit, err := h.Service.Get(r.Context(), id)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, unit)
}

// CreateBusinessUnit handles POST /business-units
func (h *Handler) CreateBusinessUnit(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		h.WriteAppError(w, r, internal.ErrAuthenticationRequired)
		return
	}

	var dto CreateBusinessUnitDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	unit, err := h.Service.Create(r.Context(), principal.User, dto)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, unit)
}
