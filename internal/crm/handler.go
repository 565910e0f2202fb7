package crm

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/tenant-crm/internal/auth"
	"github.com/frahmantamala/tenant-crm/internal/tenancy"
	"github.com/frahmantamala/tenant-crm/internal/transport"
)

type ServiceAPI interface {
	ListCustomers(ctx context.Context, scope tenancy.Scope, limit, offset int) ([]*Customer, error)
	GetCustomer(ctx context.Context, id int64) (*Customer, error)
	ListDeals(ctx context.Context, scope tenancy.Scope, limit, offset int) ([]*Deal, error)
	GetDeal(ctx context.Context, id int64) (*Deal, error)
	ListTasks(ctx context.Context, scope tenancy.Scope, limit, offset int) ([]*Task, error)
	GetTask(ctx context.Context, id int64) (*Task, error)
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

func serveList[T any](h *Handler, w http.ResponseWriter, r *http.Request,
	list func(context.Context, tenancy.Scope, int, int) ([]*T, error)) {
	scope, err := auth.ScopeFromContext(r.Context())
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	page := transport.PageFromRequest(r)
	rows, err := list(r.Context(), scope, page.Limit, page.Offset)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, transport.ListResponse{Data: rows, Page: page})
}

func serveOne[T any](h *Handler, w http.ResponseWriter, r *http.Request,
	get func(context.Context, int64) (*T, error)) {
	id, err := h.IDParam(r, "id")
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	row, err := get(r.Context(), id)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, row)
}

// ListCustomers handles GET /customers
func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	serveList(h, w, r, h.Service.ListCustomers)
}

// GetCustomer handles GET /customers/{id}
func (h *Handler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	serveOne(h, w, r, h.Service.GetCustomer)
}

// ListDeals handles GET /deals
func (h *Handler) ListDeals(w http.ResponseWriter, r *http.Request) {
	serveList(h, w, r, h.Service.ListDeals)
}

// GetDeal handles GET /deals/{id}
func (h *Handler) GetDeal(w http.ResponseWriter, r *http.Request) {
	serveOne(h, w, r, h.Service.GetDeal)
}

// ListTasks handles GET /tasks
func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	serveList(h, w, r, h.Service.ListTasks)
}

// GetTask handles GET /tasks/{id}
func (h *Handler) GetTask(w http.ResponseWriter, r *http.Request) {
	serveOne(h, w, r, h.Service.GetTask)
}
