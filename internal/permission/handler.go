package permission

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/tenant-crm/internal/transport"
	"github.com/go-chi/chi"
)

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
	Actors  ActorSource
}

func NewHandler(svc ServiceAPI, lg *slog.Logger, actors ActorSource) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
		Actors:      actors,
	}
}

// ListCatalog handles GET /permissions
func (h *Handler) ListCatalog(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, NewCatalogResponse(h.Service.Catalog()))
}

// ListRoleGrants handles GET /roles/{role}/permissions
func (h *Handler) ListRoleGrants(w http.ResponseWriter, r *http.Request) {
	role := chi.URLParam(r, "role")
	grants, err := h.Service.RoleGrants(r.Context(), role)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, GrantsResponse{Subject: role, Grants: grants})
}

// PutRoleGrant handles PUT /roles/{role}/permissions/{permission}
func (h *Handler) PutRoleGrant(w http.ResponseWriter, r *http.Request) {
	var dto GrantDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	if err := dto.Validate(); err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	actor, err := h.Actors(r.Context())
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	if err := h.Service.SetRoleGrant(r.Context(), actor, chi.URLParam(r, "role"), chi.URLParam(r, "permission"), *dto.Granted); err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListUserGrants handles GET /users/{id}/permissions
func (h *Handler) ListUserGrants(w http.ResponseWriter, r *http.Request) {
	userID, err := h.IDParam(r, "id")
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	grants, err := h.Service.UserGrants(r.Context(), userID)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, GrantsResponse{Subject: chi.URLParam(r, "id"), Grants: grants})
}

// PutUserGrant handles PUT /users/{id}/permissions/{permission}
func (h *Handler) PutUserGrant(w http.ResponseWriter, r *http.Request) {
	userID, err := h.IDParam(r, "id")
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	var dto GrantDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	if err := dto.Validate(); err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	actor, err := h.Actors(r.Context())
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	if err := h.Service.SetUserGrant(r.Context(), actor, userID, chi.URLParam(r, "permission"), *dto.Granted); err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
