package user

import (
	"github.com/frahmantamala/tenant-crm/internal/auth"
	"github.com/frahmantamala/tenant-crm/internal/permission"
)

// CurrentUserResponse is the body of GET /users/me.
type CurrentUserResponse struct {
	ID             int64             `json:"id"`
	Email          string            `json:"email"`
	Name           string            `json:"name"`
	Role           permission.Role   `json:"role"`
	Tier           string            `json:"tier"`
	TenantID       *int64            `json:"tenant_id,omitempty"`
	BusinessUnitID *int64            `json:"business_unit_id,omitempty"`
	Permissions    []permission.Name `json:"permissions"`
}

func NewCurrentUserResponse(p *auth.Principal) CurrentUserResponse {
	return CurrentUserResponse{
		ID:             p.User.ID,
		Email:          p.User.Email,
		Name:           p.User.Name,
		Role:           p.User.Role,
		Tier:           p.Tier().String(),
		TenantID:       p.User.TenantID,
		BusinessUnitID: p.User.BusinessUnitID,
		Permissions:    p.Permissions.Names(),
	}
}
