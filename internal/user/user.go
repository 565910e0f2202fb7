package user

import (
	"time"

	userDatamodel "github.com/frahmantamala/tenant-crm/internal/core/datamodel/user"
	"github.com/frahmantamala/tenant-crm/internal/permission"
)

// User is the listing view of a user row. The password hash never leaves
// the datamodel.
type User struct {
	ID             int64           `json:"id"`
	Email          string          `json:"email"`
	Name           string          `json:"name"`
	Role           permission.Role `json:"role"`
	TenantID       *int64          `json:"tenant_id,omitempty"`
	BusinessUnitID *int64          `json:"business_unit_id,omitempty"`
	Status         string          `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func FromDataModel(u *userDatamodel.User) *User {
	return &User{
		ID:             u.ID,
		Email:          u.Email,
		Name:           u.Name,
		Role:           permission.Role(u.Role),
		TenantID:       u.TenantID,
		BusinessUnitID: u.BusinessUnitID,
		Status:         u.Status,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}
