package tenant

import (
	"errors"
	"time"

	tenantDatamodel "github.com/frahmantamala/tenant-crm/internal/core/datamodel/tenant"
)

var ErrNotFound = errors.New("tenant not found")

type Tenant struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func FromDataModel(t *tenantDatamodel.Tenant) *Tenant {
	return &Tenant{
		ID:        t.ID,
		Name:      t.Name,
		Status:    t.Status,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}
