package businessunit

import (
	"errors"
	"time"

	tenantDatamodel "github.com/frahmantamala/tenant-crm/internal/core/datamodel/tenant"
)

var (
	ErrNotFound        = errors.New("business unit not found")
	ErrManagerNotFound = errors.New("manager not found")
)

type BusinessUnit struct {
	ID        int64     `json:"id"`
	TenantID  int64     `json:"tenant_id"`
	Name      string    `json:"name"`
	ManagerID *int64    `json:"manager_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ToDataModel(b *BusinessUnit) *tenantDatamodel.BusinessUnit {
	return &tenantDatamodel.BusinessUnit{
		ID:        b.ID,
		TenantID:  b.TenantID,
		Name:      b.Name,
		ManagerID: b.ManagerID,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func FromDataModel(b *tenantDatamodel.BusinessUnit) *BusinessUnit {
	return &BusinessUnit{
		ID:        b.ID,
		TenantID:  b.TenantID,
		Name:      b.Name,
		ManagerID: b.ManagerID,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}
