package businessunit

import (
	"github.com/frahmantamala/tenant-crm/internal"
	"github.com/frahmantamala/tenant-crm/internal/core/common/validation"
)

type CreateBusinessUnitDTO struct {
	Name      string `json:"name"`
	TenantID  *int64 `json:"tenant_id"`
	ManagerID *int64 `json:"manager_id"`
}

func (d CreateBusinessUnitDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(200)
	v.Field("tenant_id", d.TenantID).Positive()
	v.Field("manager_id", d.ManagerID).Positive()
	return v.Validate()
}
