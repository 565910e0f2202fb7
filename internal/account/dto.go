package account

import (
	"github.com/frahmantamala/tenant-crm/internal"
	"github.com/frahmantamala/tenant-crm/internal/core/common/validation"
)

type CreateAccountDTO struct {
	Name           string `json:"name"`
	Industry       string `json:"industry"`
	Website        string `json:"website"`
	TenantID       *int64 `json:"tenant_id"`
	BusinessUnitID *int64 `json:"business_unit_id"`
	ManagerID      *int64 `json:"manager_id"`
}

func (d CreateAccountDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(200)
	v.Field("industry", d.Industry).MaxLength(100)
	v.Field("website", d.Website).MaxLength(255)
	v.Field("tenant_id", d.TenantID).Positive()
	v.Field("business_unit_id", d.BusinessUnitID).Positive()
	v.Field("manager_id", d.ManagerID).Positive()
	return v.Validate()
}

// UpdateAccountDTO leaves absent fields untouched. Tenant and business unit
// are fixed at creation.
type UpdateAccountDTO struct {
	Name      *string `json:"name"`
	Industry  *string `json:"industry"`
	Website   *string `json:"website"`
	Status    *string `json:"status"`
	ManagerID *int64  `json:"manager_id"`
}

func (d UpdateAccountDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	if d.Name != nil {
		v.Field("name", *d.Name).Required().MaxLength(200)
	}
	if d.Industry != nil {
		v.Field("industry", *d.Industry).MaxLength(100)
	}
	if d.Website != nil {
		v.Field("website", *d.Website).MaxLength(255)
	}
	if d.Status != nil {
		v.Field("status", *d.Status).Required().OneOf(StatusActive, StatusInactive)
	}
	v.Field("manager_id", d.ManagerID).Positive()
	return v.Validate()
}
