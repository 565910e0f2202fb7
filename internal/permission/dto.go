package permission

import (
	"github.com/frahmantamala/tenant-crm/internal"
	"github.com/frahmantamala/tenant-crm/internal/core/common/validation"
)

// GrantDTO is the body of PUT .../permissions/{permission}.
type GrantDTO struct {
	Granted *bool `json:"granted"`
}

func (d GrantDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("granted", d.Granted).Required()
	return v.Validate()
}

type CatalogResponse struct {
	Permissions []Definition `json:"permissions"`
	Roles       []RoleInfo   `json:"roles"`
}

type RoleInfo struct {
	Role Role   `json:"role"`
	Tier string `json:"tier"`
}

type GrantsResponse struct {
	Subject string  `json:"subject"`
	Grants  []Grant `json:"grants"`
}

func NewCatalogResponse(defs []Definition) CatalogResponse {
	resp := CatalogResponse{Permissions: defs}
	for _, r := range Roles() {
		resp.Roles = append(resp.Roles, RoleInfo{Role: r, Tier: r.Tier().String()})
	}
	return resp
}
