package account

import (
	"errors"
	"time"

	accountDatamodel "github.com/frahmantamala/tenant-crm/internal/core/datamodel/account"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

var (
	ErrNotFound             = errors.New("account not found")
	ErrBusinessUnitNotFound = errors.New("business unit not found")
	ErrManagerNotFound      = errors.New("manager not found")
)

type Account struct {
	ID             int64     `json:"id"`
	TenantID       *int64    `json:"tenant_id,omitempty"`
	BusinessUnitID *int64    `json:"business_unit_id,omitempty"`
	ManagerID      *int64    `json:"manager_id,omitempty"`
	Name           string    `json:"name"`
	Industry       string    `json:"industry,omitempty"`
	Website        string    `json:"website,omitempty"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func NewAccount(name, industry, website string) *Account {
	now := time.Now()
	return &Account{
		Name:      name,
		Industry:  industry,
		Website:   website,
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Apply copies the fields present in dto onto the account.
func (a *Account) Apply(dto UpdateAccountDTO) {
	if dto.Name != nil {
		a.Name = *dto.Name
	}
	if dto.Industry != nil {
		a.Industry = *dto.Industry
	}
	if dto.Website != nil {
		a.Website = *dto.Website
	}
	if dto.Status != nil {
		a.Status = *dto.Status
	}
	if dto.ManagerID != nil {
		a.ManagerID = dto.ManagerID
	}
	a.UpdatedAt = time.Now()
}

func ToDataModel(a *Account) *accountDatamodel.Account {
	return &accountDatamodel.Account{
		ID:             a.ID,
		TenantID:       a.TenantID,
		BusinessUnitID: a.BusinessUnitID,
		ManagerID:      a.ManagerID,
		Name:           a.Name,
		Industry:       a.Industry,
		Website:        a.Website,
		Status:         a.Status,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

func FromDataModel(a *accountDatamodel.Account) *Account {
	return &Account{
		ID:             a.ID,
		TenantID:       a.TenantID,
		BusinessUnitID: a.BusinessUnitID,
		ManagerID:      a.ManagerID,
		Name:           a.Name,
		Industry:       a.Industry,
		Website:        a.Website,
		Status:         a.Status,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}
