// Package crm serves the read side of customers, deals and tasks. All three
// carry the same scoping columns and share one repository.
package crm

import (
	"errors"
	"time"

	crmDatamodel "github.com/frahmantamala/tenant-crm/internal/core/datamodel/crm"
)

var ErrNotFound = errors.New("crm record not found")

type Customer struct {
	ID             int64     `json:"id"`
	TenantID       *int64    `json:"tenant_id,omitempty"`
	BusinessUnitID *int64    `json:"business_unit_id,omitempty"`
	AccountID      *int64    `json:"account_id,omitempty"`
	AssignedToID   *int64    `json:"assigned_to_id,omitempty"`
	Name           string    `json:"name"`
	Email          string    `json:"email,omitempty"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type Deal struct {
	ID             int64     `json:"id"`
	TenantID       *int64    `json:"tenant_id,omitempty"`
	BusinessUnitID *int64    `json:"business_unit_id,omitempty"`
	AccountID      *int64    `json:"account_id,omitempty"`
	OwnerID        *int64    `json:"owner_id,omitempty"`
	Name           string    `json:"name"`
	Stage          string    `json:"stage"`
	AmountCents    int64     `json:"amount_cents"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type Task struct {
	ID             int64      `json:"id"`
	TenantID       *int64     `json:"tenant_id,omitempty"`
	BusinessUnitID *int64     `json:"business_unit_id,omitempty"`
	AssigneeID     *int64     `json:"assignee_id,omitempty"`
	Name           string     `json:"name"`
	Status         string     `json:"status"`
	DueAt          *time.Time `json:"due_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func CustomerFromDataModel(c *crmDatamodel.Customer) *Customer {
	return &Customer{
		ID:             c.ID,
		TenantID:       c.TenantID,
		BusinessUnitID: c.BusinessUnitID,
		AccountID:      c.AccountID,
		AssignedToID:   c.AssignedToID,
		Name:           c.Name,
		Email:          c.Email,
		Status:         c.Status,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

func DealFromDataModel(d *crmDatamodel.Deal) *Deal {
	return &Deal{
		ID:             d.ID,
		TenantID:       d.TenantID,
		BusinessUnitID: d.BusinessUnitID,
		AccountID:      d.AccountID,
		OwnerID:        d.OwnerID,
		Name:           d.Name,
		Stage:          d.Stage,
		AmountCents:    d.AmountCents,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

func TaskFromDataModel(t *crmDatamodel.Task) *Task {
	return &Task{
		ID:             t.ID,
		TenantID:       t.TenantID,
		BusinessUnitID: t.BusinessUnitID,
		AssigneeID:     t.AssigneeID,
		Name:           t.Name,
		Status:         t.Status,
		DueAt:          t.DueAt,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}
