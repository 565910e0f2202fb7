package crm

import "time"

type Customer struct {
	ID             int64     `gorm:"primaryKey"`
	TenantID       *int64    `gorm:"column:tenant_id;index"`
	BusinessUnitID *int64    `gorm:"column:business_unit_id;index"`
	AccountID      *int64    `gorm:"column:account_id"`
	AssignedToID   *int64    `gorm:"column:assigned_to_id;index"`
	Name           string    `gorm:"column:name;not null"`
	Email          string    `gorm:"column:email"`
	Status         string    `gorm:"column:status;not null;default:active"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Customer) TableName() string {
	return "customers"
}

type Deal struct {
	ID             int64     `gorm:"primaryKey"`
	TenantID       *int64    `gorm:"column:tenant_id;index"`
	BusinessUnitID *int64    `gorm:"column:business_unit_id;index"`
	AccountID      *int64    `gorm:"column:account_id"`
	OwnerID        *int64    `gorm:"column:owner_id;index"`
	Name           string    `gorm:"column:name;not null"`
	Stage          string    `gorm:"column:stage;not null;default:prospecting"`
	AmountCents    int64     `gorm:"column:amount_cents;not null;default:0"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Deal) TableName() string {
	return "deals"
}

type Task struct {
	ID             int64      `gorm:"primaryKey"`
	TenantID       *int64     `gorm:"column:tenant_id;index"`
	BusinessUnitID *int64     `gorm:"column:business_unit_id;index"`
	AssigneeID     *int64     `gorm:"column:assignee_id;index"`
	Name           string     `gorm:"column:name;not null"`
	Status         string     `gorm:"column:status;not null;default:open"`
	DueAt          *time.Time `gorm:"column:due_at"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Task) TableName() string {
	return "tasks"
}
