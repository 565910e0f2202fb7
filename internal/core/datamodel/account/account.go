package account

import "time"

// Account resolves its tenant through tenant_id, or through its business
// unit when tenant_id is null.
type Account struct {
	ID             int64     `gorm:"primaryKey"`
	TenantID       *int64    `gorm:"column:tenant_id;index"`
	BusinessUnitID *int64    `gorm:"column:business_unit_id;index"`
	ManagerID      *int64    `gorm:"column:manager_id;index"`
	Name           string    `gorm:"column:name;not null"`
	Industry       string    `gorm:"column:industry"`
	Website        string    `gorm:"column:website"`
	Status         string    `gorm:"column:status;not null;default:active"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Account) TableName() string {
	return "accounts"
}
