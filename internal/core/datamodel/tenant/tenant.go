package tenant

import "time"

type Tenant struct {
	ID        int64     `gorm:"primaryKey"`
	Name      string    `gorm:"column:name;uniqueIndex;not null"`
	Status    string    `gorm:"column:status;not null;default:active"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Tenant) TableName() string {
	return "tenants"
}

type BusinessUnit struct {
	ID        int64     `gorm:"primaryKey"`
	TenantID  int64     `gorm:"column:tenant_id;not null;index"`
	Name      string    `gorm:"column:name;not null"`
	ManagerID *int64    `gorm:"column:manager_id"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (BusinessUnit) TableName() string {
	return "business_units"
}
