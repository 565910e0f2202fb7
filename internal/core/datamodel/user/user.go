package user

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID             int64          `gorm:"primaryKey"`
	Email          string         `gorm:"column:email;uniqueIndex;not null"`
	Name           string         `gorm:"column:name;not null"`
	PasswordHash   string         `gorm:"column:password_hash;not null"`
	Role           string         `gorm:"column:role;not null;index"`
	TenantID       *int64         `gorm:"column:tenant_id;index"`
	BusinessUnitID *int64         `gorm:"column:business_unit_id;index"`
	Status         string         `gorm:"column:status;not null;default:active"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt      gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (User) TableName() string {
	return "users"
}
