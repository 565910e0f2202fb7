package permission

import "time"

type Permission struct {
	ID          int64     `gorm:"primaryKey"`
	Name        string    `gorm:"column:name;uniqueIndex;not null"`
	Description string    `gorm:"column:description"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Permission) TableName() string {
	return "permissions"
}

// RolePermission is unique per (role, permission_id). Granted=false is an
// explicit revoke and is kept distinct from an absent row.
type RolePermission struct {
	ID           int64     `gorm:"primaryKey"`
	Role         string    `gorm:"column:role;not null;uniqueIndex:idx_role_permissions_role_permission"`
	PermissionID int64     `gorm:"column:permission_id;not null;uniqueIndex:idx_role_permissions_role_permission"`
	Granted      bool      `gorm:"column:granted;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (RolePermission) TableName() string {
	return "role_permissions"
}

type UserPermission struct {
	ID           int64     `gorm:"primaryKey"`
	UserID       int64     `gorm:"column:user_id;not null;uniqueIndex:idx_user_permissions_user_permission"`
	PermissionID int64     `gorm:"column:permission_id;not null;uniqueIndex:idx_user_permissions_user_permission"`
	Granted      bool      `gorm:"column:granted;not null"`
	GrantedBy    *int64    `gorm:"column:granted_by"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (UserPermission) TableName() string {
	return "user_permissions"
}
