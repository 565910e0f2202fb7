package postgres

import (
	"context"
	"errors"
	"time"

	permissionDatamodel "github.com/frahmantamala/tenant-crm/internal/core/datamodel/permission"
	userDatamodel "github.com/frahmantamala/tenant-crm/internal/core/datamodel/user"
	"github.com/frahmantamala/tenant-crm/internal/permission"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PermissionRepository implements permission.Repository using GORM.
type PermissionRepository struct {
	db *gorm.DB
}

func NewPermissionRepository(db *gorm.DB) *PermissionRepository {
	return &PermissionRepository{db: db}
}

var _ permission.Repository = (*PermissionRepository)(nil)

// UserRole returns the role of a non-deleted user.
func (r *PermissionRepository) UserRole(ctx context.Context, userID int64) (permission.Role, bool, error) {
	var u userDatamodel.User
	err := r.db.WithContext(ctx).Select("id", "role").Where("id = ?", userID).Take(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return permission.Role(u.Role), true, nil
}

func (r *PermissionRepository) GrantedRolePermissions(ctx context.Context, role permission.Role) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).
		Table("role_permissions AS rp").
		Joins("JOIN permissions p ON p.id = rp.permission_id").
		Where("rp.role = ? AND rp.granted = ?", string(role), true).
		Order("p.name").
		Pluck("p.name", &names).Error
	return names, err
}

func (r *PermissionRepository) GrantedUserPermissions(ctx context.Context, userID int64) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).
		Table("user_permissions AS up").
		Joins("JOIN permissions p ON p.id = up.permission_id").
		Where("up.user_id = ? AND up.granted = ?", userID, true).
		Order("p.name").
		Pluck("p.name", &names).Error
	return names, err
}

// EnsurePermissions upserts catalog rows keyed by name.
func (r *PermissionRepository) EnsurePermissions(ctx context.Context, defs []permission.Definition) error {
	if len(defs) == 0 {
		return nil
	}
	rows := make([]permissionDatamodel.Permission, 0, len(defs))
	for _, d := range defs {
		rows = append(rows, permissionDatamodel.Permission{Name: string(d.Name), Description: d.Description})
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"description"}),
		}).
		Create(&rows).Error
}

func (r *PermissionRepository) permissionID(ctx context.Context, name permission.Name) (int64, error) {
	var p permissionDatamodel.Permission
	err := r.db.WithContext(ctx).Select("id").Where("name = ?", string(name)).Take(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, permission.ErrNotFound
		}
		return 0, err
	}
	return p.ID, nil
}

// UpsertRolePermission leaves exactly one row per (role, permission).
func (r *PermissionRepository) UpsertRolePermission(ctx context.Context, role permission.Role, name permission.Name, granted bool) error {
	pid, err := r.permissionID(ctx, name)
	if err != nil {
		return err
	}
	row := permissionDatamodel.RolePermission{Role: string(role), PermissionID: pid, Granted: granted}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "role"}, {Name: "permission_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"granted":    granted,
				"updated_at": time.Now(),
			}),
		}).
		Create(&row).Error
}

func (r *PermissionRepository) SeedRolePermission(ctx context.Context, role permission.Role, name permission.Name) (bool, error) {
	pid, err := r.permissionID(ctx, name)
	if err != nil {
		return false, err
	}
	row := permissionDatamodel.RolePermission{Role: string(role), PermissionID: pid, Granted: true}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "role"}, {Name: "permission_id"}},
			DoNothing: true,
		}).
		Create(&row)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *PermissionRepository) UpsertUserPermission(ctx context.Context, userID int64, name permission.Name, granted bool, grantedBy *int64) error {
	pid, err := r.permissionID(ctx, name)
	if err != nil {
		return err
	}
	row := permissionDatamodel.UserPermission{UserID: userID, PermissionID: pid, Granted: granted, GrantedBy: grantedBy}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "permission_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"granted":    granted,
				"granted_by": grantedBy,
				"updated_at": time.Now(),
			}),
		}).
		Create(&row).Error
}

type grantRow struct {
	Name    string
	Granted bool
}

func (r *PermissionRepository) ListRolePermissions(ctx context.Context, role permission.Role) ([]permission.Grant, error) {
	var rows []grantRow
	err := r.db.WithContext(ctx).
		Table("role_permissions AS rp").
		Select("p.name AS name, rp.granted AS granted").
		Joins("JOIN permissions p ON p.id = rp.permission_id").
		Where("rp.role = ?", string(role)).
		Order("p.name").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return toGrants(rows), nil
}

func (r *PermissionRepository) ListUserPermissions(ctx context.Context, userID int64) ([]permission.Grant, error) {
	var rows []grantRow
	err := r.db.WithContext(ctx).
		Table("user_permissions AS up").
		Select("p.name AS name, up.granted AS granted").
		Joins("JOIN permissions p ON p.id = up.permission_id").
		Where("up.user_id = ?", userID).
		Order("p.name").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return toGrants(rows), nil
}

func toGrants(rows []grantRow) []permission.Grant {
	grants := make([]permission.Grant, 0, len(rows))
	for _, row := range rows {
		grants = append(grants, permission.Grant{Permission: permission.Name(row.Name), Granted: row.Granted})
	}
	return grants
}
