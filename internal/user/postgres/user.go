package postgres

import (
	"context"

	userDatamodel "github.com/frahmantamala/tenant-crm/internal/core/datamodel/user"
	"github.com/frahmantamala/tenant-crm/internal/tenancy"
	"gorm.io/gorm"
)

var userColumns = tenancy.Columns{Tenant: "tenant_id", BusinessUnit: "business_unit_id"}

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// List skips soft-deleted users through gorm's DeletedAt handling.
func (r *UserRepository) List(ctx context.Context, scope tenancy.Scope, limit, offset int) ([]*userDatamodel.User, error) {
	var users []*userDatamodel.User
	err := r.db.WithContext(ctx).
		Scopes(scope.Gorm(userColumns)).
		Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error
	return users, err
}
