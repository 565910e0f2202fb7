package postgres

import (
	"context"

	tenantDatamodel "github.com/frahmantamala/tenant-crm/internal/core/datamodel/tenant"
	"github.com/frahmantamala/tenant-crm/internal/tenancy"
	"github.com/frahmantamala/tenant-crm/internal/tenant"
	"gorm.io/gorm"
)

// a tenant row is its own tenant
var tenantColumns = tenancy.Columns{Tenant: "id"}

type TenantRepository struct {
	db *gorm.DB
}

func NewTenantRepository(db *gorm.DB) *TenantRepository {
	return &TenantRepository{db: db}
}

func (r *TenantRepository) List(ctx context.Context, scope tenancy.Scope, limit, offset int) ([]*tenantDatamodel.Tenant, error) {
	var tenants []*tenantDatamodel.Tenant
	err := r.db.WithContext(ctx).
		Scopes(scope.Gorm(tenantColumns)).
		Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&tenants).Error
	return tenants, err
}

func (r *TenantRepository) GetByID(ctx context.Context, id int64) (*tenantDatamodel.Tenant, error) {
	var t tenantDatamodel.Tenant
	res := r.db.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&t)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, tenant.ErrNotFound
	}
	return &t, nil
}
