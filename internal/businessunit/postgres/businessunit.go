package postgres

import (
	"context"

	"github.com/frahmantamala/tenant-crm/internal/businessunit"
	tenantDatamodel "github.com/frahmantamala/tenant-crm/internal/core/datamodel/tenant"
	userDatamodel "github.com/frahmantamala/tenant-crm/internal/core/datamodel/user"
	"github.com/frahmantamala/tenant-crm/internal/tenancy"
	"gorm.io/gorm"
)

// business units always carry their tenant directly
var unitColumns = tenancy.Columns{Tenant: "tenant_id"}

type BusinessUnitRepository struct {
	db *gorm.DB
}

func NewBusinessUnitRepository(db *gorm.DB) *BusinessUnitRepository {
	return &BusinessUnitRepository{db: db}
}

func (r *BusinessUnitRepository) List(ctx context.Context, scope tenancy.Scope, limit, offset int) ([]*tenantDatamodel.BusinessUnit, error) {
	var units []*tenantDatamodel.BusinessUnit
	err := r.db.WithContext(ctx).
		Scopes(scope.Gorm(unitColumns)).
		Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&units).Error
	return units, err
}

func (r *BusinessUnitRepository) GetByID(ctx context.Context, id int64) (*tenantDatamodel.BusinessUnit, error) {
	var unit tenantDatamodel.BusinessUnit
	res := r.db.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&unit)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, businessunit.ErrNotFound
	}
	return &unit, nil
}

func (r *BusinessUnitRepository) Create(ctx context.Context, b *tenantDatamodel.BusinessUnit) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *BusinessUnitRepository) UserTenant(ctx context.Context, userID int64) (*int64, error) {
	var u userDatamodel.User
	res := r.db.WithContext(ctx).Select("id", "tenant_id").Where("id = ?", userID).Limit(1).Find(&u)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, businessunit.ErrManagerNotFound
	}
	return u.TenantID, nil
}
