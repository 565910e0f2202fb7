package postgres

import (
	"context"

	crmDatamodel "github.com/frahmantamala/tenant-crm/internal/core/datamodel/crm"
	"github.com/frahmantamala/tenant-crm/internal/crm"
	"github.com/frahmantamala/tenant-crm/internal/tenancy"
	"gorm.io/gorm"
)

var crmColumns = tenancy.Columns{Tenant: "tenant_id", BusinessUnit: "business_unit_id"}

type CRMRepository struct {
	db *gorm.DB
}

func NewCRMRepository(db *gorm.DB) *CRMRepository {
	return &CRMRepository{db: db}
}

func list[T any](ctx context.Context, db *gorm.DB, scope tenancy.Scope, limit, offset int) ([]*T, error) {
	var rows []*T
	err := db.WithContext(ctx).
		Scopes(scope.Gorm(crmColumns)).
		Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	return rows, err
}

func get[T any](ctx context.Context, db *gorm.DB, id int64) (*T, error) {
	var row T
	res := db.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, crm.ErrNotFound
	}
	return &row, nil
}

func (r *CRMRepository) ListCustomers(ctx context.Context, scope tenancy.Scope, limit, offset int) ([]*crmDatamodel.Customer, error) {
	return list[crmDatamodel.Customer](ctx, r.db, scope, limit, offset)
}

func (r *CRMRepository) GetCustomer(ctx context.Context, id int64) (*crmDatamodel.Customer, error) {
	return get[crmDatamodel.Customer](ctx, r.db, id)
}

func (r *CRMRepository) ListDeals(ctx context.Context, scope tenancy.Scope, limit, offset int) ([]*crmDatamodel.Deal, error) {
	return list[crmDatamodel.Deal](ctx, r.db, scope, limit, offset)
}

func (r *CRMRepository) GetDeal(ctx context.Context, id int64) (*crmDatamodel.Deal, error) {
	return get[crmDatamodel.Deal](ctx, r.db, id)
}

func (r *CRMRepository) ListTasks(ctx context.Context, scope tenancy.Scope, limit, offset int) ([]*crmDatamodel.Task, error) {
	return list[crmDatamodel.Task](ctx, r.db, scope, limit, offset)
}

func (r *CRMRepository) GetTask(ctx context.Context, id int64) (*crmDatamodel.Task, error) {
	return get[crmDatamodel.Task](ctx, r.db, id)
}
