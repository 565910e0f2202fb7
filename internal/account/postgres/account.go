package postgres

import (
	"context"

	"github.com/frahmantamala/tenant-crm/internal/account"
	accountDatamodel "github.com/frahmantamala/tenant-crm/internal/core/datamodel/account"
	tenantDatamodel "github.com/frahmantamala/tenant-crm/internal/core/datamodel/tenant"
	userDatamodel "github.com/frahmantamala/tenant-crm/internal/core/datamodel/user"
	"github.com/frahmantamala/tenant-crm/internal/tenancy"
	"gorm.io/gorm"
)

var accountColumns = tenancy.Columns{Tenant: "tenant_id", BusinessUnit: "business_unit_id"}

type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) List(ctx context.Context, scope tenancy.Scope, limit, offset int) ([]*accountDatamodel.Account, error) {
	var accounts []*accountDatamodel.Account
	err := r.db.WithContext(ctx).
		Scopes(scope.Gorm(accountColumns)).
		Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&accounts).Error
	return accounts, err
}

func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*accountDatamodel.Account, error) {
	var a accountDatamodel.Account
	res := r.db.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&a)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, account.ErrNotFound
	}
	return &a, nil
}

func (r *AccountRepository) Create(ctx context.Context, a *accountDatamodel.Account) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *AccountRepository) Update(ctx context.Context, a *accountDatamodel.Account) error {
	res := r.db.WithContext(ctx).
		Model(&accountDatamodel.Account{}).
		Where("id = ?", a.ID).
		Updates(map[string]interface{}{
			"name":       a.Name,
			"industry":   a.Industry,
			"website":    a.Website,
			"status":     a.Status,
			"manager_id": a.ManagerID,
			"updated_at": a.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return account.ErrNotFound
	}
	return nil
}

func (r *AccountRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&accountDatamodel.Account{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return account.ErrNotFound
	}
	return nil
}

func (r *AccountRepository) BusinessUnitTenant(ctx context.Context, businessUnitID int64) (int64, error) {
	var tenants []int64
	err := r.db.WithContext(ctx).
		Model(&tenantDatamodel.BusinessUnit{}).
		Where("id = ?", businessUnitID).
		Pluck("tenant_id", &tenants).Error
	if err != nil {
		return 0, err
	}
	if len(tenants) == 0 {
		return 0, account.ErrBusinessUnitNotFound
	}
	return tenants[0], nil
}

func (r *AccountRepository) UserTenant(ctx context.Context, userID int64) (*int64, error) {
	var u userDatamodel.User
	res := r.db.WithContext(ctx).Select("id", "tenant_id").Where("id = ?", userID).Limit(1).Find(&u)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, account.ErrManagerNotFound
	}
	return u.TenantID, nil
}
