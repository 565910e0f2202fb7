package account

import (
	"context"
	"errors"
	"log/slog"

	"github.com/frahmantamala/tenant-crm/internal"
	"github.com/frahmantamala/tenant-crm/internal/auth"
	accountDatamodel "github.com/frahmantamala/tenant-crm/internal/core/datamodel/account"
	"github.com/frahmantamala/tenant-crm/internal/permission"
	"github.com/frahmantamala/tenant-crm/internal/tenancy"
)

type RepositoryAPI interface {
	List(ctx context.Context, scope tenancy.Scope, limit, offset int) ([]*accountDatamodel.Account, error)
	GetByID(ctx context.Context, id int64) (*accountDatamodel.Account, error)
	Create(ctx context.Context, a *accountDatamodel.Account) error
	Update(ctx context.Context, a *accountDatamodel.Account) error
	Delete(ctx context.Context, id int64) error
	// BusinessUnitTenant returns the tenant owning the business unit.
	BusinessUnitTenant(ctx context.Context, businessUnitID int64) (int64, error)
	// UserTenant returns the tenant of a live user; nil for the system admin.
	UserTenant(ctx context.Context, userID int64) (*int64, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) List(ctx context.Context, scope tenancy.Scope, limit, offset int) ([]*Account, error) {
	rows, err := s.repo.List(ctx, scope, limit, offset)
	if err != nil {
		return nil, internal.NewInfrastructureError("failed to list accounts", err)
	}

	accounts := make([]*Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, FromDataModel(row))
	}
	return accounts, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Account, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, internal.ErrResourceNotFound
		}
		return nil, internal.NewInfrastructureError("failed to get account", err)
	}
	return FromDataModel(row), nil
}

// Create places the new account where its creator can still reach it:
// inside the creator's tenant, inside a manager's own business unit, and
// managed by a contributor who creates it.
func (s *Service) Create(ctx context.Context, actor *auth.User, dto CreateAccountDTO) (*Account, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	a := NewAccount(dto.Name, dto.Industry, dto.Website)
	a.TenantID = dto.TenantID
	a.BusinessUnitID = dto.BusinessUnitID
	a.ManagerID = dto.ManagerID

	if err := placeFor(actor, a); err != nil {
		s.logger.WarnContext(ctx, "account create refused", "user_id", actor.ID, "role", actor.Role, "error", err)
		return nil, err
	}

	if a.BusinessUnitID != nil {
		unitTenant, err := s.repo.BusinessUnitTenant(ctx, *a.BusinessUnitID)
		switch {
		case errors.Is(err, ErrBusinessUnitNotFound):
			return nil, internal.NewValidationFieldError("business_unit_id", "business unit does not exist", internal.ErrCodeValidationFailed)
		case err != nil:
			return nil, internal.NewInfrastructureError("failed to look up business unit", err)
		}
		if a.TenantID == nil {
			a.TenantID = &unitTenant
		} else if *a.TenantID != unitTenant {
			return nil, internal.NewValidationFieldError("business_unit_id", "business unit belongs to another tenant", internal.ErrCodeValidationFailed)
		}
	}

	if a.TenantID == nil {
		return nil, internal.NewValidationFieldError("tenant_id", "tenant_id is required", internal.ErrCodeValidationFailed)
	}
	if err := s.checkManager(ctx, a.ManagerID, *a.TenantID); err != nil {
		return nil, err
	}

	row := ToDataModel(a)
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, internal.NewInfrastructureError("failed to create account", err)
	}

	s.logger.InfoContext(ctx, "account created", "account_id", row.ID, "tenant_id", *row.TenantID)
	return FromDataModel(row), nil
}

func placeFor(actor *auth.User, a *Account) error {
	tier := actor.Role.Tier()
	if tier == permission.TierSuper {
		return nil
	}
	if actor.TenantID == nil {
		return internal.ErrTenantRequired
	}
	if a.TenantID != nil && *a.TenantID != *actor.TenantID {
		return internal.ErrResourceAccessDenied
	}
	a.TenantID = actor.TenantID

	switch tier {
	case permission.TierAdmin:
		return nil
	case permission.TierManager, permission.TierContributor:
		if a.BusinessUnitID == nil {
			a.BusinessUnitID = actor.BusinessUnitID
		}
		if tier == permission.TierManager && !sameID(a.BusinessUnitID, actor.BusinessUnitID) {
			return internal.ErrResourceAccessDenied
		}
		if tier == permission.TierContributor {
			if a.ManagerID == nil {
				a.ManagerID = &actor.ID
			}
			if *a.ManagerID != actor.ID {
				return internal.ErrResourceAccessDenied
			}
		}
		return nil
	default:
		return internal.ErrInsufficientPermissions
	}
}

func sameID(a, b *int64) bool {
	return a != nil && b != nil && *a == *b
}

func (s *Service) Update(ctx context.Context, id int64, dto UpdateAccountDTO) (*Account, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if dto.ManagerID != nil {
		tenantID, err := s.tenantOf(ctx, a)
		if err != nil {
			return nil, err
		}
		if err := s.checkManager(ctx, dto.ManagerID, tenantID); err != nil {
			return nil, err
		}
	}
	a.Apply(dto)

	if err := s.repo.Update(ctx, ToDataModel(a)); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, internal.ErrResourceNotFound
		}
		return nil, internal.NewInfrastructureError("failed to update account", err)
	}
	return a, nil
}

// checkManager requires the manager to be a live user of the account's tenant.
func (s *Service) checkManager(ctx context.Context, managerID *int64, tenantID int64) error {
	if managerID == nil {
		return nil
	}
	userTenant, err := s.repo.UserTenant(ctx, *managerID)
	switch {
	case errors.Is(err, ErrManagerNotFound):
		return internal.NewValidationFieldError("manager_id", "manager does not exist", internal.ErrCodeValidationFailed)
	case err != nil:
		return internal.NewInfrastructureError("failed to look up manager", err)
	}
	if userTenant == nil || *userTenant != tenantID {
		return internal.NewValidationFieldError("manager_id", "manager belongs to another tenant", internal.ErrCodeValidationFailed)
	}
	return nil
}

// tenantOf reads the account's tenant, falling back to its business unit.
func (s *Service) tenantOf(ctx context.Context, a *Account) (int64, error) {
	if a.TenantID != nil {
		return *a.TenantID, nil
	}
	if a.BusinessUnitID == nil {
		return 0, internal.NewValidationFieldError("manager_id", "account has no tenant", internal.ErrCodeValidationFailed)
	}
	tenantID, err := s.repo.BusinessUnitTenant(ctx, *a.BusinessUnitID)
	if err != nil {
		return 0, internal.NewInfrastructureError("failed to look up business unit", err)
	}
	return tenantID, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return internal.ErrResourceNotFound
		}
		return internal.NewInfrastructureError("failed to delete account", err)
	}
	s.logger.InfoContext(ctx, "account deleted", "account_id", id)
	return nil
}
