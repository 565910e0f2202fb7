package businessunit

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/frahmantamala/tenant-crm/internal"
	"github.com/frahmantamala/tenant-crm/internal/auth"
	tenantDatamodel "github.com/frahmantamala/tenant-crm/internal/core/datamodel/tenant"
	"github.com/frahmantamala/tenant-crm/internal/permission"
	"github.com/frahmantamala/tenant-crm/internal/tenancy"
)

type RepositoryAPI interface {
	List(ctx context.Context, scope tenancy.Scope, limit, offset int) ([]*tenantDatamodel.BusinessUnit, error)
	GetByID(ctx context.Context, id int64) (*tenantDatamodel.BusinessUnit, error)
	Create(ctx context.Context, b *tenantDatamodel.BusinessUnit) error
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

func (s *Service) List(ctx context.Context, scope tenancy.Scope, limit, offset int) ([]*BusinessUnit, error) {
	rows, err := s.repo.List(ctx, scope, limit, offset)
	if err != nil {
		return nil, internal.NewInfrastructureError("failed to list business units", err)
	}

	units := make([]*BusinessUnit, 0, len(rows))
	for _, row := range rows {
		units = append(units, FromDataModel(row))
	}
	return units, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*BusinessUnit, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, internal.ErrResourceNotFound
		}
		return nil, internal.NewInfrastructureError("failed to get business unit", err)
	}
	return FromDataModel(row), nil
}

// Create opens a unit in the caller's tenant. Only the super admin names
// the tenant explicitly.
func (s *Service) Create(ctx context.Context, actor *auth.User, dto CreateBusinessUnitDTO) (*BusinessUnit, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	var tenantID int64
	if actor.Role.Tier() == permission.TierSuper {
		if dto.TenantID == nil {
			return nil, internal.NewValidationFieldError("tenant_id", "tenant_id is required", internal.ErrCodeValidationFailed)
		}
		tenantID = *dto.TenantID
	} else {
		if actor.TenantID == nil {
			return nil, internal.ErrTenantRequired
		}
		if dto.TenantID != nil && *dto.TenantID != *actor.TenantID {
			return nil, internal.ErrResourceAccessDenied
		}
		tenantID = *actor.TenantID
	}

	if dto.ManagerID != nil {
		userTenant, err := s.repo.UserTenant(ctx, *dto.ManagerID)
		switch {
		case errors.Is(err, ErrManagerNotFound):
			return nil, internal.NewValidationFieldError("manager_id", "manager does not exist", internal.ErrCodeValidationFailed)
		case err != nil:
			return nil, internal.NewInfrastructureError("failed to look up manager", err)
		}
		if userTenant == nil || *userTenant != tenantID {
			return nil, internal.NewValidationFieldError("manager_id", "manager belongs to another tenant", internal.ErrCodeValidationFailed)
		}
	}

	now := time.Now()
	row := ToDataModel(&BusinessUnit{
		TenantID:  tenantID,
		Name:      dto.Name,
		ManagerID: dto.ManagerID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, internal.NewInfrastructureError("failed to create business unit", err)
	}

	s.logger.InfoContext(ctx, "business unit created", "business_unit_id", row.ID, "tenant_id", tenantID)
	return FromDataModel(row), nil
}
