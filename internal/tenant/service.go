package tenant

import (
	"context"
	"errors"
	"log/slog"

	"github.com/frahmantamala/tenant-crm/internal"
	tenantDatamodel "github.com/frahmantamala/tenant-crm/internal/core/datamodel/tenant"
	"github.com/frahmantamala/tenant-crm/internal/tenancy"
)

type RepositoryAPI interface {
	List(ctx context.Context, scope tenancy.Scope, limit, offset int) ([]*tenantDatamodel.Tenant, error)
	GetByID(ctx context.Context, id int64) (*tenantDatamodel.Tenant, error)
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

// List returns the caller's own tenant, or every tenant for the super admin.
func (s *Service) List(ctx context.Context, scope tenancy.Scope, limit, offset int) ([]*Tenant, error) {
	rows, err := s.repo.List(ctx, scope, limit, offset)
	if err != nil {
		return nil, internal.NewInfrastructureError("failed to list tenants", err)
	}

	tenants := make([]*Tenant, 0, len(rows))
	for _, row := range rows {
		tenants = append(tenants, FromDataModel(row))
	}
	return tenants, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Tenant, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, internal.ErrResourceNotFound
		}
		return nil, internal.NewInfrastructureError("failed to get tenant", err)
	}
	return FromDataModel(row), nil
}
