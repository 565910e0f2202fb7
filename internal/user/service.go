package user

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/tenant-crm/internal"
	userDatamodel "github.com/frahmantamala/tenant-crm/internal/core/datamodel/user"
	"github.com/frahmantamala/tenant-crm/internal/tenancy"
)

type Repository interface {
	List(ctx context.Context, scope tenancy.Scope, limit, offset int) ([]*userDatamodel.User, error)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) List(ctx context.Context, scope tenancy.Scope, limit, offset int) ([]*User, error) {
	rows, err := s.repo.List(ctx, scope, limit, offset)
	if err != nil {
		return nil, internal.NewInfrastructureError("failed to list users", err)
	}

	users := make([]*User, 0, len(rows))
	for _, row := range rows {
		users = append(users, FromDataModel(row))
	}
	return users, nil
}
