package crm

import (
	"context"
	"errors"
	"log/slog"

	"github.com/frahmantamala/tenant-crm/internal"
	crmDatamodel "github.com/frahmantamala/tenant-crm/internal/core/datamodel/crm"
	"github.com/frahmantamala/tenant-crm/internal/tenancy"
)

type RepositoryAPI interface {
	ListCustomers(ctx context.Context, scope tenancy.Scope, limit, offset int) ([]*crmDatamodel.Customer, error)
	GetCustomer(ctx context.Context, id int64) (*crmDatamodel.Customer, error)
	ListDeals(ctx context.Context, scope tenancy.Scope, limit, offset int) ([]*crmDatamodel.Deal, error)
	GetDeal(ctx context.Context, id int64) (*crmDatamodel.Deal, error)
	ListTasks(ctx context.Context, scope tenancy.Scope, limit, offset int) ([]*crmDatamodel.Task, error)
	GetTask(ctx context.Context, id int64) (*crmDatamodel.Task, error)
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

func convertAll[M, D any](rows []*M, err error, what string, conv func(*M) *D) ([]*D, error) {
	if err != nil {
		return nil, internal.NewInfrastructureError("failed to list "+what, err)
	}
	out := make([]*D, 0, len(rows))
	for _, row := range rows {
		out = append(out, conv(row))
	}
	return out, nil
}

func convertOne[M, D any](row *M, err error, what string, conv func(*M) *D) (*D, error) {
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, internal.ErrResourceNotFound
		}
		return nil, internal.NewInfrastructureError("failed to get "+what, err)
	}
	return conv(row), nil
}

func (s *Service) ListCustomers(ctx context.Context, scope tenancy.Scope, limit, offset int) ([]*Customer, error) {
	rows, err := s.repo.ListCustomers(ctx, scope, limit, offset)
	return convertAll(rows, err, "customers", CustomerFromDataModel)
}

func (s *Service) GetCustomer(ctx context.Context, id int64) (*Customer, error) {
	row, err := s.repo.GetCustomer(ctx, id)
	return convertOne(row, err, "customer", CustomerFromDataModel)
}

func (s *Service) ListDeals(ctx context.Context, scope tenancy.Scope, limit, offset int) ([]*Deal, error) {
	rows, err := s.repo.ListDeals(ctx, scope, limit, offset)
	return convertAll(rows, err, "deals", DealFromDataModel)
}

func (s *Service) GetDeal(ctx context.Context, id int64) (*Deal, error) {
	row, err := s.repo.GetDeal(ctx, id)
	return convertOne(row, err, "deal", DealFromDataModel)
}

func (s *Service) ListTasks(ctx context.Context, scope tenancy.Scope, limit, offset int) ([]*Task, error) {
	rows, err := s.repo.ListTasks(ctx, scope, limit, offset)
	return convertAll(rows, err, "tasks", TaskFromDataModel)
}

func (s *Service) GetTask(ctx context.Context, id int64) (*Task, error) {
	row, err := s.repo.GetTask(ctx, id)
	return convertOne(row, err, "task", TaskFromDataModel)
}
