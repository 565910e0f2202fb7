package permission

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/tenant-crm/internal"
	"github.com/frahmantamala/tenant-crm/internal/core/events"
)

var ErrNotFound = errors.New("permission not found")

// Grant is a stored grant row as seen by administrators, including
// explicit revokes.
type Grant struct {
	Permission Name `json:"permission"`
	Granted    bool `json:"granted"`
}

// Repository is the full role-permission store.
type Repository interface {
	Store
	EnsurePermissions(ctx context.Context, defs []Definition) error
	UpsertRolePermission(ctx context.Context, role Role, name Name, granted bool) error
	// SeedRolePermission inserts a granted row only when none exists, so an
	// explicit revoke survives re-seeding.
	SeedRolePermission(ctx context.Context, role Role, name Name) (created bool, err error)
	UpsertUserPermission(ctx context.Context, userID int64, name Name, granted bool, grantedBy *int64) error
	ListRolePermissions(ctx context.Context, role Role) ([]Grant, error)
	ListUserPermissions(ctx context.Context, userID int64) ([]Grant, error)
}

type Publisher interface {
	PublishSync(ctx context.Context, event events.Event) error
}

type ServiceAPI interface {
	Catalog() []Definition
	RoleGrants(ctx context.Context, role string) ([]Grant, error)
	UserGrants(ctx context.Context, userID int64) ([]Grant, error)
	SetRoleGrant(ctx context.Context, actor Actor, role, name string, granted bool) error
	SetUserGrant(ctx context.Context, actor Actor, userID int64, name string, granted bool) error
}

type Service struct {
	repo      Repository
	publisher Publisher
	logger    *slog.Logger
}

func NewService(repo Repository, publisher Publisher, logger *slog.Logger) *Service {
	return &Service{repo: repo, publisher: publisher, logger: logger}
}

func (s *Service) Catalog() []Definition {
	return Definitions()
}

func (s *Service) RoleGrants(ctx context.Context, role string) ([]Grant, error) {
	r, ok := ParseRole(role)
	if !ok {
		return nil, internal.ErrUnknownRole
	}
	grants, err := s.repo.ListRolePermissions(ctx, r)
	if err != nil {
		return nil, internal.NewInfrastructureError("failed to list role permissions", err)
	}
	return grants, nil
}

func (s *Service) UserGrants(ctx context.Context, userID int64) ([]Grant, error) {
	if _, found, err := s.repo.UserRole(ctx, userID); err != nil {
		return nil, internal.NewInfrastructureError("failed to load user", err)
	} else if !found {
		return nil, internal.ErrResourceNotFound
	}
	grants, err := s.repo.ListUserPermissions(ctx, userID)
	if err != nil {
		return nil, internal.NewInfrastructureError("failed to list user permissions", err)
	}
	return grants, nil
}

// SetRoleGrant upserts the (role, permission) row and announces the change
// so cached permission sets are dropped. Only the super tier may call it.
func (s *Service) SetRoleGrant(ctx context.Context, actor Actor, role, name string, granted bool) error {
	if err := actor.canChangeRoles(); err != nil {
		s.logger.WarnContext(ctx, "role permission change refused", "actor_id", actor.UserID, "actor_role", actor.Role, "role", role)
		return err
	}
	r, ok := ParseRole(role)
	if !ok {
		return internal.ErrUnknownRole
	}
	n, ok := Lookup(name)
	if !ok {
		return internal.ErrUnknownPermission
	}

	if err := s.repo.UpsertRolePermission(ctx, r, n, granted); err != nil {
		return s.storeError(err, "failed to update role permission")
	}

	s.logger.InfoContext(ctx, "role permission updated", "role", r, "permission", n, "granted", granted)
	return s.publish(ctx, events.NewRoleGrantChangedEvent(string(r), string(n), granted))
}

func (s *Service) SetUserGrant(ctx context.Context, actor Actor, userID int64, name string, granted bool) error {
	n, ok := Lookup(name)
	if !ok {
		return internal.ErrUnknownPermission
	}
	if err := actor.canChangeUser(userID, n, granted); err != nil {
		s.logger.WarnContext(ctx, "user permission change refused", "actor_id", actor.UserID, "user_id", userID, "permission", n, "granted", granted)
		return err
	}
	if _, found, err := s.repo.UserRole(ctx, userID); err != nil {
		return internal.NewInfrastructureError("failed to load user", err)
	} else if !found {
		return internal.ErrResourceNotFound
	}

	grantedBy := actor.grantedBy()
	if err := s.repo.UpsertUserPermission(ctx, userID, n, granted, grantedBy); err != nil {
		return s.storeError(err, "failed to update user permission")
	}

	s.logger.InfoContext(ctx, "user permission updated", "user_id", userID, "permission", n, "granted", granted, "granted_by", grantedBy)
	return s.publish(ctx, events.NewUserGrantChangedEvent(userID, string(n), granted, grantedBy))
}

// SeedDefaults makes sure the catalog exists and every default role grant
// has a row. Existing rows, including explicit revokes, are left alone.
func (s *Service) SeedDefaults(ctx context.Context) (int, error) {
	if err := s.repo.EnsurePermissions(ctx, Definitions()); err != nil {
		return 0, fmt.Errorf("seed permission catalog: %w", err)
	}

	created := 0
	defaults := DefaultRolePermissions()
	for _, role := range Roles() {
		for _, name := range defaults[role] {
			ok, err := s.repo.SeedRolePermission(ctx, role, name)
			if err != nil {
				return created, fmt.Errorf("seed %s for %s: %w", name, role, err)
			}
			if ok {
				created++
			}
		}
	}
	return created, nil
}

func (s *Service) publish(ctx context.Context, event events.Event) error {
	if s.publisher == nil {
		return nil
	}
	if err := s.publisher.PublishSync(ctx, event); err != nil {
		return internal.NewInfrastructureError("grant stored but change notification failed", err)
	}
	return nil
}

func (s *Service) storeError(err error, message string) error {
	if errors.Is(err, ErrNotFound) {
		return internal.ErrUnknownPermission
	}
	return internal.NewInfrastructureError(message, err)
}
