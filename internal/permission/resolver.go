package permission

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/frahmantamala/tenant-crm/internal/core/events"
	"github.com/patrickmn/go-cache"
)

// Store is the read side of the role-permission store used per request.
type Store interface {
	// UserRole returns found=false for a missing or deleted user.
	UserRole(ctx context.Context, userID int64) (role Role, found bool, err error)
	GrantedRolePermissions(ctx context.Context, role Role) ([]string, error)
	GrantedUserPermissions(ctx context.Context, userID int64) ([]string, error)
}

// Resolver computes effective permissions: granted role permissions united
// with granted user permissions.
type Resolver struct {
	store  Store
	cache  *cache.Cache
	logger *slog.Logger
}

// NewResolver returns a resolver that re-reads the store on every call
// unless ttl is positive, in which case results are cached per user.
func NewResolver(store Store, ttl time.Duration, logger *slog.Logger) *Resolver {
	r := &Resolver{store: store, logger: logger}
	if ttl > 0 {
		r.cache = cache.New(ttl, 2*ttl)
	}
	return r
}

// ResolveEffectivePermissions returns an empty set for an unknown user. A
// store failure is returned as an error, never as an empty set.
func (r *Resolver) ResolveEffectivePermissions(ctx context.Context, userID int64) (Set, error) {
	key := strconv.FormatInt(userID, 10)
	if r.cache != nil {
		if v, ok := r.cache.Get(key); ok {
			return v.(Set).Clone(), nil
		}
	}

	role, found, err := r.store.UserRole(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolve permissions: load role for user %d: %w", userID, err)
	}
	if !found {
		return NewSet(), nil
	}

	roleNames, err := r.store.GrantedRolePermissions(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("resolve permissions: role grants for %s: %w", role, err)
	}
	userNames, err := r.store.GrantedUserPermissions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolve permissions: user grants for %d: %w", userID, err)
	}

	set := NewSet()
	r.collect(set, roleNames, "role", userID)
	r.collect(set, userNames, "user", userID)

	if r.cache != nil {
		r.cache.SetDefault(key, set.Clone())
	}
	return set, nil
}

// collect adds catalog names only; stored names outside the catalog grant nothing.
func (r *Resolver) collect(set Set, names []string, source string, userID int64) {
	for _, raw := range names {
		n, ok := Lookup(raw)
		if !ok {
			r.logger.Warn("ignoring grant outside the permission catalog",
				"permission", raw,
				"source", source,
				"user_id", userID)
			continue
		}
		set.Add(n)
	}
}

func (r *Resolver) Invalidate(userID int64) {
	if r.cache != nil {
		r.cache.Delete(strconv.FormatInt(userID, 10))
	}
}

// Flush drops every cached set; a role grant change can affect any user.
func (r *Resolver) Flush() {
	if r.cache != nil {
		r.cache.Flush()
	}
}

// Subscribe wires cache invalidation to grant change events.
func (r *Resolver) Subscribe(bus *events.EventBus) {
	bus.Subscribe(events.EventTypeRoleGrantChanged, func(ctx context.Context, e events.Event) error {
		r.Flush()
		return nil
	})
	bus.Subscribe(events.EventTypeUserGrantChanged, func(ctx context.Context, e events.Event) error {
		changed, ok := e.(*events.UserGrantChangedEvent)
		if !ok {
			r.Flush()
			return nil
		}
		r.Invalidate(changed.UserID)
		return nil
	})
}
