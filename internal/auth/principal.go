package auth

import (
	"context"

	"github.com/frahmantamala/tenant-crm/internal"
	"github.com/frahmantamala/tenant-crm/internal/permission"
	"github.com/frahmantamala/tenant-crm/internal/tenancy"
)

// Principal is what the identity stage attaches to an admitted request.
// Permissions are resolved once for that request.
type Principal struct {
	User        *User
	Permissions permission.Set
}

func (p *Principal) Has(name permission.Name) bool {
	return p != nil && p.Permissions.Has(name)
}

func (p *Principal) Tier() permission.Tier {
	if p == nil || p.User == nil {
		return permission.TierUnknown
	}
	return p.User.Role.Tier()
}

func (p *Principal) IsSuperAdmin() bool {
	return p.Tier() == permission.TierSuper
}

// Scope is the tenant filter every list query of this request must apply.
func (p *Principal) Scope() (tenancy.Scope, error) {
	if p == nil || p.User == nil {
		return tenancy.Scope{}, nil
	}
	return tenancy.ScopeFor(p.User.Role, p.User.TenantID)
}

// ScopeFromContext is what list handlers call before querying.
func ScopeFromContext(ctx context.Context) (tenancy.Scope, error) {
	p, ok := PrincipalFromContext(ctx)
	if !ok {
		return tenancy.Scope{}, internal.ErrAuthenticationRequired
	}
	return p.Scope()
}

// GrantActor hands the permission handlers the signed-in user as the actor of
// a grant change.
func GrantActor(ctx context.Context) (permission.Actor, error) {
	p, ok := PrincipalFromContext(ctx)
	if !ok {
		return permission.Actor{}, internal.ErrAuthenticationRequired
	}
	return permission.Actor{UserID: p.User.ID, Role: p.User.Role, Permissions: p.Permissions}, nil
}

type principalKey struct{}

func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*Principal)
	return p, ok && p != nil && p.User != nil
}
