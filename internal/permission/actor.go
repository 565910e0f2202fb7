package permission

import (
	"context"

	"github.com/frahmantamala/tenant-crm/internal"
)

// Actor is whoever changes a grant. UserID is zero for the command line.
type Actor struct {
	UserID      int64
	Role        Role
	Permissions Set
}

// ActorSource reads the acting user off an admitted request.
type ActorSource func(ctx context.Context) (Actor, error)

// SystemActor is used by the command line, which runs with database access
// and no signed-in user.
func SystemActor() Actor {
	return Actor{Role: RoleSystemAdmin, Permissions: NewSet(All()...)}
}

func (a Actor) grantedBy() *int64 {
	if a.UserID == 0 {
		return nil
	}
	id := a.UserID
	return &id
}

// canChangeRoles: role grants apply to every tenant at once.
func (a Actor) canChangeRoles() error {
	if a.Role.Tier() != TierSuper {
		return internal.ErrInsufficientPermissions.WithDetails(map[string]string{
			"required_role": string(RoleSystemAdmin),
		})
	}
	return nil
}

// canChangeUser refuses edits of the actor's own grants and grants of names
// the actor does not hold. Revoking is allowed for any name.
func (a Actor) canChangeUser(userID int64, name Name, granted bool) error {
	if a.UserID != 0 && a.UserID == userID {
		return internal.ErrInsufficientPermissions.WithDetails(map[string]string{
			"reason": "own grants cannot be changed",
		})
	}
	if granted && !a.Permissions.Has(name) {
		return internal.ErrInsufficientPermissions.WithDetails(map[string]string{
			"required_permission": string(name),
		})
	}
	return nil
}
