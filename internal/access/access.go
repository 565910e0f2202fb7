package access

import (
	"errors"

	"github.com/frahmantamala/tenant-crm/internal/permission"
)

type ResourceType string

const (
	ResourceAccount      ResourceType = "account"
	ResourceBusinessUnit ResourceType = "businessUnit"
	ResourceTenant       ResourceType = "tenant"
	ResourceCustomer     ResourceType = "customer"
	ResourceDeal         ResourceType = "deal"
	ResourceTask         ResourceType = "task"
	ResourceUser         ResourceType = "user"
)

func (t ResourceType) Valid() bool {
	switch t {
	case ResourceAccount, ResourceBusinessUnit, ResourceTenant,
		ResourceCustomer, ResourceDeal, ResourceTask, ResourceUser:
		return true
	}
	return false
}

var (
	ErrResourceNotFound    = errors.New("resource not found")
	ErrSubjectNotFound     = errors.New("subject not found")
	ErrUnknownResourceType = errors.New("unknown resource type")
)

// Decision is the outcome of a single-resource access check.
type Decision int

const (
	Allowed Decision = iota
	// NotFound: the resource id does not exist.
	NotFound
	// DeniedUnknownUser: the requesting user does not exist.
	DeniedUnknownUser
	// DeniedTenant: the resource belongs to another tenant, or to none.
	DeniedTenant
	// DeniedScope: same tenant, but outside the role's business unit or ownership reach.
	DeniedScope
	// DeniedRole: the role is not recognized.
	DeniedRole
)

func (d Decision) String() string {
	switch d {
	case Allowed:
		return "allowed"
	case NotFound:
		return "not_found"
	case DeniedUnknownUser:
		return "denied_unknown_user"
	case DeniedTenant:
		return "denied_tenant"
	case DeniedScope:
		return "denied_scope"
	case DeniedRole:
		return "denied_role"
	default:
		return "unknown"
	}
}

// Subject is the requesting user with the attributes scoping depends on.
type Subject struct {
	UserID         int64
	Role           permission.Role
	TenantID       *int64
	BusinessUnitID *int64
}

// Resource carries the foreign keys of one row. TenantID is the row's own
// column; UnitTenantID is the tenant of its business unit.
type Resource struct {
	Type           ResourceType
	ID             int64
	TenantID       *int64
	UnitTenantID   *int64
	BusinessUnitID *int64
	OwnerID        *int64
}

// Tenant resolves the owning tenant: the direct column when set, otherwise
// the business unit's tenant.
func (r Resource) Tenant() (int64, bool) {
	if r.TenantID != nil {
		return *r.TenantID, true
	}
	if r.UnitTenantID != nil {
		return *r.UnitTenantID, true
	}
	return 0, false
}

// Decide is the pure decision over already loaded rows.
func Decide(s Subject, r Resource) Decision {
	tier := s.Role.Tier()
	if tier == permission.TierSuper {
		return Allowed
	}

	tenantID, ok := r.Tenant()
	if !ok || s.TenantID == nil || *s.TenantID != tenantID {
		return DeniedTenant
	}

	switch tier {
	case permission.TierAdmin:
		return Allowed
	case permission.TierManager:
		if r.Type == ResourceTenant {
			return DeniedScope
		}
		if sameID(s.BusinessUnitID, r.BusinessUnitID) {
			return Allowed
		}
		return DeniedScope
	case permission.TierContributor:
		if r.Type == ResourceTenant {
			return DeniedScope
		}
		if r.OwnerID != nil && *r.OwnerID == s.UserID {
			return Allowed
		}
		return DeniedScope
	default:
		return DeniedRole
	}
}

func sameID(a, b *int64) bool {
	return a != nil && b != nil && *a == *b
}
