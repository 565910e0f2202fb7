package permission

// Role is a closed set of identifiers; it is a value, not a stored entity.
type Role string

const (
	RoleSystemAdmin      Role = "SYSTEM_ADMIN"
	RoleHQAdmin          Role = "HQ_ADMIN"
	RoleTenantAdmin      Role = "TENANT_ADMIN"
	RoleSalesManager     Role = "SALES_MANAGER"
	RoleMarketingManager Role = "MARKETING_MANAGER"
	RoleFinanceManager   Role = "FINANCE_MANAGER"
	RoleAccountManager   Role = "ACCOUNT_MANAGER"
	RoleSalesRep         Role = "SALES_REP"
	RoleSupport          Role = "SUPPORT"
)

var roles = []Role{
	RoleSystemAdmin,
	RoleHQAdmin,
	RoleTenantAdmin,
	RoleSalesManager,
	RoleMarketingManager,
	RoleFinanceManager,
	RoleAccountManager,
	RoleSalesRep,
	RoleSupport,
}

// Tier groups roles by how far their resource access reaches.
type Tier int

const (
	TierUnknown Tier = iota
	// TierContributor reaches only rows it owns or is assigned to.
	TierContributor
	// TierManager reaches rows inside its own business unit.
	TierManager
	// TierAdmin reaches every row of its tenant.
	TierAdmin
	// TierSuper reaches every row of every tenant.
	TierSuper
)

func (t Tier) String() string {
	switch t {
	case TierContributor:
		return "contributor"
	case TierManager:
		return "manager"
	case TierAdmin:
		return "admin"
	case TierSuper:
		return "super"
	default:
		return "unknown"
	}
}

func Roles() []Role {
	out := make([]Role, len(roles))
	copy(out, roles)
	return out
}

func ParseRole(s string) (Role, bool) {
	for _, r := range roles {
		if string(r) == s {
			return r, true
		}
	}
	return "", false
}

func (r Role) Valid() bool {
	_, ok := ParseRole(string(r))
	return ok
}

func (r Role) Tier() Tier {
	switch r {
	case RoleSystemAdmin:
		return TierSuper
	case RoleHQAdmin, RoleTenantAdmin:
		return TierAdmin
	case RoleSalesManager, RoleMarketingManager, RoleFinanceManager:
		return TierManager
	case RoleSalesRep, RoleAccountManager, RoleSupport:
		return TierContributor
	default:
		return TierUnknown
	}
}

// RequiresTenant is true for every role except the super admin.
func (r Role) RequiresTenant() bool {
	return r != RoleSystemAdmin
}

func (r Role) String() string {
	return string(r)
}

// DefaultRolePermissions is the grant set seeded for each role.
func DefaultRolePermissions() map[Role][]Name {
	tenantAdmin := except(All(), TenantsWrite, TenantsDelete)

	return map[Role][]Name{
		RoleSystemAdmin: All(),
		RoleTenantAdmin: tenantAdmin,
		RoleHQAdmin:     except(tenantAdmin, PermissionsWrite, PermissionsDelete),
		RoleSalesManager: {
			AccountsRead, AccountsWrite,
			CustomersRead, CustomersWrite,
			DealsRead, DealsWrite, DealsDelete,
			TasksRead, TasksWrite, TasksDelete,
			BusinessUnitsRead, UsersRead, ReportsRead,
		},
		RoleMarketingManager: {
			AccountsRead,
			CustomersRead, CustomersWrite,
			DealsRead,
			TasksRead, TasksWrite,
			BusinessUnitsRead, UsersRead, ReportsRead,
		},
		RoleFinanceManager: {
			AccountsRead, CustomersRead, DealsRead,
			BusinessUnitsRead, ReportsRead,
		},
		RoleAccountManager: {
			AccountsRead, AccountsWrite,
			CustomersRead, CustomersWrite,
			DealsRead,
			TasksRead, TasksWrite,
		},
		RoleSalesRep: {
			AccountsRead,
			CustomersRead, CustomersWrite,
			DealsRead, DealsWrite,
			TasksRead, TasksWrite,
		},
		RoleSupport: {
			AccountsRead, CustomersRead,
			TasksRead, TasksWrite,
		},
	}
}

func except(names []Name, drop ...Name) []Name {
	skip := NewSet(drop...)
	out := make([]Name, 0, len(names))
	for _, n := range names {
		if !skip.Has(n) {
			out = append(out, n)
		}
	}
	return out
}
