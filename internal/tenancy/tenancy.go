// Package tenancy holds the one query helper every collection route uses to
// restrict rows to the caller's tenant.
package tenancy

import (
	sq "github.com/Masterminds/squirrel"
	"github.com/frahmantamala/tenant-crm/internal"
	"github.com/frahmantamala/tenant-crm/internal/permission"
	"gorm.io/gorm"
)

// Columns names the scoping columns of a table, qualified as the query
// refers to them. Leave a field empty when the table has no such column.
type Columns struct {
	Tenant       string
	BusinessUnit string
}

// Scope restricts list queries. The zero value matches nothing.
type Scope struct {
	tenantID     int64
	unrestricted bool
	valid        bool
}

func Unrestricted() Scope {
	return Scope{unrestricted: true, valid: true}
}

func ForTenant(tenantID int64) Scope {
	return Scope{tenantID: tenantID, valid: true}
}

// ScopeFor derives the scope from the caller's role and tenant. Only the
// super admin is unrestricted; anyone else needs a tenant.
func ScopeFor(role permission.Role, tenantID *int64) (Scope, error) {
	if role.Tier() == permission.TierSuper {
		return Unrestricted(), nil
	}
	if tenantID == nil {
		return Scope{}, internal.ErrTenantRequired
	}
	return ForTenant(*tenantID), nil
}

func (s Scope) Unrestricted() bool {
	return s.valid && s.unrestricted
}

// TenantID is zero for unrestricted or invalid scopes.
func (s Scope) TenantID() (int64, bool) {
	if !s.valid || s.unrestricted {
		return 0, false
	}
	return s.tenantID, true
}

// Where renders the tenant predicate. A row carrying its own tenant column
// is judged by it; otherwise by its business unit's tenant.
func (s Scope) Where(cols Columns) sq.Sqlizer {
	switch {
	case !s.valid:
		return sq.Expr("1 = 0")
	case s.unrestricted:
		return sq.Expr("1 = 1")
	}

	viaUnit := sq.Expr(cols.BusinessUnit+" IN (SELECT id FROM business_units WHERE tenant_id = ?)", s.tenantID)

	switch {
	case cols.Tenant != "" && cols.BusinessUnit != "":
		return sq.Or{
			sq.Eq{cols.Tenant: s.tenantID},
			sq.And{sq.Eq{cols.Tenant: nil}, viaUnit},
		}
	case cols.Tenant != "":
		return sq.Eq{cols.Tenant: s.tenantID}
	case cols.BusinessUnit != "":
		return viaUnit
	default:
		// no way to place the row in a tenant
		return sq.Expr("1 = 0")
	}
}

// Apply adds the predicate to a gorm query.
func (s Scope) Apply(db *gorm.DB, cols Columns) *gorm.DB {
	query, args, err := s.Where(cols).ToSql()
	if err != nil {
		_ = db.AddError(err)
		return db
	}
	return db.Where(query, args...)
}

// Gorm adapts Apply to db.Scopes.
func (s Scope) Gorm(cols Columns) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return s.Apply(db, cols)
	}
}
