package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/frahmantamala/tenant-crm/internal/access"
	"github.com/frahmantamala/tenant-crm/internal/permission"
	"gorm.io/gorm"
)

// resourceTable describes where a resource type keeps its scoping keys.
// Empty expressions select NULL.
type resourceTable struct {
	name   string
	tenant string
	unit   string
	owner  string
	// joinUnit resolves the business unit's tenant through business_units.
	joinUnit bool
	// softDelete hides rows with deleted_at set.
	softDelete bool
}

var resourceTables = map[access.ResourceType]resourceTable{
	access.ResourceAccount: {
		name: "accounts", tenant: "r.tenant_id", unit: "r.business_unit_id", owner: "r.manager_id", joinUnit: true,
	},
	access.ResourceBusinessUnit: {
		name: "business_units", tenant: "r.tenant_id", unit: "r.id", owner: "r.manager_id",
	},
	access.ResourceTenant: {
		name: "tenants", tenant: "r.id",
	},
	access.ResourceCustomer: {
		name: "customers", tenant: "r.tenant_id", unit: "r.business_unit_id", owner: "r.assigned_to_id", joinUnit: true,
	},
	access.ResourceDeal: {
		name: "deals", tenant: "r.tenant_id", unit: "r.business_unit_id", owner: "r.owner_id", joinUnit: true,
	},
	access.ResourceTask: {
		name: "tasks", tenant: "r.tenant_id", unit: "r.business_unit_id", owner: "r.assignee_id", joinUnit: true,
	},
	access.ResourceUser: {
		name: "users", tenant: "r.tenant_id", unit: "r.business_unit_id", owner: "r.id", joinUnit: true, softDelete: true,
	},
}

type AccessRepository struct {
	db *gorm.DB
}

func NewAccessRepository(db *gorm.DB) *AccessRepository {
	return &AccessRepository{db: db}
}

var _ access.Repository = (*AccessRepository)(nil)

type resourceRow struct {
	ID             int64
	TenantID       *int64
	UnitTenantID   *int64
	BusinessUnitID *int64
	OwnerID        *int64
}

func orNull(expr string) string {
	if expr == "" {
		return "NULL"
	}
	return expr
}

// resourceQuery builds the single-row lookup for a resource type.
func resourceQuery(t access.ResourceType, id int64) (string, []interface{}, error) {
	spec, ok := resourceTables[t]
	if !ok {
		return "", nil, fmt.Errorf("%w: %q", access.ErrUnknownResourceType, t)
	}

	unitTenant := "NULL"
	if spec.joinUnit {
		unitTenant = "bu.tenant_id"
	}

	stmt := sq.Select(
		"r.id AS id",
		orNull(spec.tenant)+" AS tenant_id",
		unitTenant+" AS unit_tenant_id",
		orNull(spec.unit)+" AS business_unit_id",
		orNull(spec.owner)+" AS owner_id",
	).From(spec.name + " AS r")

	if spec.joinUnit {
		stmt = stmt.LeftJoin("business_units AS bu ON bu.id = " + spec.unit)
	}

	stmt = stmt.Where(sq.Eq{"r.id": id})
	if spec.softDelete {
		stmt = stmt.Where(sq.Eq{"r.deleted_at": nil})
	}
	return stmt.Limit(1).ToSql()
}

func (r *AccessRepository) FindResource(ctx context.Context, t access.ResourceType, id int64) (*access.Resource, error) {
	query, args, err := resourceQuery(t, id)
	if err != nil {
		return nil, err
	}

	var row resourceRow
	res := r.db.WithContext(ctx).Raw(query, args...).Scan(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, access.ErrResourceNotFound
	}

	return &access.Resource{
		Type:           t,
		ID:             row.ID,
		TenantID:       row.TenantID,
		UnitTenantID:   row.UnitTenantID,
		BusinessUnitID: row.BusinessUnitID,
		OwnerID:        row.OwnerID,
	}, nil
}

type subjectRow struct {
	ID             int64
	Role           string
	TenantID       *int64
	BusinessUnitID *int64
}

func (r *AccessRepository) FindSubject(ctx context.Context, userID int64) (*access.Subject, error) {
	query, args, err := sq.Select("id", "role", "tenant_id", "business_unit_id").
		From("users").
		Where(sq.Eq{"id": userID, "deleted_at": nil}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, err
	}

	var row subjectRow
	res := r.db.WithContext(ctx).Raw(query, args...).Scan(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, access.ErrSubjectNotFound
	}

	return &access.Subject{
		UserID:         row.ID,
		Role:           permission.Role(row.Role),
		TenantID:       row.TenantID,
		BusinessUnitID: row.BusinessUnitID,
	}, nil
}
