package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/frahmantamala/tenant-crm/internal/auth"
	"github.com/frahmantamala/tenant-crm/internal/permission"
	"github.com/jmoiron/sqlx"
)

const userColumns = `id, email, name, password_hash, role, tenant_id, business_unit_id, status`

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

type userRow struct {
	ID             int64         `db:"id"`
	Email          string        `db:"email"`
	Name           string        `db:"name"`
	PasswordHash   string        `db:"password_hash"`
	Role           string        `db:"role"`
	TenantID       sql.NullInt64 `db:"tenant_id"`
	BusinessUnitID sql.NullInt64 `db:"business_unit_id"`
	Status         string        `db:"status"`
}

func (r userRow) toUser() auth.User {
	u := auth.User{
		ID:     r.ID,
		Email:  r.Email,
		Name:   r.Name,
		Role:   permission.Role(r.Role),
		Status: auth.Status(r.Status),
	}
	if r.TenantID.Valid {
		v := r.TenantID.Int64
		u.TenantID = &v
	}
	if r.BusinessUnitID.Valid {
		v := r.BusinessUnitID.Int64
		u.BusinessUnitID = &v
	}
	return u
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (*auth.Credentials, error) {
	var row userRow
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 AND deleted_at IS NULL`
	if err := r.db.GetContext(ctx, &row, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, auth.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &auth.Credentials{User: row.toUser(), PasswordHash: row.PasswordHash}, nil
}

func (r *Repository) FindByID(ctx context.Context, userID int64) (*auth.User, error) {
	var row userRow
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND deleted_at IS NULL`
	if err := r.db.GetContext(ctx, &row, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, auth.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user %d: %w", userID, err)
	}
	u := row.toUser()
	return &u, nil
}
