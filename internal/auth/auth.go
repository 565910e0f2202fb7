package auth

import (
	"context"
	"errors"
	"time"

	"github.com/frahmantamala/tenant-crm/internal/permission"
	"github.com/golang-jwt/jwt/v5"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusSuspended Status = "suspended"
)

// User is the identity record the gate works with.
type User struct {
	ID             int64           `json:"id"`
	Email          string          `json:"email"`
	Name           string          `json:"name"`
	Role           permission.Role `json:"role"`
	TenantID       *int64          `json:"tenant_id,omitempty"`
	BusinessUnitID *int64          `json:"business_unit_id,omitempty"`
	Status         Status          `json:"status"`
}

func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// HasRequiredTenant enforces that every non super admin belongs to a tenant.
func (u *User) HasRequiredTenant() bool {
	return !u.Role.RequiresTenant() || u.TenantID != nil
}

// Credentials is a user together with the stored password hash.
type Credentials struct {
	User
	PasswordHash string
}

var ErrUserNotFound = errors.New("user not found")

type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*Credentials, error)
	FindByID(ctx context.Context, userID int64) (*User, error)
}

type PermissionResolver interface {
	ResolveEffectivePermissions(ctx context.Context, userID int64) (permission.Set, error)
}

// TokenGenerator creates and validates bearer credentials.
type TokenGenerator interface {
	GenerateAccessToken(userID string, email string) (token string, err error)
	GenerateRefreshToken(userID string, email string) (token string, err error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	ValidateRefreshToken(tokenString string) (*Claims, error)
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// Claims represents JWT token claims
type Claims struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

type JWTTokenGenerator struct {
	AccessTokenSecret  []byte
	RefreshTokenSecret []byte
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
}
