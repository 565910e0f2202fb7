package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/frahmantamala/tenant-crm/internal"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// ServiceAPI is what the HTTP layer needs from the auth service.
type ServiceAPI interface {
	Authenticate(ctx context.Context, dto LoginDTO) (AuthTokens, error)
	RefreshTokens(ctx context.Context, refreshToken string) (AuthTokens, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	LoadPrincipal(ctx context.Context, userID int64) (*Principal, error)
}

// Service is the main auth service with dependencies
type Service struct {
	users          UserRepository
	tokenGenerator TokenGenerator
	resolver       PermissionResolver
	bcryptCost     int
	accessTTL      time.Duration
}

func NewService(users UserRepository, tokenGen *JWTTokenGenerator, resolver PermissionResolver, bcryptCost int) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		users:          users,
		tokenGenerator: tokenGen,
		resolver:       resolver,
		bcryptCost:     bcryptCost,
		accessTTL:      tokenGen.AccessTokenTTL,
	}
}

func NewJWTTokenGenerator(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *JWTTokenGenerator {
	return &JWTTokenGenerator{
		AccessTokenSecret:  []byte(accessSecret),
		RefreshTokenSecret: []byte(refreshSecret),
		AccessTokenTTL:     accessTTL,
		RefreshTokenTTL:    refreshTTL,
	}
}

// Authenticate validates credentials and returns tokens. Inactive users and
// non super admins without a tenant cannot log in.
func (s *Service) Authenticate(ctx context.Context, dto LoginDTO) (AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return AuthTokens{}, err
	}

	creds, err := s.users.FindByEmail(ctx, dto.Email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			// unknown emails cost the same as a wrong password
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(dto.Password))
			return AuthTokens{}, internal.ErrInvalidLogin
		}
		return AuthTokens{}, internal.NewInfrastructureError("failed to load user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(dto.Password)); err != nil {
		return AuthTokens{}, internal.ErrInvalidLogin
	}

	if !creds.IsActive() {
		return AuthTokens{}, internal.ErrAccountInactive
	}
	if !creds.HasRequiredTenant() {
		return AuthTokens{}, internal.ErrTenantRequired
	}

	return s.issue(strconv.FormatInt(creds.ID, 10), creds.Email)
}

// RefreshTokens validates refresh token and returns new tokens
func (s *Service) RefreshTokens(ctx context.Context, refreshToken string) (AuthTokens, error) {
	claims, err := s.tokenGenerator.ValidateRefreshToken(refreshToken)
	if err != nil {
		return AuthTokens{}, err
	}

	userID, err := strconv.ParseInt(claims.UserID, 10, 64)
	if err != nil {
		return AuthTokens{}, internal.ErrInvalidCredential
	}
	u, err := s.loadUser(ctx, userID)
	if err != nil {
		return AuthTokens{}, err
	}

	return s.issue(claims.UserID, u.Email)
}

func (s *Service) issue(userID, email string) (AuthTokens, error) {
	accessToken, err := s.tokenGenerator.GenerateAccessToken(userID, email)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to sign access token", err)
	}

	refreshToken, err := s.tokenGenerator.GenerateRefreshToken(userID, email)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to sign refresh token", err)
	}

	return AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.accessTTL.Seconds()),
	}, nil
}

// ValidateAccessToken validates access token and returns claims
func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokenGenerator.ValidateAccessToken(tokenString)
}

// LoadPrincipal loads the user behind a verified credential and resolves
// its permissions for the current request.
func (s *Service) LoadPrincipal(ctx context.Context, userID int64) (*Principal, error) {
	u, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	perms, err := s.resolver.ResolveEffectivePermissions(ctx, u.ID)
	if err != nil {
		return nil, internal.NewInfrastructureError("failed to resolve permissions", err)
	}

	return &Principal{User: u, Permissions: perms}, nil
}

func (s *Service) loadUser(ctx context.Context, userID int64) (*User, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, internal.ErrInvalidCredential
		}
		return nil, internal.NewInfrastructureError("failed to load user", err)
	}
	if !u.IsActive() {
		return nil, internal.ErrAccountInactive
	}
	if !u.HasRequiredTenant() {
		return nil, internal.ErrTenantRequired
	}
	return u, nil
}

// HashPassword creates a bcrypt hash of the password
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.MinCost)

// GenerateAccessToken creates a new access token
func (j *JWTTokenGenerator) GenerateAccessToken(userID, email string) (string, error) {
	return j.sign(userID, email, tokenTypeAccess, j.AccessTokenTTL, j.AccessTokenSecret)
}

// GenerateRefreshToken creates a new refresh token
func (j *JWTTokenGenerator) GenerateRefreshToken(userID, email string) (string, error) {
	return j.sign(userID, email, tokenTypeRefresh, j.RefreshTokenTTL, j.RefreshTokenSecret)
}

func (j *JWTTokenGenerator) sign(userID, email, tokenType string, ttl time.Duration, secret []byte) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:    userID,
		Email:     email,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func (j *JWTTokenGenerator) ValidateAccessToken(tokenString string) (*Claims, error) {
	return j.validate(tokenString, tokenTypeAccess, j.AccessTokenSecret)
}

func (j *JWTTokenGenerator) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return j.validate(tokenString, tokenTypeRefresh, j.RefreshTokenSecret)
}

// validate maps every failure onto the invalid credential taxonomy; expiry
// keeps its own detail.
func (j *JWTTokenGenerator) validate(tokenString, tokenType string, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, internal.ErrTokenExpired
		}
		return nil, internal.ErrInvalidCredential.WithCause(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.TokenType != tokenType || claims.UserID == "" {
		return nil, internal.ErrInvalidCredential
	}
	return claims, nil
}
