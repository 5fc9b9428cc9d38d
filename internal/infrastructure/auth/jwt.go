package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/oms/backend/internal/infrastructure/config"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token has expired")
	ErrNotYetValid   = errors.New("token is not yet valid")
	ErrMissingTenant = errors.New("token carries no tenant_id")
	ErrTokenRevoked  = errors.New("token has been revoked")
)

// TenantClaims are the claims this service expects in a bearer token.
// Tokens are minted by the external identity provider; TenantID scopes
// every request to one tenant's stock ledger and Subject identifies the
// operator recorded in order history and purchase audit rows.
type TenantClaims struct {
	jwt.RegisteredClaims
	TenantID string `json:"tenant_id"`
	Operator string `json:"operator,omitempty"`
}

// TenantUUID parses the tenant id claim.
func (c *TenantClaims) TenantUUID() (uuid.UUID, error) {
	return uuid.Parse(c.TenantID)
}

// OperatorName returns the display name recorded on mutations, falling
// back to the subject when the provider sets no operator claim.
func (c *TenantClaims) OperatorName() string {
	if c.Operator != "" {
		return c.Operator
	}
	return c.Subject
}

// RemainingTTL reports how long the token stays valid. Used as the
// revocation entry lifetime so revoked tokens age out of Redis on their
// own expiry.
func (c *TenantClaims) RemainingTTL() time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	remaining := time.Until(c.ExpiresAt.Time)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// JWTService verifies tenant-scoped bearer tokens. It can also mint
// tokens, which the HTTP tests and local tooling use; production tokens
// come from the identity provider sharing the same secret.
type JWTService struct {
	secret     []byte
	issuer     string
	expiration time.Duration
}

func NewJWTService(cfg config.JWTConfig) *JWTService {
	return &JWTService{
		secret:     []byte(cfg.Secret),
		issuer:     cfg.Issuer,
		expiration: cfg.Expiration,
	}
}

// Issue mints a signed token for the given tenant and operator.
func (s *JWTService) Issue(tenantID uuid.UUID, subject, operator string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.expiration)
	claims := &TenantClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    s.issuer,
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		TenantID: tenantID.String(),
		Operator: operator,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// Verify parses and validates a bearer token. Only HMAC signatures are
// accepted and the tenant claim is mandatory.
func (s *JWTService) Verify(tokenString string) (*TenantClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TenantClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return nil, ErrNotYetValid
		default:
			return nil, ErrInvalidToken
		}
	}

	claims, ok := token.Claims.(*TenantClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TenantID == "" {
		return nil, ErrMissingTenant
	}
	if _, err := uuid.Parse(claims.TenantID); err != nil {
		return nil, ErrMissingTenant
	}
	return claims, nil
}
