package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oms/backend/internal/infrastructure/config"
)

func newTestService(expiration time.Duration) *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:     "test-secret-at-least-32-characters!!",
		Issuer:     "oms-test",
		Expiration: expiration,
	})
}

func TestJWTService_IssueAndVerify(t *testing.T) {
	svc := newTestService(time.Hour)
	tenantID := uuid.New()

	t.Run("verifies a token it issued", func(t *testing.T) {
		token, expiresAt, err := svc.Issue(tenantID, "op-17", "Dana")
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

		claims, err := svc.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, tenantID.String(), claims.TenantID)
		assert.Equal(t, "op-17", claims.Subject)
		assert.Equal(t, "Dana", claims.OperatorName())
		assert.NotEmpty(t, claims.ID)
	})

	t.Run("operator name falls back to the subject", func(t *testing.T) {
		token, _, err := svc.Issue(tenantID, "op-17", "")
		require.NoError(t, err)

		claims, err := svc.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, "op-17", claims.OperatorName())
	})

	t.Run("parses the tenant uuid", func(t *testing.T) {
		token, _, err := svc.Issue(tenantID, "op-17", "")
		require.NoError(t, err)

		claims, err := svc.Verify(token)
		require.NoError(t, err)
		parsed, err := claims.TenantUUID()
		require.NoError(t, err)
		assert.Equal(t, tenantID, parsed)
	})
}

func TestJWTService_Verify_Rejections(t *testing.T) {
	svc := newTestService(time.Hour)
	tenantID := uuid.New()

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := svc.Verify("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects a token signed with another secret", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{
			Secret:     "a-completely-different-signing-secret",
			Issuer:     "oms-test",
			Expiration: time.Hour,
		})
		token, _, err := other.Issue(tenantID, "op-17", "")
		require.NoError(t, err)

		_, err = svc.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects an expired token", func(t *testing.T) {
		expired := newTestService(-time.Minute)
		token, _, err := expired.Issue(tenantID, "op-17", "")
		require.NoError(t, err)

		_, err = svc.Verify(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("rejects a token without a tenant claim", func(t *testing.T) {
		claims := &TenantClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "op-17",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
			SignedString([]byte("test-secret-at-least-32-characters!!"))
		require.NoError(t, err)

		_, err = svc.Verify(token)
		assert.ErrorIs(t, err, ErrMissingTenant)
	})

	t.Run("rejects a malformed tenant claim", func(t *testing.T) {
		claims := &TenantClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "op-17",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
			TenantID: "not-a-uuid",
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
			SignedString([]byte("test-secret-at-least-32-characters!!"))
		require.NoError(t, err)

		_, err = svc.Verify(token)
		assert.ErrorIs(t, err, ErrMissingTenant)
	})

	t.Run("rejects a non-HMAC signature", func(t *testing.T) {
		// alg=none tokens must never pass
		claims := &TenantClaims{TenantID: tenantID.String()}
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).
			SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = svc.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestTenantClaims_RemainingTTL(t *testing.T) {
	t.Run("reports time until expiry", func(t *testing.T) {
		claims := &TenantClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(30 * time.Minute)),
			},
		}
		assert.InDelta(t, float64(30*time.Minute), float64(claims.RemainingTTL()), float64(5*time.Second))
	})

	t.Run("returns zero once expired", func(t *testing.T) {
		claims := &TenantClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			},
		}
		assert.Equal(t, time.Duration(0), claims.RemainingTTL())
	})

	t.Run("returns zero without an expiry claim", func(t *testing.T) {
		assert.Equal(t, time.Duration(0), (&TenantClaims{}).RemainingTTL())
	})
}
