package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/oms/backend/internal/infrastructure/auth"
	"github.com/oms/backend/internal/infrastructure/logger"
)

// Context keys set by the tenant auth middleware.
const (
	AuthClaimsKey   = "auth_claims"
	AuthTenantIDKey = "auth_tenant_id"
	AuthOperatorKey = "auth_operator"
	AuthHeaderKey   = "Authorization"
	BearerPrefix    = "Bearer "
)

// TenantAuthConfig wires token verification into the request pipeline.
type TenantAuthConfig struct {
	Service *auth.JWTService
	// Revocations is optional. When set, a presented token whose JTI has
	// been revoked is rejected even though its signature is still valid.
	Revocations auth.TokenRevocations
	// SkipPaths bypass authentication entirely (health, docs).
	SkipPaths        []string
	SkipPathPrefixes []string
	Logger           *zap.Logger
}

// TenantAuth requires a valid tenant-scoped bearer token on every
// request outside the skip lists.
func TenantAuth(cfg TenantAuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skip := range cfg.SkipPaths {
			if path == skip {
				c.Next()
				return
			}
		}
		for _, prefix := range cfg.SkipPathPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		token := bearerToken(c)
		if token == "" {
			rejectAuth(c, cfg.Logger, auth.ErrInvalidToken, "missing bearer token")
			return
		}

		claims, err := verifyToken(c, cfg, token)
		if err != nil {
			rejectAuth(c, cfg.Logger, err, "token rejected")
			return
		}

		setAuthContext(c, claims)
		c.Next()
	}
}

// OptionalTenantAuth extracts claims when a token is presented but lets
// unauthenticated requests through; handlers then fall back to the
// X-Tenant-ID header. A token that verifies but has been revoked is
// still rejected, so logout cannot be bypassed by hitting an endpoint
// that tolerates anonymous access.
func OptionalTenantAuth(cfg TenantAuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.Next()
			return
		}

		claims, err := cfg.Service.Verify(token)
		if err != nil {
			c.Next()
			return
		}
		if err := checkRevocation(c, cfg, claims); err != nil {
			rejectAuth(c, cfg.Logger, err, "revoked token presented")
			return
		}

		setAuthContext(c, claims)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader(AuthHeaderKey)
	if !strings.HasPrefix(header, BearerPrefix) {
		return ""
	}
	return strings.TrimPrefix(header, BearerPrefix)
}

func verifyToken(c *gin.Context, cfg TenantAuthConfig, token string) (*auth.TenantClaims, error) {
	claims, err := cfg.Service.Verify(token)
	if err != nil {
		return nil, err
	}
	if err := checkRevocation(c, cfg, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

func checkRevocation(c *gin.Context, cfg TenantAuthConfig, claims *auth.TenantClaims) error {
	if cfg.Revocations == nil || claims.ID == "" {
		return nil
	}
	revoked, err := cfg.Revocations.IsRevoked(c.Request.Context(), claims.ID)
	if err != nil {
		// Fail open: an unreachable revocation store must not take the
		// API down, the token still carried a valid signature.
		if cfg.Logger != nil {
			cfg.Logger.Error("Revocation check failed",
				zap.String("jti", claims.ID),
				zap.Error(err))
		}
		return nil
	}
	if revoked {
		return auth.ErrTokenRevoked
	}
	return nil
}

func setAuthContext(c *gin.Context, claims *auth.TenantClaims) {
	c.Set(AuthClaimsKey, claims)
	c.Set(AuthTenantIDKey, claims.TenantID)
	c.Set(AuthOperatorKey, claims.OperatorName())

	ctx := c.Request.Context()
	log := logger.FromContext(ctx)
	ctx, _ = logger.WithTenantID(ctx, log, claims.TenantID)
	c.Request = c.Request.WithContext(ctx)
}

func rejectAuth(c *gin.Context, log *zap.Logger, err error, message string) {
	if log != nil {
		log.Warn("Authentication failed",
			zap.Error(err),
			zap.String("message", message),
			zap.String("path", c.Request.URL.Path),
		)
	}

	code := "UNAUTHORIZED"
	msg := "Authentication required"
	switch err {
	case auth.ErrExpiredToken:
		code, msg = "TOKEN_EXPIRED", "Token has expired"
	case auth.ErrInvalidToken:
		code, msg = "INVALID_TOKEN", "Invalid token"
	case auth.ErrNotYetValid:
		code, msg = "TOKEN_NOT_VALID", "Token is not yet valid"
	case auth.ErrMissingTenant:
		code, msg = "INVALID_TOKEN", "Token carries no tenant"
	case auth.ErrTokenRevoked:
		code, msg = "TOKEN_REVOKED", "Token has been revoked"
	}

	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": msg,
		},
	})
}

// AuthClaims returns the verified claims, or nil on an anonymous request.
func AuthClaims(c *gin.Context) *auth.TenantClaims {
	if v, ok := c.Get(AuthClaimsKey); ok {
		if claims, ok := v.(*auth.TenantClaims); ok {
			return claims
		}
	}
	return nil
}

// AuthTenantID returns the authenticated tenant id, or "".
func AuthTenantID(c *gin.Context) string {
	if v, ok := c.Get(AuthTenantIDKey); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

// AuthOperator returns the authenticated operator name, or "".
func AuthOperator(c *gin.Context) string {
	if v, ok := c.Get(AuthOperatorKey); ok {
		if op, ok := v.(string); ok {
			return op
		}
	}
	return ""
}
