package middleware

import (
	"net/http"
	"strings"
	"time"

	"taller/internal/authz"
	"taller/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Context keys set by Authenticate.
const (
	ctxUserID     = "userID"
	ctxUserNombre = "userNombre"
	ctxUserRole   = "userRole"
)

const accessTokenCookie = "access_token"

// Auth validates access tokens and checks permissions through the injected resolver.
type Auth struct {
	issuer        *authz.TokenIssuer
	resolver      authz.Resolver
	secureCookies bool
}

// NewAuth builds the auth middleware. secureCookies switches the token cookie
// to SameSite=None; Secure for cross-origin production deployments.
func NewAuth(issuer *authz.TokenIssuer, resolver authz.Resolver, secureCookies bool) *Auth {
	return &Auth{issuer: issuer, resolver: resolver, secureCookies: secureCookies}
}

// SetTokenCookie stores the access token as an HttpOnly cookie
func (a *Auth) SetTokenCookie(c *gin.Context, token string, expiresAt time.Time) {
	c.SetSameSite(a.sameSite())
	maxAge := int(time.Until(expiresAt).Seconds())
	c.SetCookie(accessTokenCookie, token, maxAge, "/", "", a.secureCookies, true)
}

// ClearTokenCookie removes the access token cookie
func (a *Auth) ClearTokenCookie(c *gin.Context) {
	c.SetSameSite(a.sameSite())
	c.SetCookie(accessTokenCookie, "", -1, "/", "", a.secureCookies, true)
}

func (a *Auth) sameSite() http.SameSite {
	if a.secureCookies {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}

// Authenticate validates the bearer token (header or cookie) and stores the
// caller's identity in the gin context.
func (a *Auth) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := extractToken(c)
		if !ok {
			abortUnauthorized(c, "Falta el token de autorización")
			return
		}

		claims, err := a.issuer.Parse(tokenString)
		if err != nil {
			abortUnauthorized(c, "Token inválido o expirado")
			return
		}
		userID, err := uuid.Parse(claims.Subject)
		if err != nil {
			abortUnauthorized(c, "Token inválido o expirado")
			return
		}

		c.Set(ctxUserID, userID)
		c.Set(ctxUserNombre, claims.Nombre)
		c.Set(ctxUserRole, claims.Tipo)
		c.Next()
	}
}

// RequirePermission must run after Authenticate. The caller's role must hold
// every permission in perms.
func (a *Auth) RequirePermission(perms ...authz.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := UserRole(c)
		if role == "" {
			abortUnauthorized(c, "No autenticado")
			return
		}

		granted := a.resolver(role)
		for _, p := range perms {
			if !granted.Has(p) {
				c.AbortWithStatusJSON(http.StatusForbidden, response.Coded(http.StatusForbidden, "FORBIDDEN",
					"Acceso denegado: falta el permiso '"+string(p)+"'", nil))
				return
			}
		}
		c.Next()
	}
}

// UserID returns the authenticated user's id.
func UserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ctxUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

func UserRole(c *gin.Context) string {
	return c.GetString(ctxUserRole)
}

func UserNombre(c *gin.Context) string {
	return c.GetString(ctxUserNombre)
}

// extractToken tries the cookie first, then the Authorization header.
func extractToken(c *gin.Context) (string, bool) {
	if tokenString, err := c.Cookie(accessTokenCookie); err == nil && tokenString != "" {
		return tokenString, true
	}

	authHeader := c.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, response.Coded(http.StatusUnauthorized, "UNAUTHORIZED", msg, nil))
}
