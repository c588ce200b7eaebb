package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/ldtri/mealgo-api/configs"
	domain "github.com/ldtri/mealgo-api/internal/entity"
)

const (
	ctxActorID = "actor_id"
	ctxRole    = "actor_role"
)

type Authz struct {
	cfg configs.Config
}

func NewAuthz(cfg configs.Config) *Authz {
	return &Authz{cfg: cfg}
}

// Authenticate parses the bearer token and stores (actorID, role) in the
// request context. Identity in the token is trusted as ground truth; per-order
// access (owner, assignee) is checked downstream against the order itself.
func (a *Authz) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			unauth(c, "invalid_request", "missing bearer token")
			return
		}

		raw := strings.TrimPrefix(auth, "Bearer ")
		token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(a.cfg.Security.JWTSecret), nil
		}, jwt.WithLeeway(30*time.Second)) // small clock skew

		if err != nil || !token.Valid {
			unauth(c, "invalid_token", "invalid jwt")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			unauth(c, "invalid_token", "claims parsing error")
			return
		}

		if claims["iss"] != a.cfg.Security.Issuer || claims["aud"] != a.cfg.Security.Audience {
			unauth(c, "invalid_token", "iss/aud mismatch")
			return
		}

		sub, _ := claims["sub"].(string)
		roleClaim, _ := claims["role"].(string)
		role, ok := domain.ParseRole(roleClaim)
		if sub == "" || !ok {
			unauth(c, "invalid_token", "missing subject or role")
			return
		}

		c.Set(ctxActorID, sub)
		c.Set(ctxRole, role)
		c.Next()
	}
}

// RequireRole gates a route group to the listed roles. Run Authenticate first.
func (a *Authz) RequireRole(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, role := Actor(c)
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		forbidden(c, "insufficient_role", "this action is not available to your role")
	}
}

// Actor returns the authenticated identity stored by Authenticate.
func Actor(c *gin.Context) (actorID string, role domain.Role) {
	actorID = c.GetString(ctxActorID)
	if v, ok := c.Get(ctxRole); ok {
		role, _ = v.(domain.Role)
	}
	return actorID, role
}

func unauth(c *gin.Context, code, desc string) {
	c.Header("WWW-Authenticate", `Bearer error="`+code+`", error_description="`+desc+`"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": code, "error_description": desc})
}

func forbidden(c *gin.Context, code, desc string) {
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": code, "error_description": desc})
}
