package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/medibook-api/internal/model"
	"github.com/jwalitptl/medibook-api/pkg/auth"
	"github.com/jwalitptl/medibook-api/pkg/httputil"
)

const ContextActor = "actor"

type AuthMiddleware struct {
	jwtSvc auth.JWTService
}

func NewAuthMiddleware(jwtSvc auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{jwtSvc: jwtSvc}
}

// Authenticate verifies the bearer token and stores the caller in the context.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			httputil.RespondWithStatus(c, http.StatusUnauthorized, "No token provided.")
			return
		}
		m.authenticate(c, token)
	}
}

// AuthenticateStream also accepts the token as a query parameter, since
// browser EventSource clients cannot set headers.
func (m *AuthMiddleware) AuthenticateStream() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			token = c.Query("token")
		}
		if token == "" {
			httputil.RespondWithStatus(c, http.StatusUnauthorized, "No token provided.")
			return
		}
		m.authenticate(c, token)
	}
}

func (m *AuthMiddleware) authenticate(c *gin.Context, token string) {
	claims, err := m.jwtSvc.ValidateToken(token)
	if err != nil {
		httputil.RespondWithStatus(c, http.StatusUnauthorized, "Invalid or expired token.")
		return
	}

	c.Set(ContextActor, claims.Actor())
	c.Next()
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

// RequireRole rejects callers whose role is not listed. Must run after Authenticate.
func RequireRole(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFrom(c)
		if !ok {
			httputil.RespondWithStatus(c, http.StatusUnauthorized, "No token provided.")
			return
		}
		for _, r := range roles {
			if actor.Role == r {
				c.Next()
				return
			}
		}
		httputil.RespondWithStatus(c, http.StatusForbidden, "Access denied.")
	}
}

func ActorFrom(c *gin.Context) (model.Actor, bool) {
	v, ok := c.Get(ContextActor)
	if !ok {
		return model.Actor{}, false
	}
	actor, ok := v.(model.Actor)
	return actor, ok
}
