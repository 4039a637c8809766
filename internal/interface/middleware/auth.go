package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-address-dispatch/internal/domain/entity"
	"github.com/oksasatya/go-address-dispatch/pkg/helpers"
	"github.com/oksasatya/go-address-dispatch/pkg/response"
)

const (
	CtxUserIDKey    = "userID"
	CtxIsAdminKey   = "isAdmin"
	CtxUserEmailKey = "userEmail"
	CtxClaimsKey    = "claims"
)

const (
	msgNoCredential      = "no credential supplied"
	msgInvalidCredential = "invalid credential"
)

// bearerToken extracts the token from an Authorization header. Both the raw
// token and the "Bearer <token>" form are accepted.
func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) >= len("Bearer") && strings.EqualFold(header[:len("Bearer")], "Bearer") {
		rest := header[len("Bearer"):]
		if rest == "" || rest[0] == ' ' || rest[0] == '\t' {
			return strings.TrimSpace(rest)
		}
	}
	return header
}

// Auth validates the bearer token and stores the decoded identity in the Gin
// context. There is no session lookup, a token is valid until it expires.
func Auth(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			response.Error(c, http.StatusUnauthorized, msgNoCredential, nil)
			return
		}
		claims, err := jwt.ParseToken(token)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, msgInvalidCredential, nil)
			return
		}
		c.Set(CtxUserIDKey, claims.UserID)
		c.Set(CtxIsAdminKey, claims.IsAdmin)
		c.Set(CtxUserEmailKey, claims.Email)
		c.Set(CtxClaimsKey, claims)
		c.Next()
	}
}

// RequireAdmin must run after Auth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(CtxIsAdminKey) {
			response.Error(c, http.StatusForbidden, "admin only", nil)
			return
		}
		c.Next()
	}
}

// ActorFromContext returns the caller identity set by Auth.
func ActorFromContext(c *gin.Context) entity.Actor {
	return entity.Actor{UserID: c.GetString(CtxUserIDKey), IsAdmin: c.GetBool(CtxIsAdminKey)}
}
