package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mpopescu/skybooker/internal/domain"
	"github.com/mpopescu/skybooker/internal/service/auth"
)

const identityKey = "identity"

// AuthRequired resolves the bearer token and stores the caller
// identity in the request context. All token failures answer 401 with
// the same message.
func AuthRequired(authUC auth.AuthUseCase) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			respondError(c, http.StatusUnauthorized, "missing bearer token")
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			respondError(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		identity, err := authUC.Resolve(parts[1])
		if err != nil {
			respondError(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// AdminRequired must run after AuthRequired.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := identityFrom(c)
		if identity == nil || identity.Role != domain.RoleAdmin {
			respondError(c, http.StatusForbidden, "administrator role required")
			c.Abort()
			return
		}
		c.Next()
	}
}

func identityFrom(c *gin.Context) *auth.Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	identity, ok := v.(*auth.Identity)
	if !ok {
		return nil
	}
	return identity
}
