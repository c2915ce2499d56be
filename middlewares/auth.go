package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Vinay0726/Eventra/utils"
)

const principalKey = "principal"

// Authenticate verifies the bearer token and resolves it into a typed
// principal exactly once; everything downstream reads the principal, never
// the token.
func Authenticate(c *gin.Context) {
	token := c.GetHeader("Authorization")
	token = strings.TrimPrefix(token, "Bearer ")
	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authorized."})
		return
	}

	p, err := utils.VerifyToken(token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authorized."})
		return
	}

	c.Set(principalKey, p)
	c.Set("userId", p.ID) // rate limiter and quota key funcs read this
	c.Next()
}

// PrincipalFrom returns the authenticated caller, or false on public routes.
func PrincipalFrom(c *gin.Context) (utils.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return utils.Principal{}, false
	}
	p, ok := v.(utils.Principal)
	return p, ok
}

// RequireRole gates a route group on the principal's role.
func RequireRole(roles ...utils.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := PrincipalFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authorized."})
			return
		}
		for _, r := range roles {
			if p.Role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Forbidden."})
	}
}
