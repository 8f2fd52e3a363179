package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-console/internal/domain/entity"
	"github.com/sangkips/pos-console/internal/domain/enum"
	"github.com/sangkips/pos-console/internal/presentation/http/dto/response"
)

// UserKey is the gin context key of the logged-in operator
const UserKey = "user"

// SessionReader exposes the current session
type SessionReader interface {
	Get() (*entity.Session, bool)
}

// RequireSession rejects requests when nobody is logged in at this console. The presence
// of a session is the only gate for protected routes.
func RequireSession(sessions SessionReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := sessions.Get()
		if !ok {
			response.Unauthorized(c, "Not logged in")
			c.Abort()
			return
		}
		user := session.User
		c.Set(UserKey, &user)
		c.Next()
	}
}

// CurrentUser returns the operator stored by RequireSession
func CurrentUser(c *gin.Context) *entity.User {
	v, ok := c.Get(UserKey)
	if !ok {
		return nil
	}
	u, _ := v.(*entity.User)
	return u
}

// RequireCapability creates a middleware that requires the operator's role to grant every
// listed capability
func RequireCapability(caps ...enum.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			response.Forbidden(c, "Access denied")
			c.Abort()
			return
		}
		granted := user.Capabilities()
		for _, want := range caps {
			if !granted.Has(want) {
				response.Forbidden(c, "You do not have permission to perform this action")
				c.Abort()
				return
			}
		}
		c.Next()
	}
}
