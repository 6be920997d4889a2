package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const sessionCookie = "sid"

// SessionMiddleware tags every client with an anonymous session id used
// for rate limiting. The id carries no identity and is never stored
// server-side.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(sessionCookie)
		if err != nil || sid == "" {
			sid = uuid.NewString()
			c.SetCookie(sessionCookie, sid, 60*60*24, "/", "", false, true)
		}

		// Set session id in context
		c.Set("sessionID", sid)
		c.Next()
	}
}

// SessionID returns the session id set by SessionMiddleware, falling
// back to the client IP for requests that bypassed it.
func SessionID(c *gin.Context) string {
	if v, ok := c.Get("sessionID"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return c.ClientIP()
}
