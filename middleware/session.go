package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"zenflow/utils"
)

// SessionContextKey is where the resolved session id lives on the gin
// context.
const SessionContextKey = "sessionID"

// SessionMiddleware resolves the caller's session identity from the
// X-Session-ID header, minting a fresh id when the client has none yet.
// The id is echoed back on every response so the client can persist it.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader(utils.SessionHeader)
		if sessionID == "" {
			sessionID = uuid.New().String()
		}
		c.Set(SessionContextKey, sessionID)
		c.Header(utils.SessionHeader, sessionID)
		c.Next()
	}
}

// SessionID returns the session id resolved by SessionMiddleware.
func SessionID(c *gin.Context) string {
	return c.GetString(SessionContextKey)
}
