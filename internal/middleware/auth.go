package middleware

import (
	"net/http"
	"strings"

	"party-game-backend/internal/services"

	"github.com/gin-gonic/gin"
)

const (
	SessionHeader = "X-Session-Token"
	SessionCookie = "st"

	PlayerKey = "player"
)

// SessionAuth resolves the opaque bearer token, from the custom header or the
// cookie, to a player and stores it on the context.
func SessionAuth(sessions *services.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(SessionHeader)
		if token == "" {
			token, _ = c.Cookie(SessionCookie)
		}

		player, err := sessions.ResolvePlayer(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "UNAUTHORIZED"})
			return
		}

		c.Set(PlayerKey, player)
		c.Next()
	}
}

// AdminAuth validates the admin bearer token issued by the admin login.
func AdminAuth(admin *services.AdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "UNAUTHORIZED"})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "UNAUTHORIZED"})
			return
		}

		if err := admin.ValidateToken(parts[1]); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "UNAUTHORIZED"})
			return
		}

		c.Next()
	}
}
