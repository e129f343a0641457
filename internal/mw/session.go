package mw

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"property-backoffice/internal/auth"
)

// Context keys set by RequireSession.
const (
	OwnerIDKey    = "owner_id"
	OwnerEmailKey = "owner_email"
)

// RequireSession admits requests carrying a valid session token, either in
// the session cookie or as an "Authorization: Bearer" header.
func RequireSession(sessions *auth.Sessions, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			if cookie, err := c.Cookie(cookieName); err == nil {
				token = cookie
			}
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "login required"})
			return
		}

		claims, err := sessions.Parse(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session expired or invalid"})
			return
		}

		c.Set(OwnerIDKey, claims.OwnerID)
		c.Set(OwnerEmailKey, claims.Email)
		c.Next()
	}
}

func bearerToken(header string) string {
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}
