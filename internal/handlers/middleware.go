package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const bearerScheme = "Bearer"

func (h *Handler) userIdMiddleware(c *gin.Context) {
	token, ok := bearerToken(c.GetHeader("Authorization"))
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "expected 'Authorization: Bearer <token>'",
		})
		return
	}

	userId, err := h.services.ParseToken(token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid or expired token",
		})
		return
	}

	c.Set("userId", userId)
	c.Next()
}

// bearerToken extracts the credential from a Bearer authorization
// header, tolerating extra whitespace around the scheme.
func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || parts[0] != bearerScheme || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
