package middleware

import (
	"net/http"
	"strings"

	"pharmakiosk/models"
	"pharmakiosk/utils"

	"github.com/gin-gonic/gin"
)

// Context keys set by JWTAuthAdminMiddleware.
const (
	AdminIDKey = "adminID"
	IsAdminKey = "isAdmin"
)

// JWTAuthAdminMiddleware admits requests carrying a valid admin bearer token.
func JWTAuthAdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		sub, role, err := utils.ExtractClaims(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}
		if role != string(models.RoleAdmin) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Unauthorized admin access"})
			return
		}

		c.Set(AdminIDKey, sub)
		c.Set(IsAdminKey, true)
		c.Next()
	}
}
