package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mafiatrack/backend/internal/database"
	"mafiatrack/backend/internal/identity"
)

// AdminMiddleware creates a gin middleware that restricts a route to
// superuser accounts. It must be used AFTER the standard AuthMiddleware.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID")
		if !exists {
			// This should not happen if AuthMiddleware is used before it
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}

		user, err := identity.NewStore(database.DB).GetByID(userID.(uint))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Authenticated user not found"})
			return
		}

		var bearer identity.PermissionBearer = user
		if !bearer.HasElevatedAccess() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Superuser access required"})
			return
		}

		c.Next()
	}
}
