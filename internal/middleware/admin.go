package middleware

import (
	"net/http"

	"learnhub/internal/infrastructure/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AdminOnly вешается ПОСЛЕ AuthMiddleware: достает профиль и пускает
// только role=admin. Ставится на всю группу /admin.
func AdminOnly(profiles *repository.ProfileRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := uuid.Parse(c.GetString("userId"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		profile, err := profiles.GetByID(c, userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Failed to verify user profile"})
			return
		}

		if !profile.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied: admins only"})
			return
		}
		c.Next()
	}
}
