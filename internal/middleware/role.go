package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/researchlab/experiment-api/internal/models"
)

// RequireRole is a middleware that checks if the user has the required role.
// The comparison is an exact match: there is no role hierarchy.
func RequireRole(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Set by JWTAuth middleware
		_, exists := c.Get(ContextUserID)
		if !exists {
			respondWithError(c, http.StatusUnauthorized, models.ErrUnauthorized, "User not authenticated")
			return
		}

		role, exists := c.Get(ContextUserRole)
		if !exists {
			respondWithError(c, http.StatusForbidden, models.ErrForbidden, "User role not found in token")
			return
		}

		userRole, ok := role.(string)
		if !ok || userRole != requiredRole {
			respondWithError(c, http.StatusForbidden, models.ErrForbidden, "Forbidden: Insufficient permissions")
			return
		}

		c.Next()
	}
}
