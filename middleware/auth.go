package middleware

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"resource-request-api/config"
	"resource-request-api/models"
	"resource-request-api/services"
)

type Claims struct {
	UserID int    `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// AuthMiddleware validates the JWT token and loads the principal's
// (role, department) memberships into the context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get token from header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		// Check Bearer prefix
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		// Parse token
		token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
			return []byte(os.Getenv("JWT_SECRET")), nil
		})

		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		// Get claims
		claims, ok := token.Claims.(*Claims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			c.Abort()
			return
		}

		// Check if user still exists
		var user models.User
		if err := config.DB.Where("user_id = ? AND delete_at IS NULL", claims.UserID).First(&user).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			c.Abort()
			return
		}

		// Load role/department memberships for the authorization gate
		var memberships []models.UserRole
		if err := config.DB.Preload("Role").
			Where("user_id = ? AND delete_at IS NULL", claims.UserID).
			Find(&memberships).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load memberships"})
			c.Abort()
			return
		}

		// Set user info in context
		c.Set("userID", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("roleSet", services.NewRoleSet(memberships))

		c.Next()
	}
}

// RequireRole checks if user has any of the named roles in any department.
// Department scoping happens in the handlers, which know the target row.
func RequireRole(roleNames ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		rs, ok := CurrentRoleSet(c)
		if !ok {
			c.JSON(http.StatusForbidden, gin.H{"error": "Role not found"})
			c.Abort()
			return
		}

		if !rs.HasRole(roleNames...) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// CurrentRoleSet returns the role set loaded by AuthMiddleware.
func CurrentRoleSet(c *gin.Context) (services.RoleSet, bool) {
	value, exists := c.Get("roleSet")
	if !exists {
		return services.RoleSet{}, false
	}
	rs, ok := value.(services.RoleSet)
	return rs, ok
}
