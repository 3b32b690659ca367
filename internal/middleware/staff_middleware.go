package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/storyquiz-api/internal/service"
	"github.com/yourusername/storyquiz-api/pkg/auth"
)

// Context keys set by the staff middleware.
const (
	StaffEmailKey = "staffEmail"
	StaffNameKey  = "staffName"
)

// StaffMiddleware authenticates the teacher/admin surface: a bearer JWT
// plus an active mirror user record.
type StaffMiddleware struct {
	tokens *auth.StaffTokenService
	users  *service.UserService
}

// NewStaffMiddleware creates the middleware.
func NewStaffMiddleware(tokens *auth.StaffTokenService, users *service.UserService) *StaffMiddleware {
	return &StaffMiddleware{tokens: tokens, users: users}
}

// RequireStaff verifies the Authorization header and checks that the
// bearer's mirror record is active. Suspended or deactivated staff keep
// a valid token until expiry but lose access immediately.
func (m *StaffMiddleware) RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required", "error_type": "token_missing"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}", "error_type": "token_format"})
			c.Abort()
			return
		}

		claims, err := m.tokens.ParseToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token", "error_type": "token_invalid"})
			c.Abort()
			return
		}

		active, err := m.users.IsActiveStaff(claims.Email)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify staff account"})
			c.Abort()
			return
		}
		if !active {
			c.JSON(http.StatusForbidden, gin.H{"error": "Staff account is not active", "error_type": "account_inactive"})
			c.Abort()
			return
		}

		c.Set(StaffEmailKey, claims.Email)
		c.Set(StaffNameKey, claims.Name)
		c.Next()
	}
}
