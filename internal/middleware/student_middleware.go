package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/storyquiz-api/pkg/auth"
)

// Context keys set by the student middleware.
const (
	StudentIdentityKey = "studentIdentity"
)

// ViewGate answers whether the identity has a recorded view for the
// story behind a code. Satisfied by service.StudentService.
type ViewGate interface {
	HasViewedStory(code string, identity auth.StudentIdentity) (bool, error)
}

// StudentMiddleware resolves the signed student cookies for the public
// (student-facing) routes.
type StudentMiddleware struct {
	tokens   *auth.StudentTokenService
	students ViewGate
}

// NewStudentMiddleware creates the middleware.
func NewStudentMiddleware(tokens *auth.StudentTokenService, students ViewGate) *StudentMiddleware {
	return &StudentMiddleware{tokens: tokens, students: students}
}

// RequireConsent rejects requests that lack the privacy consent cookie.
// The client shows the consent prompt on this error.
func (m *StudentMiddleware) RequireConsent() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !auth.HasConsent(c.Request) {
			c.JSON(http.StatusForbidden, gin.H{
				"error":      "Privacy consent is required",
				"error_type": "consent_required",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireIdentity verifies the student_info cookie and stores the
// identity in the Gin context. A missing or tampered cookie sends the
// student back to the entry form.
func (m *StudentMiddleware) RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := m.tokens.IdentityFromRequest(c.Request)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":      "Student session is missing or invalid",
				"error_type": "identity_required",
			})
			c.Abort()
			return
		}
		c.Set(StudentIdentityKey, *identity)
		c.Next()
	}
}

// RequireViewed gates quiz routes behind a recorded story view for the
// code in the :code URL parameter. The redirect hint sends the student
// to the story of their own authorized code, not the one they tried:
// a shared results link never leads anywhere but the student's own
// story.
func (m *StudentMiddleware) RequireViewed() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := MustStudentIdentity(c)
		code := c.Param("code")

		viewed, err := m.students.HasViewedStory(code, identity)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check story view"})
			c.Abort()
			return
		}
		if !viewed {
			target := identity.AuthorizedCode
			if target == "" {
				target = code
			}
			c.JSON(http.StatusForbidden, gin.H{
				"error":      "Watch the story before taking the quiz",
				"error_type": "view_required",
				"redirect":   "/story/" + target,
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// MustStudentIdentity reads the identity placed by RequireIdentity.
// Safe only on routes behind that middleware.
func MustStudentIdentity(c *gin.Context) auth.StudentIdentity {
	return c.MustGet(StudentIdentityKey).(auth.StudentIdentity)
}
