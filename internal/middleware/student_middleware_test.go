package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/storyquiz-api/pkg/auth"
)

type stubViewGate struct {
	viewed bool
	err    error
}

func (s *stubViewGate) HasViewedStory(code string, identity auth.StudentIdentity) (bool, error) {
	return s.viewed, s.err
}

func viewGateRouter(gate *stubViewGate, identity auth.StudentIdentity) *gin.Engine {
	gin.SetMode(gin.TestMode)
	m := NewStudentMiddleware(nil, gate)
	router := gin.New()
	router.GET("/quiz/:code",
		func(c *gin.Context) { c.Set(StudentIdentityKey, identity) },
		m.RequireViewed(),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)
	return router
}

func TestRequireViewed_RedirectsToAuthorizedCode(t *testing.T) {
	identity := auth.StudentIdentity{FullName: "Ana Reyes", Section: "A", AuthorizedCode: "AB12CD"}
	router := viewGateRouter(&stubViewGate{viewed: false}, identity)

	// Someone else's code: the interstitial must point back at the
	// student's own story, not the one they tried to open.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/quiz/ZZ99XY", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusForbidden, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "view_required", body["error_type"])
	assert.Equal(t, "/story/AB12CD", body["redirect"])
}

func TestRequireViewed_FallsBackToAttemptedCode(t *testing.T) {
	// Sessions minted before the authorized code was recorded have no
	// better target than the attempted code itself.
	identity := auth.StudentIdentity{FullName: "Ana Reyes", Section: "A"}
	router := viewGateRouter(&stubViewGate{viewed: false}, identity)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/quiz/ZZ99XY", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusForbidden, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "/story/ZZ99XY", body["redirect"])
}

func TestRequireViewed_PassesWhenViewed(t *testing.T) {
	identity := auth.StudentIdentity{FullName: "Ana Reyes", Section: "A", AuthorizedCode: "AB12CD"}
	router := viewGateRouter(&stubViewGate{viewed: true}, identity)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/quiz/AB12CD", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
