package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/researchlab/experiment-api/internal/auth"
	"github.com/researchlab/experiment-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-jwt-secret-key-32-characters"

func newGuardedRouter(requiredRole string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	group := router.Group("/probe")
	group.Use(JWTAuth([]byte(testSecret)))
	if requiredRole != "" {
		group.Use(RequireRole(requiredRole))
	}
	group.GET("", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"id":    c.MustGet(ContextUserID),
			"email": c.GetString(ContextUserEmail),
			"role":  c.GetString(ContextUserRole),
			"name":  c.GetString(ContextUserName),
		})
	})
	return router
}

func mintToken(t *testing.T, role string, ttl time.Duration) string {
	t.Helper()
	issuer := auth.NewTokenIssuer(testSecret, ttl)
	token, err := issuer.Issue(&models.User{
		ID:    7,
		Email: "ada@lab.example",
		Name:  "Ada",
		Role:  role,
	})
	require.NoError(t, err)
	return token
}

func doProbe(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", "/probe", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestJWTAuthMissingHeader(t *testing.T) {
	router := newGuardedRouter("")

	w := doProbe(router, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthWrongScheme(t *testing.T) {
	router := newGuardedRouter("")

	w := doProbe(router, "Basic abc123")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthEmptyBearerToken(t *testing.T) {
	router := newGuardedRouter("")

	w := doProbe(router, "Bearer ")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthGarbageToken(t *testing.T) {
	router := newGuardedRouter("")

	w := doProbe(router, "Bearer not.a.jwt")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestJWTAuthExpiredToken(t *testing.T) {
	router := newGuardedRouter("")

	token := mintToken(t, models.RoleResearcher, -time.Minute)
	w := doProbe(router, "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestJWTAuthValidTokenSetsIdentity(t *testing.T) {
	router := newGuardedRouter("")

	token := mintToken(t, models.RoleResearcher, time.Hour)
	w := doProbe(router, "Bearer "+token)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":7,"email":"ada@lab.example","role":"RESEARCHER","name":"Ada"}`, w.Body.String())
}

func TestJWTAuthRejectsUnknownRole(t *testing.T) {
	router := newGuardedRouter("")

	token := mintToken(t, "SUPERUSER", time.Hour)
	w := doProbe(router, "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireRoleExactMatch(t *testing.T) {
	router := newGuardedRouter(models.RoleResearcher)

	token := mintToken(t, models.RoleResearcher, time.Hour)
	w := doProbe(router, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRoleNoHierarchy(t *testing.T) {
	// ADMIN does not implicitly satisfy a RESEARCHER-only check
	router := newGuardedRouter(models.RoleResearcher)

	token := mintToken(t, models.RoleAdmin, time.Hour)
	w := doProbe(router, "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Forbidden: Insufficient permissions")
}

func TestRequestIDGenerated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.NotEmpty(t, w.Header().Get(HeaderRequestID))
}

func TestRequestIDPropagated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(HeaderRequestID, "client-supplied-id")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "client-supplied-id", w.Header().Get(HeaderRequestID))
}
