package controllers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/researchlab/experiment-api/internal/auth"
	"github.com/researchlab/experiment-api/internal/config"
	"github.com/researchlab/experiment-api/internal/middleware"
	"github.com/researchlab/experiment-api/internal/models"
	"github.com/researchlab/experiment-api/internal/services"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testSecret = "test-jwt-secret-key-32-characters"

// testEnv wires a full router the way cmd/main.go does, over an
// in-memory database
type testEnv struct {
	db     *gorm.DB
	router *gin.Engine
	issuer *auth.TokenIssuer
}

func setupTestEnv(t *testing.T) *testEnv {
	return setupTestEnvWithPolicy(t, config.DeletePolicyRetain)
}

func setupTestEnvWithPolicy(t *testing.T, deletePolicy string) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Experiment{}))

	issuer := auth.NewTokenIssuer(testSecret, time.Hour)
	userService := services.NewUserService(db, deletePolicy)
	experimentService := services.NewExperimentService(db)
	statsService := services.NewStatsService(db)

	authController := NewAuthController(userService, issuer)
	userController := NewUserController(userService)
	experimentController := NewExperimentController(experimentService)
	statsController := NewStatsController(statsService)

	gin.SetMode(gin.TestMode)
	router := gin.New()

	jwtSecret := []byte(testSecret)
	api := router.Group("/api")
	api.POST("/auth/login", authController.Login)

	adminApi := api.Group("/")
	adminApi.Use(middleware.JWTAuth(jwtSecret), middleware.RequireRole(models.RoleAdmin))
	adminApi.GET("/users", userController.ListUsers)
	adminApi.POST("/users", userController.CreateUser)
	adminApi.DELETE("/users/:id", userController.DeleteUser)
	adminApi.GET("/stats", statsController.GetStats)

	researcherApi := api.Group("/experiments")
	researcherApi.Use(middleware.JWTAuth(jwtSecret), middleware.RequireRole(models.RoleResearcher))
	researcherApi.GET("", experimentController.ListExperiments)
	researcherApi.GET("/:id", experimentController.GetExperiment)
	researcherApi.POST("", experimentController.CreateExperiment)
	researcherApi.PUT("/:id", experimentController.UpdateExperiment)
	researcherApi.DELETE("/:id", experimentController.DeleteExperiment)

	return &testEnv{db: db, router: router, issuer: issuer}
}

// seedUser stores an account with a hashed password and returns it
func (e *testEnv) seedUser(t *testing.T, email, password, role string) *models.User {
	t.Helper()
	user := &models.User{
		Email:    email,
		Password: password,
		Name:     "Test User",
		Role:     role,
	}
	require.NoError(t, user.HashPassword())
	require.NoError(t, e.db.Create(user).Error)
	return user
}

// tokenFor issues a session token for an existing user
func (e *testEnv) tokenFor(t *testing.T, user *models.User) string {
	t.Helper()
	token, err := e.issuer.Issue(user)
	require.NoError(t, err)
	return token
}

// request performs an HTTP request against the test router, JSON-encoding
// body when non-nil and attaching token as a Bearer credential when set
func (e *testEnv) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Buffer
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(payload)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// decodeBody unmarshals a JSON response body into a generic map
func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// decodeList unmarshals a JSON array response body
func decodeList(t *testing.T, w *httptest.ResponseRecorder) []map[string]interface{} {
	t.Helper()
	var body []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}
