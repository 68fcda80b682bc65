package main

import (
	"fmt"
	"net/http"
	"time"

	_ "github.com/researchlab/experiment-api/docs" // Import generated docs
	"github.com/researchlab/experiment-api/internal/auth"
	"github.com/researchlab/experiment-api/internal/config"
	"github.com/researchlab/experiment-api/internal/controllers"
	"github.com/researchlab/experiment-api/internal/database"
	"github.com/researchlab/experiment-api/internal/middleware"
	"github.com/researchlab/experiment-api/internal/models"
	"github.com/researchlab/experiment-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/swaggo/files"
	"github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

var (
	db                   *gorm.DB
	configuration        *config.Config
	authController       *controllers.AuthController
	userController       controllers.UserController
	experimentController controllers.ExperimentController
	statsController      *controllers.StatsController
)

// @title Experiment Manager API
// @version 1.0
// @description Multi-tenant experiment record management API
// @host localhost:3001
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Load environment variables
	loadDotenvFile()

	// Initialize logger
	setUpLogger()

	// Load configuration
	configuration = loadConfig()

	// Initialize database connection
	setupDatabase(configuration)

	// Initialize services and controllers
	issuer := auth.NewTokenIssuer(configuration.JWTSecret, configuration.TokenTTL)
	userService := services.NewUserService(db, configuration.UserDeletePolicy)
	experimentService := services.NewExperimentService(db)
	statsService := services.NewStatsService(db)

	authController = controllers.NewAuthController(userService, issuer)
	userController = controllers.NewUserController(userService)
	experimentController = controllers.NewExperimentController(experimentService)
	statsController = controllers.NewStatsController(statsService)

	// Initialize Gin router
	router := setupRouter(configuration)

	// Start the server
	log.Infof("Starting server on %s:%d", configuration.Host, configuration.Port)
	router.Run(fmt.Sprintf("%v:%d", configuration.Host, configuration.Port))
}

// checkPanicErr checks if an error occurred and panics if it did
func checkPanicErr(err error) {
	if err != nil {
		panic(err)
	}
}

// loadDotenvFile loads environment variables from a .env file
// If the file is not found, it will log a warning and use system environment variables
func loadDotenvFile() {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, using system environment variables")
	}
}

// setUpLogger initializes the logger with a JSON formatter and sets the log level based on the environment
func setUpLogger() {
	log.SetFormatter(&log.JSONFormatter{})
	environment := config.GetEnvWithDefault("APP_ENV", "development")
	switch environment {
	case "development":
		log.SetLevel(log.DebugLevel)
	case "production":
		log.SetLevel(log.ErrorLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}
}

// loadConfig loads the application configuration from environment variables
// It returns a Config struct or panics if there is an error
func loadConfig() *config.Config {
	log.Info("Loading configuration from environment variables")
	conf, err := config.LoadConfig()
	checkPanicErr(err)
	log.Infof("Configuration loaded: %s", conf.String())
	return conf
}

// setupDatabase initializes the database connection, migrates the schema
// and seeds the bootstrap admin when the users table is empty
func setupDatabase(conf *config.Config) *gorm.DB {
	var err error
	db, err = database.InitDatabase(database.FromAppConfig(conf))
	checkPanicErr(err)
	checkPanicErr(database.Migrate(db))

	// Accounts are never self-registered, so an empty database would be
	// unusable without a seeded admin
	var count int64
	db.Model(&models.User{}).Count(&count)
	if count == 0 {
		log.Info("Users table is empty, seeding bootstrap admin")
		seedAdmin(conf)
	} else {
		log.Info("Users table already populated, skipping seed")
	}
	return db
}

// seedAdmin creates the initial administrator account from configuration
func seedAdmin(conf *config.Config) {
	admin := models.User{
		Email:    conf.AdminEmail,
		Password: conf.AdminPassword,
		Name:     "Administrator",
		Role:     models.RoleAdmin,
	}
	checkPanicErr(admin.HashPassword())
	checkPanicErr(db.Create(&admin).Error)
	log.WithField("email", admin.Email).Warn("Bootstrap admin created, change its password")
}

// setupRouter initializes the Gin router and sets up the routes
// It returns the configured router
func setupRouter(conf *config.Config) *gin.Engine {
	router := gin.Default()
	router.Use(middleware.RequestID())

	setupRoutes(router, conf)

	return router
}

// setupRoutes defines the routes for the Gin router
func setupRoutes(router *gin.Engine, conf *config.Config) {
	// Banner and health check endpoints
	router.GET("/", bannerHandler)
	router.GET("/health", healthCheckHandler)

	jwtSecret := []byte(conf.JWTSecret)

	api := router.Group("/api")
	{
		// Login is the only unauthenticated API route
		api.POST("/auth/login", authController.Login)

		// Admin-only routes
		adminApi := api.Group("/")
		adminApi.Use(middleware.JWTAuth(jwtSecret), middleware.RequireRole(models.RoleAdmin))
		{
			adminApi.GET("/users", userController.ListUsers)
			adminApi.POST("/users", userController.CreateUser)
			adminApi.DELETE("/users/:id", userController.DeleteUser)
			adminApi.GET("/stats", statsController.GetStats)
		}

		// Researcher-only routes
		researcherApi := api.Group("/experiments")
		researcherApi.Use(middleware.JWTAuth(jwtSecret), middleware.RequireRole(models.RoleResearcher))
		{
			researcherApi.GET("", experimentController.ListExperiments)
			researcherApi.GET("/:id", experimentController.GetExperiment)
			researcherApi.POST("", experimentController.CreateExperiment)
			researcherApi.PUT("/:id", experimentController.UpdateExperiment)
			researcherApi.DELETE("/:id", experimentController.DeleteExperiment)
		}
	}

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// bannerHandler serves the service banner at the root path
func bannerHandler(c *gin.Context) {
	c.String(http.StatusOK, "Scientific Experiment Manager API")
}

// healthCheckHandler handles the health check endpoint
// @Summary Health check
// @Description Check if the service is running
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "experiment-api",
	})
}
