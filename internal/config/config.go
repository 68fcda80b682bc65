package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

// Create a new instance of the logger
// Configure it to log at the desired level
// and format it as JSON for structured logging
var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	environment := GetEnvWithDefault("APP_ENV", "development")
	switch environment {
	case "development":
		log.SetLevel(logrus.DebugLevel)
	case "production":
		log.SetLevel(logrus.ErrorLevel)
	default:
		// Default to info level for other environments
		log.SetLevel(logrus.InfoLevel)
	}
}

// User deletion policies controlling what happens to a deleted user's
// experiments: keep them as orphaned rows, delete them alongside the
// user, or refuse the deletion while any exist.
const (
	DeletePolicyRetain  = "retain"
	DeletePolicyCascade = "cascade"
	DeletePolicyBlock   = "block"
)

// Config used for the application configuration, loading the input from environment variables.
// It is built once at process start and passed down explicitly; nothing reads it as a global.
type Config struct {
	// Server Configuration
	Port int    `json:"port"`
	Host string `json:"host"`

	// Database configuration
	DBDriver   string `json:"db_driver"`
	DBPath     string `json:"db_path"`
	DBHost     string `json:"db_host"`
	DBPort     string `json:"db_port"`
	DBName     string `json:"db_name"`
	DBUser     string `json:"db_user"`
	DBPassword string `json:"db_password"`
	DBSSLMode  string `json:"db_ssl_mode"`

	// Logging configuration
	LogLevel string `json:"log_level"`

	// Security Configuration
	JWTSecret string        `json:"jwt_secret"`
	TokenTTL  time.Duration `json:"token_ttl"`

	// Behaviour of DELETE /api/users/:id towards the user's experiments
	UserDeletePolicy string `json:"user_delete_policy"`

	// Bootstrap admin seeded when the users table is empty
	AdminEmail    string `json:"admin_email"`
	AdminPassword string `json:"admin_password"`
}

// String returns a string representation of Config with sensitive data masked
func (c *Config) String() string {
	return fmt.Sprintf("Config{Port: %d, Host: %s, DBDriver: %s, DBPath: %s, DBHost: %s, DBName: %s, DBUser: %s, DBPassword: [REDACTED], LogLevel: %s, JWTSecret: [REDACTED], TokenTTL: %s, UserDeletePolicy: %s, AdminEmail: %s, AdminPassword: [REDACTED]}",
		c.Port, c.Host, c.DBDriver, c.DBPath, c.DBHost, c.DBName, c.DBUser, c.LogLevel, c.TokenTTL, c.UserDeletePolicy, c.AdminEmail)
}

// LoadConfig reads the configuration from environment variables and returns a Config struct.
// Returns an error if any environment variable holds an invalid value.
func LoadConfig() (*Config, error) {
	log.Info("Loading configuration from environment variables")
	port, err := strconv.Atoi(GetEnvWithDefault("APP_PORT", "3001"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	ttl, err := time.ParseDuration(GetEnvWithDefault("TOKEN_TTL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid TOKEN_TTL: %w", err)
	}

	deletePolicy := GetEnvWithDefault("USER_DELETE_POLICY", DeletePolicyRetain)
	switch deletePolicy {
	case DeletePolicyRetain, DeletePolicyCascade, DeletePolicyBlock:
	default:
		return nil, fmt.Errorf("invalid USER_DELETE_POLICY: %q (allowed: retain, cascade, block)", deletePolicy)
	}

	config := &Config{
		Port:             port,
		Host:             GetEnvWithDefault("APP_HOST", "localhost"),
		DBDriver:         GetEnvWithDefault("DB_DRIVER", "sqlite"),
		DBPath:           GetEnvWithDefault("DB_PATH", "experiments.sqlite"),
		DBHost:           GetEnvWithDefault("DB_HOST", "localhost"),
		DBPort:           GetEnvWithDefault("DB_PORT", "5432"),
		DBName:           GetEnvWithDefault("DB_NAME", "experiments"),
		DBUser:           GetEnvWithDefault("DB_USER", "user"),
		DBPassword:       GetEnvWithDefault("DB_PASSWORD", "password"),
		DBSSLMode:        GetEnvWithDefault("DB_SSLMODE", "disable"),
		LogLevel:         GetEnvWithDefault("LOG_LEVEL", "info"),
		JWTSecret:        GetEnvWithDefault("JWT_SECRET", "secret"),
		TokenTTL:         ttl,
		UserDeletePolicy: deletePolicy,
		AdminEmail:       GetEnvWithDefault("ADMIN_EMAIL", "admin@example.com"),
		AdminPassword:    GetEnvWithDefault("ADMIN_PASSWORD", "admin123"),
	}
	log.Infof("Configuration loaded: %s", config.String())
	return config, nil
}

// Helper to get environment with default values
func GetEnvWithDefault(key, defaultValue string) string {
	log.Tracef("Getting environment variable: %s", key)
	value := os.Getenv(key)
	if value == "" {
		log.Warnf("Environment variable %s not set, using default value: %s", key, defaultValue)
		return defaultValue
	}
	return value
}

// GetEnvAsType retrieves an environment variable and converts it to the specified type
// using generic type handling.
func GetEnvAsType[T any](key string, defaultValue T) T {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var result T
	switch any(result).(type) {
	case int:
		intValue, err := strconv.Atoi(value)
		if err != nil {
			return defaultValue
		}
		return any(intValue).(T)
	case string:
		return any(value).(T)
	case bool:
		boolValue, err := strconv.ParseBool(value)
		if err != nil {
			return defaultValue
		}
		return any(boolValue).(T)
	default:
		return defaultValue // Fallback for unsupported types
	}
}
