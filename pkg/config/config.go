package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Assets   AssetsConfig
	Clinic   ClinicConfig
	Session  SessionConfig
	OTEL     OTELConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string
	Port int
	Env  string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	Enabled  bool
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// AssetsConfig holds the externally hosted assets used when rendering
// guides. All of them are optional: generation falls back to built-in
// fonts and a logo-less header when a fetch fails.
type AssetsConfig struct {
	FontRegularURL string
	FontBoldURL    string
	LogoURL        string
}

// ClinicConfig holds clinic identity used in rendered documents and
// composed emails
type ClinicConfig struct {
	Name          string
	Phone         string
	Website       string
	ReferralEmail string
	GuideEmail    string
}

// SessionConfig holds visitor session settings
type SessionConfig struct {
	CookieName string
	TTLSeconds int
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
			Env:  getEnv("APP_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "patient_resources"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			Enabled:  getEnvAsBool("DB_ENABLED", false),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Assets: AssetsConfig{
			FontRegularURL: getEnv("GUIDE_FONT_REGULAR_URL", ""),
			FontBoldURL:    getEnv("GUIDE_FONT_BOLD_URL", ""),
			LogoURL:        getEnv("GUIDE_LOGO_URL", ""),
		},
		Clinic: ClinicConfig{
			Name:          getEnv("CLINIC_NAME", "Heart Clinic Melbourne"),
			Phone:         getEnv("CLINIC_PHONE", "(03) 9509 5009"),
			Website:       getEnv("CLINIC_WEBSITE", "heartclinicmelbourne.com.au"),
			ReferralEmail: getEnv("CLINIC_REFERRAL_EMAIL", "reception@heartclinicmelbourne.com"),
			GuideEmail:    getEnv("CLINIC_GUIDE_EMAIL", "reception@heartclinicmelbourne.com.au"),
		},
		Session: SessionConfig{
			CookieName: getEnv("SESSION_COOKIE_NAME", "hcm_session"),
			TTLSeconds: getEnvAsInt("SESSION_TTL_SECONDS", 86400),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "patient-resources"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
	}, nil
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
