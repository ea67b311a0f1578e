package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Session  SessionConfig
	OAuth    OAuthConfig
	Admin    AdminConfig
	Client   ClientConfig
	OTEL     OTELConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string
	Port int

	// ReportsDir is where admin report markdown logs are written.
	ReportsDir string

	// Environment selects log formatting; anything but "production"
	// gets human-readable console output.
	Environment string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// SessionConfig holds session cookie configuration
type SessionConfig struct {
	Secret            string
	CookieName        string
	MaxAgeDays        int
	AllowInsecureHTTP bool
}

// OAuthProviderConfig holds a single OAuth provider's credentials
type OAuthProviderConfig struct {
	ClientID     string
	ClientSecret string
	CallbackURL  string
}

// Configured reports whether both credentials are present.
func (c *OAuthProviderConfig) Configured() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// OAuthConfig holds OAuth provider configuration
type OAuthConfig struct {
	Google   OAuthProviderConfig
	Facebook OAuthProviderConfig
}

// AdminConfig holds the admin allow-list
type AdminConfig struct {
	Emails []string
}

// ClientConfig holds frontend origin configuration
type ClientConfig struct {
	// AllowedOrigins is the CORS allow-list; the first entry is also the
	// base URL used for post-login redirects.
	AllowedOrigins []string
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from environment variables. SESSION_SECRET is
// mandatory: sessions cannot be issued without it.
func Load() (*Config, error) {
	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		return nil, fmt.Errorf("SESSION_SECRET environment variable is required for secure session handling")
	}

	return &Config{
		Server: ServerConfig{
			Host:        getEnv("SERVER_HOST", "0.0.0.0"),
			Port:        getEnvAsInt("SERVER_PORT", 3000),
			ReportsDir:  getEnv("REPORTS_DIR", "."),
			Environment: getEnv("APP_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "jamwathq"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Session: SessionConfig{
			Secret:            sessionSecret,
			CookieName:        getEnv("SESSION_COOKIE_NAME", "jamwathq.sid"),
			MaxAgeDays:        getEnvAsInt("SESSION_MAX_AGE_DAYS", 30),
			AllowInsecureHTTP: getEnvAsBool("ALLOW_INSECURE_HTTP", false),
		},
		OAuth: OAuthConfig{
			Google: OAuthProviderConfig{
				ClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
				ClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
				CallbackURL:  getEnv("GOOGLE_CALLBACK_URL", "/auth/google/callback"),
			},
			Facebook: OAuthProviderConfig{
				ClientID:     getEnv("FACEBOOK_APP_ID", ""),
				ClientSecret: getEnv("FACEBOOK_APP_SECRET", ""),
				CallbackURL:  getEnv("FACEBOOK_CALLBACK_URL", "/auth/facebook/callback"),
			},
		},
		Admin: AdminConfig{
			Emails: parseAdminEmails(os.Getenv("ADMIN_EMAILS")),
		},
		Client: ClientConfig{
			AllowedOrigins: getEnvAsList("CLIENT_URL", "http://localhost:8000"),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "jamwathq"),
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

// ClientBaseURL returns the frontend base URL used for OAuth redirects.
func (c *ClientConfig) ClientBaseURL() string {
	if len(c.AllowedOrigins) == 0 {
		return ""
	}
	return strings.TrimRight(c.AllowedOrigins[0], "/")
}

// IsAdmin reports whether the given email is on the admin allow-list.
// Comparison is case-insensitive.
func (c *AdminConfig) IsAdmin(email string) bool {
	lowered := strings.ToLower(strings.TrimSpace(email))
	if lowered == "" {
		return false
	}
	for _, admin := range c.Emails {
		if admin == lowered {
			return true
		}
	}
	return false
}

// Configured reports whether any admin email is set.
func (c *AdminConfig) Configured() bool {
	return len(c.Emails) > 0
}

func parseAdminEmails(raw string) []string {
	var emails []string
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.ToLower(strings.TrimSpace(entry))
		if entry != "" {
			emails = append(emails, entry)
		}
	}
	return emails
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

func getEnvAsList(key, defaultValue string) []string {
	raw := getEnv(key, defaultValue)
	var values []string
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry != "" {
			values = append(values, entry)
		}
	}
	return values
}
