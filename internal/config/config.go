package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ErrMissingAPIKey is returned by Load when no weather API key is configured
var ErrMissingAPIKey = errors.New("WEATHER_API_KEY is required")

// Config holds application configuration
type Config struct {
	Weather WeatherConfig
	Widget  WidgetConfig
	DB      DBConfig
	Server  ServerConfig
	Log     LogConfig
}

// WeatherConfig holds the upstream weather API settings
type WeatherConfig struct {
	BaseURL     string
	APIKey      string
	Units       string
	Lang        string
	IconBaseURL string
	Timeout     time.Duration
}

// WidgetConfig holds widget behaviour settings
type WidgetConfig struct {
	DefaultCity   string
	LookupOnStart bool
	SessionTTL    time.Duration
}

// DBType represents database type
type DBType string

const (
	DBTypePostgreSQL DBType = "postgres"
	DBTypeMySQL      DBType = "mysql"
	DBTypeMemory     DBType = "memory"
)

// DBConfig holds the diagnostics journal database configuration
type DBConfig struct {
	Type     DBType
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN returns the database connection string
func (c DBConfig) DSN() string {
	switch c.Type {
	case DBTypeMemory:
		if c.Name != "" && c.Name != "meteo" {
			return fmt.Sprintf("file:%s?mode=memory&cache=shared", c.Name)
		}
		return "file::memory:?cache=shared"
	case DBTypeMySQL:
		return fmt.Sprintf(
			"%s:%s@tcp(%s:%s)/%s?parseTime=true&multiStatements=true",
			c.User, c.Password, c.Host, c.Port, c.Name,
		)
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode,
	)
}

// IsMemory returns true if using in-memory database
func (c DBConfig) IsMemory() bool {
	return c.Type == DBTypeMemory
}

// DriverName returns the database/sql driver registered for the DB type
func (c DBConfig) DriverName() string {
	switch c.Type {
	case DBTypePostgreSQL:
		return "pgx"
	case DBTypeMySQL:
		return "mysql"
	}
	return "sqlite3"
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbType := DBType(getEnv("DB_TYPE", "memory"))
	switch dbType {
	case DBTypePostgreSQL, DBTypeMySQL, DBTypeMemory:
	default:
		dbType = DBTypeMemory
	}

	defaultPort := "5432"
	if dbType == DBTypeMySQL {
		defaultPort = "3306"
	}

	config := &Config{
		Weather: WeatherConfig{
			BaseURL:     getEnv("WEATHER_API_URL", "https://api.openweathermap.org/data/2.5/weather"),
			APIKey:      os.Getenv("WEATHER_API_KEY"),
			Units:       getEnv("WEATHER_UNITS", "metric"),
			Lang:        getEnv("WEATHER_LANG", "fr"),
			IconBaseURL: strings.TrimRight(getEnv("WEATHER_ICON_URL", "https://openweathermap.org/img/wn"), "/"),
			Timeout:     getEnvAsDuration("WEATHER_TIMEOUT", 10*time.Second),
		},
		Widget: WidgetConfig{
			DefaultCity:   getEnv("WIDGET_DEFAULT_CITY", "Paris"),
			LookupOnStart: getEnvAsBool("WIDGET_LOOKUP_ON_START", true),
			SessionTTL:    getEnvAsDuration("WIDGET_SESSION_TTL", 30*time.Minute),
		},
		DB: DBConfig{
			Type:     dbType,
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", defaultPort),
			User:     getEnv("DB_USER", "meteo"),
			Password: getEnv("DB_PASSWORD", "meteo_password"),
			Name:     getEnv("DB_NAME", "meteo"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Server: ServerConfig{
			Port: getEnv("APP_PORT", "8080"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if config.Weather.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// getEnvAsDuration accepts Go durations ("15s") or a bare number of seconds
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil && d > 0 {
		return d
	}
	if secs := getEnvAsInt(key, 0); secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
