package config

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// Config holds application configuration
type Config struct {
	Port               string
	DBConnectionString string
	JWTSecret          string

	LogLevel  string
	LogFormat string

	AccessTokenTTL         time.Duration
	SessionMaxAge          time.Duration
	SessionUpdateAge       time.Duration
	SessionCleanupSchedule string
	CookieSecure           bool

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	AMQPURL      string
	AMQPExchange string
}

// Load reads .env (when present) and the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Error loading .env file, continuing with system environment variables")
	}

	return &Config{
		Port:               getEnv("PORT", "8080"),
		DBConnectionString: getEnv("DB_CONNECTION_STRING", ""),
		JWTSecret:          getEnv("JWT_SECRET", ""),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		AccessTokenTTL:         getEnvDuration("ACCESS_TOKEN_TTL", 10*time.Minute),
		SessionMaxAge:          getEnvDuration("SESSION_MAX_AGE", 30*24*time.Hour),
		SessionUpdateAge:       getEnvDuration("SESSION_UPDATE_AGE", 24*time.Hour),
		SessionCleanupSchedule: getEnv("SESSION_CLEANUP_SCHEDULE", "@every 1h"),
		CookieSecure:           getEnvBool("COOKIE_SECURE", false),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:     getEnv("SMTP_FROM", ""),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "cashlex.events"),
	}
}

// Validate returns every configuration problem joined into a single error.
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.DBConnectionString == "" {
		problems = append(problems, "missing DB_CONNECTION_STRING")
	}
	if c.JWTSecret == "" {
		problems = append(problems, "no JWT_SECRET provided")
	}

	if c.LogFormat != "json" && c.LogFormat != "text" {
		problems = append(problems, fmt.Sprintf("invalid log format '%s': must be json or text", c.LogFormat))
	}

	if c.AccessTokenTTL <= 0 {
		problems = append(problems, "ACCESS_TOKEN_TTL must be positive")
	}
	if c.SessionMaxAge <= 0 {
		problems = append(problems, "SESSION_MAX_AGE must be positive")
	}
	if c.SessionUpdateAge < 0 || c.SessionUpdateAge > c.SessionMaxAge {
		problems = append(problems, "SESSION_UPDATE_AGE must be between 0 and SESSION_MAX_AGE")
	}
	if _, err := cron.ParseStandard(c.SessionCleanupSchedule); err != nil {
		problems = append(problems, fmt.Sprintf("invalid SESSION_CLEANUP_SCHEDULE '%s': %v", c.SessionCleanupSchedule, err))
	}

	if c.SMTPHost != "" && c.SMTPFrom == "" {
		problems = append(problems, "SMTP_FROM is required when SMTP_HOST is set")
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL: %v", err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			problems = append(problems, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
	}

	if len(problems) > 0 {
		return errors.New("configuration errors: " + strings.Join(problems, "; "))
	}
	return nil
}

// EmailEnabled reports whether budget alert emails can be sent.
func (c *Config) EmailEnabled() bool {
	return c.SMTPHost != ""
}

// EventsBrokerEnabled reports whether ledger events are forwarded to RabbitMQ.
func (c *Config) EventsBrokerEnabled() bool {
	return c.AMQPURL != ""
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultVal
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Invalid duration for %s=%q, using default %s", key, value, defaultVal)
		return defaultVal
	}
	return parsed
}

func getEnvBool(key string, defaultVal bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultVal
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultVal
	}
	return parsed
}
