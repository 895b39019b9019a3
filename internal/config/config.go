package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	SMTP     SMTPConfig
	SMS      SMSConfig
	Queue    QueueConfig
	Redis    RedisConfig
	Storage  StorageConfig
	Auth     AuthConfig
	Settings SettingsDefaults
}

type DatabaseConfig struct {
	Driver   string // "postgres" or "memory"
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Name          string
	Port          int
	Env           string
	LogLevel      string
	Timezone      string
	PublicURL     string
	AllowedOrigin []string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

// Configured reports whether outbound mail can actually be delivered.
func (s SMTPConfig) Configured() bool {
	return s.Host != "" && (s.From != "" || s.Username != "")
}

type SMSConfig struct {
	Enabled    bool
	WebhookURL string
	APIKey     string
}

type QueueConfig struct {
	Backend     string // "memory" or "redis"
	Key         string
	Size        int
	WorkerCount int
	MaxAttempts int
	// Embedded runs the delivery workers inside the API process.
	Embedded bool
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type StorageConfig struct {
	BasePath string
	BaseURL  string
}

type AuthConfig struct {
	ResetTokenTTL     time.Duration
	ShowResetLink     bool
	InitEnabled       bool
	InitToken         string
	InitAdminName     string
	InitAdminEmail    string
	InitAdminPassword string
	// InitSeedDemo makes init load the demo staff instead of a single admin.
	InitSeedDemo bool
}

// SettingsDefaults seeds the system settings row the first time it is read.
type SettingsDefaults struct {
	WorkingHoursPerDay     float64
	LunchBreakMinutes      int
	DinnerBreakMinutes     int
	WeeklyTargetHours      float64
	SessionTimeoutMinutes  int
	OvertimeThresholdHours float64
	OvertimeMultiplier     float64
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
		slog.Debug("no .env file found, using process environment")
	}

	config := &Config{}
	var err error

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Driver:   getEnv("DB_DRIVER", "postgres"),
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "timekeeper"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Name:          getEnv("APP_NAME", "TimeTracker"),
		Port:          appPort,
		Env:           getEnv("APP_ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		Timezone:      getEnv("APP_TIMEZONE", "UTC"),
		PublicURL:     strings.TrimRight(getEnv("APP_PUBLIC_URL", "http://localhost:8080"), "/"),
		AllowedOrigin: getEnvSlice("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "8h"),
	}

	// SMTP configuration
	smtpPort, err := strconv.Atoi(getEnv("MAIL_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("invalid MAIL_PORT: %w", err)
	}
	config.SMTP = SMTPConfig{
		Host:     getEnv("MAIL_SERVER", ""),
		Port:     smtpPort,
		Username: getEnv("MAIL_USERNAME", ""),
		Password: getEnv("MAIL_PASSWORD", ""),
		From:     getEnv("MAIL_FROM", getEnv("MAIL_USERNAME", "")),
		FromName: getEnv("MAIL_FROM_NAME", "TimeTracker"),
	}

	config.SMS = SMSConfig{
		Enabled:    getEnvBool("SMS_ENABLED", false),
		WebhookURL: getEnv("SMS_WEBHOOK_URL", ""),
		APIKey:     getEnv("SMS_API_KEY", ""),
	}

	// Notification queue
	queueSize, err := strconv.Atoi(getEnv("QUEUE_SIZE", "256"))
	if err != nil {
		return nil, fmt.Errorf("invalid QUEUE_SIZE: %w", err)
	}
	workerCount, err := strconv.Atoi(getEnv("QUEUE_WORKERS", "2"))
	if err != nil {
		return nil, fmt.Errorf("invalid QUEUE_WORKERS: %w", err)
	}
	maxAttempts, err := strconv.Atoi(getEnv("QUEUE_MAX_ATTEMPTS", "3"))
	if err != nil {
		return nil, fmt.Errorf("invalid QUEUE_MAX_ATTEMPTS: %w", err)
	}
	config.Queue = QueueConfig{
		Backend:     getEnv("QUEUE_BACKEND", "memory"),
		Key:         getEnv("QUEUE_KEY", "timekeeper:notifications"),
		Size:        queueSize,
		WorkerCount: workerCount,
		MaxAttempts: maxAttempts,
		Embedded:    getEnvBool("QUEUE_EMBEDDED_WORKERS", true),
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	config.Redis = RedisConfig{
		Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       redisDB,
	}

	config.Storage = StorageConfig{
		BasePath: getEnv("STORAGE_BASE_PATH", "./uploads"),
		BaseURL:  getEnv("STORAGE_BASE_URL", "http://localhost:8080/uploads"),
	}

	resetTTL, err := time.ParseDuration(getEnv("RESET_TOKEN_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid RESET_TOKEN_TTL: %w", err)
	}
	config.Auth = AuthConfig{
		ResetTokenTTL:     resetTTL,
		ShowResetLink:     getEnvBool("SHOW_RESET_LINK", false),
		InitEnabled:       getEnvBool("INIT_ENABLED", false),
		InitToken:         getEnv("INIT_TOKEN", ""),
		InitAdminName:     getEnv("INIT_ADMIN_NAME", "admin"),
		InitAdminEmail:    getEnv("INIT_ADMIN_EMAIL", ""),
		InitAdminPassword: getEnv("INIT_ADMIN_PASSWORD", ""),
		InitSeedDemo:      getEnvBool("INIT_SEED_DEMO", false),
	}

	config.Settings, err = loadSettingsDefaults()
	if err != nil {
		return nil, err
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

func loadSettingsDefaults() (SettingsDefaults, error) {
	var d SettingsDefaults
	var err error

	if d.WorkingHoursPerDay, err = strconv.ParseFloat(getEnv("DEFAULT_WORKING_HOURS_PER_DAY", "8"), 64); err != nil {
		return d, fmt.Errorf("invalid DEFAULT_WORKING_HOURS_PER_DAY: %w", err)
	}
	if d.LunchBreakMinutes, err = strconv.Atoi(getEnv("DEFAULT_LUNCH_BREAK_MINUTES", "60")); err != nil {
		return d, fmt.Errorf("invalid DEFAULT_LUNCH_BREAK_MINUTES: %w", err)
	}
	if d.DinnerBreakMinutes, err = strconv.Atoi(getEnv("DEFAULT_DINNER_BREAK_MINUTES", "30")); err != nil {
		return d, fmt.Errorf("invalid DEFAULT_DINNER_BREAK_MINUTES: %w", err)
	}
	if d.WeeklyTargetHours, err = strconv.ParseFloat(getEnv("DEFAULT_WEEKLY_TARGET_HOURS", "48"), 64); err != nil {
		return d, fmt.Errorf("invalid DEFAULT_WEEKLY_TARGET_HOURS: %w", err)
	}
	if d.SessionTimeoutMinutes, err = strconv.Atoi(getEnv("DEFAULT_SESSION_TIMEOUT_MINUTES", "480")); err != nil {
		return d, fmt.Errorf("invalid DEFAULT_SESSION_TIMEOUT_MINUTES: %w", err)
	}
	if d.OvertimeThresholdHours, err = strconv.ParseFloat(getEnv("DEFAULT_OVERTIME_THRESHOLD_HOURS", "40"), 64); err != nil {
		return d, fmt.Errorf("invalid DEFAULT_OVERTIME_THRESHOLD_HOURS: %w", err)
	}
	if d.OvertimeMultiplier, err = strconv.ParseFloat(getEnv("DEFAULT_OVERTIME_MULTIPLIER", "1.5"), 64); err != nil {
		return d, fmt.Errorf("invalid DEFAULT_OVERTIME_MULTIPLIER: %w", err)
	}
	return d, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Driver != "postgres" && c.Database.Driver != "memory" {
		return fmt.Errorf("DB_DRIVER must be postgres or memory")
	}
	if c.Database.Driver == "postgres" && c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}
	if c.Queue.Backend != "memory" && c.Queue.Backend != "redis" {
		return fmt.Errorf("QUEUE_BACKEND must be memory or redis")
	}
	if c.Queue.Backend == "memory" && !c.Queue.Embedded {
		return fmt.Errorf("QUEUE_EMBEDDED_WORKERS cannot be disabled with the memory queue")
	}
	if c.Auth.InitEnabled && c.Auth.InitToken == "" {
		return fmt.Errorf("INIT_TOKEN is required when INIT_ENABLED is set")
	}
	if c.SMS.Enabled && c.SMS.WebhookURL == "" {
		return fmt.Errorf("SMS_WEBHOOK_URL is required when SMS_ENABLED is set")
	}
	return nil
}

// Location returns the business timezone used to decide what "today" is.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return fallback
	}
	return value == "true" || value == "1" || value == "yes"
}

func getEnvSlice(env, fallback string) []string {
	value := getEnv(env, fallback)
	if value == "" {
		return []string{}
	}
	var result []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}
	return result
}
