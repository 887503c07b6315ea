package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/text/language"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	Attendance AttendanceConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration for the report console.
type JWTConfig struct {
	Secret            string
	RefreshExpiration string
	AccessExpiration  string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port        int
	Env         string
	LogLevel    string
	FrontendURL string
}

// AttendanceConfig holds every knob of the time-calculation engine.
// The whole system runs in a single site-local time zone; date keys are
// always built in Location, never time.Local.
type AttendanceConfig struct {
	Timezone string
	Location *time.Location
	Locale   language.Tag

	RoundEnabled     bool
	RoundStepMinutes int
	RoundMode        string // nearest, up, down

	// FixedBreakMinutes overrides the tiered break rule when > 0.
	FixedBreakMinutes int

	DailyOvertimeThresholdMinutes int
	StandardWorkdayMinutes        int
	GroupBreakMinutes             int

	BreakPolicyEnabled bool

	SiteCacheTTL time.Duration
}

func Load() (*Config, error) {
	// A missing .env is fine in production; env vars win either way.
	_ = godotenv.Load()

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "ai_nippo"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:        appPort,
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:            getEnv("JWT_SECRET_KEY", ""),
		RefreshExpiration: getEnv("JWT_REFRESH_EXPIRATION_TIME", "168h"),
		AccessExpiration:  getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	attendance, err := loadAttendance()
	if err != nil {
		return nil, err
	}
	config.Attendance = attendance

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

func loadAttendance() (AttendanceConfig, error) {
	tz := getEnv("ATTENDANCE_TIMEZONE", "Asia/Tokyo")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return AttendanceConfig{}, fmt.Errorf("invalid ATTENDANCE_TIMEZONE %q: %w", tz, err)
	}

	locale, err := language.Parse(getEnv("ATTENDANCE_LOCALE", "ja"))
	if err != nil {
		return AttendanceConfig{}, fmt.Errorf("invalid ATTENDANCE_LOCALE: %w", err)
	}

	roundStep, err := getEnvInt("ROUND_STEP_MINUTES", 15)
	if err != nil {
		return AttendanceConfig{}, err
	}

	fixedBreak, err := getEnvInt("FIXED_BREAK_MINUTES", 0)
	if err != nil {
		return AttendanceConfig{}, err
	}

	overtimeThreshold, err := getEnvInt("DAILY_OVERTIME_THRESHOLD_MINUTES", 450)
	if err != nil {
		return AttendanceConfig{}, err
	}

	standardWorkday, err := getEnvInt("STANDARD_WORKDAY_MINUTES", 450)
	if err != nil {
		return AttendanceConfig{}, err
	}

	groupBreak, err := getEnvInt("GROUP_BREAK_MINUTES", 90)
	if err != nil {
		return AttendanceConfig{}, err
	}

	cacheTTL, err := time.ParseDuration(getEnv("SITE_CACHE_TTL", "5m"))
	if err != nil {
		return AttendanceConfig{}, fmt.Errorf("invalid SITE_CACHE_TTL: %w", err)
	}

	return AttendanceConfig{
		Timezone:                      tz,
		Location:                      loc,
		Locale:                        locale,
		RoundEnabled:                  getEnvBool("ROUND_ENABLED", true),
		RoundStepMinutes:              roundStep,
		RoundMode:                     getEnv("ROUND_MODE", "nearest"),
		FixedBreakMinutes:             fixedBreak,
		DailyOvertimeThresholdMinutes: overtimeThreshold,
		StandardWorkdayMinutes:        standardWorkday,
		GroupBreakMinutes:             groupBreak,
		BreakPolicyEnabled:            getEnvBool("BREAK_POLICY_ENABLED", true),
		SiteCacheTTL:                  cacheTTL,
	}, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Attendance.RoundStepMinutes <= 0 {
		return fmt.Errorf("ROUND_STEP_MINUTES must be positive")
	}
	switch c.Attendance.RoundMode {
	case "nearest", "up", "down":
	default:
		return fmt.Errorf("ROUND_MODE must be one of: nearest, up, down")
	}
	if c.Attendance.FixedBreakMinutes < 0 {
		return fmt.Errorf("FIXED_BREAK_MINUTES must not be negative")
	}
	if c.Attendance.DailyOvertimeThresholdMinutes <= 0 {
		return fmt.Errorf("DAILY_OVERTIME_THRESHOLD_MINUTES must be positive")
	}
	if c.Attendance.StandardWorkdayMinutes <= 0 {
		return fmt.Errorf("STANDARD_WORKDAY_MINUTES must be positive")
	}
	return nil
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

func getEnvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return b
}
