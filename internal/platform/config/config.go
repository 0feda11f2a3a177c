package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr               string        `yaml:"addr"`
	DatabaseURL        string        `yaml:"databaseUrl"`
	JWTSecret          string        `yaml:"jwtSecret"`
	AccessTokenTTL     time.Duration `yaml:"accessTokenTtl"`
	RefreshTokenTTL    time.Duration `yaml:"refreshTokenTtl"`
	Environment        string        `yaml:"environment"`
	LogLevel           string        `yaml:"logLevel"`
	LogJSON            bool          `yaml:"logJson"`
	SeedAdminUsername  string        `yaml:"seedAdminUsername"`
	SeedAdminEmail     string        `yaml:"seedAdminEmail"`
	SeedAdminPassword  string        `yaml:"seedAdminPassword"`
	AllowSelfSignup    bool          `yaml:"allowSelfSignup"`
	EmailEnabled       bool          `yaml:"emailEnabled"`
	EmailFrom          string        `yaml:"emailFrom"`
	SMTPHost           string        `yaml:"smtpHost"`
	SMTPPort           int           `yaml:"smtpPort"`
	SMTPUser           string        `yaml:"smtpUser"`
	SMTPPassword       string        `yaml:"smtpPassword"`
	RunMigrations      bool          `yaml:"runMigrations"`
	RunSeed            bool          `yaml:"runSeed"`
	MaxBodyBytes       int64         `yaml:"maxBodyBytes"`
	RateLimitPerMinute int           `yaml:"rateLimitPerMinute"`
	MetricsEnabled     bool          `yaml:"metricsEnabled"`
	PayslipDir         string        `yaml:"payslipDir"`
	ExportMaxRecords   int           `yaml:"exportMaxRecords"`
}

func Defaults() Config {
	return Config{
		Addr:               ":8080",
		AccessTokenTTL:     time.Hour,
		RefreshTokenTTL:    7 * 24 * time.Hour,
		Environment:        "development",
		LogLevel:           "info",
		SeedAdminUsername:  "admin",
		EmailFrom:          "no-reply@example.com",
		SMTPPort:           587,
		RunMigrations:      true,
		RunSeed:            true,
		MaxBodyBytes:       1048576,
		RateLimitPerMinute: 60,
		MetricsEnabled:     true,
		PayslipDir:         "storage/payslips",
		ExportMaxRecords:   10000,
	}
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() Config {
	_ = godotenv.Load()
	cfg := Defaults()
	applyEnv(&cfg)
	return cfg
}

// LoadFile layers the environment over a YAML file. An empty path behaves like Load.
func LoadFile(path string) (Config, error) {
	_ = godotenv.Load()
	cfg := Defaults()
	if strings.TrimSpace(path) != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Addr = getEnv("APP_ADDR", cfg.Addr)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)
	cfg.AccessTokenTTL = getEnvDuration("ACCESS_TOKEN_TTL", cfg.AccessTokenTTL)
	cfg.RefreshTokenTTL = getEnvDuration("REFRESH_TOKEN_TTL", cfg.RefreshTokenTTL)
	cfg.Environment = getEnv("APP_ENV", cfg.Environment)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogJSON = getEnvBool("LOG_JSON", cfg.LogJSON)
	cfg.SeedAdminUsername = getEnv("SEED_ADMIN_USERNAME", cfg.SeedAdminUsername)
	cfg.SeedAdminEmail = getEnv("SEED_ADMIN_EMAIL", cfg.SeedAdminEmail)
	cfg.SeedAdminPassword = getEnv("SEED_ADMIN_PASSWORD", cfg.SeedAdminPassword)
	cfg.AllowSelfSignup = getEnvBool("ALLOW_SELF_SIGNUP", cfg.AllowSelfSignup)
	cfg.EmailEnabled = getEnvBool("EMAIL_ENABLED", cfg.EmailEnabled)
	cfg.EmailFrom = getEnv("EMAIL_FROM", cfg.EmailFrom)
	cfg.SMTPHost = getEnv("SMTP_HOST", cfg.SMTPHost)
	cfg.SMTPPort = getEnvInt("SMTP_PORT", cfg.SMTPPort)
	cfg.SMTPUser = getEnv("SMTP_USER", cfg.SMTPUser)
	cfg.SMTPPassword = getEnv("SMTP_PASSWORD", cfg.SMTPPassword)
	cfg.RunMigrations = getEnvBool("RUN_MIGRATIONS", cfg.RunMigrations)
	cfg.RunSeed = getEnvBool("RUN_SEED", cfg.RunSeed)
	cfg.MaxBodyBytes = int64(getEnvInt("MAX_BODY_BYTES", int(cfg.MaxBodyBytes)))
	cfg.RateLimitPerMinute = getEnvInt("RATE_LIMIT_PER_MINUTE", cfg.RateLimitPerMinute)
	cfg.MetricsEnabled = getEnvBool("METRICS_ENABLED", cfg.MetricsEnabled)
	cfg.PayslipDir = getEnv("PAYSLIP_DIR", cfg.PayslipDir)
	cfg.ExportMaxRecords = getEnvInt("EXPORT_MAX_RECORDS", cfg.ExportMaxRecords)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.IsProduction() {
		if len(c.JWTSecret) < 32 {
			return fmt.Errorf("JWT_SECRET must be at least 32 characters in production")
		}
		if c.RunSeed && strings.TrimSpace(c.SeedAdminPassword) == "" {
			return fmt.Errorf("SEED_ADMIN_PASSWORD must be set or RUN_SEED disabled in production")
		}
	}
	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		return fmt.Errorf("token TTLs must be positive")
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	if c.ExportMaxRecords <= 0 {
		return fmt.Errorf("EXPORT_MAX_RECORDS must be positive")
	}
	if c.EmailEnabled && c.SMTPHost == "" {
		return fmt.Errorf("SMTP_HOST must be set when EMAIL_ENABLED is true")
	}
	return nil
}
