package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Log      LogConfig
	JWT      JWTConfig
	Payment  PaymentConfig
	Sync     SyncConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name     string
	Env      string
	Port     string
	SeedDemo bool
}

// DatabaseConfig holds the local SQLite store settings
type DatabaseConfig struct {
	Path        string
	BusyTimeout time.Duration
}

// DSN builds the SQLite connection string. WAL journaling and a busy
// timeout keep concurrent readers from tripping over the single writer.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=%d",
		c.Path, c.BusyTimeout.Milliseconds())
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// JWTConfig holds local session token settings
type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

// PaymentConfig holds the subscription provider settings
type PaymentConfig struct {
	Provider       string // stripe or none
	SecretKey      string
	SubscriptionID string
}

// SyncConfig holds spreadsheet synchronization settings
type SyncConfig struct {
	Enabled bool
}

// Load reads configuration with the following priority (highest first):
// 1. Environment variables with GESTOR_ prefix (e.g., GESTOR_DATABASE_PATH)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./backend")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("GESTOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	cfg := &Config{
		App: AppConfig{
			Name:     v.GetString("app.name"),
			Env:      v.GetString("app.env"),
			Port:     v.GetString("app.port"),
			SeedDemo: v.GetBool("app.seed_demo"),
		},
		Database: DatabaseConfig{
			Path:        v.GetString("database.path"),
			BusyTimeout: v.GetDuration("database.busy_timeout"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		JWT: JWTConfig{
			Secret:     v.GetString("jwt.secret"),
			Expiration: v.GetDuration("jwt.expiration"),
			Issuer:     v.GetString("jwt.issuer"),
		},
		Payment: PaymentConfig{
			Provider:       v.GetString("payment.provider"),
			SecretKey:      v.GetString("payment.secret_key"),
			SubscriptionID: v.GetString("payment.subscription_id"),
		},
		Sync: SyncConfig{
			Enabled: v.GetBool("sync.enabled"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "gestor")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("app.seed_demo", false)
	v.SetDefault("database.path", "gestor.db")
	v.SetDefault("database.busy_timeout", 5*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("jwt.expiration", 12*time.Hour)
	v.SetDefault("jwt.issuer", "gestor")
	v.SetDefault("payment.provider", "none")
	v.SetDefault("sync.enabled", false)
}

// Validate checks configuration consistency
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.App.Env == "production" && c.JWT.Secret == "" {
		return fmt.Errorf("jwt.secret is required in production")
	}
	if c.Payment.Provider != "" && c.Payment.Provider != "none" && c.Payment.Provider != "stripe" {
		return fmt.Errorf("unknown payment provider %q", c.Payment.Provider)
	}
	return nil
}
