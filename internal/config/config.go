package config

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/viper"
)

// Config holds all application settings.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Codes    CodesConfig
	Email    EmailConfig
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Port         string
	ReadTimeout  int
	WriteTimeout int
}

// DatabaseConfig holds the PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig holds the unified Redis connection settings.
// Supported modes: single, sentinel, cluster.
type RedisConfig struct {
	// Mode: "single", "sentinel" or "cluster". Defaults to "single".
	Mode string `mapstructure:"mode"`

	// Addrs: list of host:port addresses, used by all modes. For
	// 'single', the first address wins when the list is non-empty.
	Addrs []string `mapstructure:"addrs"`

	// Addr: alternative single-mode address, kept for backward
	// compatibility. Used when Mode="single" and Addrs is empty.
	Addr string `mapstructure:"addr"`

	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`

	// MasterName: Redis master name (sentinel mode only).
	MasterName string `mapstructure:"master_name"`

	// MaxRetries: reconnect attempts (-1 = unlimited). Default 0.
	MaxRetries int `mapstructure:"max_retries"`

	// MinRetryBackoff / MaxRetryBackoff in milliseconds.
	MinRetryBackoff int `mapstructure:"min_retry_backoff"`
	MaxRetryBackoff int `mapstructure:"max_retry_backoff"`
}

// AuthConfig holds token and cookie settings.
type AuthConfig struct {
	// StudentCookieSecret signs the student_info cookie.
	StudentCookieSecret string `mapstructure:"student_cookie_secret"`
	// StudentCookieDays is the student session length (default 30).
	StudentCookieDays int `mapstructure:"student_cookie_days"`
	// StaffTokenSecret verifies staff JWTs.
	StaffTokenSecret string `mapstructure:"staff_token_secret"`
	// StaffTokenExpirationHrs applies to locally minted staff tokens.
	StaffTokenExpirationHrs int `mapstructure:"staff_token_expiration_hrs"`
}

// CodesConfig holds access-code settings.
type CodesConfig struct {
	// Length of generated codes (default 6).
	Length int `mapstructure:"length"`
	// CacheTTLSeconds for resolved codes in Redis (default 300).
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds"`
}

// EmailConfig holds invitation email settings.
type EmailConfig struct {
	// Enabled switches between the Resend client and the noop sender.
	Enabled bool `mapstructure:"enabled"`
	// ResendAPIKey authenticates against the Resend REST API.
	ResendAPIKey string `mapstructure:"resend_api_key"`
	From         string `mapstructure:"from"`
	// InviteBaseURL is the accept-invite page the emailed link points at.
	InviteBaseURL string `mapstructure:"invite_base_url"`
}

// PostgresConnectionString builds the PostgreSQL DSN.
func (d *DatabaseConfig) PostgresConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// Load reads configuration from the optional yaml file at configPath
// merged with explicitly bound environment variables.
func Load(configPath string) (*Config, error) {
	vip := viper.New() // own instance, no global state

	// Explicit env bindings per key.
	vip.BindEnv("database.host", "DATABASE_HOST")
	vip.BindEnv("database.port", "DATABASE_PORT")
	vip.BindEnv("database.user", "DATABASE_USER")
	vip.BindEnv("database.password", "DATABASE_PASSWORD")
	vip.BindEnv("database.dbname", "DATABASE_DBNAME")
	vip.BindEnv("database.sslmode", "DATABASE_SSLMODE")

	vip.BindEnv("redis.mode", "REDIS_MODE")
	vip.BindEnv("redis.addrs", "REDIS_ADDRS")
	vip.BindEnv("redis.addr", "REDIS_ADDR")
	vip.BindEnv("redis.password", "REDIS_PASSWORD")
	vip.BindEnv("redis.db", "REDIS_DB")
	vip.BindEnv("redis.master_name", "REDIS_MASTER_NAME")

	vip.BindEnv("auth.student_cookie_secret", "AUTH_STUDENT_COOKIE_SECRET")
	vip.BindEnv("auth.student_cookie_days", "AUTH_STUDENT_COOKIE_DAYS")
	vip.BindEnv("auth.staff_token_secret", "AUTH_STAFF_TOKEN_SECRET")
	vip.BindEnv("auth.staff_token_expiration_hrs", "AUTH_STAFF_TOKEN_EXPIRATION_HRS")

	vip.BindEnv("codes.length", "CODES_LENGTH")
	vip.BindEnv("codes.cache_ttl_seconds", "CODES_CACHE_TTL_SECONDS")

	vip.BindEnv("email.enabled", "EMAIL_ENABLED")
	vip.BindEnv("email.resend_api_key", "EMAIL_RESEND_API_KEY")
	vip.BindEnv("email.from", "EMAIL_FROM")
	vip.BindEnv("email.invite_base_url", "EMAIL_INVITE_BASE_URL")

	vip.BindEnv("server.port", "SERVER_PORT")

	vip.SetDefault("server.port", "8080")
	vip.SetDefault("server.readtimeout", 15)
	vip.SetDefault("server.writetimeout", 15)
	vip.SetDefault("auth.student_cookie_days", 30)
	vip.SetDefault("auth.staff_token_expiration_hrs", 24)
	vip.SetDefault("codes.length", 6)
	vip.SetDefault("codes.cache_ttl_seconds", 300)

	if configPath != "" {
		vip.SetConfigFile(configPath)
		if err := vip.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); ok {
				log.Printf("[Config] file '%s' not found, relying on env vars/defaults", configPath)
			} else {
				log.Printf("[Config] warning: could not read '%s': %v", configPath, err)
			}
		}
	}

	var cfg Config
	if err := vip.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if os.Getenv("GIN_MODE") != "release" {
		log.Printf("--- Loaded configuration ---")
		log.Printf("Database Host: %s", cfg.Database.Host)
		log.Printf("Database Name: %s", cfg.Database.DBName)
		log.Printf("Redis Addr: %s", cfg.Redis.Addr)
		log.Printf("Server Port: %s", cfg.Server.Port)
		log.Printf("Email Enabled: %t", cfg.Email.Enabled)
		log.Printf("----------------------------")
	}

	if cfg.Auth.StudentCookieSecret == "" {
		return nil, fmt.Errorf("student cookie secret is required (check AUTH_STUDENT_COOKIE_SECRET env var)")
	}
	if cfg.Auth.StaffTokenSecret == "" {
		return nil, fmt.Errorf("staff token secret is required (check AUTH_STAFF_TOKEN_SECRET env var)")
	}
	if cfg.Database.Host == "" || cfg.Database.DBName == "" || cfg.Database.User == "" {
		return nil, fmt.Errorf("database configuration (host, dbname, user) is incomplete (check DATABASE_HOST, DATABASE_DBNAME, DATABASE_USER env vars)")
	}
	if cfg.Email.Enabled && (cfg.Email.ResendAPIKey == "" || cfg.Email.From == "") {
		return nil, fmt.Errorf("email is enabled but resend_api_key/from are not set (check EMAIL_RESEND_API_KEY, EMAIL_FROM env vars)")
	}

	return &cfg, nil
}
