package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the site service.
type Config struct {
	AppName         string
	AppEnv          string
	AppPort         string
	DefaultLanguage string

	DatabaseDriver          string
	DatabaseURL             string
	DatabaseMaxOpenConns    int
	DatabaseMaxIdleConns    int
	DatabaseConnMaxIdleTime time.Duration
	DatabaseConnMaxLifetime time.Duration

	RedisURL       string
	PublicCacheTTL time.Duration

	SessionTTL    time.Duration
	SessionCookie string

	UploadRoot     string
	UploadMaxMB    int
	UploadMaxFiles int
	StorageDriver  string

	CloudinaryCloudName    string
	CloudinaryAPIKey       string
	CloudinaryAPISecret    string
	CloudinaryUploadFolder string

	NATSURL      string
	AuditSubject string

	LogLevel      string
	LogFile       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int

	LoginRateLimit  int
	LoginRateWindow time.Duration
	TrustedProxies  []string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// IsProduction reports whether the service runs with production hardening.
func (c Config) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(c.AppEnv), "production")
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("MOSQUEE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Mosquee")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "3000")
	v.SetDefault("default_language", "fr")
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.max_open_conns", 5)
	v.SetDefault("database.max_idle_conns", 2)
	v.SetDefault("database.conn_max_idle", "10s")
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("public_cache_ttl", "5m")
	v.SetDefault("session.ttl", "24h")
	v.SetDefault("session.cookie", "mosquee_sid")
	v.SetDefault("upload.root", "public")
	v.SetDefault("upload.max_mb", 20)
	v.SetDefault("upload.max_files", 10)
	v.SetDefault("storage.driver", "local")
	v.SetDefault("cloudinary.folder", "mosquee")
	v.SetDefault("audit_subject", "mosquee.audit")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.max_size_mb", 50)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 28)
	v.SetDefault("login.rate_limit", 5)
	v.SetDefault("login.rate_window", "15m")

	durations := map[string]time.Duration{}
	for _, key := range []string{"database.conn_max_idle", "database.conn_max_lifetime", "public_cache_ttl", "session.ttl", "login.rate_window"} {
		parsed, err := time.ParseDuration(v.GetString(key))
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", key, err)
		}
		durations[key] = parsed
	}

	cfg := Config{
		AppName:                 v.GetString("app.name"),
		AppEnv:                  v.GetString("app.env"),
		AppPort:                 v.GetString("app.port"),
		DefaultLanguage:         strings.ToLower(v.GetString("default_language")),
		DatabaseDriver:          strings.ToLower(v.GetString("database.driver")),
		DatabaseURL:             v.GetString("database.url"),
		DatabaseMaxOpenConns:    v.GetInt("database.max_open_conns"),
		DatabaseMaxIdleConns:    v.GetInt("database.max_idle_conns"),
		DatabaseConnMaxIdleTime: durations["database.conn_max_idle"],
		DatabaseConnMaxLifetime: durations["database.conn_max_lifetime"],
		RedisURL:                v.GetString("redis.url"),
		PublicCacheTTL:          durations["public_cache_ttl"],
		SessionTTL:              durations["session.ttl"],
		SessionCookie:           v.GetString("session.cookie"),
		UploadRoot:              v.GetString("upload.root"),
		UploadMaxMB:             v.GetInt("upload.max_mb"),
		UploadMaxFiles:          v.GetInt("upload.max_files"),
		StorageDriver:           strings.ToLower(v.GetString("storage.driver")),
		CloudinaryCloudName:     v.GetString("cloudinary.cloud_name"),
		CloudinaryAPIKey:        v.GetString("cloudinary.api_key"),
		CloudinaryAPISecret:     v.GetString("cloudinary.api_secret"),
		CloudinaryUploadFolder:  v.GetString("cloudinary.folder"),
		NATSURL:                 v.GetString("nats_url"),
		AuditSubject:            v.GetString("audit_subject"),
		LogLevel:                v.GetString("log.level"),
		LogFile:                 v.GetString("log.file"),
		LogMaxSizeMB:            v.GetInt("log.max_size_mb"),
		LogMaxBackups:           v.GetInt("log.max_backups"),
		LogMaxAgeDays:           v.GetInt("log.max_age_days"),
		LoginRateLimit:          v.GetInt("login.rate_limit"),
		LoginRateWindow:         durations["login.rate_window"],
		TrustedProxies:          splitList(v.GetString("trusted_proxies")),
	}

	switch cfg.DatabaseDriver {
	case "postgres", "mysql", "sqlite":
	default:
		return Config{}, fmt.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
	}

	switch cfg.StorageDriver {
	case "local", "cloudinary":
	default:
		return Config{}, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("database url must be provided")
	}

	if cfg.DatabaseMaxIdleConns <= 0 {
		cfg.DatabaseMaxIdleConns = 2
	}

	if cfg.UploadMaxMB <= 0 {
		cfg.UploadMaxMB = 20
	}

	if cfg.UploadMaxFiles <= 0 {
		cfg.UploadMaxFiles = 10
	}

	if cfg.LoginRateLimit <= 0 {
		cfg.LoginRateLimit = 5
	}

	return cfg, nil
}

func splitList(raw string) []string {
	var items []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
