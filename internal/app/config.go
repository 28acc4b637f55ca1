package app

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/yungbote/majoradvisor-backend/internal/data/db"
	"github.com/yungbote/majoradvisor-backend/internal/observability"
	"github.com/yungbote/majoradvisor-backend/internal/platform/envutil"
	"github.com/yungbote/majoradvisor-backend/internal/platform/logger"
	"github.com/yungbote/majoradvisor-backend/internal/services"
)

const devJWTSecret = "majoradvisor-dev-secret"

type Config struct {
	Port        string
	LogMode     string
	Environment string
	ServiceName string

	JWTSecret string
	TokenTTL  time.Duration

	DB db.Config

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisChannel  string

	CORSOrigins      []string
	AIConfigCacheTTL time.Duration
	AuditBuffer      int
	ShutdownTimeout  time.Duration

	Otel observability.OtelConfig
}

func (c Config) production() bool {
	switch strings.ToLower(c.LogMode) {
	case "prod", "production":
		return true
	}
	return strings.EqualFold(c.Environment, "production")
}

// LoadConfig reads the process environment. Production refuses to start
// without a JWT secret; other modes fall back to a fixed development one.
func LoadConfig(log *logger.Logger) (Config, error) {
	cfg := Config{
		Port:        envutil.String("PORT", "5000"),
		LogMode:     envutil.String("LOG_MODE", "development"),
		Environment: envutil.FirstString("development", "APP_ENV", "NODE_ENV"),
		ServiceName: envutil.String("OTEL_SERVICE_NAME", "majoradvisor-backend"),

		JWTSecret: envutil.FirstString("", "JWT_SECRET", "JWT_SECRET_KEY"),

		DB: db.Config{
			Driver:           envutil.String("DB_DRIVER", db.DriverPostgres),
			PostgresDSN:      envutil.String("POSTGRES_DSN", ""),
			PostgresHost:     envutil.String("POSTGRES_HOST", "localhost"),
			PostgresPort:     envutil.String("POSTGRES_PORT", "5432"),
			PostgresUser:     envutil.String("POSTGRES_USER", "postgres"),
			PostgresPassword: envutil.String("POSTGRES_PASSWORD", ""),
			PostgresName:     envutil.String("POSTGRES_NAME", "majoradvisor"),
			PostgresSSLMode:  envutil.String("POSTGRES_SSLMODE", "disable"),
			MaxOpenConns:     envutil.Int("DB_MAX_OPEN_CONNS", 10),
			SQLitePath:       envutil.String("SQLITE_PATH", "majoradvisor.db"),
		},

		RedisAddr:     envutil.String("REDIS_ADDR", ""),
		RedisPassword: envutil.String("REDIS_PASSWORD", ""),
		RedisDB:       envutil.Int("REDIS_DB", 0),
		RedisChannel:  envutil.String("REDIS_CHANNEL", ""),

		CORSOrigins:      envutil.List("CORS_ORIGINS", nil),
		AIConfigCacheTTL: envutil.Seconds("AI_CONFIG_CACHE_TTL_SECONDS", services.DefaultConfigCacheTTL),
		AuditBuffer:      envutil.Int("AUDIT_BUFFER", services.DefaultAuditBuffer),
		ShutdownTimeout:  envutil.Seconds("SHUTDOWN_TIMEOUT_SECONDS", 15*time.Second),
	}

	ttl, err := ParseTokenTTL(envutil.String("JWT_EXPIRE", "7d"))
	if err != nil {
		return Config{}, err
	}
	cfg.TokenTTL = ttl
	cfg.Otel = observability.OtelConfigFromEnv(cfg.ServiceName, cfg.Environment)

	if cfg.JWTSecret == "" {
		if cfg.production() {
			return Config{}, fmt.Errorf("JWT_SECRET is required in production")
		}
		if log != nil {
			log.Warn("JWT_SECRET not set, using development secret")
		}
		cfg.JWTSecret = devJWTSecret
	}
	return cfg, nil
}

// ParseTokenTTL accepts Go durations, a day suffix ("7d") or bare seconds.
func ParseTokenTTL(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return services.DefaultTokenTTL, nil
	}
	if n, err := strconv.Atoi(raw); err == nil {
		if n <= 0 {
			return 0, fmt.Errorf("JWT_EXPIRE must be positive")
		}
		return time.Duration(n) * time.Second, nil
	}
	if strings.HasSuffix(raw, "d") {
		n, err := strconv.Atoi(strings.TrimSuffix(raw, "d"))
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("invalid JWT_EXPIRE %q", raw)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid JWT_EXPIRE %q", raw)
	}
	return d, nil
}
