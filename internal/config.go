package internal

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Env           string              `mapstructure:"env"`
	Server        ServerConfig        `mapstructure:"http_server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Security      SecurityConfig      `mapstructure:"security"`
	Authz         AuthzConfig         `mapstructure:"authz"`
	RateLimit     RateLimitConfig     `mapstructure:"rate_limit"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

type ServerConfig struct {
	Port              int           `mapstructure:"port"`
	BaseURL           string        `mapstructure:"base_url"`
	AllowedOrigins    string        `mapstructure:"allowed_origins"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	QueryTimeout    time.Duration `mapstructure:"query_timeout"`
	Source          string        `mapstructure:"source"`
}

type SecurityConfig struct {
	JWTAccessSecret      string        `mapstructure:"jwt_access_secret"`
	JWTRefreshSecret     string        `mapstructure:"jwt_refresh_secret"`
	AccessTokenDuration  time.Duration `mapstructure:"access_token_duration"`
	RefreshTokenDuration time.Duration `mapstructure:"refresh_token_duration"`
	BCryptCost           int           `mapstructure:"bcrypt_cost"`
}

// AuthzConfig tunes the authorization core.
type AuthzConfig struct {
	// PermissionCacheTTL of zero disables caching; every request re-resolves.
	PermissionCacheTTL time.Duration `mapstructure:"permission_cache_ttl"`
	// ConcealCrossTenant answers cross-tenant resource probes with not-found.
	ConcealCrossTenant bool `mapstructure:"conceal_cross_tenant"`
}

type RateLimitConfig struct {
	LoginPerSecond float64 `mapstructure:"login_per_second"`
	LoginBurst     int     `mapstructure:"login_burst"`
}

type ObservabilityConfig struct {
	Metrics MetricsConfig `mapstructure:"metrics"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Defaults is applied by both loaders before values are read.
func Defaults() map[string]interface{} {
	return map[string]interface{}{
		"env":                             "development",
		"http_server.port":                8080,
		"http_server.read_header_timeout": 5 * time.Second,
		"http_server.read_timeout":        15 * time.Second,
		"http_server.write_timeout":       15 * time.Second,
		"http_server.idle_timeout":        60 * time.Second,
		"database.max_open_conns":         20,
		"database.max_idle_conns":         5,
		"database.conn_max_lifetime":      30 * time.Minute,
		"database.conn_max_idle_time":     5 * time.Minute,
		"database.query_timeout":          5 * time.Second,
		"security.access_token_duration":  15 * time.Minute,
		"security.refresh_token_duration": 7 * 24 * time.Hour,
		"security.bcrypt_cost":            12,
		"authz.permission_cache_ttl":      time.Duration(0),
		"authz.conceal_cross_tenant":      true,
		"rate_limit.login_per_second":     1.0,
		"rate_limit.login_burst":          5,
		"observability.metrics.enabled":   true,
		"observability.metrics.path":      "/metrics",
		"observability.logging.level":     "info",
		"observability.logging.format":    "json",
	}
}

// LoadConfigFromEnv builds the configuration from plain environment
// variables, used for container deployments where no config.yml is mounted.
func LoadConfigFromEnv() *Config {
	return &Config{
		Env: getEnv("APP_ENV", "production"),
		Server: ServerConfig{
			Port:              getEnvAsInt("HTTP_PORT", 8080),
			BaseURL:           getEnv("HTTP_BASE_URL", ""),
			AllowedOrigins:    getEnv("HTTP_ALLOWED_ORIGINS", ""),
			ReadHeaderTimeout: getEnvAsDuration("HTTP_READ_HEADER_TIMEOUT", 5*time.Second),
			ReadTimeout:       getEnvAsDuration("HTTP_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:      getEnvAsDuration("HTTP_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:       getEnvAsDuration("HTTP_IDLE_TIMEOUT", 60*time.Second),
		},
		Database: DatabaseConfig{
			Source:          getEnv("DATABASE_URL", ""),
			MaxOpenConns:    getEnvAsInt("DATABASE_MAX_OPEN_CONNS", 20),
			MaxIdleConns:    getEnvAsInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DATABASE_CONN_MAX_LIFETIME", 30*time.Minute),
			ConnMaxIdleTime: getEnvAsDuration("DATABASE_CONN_MAX_IDLE_TIME", 5*time.Minute),
			QueryTimeout:    getEnvAsDuration("DATABASE_QUERY_TIMEOUT", 5*time.Second),
		},
		Security: SecurityConfig{
			JWTAccessSecret:      getEnv("JWT_ACCESS_SECRET", ""),
			JWTRefreshSecret:     getEnv("JWT_REFRESH_SECRET", ""),
			AccessTokenDuration:  getEnvAsDuration("ACCESS_TOKEN_DURATION", 15*time.Minute),
			RefreshTokenDuration: getEnvAsDuration("REFRESH_TOKEN_DURATION", 7*24*time.Hour),
			BCryptCost:           getEnvAsInt("BCRYPT_COST", 12),
		},
		Authz: AuthzConfig{
			PermissionCacheTTL: getEnvAsDuration("AUTHZ_PERMISSION_CACHE_TTL", 0),
			ConcealCrossTenant: getEnvAsBool("AUTHZ_CONCEAL_CROSS_TENANT", true),
		},
		RateLimit: RateLimitConfig{
			LoginPerSecond: getEnvAsFloat("RATE_LIMIT_LOGIN_PER_SECOND", 1),
			LoginBurst:     getEnvAsInt("RATE_LIMIT_LOGIN_BURST", 5),
		},
		Observability: ObservabilityConfig{
			Metrics: MetricsConfig{
				Enabled: getEnvAsBool("METRICS_ENABLED", true),
				Path:    getEnv("METRICS_PATH", "/metrics"),
			},
			Logging: LoggingConfig{
				Level:  getEnv("LOG_LEVEL", "info"),
				Format: getEnv("LOG_FORMAT", "json"),
			},
		},
	}
}

// ----------------- HELPERS -----------------

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsFloat(key string, defaultVal float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultVal
}

// ----------------- VALIDATION -----------------

func (c *Config) Validate() error {
	var errs []string

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}

	if err := c.Database.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("database config: %v", err))
	}

	if err := c.Security.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("security config: %v", err))
	}

	if err := c.Authz.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("authz config: %v", err))
	}

	if err := c.RateLimit.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("rate limit config: %v", err))
	}

	if err := c.Observability.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("observability config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (c *ServerConfig) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.AllowedOrigins != "" {
		for _, origin := range c.Origins() {
			if origin == "*" {
				continue
			}
			if _, err := url.Parse(origin); err != nil {
				return fmt.Errorf("invalid allowed origin %s: %w", origin, err)
			}
		}
	}
	if c.ReadTimeout < c.ReadHeaderTimeout {
		return errors.New("read_timeout must be >= read_header_timeout")
	}
	return nil
}

func (c *ServerConfig) Origins() []string {
	if c.AllowedOrigins == "" {
		return nil
	}
	parts := strings.Split(c.AllowedOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}

func (c *DatabaseConfig) Validate() error {
	if c.Source == "" {
		return errors.New("source is required")
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		return errors.New("max_idle_conns cannot be greater than max_open_conns")
	}
	return nil
}

func (c *DatabaseConfig) GetDSN() string {
	return c.Source
}

func (c *SecurityConfig) Validate() error {
	if len(c.JWTAccessSecret) < 32 {
		return errors.New("jwt_access_secret must be at least 32 characters")
	}
	if len(c.JWTRefreshSecret) < 32 {
		return errors.New("jwt_refresh_secret must be at least 32 characters")
	}
	if c.JWTAccessSecret == c.JWTRefreshSecret {
		return errors.New("access and refresh secrets must differ")
	}
	if c.AccessTokenDuration < time.Minute || c.AccessTokenDuration > time.Hour {
		return errors.New("access_token_duration must be between 1m and 1h")
	}
	if c.RefreshTokenDuration < time.Hour {
		return errors.New("refresh_token_duration must be at least 1h")
	}
	if c.BCryptCost < 10 || c.BCryptCost > 15 {
		return errors.New("bcrypt_cost must be between 10 and 15")
	}
	return nil
}

func (c *AuthzConfig) Validate() error {
	if c.PermissionCacheTTL < 0 {
		return errors.New("permission_cache_ttl cannot be negative")
	}
	if c.PermissionCacheTTL > 5*time.Minute {
		return errors.New("permission_cache_ttl must not exceed 5m")
	}
	return nil
}

func (c *RateLimitConfig) Validate() error {
	if c.LoginPerSecond <= 0 {
		return errors.New("login_per_second must be positive")
	}
	if c.LoginBurst < 1 {
		return errors.New("login_burst must be at least 1")
	}
	return nil
}

func (c *ObservabilityConfig) Validate() error {
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return errors.New("metrics path must start with /")
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unsupported log level %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("unsupported log format %q", c.Logging.Format)
	}
	return nil
}
