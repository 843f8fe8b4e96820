package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v6"

	"github.com/m04kA/SMC-SlotEngine/internal/service/availability"
	"github.com/m04kA/SMC-SlotEngine/pkg/types"
)

// Драйверы зеркала бронирований
const (
	CacheDriverMemory = "memory"
	CacheDriverRedis  = "redis"
)

var (
	// ErrReadConfig ошибка чтения файла конфигурации
	ErrReadConfig = errors.New("config: failed to read config file")
	// ErrEnvOverride ошибка применения переменных окружения
	ErrEnvOverride = errors.New("config: failed to apply environment overrides")
	// ErrInvalidConfig конфигурация не прошла валидацию
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

// Config конфигурация сервиса
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Database DatabaseConfig `toml:"database"`
	Backend  BackendConfig  `toml:"backend"`
	Cache    CacheConfig    `toml:"cache"`
	Engine   EngineConfig   `toml:"engine"`
	Series   SeriesConfig   `toml:"series"`
	Sessions SessionsConfig `toml:"sessions"`
}

// ServerConfig параметры HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port" env:"SERVER_HTTP_PORT"`
	ReadTimeout     int `toml:"read_timeout" env:"SERVER_READ_TIMEOUT"`
	WriteTimeout    int `toml:"write_timeout" env:"SERVER_WRITE_TIMEOUT"`
	IdleTimeout     int `toml:"idle_timeout" env:"SERVER_IDLE_TIMEOUT"`
	ShutdownTimeout int `toml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT"`
}

// LogsConfig параметры логирования
type LogsConfig struct {
	Level string `toml:"level" env:"LOGS_LEVEL"`
	File  string `toml:"file" env:"LOGS_FILE"`
}

// MetricsConfig параметры метрик Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled" env:"METRICS_ENABLED"`
	Path        string `toml:"path" env:"METRICS_PATH"`
	ServiceName string `toml:"service_name" env:"METRICS_SERVICE_NAME"`
}

// DatabaseConfig параметры PostgreSQL (хранилище правил повторяющихся серий)
type DatabaseConfig struct {
	Host            string `toml:"host" env:"DB_HOST"`
	Port            int    `toml:"port" env:"DB_PORT"`
	User            string `toml:"user" env:"DB_USER"`
	Password        string `toml:"password" env:"DB_PASSWORD"`
	DBName          string `toml:"dbname" env:"DB_NAME"`
	SSLMode         string `toml:"sslmode" env:"DB_SSLMODE"`
	MaxOpenConns    int    `toml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
	MaxIdleConns    int    `toml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
}

// DSN строка подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// BackendConfig параметры авторитетного бэкенда бронирований
type BackendConfig struct {
	URL      string `toml:"url" env:"BACKEND_URL"`
	Timeout  int    `toml:"timeout" env:"BACKEND_TIMEOUT"`
	TenantID string `toml:"tenant_id" env:"BACKEND_TENANT_ID"`
}

// CacheConfig параметры зеркала бронирований
type CacheConfig struct {
	Driver        string `toml:"driver" env:"CACHE_DRIVER"`
	TTL           int    `toml:"ttl" env:"CACHE_TTL"`
	Size          int    `toml:"size" env:"CACHE_SIZE"`
	RedisAddr     string `toml:"redis_addr" env:"CACHE_REDIS_ADDR"`
	RedisPassword string `toml:"redis_password" env:"CACHE_REDIS_PASSWORD"`
	RedisDB       int    `toml:"redis_db" env:"CACHE_REDIS_DB"`
}

// EngineConfig параметры сетки слотов
type EngineConfig struct {
	GridOpen             string `toml:"grid_open" env:"ENGINE_GRID_OPEN"`
	GridClose            string `toml:"grid_close" env:"ENGINE_GRID_CLOSE"`
	GranularityMinutes   int    `toml:"granularity_minutes" env:"ENGINE_GRANULARITY_MINUTES"`
	Timezone             string `toml:"timezone" env:"ENGINE_TIMEZONE"`
	UnreportedHourPolicy string `toml:"unreported_hour_policy" env:"ENGINE_UNREPORTED_HOUR_POLICY"`
}

// Location часовой пояс арендатора
func (c EngineConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// SeriesConfig параметры генерации повторяющихся серий
type SeriesConfig struct {
	DelegateToBackend  bool    `toml:"delegate_to_backend" env:"SERIES_DELEGATE_TO_BACKEND"`
	RatePerSecond      float64 `toml:"rate_per_second" env:"SERIES_RATE_PER_SECOND"`
	Burst              int     `toml:"burst" env:"SERIES_BURST"`
	GenerationInterval int     `toml:"generation_interval" env:"SERIES_GENERATION_INTERVAL"`
}

// SessionsConfig параметры сессий выбора слота
type SessionsConfig struct {
	TTL           int `toml:"ttl" env:"SESSIONS_TTL"`
	SweepInterval int `toml:"sweep_interval" env:"SESSIONS_SWEEP_INTERVAL"`
}

// Default конфигурация со значениями по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "slot-engine",
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Backend: BackendConfig{
			Timeout: 10,
		},
		Cache: CacheConfig{
			Driver: CacheDriverMemory,
			TTL:    300,
			Size:   10000,
		},
		Engine: EngineConfig{
			GridOpen:             "08:00",
			GridClose:            "24:00",
			GranularityMinutes:   30,
			Timezone:             "UTC",
			UnreportedHourPolicy: string(availability.AssumeOpen),
		},
		Series: SeriesConfig{
			RatePerSecond:      5,
			Burst:              1,
			GenerationInterval: 3600,
		},
		Sessions: SessionsConfig{
			TTL:           1800,
			SweepInterval: 60,
		},
	}
}

// Load читает конфигурацию из TOML файла, затем применяет переменные окружения
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadConfig, err)
	}

	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadConfig, err)
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEnvOverride, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет согласованность конфигурации
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port must be in 1..65535", ErrInvalidConfig)
	}

	if c.Backend.URL == "" {
		return fmt.Errorf("%w: backend.url is required", ErrInvalidConfig)
	}
	if c.Backend.Timeout <= 0 {
		return fmt.Errorf("%w: backend.timeout must be positive", ErrInvalidConfig)
	}

	switch c.Cache.Driver {
	case CacheDriverMemory:
	case CacheDriverRedis:
		if c.Cache.RedisAddr == "" {
			return fmt.Errorf("%w: cache.redis_addr is required for redis driver", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown cache.driver %q", ErrInvalidConfig, c.Cache.Driver)
	}
	if c.Cache.Size < 0 {
		return fmt.Errorf("%w: cache.size must not be negative", ErrInvalidConfig)
	}

	open, err := types.NewTimeStringFromString(c.Engine.GridOpen)
	if err != nil {
		return fmt.Errorf("%w: engine.grid_open: %v", ErrInvalidConfig, err)
	}
	closing, err := types.NewTimeStringFromString(c.Engine.GridClose)
	if err != nil {
		return fmt.Errorf("%w: engine.grid_close: %v", ErrInvalidConfig, err)
	}
	if !open.IsBefore(closing) {
		return fmt.Errorf("%w: engine.grid_open must be before engine.grid_close", ErrInvalidConfig)
	}
	if c.Engine.GranularityMinutes <= 0 {
		return fmt.Errorf("%w: engine.granularity_minutes must be positive", ErrInvalidConfig)
	}
	if _, err := c.Engine.Location(); err != nil {
		return fmt.Errorf("%w: engine.timezone: %v", ErrInvalidConfig, err)
	}

	if _, err := availability.ParsePolicy(c.Engine.UnreportedHourPolicy); err != nil {
		return fmt.Errorf("%w: engine.unreported_hour_policy: %v", ErrInvalidConfig, err)
	}

	if c.Series.RatePerSecond <= 0 || c.Series.Burst <= 0 {
		return fmt.Errorf("%w: series.rate_per_second and series.burst must be positive", ErrInvalidConfig)
	}
	if c.Series.GenerationInterval < 0 {
		return fmt.Errorf("%w: series.generation_interval must not be negative", ErrInvalidConfig)
	}

	if c.Sessions.TTL <= 0 || c.Sessions.SweepInterval <= 0 {
		return fmt.Errorf("%w: sessions.ttl and sessions.sweep_interval must be positive", ErrInvalidConfig)
	}

	return nil
}
