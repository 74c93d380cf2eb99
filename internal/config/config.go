package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/m04kA/ABS-SchedulingCore/internal/domain"
)

// Config конфигурация сервиса, загружается из TOML файла
type Config struct {
	Server     ServerConfig     `toml:"server"`
	Database   DatabaseConfig   `toml:"database"`
	Logs       LogsConfig       `toml:"logs"`
	Metrics    MetricsConfig    `toml:"metrics"`
	Cache      CacheConfig      `toml:"cache"`
	Advisory   AdvisoryConfig   `toml:"advisory"`
	Scheduling SchedulingConfig `toml:"scheduling"`
}

// ServerConfig настройки HTTP сервера
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN возвращает строку подключения к базе данных
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки prometheus метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// CacheConfig настройки redis-кеша для read-side запросов.
// Кеш опционален: при Enabled=false сервис работает без него.
type CacheConfig struct {
	Enabled    bool   `toml:"enabled"`
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	TTLSeconds int    `toml:"ttl_seconds"`
}

// TTL возвращает время жизни закешированных записей
func (c *CacheConfig) TTL() time.Duration {
	if c.TTLSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TTLSeconds) * time.Second
}

// AdvisoryConfig настройки AI-ассистента (подбор услуги, суммаризация заметок).
// Ассистент best-effort: при Enabled=false или недоступности провайдера
// сервис продолжает работать без него.
type AdvisoryConfig struct {
	Enabled bool   `toml:"enabled"`
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"` // пусто = дефолтный endpoint провайдера
	Model   string `toml:"model"`
	Timeout int    `toml:"timeout"` // секунды
}

// SchedulingConfig настройки планировщика бронирований
type SchedulingConfig struct {
	CancelGraceMinutes   int `toml:"cancel_grace_minutes"`   // окно отмены после начала брони
	HorizonDays          int `toml:"horizon_days"`           // максимальный горизонт расширения повторов
	MaxOccurrences       int `toml:"max_occurrences"`        // жесткий потолок вхождений на серию
	LockTimeoutMs        int `toml:"lock_timeout_ms"`        // ожидание замка ресурса
	ConflictRetries      int `toml:"conflict_retries"`       // повторы переноса при конфликте
	ConflictBackoffMs    int `toml:"conflict_backoff_ms"`    // пауза между повторами
	SweepIntervalSeconds int `toml:"sweep_interval_seconds"` // период фонового завершения броней
}

// CancelGrace возвращает окно отмены как time.Duration
func (c *SchedulingConfig) CancelGrace() time.Duration {
	if c.CancelGraceMinutes < 0 {
		return 0
	}
	if c.CancelGraceMinutes == 0 {
		return time.Duration(domain.DefaultCancelGraceMinutes) * time.Minute
	}
	return time.Duration(c.CancelGraceMinutes) * time.Minute
}

// LockTimeout возвращает таймаут захвата замка ресурса
func (c *SchedulingConfig) LockTimeout() time.Duration {
	if c.LockTimeoutMs <= 0 {
		return 2 * time.Second
	}
	return time.Duration(c.LockTimeoutMs) * time.Millisecond
}

// ConflictBackoff возвращает паузу между повторами при конфликте
func (c *SchedulingConfig) ConflictBackoff() time.Duration {
	if c.ConflictBackoffMs <= 0 {
		return 25 * time.Millisecond
	}
	return time.Duration(c.ConflictBackoffMs) * time.Millisecond
}

// SweepInterval возвращает период фонового завершения броней
func (c *SchedulingConfig) SweepInterval() time.Duration {
	if c.SweepIntervalSeconds <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.SweepIntervalSeconds) * time.Second
}

// Load загружает конфигурацию из TOML файла и применяет дефолты
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.HTTPPort == 0 {
		cfg.Server.HTTPPort = 8080
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 15
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = 60
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10
	}

	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 300
	}

	if cfg.Logs.Level == "" {
		cfg.Logs.Level = "info"
	}

	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
	if cfg.Metrics.ServiceName == "" {
		cfg.Metrics.ServiceName = "abs-scheduling-core"
	}

	if cfg.Advisory.Model == "" {
		cfg.Advisory.Model = "gpt-4o-mini"
	}
	if cfg.Advisory.Timeout == 0 {
		cfg.Advisory.Timeout = 10
	}

	if cfg.Scheduling.HorizonDays == 0 {
		cfg.Scheduling.HorizonDays = domain.DefaultHorizonDays
	}
	if cfg.Scheduling.MaxOccurrences == 0 {
		cfg.Scheduling.MaxOccurrences = domain.DefaultMaxOccurrences
	}
	if cfg.Scheduling.ConflictRetries == 0 {
		cfg.Scheduling.ConflictRetries = 3
	}
}

func validate(cfg *Config) error {
	if cfg.Database.Host == "" {
		return fmt.Errorf("config: database.host is required")
	}
	if cfg.Database.DBName == "" {
		return fmt.Errorf("config: database.dbname is required")
	}
	if cfg.Cache.Enabled && cfg.Cache.Addr == "" {
		return fmt.Errorf("config: cache.addr is required when cache is enabled")
	}
	if cfg.Advisory.Enabled && cfg.Advisory.APIKey == "" {
		return fmt.Errorf("config: advisory.api_key is required when advisory is enabled")
	}
	return nil
}
