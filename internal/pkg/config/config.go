// Package config предоставляет управление конфигурацией приложения
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// Server содержит конфигурацию сервера
type Server struct {
	Host                   string `json:"host" yaml:"host"`
	Port                   int    `json:"port" yaml:"port"`
	ShutdownTimeoutSeconds int    `json:"shutdown_timeout_seconds" yaml:"shutdown_timeout_seconds"`
	ReadTimeoutSeconds     int    `json:"read_timeout_seconds" yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds    int    `json:"write_timeout_seconds" yaml:"write_timeout_seconds"`
	IdleTimeoutSeconds     int    `json:"idle_timeout_seconds" yaml:"idle_timeout_seconds"`
	MaxUploadSizeMB        int    `json:"max_upload_size_mb" yaml:"max_upload_size_mb"`

	// Производные длительности; заполняются после загрузки.
	ShutdownTimeout time.Duration `json:"-" yaml:"-"`
	ReadTimeout     time.Duration `json:"-" yaml:"-"`
	WriteTimeout    time.Duration `json:"-" yaml:"-"`
	IdleTimeout     time.Duration `json:"-" yaml:"-"`
}

// Processing содержит конфигурацию обработки
type Processing struct {
	TaskTimeoutSeconds     int `json:"task_timeout_seconds" yaml:"task_timeout_seconds"` // 0 - без ограничений
	TaskTTLHours           int `json:"task_ttl_hours" yaml:"task_ttl_hours"`
	CacheTTLMinutes        int `json:"cache_ttl_minutes" yaml:"cache_ttl_minutes"`
	CleanupIntervalMinutes int `json:"cleanup_interval_minutes" yaml:"cleanup_interval_minutes"`

	// Производные длительности; заполняются после загрузки.
	TaskTTL         time.Duration `json:"-" yaml:"-"`
	CacheTTL        time.Duration `json:"-" yaml:"-"`
	CleanupInterval time.Duration `json:"-" yaml:"-"`
}

// Logging содержит конфигурацию логирования
type Logging struct {
	Level string `json:"level" yaml:"level"` // debug, info, warn, error
}

// Config содержит конфигурацию приложения
type Config struct {
	Server     Server     `json:"server" yaml:"server"`
	Processing Processing `json:"processing" yaml:"processing"`
	Logging    Logging    `json:"logging" yaml:"logging"`
}

// LoadConfig загружает конфигурацию приложения из переменных окружения, .env файла или config.yml
func LoadConfig() (*Config, error) {
	// Загрузка переменных окружения из .env файла, если он существует
	if err := godotenv.Load(); err != nil {
		// Если .env файла не существует, это нормально, мы будем полагаться на переменные окружения или config.yml
	}

	// Попытка загрузки из config.yml сначала
	cfg, err := loadFromYAML("config.yml")
	if err != nil {
		// Если загрузка YAML не удалась, используем переменные окружения
		cfg, err = loadFromEnv()
		if err != nil {
			return nil, fmt.Errorf("не удалось загрузить конфигурацию из env: %w", err)
		}
	}

	cfg.applyDefaults()
	return cfg, nil
}

// loadFromYAML загружает конфигурацию из YAML-файла
func loadFromYAML(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("не удалось прочитать файл конфигурации %s: %w", filename, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("не удалось разобрать YAML конфигурацию: %w", err)
	}

	return &cfg, nil
}

// loadFromEnv загружает конфигурацию из переменных окружения
func loadFromEnv() (*Config, error) {
	host := getEnv("SERVER_HOST", DefaultServerHost)
	portStr := getEnv("SERVER_PORT", strconv.Itoa(DefaultServerPort))
	taskTimeoutStr := getEnv("TASK_TIMEOUT_SECONDS", strconv.Itoa(DefaultTaskTimeoutSeconds))
	cacheTTLStr := getEnv("CACHE_TTL_MINUTES", strconv.Itoa(DefaultCacheTTLMinutes))
	maxUploadStr := getEnv("MAX_UPLOAD_SIZE_MB", strconv.Itoa(DefaultMaxUploadSizeMB))
	logLevel := getEnv("LOG_LEVEL", DefaultLogLevel)

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("недопустимый SERVER_PORT: %w", err)
	}

	taskTimeout, err := strconv.Atoi(taskTimeoutStr)
	if err != nil {
		return nil, fmt.Errorf("недопустимый TASK_TIMEOUT_SECONDS: %w", err)
	}

	cacheTTL, err := strconv.Atoi(cacheTTLStr)
	if err != nil {
		return nil, fmt.Errorf("недопустимый CACHE_TTL_MINUTES: %w", err)
	}

	maxUpload, err := strconv.Atoi(maxUploadStr)
	if err != nil {
		return nil, fmt.Errorf("недопустимый MAX_UPLOAD_SIZE_MB: %w", err)
	}

	return &Config{
		Server: Server{
			Host:            host,
			Port:            port,
			MaxUploadSizeMB: maxUpload,
		},
		Processing: Processing{
			TaskTimeoutSeconds: taskTimeout,
			CacheTTLMinutes:    cacheTTL,
		},
		Logging: Logging{
			Level: logLevel,
		},
	}, nil
}

// applyDefaults заполняет нулевые поля значениями по умолчанию и
// вычисляет производные длительности
func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = DefaultServerHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultServerPort
	}
	if c.Server.ShutdownTimeoutSeconds == 0 {
		c.Server.ShutdownTimeoutSeconds = DefaultShutdownTimeoutSeconds
	}
	if c.Server.ReadTimeoutSeconds == 0 {
		c.Server.ReadTimeoutSeconds = DefaultReadTimeoutSeconds
	}
	if c.Server.WriteTimeoutSeconds == 0 {
		c.Server.WriteTimeoutSeconds = DefaultWriteTimeoutSeconds
	}
	if c.Server.IdleTimeoutSeconds == 0 {
		c.Server.IdleTimeoutSeconds = DefaultIdleTimeoutSeconds
	}
	if c.Server.MaxUploadSizeMB == 0 {
		c.Server.MaxUploadSizeMB = DefaultMaxUploadSizeMB
	}
	if c.Processing.TaskTTLHours == 0 {
		c.Processing.TaskTTLHours = DefaultTaskTTLHours
	}
	if c.Processing.CacheTTLMinutes == 0 {
		c.Processing.CacheTTLMinutes = DefaultCacheTTLMinutes
	}
	if c.Processing.CleanupIntervalMinutes == 0 {
		c.Processing.CleanupIntervalMinutes = DefaultCleanupIntervalMinutes
	}
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}

	c.Server.ShutdownTimeout = time.Duration(c.Server.ShutdownTimeoutSeconds) * time.Second
	c.Server.ReadTimeout = time.Duration(c.Server.ReadTimeoutSeconds) * time.Second
	c.Server.WriteTimeout = time.Duration(c.Server.WriteTimeoutSeconds) * time.Second
	c.Server.IdleTimeout = time.Duration(c.Server.IdleTimeoutSeconds) * time.Second
	c.Processing.TaskTTL = time.Duration(c.Processing.TaskTTLHours) * time.Hour
	c.Processing.CacheTTL = time.Duration(c.Processing.CacheTTLMinutes) * time.Minute
	c.Processing.CleanupInterval = time.Duration(c.Processing.CleanupIntervalMinutes) * time.Minute
}

// Address возвращает адрес сервера в формате "host:port"
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Validate проверяет, являются ли значения конфигурации допустимыми
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port должен быть действительным номером порта (1-65535)")
	}

	if c.Server.ShutdownTimeoutSeconds <= 0 {
		return fmt.Errorf("server.shutdown_timeout_seconds должно быть положительным")
	}

	if c.Server.MaxUploadSizeMB <= 0 {
		return fmt.Errorf("server.max_upload_size_mb должно быть положительным")
	}

	if c.Processing.TaskTimeoutSeconds < 0 {
		return fmt.Errorf("processing.task_timeout_seconds должно быть неотрицательным (0 для отсутствия ограничений)")
	}

	if c.Processing.TaskTTLHours <= 0 {
		return fmt.Errorf("processing.task_ttl_hours должно быть положительным целым числом")
	}

	if c.Processing.CacheTTLMinutes <= 0 {
		return fmt.Errorf("processing.cache_ttl_minutes должно быть положительным целым числом")
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		// all good
	default:
		return fmt.Errorf("logging.level должен быть одним из: debug, info, warn, error")
	}

	return nil
}

// getEnv извлекает значение переменной окружения или возвращает значение по умолчанию, если она не установлена
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
