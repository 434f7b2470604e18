package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix    = "WELLFLOW_"
	configEnvVar = "CONFIG_PATH"
	defaultName  = "wellflow"
)

// Loader загружает конфигурацию из разных источников
type Loader struct {
	k           *koanf.Koanf
	configPaths []string
	envPrefix   string
}

// NewLoader создаёт новый загрузчик конфигурации
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		k: koanf.New("."),
		configPaths: []string{
			"config.yaml",
			"config/config.yaml",
			"/etc/wellflow/config.yaml",
		},
		envPrefix: envPrefix,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// LoaderOption - опция для конфигурации загрузчика
type LoaderOption func(*Loader)

// WithConfigPaths устанавливает пути поиска конфигурации
func WithConfigPaths(paths ...string) LoaderOption {
	return func(l *Loader) {
		l.configPaths = paths
	}
}

// WithEnvPrefix устанавливает префикс переменных окружения
func WithEnvPrefix(prefix string) LoaderOption {
	return func(l *Loader) {
		l.envPrefix = prefix
	}
}

// Load загружает конфигурацию с приоритетом:
// defaults < yaml файл < переменные окружения
func (l *Loader) Load() (*Config, error) {
	if err := l.k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Файл не обязателен
	if err := l.loadConfigFile(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	if err := l.k.Load(env.ProviderWithValue(l.envPrefix, ".", l.envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load env: %w", err)
	}

	var cfg Config
	if err := l.k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaults() map[string]any {
	return map[string]any{
		"app.name":        defaultName,
		"app.version":     "1.0.0",
		"app.environment": "development",
		"app.debug":       false,

		"log.level":       "info",
		"log.format":      "text",
		"log.output":      "stderr",
		"log.max_size":    100,
		"log.max_backups": 3,
		"log.max_age":     7,
		"log.compress":    true,

		"metrics.enabled":   false,
		"metrics.port":      9090,
		"metrics.path":      "/metrics",
		"metrics.namespace": "wellflow",
		"metrics.subsystem": "hydraulics",

		"tracing.enabled":      false,
		"tracing.endpoint":     "localhost:4317",
		"tracing.service_name": defaultName,
		"tracing.sample_rate":  0.1,

		"database.enabled":            false,
		"database.host":               "localhost",
		"database.port":               5432,
		"database.database":           "wellflow",
		"database.username":           "postgres",
		"database.password":           "",
		"database.ssl_mode":           "disable",
		"database.max_open_conns":     10,
		"database.max_idle_conns":     2,
		"database.conn_max_lifetime":  5 * time.Minute,
		"database.conn_max_idle_time": 5 * time.Minute,
		"database.auto_migrate":       true,

		"cache.enabled":     false,
		"cache.driver":      "memory",
		"cache.host":        "localhost",
		"cache.port":        6379,
		"cache.db":          0,
		"cache.default_ttl": 30 * time.Minute,
		"cache.max_entries": 1000,

		"hydraulics.default_method":        "hagedorn-brown",
		"hydraulics.default_steps":         100,
		"hydraulics.max_steps":             5000,
		"hydraulics.workers":               4,
		"hydraulics.timeout":               time.Minute,
		"hydraulics.target_tolerance":      5.0,
		"hydraulics.target_max_iterations": 20,

		"report.output_dir":   ".",
		"report.formats":      []string{"xlsx"},
		"report.company_name": "Wellflow",
		"report.max_points":   200,
	}
}

// loadConfigFile загружает конфигурацию из файла
func (l *Loader) loadConfigFile() error {
	if configPath := os.Getenv(configEnvVar); configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return l.k.Load(file.Provider(configPath), yaml.Parser())
		}
	}

	for _, path := range l.configPaths {
		absPath, err := filepath.Abs(path)
		if err != nil {
			continue
		}
		if _, err := os.Stat(absPath); err == nil {
			return l.k.Load(file.Provider(absPath), yaml.Parser())
		}
	}

	return fmt.Errorf("config file not found in paths: %v", l.configPaths)
}

// envTransform: WELLFLOW_HYDRAULICS_DEFAULT_METHOD -> hydraulics.default_method.
// Секции однословные, поэтому режем только по первому подчёркиванию.
func (l *Loader) envTransform(envKey, value string) (string, any) {
	key := strings.ToLower(strings.TrimPrefix(envKey, l.envPrefix))
	if section, rest, ok := strings.Cut(key, "_"); ok {
		key = section + "." + rest
	}

	if sliceFields[key] {
		return key, splitAndTrim(value)
	}
	return key, value
}

// sliceFields - поля, которые должны парситься как слайсы
var sliceFields = map[string]bool{
	"report.formats": true,
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// MustLoad загружает конфигурацию или паникует
func MustLoad(opts ...LoaderOption) *Config {
	cfg, err := NewLoader(opts...).Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

// Load - загрузка с дефолтными настройками
func Load() (*Config, error) {
	return NewLoader().Load()
}

// LoadWithServiceDefaults подставляет имя сервиса, если оно не задано явно
func LoadWithServiceDefaults(serviceName string) (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	if cfg.App.Name == defaultName && serviceName != "" {
		cfg.App.Name = serviceName
	}
	if cfg.Tracing.ServiceName == defaultName {
		cfg.Tracing.ServiceName = cfg.App.Name
	}
	return cfg, nil
}

// DecodeFile читает yaml/json документ (входные данные расчёта) в out.
// Поля сопоставляются по json-тегам.
func DecodeFile(path string, out any) error {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := k.UnmarshalWithConf("", out, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}
