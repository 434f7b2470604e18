package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	return &Config{
		App: AppConfig{Name: "wellflow", Environment: "development"},
		Log: LogConfig{Level: "info"},
		Hydraulics: HydraulicsConfig{
			DefaultMethod:   "hagedorn-brown",
			DefaultSteps:    100,
			MaxSteps:        1000,
			Workers:         2,
			Timeout:         time.Minute,
			TargetTolerance: 5,
		},
		Report: ReportConfig{Formats: []string{"xlsx"}},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"empty log level defaults to info", func(c *Config) { c.Log.Level = "" }, ""},
		{"missing app name", func(c *Config) { c.App.Name = "" }, "app.name"},
		{"bad log level", func(c *Config) { c.Log.Level = "trace" }, "log.level"},
		{"bad metrics port", func(c *Config) { c.Metrics.Enabled = true; c.Metrics.Port = 70000 }, "metrics.port"},
		{"bad cache driver", func(c *Config) { c.Cache.Enabled = true; c.Cache.Driver = "memcached" }, "cache.driver"},
		{"zero steps", func(c *Config) { c.Hydraulics.DefaultSteps = 0 }, "default_steps"},
		{"max below default", func(c *Config) { c.Hydraulics.MaxSteps = 10 }, "max_steps"},
		{"no workers", func(c *Config) { c.Hydraulics.Workers = 0 }, "workers"},
		{"zero tolerance", func(c *Config) { c.Hydraulics.TargetTolerance = 0 }, "target_tolerance"},
		{"bad format", func(c *Config) { c.Report.Formats = []string{"docx"} }, "docx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestConfig_Environment(t *testing.T) {
	cfg := validConfig()
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())

	cfg.App.Environment = "prod"
	assert.True(t, cfg.IsProduction())
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5433, Username: "u", Password: "p", Database: "wells", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=wells sslmode=disable", d.DSN())
}

func TestCacheConfig_Address(t *testing.T) {
	assert.Equal(t, "redis:6380", CacheConfig{Host: "redis", Port: 6380}.Address())
}
