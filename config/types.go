package config

import (
	"time"

	"github.com/knadh/koanf/v2"
)

// Config is the application configuration. Keys not covered by the struct stay
// reachable through the getters.
type Config struct {
	App     AppConfig         `koanf:"app" json:"app" yaml:"app"`
	Server  ServerConfig      `koanf:"server" json:"server" yaml:"server"`
	Log     LogConfig         `koanf:"log" json:"log" yaml:"log"`
	CORS    CORSConfig        `koanf:"cors" json:"cors" yaml:"cors"`
	Headers map[string]string `koanf:"headers" json:"headers" yaml:"headers"`
	Rate    RateConfig        `koanf:"rate" json:"rate" yaml:"rate"`
	Tracing TracingConfig     `koanf:"tracing" json:"tracing" yaml:"tracing"`

	k *koanf.Koanf `json:"-" yaml:"-"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name    string `koanf:"name" json:"name" yaml:"name" validate:"required"`
	Version string `koanf:"version" json:"version" yaml:"version" validate:"required"`
	Env     string `koanf:"env" json:"env" yaml:"env" validate:"oneof=development staging production"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `koanf:"host" json:"host" yaml:"host"`
	Port int    `koanf:"port" json:"port" yaml:"port" validate:"min=1,max=65535"`
	// Prefix is prepended to every resolved route path.
	Prefix    string        `koanf:"prefix" json:"prefix" yaml:"prefix" validate:"omitempty,startswith=/"`
	BodyLimit string        `koanf:"bodylimit" json:"bodylimit" yaml:"bodylimit"`
	Timeout   TimeoutConfig `koanf:"timeout" json:"timeout" yaml:"timeout"`
	Path      PathConfig    `koanf:"path" json:"path" yaml:"path"`
}

// TimeoutConfig holds server timeouts.
type TimeoutConfig struct {
	Read     time.Duration `koanf:"read" json:"read" yaml:"read" validate:"gt=0"`
	Write    time.Duration `koanf:"write" json:"write" yaml:"write" validate:"gt=0"`
	Idle     time.Duration `koanf:"idle" json:"idle" yaml:"idle" validate:"gte=0"`
	Shutdown time.Duration `koanf:"shutdown" json:"shutdown" yaml:"shutdown" validate:"gt=0"`
}

// PathConfig holds paths of built-in endpoints. An empty path disables the endpoint.
type PathConfig struct {
	Health string `koanf:"health" json:"health" yaml:"health" validate:"omitempty,startswith=/"`
}

// LogConfig holds logging settings. When Enabled is false the framework logs nothing.
type LogConfig struct {
	Enabled bool   `koanf:"enabled" json:"enabled" yaml:"enabled"`
	Level   string `koanf:"level" json:"level" yaml:"level" validate:"omitempty,oneof=trace debug info warn error"`
	Pretty  bool   `koanf:"pretty" json:"pretty" yaml:"pretty"`
}

// CORSConfig configures cross-origin resource sharing.
type CORSConfig struct {
	Enabled bool     `koanf:"enabled" json:"enabled" yaml:"enabled"`
	Origins []string `koanf:"origins" json:"origins" yaml:"origins" validate:"dive,required"`
	Methods []string `koanf:"methods" json:"methods" yaml:"methods" validate:"dive,oneof=GET POST PUT DELETE PATCH OPTIONS HEAD"`
}

// RateConfig configures per-client rate limiting. A zero limit disables it.
type RateConfig struct {
	Limit float64 `koanf:"limit" json:"limit" yaml:"limit" validate:"gte=0"`
	Burst int     `koanf:"burst" json:"burst" yaml:"burst" validate:"gte=0"`
}

// TracingConfig configures OpenTelemetry tracing.
type TracingConfig struct {
	Enabled  bool   `koanf:"enabled" json:"enabled" yaml:"enabled"`
	Exporter string `koanf:"exporter" json:"exporter" yaml:"exporter" validate:"omitempty,oneof=stdout none"`
}
