package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	envprovider "github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix prefixes every environment variable read by Load.
	EnvPrefix = "NUXUM_"
	// EnvConfigFile names the variable holding the YAML file path.
	EnvConfigFile = EnvPrefix + "CONFIG"

	defaultConfigFile = "config.yaml"
)

// Load loads configuration from multiple sources with priority:
// 1. Environment variables prefixed with NUXUM_ (highest priority)
// 2. The YAML file named by NUXUM_CONFIG, or config.yaml when unset (optional)
// 3. Default values (lowest priority)
func Load() (*Config, error) {
	return LoadFile(os.Getenv(EnvConfigFile))
}

// LoadFile is Load with an explicit YAML path. An empty path means config.yaml, which
// may be absent; an explicit path must exist.
func LoadFile(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}

	return load(func(k *koanf.Koanf) error {
		err := k.Load(file.Provider(path), yaml.Parser())
		if err != nil && !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
		return nil
	})
}

// LoadBytes loads configuration from YAML content instead of a file. Defaults and
// environment variables apply as in Load.
func LoadBytes(data []byte) (*Config, error) {
	return load(func(k *koanf.Koanf) error {
		if err := k.Load(rawbytes.Provider(data), yaml.Parser()); err != nil {
			return fmt.Errorf("failed to parse yaml: %w", err)
		}
		return nil
	})
}

func load(loadYAML func(*koanf.Koanf) error) (*Config, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if err := loadYAML(k); err != nil {
		return nil, err
	}

	if err := k.Load(envprovider.Provider(".", envprovider.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: envKey,
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.k = k

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// envKey maps NUXUM_SERVER_PORT to server.port. The file path variable is skipped.
func envKey(key, value string) (string, any) {
	if key == EnvConfigFile {
		return "", nil
	}
	key = strings.TrimPrefix(key, EnvPrefix)
	return strings.ReplaceAll(strings.ToLower(key), "_", "."), value
}

func loadDefaults(k *koanf.Koanf) error {
	defaults := map[string]any{
		"app.name":    "nuxum-service",
		"app.version": "v1.0.0",
		"app.env":     EnvDevelopment,

		"server.host":             "0.0.0.0",
		"server.port":             3000,
		"server.prefix":           "",
		"server.bodylimit":        "1M",
		"server.timeout.read":     "15s",
		"server.timeout.write":    "30s",
		"server.timeout.idle":     "60s",
		"server.timeout.shutdown": "10s",
		"server.path.health":      "",

		"log.enabled": true,
		"log.level":   "info",
		"log.pretty":  false,

		"cors.enabled": false,

		"rate.limit": 0,
		"rate.burst": 0,

		"tracing.enabled":  false,
		"tracing.exporter": "stdout",
	}

	return k.Load(confmap.Provider(defaults, "."), nil)
}

// Default returns the built-in defaults without reading files or the environment.
func Default() *Config {
	k := koanf.New(".")
	var cfg Config
	if err := loadDefaults(k); err == nil {
		_ = k.Unmarshal("", &cfg)
	}
	cfg.k = k
	return &cfg
}
