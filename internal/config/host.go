package config

import (
	"github.com/spf13/viper"
)

// HostConfig is the top-level host configuration.
type HostConfig struct {
	ComponentPaths []string   `mapstructure:"component_paths"`
	LogLevel       string     `mapstructure:"log_level"`
	MetricsEnabled bool       `mapstructure:"metrics_enabled"`
	MetricsPort    int        `mapstructure:"metrics_port"`
	Wasm           WasmConfig `mapstructure:"wasm"`
}

// WasmConfig holds Wasm runtime configuration.
type WasmConfig struct {
	// Memory limit per module (in pages, 64KB each).
	MemoryPages uint32 `mapstructure:"memory_pages"`
	// Enable debug info in stack traces.
	Debug bool `mapstructure:"debug"`
	// Compilation cache directory.
	CacheDir string `mapstructure:"cache_dir"`
	// Maximum concurrent instances.
	MaxInstances int `mapstructure:"max_instances"`
	// Invocation timeout (seconds).
	ExecutionTimeout int `mapstructure:"execution_timeout"`
}

// LoadHostConfig loads configuration from an optional file, filling in
// defaults for everything the file omits.
func LoadHostConfig(configPath string) (*HostConfig, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("component_paths", []string{"./components"})
	v.SetDefault("log_level", "info")
	v.SetDefault("metrics_enabled", false)
	v.SetDefault("metrics_port", 9090)

	// Wasm defaults
	v.SetDefault("wasm.memory_pages", 256) // 16MB
	v.SetDefault("wasm.debug", false)
	v.SetDefault("wasm.cache_dir", "")
	v.SetDefault("wasm.max_instances", 100)
	v.SetDefault("wasm.execution_timeout", 30)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	var cfg HostConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
