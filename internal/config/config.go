// Package config provides configuration management for Lumen applications
// using Viper for flexible configuration loading from files, environment
// variables, and command-line flags.
//
// The configuration system supports YAML files and environment variable
// overrides with a LUMEN_ prefix. It manages the preview server, manifest
// locations, rendering defaults, and development options like hot reload.
package config

import (
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Manifests   ManifestsConfig   `yaml:"manifests"`
	Render      RenderConfig      `yaml:"render"`
	Development DevelopmentConfig `yaml:"development"`
	Logging     LoggingConfig     `yaml:"logging"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type ManifestsConfig struct {
	// Paths lists the manifest files registered at startup, in order.
	Paths []string `yaml:"paths"`
}

type RenderConfig struct {
	// Compiler names the compiler used when a definition does not pick one.
	Compiler string `yaml:"compiler"`
	// CacheSize is the default view factory pool bound; -1 is unbounded.
	CacheSize int `yaml:"cache_size"`
}

type DevelopmentConfig struct {
	HotReload  bool `yaml:"hot_reload"`
	DebounceMS int  `yaml:"debounce_ms"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Init wires viper's file discovery and environment overrides. ConfigFile
// overrides discovery when non-empty.
func Init(configFile string) error {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".lumen")
		viper.SetConfigType("yml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
	}

	viper.SetEnvPrefix("LUMEN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is fine; everything has a default.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && configFile != "" {
			return err
		}
	}
	return nil
}

func setDefaults() {
	viper.SetDefault("server.host", "localhost")
	viper.SetDefault("server.port", 8120)
	viper.SetDefault("render.compiler", "")
	viper.SetDefault("render.cache_size", 0)
	viper.SetDefault("development.hot_reload", true)
	viper.SetDefault("development.debounce_ms", 100)
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "text")
}

// Load materializes the current viper state into a validated Config.
func Load() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Viper's Unmarshal honors mapstructure tags, not yaml tags, so read
	// the keyed values directly.
	config.Server.Host = viper.GetString("server.host")
	config.Server.Port = viper.GetInt("server.port")
	config.Manifests.Paths = viper.GetStringSlice("manifests.paths")
	config.Render.Compiler = viper.GetString("render.compiler")
	config.Render.CacheSize = viper.GetInt("render.cache_size")
	config.Development.HotReload = viper.GetBool("development.hot_reload")
	config.Development.DebounceMS = viper.GetInt("development.debounce_ms")
	config.Logging.Level = viper.GetString("logging.level")
	config.Logging.Format = viper.GetString("logging.format")

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}
