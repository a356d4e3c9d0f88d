// Filename: config/config.go
// Package config defines molt's configuration tree and its viper plumbing.
// Precedence is flag > environment > config file > default; the cmd package
// owns the flag bindings, this package owns defaults and validation.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config is the whole application configuration.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger" yaml:"logger"`
	Translate TranslateConfig `mapstructure:"translate" yaml:"translate"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig names the terminal colors for each log level.
type ColorConfig struct {
	Debug string `mapstructure:"debug" yaml:"debug"`
	Info  string `mapstructure:"info" yaml:"info"`
	Warn  string `mapstructure:"warn" yaml:"warn"`
	Error string `mapstructure:"error" yaml:"error"`
}

// TranslateConfig tunes the translation pipeline.
type TranslateConfig struct {
	// Concurrency caps how many functions are hoisted in parallel per file.
	Concurrency int `mapstructure:"concurrency" yaml:"concurrency"`
	// Strict fails a file on its first untranslatable function.
	Strict bool `mapstructure:"strict" yaml:"strict"`
	// Namespace is the namespace generated classes are placed in.
	Namespace string `mapstructure:"namespace" yaml:"namespace"`
	// OutDir receives the generated .cs files.
	OutDir string `mapstructure:"out_dir" yaml:"out_dir"`
	// Report, when set, is the path the JSON run report is written to.
	Report string `mapstructure:"report" yaml:"report"`
}

// SetDefaults initializes default values for every configuration key.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "molt")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 50)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 14)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")

	// -- Translate --
	v.SetDefault("translate.concurrency", runtime.NumCPU())
	v.SetDefault("translate.strict", false)
	v.SetDefault("translate.namespace", "Molt.Generated")
	v.SetDefault("translate.out_dir", ".")
	v.SetDefault("translate.report", "")
}

// NewDefaultConfig builds a configuration holding only the defaults.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := NewConfigFromViper(v)
	if err != nil {
		panic(fmt.Sprintf("default config does not validate: %v", err))
	}
	return cfg
}

// NewConfigFromViper unmarshals and validates the configuration held by v.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// LoadFile reads a config file into v. An explicit path must exist; without
// one, a missing ~/.molt.yaml is not an error.
func LoadFile(v *viper.Viper, explicit string) error {
	if explicit != "" {
		v.SetConfigFile(explicit)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %s: %w", explicit, err)
		}
		return nil
	}

	home, err := homedir.Dir()
	if err != nil {
		return nil
	}
	v.SetConfigFile(filepath.Join(home, ".molt.yaml"))
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.Is(err, fs.ErrNotExist) || errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}
	return nil
}

// Validate checks the configuration for sane values.
func (c *Config) Validate() error {
	switch c.Logger.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logger.format must be console or json, got %q", c.Logger.Format)
	}
	if c.Translate.Concurrency <= 0 {
		return fmt.Errorf("translate.concurrency must be a positive integer")
	}
	if strings.TrimSpace(c.Translate.Namespace) == "" {
		return fmt.Errorf("translate.namespace must not be empty")
	}
	if c.Translate.OutDir == "" {
		return fmt.Errorf("translate.out_dir must not be empty")
	}
	return nil
}
