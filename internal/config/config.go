// Copyright (c) 2025 yadem01
// Survey Tool - research survey backend
// This source code is licensed under the MIT license found in the LICENSE file.

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is the full application configuration as loaded from the config
// file, environment variables and command-line flags.
type Config struct {
	Debug    bool           `mapstructure:"debug" yaml:"debug"`
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
	Uploads  UploadsConfig  `mapstructure:"uploads" yaml:"uploads"`
}

// DatabaseConfig selects the backing database. When URL is set it takes
// precedence over Type/DSN and is parsed as a database URL.
type DatabaseConfig struct {
	Type string `mapstructure:"type" yaml:"type"`
	DSN  string `mapstructure:"dsn" yaml:"dsn"`
	URL  string `mapstructure:"url" yaml:"url"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Addr        string   `mapstructure:"addr" yaml:"addr"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
}

// UploadsConfig holds settings for the image upload store.
type UploadsConfig struct {
	Dir      string `mapstructure:"dir" yaml:"dir"`
	MaxBytes int64  `mapstructure:"max_bytes" yaml:"max_bytes"`
}

// Defaults returns the built-in default settings for every config key.
func Defaults() map[string]any {
	return map[string]any{
		"debug":               false,
		"database.type":       "sqlite",
		"database.dsn":        "./surveytool.db",
		"database.url":        "",
		"server.addr":         ":8000",
		"server.cors_origins": []string{"*"},
		"uploads.dir":         "./uploads",
		"uploads.max_bytes":   int64(10 << 20),
	}
}

// GetConfigPath returns the full path for the configuration file.
func GetConfigPath(system bool) (string, error) {
	var configDir string
	var err error

	if system {
		switch runtime.GOOS {
		case "windows":
			configDir = filepath.Join(os.Getenv("ProgramData"), "SurveyTool")
		default: // Linux, macOS, etc.
			configDir = "/etc/surveytool"
		}
	} else {
		configDir, err = os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("could not get user config directory: %w", err)
		}
		configDir = filepath.Join(configDir, "surveytool")
	}

	return filepath.Join(configDir, "surveytool.yaml"), nil
}

// LoadConfig resolves the effective configuration. Precedence, lowest to
// highest: built-in defaults, surveytool.yaml (system dir, user dir, then
// current dir), SURVEYTOOL_* environment variables, command-line flags.
func LoadConfig(cmd *cobra.Command, configFile string) (Config, error) {
	var c Config
	v := viper.New()

	for key, value := range Defaults() {
		v.SetDefault(key, value)
	}

	v.SetConfigName("surveytool")
	v.SetConfigType("yaml")

	// Explicit --config path has the highest precedence for file-based
	// configuration.
	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	if userConfigPath, err := GetConfigPath(false); err == nil {
		v.AddConfigPath(filepath.Dir(userConfigPath))
	}
	if systemConfigPath, err := GetConfigPath(true); err == nil {
		v.AddConfigPath(filepath.Dir(systemConfigPath))
	}
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine; anything else is fatal.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return c, err
		}
	}

	v.AutomaticEnv()
	v.AllowEmptyEnv(true)
	v.SetEnvPrefix("surveytool")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if cmd != nil {
		if err := v.BindPFlags(cmd.Flags()); err != nil {
			return c, err
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}

	// DATABASE_URL is the conventional deployment knob; honor it even
	// without the SURVEYTOOL_ prefix.
	if c.Database.URL == "" {
		if raw := os.Getenv("DATABASE_URL"); raw != "" {
			c.Database.URL = raw
		}
	}

	return c, nil
}

// WriteConfigFile persists the configuration as YAML to the standard
// location for either the system or the current user.
func WriteConfigFile(c *Config, system bool) error {
	path, err := GetConfigPath(system)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("could not create config directory %s: %w", configDir, err)
	}

	return os.WriteFile(path, data, 0600)
}
