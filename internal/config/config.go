package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	DefaultTemplate string        `mapstructure:"default_template"`
	BaseOrigin      string        `mapstructure:"base_origin"` // qualifies asset URLs in rendered documents
	OutputDir       string        `mapstructure:"output_dir"`
	ChromePath      string        `mapstructure:"chrome_path"` // empty uses CHROME_PATH or the system browser
	ExportTimeout   time.Duration `mapstructure:"export_timeout"`
	LogLevel        string        `mapstructure:"log_level"`
	DBPath          string        `mapstructure:"db_path"`
}

var AppConfig *Config

var configDir string

// Keys lists every setting `config set` accepts
var Keys = []string{
	"default_template",
	"base_origin",
	"output_dir",
	"chrome_path",
	"export_timeout",
	"log_level",
	"db_path",
}

// Initialize loads or creates ~/.coverly/config.yaml
func Initialize() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	return InitializeAt(filepath.Join(homeDir, ".coverly"))
}

// InitializeAt loads or creates config.yaml inside dir. Environment
// variables prefixed with COVERLY_ override file values.
func InitializeAt(dir string) error {
	configFile := filepath.Join(dir, "config.yaml")

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		if err := createDefaultConfig(configFile); err != nil {
			return err
		}
	}

	viper.Reset()
	viper.SetConfigFile(configFile)
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("COVERLY")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("default_template", "sleek")
	viper.SetDefault("base_origin", "https://coverly.app")
	viper.SetDefault("output_dir", ".")
	viper.SetDefault("chrome_path", "")
	viper.SetDefault("export_timeout", "60s")
	viper.SetDefault("log_level", "info")
	viper.SetDefault("db_path", filepath.Join(dir, "coverly.db"))

	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(dir, "coverly.db")
	}

	configDir = dir
	AppConfig = cfg
	return nil
}

// createDefaultConfig creates a default config file
func createDefaultConfig(path string) error {
	defaultConfig := `# Coverly Configuration
# Template used when none is chosen: sleek, classic, modern
default_template: sleek

# Origin used for fonts and stylesheets referenced by rendered documents
base_origin: https://coverly.app

# Where exported PDFs are written
output_dir: .

# Path to Chrome/Chromium for PDF export (empty: CHROME_PATH or system default)
chrome_path: ""
export_timeout: 60s

# debug, info, warn, error
log_level: info
`
	return os.WriteFile(path, []byte(defaultConfig), 0600)
}

// IsValidKey reports whether key is a known setting
func IsValidKey(key string) bool {
	for _, k := range Keys {
		if k == key {
			return true
		}
	}
	return false
}

// Set updates a configuration value and reloads AppConfig
func Set(key, value string) error {
	if !IsValidKey(key) {
		keys := append([]string(nil), Keys...)
		sort.Strings(keys)
		return fmt.Errorf("invalid key %q, must be one of: %s", key, strings.Join(keys, ", "))
	}
	if key == "export_timeout" {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid duration %q: %w", value, err)
		}
	}

	viper.Set(key, value)
	if err := viper.WriteConfig(); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return InitializeAt(configDir)
}

// Get retrieves a configuration value
func Get(key string) string {
	return viper.GetString(key)
}

// GetConfigPath returns the path to the config file
func GetConfigPath() string {
	if configDir != "" {
		return filepath.Join(configDir, "config.yaml")
	}
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".coverly", "config.yaml")
}
