package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// DefaultAPIURL is the origin of a local development server
	DefaultAPIURL = "http://localhost:8000"
	envPrefix     = "STAGECONNECT"
)

// Config holds the application configuration
type Config struct {
	APIURL         string        `mapstructure:"api_url"`
	LogLevel       string        `mapstructure:"log_level"` // debug, info, warn, error
	Output         string        `mapstructure:"output"`    // table, json, yaml
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	MetricsFile    string        `mapstructure:"metrics_file"`
}

// APIBase returns the root every endpoint hangs off
func (c *Config) APIBase() string {
	return strings.TrimRight(c.APIURL, "/") + "/api"
}

// ValidKeys lists the keys accepted by Set
var ValidKeys = []string{"api_url", "log_level", "output", "request_timeout", "metrics_file"}

var AppConfig *Config

// Dir returns the directory holding the config file and the local database.
// STAGECONNECT_HOME overrides the default ~/.stageconnect.
func Dir() (string, error) {
	if dir := os.Getenv(envPrefix + "_HOME"); dir != "" {
		return dir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".stageconnect"), nil
}

// Initialize loads or creates the configuration file. Values from a .env
// file in the working directory and STAGECONNECT_* environment variables
// take precedence over the file.
func Initialize() error {
	// a missing .env is the normal case
	_ = godotenv.Load()

	configDir, err := Dir()
	if err != nil {
		return err
	}
	configFile := filepath.Join(configDir, "config.yaml")

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		if err := createDefaultConfig(configFile); err != nil {
			return err
		}
	}

	viper.SetConfigFile(configFile)
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("api_url", DefaultAPIURL)
	viper.SetDefault("log_level", "warn")
	viper.SetDefault("output", "table")
	viper.SetDefault("request_timeout", time.Duration(0))
	viper.SetDefault("metrics_file", "")

	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return err
	}
	AppConfig = cfg
	return nil
}

func (c *Config) validate() error {
	if !strings.HasPrefix(c.APIURL, "http://") && !strings.HasPrefix(c.APIURL, "https://") {
		return fmt.Errorf("api_url must start with http:// or https://, got %q", c.APIURL)
	}
	switch c.Output {
	case "table", "json", "yaml":
	default:
		return fmt.Errorf("output must be one of table, json, yaml, got %q", c.Output)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request_timeout must not be negative")
	}
	return nil
}

// createDefaultConfig creates a default config file
func createDefaultConfig(path string) error {
	defaultConfig := `# StageConnect CLI configuration
# Origin of the StageConnect server; endpoints live under /api
api_url: ` + DefaultAPIURL + `

# debug, info, warn, error
log_level: warn

# Default output of list commands: table, json, yaml
output: table

# 0 waits as long as the transport allows (e.g. 30s)
request_timeout: 0

# When set, client metrics are written here in Prometheus text format
metrics_file: ""
`
	return os.WriteFile(path, []byte(defaultConfig), 0600)
}

// fileOnly reads the config file into its own viper instance, without the
// environment and .env layers of the global one.
func fileOnly() (*viper.Viper, error) {
	path := GetConfigPath()
	if path == "" {
		return nil, fmt.Errorf("failed to locate config file")
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}
		if err := createDefaultConfig(path); err != nil {
			return nil, err
		}
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return v, nil
}

// Set updates a configuration value in the config file. Environment
// overrides are left out of the file.
func Set(key, value string) error {
	v, err := fileOnly()
	if err != nil {
		return err
	}
	v.Set(key, value)
	return v.WriteConfig()
}

// FileValue returns the value stored in the config file for key
func FileValue(key string) (string, error) {
	v, err := fileOnly()
	if err != nil {
		return "", err
	}
	return v.GetString(key), nil
}

// IsValidKey reports whether key can be changed with Set
func IsValidKey(key string) bool {
	for _, k := range ValidKeys {
		if k == key {
			return true
		}
	}
	return false
}

// GetConfigPath returns the path to the config file
func GetConfigPath() string {
	dir, err := Dir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}
