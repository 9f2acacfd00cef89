// Why this file: ./config/config.go
// This centralizes all application configuration: database paths, cache
// behavior, search provider credentials, and logging. Defaults make the agent
// runnable with zero setup; a yaml file or environment variables override them.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Database DatabaseConfig `mapstructure:"database"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Search   SearchConfig   `mapstructure:"search"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// AppConfig holds application settings
type AppConfig struct {
	Name        string        `mapstructure:"name"`
	Version     string        `mapstructure:"version"`
	ToolTimeout time.Duration `mapstructure:"tool_timeout"`
}

// DatabaseConfig holds paths for the app database and the domain databases
type DatabaseConfig struct {
	Path            string `mapstructure:"path"`
	InstitutionsDB  string `mapstructure:"institutions_db"`
	HospitalsDB     string `mapstructure:"hospitals_db"`
	RestaurantsDB   string `mapstructure:"restaurants_db"`
	WatchInterval   string `mapstructure:"watch_interval"`
	EnableWatcher   bool   `mapstructure:"enable_watcher"`
	SeedOnFirstRun  bool   `mapstructure:"seed_on_first_run"`
}

// CacheConfig holds result-cache settings
type CacheConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	TTL           time.Duration `mapstructure:"ttl"`
	MaxEntries    int           `mapstructure:"max_entries"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
	Persistent    bool          `mapstructure:"persistent"`
}

// SearchConfig holds the web-search provider settings
type SearchConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level     string `mapstructure:"level"`
	EnableLog bool   `mapstructure:"enable_log"`
	LogDir    string `mapstructure:"log_dir"`
}

// Load loads configuration from environment and files
func Load() (*Config, error) {
	// Set defaults
	viper.SetDefault("app.name", "DeshQ Knowledge Agent")
	viper.SetDefault("app.version", "1.0.0")
	viper.SetDefault("app.tool_timeout", "30s")

	viper.SetDefault("database.path", "storage/deshq.db")
	viper.SetDefault("database.institutions_db", "storage/institutions.db")
	viper.SetDefault("database.hospitals_db", "storage/hospitals.db")
	viper.SetDefault("database.restaurants_db", "storage/restaurants.db")
	viper.SetDefault("database.enable_watcher", true)
	viper.SetDefault("database.seed_on_first_run", true)

	viper.SetDefault("cache.enabled", true)
	viper.SetDefault("cache.ttl", "1h")
	viper.SetDefault("cache.max_entries", 1000)
	viper.SetDefault("cache.sweep_interval", "5m")
	viper.SetDefault("cache.persistent", true)

	viper.SetDefault("search.model", "gpt-4o-mini")

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.enable_log", true)
	viper.SetDefault("logging.log_dir", "./logs")

	// Bind environment variables
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read from environment
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		viper.Set("search.api_key", apiKey)
	}
	if model := os.Getenv("SEARCH_MODEL"); model != "" {
		viper.Set("search.model", model)
	}

	// Try to read config file
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) validate() error {
	if c.Cache.MaxEntries <= 0 {
		return fmt.Errorf("cache.max_entries must be positive, got %d", c.Cache.MaxEntries)
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive, got %s", c.Cache.TTL)
	}
	if c.App.ToolTimeout <= 0 {
		return fmt.Errorf("app.tool_timeout must be positive, got %s", c.App.ToolTimeout)
	}
	return nil
}

// DomainDBPaths maps each domain tool name to its database file path.
func (c *Config) DomainDBPaths() map[string]string {
	return map[string]string{
		"institutions": c.Database.InstitutionsDB,
		"hospitals":    c.Database.HospitalsDB,
		"restaurants":  c.Database.RestaurantsDB,
	}
}
