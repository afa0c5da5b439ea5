package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port int
	// Storage
	StoreDriver string
	DBPath      string
	DataDir     string
	DatabaseURL string
	StoreKey    string
	// Logging
	LogLevel  string
	LogFormat string
	LogFile   string
	// HTTP
	APIKey string
	// Reminders
	RemindersEnabled bool
}

// fileConfig is the optional config file. Empty values leave the default.
type fileConfig struct {
	Port             int    `yaml:"port" toml:"port"`
	StoreDriver      string `yaml:"store_driver" toml:"store_driver"`
	DBPath           string `yaml:"db_path" toml:"db_path"`
	DataDir          string `yaml:"data_dir" toml:"data_dir"`
	DatabaseURL      string `yaml:"database_url" toml:"database_url"`
	StoreKey         string `yaml:"store_key" toml:"store_key"`
	LogLevel         string `yaml:"log_level" toml:"log_level"`
	LogFormat        string `yaml:"log_format" toml:"log_format"`
	LogFile          string `yaml:"log_file" toml:"log_file"`
	APIKey           string `yaml:"api_key" toml:"api_key"`
	RemindersEnabled *bool  `yaml:"reminders_enabled" toml:"reminders_enabled"`
}

// Load builds the config from defaults, then the file named by
// GETITDONE_CONFIG (YAML or TOML), then environment variables. A .env file
// in the working directory is loaded first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := defaults()

	if path := os.Getenv("GETITDONE_CONFIG"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
	}

	cfg.Port = envInt("PORT", cfg.Port)
	cfg.StoreDriver = envStr("STORE_DRIVER", cfg.StoreDriver)
	cfg.DBPath = envStr("DB_PATH", cfg.DBPath)
	cfg.DataDir = envStr("DATA_DIR", cfg.DataDir)
	cfg.DatabaseURL = envStr("DATABASE_URL", cfg.DatabaseURL)
	cfg.StoreKey = envStr("STORE_KEY", cfg.StoreKey)
	cfg.LogLevel = envStr("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = envStr("LOG_FORMAT", cfg.LogFormat)
	cfg.LogFile = envStr("LOG_FILE", cfg.LogFile)
	cfg.APIKey = envStr("API_KEY", cfg.APIKey)
	cfg.RemindersEnabled = envBool("REMINDERS_ENABLED", cfg.RemindersEnabled)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func defaults() *Config {
	dataDir := defaultDataDir()
	return &Config{
		Port:             8742,
		StoreDriver:      "sqlite",
		DBPath:           filepath.Join(dataDir, "tasks.db"),
		DataDir:          dataDir,
		StoreKey:         "com.tasksOfToday.tasks",
		LogLevel:         "info",
		LogFormat:        "json",
		LogFile:          filepath.Join(dataDir, "getitdone.log"),
		RemindersEnabled: true,
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".getitdone"
	}
	return filepath.Join(home, ".getitdone")
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return fmt.Errorf("parse yaml: %w", err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), &fc); err != nil {
			return fmt.Errorf("parse toml: %w", err)
		}
	default:
		return fmt.Errorf("unsupported config format %q (use .yaml or .toml)", filepath.Ext(path))
	}

	if fc.Port != 0 {
		c.Port = fc.Port
	}
	setStr(&c.StoreDriver, fc.StoreDriver)
	setStr(&c.DBPath, fc.DBPath)
	setStr(&c.DataDir, fc.DataDir)
	setStr(&c.DatabaseURL, fc.DatabaseURL)
	setStr(&c.StoreKey, fc.StoreKey)
	setStr(&c.LogLevel, fc.LogLevel)
	setStr(&c.LogFormat, fc.LogFormat)
	setStr(&c.LogFile, fc.LogFile)
	setStr(&c.APIKey, fc.APIKey)
	if fc.RemindersEnabled != nil {
		c.RemindersEnabled = *fc.RemindersEnabled
	}
	return nil
}

func (c *Config) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port)
	}
	switch c.StoreDriver {
	case "sqlite":
		if c.DBPath == "" {
			return fmt.Errorf("DB_PATH must not be empty")
		}
	case "file":
		if c.DataDir == "" {
			return fmt.Errorf("DATA_DIR must not be empty")
		}
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres driver")
		}
	case "memory":
	default:
		return fmt.Errorf("STORE_DRIVER must be sqlite, file, postgres or memory, got %q", c.StoreDriver)
	}
	if c.StoreKey == "" {
		return fmt.Errorf("STORE_KEY must not be empty")
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.LogFormat)
	}
	return nil
}

func setStr(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}
