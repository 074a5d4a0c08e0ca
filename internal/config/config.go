package config

import (
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"
)

// Storage backends understood by CreatePersister.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Output formats for list and stats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
)

var (
	backends = []string{BackendSQLite, BackendFile, BackendRedis, BackendMemory}
	formats  = []string{FormatTable, FormatJSON}
)

// Config holds all configuration options for the task manager
type Config struct {
	Storage     StorageConfig     `yaml:"storage"`
	Validation  ValidationConfig  `yaml:"validation"`
	Display     DisplayConfig     `yaml:"display"`
	Application ApplicationConfig `yaml:"application"`
	Commands    CommandsConfig    `yaml:"commands"`
}

// StorageConfig selects and configures the durable backend
type StorageConfig struct {
	Backend        string        `yaml:"backend" env:"TM_STORAGE_BACKEND"`
	Dir            string        `yaml:"dir" env:"TM_STORAGE_DIR"`
	Filename       string        `yaml:"filename" env:"TM_STORAGE_FILENAME"`
	Key            string        `yaml:"key" env:"TM_STORAGE_KEY"`
	RedisAddr      string        `yaml:"redis_addr" env:"TM_REDIS_ADDR"`
	ReadTimeout    time.Duration `yaml:"read_timeout" env:"TM_STORAGE_READ_TIMEOUT"`
	WriteTimeout   time.Duration `yaml:"write_timeout" env:"TM_STORAGE_WRITE_TIMEOUT"`
	DirPermissions uint32        `yaml:"dir_permissions" env:"TM_STORAGE_DIR_PERMISSIONS"`
}

// ValidationConfig holds validation rules for command input
type ValidationConfig struct {
	TitleMinLength int `yaml:"title_min_length" env:"TM_VALIDATION_TITLE_MIN"`
	TitleMaxLength int `yaml:"title_max_length" env:"TM_VALIDATION_TITLE_MAX"`
	MaxTags        int `yaml:"max_tags" env:"TM_VALIDATION_MAX_TAGS"`
}

// DisplayConfig holds display formatting configuration
type DisplayConfig struct {
	TimeFormat    string `yaml:"time_format" env:"TM_DISPLAY_TIME_FORMAT"`
	RelativeDates bool   `yaml:"relative_dates" env:"TM_DISPLAY_RELATIVE_DATES"`
}

// ApplicationConfig holds application-level configuration
type ApplicationConfig struct {
	Verbose bool `yaml:"verbose" env:"TM_APP_VERBOSE"`
}

// CommandsConfig holds command-specific defaults
type CommandsConfig struct {
	ListDefaultFormat string `yaml:"list_default_format" env:"TM_LIST_DEFAULT_FORMAT"`
}

// NewConfig creates a new configuration with sensible defaults
func NewConfig() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		Storage: StorageConfig{
			Backend:        BackendSQLite,
			Dir:            filepath.Join(homeDir, ".tm"),
			Filename:       "tm.db",
			Key:            "task-manager-storage",
			RedisAddr:      "localhost:6379",
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   5 * time.Second,
			DirPermissions: 0755,
		},
		Validation: ValidationConfig{
			TitleMinLength: 1,
			TitleMaxLength: 255,
			MaxTags:        20,
		},
		Display: DisplayConfig{
			TimeFormat:    "2006-01-02",
			RelativeDates: true,
		},
		Commands: CommandsConfig{
			ListDefaultFormat: FormatTable,
		},
	}
}

// GetDatabasePath returns the full path to the SQLite database file
func (c *Config) GetDatabasePath() string {
	return filepath.Join(c.Storage.Dir, c.Storage.Filename)
}

// LoadFromEnvironment loads configuration from environment variables.
// Unparseable values are ignored and the previous value kept.
func (c *Config) LoadFromEnvironment() error {
	// Storage configuration
	if backend := os.Getenv("TM_STORAGE_BACKEND"); backend != "" {
		c.Storage.Backend = backend
	}
	if dir := os.Getenv("TM_STORAGE_DIR"); dir != "" {
		c.Storage.Dir = dir
	}
	if filename := os.Getenv("TM_STORAGE_FILENAME"); filename != "" {
		c.Storage.Filename = filename
	}
	if key := os.Getenv("TM_STORAGE_KEY"); key != "" {
		c.Storage.Key = key
	}
	if addr := os.Getenv("TM_REDIS_ADDR"); addr != "" {
		c.Storage.RedisAddr = addr
	}
	if timeout := os.Getenv("TM_STORAGE_READ_TIMEOUT"); timeout != "" {
		c.Storage.ReadTimeout = ParseDurationWithFallback(timeout, c.Storage.ReadTimeout)
	}
	if timeout := os.Getenv("TM_STORAGE_WRITE_TIMEOUT"); timeout != "" {
		c.Storage.WriteTimeout = ParseDurationWithFallback(timeout, c.Storage.WriteTimeout)
	}
	if perms := os.Getenv("TM_STORAGE_DIR_PERMISSIONS"); perms != "" {
		c.Storage.DirPermissions = ParseUint32WithFallback(perms, 8, c.Storage.DirPermissions)
	}

	// Validation configuration
	if minLen := os.Getenv("TM_VALIDATION_TITLE_MIN"); minLen != "" {
		c.Validation.TitleMinLength = ParseIntWithFallback(minLen, c.Validation.TitleMinLength)
	}
	if maxLen := os.Getenv("TM_VALIDATION_TITLE_MAX"); maxLen != "" {
		c.Validation.TitleMaxLength = ParseIntWithFallback(maxLen, c.Validation.TitleMaxLength)
	}
	if maxTags := os.Getenv("TM_VALIDATION_MAX_TAGS"); maxTags != "" {
		c.Validation.MaxTags = ParseIntWithFallback(maxTags, c.Validation.MaxTags)
	}

	// Display configuration
	if format := os.Getenv("TM_DISPLAY_TIME_FORMAT"); format != "" {
		c.Display.TimeFormat = format
	}
	if relative := os.Getenv("TM_DISPLAY_RELATIVE_DATES"); relative != "" {
		c.Display.RelativeDates = ParseBoolWithFallback(relative, c.Display.RelativeDates)
	}

	// Application configuration
	if verbose := os.Getenv("TM_APP_VERBOSE"); verbose != "" {
		c.Application.Verbose = ParseBoolWithFallback(verbose, c.Application.Verbose)
	}

	// Commands configuration
	if format := os.Getenv("TM_LIST_DEFAULT_FORMAT"); format != "" {
		c.Commands.ListDefaultFormat = format
	}

	return nil
}

// Validate validates the configuration and returns any errors
func (c *Config) Validate() error {
	// Validate storage configuration
	if !slices.Contains(backends, c.Storage.Backend) {
		return &ConfigError{Field: "storage.backend", Message: "backend must be one of sqlite, file, redis, memory"}
	}
	if c.Storage.Key == "" {
		return &ConfigError{Field: "storage.key", Message: "storage key cannot be empty"}
	}
	if c.Storage.Backend == BackendSQLite || c.Storage.Backend == BackendFile {
		if c.Storage.Dir == "" {
			return &ConfigError{Field: "storage.dir", Message: "storage directory cannot be empty"}
		}
	}
	if c.Storage.Backend == BackendSQLite && c.Storage.Filename == "" {
		return &ConfigError{Field: "storage.filename", Message: "database filename cannot be empty"}
	}
	if c.Storage.Backend == BackendRedis && c.Storage.RedisAddr == "" {
		return &ConfigError{Field: "storage.redis_addr", Message: "redis address cannot be empty"}
	}
	if c.Storage.ReadTimeout <= 0 {
		return &ConfigError{Field: "storage.read_timeout", Message: "read timeout must be positive"}
	}
	if c.Storage.WriteTimeout <= 0 {
		return &ConfigError{Field: "storage.write_timeout", Message: "write timeout must be positive"}
	}

	// Validate validation configuration
	if c.Validation.TitleMinLength < 1 {
		return &ConfigError{Field: "validation.title_min_length", Message: "title minimum length must be at least 1"}
	}
	if c.Validation.TitleMaxLength < c.Validation.TitleMinLength {
		return &ConfigError{Field: "validation.title_max_length", Message: "title maximum length must be greater than minimum length"}
	}
	if c.Validation.MaxTags < 0 {
		return &ConfigError{Field: "validation.max_tags", Message: "max tags cannot be negative"}
	}

	// Validate display configuration
	if c.Display.TimeFormat == "" {
		return &ConfigError{Field: "display.time_format", Message: "time format cannot be empty"}
	}

	// Validate commands configuration
	if !slices.Contains(formats, c.Commands.ListDefaultFormat) {
		return &ConfigError{Field: "commands.list_default_format", Message: "format must be table or json"}
	}

	return nil
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}

// ParseDurationWithFallback parses a duration string with a fallback value
func ParseDurationWithFallback(s string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	return fallback
}

// ParseIntWithFallback parses an integer string with a fallback value
func ParseIntWithFallback(s string, fallback int) int {
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	return fallback
}

// ParseBoolWithFallback parses a boolean string with a fallback value
func ParseBoolWithFallback(s string, fallback bool) bool {
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return fallback
}

// ParseUint32WithFallback parses a uint32 string with a fallback value
func ParseUint32WithFallback(s string, base int, fallback uint32) uint32 {
	if u, err := strconv.ParseUint(s, base, 32); err == nil {
		return uint32(u)
	}
	return fallback
}
