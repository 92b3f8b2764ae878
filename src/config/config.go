package config

import "time"

// Config is the root configuration structure
type Config struct {
	Agent       AgentConfig       `yaml:"agent"`
	Project     ProjectConfig     `yaml:"project"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Detectors   DetectorsConfig   `yaml:"detectors"`
	Server      ServerConfig      `yaml:"server"`
	Auth        AuthConfig        `yaml:"auth"`
	Client      ClientConfig      `yaml:"client"`
	Output      OutputConfig      `yaml:"output"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// AgentConfig contains agent metadata
type AgentConfig struct {
	Name        string `yaml:"name" validate:"required"`
	Version     string `yaml:"version"`
	Description string `yaml:"description"`
}

// ProjectConfig describes the codebase being scanned
type ProjectConfig struct {
	Name      string   `yaml:"name"`
	Root      string   `yaml:"root" validate:"required"`
	SourceDir string   `yaml:"source_dir" validate:"required"`
	Include   []string `yaml:"include" validate:"min=1,dive,required"`
	Exclude   []string `yaml:"exclude"` // gitignore syntax
	Gitignore bool     `yaml:"gitignore"`

	// TestMarker is the substring that marks a path as a test file
	TestMarker string `yaml:"test_marker" validate:"required"`
}

// ConcurrencyConfig contains concurrency settings
type ConcurrencyConfig struct {
	MaxParallelDetectors int `yaml:"max_parallel_detectors" validate:"gte=1"`
}

// DetectorsConfig contains settings for all detectors
type DetectorsConfig struct {
	FailFast       bool               `yaml:"fail_fast"`
	MissingTests   MissingTestsConfig `yaml:"missing_tests"`
	Duplication    ToolConfig         `yaml:"duplication"`
	StaticAnalysis ToolConfig         `yaml:"static_analysis"`
}

// MissingTestsConfig contains missing-test detector settings
type MissingTestsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// ToolConfig describes an external analyzer invoked as a subprocess.
// The placeholder {source} in Args is replaced by the project source dir.
type ToolConfig struct {
	Enabled bool          `yaml:"enabled"`
	Command string        `yaml:"command" validate:"required_if=Enabled true"`
	Args    []string      `yaml:"args"`
	Timeout time.Duration `yaml:"timeout" validate:"gte=0"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Address         string        `yaml:"address" validate:"required"`
	Mode            string        `yaml:"mode" validate:"oneof=debug release test"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// LoginRateLimit is the sustained login attempts per second allowed per client IP. 0 disables throttling.
	LoginRateLimit float64 `yaml:"login_rate_limit" validate:"gte=0"`
	LoginBurst     int     `yaml:"login_burst" validate:"gte=0"`
}

// AuthConfig contains API authentication settings
type AuthConfig struct {
	TokenTTL time.Duration `yaml:"token_ttl" validate:"gte=0"`
	Users    []UserConfig  `yaml:"users" validate:"dive"`
}

// UserConfig is an account allowed to log in to the API
type UserConfig struct {
	Name         string `yaml:"name"`
	Email        string `yaml:"email" validate:"required,email"`
	PasswordHash string `yaml:"password_hash" validate:"required"` // bcrypt
}

// ClientConfig contains settings for calls to a remote tech-debt API
type ClientConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
	Retry   RetryConfig   `yaml:"retry"`
}

// RetryConfig contains retry settings for API calls
type RetryConfig struct {
	MaxAttempts   int           `yaml:"max_attempts"`
	BackoffFactor float64       `yaml:"backoff_factor"`
	InitialDelay  time.Duration `yaml:"initial_delay"`
	MaxDelay      time.Duration `yaml:"max_delay"`
	RetryOnStatus []int         `yaml:"retry_on_status"`
}

// OutputConfig contains output settings
type OutputConfig struct {
	Formats     []string `yaml:"formats" validate:"dive,oneof=json markdown md sarif text"`
	OutputDir   string   `yaml:"output_dir"`
	Prioritized bool     `yaml:"prioritized"`
	Color       bool     `yaml:"color"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level            string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Format           string `yaml:"format" validate:"omitempty,oneof=text json"`
	File             string `yaml:"file"`
	IncludeTimestamp bool   `yaml:"include_timestamp"`
	IncludeCaller    bool   `yaml:"include_caller"`
}
