package config

import "time"

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Agent: AgentConfig{
			Name:        "tech-debt-manager",
			Version:     "1.0.0",
			Description: "Technical debt collection service",
		},
		Project: ProjectConfig{
			Root:       ".",
			SourceDir:  "app",
			Include:    []string{"*.php"},
			Exclude:    []string{"vendor/", "node_modules/"},
			Gitignore:  true,
			TestMarker: "Test",
		},
		Concurrency: ConcurrencyConfig{
			MaxParallelDetectors: 1,
		},
		Detectors: DetectorsConfig{
			FailFast: false,
			MissingTests: MissingTestsConfig{
				Enabled: true,
			},
			Duplication: ToolConfig{
				Enabled: true,
				Command: "vendor/bin/phpcpd",
				Args:    []string{"{source}", "--log-json", "php://stdout"},
				Timeout: 5 * time.Minute,
			},
			StaticAnalysis: ToolConfig{
				Enabled: true,
				Command: "vendor/bin/phpstan",
				Args:    []string{"analyse", "{source}", "--error-format=json"},
				Timeout: 5 * time.Minute,
			},
		},
		Server: ServerConfig{
			Address:         ":8080",
			Mode:            "release",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    10 * time.Minute,
			ShutdownTimeout: 15 * time.Second,
			LoginRateLimit:  1,
			LoginBurst:      5,
		},
		Auth: AuthConfig{
			TokenTTL: 24 * time.Hour,
		},
		Client: ClientConfig{
			URL:     "http://localhost:8080",
			Timeout: 10 * time.Minute,
			Retry: RetryConfig{
				MaxAttempts:   3,
				BackoffFactor: 1.5,
				InitialDelay:  100 * time.Millisecond,
				MaxDelay:      5 * time.Second,
				RetryOnStatus: []int{502, 503, 504},
			},
		},
		Output: OutputConfig{
			Formats:   []string{"json"},
			OutputDir: ".",
			Color:     true,
		},
		Logging: LoggingConfig{
			Level:            "info",
			Format:           "text",
			IncludeTimestamp: true,
			IncludeCaller:    false,
		},
	}
}
