package rxnorm

import (
	"time"

	"github.com/rs/zerolog"
)

// Config controls how a Matcher supervises its enumerations.
//
// Example:
//
//	cfg := rxnorm.DefaultConfig()
//	cfg.HardTimeout = 5 * time.Second
//	cfg.Logger = zerolog.New(os.Stderr)
//	m, err := rxnorm.CompileWithConfig("regexp2", `(a+)+$`, nil, cfg)
type Config struct {
	// HardTimeout bounds one FindAll call regardless of the caller's
	// context. A worker still running when it expires is abandoned.
	// Default: 30s
	HardTimeout time.Duration

	// MaxMatches stops the enumeration after this many matches.
	// Default: 0 (unlimited)
	MaxMatches int

	// Logger receives debug events for each enumeration and warnings for
	// skipped captures and abandoned workers.
	// Default: zerolog.Nop()
	Logger zerolog.Logger
}

// DefaultConfig returns the default supervision settings.
func DefaultConfig() Config {
	return Config{
		HardTimeout: 30 * time.Second,
		MaxMatches:  0,
		Logger:      zerolog.Nop(),
	}
}

// Validate checks if the configuration is valid.
//
// Valid ranges:
//   - HardTimeout: 1ms to 10m
//   - MaxMatches: 0 or more
func (c Config) Validate() error {
	if c.HardTimeout < time.Millisecond || c.HardTimeout > 10*time.Minute {
		return &ConfigError{
			Field:   "HardTimeout",
			Message: "must be between 1ms and 10m",
		}
	}
	if c.MaxMatches < 0 {
		return &ConfigError{
			Field:   "MaxMatches",
			Message: "must not be negative",
		}
	}
	return nil
}

// ConfigError represents an invalid configuration parameter.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "rxnorm: invalid config: " + e.Field + ": " + e.Message
}
