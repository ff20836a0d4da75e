// Package config holds the compile-time configuration the SQL generator and
// dialect renderer read from. It follows an Options/DefaultOptions/Validate
// triad (here Config/DefaultConfig/Validate) rather than a bag of loose
// function parameters.
package config

import "fmt"

// Dialect selects which SQL fragment variants the Dialect Renderer emits.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectMySQL    Dialect = "mysql"
	DialectOracle   Dialect = "oracle"
)

// Normalize maps any unrecognized dialect value to the default, per §4.5:
// "Unknown value is treated as default."
func (d Dialect) Normalize() Dialect {
	switch d {
	case DialectMySQL, DialectOracle, DialectPostgres:
		return d
	default:
		return DialectPostgres
	}
}

// Config is the per-compile configuration.
type Config struct {
	Username             string
	Database             Dialect
	DefaultNumberOfRows  uint16
	AdminMode            bool
	ValidateGeneratedSQL bool
}

// DefaultConfig returns the configuration new callers should start from.
func DefaultConfig() *Config {
	return &Config{
		Database:             DialectPostgres,
		DefaultNumberOfRows:  16,
		AdminMode:            false,
		ValidateGeneratedSQL: true,
	}
}

// Validate rejects out-of-range option values before a compile begins.
func (c *Config) Validate() error {
	if c.DefaultNumberOfRows == 0 {
		return fmt.Errorf("default_number_of_rows must be greater than zero")
	}

	if !c.AdminMode && c.Username == "" {
		return fmt.Errorf("username is required when admin_mode is false")
	}

	return nil
}

// MinPermission returns the permission-level floor the generator's
// permission predicate compares access_type_id against.
func (c *Config) MinPermission() int {
	if c.AdminMode {
		return 1000
	}

	return 1050
}
