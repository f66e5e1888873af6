package config

import "fmt"

// Config holds the environment defaults for the iwpsync command. Command
// line flags override these values.
type Config struct {
	DBPath  string `env:"IWPSYNC_DB" envDefault:"iwpsync.db"`
	Format  string `env:"IWPSYNC_FORMAT" envDefault:"text"`
	Verbose bool   `env:"IWPSYNC_VERBOSE" envDefault:"false"`
}

// Load parses Config from the environment and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field values the env parser cannot.
func (c Config) Validate() error {
	switch c.Format {
	case "text", "json":
	default:
		return fmt.Errorf("IWPSYNC_FORMAT: invalid format %q (must be text or json)", c.Format)
	}
	if c.DBPath == "" {
		return fmt.Errorf("IWPSYNC_DB: empty database path")
	}
	return nil
}
