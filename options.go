package epsilon

import (
	"fmt"
	"log/slog"

	"github.com/hengadev/errsx"

	"github.com/rawbytedev/epsilon/hashing"
)

// Config holds the settings of one serialize or deserialize call.
type Config struct {
	// Hasher is the hash function used for the structural hashes. Data
	// must be read with the hasher it was written with.
	Hasher hashing.Kind
	// Logger receives diagnostics. Nil means the package logger.
	Logger *slog.Logger
}

// Option configures a call.
type Option func(*Config)

// WithHasher selects the structural hash function.
func WithHasher(k hashing.Kind) Option {
	return func(c *Config) { c.Hasher = k }
}

// WithLogger sends the diagnostics of the call to l.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// Validate returns an errsx.Map keyed by setting name, or nil.
func (c Config) Validate() error {
	var errs errsx.Map
	if !c.Hasher.Valid() {
		errs.Set("hasher", fmt.Errorf("unknown hash kind %q, want one of %v", c.Hasher, hashing.Kinds))
	}
	return errs.AsError()
}

func newConfig(opts []Option) (Config, error) {
	cfg := Config{Hasher: hashing.XXHash}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Logger == nil {
		cfg.Logger = logger()
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
