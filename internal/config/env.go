// Package config loads daemon configuration from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap/zapcore"

	"clawid.dev/claw/compliance"
)

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Daemon configures claw-renderd.
type Daemon struct {
	Listen      string `env:"CLAW_RENDERD_LISTEN"         envDefault:"127.0.0.1:7780"`
	LogLevel    string `env:"CLAW_RENDERD_LOG_LEVEL"      envDefault:"info"`
	StrictNames bool   `env:"CLAW_RENDERD_STRICT_NAMES"   envDefault:"false"`
	MaxMsgBytes int    `env:"CLAW_RENDERD_MAX_MSG_BYTES"  envDefault:"4194304"`
	// SignerSeedHex is a 32-byte hex root seed; empty issues unsigned receipts.
	SignerSeedHex string `env:"CLAW_RENDERD_SIGNER_SEED_HEX"`
	SignerRole    string `env:"CLAW_RENDERD_SIGNER_ROLE"    envDefault:"renderd"`
	HashAlg       string `env:"CLAW_RENDERD_HASH_ALG"       envDefault:"sha256"`
}

// LoadDaemon parses Daemon from the environment, applies overrides in order
// and validates the result once. Overrides typically bind command-line flags,
// so a flag can replace an invalid environment value.
func LoadDaemon(overrides ...func(*Daemon) error) (Daemon, error) {
	var cfg Daemon
	if err := ParseEnv(&cfg); err != nil {
		return cfg, err
	}
	for _, o := range overrides {
		if err := o(&cfg); err != nil {
			return cfg, err
		}
	}
	return cfg, cfg.Validate()
}

// Validate checks values env tags cannot express.
func (c Daemon) Validate() error {
	if c.Listen == "" {
		return fmt.Errorf("listen address is required")
	}
	if c.MaxMsgBytes < 0 {
		return fmt.Errorf("max message bytes must not be negative")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	switch c.HashAlg {
	case "sha256", "sha512", "sha3-256":
	default:
		return fmt.Errorf("unsupported hash algorithm %q", c.HashAlg)
	}
	return nil
}

// Level parses LogLevel.
func (c Daemon) Level() (zapcore.Level, error) {
	lvl, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return lvl, fmt.Errorf("log level: %w", err)
	}
	return lvl, nil
}

// Mode maps StrictNames to a compliance mode.
func (c Daemon) Mode() compliance.ComplianceMode {
	if c.StrictNames {
		return compliance.Strict
	}
	return compliance.Permissive
}
