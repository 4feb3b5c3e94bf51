// internal/config/config.go
//
// Process configuration.
//
// Values come from the environment (optionally seeded from a .env file in
// the working directory). cmd flags may override Port and RNGSeed.
//
// Environment variables:
//   PORT=5175
//   LOG_LEVEL=info
//   LOG_PRETTY=false
//   CLIENT_ORIGIN=http://localhost:5173
//   SESSION_SECRET=dev-secret-change-me
//   SESSION_TTL=2h
//   PASSPHRASE_HASH=<bcrypt hash>      (empty: no passphrase gate)
//   JOURNAL_DSN=./data/journal.db      ("off": journal disabled)
//   CONTENT_FILE=/path/to/experience.yaml
//   RNG_SEED=0                         (0: random per session)

package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Port           string        `env:"PORT" envDefault:"5175"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`
	LogPretty      bool          `env:"LOG_PRETTY" envDefault:"false"`
	ClientOrigin   string        `env:"CLIENT_ORIGIN" envDefault:"http://localhost:5173"`
	SessionSecret  string        `env:"SESSION_SECRET" envDefault:"dev-secret-change-me"`
	SessionTTL     time.Duration `env:"SESSION_TTL" envDefault:"2h"`
	PassphraseHash string        `env:"PASSPHRASE_HASH"`
	JournalDSN     string        `env:"JOURNAL_DSN" envDefault:"./data/journal.db"`
	ContentFile    string        `env:"CONTENT_FILE"`
	RNGSeed        uint64        `env:"RNG_SEED" envDefault:"0"`
}

// Load reads .env (if present) and parses the environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return Parse()
}

// Parse parses the current environment only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.SessionTTL <= 0 {
		return Config{}, fmt.Errorf("parse env: SESSION_TTL must be positive, got %s", cfg.SessionTTL)
	}
	return cfg, nil
}

// Journal returns the journal DSN, empty when the journal is switched off.
func (c Config) Journal() string {
	if c.JournalDSN == "off" {
		return ""
	}
	return c.JournalDSN
}

// SetupLogging applies LOG_LEVEL and LOG_PRETTY to the global logger.
func (c Config) SetupLogging() {
	if lvl, err := zerolog.ParseLevel(c.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	} else {
		log.Warn().Str("level", c.LogLevel).Msg("unknown log level, keeping default")
	}
	if c.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}
