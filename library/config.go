package library

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the runtime settings of the library.
type Config struct {
	// DBPath is the single file backing the durable store.
	DBPath string `env:"LIBRARY_DB" envDefault:"library.db"`

	// LoanPeriodDays is how long a copy may stay out before fines accrue.
	LoanPeriodDays int `env:"LIBRARY_LOAN_DAYS" envDefault:"14"`

	// FineRatePerDay is charged per whole day a loan is overdue.
	FineRatePerDay int64 `env:"LIBRARY_FINE_RATE" envDefault:"200"`
}

// LoadConfig reads configuration from environment variables, falling back to
// the defaults above.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// LoanPeriod returns the loan period as a duration.
func (c Config) LoanPeriod() time.Duration {
	return time.Duration(c.LoanPeriodDays) * 24 * time.Hour
}
