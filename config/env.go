package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/rustyeddy/rendafixa/apperrors"
)

// Environment variables read by LoadEnv.
const (
	EnvInflation  = "RENDAFIXA_INFLATION"
	EnvInterbank  = "RENDAFIXA_INTERBANK"
	EnvPolicyRate = "RENDAFIXA_POLICY_RATE"
	EnvJournalDB  = "RENDAFIXA_JOURNAL_DB"
)

// LoadEnv applies overrides from the environment and from the given .env
// files (".env" when none is given). Missing files are ignored; variables
// already set in the environment win over the files.
func (c *Config) LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}

	for _, o := range []struct {
		key string
		dst *float64
	}{
		{EnvInflation, &c.Rates.Monthly.Inflation},
		{EnvInterbank, &c.Rates.Monthly.Interbank},
		{EnvPolicyRate, &c.Rates.Monthly.PolicyRate},
	} {
		v := getEnv(o.key, "")
		if v == "" {
			continue
		}
		r, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s=%q: %w", o.key, v, apperrors.ErrConfiguration)
		}
		*o.dst = r
	}

	if db := getEnv(EnvJournalDB, ""); db != "" {
		c.Journal.Type = "sqlite"
		c.Journal.DBPath = db
	}
	return nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
