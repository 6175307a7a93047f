package database

import (
	"context"
	"database/sql"
	"fmt"
)

// DefaultPreferences are written on first start.
var DefaultPreferences = map[string]string{
	"ai_provider":          "Anthropic",
	"default_view":         "fx",
	"person_company_pairs": "[]",
}

// SeedDefaults inserts any missing default preference. It never overwrites a
// stored value and is safe to run on every startup.
func SeedDefaults(ctx context.Context, db *sql.DB) error {
	return WithTx(ctx, db, func(tx *sql.Tx) error {
		for k, v := range DefaultPreferences {
			if _, err := tx.ExecContext(ctx,
				`INSERT OR IGNORE INTO preferences(key, value) VALUES (?, ?)`, k, v); err != nil {
				return fmt.Errorf("seed %s: %w", k, err)
			}
		}
		return nil
	})
}
