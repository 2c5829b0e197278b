package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/hpungsan/urlcopy/internal/errors"
)

// Preference is one stored key and its JSON-encoded value.
type Preference struct {
	Key       string
	ValueJSON string
	UpdatedAt int64
}

// GetPreference returns the JSON value stored under key.
// The bool result is false when no row exists.
func GetPreference(ctx context.Context, db *sql.DB, key string) (string, bool, error) {
	var value string
	err := db.QueryRowContext(ctx, `SELECT value_json FROM preferences WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.NewInternal(err)
	}
	return value, true, nil
}

// SetPreference inserts or replaces the JSON value stored under key.
func SetPreference(ctx context.Context, db *sql.DB, key, valueJSON string) error {
	query := `
		INSERT INTO preferences (key, value_json, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value_json = excluded.value_json,
			updated_at = excluded.updated_at
	`
	if _, err := db.ExecContext(ctx, query, key, valueJSON, time.Now().Unix()); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// DeletePreference removes key. Deleting a missing key is not an error.
func DeletePreference(ctx context.Context, db *sql.DB, key string) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM preferences WHERE key = ?`, key); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// ListPreferences returns all stored preferences ordered by key.
func ListPreferences(ctx context.Context, db *sql.DB) ([]Preference, error) {
	rows, err := db.QueryContext(ctx, `SELECT key, value_json, updated_at FROM preferences ORDER BY key`)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var prefs []Preference
	for rows.Next() {
		var p Preference
		if err := rows.Scan(&p.Key, &p.ValueJSON, &p.UpdatedAt); err != nil {
			return nil, errors.NewInternal(err)
		}
		prefs = append(prefs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return prefs, nil
}
