package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/mehedi/streambox/internal/models"
)

// settingsKey addresses the singleton configuration record.
const settingsKey = "config"

type SettingsRepository struct {
	db *sql.DB
}

func NewSettingsRepository(db *sql.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get returns the stored settings decoded over the defaults, so fields the
// stored record never carried keep their default value. found is false when
// no record has been saved yet; that is not an error.
func (r *SettingsRepository) Get(ctx context.Context) (models.AppSettings, bool, error) {
	settings := models.DefaultSettings()

	var raw []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM app_settings WHERE key = $1`, settingsKey).Scan(&raw)
	if err == sql.ErrNoRows {
		return settings, false, nil
	}
	if err != nil {
		return settings, false, err
	}
	if err := json.Unmarshal(raw, &settings); err != nil {
		return settings, false, fmt.Errorf("decode settings: %w", err)
	}
	return settings, true, nil
}

// Set overwrites the singleton record wholesale.
func (r *SettingsRepository) Set(ctx context.Context, s models.AppSettings) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO app_settings (key, value, updated_at) VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = $2, updated_at = NOW()`,
		settingsKey, raw)
	return err
}
