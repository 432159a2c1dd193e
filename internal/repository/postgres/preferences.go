package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"content-dashboard/internal/dashboard"
	apperrors "content-dashboard/pkg/errors"

	"github.com/jackc/pgx/v5"
)

const (
	errFailedMarshalPreferencesFmt   = "failed to marshal preferences: %w"
	errFailedUnmarshalPreferencesFmt = "failed to unmarshal preferences: %w"
)

// PreferenceRepository stores per-user dashboard preferences as a JSONB
// document keyed by user id. Writes are last-writer-wins upserts.
type PreferenceRepository struct {
	db *DB
}

func NewPreferenceRepository(db *DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

var _ dashboard.PreferenceStore = (*PreferenceRepository)(nil)

func (r *PreferenceRepository) SavePreferences(ctx context.Context, userID string, prefs dashboard.Preferences) error {
	data, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf(errFailedMarshalPreferencesFmt, err)
	}

	query := `
		INSERT INTO user_preferences (user_id, preferences, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id)
		DO UPDATE SET preferences = EXCLUDED.preferences, updated_at = NOW()`

	if _, err := r.db.Pool.Exec(ctx, query, userID, data); err != nil {
		return apperrors.StoreFailure("failed to save preferences", err)
	}
	return nil
}

// LoadPreferences returns nil without error when the user has no saved
// preferences, so callers can fall back to defaults.
func (r *PreferenceRepository) LoadPreferences(ctx context.Context, userID string) (*dashboard.Preferences, error) {
	query := `SELECT preferences FROM user_preferences WHERE user_id = $1`

	var data []byte
	err := r.db.Pool.QueryRow(ctx, query, userID).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, apperrors.StoreFailure("failed to load preferences", err)
	}

	var prefs dashboard.Preferences
	if err := json.Unmarshal(data, &prefs); err != nil {
		return nil, fmt.Errorf(errFailedUnmarshalPreferencesFmt, err)
	}
	return &prefs, nil
}
