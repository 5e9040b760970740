package repo

import (
	"context"
	"database/sql"

	"mockline/internal/domain"
)

// GetSettings returns ErrNotFound when the owner never saved settings.
func (r Repo) GetSettings(ctx context.Context, ownerID string) (domain.Settings, error) {
	return r.GetSettingsTx(ctx, nil, ownerID)
}

func (r Repo) GetSettingsTx(ctx context.Context, tx *sql.Tx, ownerID string) (domain.Settings, error) {
	var s domain.Settings
	var chaos int
	err := r.q(tx).QueryRowContext(ctx, `SELECT owner_id,api_base_url,enable_chaos_mode,chaos_level,updated_at FROM settings WHERE owner_id=?`, ownerID).
		Scan(&s.OwnerID, &s.APIBaseURL, &chaos, &s.ChaosLevel, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return domain.Settings{}, ErrNotFound
	}
	if err != nil {
		return domain.Settings{}, err
	}
	s.EnableChaosMode = chaos != 0
	return s, nil
}

func (r Repo) UpsertSettingsTx(ctx context.Context, tx *sql.Tx, s domain.Settings) error {
	_, err := r.q(tx).ExecContext(ctx, `INSERT INTO settings(owner_id,api_base_url,enable_chaos_mode,chaos_level,updated_at) VALUES (?,?,?,?,?)
ON CONFLICT(owner_id) DO UPDATE SET api_base_url=excluded.api_base_url, enable_chaos_mode=excluded.enable_chaos_mode, chaos_level=excluded.chaos_level, updated_at=excluded.updated_at`,
		s.OwnerID, s.APIBaseURL, boolInt(s.EnableChaosMode), s.ChaosLevel, s.UpdatedAt)
	return err
}
