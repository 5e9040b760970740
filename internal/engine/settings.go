package engine

import (
	"context"
	"errors"
	"strings"

	"mockline/internal/domain"
	"mockline/internal/engine/auth"
	"mockline/internal/events"
	"mockline/internal/repo"
)

// DefaultChaosLevel applies to owners who never saved settings.
const DefaultChaosLevel = 50

// SettingsInput holds the fields to merge into stored settings.
type SettingsInput struct {
	APIBaseURL      *string
	EnableChaosMode *bool
	ChaosLevel      *int
}

// DefaultSettings returns the settings of an owner with no stored record.
func DefaultSettings(ownerID string) domain.Settings {
	return domain.Settings{OwnerID: ownerID, ChaosLevel: DefaultChaosLevel}
}

// LoadSettings returns the owner's settings, or the defaults when none
// were saved.
func (e Engine) LoadSettings(ctx context.Context, actorID string) (domain.Settings, error) {
	if err := auth.RequireActor(actorID); err != nil {
		return domain.Settings{}, err
	}
	s, err := e.Repo.GetSettings(ctx, actorID)
	if errors.Is(err, repo.ErrNotFound) {
		return DefaultSettings(actorID), nil
	}
	return s, err
}

// SaveSettings merges in over the stored settings and upserts the result.
func (e Engine) SaveSettings(ctx context.Context, actorID string, in SettingsInput) (domain.Settings, error) {
	if err := auth.RequireActor(actorID); err != nil {
		return domain.Settings{}, err
	}
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Settings{}, err
	}
	defer tx.Rollback()
	s, err := e.Repo.GetSettingsTx(ctx, tx, actorID)
	if errors.Is(err, repo.ErrNotFound) {
		s = DefaultSettings(actorID)
	} else if err != nil {
		return domain.Settings{}, err
	}
	if in.APIBaseURL != nil {
		s.APIBaseURL = strings.TrimSpace(*in.APIBaseURL)
	}
	if in.EnableChaosMode != nil {
		s.EnableChaosMode = *in.EnableChaosMode
	}
	if in.ChaosLevel != nil {
		if *in.ChaosLevel < 0 || *in.ChaosLevel > 100 {
			return domain.Settings{}, ValidationError{Field: "chaosLevel", Message: "must be between 0 and 100"}
		}
		s.ChaosLevel = *in.ChaosLevel
	}
	s.UpdatedAt = e.timestamp()
	if err := e.Repo.UpsertSettingsTx(ctx, tx, s); err != nil {
		return domain.Settings{}, err
	}
	if err := e.Events.Append(ctx, tx, events.SettingsSaved, "settings", actorID, actorID, events.EventPayload{
		"enable_chaos_mode": s.EnableChaosMode,
		"chaos_level":       s.ChaosLevel,
	}); err != nil {
		return domain.Settings{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Settings{}, err
	}
	return s, nil
}
