package engine

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"mockline/internal/domain"
	"mockline/internal/engine/auth"
	"mockline/internal/events"
	"mockline/internal/repo"
)

const defaultTemplate = "{}"

// MaxDelayMs caps the configured delay at 24 hours.
const MaxDelayMs = int(24 * time.Hour / time.Millisecond)

// bodylessStatuses cannot carry the JSON document a mock always answers with.
var bodylessStatuses = map[int]bool{
	http.StatusNoContent:    true,
	http.StatusResetContent: true,
	http.StatusNotModified:  true,
}

// ValidationError reports a rejected field value.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// MockInput carries the writable fields of a mock. Nil fields are left
// unchanged on update and defaulted on create.
type MockInput struct {
	Endpoint     *string
	Method       *string
	StatusCode   *int
	DelayMs      *int
	ChaosEnabled *bool
	ChaosLevel   *int
	Template     *string
}

var allowedMethods = map[string]bool{
	http.MethodGet: true, http.MethodPost: true, http.MethodPut: true, http.MethodPatch: true,
	http.MethodDelete: true, http.MethodHead: true, http.MethodOptions: true,
}

func (in MockInput) apply(m *domain.MockDefinition) []string {
	var changed []string
	if in.Endpoint != nil {
		m.Endpoint = strings.TrimSpace(*in.Endpoint)
		changed = append(changed, "endpoint")
	}
	if in.Method != nil {
		m.Method = strings.ToUpper(strings.TrimSpace(*in.Method))
		changed = append(changed, "method")
	}
	if in.StatusCode != nil {
		m.StatusCode = *in.StatusCode
		changed = append(changed, "statusCode")
	}
	if in.DelayMs != nil {
		m.DelayMs = *in.DelayMs
		changed = append(changed, "delay")
	}
	if in.ChaosEnabled != nil {
		m.ChaosEnabled = *in.ChaosEnabled
		changed = append(changed, "chaosMode")
	}
	if in.ChaosLevel != nil {
		m.ChaosLevel = *in.ChaosLevel
		changed = append(changed, "chaosLevel")
	}
	if in.Template != nil {
		m.Template = *in.Template
		changed = append(changed, "template")
	}
	return changed
}

func validateMock(m domain.MockDefinition) error {
	if !allowedMethods[m.Method] {
		return ValidationError{Field: "method", Message: fmt.Sprintf("unsupported method %q", m.Method)}
	}
	if m.StatusCode < 200 || m.StatusCode > 599 {
		return ValidationError{Field: "statusCode", Message: "must be between 200 and 599"}
	}
	if bodylessStatuses[m.StatusCode] {
		return ValidationError{Field: "statusCode", Message: fmt.Sprintf("%d responses have no body", m.StatusCode)}
	}
	if m.DelayMs < 0 || m.DelayMs > MaxDelayMs {
		return ValidationError{Field: "delay", Message: fmt.Sprintf("must be between 0 and %d", MaxDelayMs)}
	}
	if m.ChaosLevel < 0 || m.ChaosLevel > 100 {
		return ValidationError{Field: "chaosLevel", Message: "must be between 0 and 100"}
	}
	return nil
}

// CreateMock stores a new mock owned by actorID. Chaos fields left unset are
// taken from the owner's settings.
func (e Engine) CreateMock(ctx context.Context, actorID string, in MockInput) (domain.MockDefinition, error) {
	if err := auth.RequireActor(actorID); err != nil {
		return domain.MockDefinition{}, err
	}
	settings, err := e.LoadSettings(ctx, actorID)
	if err != nil {
		return domain.MockDefinition{}, err
	}
	now := e.timestamp()
	m := domain.MockDefinition{
		ID:           uuid.NewString(),
		MockID:       uuid.NewString(),
		OwnerID:      actorID,
		Method:       http.MethodGet,
		StatusCode:   http.StatusOK,
		ChaosEnabled: settings.EnableChaosMode,
		ChaosLevel:   settings.ChaosLevel,
		Template:     defaultTemplate,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	in.apply(&m)
	if err := validateMock(m); err != nil {
		return domain.MockDefinition{}, err
	}

	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.MockDefinition{}, err
	}
	defer tx.Rollback()
	if err := e.Repo.InsertMockTx(ctx, tx, m); err != nil {
		return domain.MockDefinition{}, fmt.Errorf("insert mock: %w", err)
	}
	if err := e.Events.Append(ctx, tx, events.MockCreated, "mock", m.ID, actorID, events.EventPayload{
		"mock_id":     m.MockID,
		"endpoint":    m.Endpoint,
		"method":      m.Method,
		"status_code": m.StatusCode,
	}); err != nil {
		return domain.MockDefinition{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.MockDefinition{}, err
	}
	e.log().Debugw("mock created", "id", m.ID, "mock_id", m.MockID, "owner", actorID)
	return m, nil
}

// GetMock returns a mock by internal id. The checks run in order:
// unauthenticated, not found, not owner.
func (e Engine) GetMock(ctx context.Context, actorID, id string) (domain.MockDefinition, error) {
	if err := auth.RequireActor(actorID); err != nil {
		return domain.MockDefinition{}, err
	}
	m, err := e.Repo.GetMock(ctx, id)
	if err != nil {
		return domain.MockDefinition{}, err
	}
	if err := auth.RequireOwner(actorID, m.OwnerID, "mock", id); err != nil {
		return domain.MockDefinition{}, err
	}
	return m, nil
}

// ListMocks returns the caller's mocks, newest first.
func (e Engine) ListMocks(ctx context.Context, actorID string) ([]domain.MockDefinition, error) {
	if err := auth.RequireActor(actorID); err != nil {
		return nil, err
	}
	return e.Repo.ListMocksByOwner(ctx, actorID)
}

// UpdateMock applies the non-nil fields of in. The public mock id never
// changes. Concurrent updates are last writer wins.
func (e Engine) UpdateMock(ctx context.Context, actorID, id string, in MockInput) (domain.MockDefinition, error) {
	if err := auth.RequireActor(actorID); err != nil {
		return domain.MockDefinition{}, err
	}
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.MockDefinition{}, err
	}
	defer tx.Rollback()
	m, err := e.Repo.GetMockTx(ctx, tx, id)
	if err != nil {
		return domain.MockDefinition{}, err
	}
	if err := auth.RequireOwner(actorID, m.OwnerID, "mock", id); err != nil {
		return domain.MockDefinition{}, err
	}
	changed := in.apply(&m)
	if err := validateMock(m); err != nil {
		return domain.MockDefinition{}, err
	}
	m.UpdatedAt = e.timestamp()
	if err := e.Repo.UpdateMockTx(ctx, tx, m); err != nil {
		return domain.MockDefinition{}, fmt.Errorf("update mock: %w", err)
	}
	if err := e.Events.Append(ctx, tx, events.MockUpdated, "mock", m.ID, actorID, events.EventPayload{
		"mock_id": m.MockID,
		"fields":  changed,
	}); err != nil {
		return domain.MockDefinition{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.MockDefinition{}, err
	}
	return m, nil
}

// DeleteMock removes a mock owned by actorID.
func (e Engine) DeleteMock(ctx context.Context, actorID, id string) error {
	if err := auth.RequireActor(actorID); err != nil {
		return err
	}
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	m, err := e.Repo.GetMockTx(ctx, tx, id)
	if err != nil {
		return err
	}
	if err := auth.RequireOwner(actorID, m.OwnerID, "mock", id); err != nil {
		return err
	}
	if err := e.Repo.DeleteMockTx(ctx, tx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return err
		}
		return fmt.Errorf("delete mock: %w", err)
	}
	if err := e.Events.Append(ctx, tx, events.MockDeleted, "mock", m.ID, actorID, events.EventPayload{"mock_id": m.MockID}); err != nil {
		return err
	}
	return tx.Commit()
}
