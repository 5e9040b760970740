package repo

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mockline/internal/db"
	"mockline/internal/domain"
	"mockline/internal/events"
	"mockline/internal/migrate"
)

func setupRepo(t *testing.T) Repo {
	t.Helper()
	conn, err := db.Open(db.Config{Workspace: filepath.Join(t.TempDir(), "ws")})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, migrate.Migrate(conn))
	return Repo{DB: conn}
}

func sampleMock(id, mockID, owner, created string) domain.MockDefinition {
	return domain.MockDefinition{
		ID: id, MockID: mockID, OwnerID: owner,
		Endpoint: "/users", Method: "GET", StatusCode: 200,
		Template:  `{"id":"{{uuid}}"}`,
		CreatedAt: created, UpdatedAt: created,
	}
}

func TestMockRoundTrip(t *testing.T) {
	ctx := context.Background()
	r := setupRepo(t)

	m := sampleMock("m1", "abc12345", "alice", "2024-01-01T00:00:00.000000Z")
	m.ChaosEnabled = true
	m.ChaosLevel = 40
	m.DelayMs = 250
	require.NoError(t, r.InsertMock(ctx, m))

	got, err := r.GetMock(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, m, got)

	got, err = r.GetMockByMockID(ctx, "abc12345")
	require.NoError(t, err)
	assert.Equal(t, "m1", got.ID)

	_, err = r.GetMockByMockID(ctx, "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestMockIDUnique(t *testing.T) {
	ctx := context.Background()
	r := setupRepo(t)
	require.NoError(t, r.InsertMock(ctx, sampleMock("m1", "same", "alice", "2024-01-01T00:00:00.000000Z")))
	err := r.InsertMock(ctx, sampleMock("m2", "same", "bob", "2024-01-01T00:00:00.000000Z"))
	assert.True(t, errors.Is(err, ErrConflict))
}

func TestListMocksByOwnerNewestFirst(t *testing.T) {
	ctx := context.Background()
	r := setupRepo(t)
	require.NoError(t, r.InsertMock(ctx, sampleMock("m1", "a", "alice", "2024-01-01T00:00:00.000000Z")))
	require.NoError(t, r.InsertMock(ctx, sampleMock("m2", "b", "alice", "2024-01-02T00:00:00.000000Z")))
	require.NoError(t, r.InsertMock(ctx, sampleMock("m3", "c", "bob", "2024-01-03T00:00:00.000000Z")))

	list, err := r.ListMocksByOwner(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "m2", list[0].ID)
	assert.Equal(t, "m1", list[1].ID)

	empty, err := r.ListMocksByOwner(ctx, "carol")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	n, err := r.CountMocks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestUpdateAndDeleteMock(t *testing.T) {
	ctx := context.Background()
	r := setupRepo(t)
	m := sampleMock("m1", "a", "alice", "2024-01-01T00:00:00.000000Z")
	require.NoError(t, r.InsertMock(ctx, m))

	m.StatusCode = 404
	m.Template = `[]`
	m.UpdatedAt = "2024-01-05T00:00:00.000000Z"
	require.NoError(t, r.UpdateMockTx(ctx, nil, m))
	got, err := r.GetMock(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, 404, got.StatusCode)
	assert.Equal(t, `[]`, got.Template)
	assert.Equal(t, "2024-01-01T00:00:00.000000Z", got.CreatedAt)

	require.NoError(t, r.DeleteMockTx(ctx, nil, "m1"))
	assert.True(t, errors.Is(r.DeleteMockTx(ctx, nil, "m1"), ErrNotFound))
	assert.True(t, errors.Is(r.UpdateMockTx(ctx, nil, m), ErrNotFound))
}

func TestSettingsUpsert(t *testing.T) {
	ctx := context.Background()
	r := setupRepo(t)

	_, err := r.GetSettings(ctx, "alice")
	assert.True(t, errors.Is(err, ErrNotFound))

	s := domain.Settings{OwnerID: "alice", APIBaseURL: "https://api.test", ChaosLevel: 50, UpdatedAt: "2024-01-01T00:00:00Z"}
	require.NoError(t, r.UpsertSettingsTx(ctx, nil, s))
	s.EnableChaosMode = true
	s.ChaosLevel = 75
	require.NoError(t, r.UpsertSettingsTx(ctx, nil, s))

	got, err := r.GetSettings(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestAPIKeys(t *testing.T) {
	ctx := context.Background()
	r := setupRepo(t)
	key := domain.APIKey{ID: "k1", ActorID: "alice", Name: "ci", KeyHash: HashAPIKey("secret")}
	require.NoError(t, r.InsertAPIKey(ctx, nil, key))

	got, err := r.GetAPIKeyByHash(ctx, HashAPIKey(" secret "))
	require.NoError(t, err)
	assert.Equal(t, "alice", got.ActorID)

	keys, err := r.ListAPIKeys(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, keys, 1)

	assert.True(t, errors.Is(r.DeleteAPIKey(ctx, "k1", "bob"), ErrNotFound))
	require.NoError(t, r.DeleteAPIKey(ctx, "k1", "alice"))
	_, err = r.GetAPIKeyByHash(ctx, HashAPIKey("secret"))
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestEventsQueries(t *testing.T) {
	ctx := context.Background()
	r := setupRepo(t)
	w := events.Writer{DB: r.DB}

	tx, err := r.DB.BeginTx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, w.Append(ctx, tx, events.MockCreated, "mock", "m1", "alice", events.EventPayload{"mock_id": "a"}))
	require.NoError(t, w.Append(ctx, tx, events.MockDeleted, "mock", "m1", "alice", nil))
	require.NoError(t, w.Append(ctx, tx, events.SettingsSaved, "settings", "", "bob", nil))
	require.NoError(t, tx.Commit())

	latest, err := r.LatestEventID(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), latest)

	evs, err := r.LatestEvents(ctx, 10, EventFilter{EntityKind: "mock"})
	require.NoError(t, err)
	require.Len(t, evs, 2)
	assert.Equal(t, events.MockDeleted, evs[0].Type)
	assert.JSONEq(t, `{"mock_id":"a"}`, evs[1].Payload)

	evs, err = r.LatestEvents(ctx, 10, EventFilter{ActorID: "bob"})
	require.NoError(t, err)
	require.Len(t, evs, 1)
	assert.Equal(t, "", evs[0].EntityID)

	after, err := r.EventsAfter(ctx, 10, 1)
	require.NoError(t, err)
	require.Len(t, after, 2)
	assert.Equal(t, int64(2), after[0].ID)
}
