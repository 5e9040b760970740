package migrate_test

import (
	"context"
	"testing"

	"mockline/internal/db"
	"mockline/internal/migrate"
)

func TestMigrateIsIdempotent(t *testing.T) {
	conn, err := db.Open(db.Config{Workspace: t.TempDir()})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer conn.Close()
	ctx := context.Background()
	first, err := migrate.MigrateContext(ctx, conn)
	if err != nil {
		t.Fatalf("first migrate: %v", err)
	}
	if first < 1 {
		t.Fatalf("expected schema version >= 1, got %d", first)
	}
	second, err := migrate.MigrateContext(ctx, conn)
	if err != nil {
		t.Fatalf("second migrate: %v", err)
	}
	if second != first {
		t.Fatalf("version changed on re-run: %d -> %d", first, second)
	}
	for _, table := range []string{"mocks", "settings", "api_keys", "events"} {
		var name string
		if err := conn.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name); err != nil {
			t.Fatalf("table %s missing: %v", table, err)
		}
	}
}
