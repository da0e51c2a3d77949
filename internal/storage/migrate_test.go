package storage

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

func TestMigrationsUpAndDown(t *testing.T) {
	conn, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "migrate.db"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	mgr, err := NewMigrationManager(conn)
	if err != nil {
		t.Fatalf("NewMigrationManager failed: %v", err)
	}

	version, _, err := mgr.Version()
	if err != nil {
		t.Fatalf("Version failed: %v", err)
	}
	if version != 0 {
		t.Errorf("expected version 0 before migrating, got %d", version)
	}

	if err := mgr.Up(); err != nil {
		t.Fatalf("Up failed: %v", err)
	}

	// Up is idempotent.
	if err := mgr.Up(); err != nil {
		t.Fatalf("second Up failed: %v", err)
	}

	version, dirty, err := mgr.Version()
	if err != nil {
		t.Fatalf("Version failed: %v", err)
	}
	if version == 0 || dirty {
		t.Errorf("expected clean nonzero version, got %d dirty=%v", version, dirty)
	}

	for _, table := range []string{"card", "deck", "deckcards"} {
		var name string
		err := conn.QueryRow(
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
		).Scan(&name)
		if err != nil {
			t.Errorf("expected table %s after Up: %v", table, err)
		}
	}

	if err := mgr.Down(); err != nil {
		t.Fatalf("Down failed: %v", err)
	}

	var count int
	err = conn.QueryRow(
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('card', 'deck', 'deckcards')`,
	).Scan(&count)
	if err != nil {
		t.Fatalf("failed to inspect schema: %v", err)
	}
	if count != 0 {
		t.Errorf("expected tables dropped after Down, got %d remaining", count)
	}
}

func TestOpenAutoMigrate(t *testing.T) {
	config := DefaultConfig(filepath.Join(t.TempDir(), "auto.db"))
	config.AutoMigrate = true

	db, err := Open(config)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer func() { _ = db.Close() }()

	var name string
	err = db.Conn().QueryRow(
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'card'`,
	).Scan(&name)
	if err != nil {
		t.Fatalf("expected migrated schema from Open: %v", err)
	}
}

func TestOpenNilConfig(t *testing.T) {
	if _, err := Open(nil); err == nil {
		t.Fatal("expected error for nil config, got nil")
	}
}
