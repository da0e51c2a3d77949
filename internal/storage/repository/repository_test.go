package repository

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

const testSchema = `
CREATE TABLE card (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    superTypes TEXT NOT NULL DEFAULT '',
    types TEXT NOT NULL DEFAULT '',
    subtypes TEXT NOT NULL DEFAULT '',
    colourIdentity TEXT,
    manaCost TEXT NOT NULL DEFAULT '',
    manaValue INTEGER NOT NULL DEFAULT -1,
    rank INTEGER NOT NULL DEFAULT -1,
    alternateLimit INTEGER NOT NULL DEFAULT 0,
    canBeCommander INTEGER NOT NULL DEFAULT 0,
    multiverseID INTEGER NOT NULL DEFAULT -1,
    scryfallID TEXT NOT NULL DEFAULT '',
    commanderLegal INTEGER NOT NULL DEFAULT 0,
    categories TEXT NOT NULL DEFAULT ''
);

CREATE TABLE deck (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    deckName TEXT NOT NULL DEFAULT '',
    commanderID INTEGER NOT NULL DEFAULT -1
);

CREATE TABLE deckcards (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    deck_ID INTEGER NOT NULL,
    card_ID INTEGER NOT NULL,
    quantity INTEGER NOT NULL DEFAULT 1
);
`

// setupTestDB opens an in-memory database with the storage schema. The
// pool is capped at one connection so every statement sees the same
// in-memory database.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	if _, err := db.Exec(testSchema); err != nil {
		t.Fatalf("failed to create test schema: %v", err)
	}

	return db
}
