package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/tbarker-dev/deckbox/internal/storage/models"
)

func TestDeckInsertAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDeckRepository(db)
	ctx := context.Background()

	deck := &models.Deck{Name: "Goblins", CommanderID: models.NoCommander}
	if err := repo.Insert(ctx, deck); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if deck.ID == 0 {
		t.Fatal("expected Insert to assign an id")
	}

	got, err := repo.GetByID(ctx, deck.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Name != "Goblins" {
		t.Errorf("expected name 'Goblins', got %q", got.Name)
	}
	if got.HasCommander() {
		t.Error("expected new deck to have no commander")
	}
}

func TestDeckGetByIDNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDeckRepository(db)

	_, err := repo.GetByID(context.Background(), 42)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeckUpdate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDeckRepository(db)
	ctx := context.Background()

	deck := &models.Deck{Name: "", CommanderID: models.NoCommander}
	if err := repo.Insert(ctx, deck); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	deck.Name = "Atraxa Superfriends"
	deck.CommanderID = 17
	if err := repo.Update(ctx, deck); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, err := repo.GetByID(ctx, deck.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Name != "Atraxa Superfriends" || got.CommanderID != 17 {
		t.Errorf("update not applied: %+v", got)
	}
	if !got.HasCommander() {
		t.Error("expected deck to have a commander after update")
	}
}

func TestDeckDelete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDeckRepository(db)
	ctx := context.Background()

	deck := &models.Deck{Name: "Scrap", CommanderID: models.NoCommander}
	if err := repo.Insert(ctx, deck); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := repo.Delete(ctx, deck.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := repo.GetByID(ctx, deck.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestDeckLatestEmpty(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDeckRepository(db)

	_, err := repo.Latest(context.Background())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound with no decks, got %v", err)
	}
}

func TestDeckLatestFollowsInserts(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDeckRepository(db)
	ctx := context.Background()

	// Latest must track the most recent insert across a sequence of
	// creations, since deck creation retrieves its row this way.
	for _, name := range []string{"First", "Second", "Third"} {
		deck := &models.Deck{Name: name, CommanderID: models.NoCommander}
		if err := repo.Insert(ctx, deck); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}

		latest, err := repo.Latest(ctx)
		if err != nil {
			t.Fatalf("Latest failed: %v", err)
		}
		if latest.Name != name {
			t.Errorf("expected latest deck %q, got %q", name, latest.Name)
		}
		if latest.ID != deck.ID {
			t.Errorf("expected latest id %d, got %d", deck.ID, latest.ID)
		}
	}
}

func TestDeckAll(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDeckRepository(db)
	ctx := context.Background()

	for _, name := range []string{"One", "Two"} {
		if err := repo.Insert(ctx, &models.Deck{Name: name, CommanderID: models.NoCommander}); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	decks, err := repo.All(ctx)
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if len(decks) != 2 {
		t.Fatalf("expected 2 decks, got %d", len(decks))
	}
}

func TestDeckDeleteAll(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDeckRepository(db)
	ctx := context.Background()

	if err := repo.Insert(ctx, &models.Deck{Name: "Doomed", CommanderID: models.NoCommander}); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := repo.DeleteAll(ctx); err != nil {
		t.Fatalf("DeleteAll failed: %v", err)
	}

	decks, err := repo.All(ctx)
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if len(decks) != 0 {
		t.Errorf("expected no decks after DeleteAll, got %d", len(decks))
	}
}
