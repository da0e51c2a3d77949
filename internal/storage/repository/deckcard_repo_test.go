package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/tbarker-dev/deckbox/internal/storage/models"
)

func addDeckCard(t *testing.T, repo DeckCardRepository, deckID, cardID, quantity int) *models.DeckCards {
	t.Helper()
	dc := &models.DeckCards{DeckID: deckID, CardID: cardID, Quantity: quantity}
	if err := repo.Insert(context.Background(), dc); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	return dc
}

func TestDeckCardInsertAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDeckCardRepository(db)
	ctx := context.Background()

	dc := addDeckCard(t, repo, 1, 10, 1)
	if dc.ID == 0 {
		t.Fatal("expected Insert to assign an id")
	}

	got, err := repo.Get(ctx, 1, 10)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Quantity != 1 {
		t.Errorf("expected quantity 1, got %d", got.Quantity)
	}
}

func TestDeckCardGetNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDeckCardRepository(db)

	_, err := repo.Get(context.Background(), 1, 999)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeckCardInsertDoesNotDeduplicate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDeckCardRepository(db)
	ctx := context.Background()

	// The row store takes what it is given; duplicate filtering is the
	// caller's responsibility.
	addDeckCard(t, repo, 1, 10, 1)
	addDeckCard(t, repo, 1, 10, 1)

	quantities, err := repo.Quantities(ctx, 1, 10)
	if err != nil {
		t.Fatalf("Quantities failed: %v", err)
	}
	if len(quantities) != 2 {
		t.Errorf("expected 2 rows for the duplicated pair, got %d", len(quantities))
	}
}

func TestDeckCardForDeck(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDeckCardRepository(db)
	ctx := context.Background()

	addDeckCard(t, repo, 1, 10, 1)
	addDeckCard(t, repo, 1, 11, 1)
	addDeckCard(t, repo, 2, 10, 1)

	entries, err := repo.ForDeck(ctx, 1)
	if err != nil {
		t.Fatalf("ForDeck failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries for deck 1, got %d", len(entries))
	}
	for _, entry := range entries {
		if entry.DeckID != 1 {
			t.Errorf("expected deck 1 entries only, got deck %d", entry.DeckID)
		}
	}
}

func TestDeckCardUpdateQuantity(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDeckCardRepository(db)
	ctx := context.Background()

	addDeckCard(t, repo, 1, 10, 1)

	if err := repo.UpdateQuantity(ctx, 1, 10, 4); err != nil {
		t.Fatalf("UpdateQuantity failed: %v", err)
	}

	got, err := repo.Get(ctx, 1, 10)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Quantity != 4 {
		t.Errorf("expected quantity 4, got %d", got.Quantity)
	}
}

func TestDeckCardRemoveSpecific(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDeckCardRepository(db)
	ctx := context.Background()

	addDeckCard(t, repo, 1, 10, 1)
	addDeckCard(t, repo, 1, 11, 1)

	if err := repo.RemoveSpecific(ctx, 1, 10); err != nil {
		t.Fatalf("RemoveSpecific failed: %v", err)
	}

	if _, err := repo.Get(ctx, 1, 10); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for removed pair, got %v", err)
	}
	if _, err := repo.Get(ctx, 1, 11); err != nil {
		t.Errorf("expected other entry untouched, got %v", err)
	}

	// Removing a pair that is not in the deck is a no-op.
	if err := repo.RemoveSpecific(ctx, 1, 999); err != nil {
		t.Errorf("expected no-op removal to succeed, got %v", err)
	}
}

func TestDeckCardDeleteForDeck(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDeckCardRepository(db)
	ctx := context.Background()

	addDeckCard(t, repo, 1, 10, 1)
	addDeckCard(t, repo, 1, 11, 1)
	addDeckCard(t, repo, 2, 10, 1)

	if err := repo.DeleteForDeck(ctx, 1); err != nil {
		t.Fatalf("DeleteForDeck failed: %v", err)
	}

	entries, err := repo.ForDeck(ctx, 1)
	if err != nil {
		t.Fatalf("ForDeck failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected deck 1 emptied, got %d entries", len(entries))
	}

	other, err := repo.ForDeck(ctx, 2)
	if err != nil {
		t.Fatalf("ForDeck failed: %v", err)
	}
	if len(other) != 1 {
		t.Errorf("expected deck 2 untouched, got %d entries", len(other))
	}
}

func TestDeckCardClean(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDeckCardRepository(db)
	ctx := context.Background()

	addDeckCard(t, repo, 1, 10, 0)
	addDeckCard(t, repo, 1, 11, 2)

	if err := repo.Clean(ctx); err != nil {
		t.Fatalf("Clean failed: %v", err)
	}

	if _, err := repo.Get(ctx, 1, 10); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected zero-quantity row removed, got %v", err)
	}
	if _, err := repo.Get(ctx, 1, 11); err != nil {
		t.Errorf("expected positive-quantity row kept, got %v", err)
	}
}

func TestDeckCardDeleteAll(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDeckCardRepository(db)
	ctx := context.Background()

	addDeckCard(t, repo, 1, 10, 1)
	addDeckCard(t, repo, 2, 11, 1)

	if err := repo.DeleteAll(ctx); err != nil {
		t.Fatalf("DeleteAll failed: %v", err)
	}

	for _, deckID := range []int{1, 2} {
		entries, err := repo.ForDeck(ctx, deckID)
		if err != nil {
			t.Fatalf("ForDeck failed: %v", err)
		}
		if len(entries) != 0 {
			t.Errorf("expected deck %d emptied, got %d entries", deckID, len(entries))
		}
	}
}
