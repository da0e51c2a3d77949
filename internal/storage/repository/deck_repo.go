package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tbarker-dev/deckbox/internal/storage/models"
)

// DeckRepository handles database operations for decks.
type DeckRepository interface {
	// Insert adds a new deck and assigns its id.
	Insert(ctx context.Context, deck *models.Deck) error

	// Update replaces an existing deck row. No-op if the id is absent.
	Update(ctx context.Context, deck *models.Deck) error

	// Delete removes a deck row. It does not touch the deck's deckcards
	// rows; the service deletes both inside one transaction.
	Delete(ctx context.Context, id int) error

	// DeleteTx removes a deck row within an existing transaction. The
	// service pairs it with DeleteForDeckTx so readers never observe a
	// deck half-deleted.
	DeleteTx(ctx context.Context, tx *sql.Tx, id int) error

	// DeleteAll removes every deck.
	DeleteAll(ctx context.Context) error

	// DeleteAllTx removes every deck within an existing transaction.
	DeleteAllTx(ctx context.Context, tx *sql.Tx) error

	// GetByID retrieves a deck by its id. Returns ErrNotFound if absent.
	GetByID(ctx context.Context, id int) (*models.Deck, error)

	// All retrieves every deck.
	All(ctx context.Context) ([]*models.Deck, error)

	// Latest retrieves the deck with the highest id, the most recently
	// created one. Returns ErrNotFound when no decks exist.
	Latest(ctx context.Context) (*models.Deck, error)
}

// deckRepository is the concrete implementation of DeckRepository.
type deckRepository struct {
	db *sql.DB
}

// NewDeckRepository creates a new deck repository.
func NewDeckRepository(db *sql.DB) DeckRepository {
	return &deckRepository{db: db}
}

// Insert adds a new deck and assigns its id.
func (r *deckRepository) Insert(ctx context.Context, deck *models.Deck) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO deck (deckName, commanderID) VALUES (?, ?)`,
		deck.Name, deck.CommanderID,
	)
	if err != nil {
		return fmt.Errorf("failed to insert deck: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted deck id: %w", err)
	}
	deck.ID = int(id)

	return nil
}

// Update replaces an existing deck row.
func (r *deckRepository) Update(ctx context.Context, deck *models.Deck) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE deck SET deckName = ?, commanderID = ? WHERE id = ?`,
		deck.Name, deck.CommanderID, deck.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update deck %d: %w", deck.ID, err)
	}
	return nil
}

// Delete removes a deck row.
func (r *deckRepository) Delete(ctx context.Context, id int) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM deck WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete deck %d: %w", id, err)
	}
	return nil
}

// DeleteTx removes a deck row within an existing transaction.
func (r *deckRepository) DeleteTx(ctx context.Context, tx *sql.Tx, id int) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM deck WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete deck %d: %w", id, err)
	}
	return nil
}

// DeleteAll removes every deck.
func (r *deckRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM deck`); err != nil {
		return fmt.Errorf("failed to delete all decks: %w", err)
	}
	return nil
}

// DeleteAllTx removes every deck within an existing transaction.
func (r *deckRepository) DeleteAllTx(ctx context.Context, tx *sql.Tx) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM deck`); err != nil {
		return fmt.Errorf("failed to delete all decks: %w", err)
	}
	return nil
}

// GetByID retrieves a deck by its id.
func (r *deckRepository) GetByID(ctx context.Context, id int) (*models.Deck, error) {
	deck := &models.Deck{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, deckName, commanderID FROM deck WHERE id = ?`, id,
	).Scan(&deck.ID, &deck.Name, &deck.CommanderID)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("deck %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get deck %d: %w", id, err)
	}

	return deck, nil
}

// All retrieves every deck.
func (r *deckRepository) All(ctx context.Context) ([]*models.Deck, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, deckName, commanderID FROM deck`)
	if err != nil {
		return nil, fmt.Errorf("failed to list decks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var decks []*models.Deck
	for rows.Next() {
		deck := &models.Deck{}
		if err := rows.Scan(&deck.ID, &deck.Name, &deck.CommanderID); err != nil {
			return nil, fmt.Errorf("failed to scan deck: %w", err)
		}
		decks = append(decks, deck)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate decks: %w", err)
	}

	return decks, nil
}

// Latest retrieves the deck with the highest id.
func (r *deckRepository) Latest(ctx context.Context) (*models.Deck, error) {
	deck := &models.Deck{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, deckName, commanderID FROM deck
		 WHERE id = (SELECT MAX(id) FROM deck)`,
	).Scan(&deck.ID, &deck.Name, &deck.CommanderID)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("latest deck: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest deck: %w", err)
	}

	return deck, nil
}
