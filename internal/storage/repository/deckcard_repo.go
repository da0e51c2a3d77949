package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tbarker-dev/deckbox/internal/storage/models"
)

// DeckCardRepository handles database operations for deckcards join rows.
type DeckCardRepository interface {
	// Insert adds a deckcards row unconditionally. It does not deduplicate;
	// callers must filter out cards already in the deck first.
	Insert(ctx context.Context, dc *models.DeckCards) error

	// ForDeck retrieves every deckcards row for a deck.
	ForDeck(ctx context.Context, deckID int) ([]*models.DeckCards, error)

	// Get retrieves the row for a specific (deck, card) pair.
	// Returns ErrNotFound if the card is not in the deck.
	Get(ctx context.Context, deckID, cardID int) (*models.DeckCards, error)

	// Quantities retrieves the quantity column for a (deck, card) pair.
	Quantities(ctx context.Context, deckID, cardID int) ([]int, error)

	// UpdateQuantity sets the quantity for a (deck, card) pair.
	UpdateQuantity(ctx context.Context, deckID, cardID, quantity int) error

	// RemoveSpecific deletes the row(s) for a (deck, card) pair.
	// No-op if none match.
	RemoveSpecific(ctx context.Context, deckID, cardID int) error

	// DeleteForDeck removes every deckcards row belonging to a deck.
	DeleteForDeck(ctx context.Context, deckID int) error

	// DeleteForDeckTx removes a deck's rows within an existing transaction.
	DeleteForDeckTx(ctx context.Context, tx *sql.Tx, deckID int) error

	// Clean removes rows whose quantity has degraded to zero.
	Clean(ctx context.Context) error

	// DeleteAll removes every deckcards row.
	DeleteAll(ctx context.Context) error

	// DeleteAllTx removes every deckcards row within an existing transaction.
	DeleteAllTx(ctx context.Context, tx *sql.Tx) error
}

// deckCardRepository is the concrete implementation of DeckCardRepository.
type deckCardRepository struct {
	db *sql.DB
}

// NewDeckCardRepository creates a new deckcards repository.
func NewDeckCardRepository(db *sql.DB) DeckCardRepository {
	return &deckCardRepository{db: db}
}

// Insert adds a deckcards row unconditionally.
func (r *deckCardRepository) Insert(ctx context.Context, dc *models.DeckCards) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO deckcards (deck_ID, card_ID, quantity) VALUES (?, ?, ?)`,
		dc.DeckID, dc.CardID, dc.Quantity,
	)
	if err != nil {
		return fmt.Errorf("failed to insert deckcards (deck %d, card %d): %w", dc.DeckID, dc.CardID, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted deckcards id: %w", err)
	}
	dc.ID = int(id)

	return nil
}

// ForDeck retrieves every deckcards row for a deck.
func (r *deckCardRepository) ForDeck(ctx context.Context, deckID int) ([]*models.DeckCards, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, deck_ID, card_ID, quantity FROM deckcards WHERE deck_ID = ?`,
		deckID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query deckcards for deck %d: %w", deckID, err)
	}
	defer func() { _ = rows.Close() }()

	var entries []*models.DeckCards
	for rows.Next() {
		dc := &models.DeckCards{}
		if err := rows.Scan(&dc.ID, &dc.DeckID, &dc.CardID, &dc.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan deckcards: %w", err)
		}
		entries = append(entries, dc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate deckcards: %w", err)
	}

	return entries, nil
}

// Get retrieves the row for a specific (deck, card) pair.
func (r *deckCardRepository) Get(ctx context.Context, deckID, cardID int) (*models.DeckCards, error) {
	dc := &models.DeckCards{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, deck_ID, card_ID, quantity FROM deckcards
		 WHERE deck_ID = ? AND card_ID = ?`,
		deckID, cardID,
	).Scan(&dc.ID, &dc.DeckID, &dc.CardID, &dc.Quantity)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("deckcards (deck %d, card %d): %w", deckID, cardID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get deckcards (deck %d, card %d): %w", deckID, cardID, err)
	}

	return dc, nil
}

// Quantities retrieves the quantity column for a (deck, card) pair.
func (r *deckCardRepository) Quantities(ctx context.Context, deckID, cardID int) ([]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT quantity FROM deckcards WHERE deck_ID = ? AND card_ID = ?`,
		deckID, cardID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query quantities (deck %d, card %d): %w", deckID, cardID, err)
	}
	defer func() { _ = rows.Close() }()

	var quantities []int
	for rows.Next() {
		var q int
		if err := rows.Scan(&q); err != nil {
			return nil, fmt.Errorf("failed to scan quantity: %w", err)
		}
		quantities = append(quantities, q)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate quantities: %w", err)
	}

	return quantities, nil
}

// UpdateQuantity sets the quantity for a (deck, card) pair.
func (r *deckCardRepository) UpdateQuantity(ctx context.Context, deckID, cardID, quantity int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE deckcards SET quantity = ? WHERE deck_ID = ? AND card_ID = ?`,
		quantity, deckID, cardID,
	)
	if err != nil {
		return fmt.Errorf("failed to update quantity (deck %d, card %d): %w", deckID, cardID, err)
	}
	return nil
}

// RemoveSpecific deletes the row(s) for a (deck, card) pair.
func (r *deckCardRepository) RemoveSpecific(ctx context.Context, deckID, cardID int) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM deckcards WHERE deck_ID = ? AND card_ID = ?`,
		deckID, cardID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove deckcards (deck %d, card %d): %w", deckID, cardID, err)
	}
	return nil
}

// DeleteForDeck removes every deckcards row belonging to a deck.
func (r *deckCardRepository) DeleteForDeck(ctx context.Context, deckID int) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM deckcards WHERE deck_ID = ?`, deckID); err != nil {
		return fmt.Errorf("failed to delete deckcards for deck %d: %w", deckID, err)
	}
	return nil
}

// DeleteForDeckTx removes a deck's rows within an existing transaction.
func (r *deckCardRepository) DeleteForDeckTx(ctx context.Context, tx *sql.Tx, deckID int) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM deckcards WHERE deck_ID = ?`, deckID); err != nil {
		return fmt.Errorf("failed to delete deckcards for deck %d: %w", deckID, err)
	}
	return nil
}

// Clean removes rows whose quantity has degraded to zero.
func (r *deckCardRepository) Clean(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM deckcards WHERE quantity = 0`); err != nil {
		return fmt.Errorf("failed to clean zero-quantity deckcards: %w", err)
	}
	return nil
}

// DeleteAll removes every deckcards row.
func (r *deckCardRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM deckcards`); err != nil {
		return fmt.Errorf("failed to delete all deckcards: %w", err)
	}
	return nil
}

// DeleteAllTx removes every deckcards row within an existing transaction.
func (r *deckCardRepository) DeleteAllTx(ctx context.Context, tx *sql.Tx) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM deckcards`); err != nil {
		return fmt.Errorf("failed to delete all deckcards: %w", err)
	}
	return nil
}
