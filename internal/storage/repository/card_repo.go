package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tbarker-dev/deckbox/internal/storage/models"
)

// CardRepository handles database operations for catalogue cards.
type CardRepository interface {
	// Insert adds a card to the catalogue and assigns its id.
	Insert(ctx context.Context, card *models.Card) error

	// InsertTx adds a card within an existing transaction. Used by the bulk
	// importer to batch inserts.
	InsertTx(ctx context.Context, tx *sql.Tx, card *models.Card) error

	// Update replaces an existing card row. No-op if the id is absent.
	Update(ctx context.Context, card *models.Card) error

	// Delete removes a card from the catalogue.
	Delete(ctx context.Context, id int) error

	// DeleteAll removes every card. Used by the catalogue wipe before a re-import.
	DeleteAll(ctx context.Context) error

	// DeleteAllTx removes every card within an existing transaction.
	DeleteAllTx(ctx context.Context, tx *sql.Tx) error

	// GetByID retrieves a card by its id. Returns ErrNotFound if absent.
	GetByID(ctx context.Context, id int) (*models.Card, error)

	// All retrieves every card ordered by name.
	All(ctx context.Context) ([]*models.Card, error)

	// Count returns the number of cards in the catalogue.
	Count(ctx context.Context) (int, error)

	// Commanders retrieves every card eligible to lead a deck.
	Commanders(ctx context.Context) ([]*models.Card, error)

	// ByColourIdentity retrieves cards whose colour identity matches the
	// given LIKE pattern.
	ByColourIdentity(ctx context.Context, pattern string) ([]*models.Card, error)

	// Colourless retrieves cards with no colour identity.
	Colourless(ctx context.Context) ([]*models.Card, error)

	// RampCards retrieves cards tagged ramp or mana, most popular first.
	RampCards(ctx context.Context) ([]*models.Card, error)

	// DrawCards retrieves cards tagged cardraw, most popular first.
	DrawCards(ctx context.Context) ([]*models.Card, error)

	// RemovalCards retrieves cards tagged removal, ordered by name.
	RemovalCards(ctx context.Context) ([]*models.Card, error)

	// BoardWipes retrieves cards tagged wrath, ordered by name.
	BoardWipes(ctx context.Context) ([]*models.Card, error)
}

// cardRepository is the concrete implementation of CardRepository.
type cardRepository struct {
	db *sql.DB
}

// NewCardRepository creates a new card repository.
func NewCardRepository(db *sql.DB) CardRepository {
	return &cardRepository{db: db}
}

const cardColumns = `id, name, superTypes, types, subtypes, colourIdentity,
	       manaCost, manaValue, rank, alternateLimit, canBeCommander,
	       multiverseID, scryfallID, commanderLegal, categories`

const insertCardQuery = `
	INSERT INTO card (
		name, superTypes, types, subtypes, colourIdentity, manaCost,
		manaValue, rank, alternateLimit, canBeCommander, multiverseID,
		scryfallID, commanderLegal, categories
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

func cardArgs(card *models.Card) []any {
	return []any{
		card.Name,
		card.SuperTypes,
		card.Types,
		card.Subtypes,
		card.ColourIdentity,
		card.ManaCost,
		card.ManaValue,
		card.Rank,
		card.AlternateLimit,
		card.CanBeCommander,
		card.MultiverseID,
		card.ScryfallID,
		card.CommanderLegal,
		card.Categories,
	}
}

// Insert adds a card to the catalogue and assigns its id.
func (r *cardRepository) Insert(ctx context.Context, card *models.Card) error {
	result, err := r.db.ExecContext(ctx, insertCardQuery, cardArgs(card)...)
	if err != nil {
		return fmt.Errorf("failed to insert card %q: %w", card.Name, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted card id: %w", err)
	}
	card.ID = int(id)

	return nil
}

// InsertTx adds a card within an existing transaction.
func (r *cardRepository) InsertTx(ctx context.Context, tx *sql.Tx, card *models.Card) error {
	result, err := tx.ExecContext(ctx, insertCardQuery, cardArgs(card)...)
	if err != nil {
		return fmt.Errorf("failed to insert card %q: %w", card.Name, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted card id: %w", err)
	}
	card.ID = int(id)

	return nil
}

// Update replaces an existing card row.
func (r *cardRepository) Update(ctx context.Context, card *models.Card) error {
	query := `
		UPDATE card
		SET name = ?, superTypes = ?, types = ?, subtypes = ?,
		    colourIdentity = ?, manaCost = ?, manaValue = ?, rank = ?,
		    alternateLimit = ?, canBeCommander = ?, multiverseID = ?,
		    scryfallID = ?, commanderLegal = ?, categories = ?
		WHERE id = ?
	`

	args := append(cardArgs(card), card.ID)
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update card %d: %w", card.ID, err)
	}

	return nil
}

// Delete removes a card from the catalogue.
func (r *cardRepository) Delete(ctx context.Context, id int) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM card WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete card %d: %w", id, err)
	}
	return nil
}

// DeleteAll removes every card from the catalogue.
func (r *cardRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM card`); err != nil {
		return fmt.Errorf("failed to delete all cards: %w", err)
	}
	return nil
}

// DeleteAllTx removes every card within an existing transaction.
func (r *cardRepository) DeleteAllTx(ctx context.Context, tx *sql.Tx) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM card`); err != nil {
		return fmt.Errorf("failed to delete all cards: %w", err)
	}
	return nil
}

// GetByID retrieves a card by its id.
func (r *cardRepository) GetByID(ctx context.Context, id int) (*models.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM card WHERE id = ?`

	card := &models.Card{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&card.ID,
		&card.Name,
		&card.SuperTypes,
		&card.Types,
		&card.Subtypes,
		&card.ColourIdentity,
		&card.ManaCost,
		&card.ManaValue,
		&card.Rank,
		&card.AlternateLimit,
		&card.CanBeCommander,
		&card.MultiverseID,
		&card.ScryfallID,
		&card.CommanderLegal,
		&card.Categories,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("card %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get card %d: %w", id, err)
	}

	return card, nil
}

// All retrieves every card ordered by name.
func (r *cardRepository) All(ctx context.Context) ([]*models.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM card ORDER BY name ASC`
	return r.queryCards(ctx, query)
}

// Count returns the number of cards in the catalogue.
func (r *cardRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM card`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count cards: %w", err)
	}
	return count, nil
}

// Commanders retrieves every card eligible to lead a deck.
func (r *cardRepository) Commanders(ctx context.Context) ([]*models.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM card WHERE canBeCommander = 1 ORDER BY name ASC`
	return r.queryCards(ctx, query)
}

// ByColourIdentity retrieves cards whose colour identity matches the pattern.
func (r *cardRepository) ByColourIdentity(ctx context.Context, pattern string) ([]*models.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM card WHERE colourIdentity LIKE ? ORDER BY name ASC`
	return r.queryCards(ctx, query, pattern)
}

// Colourless retrieves cards with no colour identity.
func (r *cardRepository) Colourless(ctx context.Context) ([]*models.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM card WHERE colourIdentity IS NULL ORDER BY name ASC`
	return r.queryCards(ctx, query)
}

// RampCards retrieves cards tagged ramp or mana, most popular first.
func (r *cardRepository) RampCards(ctx context.Context) ([]*models.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM card
		WHERE categories LIKE '%ramp%' OR categories LIKE '%mana%'
		ORDER BY rank ASC`
	return r.queryCards(ctx, query)
}

// DrawCards retrieves cards tagged cardraw, most popular first.
func (r *cardRepository) DrawCards(ctx context.Context) ([]*models.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM card
		WHERE categories LIKE '%cardraw%'
		ORDER BY rank ASC`
	return r.queryCards(ctx, query)
}

// RemovalCards retrieves cards tagged removal, ordered by name.
func (r *cardRepository) RemovalCards(ctx context.Context) ([]*models.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM card
		WHERE categories LIKE '%removal%'
		ORDER BY name ASC`
	return r.queryCards(ctx, query)
}

// BoardWipes retrieves cards tagged wrath, ordered by name.
func (r *cardRepository) BoardWipes(ctx context.Context) ([]*models.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM card
		WHERE categories LIKE '%wrath%'
		ORDER BY name ASC`
	return r.queryCards(ctx, query)
}

// queryCards runs a multi-row card query and scans the results.
func (r *cardRepository) queryCards(ctx context.Context, query string, args ...any) ([]*models.Card, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query cards: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var cards []*models.Card
	for rows.Next() {
		card := &models.Card{}
		if err := rows.Scan(
			&card.ID,
			&card.Name,
			&card.SuperTypes,
			&card.Types,
			&card.Subtypes,
			&card.ColourIdentity,
			&card.ManaCost,
			&card.ManaValue,
			&card.Rank,
			&card.AlternateLimit,
			&card.CanBeCommander,
			&card.MultiverseID,
			&card.ScryfallID,
			&card.CommanderLegal,
			&card.Categories,
		); err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		cards = append(cards, card)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cards: %w", err)
	}

	return cards, nil
}
