package app

import (
	"context"
	"fmt"

	"github.com/tbarker-dev/deckbox/internal/deckstats"
	"github.com/tbarker-dev/deckbox/internal/storage"
	"github.com/tbarker-dev/deckbox/internal/storage/models"
)

// DeckFacade handles all deck-builder operations for one owning scope.
type DeckFacade struct {
	services *Services
}

// NewDeckFacade creates a new DeckFacade with the given services.
func NewDeckFacade(services *Services) *DeckFacade {
	return &DeckFacade{services: services}
}

// DeckStatistics is everything the graphs and suggestions screens derive
// from a deck's current contents.
type DeckStatistics struct {
	Curve      deckstats.Histogram
	Categories deckstats.CategoryCounts
}

// CreateDeck inserts an empty deck and returns it with its assigned id.
// The insert is awaited before the latest-deck lookup, which is the only
// sequencing the single-writer handshake needs: nothing else creates
// decks concurrently in a single-user library.
func (d *DeckFacade) CreateDeck(ctx context.Context) (*models.Deck, error) {
	deck := &models.Deck{Name: "", CommanderID: models.NoCommander}
	if _, err := d.services.Storage.InsertDeck(deck).Get(ctx); err != nil {
		return nil, fmt.Errorf("failed to create deck: %w", err)
	}

	created, err := d.services.Storage.GetLatestDeck().Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to look up created deck: %w", err)
	}

	return created, nil
}

// Decks returns every deck.
func (d *DeckFacade) Decks(ctx context.Context) ([]*models.Deck, error) {
	return d.services.Storage.AllDecks().Get(ctx)
}

// Deck returns one deck by id.
func (d *DeckFacade) Deck(ctx context.Context, deckID int) (*models.Deck, error) {
	return d.services.Storage.Deck(deckID).Get(ctx)
}

// RenameDeck sets a deck's name.
func (d *DeckFacade) RenameDeck(ctx context.Context, deckID int, name string) error {
	deck, err := d.services.Storage.Deck(deckID).Get(ctx)
	if err != nil {
		return err
	}

	deck.Name = name
	if _, err := d.services.Storage.UpdateDeck(deck).Get(ctx); err != nil {
		return fmt.Errorf("failed to rename deck %d: %w", deckID, err)
	}
	return nil
}

// SetCommander assigns a deck's commander. A deck that still has no name
// takes the commander's name.
func (d *DeckFacade) SetCommander(ctx context.Context, deckID, cardID int) error {
	deck, err := d.services.Storage.Deck(deckID).Get(ctx)
	if err != nil {
		return err
	}

	commander, err := d.services.Storage.CardByID(cardID).Get(ctx)
	if err != nil {
		return err
	}

	deck.CommanderID = commander.ID
	if deck.Name == "" {
		deck.Name = commander.Name
	}

	if _, err := d.services.Storage.UpdateDeck(deck).Get(ctx); err != nil {
		return fmt.Errorf("failed to set commander for deck %d: %w", deckID, err)
	}
	return nil
}

// DeleteDeck removes a deck and its contents.
func (d *DeckFacade) DeleteDeck(ctx context.Context, deckID int) error {
	_, err := d.services.Storage.DeleteDeck(deckID).Get(ctx)
	return err
}

// AddCardsToDeck adds the chosen cards to a deck with quantity 1 each,
// filtering out cards already present. Returns the cards actually added.
func (d *DeckFacade) AddCardsToDeck(ctx context.Context, deckID int, chosen []*models.Card) ([]*models.Card, error) {
	current, err := d.services.Storage.DeckCardsFor(deckID).Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read deck %d contents: %w", deckID, err)
	}

	fresh := deckstats.FilterNewCards(chosen, current)
	for _, card := range fresh {
		if _, err := d.services.Storage.InsertDeckCards(deckID, card.ID, 1).Get(ctx); err != nil {
			return nil, fmt.Errorf("failed to add card %d to deck %d: %w", card.ID, deckID, err)
		}
	}

	return fresh, nil
}

// RemoveCard takes a card out of a deck.
func (d *DeckFacade) RemoveCard(ctx context.Context, deckID, cardID int) error {
	_, err := d.services.Storage.RemoveSpecificDeckCards(deckID, cardID).Get(ctx)
	return err
}

// SetQuantity changes how many copies of a card a deck runs. Setting zero
// removes the row via the cleanup sweep.
func (d *DeckFacade) SetQuantity(ctx context.Context, deckID, cardID, quantity int) error {
	if _, err := d.services.Storage.SetDeckCardQuantity(deckID, cardID, quantity).Get(ctx); err != nil {
		return err
	}
	if quantity == 0 {
		if _, err := d.services.Storage.CleanDeckCards().Get(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Contents returns a deck's join rows.
func (d *DeckFacade) Contents(ctx context.Context, deckID int) ([]*models.DeckCards, error) {
	return d.services.Storage.DeckCardsFor(deckID).Get(ctx)
}

// LiveContents returns the live subscription the content list, counters
// and histogram views share. The caller owns the handle and must Cancel it.
func (d *DeckFacade) LiveContents(deckID int) *storage.Live[[]*models.DeckCards] {
	return d.services.Storage.LiveDeckCards(deckID)
}

// LiveDeck returns a live view of one deck row.
func (d *DeckFacade) LiveDeck(deckID int) *storage.Live[*models.Deck] {
	return d.services.Storage.LiveDeck(deckID)
}

// Statistics derives the mana curve and category counters from a deck's
// current contents.
func (d *DeckFacade) Statistics(ctx context.Context, deckID int) (*DeckStatistics, error) {
	entries, err := d.services.Storage.DeckCardsFor(deckID).Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read deck %d contents: %w", deckID, err)
	}

	cards, err := d.services.Storage.AllCards().Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalogue: %w", err)
	}

	lookup := deckstats.LookupFrom(cards)
	return &DeckStatistics{
		Curve:      deckstats.ManaCurve(entries, lookup),
		Categories: deckstats.CountCategories(entries, lookup),
	}, nil
}
