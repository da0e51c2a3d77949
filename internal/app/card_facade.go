package app

import (
	"context"
	"fmt"

	"github.com/tbarker-dev/deckbox/internal/storage/models"
)

// PickerKind selects which slice of the catalogue a card picker shows.
type PickerKind string

// The picker kinds, matching the suggestion categories.
const (
	PickerAll     PickerKind = "all"
	PickerRamp    PickerKind = "ramp"
	PickerDraw    PickerKind = "draw"
	PickerRemoval PickerKind = "removal"
	PickerWipe    PickerKind = "wipe"
)

// CardFacade serves catalogue queries for presentation code.
type CardFacade struct {
	services *Services
}

// NewCardFacade creates a new CardFacade with the given services.
func NewCardFacade(services *Services) *CardFacade {
	return &CardFacade{services: services}
}

// All returns the whole catalogue ordered by name.
func (c *CardFacade) All(ctx context.Context) ([]*models.Card, error) {
	return c.services.Storage.AllCards().Get(ctx)
}

// ByID returns one card.
func (c *CardFacade) ByID(ctx context.Context, cardID int) (*models.Card, error) {
	return c.services.Storage.CardByID(cardID).Get(ctx)
}

// Commanders returns the cards eligible to lead a deck.
func (c *CardFacade) Commanders(ctx context.Context) ([]*models.Card, error) {
	return c.services.Storage.Commanders().Get(ctx)
}

// ByColourIdentity returns cards matching a colour identity pattern.
func (c *CardFacade) ByColourIdentity(ctx context.Context, pattern string) ([]*models.Card, error) {
	return c.services.Storage.CardsByColourIdentity(pattern).Get(ctx)
}

// Colourless returns cards with no colour identity.
func (c *CardFacade) Colourless(ctx context.Context) ([]*models.Card, error) {
	return c.services.Storage.ColourlessCards().Get(ctx)
}

// ForPicker returns the card list the given picker shows.
func (c *CardFacade) ForPicker(ctx context.Context, kind PickerKind) ([]*models.Card, error) {
	switch kind {
	case PickerRamp:
		return c.services.Storage.RampCards().Get(ctx)
	case PickerDraw:
		return c.services.Storage.DrawCards().Get(ctx)
	case PickerRemoval:
		return c.services.Storage.RemovalCards().Get(ctx)
	case PickerWipe:
		return c.services.Storage.BoardWipes().Get(ctx)
	case PickerAll:
		return c.services.Storage.AllCards().Get(ctx)
	default:
		return nil, fmt.Errorf("unknown picker kind %q", kind)
	}
}
