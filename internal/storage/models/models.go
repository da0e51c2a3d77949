// Package models defines the persisted entities for the deck builder.
package models

// Sentinel values used when the bulk catalogue has no data for a field.
const (
	// UnrankedCard marks a card with no popularity rank.
	UnrankedCard = -1

	// UnknownMultiverseID marks a card with no external catalogue id.
	UnknownMultiverseID = -1

	// NoCommander marks a deck with no commander assigned.
	NoCommander = -1
)

// Card is a single catalogue entry. Rows are created in bulk by the CSV
// importer and are never mutated by deck-building flows; the only way to
// destroy them is a full catalogue wipe before a re-import.
type Card struct {
	ID             int
	Name           string
	SuperTypes     string
	Types          string
	Subtypes       string
	ColourIdentity *string // NULL means colourless
	ManaCost       string
	ManaValue      int
	Rank           int  // popularity rank, UnrankedCard if absent
	AlternateLimit bool // card may appear in quantities other than 1
	CanBeCommander bool
	MultiverseID   int    // UnknownMultiverseID if absent
	ScryfallID     string // external UUID, empty if unknown
	CommanderLegal bool
	Categories     string // comma-separated tags, e.g. "ramp,mana"
}

// IsColourless reports whether the card has no colour identity.
func (c *Card) IsColourless() bool {
	return c.ColourIdentity == nil
}

// Deck is a user-created collection of cards led by an optional commander.
type Deck struct {
	ID          int
	Name        string
	CommanderID int // Card id, NoCommander if unset
}

// HasCommander reports whether a commander has been assigned.
func (d *Deck) HasCommander() bool {
	return d.CommanderID != NoCommander
}

// DeckCards records that a card appears in a deck with a given quantity.
// At most one row should exist per (deck, card) pair; the storage layer does
// not enforce this, so callers filter duplicates before inserting.
type DeckCards struct {
	ID       int
	DeckID   int
	CardID   int
	Quantity int
}
