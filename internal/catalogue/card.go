package catalogue

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tbarker-dev/deckbox/internal/storage/models"
)

// cardFieldCount is the number of fields a catalogue row must carry, in
// this order: name, superTypes, types, subtypes, colourIdentity, manaCost,
// manaValue, rank, alternateLimit, canBeCommander, multiverseID,
// scryfallID, commanderLegal, categories.
const cardFieldCount = 14

// CardFromFields builds a Card from one parsed catalogue row. A short row
// or a malformed mana value is an error; the numeric flag fields treat an
// empty string as their default and parse as integers otherwise, with
// booleans true iff the value is greater than zero.
func CardFromFields(fields []string) (*models.Card, error) {
	if len(fields) < cardFieldCount {
		return nil, fmt.Errorf("catalogue row has %d fields, want %d", len(fields), cardFieldCount)
	}

	card := &models.Card{
		Name:       stripQuotes(fields[0]),
		SuperTypes: stripQuotes(fields[1]),
		Types:      stripQuotes(fields[2]),
		Subtypes:   stripQuotes(fields[3]),
		ManaCost:   fields[5],
		ScryfallID: fields[11],
		Categories: stripQuotes(fields[13]),
	}

	// An empty colour identity means colourless, stored as NULL so the
	// colourless query can use IS NULL.
	if fields[4] != "" {
		identity := fields[4]
		card.ColourIdentity = &identity
	}

	manaValue, err := strconv.Atoi(fields[6])
	if err != nil {
		return nil, fmt.Errorf("card %q: invalid mana value %q: %w", card.Name, fields[6], err)
	}
	card.ManaValue = manaValue

	card.Rank, err = intOrDefault(fields[7], models.UnrankedCard)
	if err != nil {
		return nil, fmt.Errorf("card %q: invalid rank %q: %w", card.Name, fields[7], err)
	}

	card.AlternateLimit, err = flagOrFalse(fields[8])
	if err != nil {
		return nil, fmt.Errorf("card %q: invalid alternate limit %q: %w", card.Name, fields[8], err)
	}

	card.CanBeCommander, err = flagOrFalse(fields[9])
	if err != nil {
		return nil, fmt.Errorf("card %q: invalid commander eligibility %q: %w", card.Name, fields[9], err)
	}

	card.MultiverseID, err = intOrDefault(fields[10], models.UnknownMultiverseID)
	if err != nil {
		return nil, fmt.Errorf("card %q: invalid multiverse id %q: %w", card.Name, fields[10], err)
	}

	card.CommanderLegal, err = flagOrFalse(fields[12])
	if err != nil {
		return nil, fmt.Errorf("card %q: invalid commander legality %q: %w", card.Name, fields[12], err)
	}

	return card, nil
}

func stripQuotes(s string) string {
	return strings.ReplaceAll(s, `"`, "")
}

// intOrDefault parses an integer field, substituting def for an empty string.
func intOrDefault(s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	return strconv.Atoi(s)
}

// flagOrFalse parses a numeric flag field: empty is false, otherwise true
// iff the parsed integer is greater than zero.
func flagOrFalse(s string) (bool, error) {
	if s == "" {
		return false, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
