// Package deckstats derives views of a deck's contents: the mana-curve
// histogram, the category counters behind the suggestion screen, and the
// duplicate filter applied before cards are added to a deck. Everything
// here is a pure function of deckcards rows and a card lookup, recomputed
// whenever the deck's live subscription fires.
package deckstats

import (
	"strings"

	"github.com/tbarker-dev/deckbox/internal/storage/models"
)

// HistogramBuckets is the number of mana-curve buckets: mana values 0
// through 10, plus an overflow bucket.
const HistogramBuckets = 12

// OverflowBucket is the index of the "10-plus" bucket. Mana values of 11
// or more land here, as does the -1 sentinel for a cost that never parsed.
const OverflowBucket = 11

// Histogram is a mana-curve: bucket i counts the deck entries with mana
// value i, except the last bucket which collects everything above 10.
// Counts are per distinct deck entry, not multiplied by quantity; in the
// default format a deck carries one copy of each card anyway.
type Histogram [HistogramBuckets]int

// Total returns the sum of all buckets, which equals the number of deck
// entries that had a known card.
func (h Histogram) Total() int {
	total := 0
	for _, count := range h {
		total += count
	}
	return total
}

// CardLookup resolves a card id to its catalogue row. Unknown ids return
// false and the entry is skipped.
type CardLookup func(cardID int) (*models.Card, bool)

// LookupFrom builds a CardLookup over a slice of cards.
func LookupFrom(cards []*models.Card) CardLookup {
	byID := make(map[int]*models.Card, len(cards))
	for _, card := range cards {
		byID[card.ID] = card
	}
	return func(cardID int) (*models.Card, bool) {
		card, ok := byID[cardID]
		return card, ok
	}
}

// ManaCurve buckets a deck's entries by mana value.
func ManaCurve(entries []*models.DeckCards, lookup CardLookup) Histogram {
	var h Histogram
	for _, entry := range entries {
		card, ok := lookup(entry.CardID)
		if !ok {
			continue
		}
		switch mv := card.ManaValue; {
		case mv >= 0 && mv <= 10:
			h[mv]++
		default:
			h[OverflowBucket]++
		}
	}
	return h
}

// CategoryCounts are the four suggestion counters. They are not mutually
// exclusive: one card may count towards several.
type CategoryCounts struct {
	Ramp    int // categories contains "ramp" or "mana"
	Draw    int // categories contains "cardraw"
	Removal int // categories contains "removal"
	Wipes   int // categories contains "wrath"
}

// CountCategories tallies the suggestion counters for a deck's entries.
func CountCategories(entries []*models.DeckCards, lookup CardLookup) CategoryCounts {
	var counts CategoryCounts
	for _, entry := range entries {
		card, ok := lookup(entry.CardID)
		if !ok {
			continue
		}
		counts.addCard(card)
	}
	return counts
}

func (c *CategoryCounts) addCard(card *models.Card) {
	categories := card.Categories
	if strings.Contains(categories, "cardraw") {
		c.Draw++
	}
	if strings.Contains(categories, "wrath") {
		c.Wipes++
	}
	if strings.Contains(categories, "removal") {
		c.Removal++
	}
	if strings.Contains(categories, "ramp") || strings.Contains(categories, "mana") {
		c.Ramp++
	}
}

// FilterNewCards returns the candidates whose id is not already among the
// deck's current entries. This runs before every InsertDeckCards call; the
// storage layer does not deduplicate on its own.
func FilterNewCards(candidates []*models.Card, current []*models.DeckCards) []*models.Card {
	inDeck := make(map[int]bool, len(current))
	for _, entry := range current {
		inDeck[entry.CardID] = true
	}

	var fresh []*models.Card
	for _, card := range candidates {
		if !inDeck[card.ID] {
			fresh = append(fresh, card)
		}
	}
	return fresh
}
