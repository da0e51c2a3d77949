// Package repository contains database operations for the deck builder's
// three entities: catalogue cards, decks and the deckcards join rows.
package repository

import "errors"

// ErrNotFound is returned by point lookups that match no row. Callers can
// use errors.Is to tell "nothing there" apart from a storage failure.
var ErrNotFound = errors.New("not found")
