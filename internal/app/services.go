// Package app exposes the storage layer to presentation code through
// per-consumer facades. Every facade delegates to the same shared
// storage.Service; facades never open their own database connection, so
// their live subscriptions observe each other's writes.
package app

import (
	"github.com/tbarker-dev/deckbox/internal/catalogue"
	"github.com/tbarker-dev/deckbox/internal/storage"
)

// Services contains the shared dependencies handed to each facade.
// Exactly one Services value exists per process; it owns the one
// storage.Service and the catalogue importer.
type Services struct {
	// Storage is the process-wide storage service.
	Storage *storage.Service

	// Importer loads the card catalogue.
	Importer *catalogue.Importer
}

// NewServices bundles the shared dependencies.
func NewServices(store *storage.Service, importer *catalogue.Importer) *Services {
	return &Services{
		Storage:  store,
		Importer: importer,
	}
}
