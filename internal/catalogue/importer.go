package catalogue

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/tbarker-dev/deckbox/internal/storage"
	"github.com/tbarker-dev/deckbox/internal/storage/models"
)

// ImportOptions configures the bulk import process.
type ImportOptions struct {
	// Path is the catalogue CSV file to import.
	Path string

	// BatchSize is the number of cards to insert per transaction.
	BatchSize int

	// Progress is an optional callback receiving (inserted, total) after
	// each committed batch.
	Progress func(inserted, total int)
}

// DefaultImportOptions returns sensible defaults for the given file.
func DefaultImportOptions(path string) ImportOptions {
	return ImportOptions{
		Path:      path,
		BatchSize: 500,
	}
}

// ImportStats describes a completed import.
type ImportStats struct {
	TotalRows     int
	ImportedCards int
	Duration      time.Duration
}

// Importer loads the card catalogue from a CSV file into the database,
// replacing whatever was there.
type Importer struct {
	service *storage.Service
	options ImportOptions
}

// NewImporter creates a bulk importer.
func NewImporter(service *storage.Service, options ImportOptions) *Importer {
	return &Importer{service: service, options: options}
}

// Import wipes the database and loads the catalogue file. The file is
// parsed in full before anything is wiped, so a malformed row aborts the
// import with the existing data untouched. Inserts are batched into
// transactions; a storage failure mid-import can leave the catalogue
// partially populated, which the next EnsureImported will not repair --
// the error tells the caller to re-run the import.
func (i *Importer) Import(ctx context.Context) (*ImportStats, error) {
	start := time.Now()

	rows, err := ReadFile(i.options.Path)
	if err != nil {
		return nil, err
	}

	cards := make([]*models.Card, 0, len(rows))
	for n, row := range rows {
		card, err := CardFromFields(row)
		if err != nil {
			// Header is line 1, so data row n is file line n+2.
			return nil, fmt.Errorf("catalogue line %d: %w", n+2, err)
		}
		cards = append(cards, card)
	}

	if err := i.service.WipeDatabaseSync(ctx); err != nil {
		return nil, fmt.Errorf("failed to wipe database before import: %w", err)
	}

	if err := i.service.InsertCardsBatch(ctx, cards, i.options.BatchSize, i.options.Progress); err != nil {
		return nil, err
	}

	stats := &ImportStats{
		TotalRows:     len(rows),
		ImportedCards: len(cards),
		Duration:      time.Since(start),
	}
	log.Printf("[Importer] imported %d cards in %s", stats.ImportedCards, stats.Duration)

	return stats, nil
}

// EnsureImported runs Import exactly once iff the catalogue is empty.
// This is the bootstrap path: the first screen that opens the database
// calls this before serving any deck-building query.
func (i *Importer) EnsureImported(ctx context.Context) (*ImportStats, error) {
	count, err := i.service.CardCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check catalogue size: %w", err)
	}
	if count > 0 {
		return nil, nil
	}

	return i.Import(ctx)
}
