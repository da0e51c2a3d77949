package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/tbarker-dev/deckbox/internal/events"
	"github.com/tbarker-dev/deckbox/internal/storage/models"
	"github.com/tbarker-dev/deckbox/internal/storage/repository"
)

// Service is the sole data-access facade for the deck builder. Every read
// is served asynchronously (a Future or a Live handle) and every mutation
// is queued onto a fixed background pool, so presentation code never
// touches storage I/O on its own goroutine.
//
// Construct exactly one Service per process and share it; live queries
// only observe mutations issued through the same Service.
type Service struct {
	db         *DB
	cards      repository.CardRepository
	decks      repository.DeckRepository
	deckCards  repository.DeckCardRepository
	dispatcher *events.Dispatcher
	exec       *executor
}

// NewService creates a storage service around an open database handle.
func NewService(db *DB) *Service {
	conn := db.Conn()
	return &Service{
		db:         db,
		cards:      repository.NewCardRepository(conn),
		decks:      repository.NewDeckRepository(conn),
		deckCards:  repository.NewDeckCardRepository(conn),
		dispatcher: events.NewDispatcher(),
		exec:       newExecutor(writeWorkers, 256),
	}
}

// Close drains queued operations and stops the worker pool. The database
// handle itself stays open; its owner closes it after the service.
func (s *Service) Close() {
	s.exec.close()
}

// DB returns the underlying database wrapper, for maintenance operations
// such as backups that need the raw handle.
func (s *Service) DB() *DB {
	return s.db
}

// supply queues a read and returns a future for its result.
func supply[T any](s *Service, fn func(context.Context) (T, error)) *Future[T] {
	f := newFuture[T]()
	s.exec.submit(func() {
		value, err := fn(context.Background())
		f.complete(value, err)
	})
	return f
}

// mutate queues a mutation, logs failures (there may be no caller waiting),
// and dispatches the given changes once the mutation has committed.
func mutate[T any](s *Service, op string, fn func(context.Context) (T, error), changes ...events.Change) *Future[T] {
	f := newFuture[T]()
	s.exec.submit(func() {
		value, err := fn(context.Background())
		if err != nil {
			log.Printf("[Storage] %s failed: %v", op, err)
			f.complete(value, err)
			return
		}
		for _, change := range changes {
			s.dispatcher.Dispatch(change)
		}
		f.complete(value, nil)
	})
	return f
}

// ---- Card reads ----

// AllCards resolves to every card in the catalogue, ordered by name.
func (s *Service) AllCards() *Future[[]*models.Card] {
	return supply(s, s.cards.All)
}

// Commanders resolves to every commander-eligible card.
func (s *Service) Commanders() *Future[[]*models.Card] {
	return supply(s, s.cards.Commanders)
}

// CardByID resolves to a single card, or an error wrapping
// repository.ErrNotFound.
func (s *Service) CardByID(cardID int) *Future[*models.Card] {
	return supply(s, func(ctx context.Context) (*models.Card, error) {
		return s.cards.GetByID(ctx, cardID)
	})
}

// CardsByColourIdentity resolves to cards matching a colour identity
// LIKE pattern.
func (s *Service) CardsByColourIdentity(pattern string) *Future[[]*models.Card] {
	return supply(s, func(ctx context.Context) ([]*models.Card, error) {
		return s.cards.ByColourIdentity(ctx, pattern)
	})
}

// ColourlessCards resolves to cards with no colour identity.
func (s *Service) ColourlessCards() *Future[[]*models.Card] {
	return supply(s, s.cards.Colourless)
}

// RampCards resolves to cards tagged ramp or mana, most popular first.
func (s *Service) RampCards() *Future[[]*models.Card] {
	return supply(s, s.cards.RampCards)
}

// DrawCards resolves to cards tagged cardraw, most popular first.
func (s *Service) DrawCards() *Future[[]*models.Card] {
	return supply(s, s.cards.DrawCards)
}

// RemovalCards resolves to cards tagged removal, ordered by name.
func (s *Service) RemovalCards() *Future[[]*models.Card] {
	return supply(s, s.cards.RemovalCards)
}

// BoardWipes resolves to cards tagged wrath, ordered by name.
func (s *Service) BoardWipes() *Future[[]*models.Card] {
	return supply(s, s.cards.BoardWipes)
}

// CardCount returns the catalogue size synchronously. The importer's
// bootstrap check runs before any UI exists, so there is no caller thread
// to protect.
func (s *Service) CardCount(ctx context.Context) (int, error) {
	return s.cards.Count(ctx)
}

// ---- Deck reads ----

// AllDecks resolves to every deck.
func (s *Service) AllDecks() *Future[[]*models.Deck] {
	return supply(s, s.decks.All)
}

// Deck resolves to a single deck, or an error wrapping repository.ErrNotFound.
func (s *Service) Deck(deckID int) *Future[*models.Deck] {
	return supply(s, func(ctx context.Context) (*models.Deck, error) {
		return s.decks.GetByID(ctx, deckID)
	})
}

// GetLatestDeck resolves to the most recently created deck (highest id).
// It fails with repository.ErrNotFound when no decks exist. Callers doing
// the create-then-lookup handshake must await the insert future first;
// nothing sequences the pair for them.
func (s *Service) GetLatestDeck() *Future[*models.Deck] {
	return supply(s, s.decks.Latest)
}

// ---- DeckCards reads ----

// DeckCardsFor resolves to every deckcards row of a deck.
func (s *Service) DeckCardsFor(deckID int) *Future[[]*models.DeckCards] {
	return supply(s, func(ctx context.Context) ([]*models.DeckCards, error) {
		return s.deckCards.ForDeck(ctx, deckID)
	})
}

// SpecificDeckCards resolves to the row for one (deck, card) pair, or an
// error wrapping repository.ErrNotFound.
func (s *Service) SpecificDeckCards(deckID, cardID int) *Future[*models.DeckCards] {
	return supply(s, func(ctx context.Context) (*models.DeckCards, error) {
		return s.deckCards.Get(ctx, deckID, cardID)
	})
}

// Quantities resolves to the quantity values recorded for a (deck, card) pair.
func (s *Service) Quantities(deckID, cardID int) *Future[[]int] {
	return supply(s, func(ctx context.Context) ([]int, error) {
		return s.deckCards.Quantities(ctx, deckID, cardID)
	})
}

// ---- Mutations ----

// AddCard inserts a card into the catalogue. The future resolves to the
// card with its assigned id; abandoning it is fine, failures are logged.
func (s *Service) AddCard(card *models.Card) *Future[*models.Card] {
	return mutate(s, fmt.Sprintf("insert card %q", card.Name),
		func(ctx context.Context) (*models.Card, error) {
			if err := s.cards.Insert(ctx, card); err != nil {
				return nil, err
			}
			return card, nil
		},
		events.Change{Table: events.TableCard, Op: events.OpInsert},
	)
}

// InsertDeck creates a deck. The future resolves to the deck with its
// assigned id.
func (s *Service) InsertDeck(deck *models.Deck) *Future[*models.Deck] {
	return mutate(s, "insert deck",
		func(ctx context.Context) (*models.Deck, error) {
			if err := s.decks.Insert(ctx, deck); err != nil {
				return nil, err
			}
			return deck, nil
		},
		events.Change{Table: events.TableDeck, Op: events.OpInsert},
	)
}

// UpdateDeck replaces a deck row (rename, commander reassignment).
func (s *Service) UpdateDeck(deck *models.Deck) *Future[struct{}] {
	return mutate(s, fmt.Sprintf("update deck %d", deck.ID),
		func(ctx context.Context) (struct{}, error) {
			return struct{}{}, s.decks.Update(ctx, deck)
		},
		events.Change{Table: events.TableDeck, Op: events.OpUpdate, DeckID: deck.ID},
	)
}

// DeleteDeck removes a deck and all of its deckcards rows in a single
// transaction; readers never observe the deck half-deleted.
func (s *Service) DeleteDeck(deckID int) *Future[struct{}] {
	return mutate(s, fmt.Sprintf("delete deck %d", deckID),
		func(ctx context.Context) (struct{}, error) {
			err := s.db.WithTransaction(ctx, func(tx *sql.Tx) error {
				if err := s.decks.DeleteTx(ctx, tx, deckID); err != nil {
					return err
				}
				return s.deckCards.DeleteForDeckTx(ctx, tx, deckID)
			})
			return struct{}{}, err
		},
		events.Change{Table: events.TableDeck, Op: events.OpDelete, DeckID: deckID},
		events.Change{Table: events.TableDeckCards, Op: events.OpDelete, DeckID: deckID},
	)
}

// InsertDeckCards records a card in a deck. The insert is unconditional:
// deduplication against the deck's current contents is the caller's job
// (see deckstats.FilterNewCards) and must happen before calling this.
func (s *Service) InsertDeckCards(deckID, cardID, quantity int) *Future[*models.DeckCards] {
	dc := &models.DeckCards{DeckID: deckID, CardID: cardID, Quantity: quantity}
	return mutate(s, fmt.Sprintf("insert deckcards (deck %d, card %d)", deckID, cardID),
		func(ctx context.Context) (*models.DeckCards, error) {
			if err := s.deckCards.Insert(ctx, dc); err != nil {
				return nil, err
			}
			return dc, nil
		},
		events.Change{Table: events.TableDeckCards, Op: events.OpInsert, DeckID: deckID, CardID: cardID},
	)
}

// SetDeckCardQuantity updates the quantity for a (deck, card) pair.
// A quantity of zero is left for CleanDeckCards to sweep.
func (s *Service) SetDeckCardQuantity(deckID, cardID, quantity int) *Future[struct{}] {
	return mutate(s, fmt.Sprintf("set quantity (deck %d, card %d)", deckID, cardID),
		func(ctx context.Context) (struct{}, error) {
			return struct{}{}, s.deckCards.UpdateQuantity(ctx, deckID, cardID, quantity)
		},
		events.Change{Table: events.TableDeckCards, Op: events.OpUpdate, DeckID: deckID, CardID: cardID},
	)
}

// RemoveSpecificDeckCards removes a card from a deck. No-op if the card is
// not in the deck.
func (s *Service) RemoveSpecificDeckCards(deckID, cardID int) *Future[struct{}] {
	return mutate(s, fmt.Sprintf("remove deckcards (deck %d, card %d)", deckID, cardID),
		func(ctx context.Context) (struct{}, error) {
			return struct{}{}, s.deckCards.RemoveSpecific(ctx, deckID, cardID)
		},
		events.Change{Table: events.TableDeckCards, Op: events.OpDelete, DeckID: deckID, CardID: cardID},
	)
}

// CleanDeckCards removes join rows whose quantity has degraded to zero.
func (s *Service) CleanDeckCards() *Future[struct{}] {
	return mutate(s, "clean deckcards",
		func(ctx context.Context) (struct{}, error) {
			return struct{}{}, s.deckCards.Clean(ctx)
		},
		events.Change{Table: events.TableDeckCards, Op: events.OpDelete},
	)
}

// WipeDatabase deletes every row from all three tables in one transaction.
// Not reversible; used before a catalogue re-import.
func (s *Service) WipeDatabase() *Future[struct{}] {
	f := newFuture[struct{}]()
	s.exec.submit(func() {
		err := s.wipe(context.Background())
		if err != nil {
			log.Printf("[Storage] wipe database failed: %v", err)
		}
		f.complete(struct{}{}, err)
	})
	return f
}

// WipeDatabaseSync is the synchronous wipe used by the bulk importer,
// which already runs off the presentation goroutine.
func (s *Service) WipeDatabaseSync(ctx context.Context) error {
	return s.wipe(ctx)
}

func (s *Service) wipe(ctx context.Context) error {
	err := s.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		if err := s.cards.DeleteAllTx(ctx, tx); err != nil {
			return err
		}
		if err := s.decks.DeleteAllTx(ctx, tx); err != nil {
			return err
		}
		return s.deckCards.DeleteAllTx(ctx, tx)
	})
	if err != nil {
		return err
	}

	s.dispatcher.Dispatch(events.Change{Table: events.TableCard, Op: events.OpDelete})
	s.dispatcher.Dispatch(events.Change{Table: events.TableDeck, Op: events.OpDelete})
	s.dispatcher.Dispatch(events.Change{Table: events.TableDeckCards, Op: events.OpDelete})
	return nil
}

// InsertCardsBatch inserts catalogue cards in batched transactions. It runs
// on the caller's goroutine (the importer is background work already) and
// dispatches a single card-table change once every batch has committed.
// The progress callback, when set, receives (inserted, total) per batch.
func (s *Service) InsertCardsBatch(ctx context.Context, cards []*models.Card, batchSize int, progress func(inserted, total int)) error {
	if batchSize <= 0 {
		batchSize = 500
	}

	total := len(cards)
	for start := 0; start < total; start += batchSize {
		end := start + batchSize
		if end > total {
			end = total
		}
		batch := cards[start:end]

		err := s.db.WithTransaction(ctx, func(tx *sql.Tx) error {
			for _, card := range batch {
				if err := s.cards.InsertTx(ctx, tx, card); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to insert card batch %d-%d: %w", start, end, err)
		}

		if progress != nil {
			progress(end, total)
		}
	}

	s.dispatcher.Dispatch(events.Change{Table: events.TableCard, Op: events.OpInsert})
	return nil
}

// ---- Live queries ----

// LiveAllCards delivers the full catalogue now and after every card-table
// change.
func (s *Service) LiveAllCards() *Live[[]*models.Card] {
	return liveQuery(s, s.cards.All, nil, events.TableCard)
}

// LiveAllDecks delivers every deck now and after every deck-table change.
func (s *Service) LiveAllDecks() *Live[[]*models.Deck] {
	return liveQuery(s, s.decks.All, nil, events.TableDeck)
}

// LiveDeck delivers one deck's row now and after every change that could
// affect it.
func (s *Service) LiveDeck(deckID int) *Live[*models.Deck] {
	return liveQuery(s,
		func(ctx context.Context) (*models.Deck, error) {
			return s.decks.GetByID(ctx, deckID)
		},
		func(change events.Change) bool {
			return change.DeckID == 0 || change.DeckID == deckID
		},
		events.TableDeck,
	)
}

// LiveDeckCards delivers a deck's join rows now and after every change to
// the deck's contents. This is the subscription the content list, the
// suggestion counters and the mana-curve histogram all hang off.
func (s *Service) LiveDeckCards(deckID int) *Live[[]*models.DeckCards] {
	return liveQuery(s,
		func(ctx context.Context) ([]*models.DeckCards, error) {
			return s.deckCards.ForDeck(ctx, deckID)
		},
		func(change events.Change) bool {
			return change.DeckID == 0 || change.DeckID == deckID
		},
		events.TableDeckCards,
	)
}
