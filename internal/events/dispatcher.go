// Package events distributes table-change notifications so that live
// queries can re-run whenever a mutation touches the data they depend on.
package events

import (
	"log"
	"sync"
)

// Table identifies one of the persisted tables.
type Table string

// The three tables changes are reported for.
const (
	TableCard      Table = "card"
	TableDeck      Table = "deck"
	TableDeckCards Table = "deckcards"
)

// Op describes the kind of mutation that occurred.
type Op string

// Mutation kinds.
const (
	OpInsert Op = "insert"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Change describes a successful mutation against one table. DeckID and
// CardID are set when the mutation is scoped to specific rows, and are
// zero for whole-table operations such as a catalogue wipe.
type Change struct {
	Table  Table
	Op     Op
	DeckID int
	CardID int
}

// Handler receives change notifications. Handlers run on the goroutine
// that performed the mutation and must not block.
type Handler func(Change)

// Subscription is a registered handler. Cancel it when the owning scope
// ends; an abandoned subscription keeps receiving notifications forever.
type Subscription struct {
	id         int
	dispatcher *Dispatcher
}

// Cancel unregisters the subscription. Safe to call more than once.
func (s *Subscription) Cancel() {
	s.dispatcher.unsubscribe(s.id)
}

// Dispatcher implements the observer pattern for table changes.
// Thread-safe for concurrent use.
type Dispatcher struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]*handlerEntry
}

type handlerEntry struct {
	tables  map[Table]bool // nil means all tables
	handler Handler
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{subs: make(map[int]*handlerEntry)}
}

// Subscribe registers a handler for changes to the given tables. With no
// tables the handler receives every change.
func (d *Dispatcher) Subscribe(handler Handler, tables ...Table) *Subscription {
	d.mu.Lock()
	defer d.mu.Unlock()

	entry := &handlerEntry{handler: handler}
	if len(tables) > 0 {
		entry.tables = make(map[Table]bool, len(tables))
		for _, t := range tables {
			entry.tables[t] = true
		}
	}

	d.nextID++
	id := d.nextID
	d.subs[id] = entry

	return &Subscription{id: id, dispatcher: d}
}

func (d *Dispatcher) unsubscribe(id int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.subs, id)
}

// Dispatch notifies every matching handler of a change. Handlers are
// invoked sequentially; a panicking handler is logged and skipped so one
// bad subscriber cannot take down the write path.
func (d *Dispatcher) Dispatch(change Change) {
	d.mu.RLock()
	handlers := make([]Handler, 0, len(d.subs))
	for _, entry := range d.subs {
		if entry.tables == nil || entry.tables[change.Table] {
			handlers = append(handlers, entry.handler)
		}
	}
	d.mu.RUnlock()

	for _, handler := range handlers {
		d.safeCall(handler, change)
	}
}

func (d *Dispatcher) safeCall(handler Handler, change Change) {
	defer func() {
		if p := recover(); p != nil {
			log.Printf("[Dispatcher] handler panicked on %s %s: %v", change.Op, change.Table, p)
		}
	}()
	handler(change)
}
