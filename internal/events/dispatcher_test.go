package events

import (
	"sync"
	"testing"
)

func TestDispatcherSubscribeAll(t *testing.T) {
	d := NewDispatcher()

	var received []Change
	d.Subscribe(func(c Change) { received = append(received, c) })

	d.Dispatch(Change{Table: TableCard, Op: OpInsert})
	d.Dispatch(Change{Table: TableDeck, Op: OpDelete, DeckID: 3})

	if len(received) != 2 {
		t.Fatalf("expected 2 changes, got %d", len(received))
	}
	if received[1].Table != TableDeck || received[1].DeckID != 3 {
		t.Errorf("unexpected second change: %+v", received[1])
	}
}

func TestDispatcherTableFilter(t *testing.T) {
	d := NewDispatcher()

	var received []Change
	d.Subscribe(func(c Change) { received = append(received, c) }, TableDeckCards)

	d.Dispatch(Change{Table: TableCard, Op: OpInsert})
	d.Dispatch(Change{Table: TableDeckCards, Op: OpInsert, DeckID: 1})
	d.Dispatch(Change{Table: TableDeck, Op: OpUpdate, DeckID: 1})

	if len(received) != 1 {
		t.Fatalf("expected only deckcards changes, got %d", len(received))
	}
	if received[0].Table != TableDeckCards {
		t.Errorf("expected deckcards change, got %s", received[0].Table)
	}
}

func TestDispatcherCancel(t *testing.T) {
	d := NewDispatcher()

	count := 0
	sub := d.Subscribe(func(Change) { count++ })

	d.Dispatch(Change{Table: TableCard, Op: OpInsert})
	sub.Cancel()
	d.Dispatch(Change{Table: TableCard, Op: OpInsert})

	if count != 1 {
		t.Errorf("expected 1 notification before cancel, got %d", count)
	}

	// Cancelling twice must not panic.
	sub.Cancel()
}

func TestDispatcherPanickingHandler(t *testing.T) {
	d := NewDispatcher()

	d.Subscribe(func(Change) { panic("bad subscriber") })

	count := 0
	d.Subscribe(func(Change) { count++ })

	d.Dispatch(Change{Table: TableDeck, Op: OpInsert})

	if count != 1 {
		t.Errorf("expected healthy handler to run despite panicking peer, got %d", count)
	}
}

func TestDispatcherConcurrent(t *testing.T) {
	d := NewDispatcher()

	var mu sync.Mutex
	count := 0
	d.Subscribe(func(Change) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				d.Dispatch(Change{Table: TableCard, Op: OpInsert})
			}
		}()
	}
	wg.Wait()

	if count != 1000 {
		t.Errorf("expected 1000 notifications, got %d", count)
	}
}
