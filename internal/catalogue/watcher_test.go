package catalogue

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestWatcherReimportsOnChange(t *testing.T) {
	data := catalogueHeader + catalogueRow("Sol Ring", "1")
	importer, svc := newImporterTest(t, data)
	ctx := testContext(t)

	w, err := NewWatcher(importer, 10*time.Millisecond)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Stop()

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go w.Start(watchCtx)

	// Give the watch loop a moment before touching the file.
	time.Sleep(100 * time.Millisecond)

	updated := catalogueHeader + catalogueRow("Sol Ring", "1") + catalogueRow("Mana Vault", "1")
	if err := os.WriteFile(importer.options.Path, []byte(updated), 0o644); err != nil {
		t.Fatalf("failed to rewrite catalogue: %v", err)
	}

	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		count, err := svc.CardCount(ctx)
		if err != nil {
			t.Fatalf("CardCount failed: %v", err)
		}
		if count == 2 {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatal("timed out waiting for the watcher to re-import")
}

func TestWatcherStop(t *testing.T) {
	data := catalogueHeader + catalogueRow("Sol Ring", "1")
	importer, _ := newImporterTest(t, data)

	w, err := NewWatcher(importer, time.Second)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}

	done := make(chan struct{})
	go func() {
		w.Start(context.Background())
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	w.Stop()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("expected Start to return after Stop")
	}
}
