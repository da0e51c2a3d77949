// Command deckbox opens the deck library, bootstraps the card catalogue
// and keeps the importer's file watcher running. The data layer does all
// of the real work; this binary is glue.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/tbarker-dev/deckbox/internal/app"
	"github.com/tbarker-dev/deckbox/internal/catalogue"
	"github.com/tbarker-dev/deckbox/internal/config"
	"github.com/tbarker-dev/deckbox/internal/storage"
	"github.com/tbarker-dev/deckbox/internal/version"
)

var (
	dbPath        = flag.String("db-path", "", "Path to the SQLite database (defaults to ~/.deckbox/deckbox.db)")
	cataloguePath = flag.String("catalogue", "", "Path to the catalogue CSV file")
	reimport      = flag.Bool("reimport", false, "Wipe the database and re-import the catalogue")
	watch         = flag.Bool("watch", false, "Re-import when the catalogue file changes")
	backup        = flag.Bool("backup", false, "Write a backup of the database and exit")
	backupPass    = flag.String("backup-passphrase", "", "Encrypt the backup with this passphrase")
	showVersion   = flag.Bool("version", false, "Print the version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println("deckbox", version.GetVersion())
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	applyFlags(cfg)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if cfg.Database.Path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to find home directory: %v", err)
		}
		cfg.Database.Path = filepath.Join(home, ".deckbox", "deckbox.db")
	}

	if *backup {
		runBackup(cfg)
		return
	}

	dbConfig := storage.DefaultConfig(cfg.Database.Path)
	dbConfig.AutoMigrate = true
	db, err := storage.Open(dbConfig)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Failed to close database: %v", err)
		}
	}()

	service := storage.NewService(db)
	defer service.Close()

	if cfg.Catalogue.Path == "" {
		log.Fatalf("No catalogue file configured; set catalogue.path or pass -catalogue")
	}

	options := catalogue.DefaultImportOptions(cfg.Catalogue.Path)
	options.BatchSize = cfg.Catalogue.BatchSize
	options.Progress = func(inserted, total int) {
		log.Printf("Imported %d/%d cards", inserted, total)
	}
	importer := catalogue.NewImporter(service, options)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *reimport {
		if _, err := importer.Import(ctx); err != nil {
			log.Fatalf("Import failed: %v", err)
		}
	} else {
		stats, err := importer.EnsureImported(ctx)
		if err != nil {
			log.Fatalf("Catalogue bootstrap failed: %v", err)
		}
		if stats != nil {
			log.Printf("Bootstrapped catalogue with %d cards", stats.ImportedCards)
		}
	}

	services := app.NewServices(service, importer)
	printSummary(ctx, services)

	if !cfg.Catalogue.Watch {
		return
	}

	interval, err := cfg.GetWatchInterval()
	if err != nil {
		log.Fatalf("Invalid watch interval: %v", err)
	}
	watcher, err := catalogue.NewWatcher(importer, interval)
	if err != nil {
		log.Fatalf("Failed to start catalogue watcher: %v", err)
	}
	defer watcher.Stop()

	log.Printf("Watching %s for changes (Ctrl-C to stop)", cfg.Catalogue.Path)
	watcher.Start(ctx)
}

// applyFlags overlays command-line flags on the loaded configuration.
func applyFlags(cfg *config.Config) {
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}
	if *cataloguePath != "" {
		cfg.Catalogue.Path = *cataloguePath
	}
	if *watch {
		cfg.Catalogue.Watch = true
	}
}

func runBackup(cfg *config.Config) {
	manager := storage.NewBackupManager(cfg.Database.Path)
	path, err := manager.Backup(storage.BackupOptions{
		Dir:        cfg.Backup.Dir,
		Passphrase: *backupPass,
		Verify:     cfg.Backup.Verify,
	})
	if err != nil {
		log.Fatalf("Backup failed: %v", err)
	}
	log.Printf("Backup written to %s", path)
}

// printSummary logs the catalogue size and the deck list.
func printSummary(ctx context.Context, services *app.Services) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	count, err := services.Storage.CardCount(ctx)
	if err != nil {
		log.Printf("Failed to count catalogue: %v", err)
		return
	}
	log.Printf("Catalogue holds %d cards", count)

	decks := app.NewDeckFacade(services)
	all, err := decks.Decks(ctx)
	if err != nil {
		log.Printf("Failed to list decks: %v", err)
		return
	}
	for _, deck := range all {
		name := deck.Name
		if name == "" {
			name = "(unnamed)"
		}
		fmt.Printf("  deck %d: %s\n", deck.ID, name)
	}
}
