package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// BackupManager copies the deck library to and from backup files. Backups
// use VACUUM INTO, which produces a consistent snapshot without taking
// exclusive locks, so they can run while the service is live.
type BackupManager struct {
	dbPath string
}

// NewBackupManager creates a backup manager for the database at dbPath.
// In-memory databases cannot be backed up this way.
func NewBackupManager(dbPath string) *BackupManager {
	return &BackupManager{dbPath: dbPath}
}

// BackupOptions configures a backup.
type BackupOptions struct {
	// Dir is where backups are written. Defaults to a "backups"
	// subdirectory next to the database.
	Dir string

	// Name is the backup file name without extension. Defaults to a
	// timestamped name.
	Name string

	// Passphrase, when set, encrypts the backup with AES-256-GCM under an
	// Argon2id-derived key.
	Passphrase string

	// Verify opens the finished backup and runs an integrity check.
	Verify bool
}

// Backup snapshots the database and returns the path of the backup file.
func (bm *BackupManager) Backup(opts BackupOptions) (string, error) {
	if bm.dbPath == ":memory:" {
		return "", fmt.Errorf("cannot back up an in-memory database")
	}

	dir := opts.Dir
	if dir == "" {
		dir = filepath.Join(filepath.Dir(bm.dbPath), "backups")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	name := opts.Name
	if name == "" {
		name = "backup_" + time.Now().Format("20060102_150405")
	}
	backupPath := filepath.Join(dir, name+".db")

	if err := bm.vacuumInto(backupPath); err != nil {
		return "", err
	}

	if opts.Verify {
		if err := bm.verify(backupPath); err != nil {
			_ = os.Remove(backupPath)
			return "", fmt.Errorf("backup verification failed: %w", err)
		}
	}

	if opts.Passphrase != "" {
		if err := bm.encryptInPlace(backupPath, opts.Passphrase); err != nil {
			_ = os.Remove(backupPath)
			return "", err
		}
	}

	return backupPath, nil
}

// Restore replaces the database with the contents of a backup file. The
// caller must have closed every connection to the database first; the
// previous database file is kept next to it with an ".old" timestamp
// suffix. Encrypted backups need the same passphrase they were written with.
func (bm *BackupManager) Restore(backupPath, passphrase string) error {
	if _, err := os.Stat(backupPath); err != nil {
		return fmt.Errorf("backup file not readable: %w", err)
	}

	tempPath := bm.dbPath + ".restore.tmp"
	defer func() { _ = os.Remove(tempPath) }()

	encrypted, err := IsEncryptedBackup(backupPath)
	if err != nil {
		return err
	}

	if encrypted {
		data, err := os.ReadFile(backupPath)
		if err != nil {
			return fmt.Errorf("failed to read backup: %w", err)
		}
		plaintext, err := decryptBackup(data, passphrase)
		if err != nil {
			return err
		}
		if err := os.WriteFile(tempPath, plaintext, 0o600); err != nil {
			return fmt.Errorf("failed to write restore file: %w", err)
		}
	} else {
		data, err := os.ReadFile(backupPath)
		if err != nil {
			return fmt.Errorf("failed to read backup: %w", err)
		}
		if err := os.WriteFile(tempPath, data, 0o600); err != nil {
			return fmt.Errorf("failed to write restore file: %w", err)
		}
	}

	if err := bm.verify(tempPath); err != nil {
		return fmt.Errorf("restored database failed verification: %w", err)
	}

	if _, err := os.Stat(bm.dbPath); err == nil {
		oldPath := bm.dbPath + ".old." + time.Now().Format("20060102_150405")
		if err := os.Rename(bm.dbPath, oldPath); err != nil {
			return fmt.Errorf("failed to set aside current database: %w", err)
		}
	}

	if err := os.Rename(tempPath, bm.dbPath); err != nil {
		return fmt.Errorf("failed to move restored database into place: %w", err)
	}

	return nil
}

// vacuumInto snapshots the database into a new file.
func (bm *BackupManager) vacuumInto(destPath string) error {
	db, err := sql.Open("sqlite", bm.dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database for backup: %w", err)
	}
	defer func() { _ = db.Close() }()

	if _, err := db.Exec(fmt.Sprintf("VACUUM INTO %q", destPath)); err != nil {
		return fmt.Errorf("failed to snapshot database: %w", err)
	}
	return nil
}

// verify opens a backup file as SQLite and runs PRAGMA integrity_check.
func (bm *BackupManager) verify(path string) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open backup: %w", err)
	}
	defer func() { _ = db.Close() }()

	var result string
	if err := db.QueryRow("PRAGMA integrity_check").Scan(&result); err != nil {
		return fmt.Errorf("integrity check failed to run: %w", err)
	}
	if result != "ok" {
		return fmt.Errorf("integrity check reported: %s", result)
	}
	return nil
}

// encryptInPlace replaces a plaintext backup file with its encrypted form.
func (bm *BackupManager) encryptInPlace(path, passphrase string) error {
	plaintext, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read backup for encryption: %w", err)
	}

	encrypted, err := encryptBackup(plaintext, passphrase)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, encrypted, 0o600); err != nil {
		return fmt.Errorf("failed to write encrypted backup: %w", err)
	}
	return nil
}
