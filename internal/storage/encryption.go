package storage

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"os"

	"golang.org/x/crypto/argon2"
)

// encMagic identifies an encrypted deck library backup.
const encMagic = "DBOXENC1"

// Argon2id parameters (RFC 9106 recommendations) and key/salt sizes for
// AES-256-GCM.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024 // KiB
	argonThreads = 4
	keyLength    = 32
	saltLength   = 32
)

func deriveBackupKey(passphrase string, salt []byte) []byte {
	return argon2.IDKey([]byte(passphrase), salt, argonTime, argonMemory, argonThreads, keyLength)
}

// encryptBackup seals plaintext with a passphrase-derived key.
// Layout: magic || salt || nonce || ciphertext+tag.
func encryptBackup(plaintext []byte, passphrase string) ([]byte, error) {
	if passphrase == "" {
		return nil, fmt.Errorf("passphrase required")
	}

	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	block, err := aes.NewCipher(deriveBackupKey(passphrase, salt))
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	out := make([]byte, 0, len(encMagic)+len(salt)+len(nonce)+len(plaintext)+gcm.Overhead())
	out = append(out, encMagic...)
	out = append(out, salt...)
	out = append(out, nonce...)
	out = gcm.Seal(out, nonce, plaintext, nil)

	return out, nil
}

// decryptBackup opens data produced by encryptBackup.
func decryptBackup(data []byte, passphrase string) ([]byte, error) {
	if passphrase == "" {
		return nil, fmt.Errorf("passphrase required")
	}
	if !bytes.HasPrefix(data, []byte(encMagic)) {
		return nil, fmt.Errorf("not an encrypted backup")
	}
	data = data[len(encMagic):]

	if len(data) < saltLength {
		return nil, fmt.Errorf("encrypted backup truncated")
	}
	salt := data[:saltLength]
	data = data[saltLength:]

	block, err := aes.NewCipher(deriveBackupKey(passphrase, salt))
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	if len(data) < gcm.NonceSize() {
		return nil, fmt.Errorf("encrypted backup truncated")
	}
	nonce := data[:gcm.NonceSize()]
	ciphertext := data[gcm.NonceSize():]

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("decryption failed (wrong passphrase or corrupted backup): %w", err)
	}

	return plaintext, nil
}

// IsEncryptedBackup reports whether the file at path carries the encrypted
// backup header.
func IsEncryptedBackup(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("failed to open backup: %w", err)
	}
	defer func() { _ = f.Close() }()

	header := make([]byte, len(encMagic))
	n, err := f.Read(header)
	if err != nil || n < len(encMagic) {
		return false, nil
	}
	return string(header) == encMagic, nil
}
