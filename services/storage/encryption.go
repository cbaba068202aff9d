package storage

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
)

func newGCM(key string) (cipher.AEAD, error) {
	// AES-256 key derived from the configured secret.
	sum := sha256.Sum256([]byte(key))
	block, err := aes.NewCipher(sum[:])
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return gcm, nil
}

// encryptFile writes an AES-256-GCM encrypted copy of the file to a temporary
// file and returns its path. The nonce is prepended to the ciphertext.
func encryptFile(localFilePath, key string) (string, error) {
	plaintext, err := os.ReadFile(localFilePath)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	gcm, err := newGCM(key)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	tmp, err := os.CreateTemp("", "report-enc-*")
	if err != nil {
		return "", fmt.Errorf("failed to create encrypted file: %w", err)
	}
	defer tmp.Close()
	if _, err := tmp.Write(gcm.Seal(nonce, nonce, plaintext, nil)); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write encrypted file: %w", err)
	}
	return tmp.Name(), nil
}

// decryptBytes reverses encryptFile.
func decryptBytes(data []byte, key string) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(data) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}
	nonce, ciphertext := data[:gcm.NonceSize()], data[gcm.NonceSize():]
	return gcm.Open(nil, nonce, ciphertext, nil)
}
