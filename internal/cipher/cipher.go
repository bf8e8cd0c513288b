// Package cipher encrypts exported tick logs and fixtures at rest with an
// XOR stream keyed by a SHA-256 counter keystream. It is not meant to
// defend against a motivated attacker with access to the key file; it
// exists so a fixture captured from a live run can be handed to a third
// party without exposing raw sensor readings.
package cipher

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
)

// #region config

// ExportDir holds the keystream key and any encrypted exports written via
// WriteExport. Callers in long-lived processes should set this once at
// startup from configuration.
var ExportDir = filepath.Join(os.TempDir(), "iaus-engine", "exports")

// KeyFile is the 32-byte key persisted under ExportDir. Regenerated on
// first use if missing.
var KeyFile = filepath.Join(ExportDir, ".export_key")

// #endregion config

// #region key
func ensureKey() ([]byte, error) {
	if err := os.MkdirAll(ExportDir, 0755); err != nil {
		return nil, fmt.Errorf("ensure export dir: %w", err)
	}
	data, err := os.ReadFile(KeyFile)
	if err == nil && len(data) >= 32 {
		return data[:32], nil
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("keygen: %w", err)
	}
	if err := os.WriteFile(KeyFile, key, 0600); err != nil {
		return nil, fmt.Errorf("write key: %w", err)
	}
	return key, nil
}

// #endregion key

// #region keystream
func keystream(key []byte, length int) []byte {
	stream := make([]byte, 0, length+32)
	counter := uint64(0)
	for len(stream) < length {
		buf := make([]byte, len(key)+8)
		copy(buf, key)
		binary.BigEndian.PutUint64(buf[len(key):], counter)
		h := sha256.Sum256(buf)
		stream = append(stream, h[:]...)
		counter++
	}
	return stream[:length]
}

// #endregion keystream

// #region encrypt-decrypt

// Encrypt returns plaintext XORed with the export keystream, base64-encoded.
func Encrypt(plaintext string) (string, error) {
	key, err := ensureKey()
	if err != nil {
		return "", err
	}
	data := []byte(plaintext)
	ks := keystream(key, len(data))
	out := make([]byte, len(data))
	for i := range data {
		out[i] = data[i] ^ ks[i]
	}
	return base64.StdEncoding.EncodeToString(out), nil
}

// Decrypt reverses Encrypt.
func Decrypt(b64Ciphertext string) (string, error) {
	key, err := ensureKey()
	if err != nil {
		return "", err
	}
	cipher, err := base64.StdEncoding.DecodeString(b64Ciphertext)
	if err != nil {
		return "", fmt.Errorf("base64 decode: %w", err)
	}
	ks := keystream(key, len(cipher))
	plain := make([]byte, len(cipher))
	for i := range cipher {
		plain[i] = cipher[i] ^ ks[i]
	}
	return string(plain), nil
}

// #endregion encrypt-decrypt

// #region export

// WriteExport encrypts plaintext and writes it to name+".enc" under
// ExportDir, creating the directory if needed.
func WriteExport(name, plaintext string) error {
	if err := os.MkdirAll(ExportDir, 0755); err != nil {
		return fmt.Errorf("ensure export dir: %w", err)
	}
	encrypted, err := Encrypt(plaintext)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(ExportDir, name+".enc"), []byte(encrypted), 0644)
}

// ReadExport reads and decrypts name+".enc" from ExportDir. Returns "" with
// a nil error if the file does not exist.
func ReadExport(name string) (string, error) {
	path := filepath.Join(ExportDir, name+".enc")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read export %s: %w", name, err)
	}
	return Decrypt(string(data))
}

// RemoveExport deletes name+".enc" from ExportDir if present.
func RemoveExport(name string) error {
	err := os.Remove(filepath.Join(ExportDir, name+".enc"))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// #endregion export
