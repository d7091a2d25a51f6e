// Package vault seals and opens credential values with a key derived from a
// server-only passphrase. Plaintext never crosses this boundary except as the
// argument to Seal and the return of Open.
package vault

import (
	"crypto/rand"
	"errors"
	"fmt"

	"golang.org/x/crypto/nacl/secretbox"
	"golang.org/x/crypto/scrypt"
)

const (
	saltSize  = 16
	nonceSize = 24
	keySize   = 32

	// scrypt cost parameters
	scryptN = 1 << 15
	scryptR = 8
	scryptP = 1
)

var (
	ErrNoPassphrase  = errors.New("vault: passphrase not configured")
	ErrDecryptFailed = errors.New("vault: decryption failed")
)

type Vault struct {
	passphrase []byte
}

// New creates a vault bound to the server passphrase.
func New(passphrase string) *Vault {
	return &Vault{passphrase: []byte(passphrase)}
}

// Enabled reports whether a passphrase is configured.
func (v *Vault) Enabled() bool {
	return len(v.passphrase) > 0
}

func (v *Vault) deriveKey(salt []byte) (*[keySize]byte, error) {
	derived, err := scrypt.Key(v.passphrase, salt, scryptN, scryptR, scryptP, keySize)
	if err != nil {
		return nil, fmt.Errorf("vault: key derivation failed: %w", err)
	}
	var key [keySize]byte
	copy(key[:], derived)
	return &key, nil
}

// Seal encrypts plaintext with a per-secret salt and nonce.
func (v *Vault) Seal(plaintext string) (ciphertext, nonce, salt []byte, err error) {
	if !v.Enabled() {
		return nil, nil, nil, ErrNoPassphrase
	}

	salt = make([]byte, saltSize)
	if _, err = rand.Read(salt); err != nil {
		return nil, nil, nil, fmt.Errorf("vault: salt generation failed: %w", err)
	}

	key, err := v.deriveKey(salt)
	if err != nil {
		return nil, nil, nil, err
	}

	var nonceArr [nonceSize]byte
	if _, err = rand.Read(nonceArr[:]); err != nil {
		return nil, nil, nil, fmt.Errorf("vault: nonce generation failed: %w", err)
	}

	ciphertext = secretbox.Seal(nil, []byte(plaintext), &nonceArr, key)
	nonce = nonceArr[:]
	return ciphertext, nonce, salt, nil
}

// Open decrypts a sealed value.
func (v *Vault) Open(ciphertext, nonce, salt []byte) (string, error) {
	if !v.Enabled() {
		return "", ErrNoPassphrase
	}
	if len(nonce) != nonceSize {
		return "", ErrDecryptFailed
	}

	key, err := v.deriveKey(salt)
	if err != nil {
		return "", err
	}

	var nonceArr [nonceSize]byte
	copy(nonceArr[:], nonce)

	plaintext, ok := secretbox.Open(nil, ciphertext, &nonceArr, key)
	if !ok {
		return "", ErrDecryptFailed
	}
	return string(plaintext), nil
}
