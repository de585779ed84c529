// Package secret seals small secrets, such as integration credentials,
// with NaCl secretbox before they are written to the database.
package secret

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"

	"golang.org/x/crypto/nacl/secretbox"
)

const (
	// KeySize is the length of a sealing key in bytes.
	KeySize = 32

	nonceSize = 24
)

var (
	// ErrInvalidKey is returned for keys that do not decode to KeySize bytes.
	ErrInvalidKey = errors.New("secret key must be 32 bytes, base64 encoded")

	// ErrOpen is returned when a sealed box was not created with this key or was modified.
	ErrOpen = errors.New("secret box can not be opened")
)

// Box seals and opens secrets with one key.
type Box struct {
	key [KeySize]byte
}

// New returns a Box for a base64 encoded key.
func New(encodedKey string) (*Box, error) {
	raw, err := base64.StdEncoding.DecodeString(encodedKey)
	if err != nil || len(raw) != KeySize {
		return nil, ErrInvalidKey
	}

	b := &Box{}
	copy(b.key[:], raw)

	return b, nil
}

// GenerateKey returns a new random base64 encoded key.
func GenerateKey() (string, error) {
	var key [KeySize]byte
	if _, err := io.ReadFull(rand.Reader, key[:]); err != nil {
		return "", err //nolint:wrapcheck
	}

	return base64.StdEncoding.EncodeToString(key[:]), nil
}

// Seal encrypts plain. The random nonce is prepended to the result.
func (b *Box) Seal(plain []byte) ([]byte, error) {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, err //nolint:wrapcheck
	}

	return secretbox.Seal(nonce[:], plain, &nonce, &b.key), nil
}

// Open decrypts a box created by Seal.
func (b *Box) Open(sealed []byte) ([]byte, error) {
	if len(sealed) < nonceSize+secretbox.Overhead {
		return nil, ErrOpen
	}

	var nonce [nonceSize]byte
	copy(nonce[:], sealed[:nonceSize])

	plain, ok := secretbox.Open(nil, sealed[nonceSize:], &nonce, &b.key)
	if !ok {
		return nil, ErrOpen
	}

	return plain, nil
}
