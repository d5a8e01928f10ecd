// Package cryptox holds the client-side primitives for capsules: the
// SHA-256 hashes the server compares, and sealing of message bodies so the
// server only ever stores ciphertext.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/dmitrijs2005/gophcapsule/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	saltLen  = 16
	nonceLen = 12
	keyLen   = 32
)

var ErrMalformedSealed = errors.New("malformed sealed message")

// HashPassword returns the lowercase hex SHA-256 of the password.
func HashPassword(password []byte) string {
	sum := sha256.Sum256(password)
	return hex.EncodeToString(sum[:])
}

// HashEmail normalises the address (trimmed, lowercased) before hashing so
// that sender and recipient arrive at the same value.
func HashEmail(email string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(email))))
	return hex.EncodeToString(sum[:])
}

func DeriveKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, keyLen)
}

// Seal encrypts plaintext with AES-GCM under a key derived from password.
// The result is base64(salt || nonce || ciphertext).
func Seal(plaintext, password []byte) (string, error) {
	buf := common.GenerateRandByteArray(saltLen + nonceLen)
	salt, nonce := buf[:saltLen], buf[saltLen:]

	aead, err := newAEAD(DeriveKey(password, salt))
	if err != nil {
		return "", err
	}

	out := aead.Seal(buf, nonce, plaintext, nil)
	return base64.StdEncoding.EncodeToString(out), nil
}

// Open reverses Seal. A wrong password surfaces as an authentication error
// from the cipher.
func Open(sealed string, password []byte) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return nil, ErrMalformedSealed
	}
	if len(raw) < saltLen+nonceLen {
		return nil, ErrMalformedSealed
	}

	salt, nonce, ct := raw[:saltLen], raw[saltLen:saltLen+nonceLen], raw[saltLen+nonceLen:]

	aead, err := newAEAD(DeriveKey(password, salt))
	if err != nil {
		return nil, err
	}

	return aead.Open(nil, nonce, ct, nil)
}

func newAEAD(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
