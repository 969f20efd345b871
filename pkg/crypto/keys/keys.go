// Package keys turns user-facing key material (hex strings, BIP-39
// mnemonics, passphrases, HD derivation paths, escrow shares) into the
// fixed-width byte keys the cipher takes.
//
// Every function returns exactly keyBits/8 bytes. Keys are never carried
// through integer types, so leading zero bytes are always kept.
package keys

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// ErrKeySize is returned when key material does not match the requested size
var ErrKeySize = errors.New("keys: key size mismatch")

const (
	// DefaultIterations is the PBKDF2 iteration count for passphrase keys
	DefaultIterations = 100000

	// DefaultSalt is used when a passphrase key has nowhere to store a salt
	DefaultSalt = "rijndael-encryption-v1"
)

// ValidBits reports whether keyBits is a supported AES key size
func ValidBits(keyBits int) bool {
	return keyBits == 128 || keyBits == 192 || keyBits == 256
}

func checkBits(keyBits int) error {
	if !ValidBits(keyBits) {
		return fmt.Errorf("%w: unsupported key size %d bits", ErrKeySize, keyBits)
	}
	return nil
}

// FromHex decodes a hex key of exactly keyBits/8 bytes
func FromHex(s string, keyBits int) ([]byte, error) {
	if err := checkBits(keyBits); err != nil {
		return nil, err
	}

	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	key, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex key: %w", err)
	}
	if len(key)*8 != keyBits {
		return nil, fmt.Errorf("%w: %d-bit key needs %d hex digits, got %d",
			ErrKeySize, keyBits, keyBits/4, len(s))
	}
	return key, nil
}

// ToHex encodes a key, leading zeros included
func ToHex(key []byte) string {
	return hex.EncodeToString(key)
}

// FromPassphrase stretches a passphrase into a key with PBKDF2-SHA256.
// iterations <= 0 selects DefaultIterations.
func FromPassphrase(passphrase, salt []byte, iterations, keyBits int) ([]byte, error) {
	if err := checkBits(keyBits); err != nil {
		return nil, err
	}
	if len(passphrase) == 0 {
		return nil, fmt.Errorf("passphrase cannot be empty")
	}
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	return pbkdf2.Key(passphrase, salt, iterations, keyBits/8, sha256.New), nil
}

// leftPad returns b widened to size bytes with leading zeros
func leftPad(b []byte, size int) []byte {
	if len(b) >= size {
		return b
	}
	out := make([]byte, size)
	copy(out[size-len(b):], b)
	return out
}
