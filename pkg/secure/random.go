package secure

import (
	"crypto/rand"
	"fmt"
	"io"
)

// Reader is the process-wide source of IVs and keys
var Reader io.Reader = rand.Reader

// Fill reads len(b) random bytes from r into b. On failure b is zeroed.
func Fill(r io.Reader, b []byte) error {
	if _, err := io.ReadFull(r, b); err != nil {
		Zero(b)
		return fmt.Errorf("failed to read random bytes: %w", err)
	}
	return nil
}

// RandomBytes returns n bytes read from r
func RandomBytes(r io.Reader, n int) ([]byte, error) {
	if n <= 0 {
		return nil, fmt.Errorf("invalid length: %d", n)
	}

	b := make([]byte, n)
	if err := Fill(r, b); err != nil {
		return nil, err
	}
	return b, nil
}

// SecureRandom returns n bytes from crypto/rand
func SecureRandom(n int) ([]byte, error) {
	return RandomBytes(Reader, n)
}
