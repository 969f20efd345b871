package secure

import (
	"crypto/subtle"
	"fmt"
	"runtime"
	"sync"
)

// Zero overwrites b with zeros
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(b)
}

func ConstantTimeCompare(x, y []byte) bool {
	if len(x) != len(y) {
		return false
	}
	return subtle.ConstantTimeCompare(x, y) == 1
}

// KeyMaterial is a fixed-width cipher key. It keeps its own copy of the
// bytes so callers can wipe theirs, and it never passes through an integer
// type that could drop leading zero bytes.
type KeyMaterial struct {
	data []byte
	mu   sync.RWMutex
}

// NewKeyMaterial copies a 16, 24 or 32-byte key
func NewKeyMaterial(key []byte) (*KeyMaterial, error) {
	switch len(key) {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("key must be 16, 24 or 32 bytes, got %d", len(key))
	}

	km := &KeyMaterial{data: make([]byte, len(key))}
	copy(km.data, key)
	return km, nil
}

// GenerateKey returns a fresh random key of keyBits bits
func GenerateKey(keyBits int) (*KeyMaterial, error) {
	switch keyBits {
	case 128, 192, 256:
	default:
		return nil, fmt.Errorf("key size must be 128, 192 or 256 bits, got %d", keyBits)
	}

	b, err := SecureRandom(keyBits / 8)
	if err != nil {
		return nil, err
	}
	defer Zero(b)
	return NewKeyMaterial(b)
}

// Bytes returns a copy of the key
func (km *KeyMaterial) Bytes() []byte {
	km.mu.RLock()
	defer km.mu.RUnlock()

	result := make([]byte, len(km.data))
	copy(result, km.data)
	return result
}

// Bits returns the key size in bits, 0 once destroyed
func (km *KeyMaterial) Bits() int {
	km.mu.RLock()
	defer km.mu.RUnlock()
	return len(km.data) * 8
}

// Equal compares two keys in constant time
func (km *KeyMaterial) Equal(other *KeyMaterial) bool {
	a, b := km.Bytes(), other.Bytes()
	defer Zero(a)
	defer Zero(b)
	return ConstantTimeCompare(a, b)
}

// Destroy wipes the key. The value must not be used afterwards.
func (km *KeyMaterial) Destroy() {
	km.mu.Lock()
	defer km.mu.Unlock()

	Zero(km.data)
	km.data = nil
}
