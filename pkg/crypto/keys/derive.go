package keys

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tyler-smith/go-bip32"
)

const (
	// HardenedKeyOffset marks a hardened child index
	HardenedKeyOffset = uint32(0x80000000)

	// DefaultPath is the derivation path used when none is given
	DefaultPath = "m/0'/0'"
)

// ParsePath parses a BIP-32 path such as m/0'/1/2h into child indexes
func ParsePath(path string) ([]uint32, error) {
	path = strings.TrimSpace(path)
	if path == "m" || path == "M" {
		return nil, nil
	}
	if !strings.HasPrefix(path, "m/") && !strings.HasPrefix(path, "M/") {
		return nil, fmt.Errorf("path must start with 'm/' or 'M/'")
	}

	segments := strings.Split(path, "/")[1:]
	indexes := make([]uint32, 0, len(segments))
	for _, segment := range segments {
		if segment == "" {
			return nil, fmt.Errorf("empty segment in path '%s'", path)
		}

		hardened := strings.HasSuffix(segment, "'") || strings.HasSuffix(segment, "h")
		if hardened {
			segment = strings.TrimSuffix(strings.TrimSuffix(segment, "'"), "h")
		}

		index, err := strconv.ParseUint(segment, 10, 31)
		if err != nil {
			return nil, fmt.Errorf("invalid path segment '%s': %w", segment, err)
		}

		child := uint32(index)
		if hardened {
			child += HardenedKeyOffset
		}
		indexes = append(indexes, child)
	}

	return indexes, nil
}

// DeriveFromSeed walks path from the BIP-32 master key of seed and returns
// the first keyBits/8 bytes of the resulting private key
func DeriveFromSeed(seed []byte, path string, keyBits int) ([]byte, error) {
	if err := checkBits(keyBits); err != nil {
		return nil, err
	}
	if len(seed) < 16 {
		return nil, fmt.Errorf("seed must be at least 16 bytes")
	}

	indexes, err := ParsePath(path)
	if err != nil {
		return nil, err
	}

	current, err := bip32.NewMasterKey(seed)
	if err != nil {
		return nil, fmt.Errorf("failed to create master key: %w", err)
	}

	for _, index := range indexes {
		current, err = current.NewChildKey(index)
		if err != nil {
			return nil, fmt.Errorf("failed to derive child key at index %d: %w", index, err)
		}
	}

	// Private keys are 32 bytes; the library may hand back fewer when the
	// scalar has leading zero bytes
	private := leftPad(current.Key, 32)
	key := make([]byte, keyBits/8)
	copy(key, private)
	return key, nil
}

// DeriveFromMnemonic is DeriveFromSeed on the BIP-39 seed of words
func DeriveFromMnemonic(words, passphrase, path string, keyBits int) ([]byte, error) {
	seed, err := Seed(words, passphrase)
	if err != nil {
		return nil, err
	}
	return DeriveFromSeed(seed, path, keyBits)
}
