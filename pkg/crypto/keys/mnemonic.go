package keys

import (
	"fmt"
	"strings"

	"github.com/tyler-smith/go-bip39"
)

// WordCount returns the mnemonic length for a key size: 12, 18 or 24 words
func WordCount(keyBits int) (int, error) {
	if err := checkBits(keyBits); err != nil {
		return 0, err
	}
	return (keyBits + keyBits/32) / 11, nil
}

// ToMnemonic encodes a 16, 24 or 32-byte key as a BIP-39 mnemonic, using
// the key itself as the entropy
func ToMnemonic(key []byte) (string, error) {
	if err := checkBits(len(key) * 8); err != nil {
		return "", err
	}

	m, err := bip39.NewMnemonic(key)
	if err != nil {
		return "", fmt.Errorf("failed to encode mnemonic: %w", err)
	}
	return m, nil
}

// FromMnemonic decodes a mnemonic made by ToMnemonic back into the key
func FromMnemonic(words string, keyBits int) ([]byte, error) {
	if err := checkBits(keyBits); err != nil {
		return nil, err
	}

	words = normalizeWords(words)
	if !bip39.IsMnemonicValid(words) {
		return nil, fmt.Errorf("invalid mnemonic phrase")
	}

	want, _ := WordCount(keyBits)
	if got := len(strings.Fields(words)); got != want {
		return nil, fmt.Errorf("%w: %d-bit key needs %d words, got %d", ErrKeySize, keyBits, want, got)
	}

	entropy, err := bip39.EntropyFromMnemonic(words)
	if err != nil {
		return nil, fmt.Errorf("failed to decode mnemonic: %w", err)
	}
	return leftPad(entropy, keyBits/8), nil
}

// Seed derives the 64-byte BIP-39 seed of any valid mnemonic
func Seed(words, passphrase string) ([]byte, error) {
	words = normalizeWords(words)
	if !bip39.IsMnemonicValid(words) {
		return nil, fmt.Errorf("invalid mnemonic phrase")
	}
	return bip39.NewSeed(words, passphrase), nil
}

// NewMnemonic returns a fresh random mnemonic for a keyBits-bit key
func NewMnemonic(keyBits int) (string, error) {
	if err := checkBits(keyBits); err != nil {
		return "", err
	}

	entropy, err := bip39.NewEntropy(keyBits)
	if err != nil {
		return "", fmt.Errorf("failed to generate entropy: %w", err)
	}
	return ToMnemonic(entropy)
}

func normalizeWords(words string) string {
	return strings.Join(strings.Fields(strings.ToLower(words)), " ")
}
