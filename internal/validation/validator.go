// Package validation checks user input before it reaches the cipher and
// key packages.
package validation

import (
	"encoding/hex"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	hexPattern   = regexp.MustCompile(`^[0-9a-fA-F]+$`)
	pathPattern  = regexp.MustCompile(`^[mM](/\d+['h]?)+$`)
	splitPattern = regexp.MustCompile(`^(\d+)/(\d+)$`)
)

// stripHex drops surrounding space and an optional 0x prefix
func stripHex(input string) string {
	return strings.TrimPrefix(strings.TrimSpace(input), "0x")
}

func ValidateHex(input string) error {
	input = stripHex(input)
	if len(input) == 0 {
		return fmt.Errorf("hex string cannot be empty")
	}

	if len(input)%2 != 0 {
		return fmt.Errorf("hex string must have even length")
	}

	if !hexPattern.MatchString(input) {
		return fmt.Errorf("invalid hex characters")
	}

	return nil
}

func ValidateKeyBits(bits int) error {
	switch bits {
	case 128, 192, 256:
		return nil
	}
	return fmt.Errorf("key size must be 128, 192 or 256 bits (got %d)", bits)
}

// ValidateKeyHex checks that input is a hex key of exactly bits/8 bytes
func ValidateKeyHex(input string, bits int) error {
	if err := ValidateKeyBits(bits); err != nil {
		return err
	}
	if err := ValidateHex(input); err != nil {
		return fmt.Errorf("invalid key: %w", err)
	}
	if n := len(stripHex(input)) / 2; n != bits/8 {
		return fmt.Errorf("a %d-bit key needs %d bytes (%d hex characters), got %d bytes", bits, bits/8, bits/4, n)
	}
	return nil
}

// ValidateShare checks one hex escrow share. A share is the key plus one
// tag byte.
func ValidateShare(share string) error {
	if err := ValidateHex(share); err != nil {
		return fmt.Errorf("invalid share format: %w", err)
	}

	data, err := hex.DecodeString(stripHex(share))
	if err != nil {
		return fmt.Errorf("failed to decode share: %w", err)
	}

	switch len(data) {
	case 17, 25, 33:
		return nil
	}
	return fmt.Errorf("share has %d bytes, expected 17, 25 or 33", len(data))
}

// ValidateMnemonic checks the shape of a key mnemonic: 12, 18 or 24 lower
// case words. The checksum is verified when the key is decoded.
func ValidateMnemonic(words string) error {
	words = strings.TrimSpace(words)
	if words == "" {
		return fmt.Errorf("mnemonic cannot be empty")
	}

	wordList := strings.Fields(words)
	if !ValidateWordCount(len(wordList)) {
		return fmt.Errorf("mnemonic must have 12, 18 or 24 words (got %d)", len(wordList))
	}

	for i, word := range wordList {
		if len(word) < 3 || len(word) > 8 {
			return fmt.Errorf("word %d has invalid length: %s", i+1, word)
		}

		for _, ch := range word {
			if ch < 'a' || ch > 'z' {
				return fmt.Errorf("word %d contains invalid characters: %s", i+1, word)
			}
		}
	}

	return nil
}

func ValidateDerivationPath(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return fmt.Errorf("derivation path cannot be empty")
	}

	if !pathPattern.MatchString(path) {
		return fmt.Errorf("invalid derivation path format")
	}

	return nil
}

func ValidateSplitParams(parts, threshold int) error {
	if parts < 2 || parts > 255 {
		return fmt.Errorf("parts must be between 2 and 255 (got %d)", parts)
	}

	if threshold < 2 || threshold > parts {
		return fmt.Errorf("threshold must be between 2 and %d (got %d)", parts, threshold)
	}

	return nil
}

// ParseSplitSpec parses "N/T", N shares of which T rebuild the key
func ParseSplitSpec(spec string) (parts, threshold int, err error) {
	m := splitPattern.FindStringSubmatch(strings.TrimSpace(spec))
	if m == nil {
		return 0, 0, fmt.Errorf("split must look like PARTS/THRESHOLD, e.g. 5/3 (got %q)", spec)
	}

	parts, err = strconv.Atoi(m[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid parts: %w", err)
	}
	threshold, err = strconv.Atoi(m[2])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid threshold: %w", err)
	}

	if err := ValidateSplitParams(parts, threshold); err != nil {
		return 0, 0, err
	}
	return parts, threshold, nil
}

func ValidatePassphrase(passphrase string) error {
	if passphrase == "" {
		return fmt.Errorf("passphrase cannot be empty")
	}

	if len(passphrase) > 256 {
		return fmt.Errorf("passphrase too long (max 256 characters)")
	}

	for i, ch := range passphrase {
		if ch == 0 {
			return fmt.Errorf("passphrase contains null character at position %d", i)
		}
	}

	return nil
}

func ValidateColumns(cols int) error {
	if cols < 1 || cols > 256 {
		return fmt.Errorf("columns must be between 1 and 256 (got %d)", cols)
	}
	return nil
}

func SanitizeInput(input string) string {
	input = strings.TrimSpace(input)

	input = strings.ReplaceAll(input, "\r\n", "\n")
	input = strings.ReplaceAll(input, "\r", "\n")

	lines := strings.Split(input, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}

	return strings.Join(lines, "\n")
}

func ValidateWordCount(count int) bool {
	switch count {
	case 12, 18, 24:
		return true
	}
	return false
}
