// Package chain wraps the rijndael block cipher in a chained-block mode with
// length padding.
//
// A ciphertext is a random 16-byte IV, stored in the clear, followed by the
// padded message in cipher-block-chaining order: every plaintext block is
// xored with the previous ciphertext block (the IV for the first one) before
// encryption. Padding is a 0x80 marker, zeros, and the message length in
// bits in the final 8 bytes.
//
// This is not CBC with PKCS#7 and not any NIST mode. Nothing authenticates
// the ciphertext: a wrong key is usually noticed because the decoded
// length does not fit, but tampered ciphertext can decrypt to altered data
// without error. Add a MAC before trusting it with real data.
package chain

import (
	"errors"
	"fmt"
	"io"

	"github.com/Davincible/rijndael/pkg/crypto/rijndael"
	"github.com/Davincible/rijndael/pkg/secure"
)

// BlockSize is the cipher block size in bytes
const BlockSize = rijndael.BlockSize

var (
	// ErrInvalidCiphertextLength is returned when a ciphertext is not a
	// positive multiple of 16 bytes or is shorter than IV plus one block
	ErrInvalidCiphertextLength = errors.New("chain: invalid ciphertext length")

	// ErrCorruptPadding is returned when the decrypted length field does not
	// describe the decrypted buffer, which usually means a wrong key
	ErrCorruptPadding = errors.New("chain: corrupt padding")
)

// MinCiphertextSize is the size of the IV plus one padded block
const MinCiphertextSize = 2 * BlockSize

// CiphertextSize returns the ciphertext length for an n-byte message
func CiphertextSize(n int) int {
	padded, _ := ComputePadding(n)
	return BlockSize + padded
}

// Encrypt encrypts plaintext under a keyBits-bit key with a fresh IV from
// crypto/rand.
func Encrypt(plaintext, key []byte, keyBits int) ([]byte, error) {
	return EncryptWithRand(secure.Reader, plaintext, key, keyBits)
}

// EncryptWithRand is Encrypt with the IV read from rand
func EncryptWithRand(rand io.Reader, plaintext, key []byte, keyBits int) ([]byte, error) {
	schedule, err := rijndael.NewSchedule(key, keyBits)
	if err != nil {
		return nil, err
	}

	var iv Block
	if err := secure.Fill(rand, iv[:]); err != nil {
		return nil, fmt.Errorf("failed to generate IV: %w", err)
	}

	paddedLen, pad := ComputePadding(len(plaintext))
	padded := make([]byte, paddedLen)
	copy(padded, plaintext)
	copy(padded[len(plaintext):], pad)
	defer secure.Zero(padded)

	data, err := arenaFromBytes(padded)
	if err != nil {
		return nil, err
	}
	defer data.wipe()

	out := newArena(1 + data.len())
	out.set(0, iv)

	prev := iv
	for i := 0; i < data.len(); i++ {
		c := encryptBlock(schedule, xorBlocks(data.at(i), prev))
		out.set(i+1, c)
		prev = c
	}

	return out.bytes(0), nil
}

// Decrypt reverses Encrypt. The key and size must be the ones used to
// encrypt. On any error no plaintext is returned.
func Decrypt(ciphertext, key []byte, keyBits int) ([]byte, error) {
	if len(ciphertext) < MinCiphertextSize || len(ciphertext)%BlockSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidCiphertextLength, len(ciphertext))
	}

	schedule, err := rijndael.NewSchedule(key, keyBits)
	if err != nil {
		return nil, err
	}

	in, err := arenaFromBytes(ciphertext)
	if err != nil {
		return nil, err
	}

	out := newArena(in.len() - 1)
	defer out.wipe()

	prev := in.at(0)
	for i := 1; i < in.len(); i++ {
		c := in.at(i)
		out.set(i-1, xorBlocks(decryptBlock(schedule, c), prev))
		prev = c
	}

	padded := out.bytes(0)
	defer secure.Zero(padded)

	n, ok := decodeLength(padded)
	if !ok {
		return nil, ErrCorruptPadding
	}

	plaintext := make([]byte, n)
	copy(plaintext, padded[:n])
	return plaintext, nil
}

func encryptBlock(s *rijndael.Schedule, b Block) Block {
	return Block(s.EncryptState(rijndael.StateOf(b)).Array())
}

func decryptBlock(s *rijndael.Schedule, b Block) Block {
	return Block(s.DecryptState(rijndael.StateOf(b)).Array())
}
