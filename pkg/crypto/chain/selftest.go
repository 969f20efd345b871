package chain

import (
	"bytes"
	"fmt"
	"io"

	"github.com/Davincible/rijndael/pkg/crypto/rijndael"
	"github.com/Davincible/rijndael/pkg/secure"
)

// Trial is one round trip of the self test
type Trial struct {
	Length     int
	Key        []byte
	Plaintext  []byte
	Ciphertext []byte
	Decrypted  []byte
	Err        error
	OK         bool
}

// Report summarizes a self test run for one key size
type Report struct {
	KeyBits  int   `json:"key_bits"`
	Total    int   `json:"total"`
	Passed   int   `json:"passed"`
	Failed   int   `json:"failed"`
	Failures []int `json:"failures,omitempty"`
}

// SelfTest encrypts and decrypts random messages of 1..maxLen bytes, each
// under a fresh random key, and counts the round trips that fail. observe,
// if not nil, sees every trial. Randomness comes from rand.
func SelfTest(rand io.Reader, keyBits, maxLen int, observe func(Trial)) (*Report, error) {
	if maxLen <= 0 {
		return nil, fmt.Errorf("max message length must be positive, got %d", maxLen)
	}
	if _, _, err := rijndael.Rounds(keyBits); err != nil {
		return nil, err
	}

	report := &Report{KeyBits: keyBits}
	for n := 1; n <= maxLen; n++ {
		trial := Trial{Length: n}

		var err error
		trial.Plaintext, err = secure.RandomBytes(rand, n)
		if err != nil {
			return nil, err
		}
		trial.Key, err = secure.RandomBytes(rand, keyBits/8)
		if err != nil {
			return nil, err
		}

		trial.Ciphertext, err = EncryptWithRand(rand, trial.Plaintext, trial.Key, keyBits)
		if err != nil {
			return nil, fmt.Errorf("encrypt %d bytes: %w", n, err)
		}
		trial.Decrypted, trial.Err = Decrypt(trial.Ciphertext, trial.Key, keyBits)
		trial.OK = trial.Err == nil && bytes.Equal(trial.Plaintext, trial.Decrypted)

		report.Total++
		if trial.OK {
			report.Passed++
		} else {
			report.Failed++
			report.Failures = append(report.Failures, n)
		}

		if observe != nil {
			observe(trial)
		}
	}

	return report, nil
}
