// Package storage keeps passphrase-sealed files. A file is a JSON envelope
// holding the PBKDF2 salt and parameters next to a ciphertext from the
// chain package.
//
// The envelope carries no MAC. A wrong passphrase is reported when the
// decrypted padding does not check out; tampering is not detected.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Davincible/rijndael/pkg/crypto/chain"
	"github.com/Davincible/rijndael/pkg/crypto/keys"
	"github.com/Davincible/rijndael/pkg/secure"
)

const (
	SaltSize        = 32
	EnvelopeVersion = 1
)

// ErrWrongPassphrase is returned when a sealed file does not decrypt cleanly
var ErrWrongPassphrase = errors.New("wrong passphrase or corrupted file")

// Options control key derivation for new files
type Options struct {
	KeyBits    int
	Iterations int
	SaltSize   int
}

func DefaultOptions() Options {
	return Options{
		KeyBits:    256,
		Iterations: keys.DefaultIterations,
		SaltSize:   SaltSize,
	}
}

type SecureStorage struct {
	filepath string
	opts     Options
}

type Envelope struct {
	Version    int    `json:"version"`
	KeyBits    int    `json:"key_bits"`
	Iterations int    `json:"iterations"`
	Salt       []byte `json:"salt"`
	Ciphertext []byte `json:"ciphertext"`
}

func NewSecureStorage(filepath string, opts Options) *SecureStorage {
	if opts.KeyBits == 0 {
		opts.KeyBits = DefaultOptions().KeyBits
	}
	if opts.Iterations <= 0 {
		opts.Iterations = keys.DefaultIterations
	}
	if opts.SaltSize <= 0 {
		opts.SaltSize = SaltSize
	}
	return &SecureStorage{
		filepath: filepath,
		opts:     opts,
	}
}

// Path returns the file this storage reads and writes
func (s *SecureStorage) Path() string {
	return s.filepath
}

// Seal encrypts data under password into an envelope
func Seal(data, password []byte, opts Options) (*Envelope, error) {
	if len(password) == 0 {
		return nil, fmt.Errorf("password cannot be empty")
	}

	saltSize := opts.SaltSize
	if saltSize <= 0 {
		saltSize = SaltSize
	}
	salt, err := secure.SecureRandom(saltSize)
	if err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	key, err := keys.FromPassphrase(password, salt, opts.Iterations, opts.KeyBits)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	defer secure.Zero(key)

	ciphertext, err := chain.Encrypt(data, key, opts.KeyBits)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt: %w", err)
	}

	return &Envelope{
		Version:    EnvelopeVersion,
		KeyBits:    opts.KeyBits,
		Iterations: opts.Iterations,
		Salt:       salt,
		Ciphertext: ciphertext,
	}, nil
}

// Open decrypts an envelope with password
func Open(env *Envelope, password []byte) ([]byte, error) {
	if len(password) == 0 {
		return nil, fmt.Errorf("password cannot be empty")
	}
	if env.Version != EnvelopeVersion {
		return nil, fmt.Errorf("unsupported envelope version %d", env.Version)
	}

	key, err := keys.FromPassphrase(password, env.Salt, env.Iterations, env.KeyBits)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	defer secure.Zero(key)

	plaintext, err := chain.Decrypt(env.Ciphertext, key, env.KeyBits)
	if err != nil {
		if errors.Is(err, chain.ErrCorruptPadding) {
			return nil, ErrWrongPassphrase
		}
		return nil, fmt.Errorf("failed to decrypt: %w", err)
	}

	return plaintext, nil
}

func (s *SecureStorage) Save(data []byte, password []byte) error {
	env, err := Seal(data, password, s.opts)
	if err != nil {
		return err
	}

	jsonData, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal envelope: %w", err)
	}

	dir := filepath.Dir(s.filepath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(s.filepath, jsonData, 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

func (s *SecureStorage) Load(password []byte) ([]byte, error) {
	jsonData, err := os.ReadFile(s.filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var env Envelope
	if err := json.Unmarshal(jsonData, &env); err != nil {
		return nil, fmt.Errorf("failed to unmarshal envelope: %w", err)
	}

	return Open(&env, password)
}

func (s *SecureStorage) Exists() bool {
	_, err := os.Stat(s.filepath)
	return err == nil
}

// Delete overwrites the file with random bytes before removing it
func (s *SecureStorage) Delete() error {
	if !s.Exists() {
		return nil
	}

	info, err := os.Stat(s.filepath)
	if err != nil {
		return fmt.Errorf("failed to stat file for secure deletion: %w", err)
	}

	if info.Size() > 0 {
		noise, err := secure.SecureRandom(int(info.Size()))
		if err != nil {
			return fmt.Errorf("failed to overwrite file: %w", err)
		}
		if err := os.WriteFile(s.filepath, noise, 0600); err != nil {
			return fmt.Errorf("failed to overwrite file: %w", err)
		}
	}

	return os.Remove(s.filepath)
}
