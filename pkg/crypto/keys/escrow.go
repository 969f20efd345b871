package keys

import (
	"fmt"

	"github.com/hashicorp/vault/shamir"
)

// EscrowConfig sets how many shares a key is split into and how many are
// needed to rebuild it
type EscrowConfig struct {
	Parts     int
	Threshold int
}

func (c *EscrowConfig) Validate() error {
	if c.Parts < 2 {
		return fmt.Errorf("parts must be at least 2, got %d", c.Parts)
	}
	if c.Threshold < 2 {
		return fmt.Errorf("threshold must be at least 2, got %d", c.Threshold)
	}
	if c.Threshold > c.Parts {
		return fmt.Errorf("threshold (%d) cannot be greater than parts (%d)", c.Threshold, c.Parts)
	}
	if c.Parts > 255 {
		return fmt.Errorf("parts cannot exceed 255, got %d", c.Parts)
	}
	return nil
}

// SplitKey splits a cipher key into Shamir shares. Each share is one byte
// longer than the key.
func SplitKey(key []byte, config EscrowConfig) ([][]byte, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid escrow config: %w", err)
	}
	if err := checkBits(len(key) * 8); err != nil {
		return nil, err
	}

	shares, err := shamir.Split(key, config.Parts, config.Threshold)
	if err != nil {
		return nil, fmt.Errorf("failed to split key: %w", err)
	}
	return shares, nil
}

// CombineKey rebuilds a key from threshold or more shares. With too few
// shares the result is a wrong key of the right size, not an error.
func CombineKey(shares [][]byte) ([]byte, error) {
	if len(shares) < 2 {
		return nil, fmt.Errorf("at least 2 shares are required for reconstruction")
	}
	for i, share := range shares {
		if len(share) == 0 {
			return nil, fmt.Errorf("share %d has empty data", i+1)
		}
	}

	key, err := shamir.Combine(shares)
	if err != nil {
		return nil, fmt.Errorf("failed to combine shares: %w", err)
	}
	if err := checkBits(len(key) * 8); err != nil {
		return nil, err
	}
	return key, nil
}
