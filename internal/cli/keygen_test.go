package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Davincible/rijndael/pkg/crypto/keys"
	"github.com/Davincible/rijndael/pkg/secure"
)

func TestVerifyShares(t *testing.T) {
	km, err := secure.GenerateKey(192)
	require.NoError(t, err)
	defer km.Destroy()

	key := km.Bytes()
	shares, err := keys.SplitKey(key, keys.EscrowConfig{Parts: 4, Threshold: 3})
	require.NoError(t, err)

	require.NoError(t, verifyShares(km, shares, 3))

	// A damaged share among the ones combined rebuilds some other key
	damaged := make([][]byte, len(shares))
	for i, share := range shares {
		damaged[i] = append([]byte(nil), share...)
	}
	damaged[3][0] ^= 0xff
	assert.Error(t, verifyShares(km, damaged, 3))

	// Shares of a different key
	other, err := secure.GenerateKey(192)
	require.NoError(t, err)
	assert.Error(t, verifyShares(other, shares, 3))

	assert.Error(t, verifyShares(km, shares[:2], 3))
}

func TestAddShares(t *testing.T) {
	km, err := secure.GenerateKey(128)
	require.NoError(t, err)

	result := &KeyResult{}
	require.NoError(t, addShares(result, km, 5, 2))
	assert.Len(t, result.Shares, 5)
	assert.Equal(t, 2, result.Threshold)

	assert.Error(t, addShares(&KeyResult{}, km, 2, 5))
}
