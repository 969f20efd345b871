// Package rijndael implements the AES block cipher from first principles:
// S-box generation from the GF(256) inverse table, key expansion for 128,
// 192 and 256-bit keys, and the four round transformations on a 4x4 State.
//
// The implementation is table driven and makes no attempt at constant-time
// execution. It is meant for study, not for protecting real data.
package rijndael

import (
	"crypto/cipher"
	"fmt"
)

type blockCipher struct {
	schedule *Schedule
}

// NewCipher returns a single-block AES cipher for key. The key size is
// taken from len(key), which must be 16, 24 or 32 bytes.
func NewCipher(key []byte) (cipher.Block, error) {
	s, err := NewSchedule(key, len(key)*8)
	if err != nil {
		return nil, err
	}
	return &blockCipher{schedule: s}, nil
}

func (b *blockCipher) BlockSize() int {
	return BlockSize
}

func (b *blockCipher) Encrypt(dst, src []byte) {
	in := mustLoad(src, dst)
	b.schedule.EncryptState(in).Put(dst)
}

func (b *blockCipher) Decrypt(dst, src []byte) {
	in := mustLoad(src, dst)
	b.schedule.DecryptState(in).Put(dst)
}

func mustLoad(src, dst []byte) State {
	if len(src) < BlockSize {
		panic("rijndael: input not full block")
	}
	if len(dst) < BlockSize {
		panic("rijndael: output not full block")
	}
	s, err := LoadState(src[:BlockSize])
	if err != nil {
		panic(fmt.Sprintf("rijndael: %v", err))
	}
	return s
}
