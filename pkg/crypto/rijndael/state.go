package rijndael

import (
	"fmt"

	"github.com/Davincible/rijndael/pkg/crypto/gf"
)

// BlockSize is the AES block size in bytes
const BlockSize = 16

// State is one 128-bit block as a 4x4 byte matrix indexed [row][column].
// Byte i of a block sits at row i%4, column i/4.
//
// State is an array, so it is copied on assignment and every transformation
// below returns a new value without touching its argument.
type State [4][4]byte

var (
	mixMatrix = [4][4]byte{
		{0x02, 0x03, 0x01, 0x01},
		{0x01, 0x02, 0x03, 0x01},
		{0x01, 0x01, 0x02, 0x03},
		{0x03, 0x01, 0x01, 0x02},
	}
	invMixMatrix = [4][4]byte{
		{0x0E, 0x0B, 0x0D, 0x09},
		{0x09, 0x0E, 0x0B, 0x0D},
		{0x0D, 0x09, 0x0E, 0x0B},
		{0x0B, 0x0D, 0x09, 0x0E},
	}
)

// LoadState reads a 16-byte block in column-major order
func LoadState(block []byte) (State, error) {
	var s State
	if len(block) != BlockSize {
		return s, fmt.Errorf("block must be %d bytes, got %d", BlockSize, len(block))
	}
	for i, b := range block {
		s[i%4][i/4] = b
	}
	return s, nil
}

// StateOf loads a block array in column-major order
func StateOf(block [BlockSize]byte) State {
	var s State
	for i, b := range block {
		s[i%4][i/4] = b
	}
	return s
}

// Array returns the state as a block array
func (s State) Array() [BlockSize]byte {
	var out [BlockSize]byte
	s.Put(out[:])
	return out
}

// Bytes writes the state back out column-major
func (s State) Bytes() []byte {
	out := make([]byte, BlockSize)
	s.Put(out)
	return out
}

// Put stores the state column-major into dst, which must hold 16 bytes
func (s State) Put(dst []byte) {
	_ = dst[BlockSize-1]
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			dst[r+4*c] = s[r][c]
		}
	}
}

// SubBytes replaces every byte through the S-box
func SubBytes(s State) State {
	var res State
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			res[r][c] = sbox[s[r][c]]
		}
	}
	return res
}

// InvSubBytes replaces every byte through the inverse S-box
func InvSubBytes(s State) State {
	var res State
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			res[r][c] = invSbox[s[r][c]]
		}
	}
	return res
}

// ShiftRows rotates row r left by r positions
func ShiftRows(s State) State {
	var res State
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			res[r][c] = s[r][(c+r)%4]
		}
	}
	return res
}

// InvShiftRows rotates row r right by r positions
func InvShiftRows(s State) State {
	var res State
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			res[r][(c+r)%4] = s[r][c]
		}
	}
	return res
}

// MixColumns multiplies every column by the fixed MixColumns matrix
func MixColumns(s State) State {
	return mulColumns(mixMatrix, s)
}

// InvMixColumns multiplies every column by the inverse MixColumns matrix
func InvMixColumns(s State) State {
	return mulColumns(invMixMatrix, s)
}

func mulColumns(m [4][4]byte, s State) State {
	var res State
	for c := 0; c < 4; c++ {
		for k := 0; k < 4; k++ {
			for r := 0; r < 4; r++ {
				res[r][c] = gf.Add(res[r][c], gf.Multiply(m[r][k], s[k][c]))
			}
		}
	}
	return res
}

// AddRoundKey xors the state with a round key
func AddRoundKey(s, key State) State {
	return Xor(s, key)
}

// Xor returns the byte-wise xor of two states
func Xor(a, b State) State {
	var res State
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			res[r][c] = gf.Add(a[r][c], b[r][c])
		}
	}
	return res
}
