package rijndael

import "github.com/Davincible/rijndael/pkg/crypto/gf"

// Affine transform masks. Rotating the mask left once per input bit walks
// the rows of the S-box matrix.
const (
	sboxMask    = 0x1F
	invSboxMask = 0x4A
	affineConst = 0x63
)

var (
	sbox    [256]byte
	invSbox [256]byte

	// rcon[i] is x^(i-1) in GF(256); index 0 is never read
	rcon [11]byte
)

func init() {
	inv := gf.Inverses()
	for i := 0; i < 256; i++ {
		sbox[i] = affine(inv[i], sboxMask) ^ affineConst
		invSbox[i] = gf.Inverse(affine(byte(i)^affineConst, invSboxMask))
	}

	rcon[0] = 0x8d
	for i := 1; i < len(rcon); i++ {
		rcon[i] = gf.Pow(0x02, i-1)
	}
}

// affine xors together one rotation of mask for every set bit of b
func affine(b, mask byte) byte {
	var sum byte
	for j := 0; j < 8; j++ {
		if b&1 == 1 {
			sum ^= mask
		}
		b >>= 1
		mask = mask<<1 | mask>>7
	}
	return sum
}

// SubByte substitutes b through the forward S-box
func SubByte(b byte) byte {
	return sbox[b]
}

// InvSubByte substitutes b through the inverse S-box
func InvSubByte(b byte) byte {
	return invSbox[b]
}

// SBox returns a copy of the forward substitution table
func SBox() [256]byte {
	return sbox
}

// InvSBox returns a copy of the inverse substitution table
func InvSBox() [256]byte {
	return invSbox
}
