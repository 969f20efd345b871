package rijndael

import (
	"errors"
	"fmt"
)

// ErrInvalidKeySize is returned for key sizes other than 128, 192 or 256 bits,
// or when the key material does not match the requested size.
var ErrInvalidKeySize = errors.New("rijndael: invalid key size")

// Supported key sizes in bits
const (
	Key128 = 128
	Key192 = 192
	Key256 = 256
)

// Rounds maps a key size in bits to Nk (key words) and Nr (rounds)
func Rounds(keyBits int) (nk, nr int, err error) {
	switch keyBits {
	case Key128:
		return 4, 10, nil
	case Key192:
		return 6, 12, nil
	case Key256:
		return 8, 14, nil
	default:
		return 0, 0, fmt.Errorf("%w: %d bits", ErrInvalidKeySize, keyBits)
	}
}

// ExpandKey runs the key expansion for a key of nk words and nr rounds.
// The result holds 4*(nr+1) words; w[row][i] is byte row of word i.
// key must be exactly 4*nk bytes.
func ExpandKey(key []byte, nk, nr int) [4][]byte {
	total := 4 * (nr + 1)
	var w [4][]byte
	for row := range w {
		w[row] = make([]byte, total)
	}

	for i := 0; i < nk; i++ {
		for row := 0; row < 4; row++ {
			w[row][i] = key[row+4*i]
		}
	}

	var temp [4]byte
	for i := nk; i < total; i++ {
		for row := 0; row < 4; row++ {
			temp[row] = w[row][i-1]
		}
		if i%nk == 0 {
			temp = subWord(rotWord(temp))
			temp[0] ^= rcon[i/nk]
		} else if nk > 6 && i%nk == 4 {
			temp = subWord(temp)
		}
		for row := 0; row < 4; row++ {
			w[row][i] = w[row][i-nk] ^ temp[row]
		}
	}

	return w
}

func rotWord(w [4]byte) [4]byte {
	return [4]byte{w[1], w[2], w[3], w[0]}
}

func subWord(w [4]byte) [4]byte {
	return [4]byte{sbox[w[0]], sbox[w[1]], sbox[w[2]], sbox[w[3]]}
}

// Schedule holds the round keys for one key: the forward keys used by the
// cipher and the InvMixColumns-adjusted keys used by the equivalent inverse
// cipher.
type Schedule struct {
	nr      int
	keys    []State
	invKeys []State
}

// NewSchedule expands key for a cipher of keyBits bits. The key is taken as
// a fixed-width byte string; len(key)*8 must equal keyBits.
func NewSchedule(key []byte, keyBits int) (*Schedule, error) {
	nk, nr, err := Rounds(keyBits)
	if err != nil {
		return nil, err
	}
	if len(key) != 4*nk {
		return nil, fmt.Errorf("%w: %d-bit key needs %d bytes, got %d",
			ErrInvalidKeySize, keyBits, 4*nk, len(key))
	}

	w := ExpandKey(key, nk, nr)

	s := &Schedule{
		nr:      nr,
		keys:    make([]State, nr+1),
		invKeys: make([]State, nr+1),
	}
	for round := 0; round <= nr; round++ {
		var k State
		for c := 0; c < 4; c++ {
			for row := 0; row < 4; row++ {
				k[row][c] = w[row][4*round+c]
			}
		}
		s.keys[round] = k

		if round == 0 || round == nr {
			s.invKeys[round] = k
		} else {
			s.invKeys[round] = InvMixColumns(k)
		}
	}

	return s, nil
}

// Rounds returns Nr
func (s *Schedule) Rounds() int {
	return s.nr
}

// RoundKey returns the forward key for round r (0..Nr)
func (s *Schedule) RoundKey(r int) State {
	return s.keys[r]
}

// InverseRoundKey returns the decryption key for round r (0..Nr)
func (s *Schedule) InverseRoundKey(r int) State {
	return s.invKeys[r]
}

// EncryptState runs the forward cipher on one block
func (s *Schedule) EncryptState(in State) State {
	state := AddRoundKey(in, s.keys[0])
	for round := 1; round < s.nr; round++ {
		state = AddRoundKey(MixColumns(ShiftRows(SubBytes(state))), s.keys[round])
	}
	return AddRoundKey(ShiftRows(SubBytes(state)), s.keys[s.nr])
}

// DecryptState runs the equivalent inverse cipher on one block
func (s *Schedule) DecryptState(in State) State {
	state := AddRoundKey(in, s.invKeys[s.nr])
	for round := s.nr - 1; round > 0; round-- {
		state = AddRoundKey(InvMixColumns(InvShiftRows(InvSubBytes(state))), s.invKeys[round])
	}
	return AddRoundKey(InvShiftRows(InvSubBytes(state)), s.invKeys[0])
}
