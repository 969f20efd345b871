package rijndael

import (
	"crypto/aes"
	"encoding/hex"
	"fmt"
	mrand "math/rand"
	"strings"
	"testing"

	"github.com/Davincible/rijndael/pkg/crypto/gf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustHex(t testing.TB, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func TestSBoxKnownValues(t *testing.T) {
	tests := []struct {
		in, out byte
	}{
		{0x00, 0x63},
		{0x01, 0x7c},
		{0x53, 0xed},
		{0x10, 0xca},
		{0xff, 0x16},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.out, SubByte(tt.in), "sbox[%#02x]", tt.in)
		assert.Equal(t, tt.in, InvSubByte(tt.out), "invSbox[%#02x]", tt.out)
	}
	assert.Equal(t, byte(0x52), InvSubByte(0x00))
}

func TestSBoxBijective(t *testing.T) {
	fwd := SBox()
	inv := InvSBox()
	seen := make(map[byte]bool, 256)
	for x := 0; x < 256; x++ {
		require.Equal(t, byte(x), inv[fwd[x]], "invSbox[sbox[%#02x]]", x)
		require.Equal(t, byte(x), fwd[inv[x]], "sbox[invSbox[%#02x]]", x)
		seen[fwd[x]] = true
	}
	assert.Len(t, seen, 256)
}

func TestRcon(t *testing.T) {
	want := []byte{0x01, 0x02, 0x04, 0x08, 0x10, 0x20, 0x40, 0x80, 0x1b, 0x36}
	assert.Equal(t, want, rcon[1:])
}

func TestRounds(t *testing.T) {
	tests := []struct {
		bits   int
		nk, nr int
		err    bool
	}{
		{128, 4, 10, false},
		{192, 6, 12, false},
		{256, 8, 14, false},
		{0, 0, 0, true},
		{64, 0, 0, true},
		{512, 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d bits", tt.bits), func(t *testing.T) {
			nk, nr, err := Rounds(tt.bits)
			if tt.err {
				assert.ErrorIs(t, err, ErrInvalidKeySize)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.nk, nk)
			assert.Equal(t, tt.nr, nr)
		})
	}
}

func word(w [4][]byte, i int) string {
	return hex.EncodeToString([]byte{w[0][i], w[1][i], w[2][i], w[3][i]})
}

func TestExpandKeyFIPS197(t *testing.T) {
	tests := []struct {
		name   string
		key    string
		nk, nr int
		checks map[int]string
	}{
		{
			name: "AES-128 appendix A.1",
			key:  "2b7e151628aed2a6abf7158809cf4f3c",
			nk:   4, nr: 10,
			checks: map[int]string{0: "2b7e1516", 4: "a0fafe17", 5: "88542cb1", 43: "b6630ca6"},
		},
		{
			name: "AES-192 appendix A.2",
			key:  "8e73b0f7da0e6452c810f32b809079e562f8ead2522c6b7b",
			nk:   6, nr: 12,
			checks: map[int]string{6: "fe0c91f7", 51: "01002202"},
		},
		{
			name: "AES-256 appendix A.3",
			key:  "603deb1015ca71be2b73aef0857d77811f352c073b6108d72d9810a30914dff4",
			nk:   8, nr: 14,
			checks: map[int]string{8: "9ba35411", 12: "a8b09c1a", 59: "706c631e"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ExpandKey(mustHex(t, tt.key), tt.nk, tt.nr)
			assert.Len(t, w[0], 4*(tt.nr+1))
			for i, want := range tt.checks {
				assert.Equal(t, want, word(w, i), "w[%d]", i)
			}
		})
	}
}

func TestScheduleRoundKeys(t *testing.T) {
	key := mustHex(t, "2b7e151628aed2a6abf7158809cf4f3c")
	s, err := NewSchedule(key, 128)
	require.NoError(t, err)

	assert.Equal(t, 10, s.Rounds())
	assert.Equal(t, "2b7e151628aed2a6abf7158809cf4f3c", s.RoundKey(0).Hex())
	assert.Equal(t, "a0fafe1788542cb123a339392a6c7605", s.RoundKey(1).Hex())
	assert.Equal(t, "d014f9a8c9ee2589e13f0cc8b6630ca6", s.RoundKey(10).Hex())

	assert.Equal(t, s.RoundKey(0), s.InverseRoundKey(0))
	assert.Equal(t, s.RoundKey(10), s.InverseRoundKey(10))
	for r := 1; r < 10; r++ {
		assert.Equal(t, InvMixColumns(s.RoundKey(r)), s.InverseRoundKey(r))
	}
}

func TestScheduleDeterministic(t *testing.T) {
	rng := mrand.New(mrand.NewSource(7))
	for _, bits := range []int{128, 192, 256} {
		key := make([]byte, bits/8)
		rng.Read(key)

		a, err := NewSchedule(key, bits)
		require.NoError(t, err)
		b, err := NewSchedule(append([]byte(nil), key...), bits)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	}
}

func TestScheduleLeadingZeroKey(t *testing.T) {
	// Leading zero bytes are part of the key and change the schedule
	zeroLed := mustHex(t, "0000000000000000000000000000002a")
	short := mustHex(t, "2a000000000000000000000000000000")

	a, err := NewSchedule(zeroLed, 128)
	require.NoError(t, err)
	b, err := NewSchedule(short, 128)
	require.NoError(t, err)
	assert.Equal(t, zeroLed, a.RoundKey(0).Bytes())
	assert.NotEqual(t, a.RoundKey(10), b.RoundKey(10))
}

func TestNewScheduleInvalid(t *testing.T) {
	_, err := NewSchedule(make([]byte, 16), 192)
	assert.ErrorIs(t, err, ErrInvalidKeySize)

	_, err = NewSchedule(make([]byte, 15), 128)
	assert.ErrorIs(t, err, ErrInvalidKeySize)

	_, err = NewSchedule(make([]byte, 20), 160)
	assert.ErrorIs(t, err, ErrInvalidKeySize)

	_, err = NewCipher(make([]byte, 17))
	assert.ErrorIs(t, err, ErrInvalidKeySize)
}

func TestCipherFIPS197(t *testing.T) {
	tests := []struct {
		name, key, pt, ct string
	}{
		{
			name: "appendix B",
			key:  "2b7e151628aed2a6abf7158809cf4f3c",
			pt:   "3243f6a8885a308d313198a2e0370734",
			ct:   "3925841d02dc09fbdc118597196a0b32",
		},
		{
			name: "appendix C.1 AES-128",
			key:  "000102030405060708090a0b0c0d0e0f",
			pt:   "00112233445566778899aabbccddeeff",
			ct:   "69c4e0d86a7b0430d8cdb78070b4c55a",
		},
		{
			name: "appendix C.2 AES-192",
			key:  "000102030405060708090a0b0c0d0e0f1011121314151617",
			pt:   "00112233445566778899aabbccddeeff",
			ct:   "dda97ca4864cdfe06eaf70a0ec0d7191",
		},
		{
			name: "appendix C.3 AES-256",
			key:  "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f",
			pt:   "00112233445566778899aabbccddeeff",
			ct:   "8ea2b7ca516745bfeafc49904b496089",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			block, err := NewCipher(mustHex(t, tt.key))
			require.NoError(t, err)
			assert.Equal(t, BlockSize, block.BlockSize())

			out := make([]byte, BlockSize)
			block.Encrypt(out, mustHex(t, tt.pt))
			assert.Equal(t, tt.ct, hex.EncodeToString(out))

			back := make([]byte, BlockSize)
			block.Decrypt(back, out)
			assert.Equal(t, tt.pt, hex.EncodeToString(back))
		})
	}
}

func TestCipherMatchesStdlib(t *testing.T) {
	rng := mrand.New(mrand.NewSource(42))
	for _, bits := range []int{128, 192, 256} {
		for i := 0; i < 50; i++ {
			key := make([]byte, bits/8)
			pt := make([]byte, BlockSize)
			rng.Read(key)
			rng.Read(pt)

			ours, err := NewCipher(key)
			require.NoError(t, err)
			ref, err := aes.NewCipher(key)
			require.NoError(t, err)

			got := make([]byte, BlockSize)
			want := make([]byte, BlockSize)
			ours.Encrypt(got, pt)
			ref.Encrypt(want, pt)
			require.Equal(t, want, got, "bits=%d key=%x pt=%x", bits, key, pt)

			ours.Decrypt(got, want)
			require.Equal(t, pt, got)
		}
	}
}

func TestCipherShortBlockPanics(t *testing.T) {
	block, err := NewCipher(make([]byte, 16))
	require.NoError(t, err)
	assert.Panics(t, func() { block.Encrypt(make([]byte, 16), make([]byte, 15)) })
	assert.Panics(t, func() { block.Decrypt(make([]byte, 8), make([]byte, 16)) })
}

func TestStateLayout(t *testing.T) {
	in := mustHex(t, "000102030405060708090a0b0c0d0e0f")
	s, err := LoadState(in)
	require.NoError(t, err)

	assert.Equal(t, byte(0x01), s[1][0])
	assert.Equal(t, byte(0x04), s[0][1])
	assert.Equal(t, byte(0x0f), s[3][3])
	assert.Equal(t, in, s.Bytes())

	_, err = LoadState(in[:15])
	assert.Error(t, err)
}

func TestShiftRows(t *testing.T) {
	s, err := LoadState(mustHex(t, "000102030405060708090a0b0c0d0e0f"))
	require.NoError(t, err)

	shifted := ShiftRows(s)
	assert.Equal(t, "00050a0f04090e03080d02070c01060b", shifted.Hex())
	assert.Equal(t, s, InvShiftRows(shifted))

	// input untouched
	assert.Equal(t, "000102030405060708090a0b0c0d0e0f", s.Hex())
}

func TestMixColumns(t *testing.T) {
	// Known MixColumns column pairs
	s, err := LoadState(mustHex(t, "db135345f20a225c01010101c6c6c6c6"))
	require.NoError(t, err)

	mixed := MixColumns(s)
	assert.Equal(t, "8e4da1bc9fdc589d01010101c6c6c6c6", mixed.Hex())
	assert.Equal(t, s, InvMixColumns(mixed))
}

func TestRoundTransformInverses(t *testing.T) {
	rng := mrand.New(mrand.NewSource(3))
	buf := make([]byte, BlockSize)
	for i := 0; i < 100; i++ {
		rng.Read(buf)
		s, err := LoadState(buf)
		require.NoError(t, err)

		assert.Equal(t, s, InvSubBytes(SubBytes(s)))
		assert.Equal(t, s, InvShiftRows(ShiftRows(s)))
		assert.Equal(t, s, InvMixColumns(MixColumns(s)))
		assert.Equal(t, s, AddRoundKey(AddRoundKey(s, s), s))
	}
}

func TestInvMixMatrixIsInverse(t *testing.T) {
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			var sum byte
			for k := 0; k < 4; k++ {
				sum ^= gf.Multiply(mixMatrix[r][k], invMixMatrix[k][c])
			}
			want := byte(0)
			if r == c {
				want = 1
			}
			assert.Equal(t, want, sum, "(%d,%d)", r, c)
		}
	}
}

func TestFormat(t *testing.T) {
	logs := LogTables(16)
	assert.True(t, strings.HasPrefix(logs, "Generator: 0x03\nLog table:\n"))
	assert.Contains(t, logs, "Anti-log table:\n01 03 05 0f ")
	assert.Contains(t, logs, "Inverse table:\n00 01 8d f6 ")

	boxes := SBoxTables(16)
	assert.Contains(t, boxes, "S-Box table:\n63 7c 77 7b ")
	assert.Contains(t, boxes, "Inverse S-Box table:\n52 09 6a d5 ")
	// 256 entries + title per table, 16 per line
	assert.Equal(t, 2*17+1, strings.Count(boxes, "\n"))

	s, err := LoadState(mustHex(t, "000102030405060708090a0b0c0d0e0f"))
	require.NoError(t, err)
	assert.Equal(t, "00 04 08 0c \n01 05 09 0d \n02 06 0a 0e \n03 07 0b 0f \n", s.String())

	sched, err := NewSchedule(mustHex(t, "2b7e151628aed2a6abf7158809cf4f3c"), 128)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(sched.String()), "\n")
	assert.Len(t, lines, 11)
	assert.Equal(t, "d014f9a8c9ee2589e13f0cc8b6630ca6", lines[10])
	inv := strings.Split(strings.TrimSpace(sched.InverseString()), "\n")
	assert.Equal(t, lines[0], inv[0])
	assert.Equal(t, lines[10], inv[10])
}

func BenchmarkEncryptBlock(b *testing.B) {
	block, err := NewCipher(make([]byte, 16))
	if err != nil {
		b.Fatal(err)
	}
	buf := make([]byte, BlockSize)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		block.Encrypt(buf, buf)
	}
}

func BenchmarkNewSchedule(b *testing.B) {
	key := make([]byte, 32)
	for i := 0; i < b.N; i++ {
		if _, err := NewSchedule(key, 256); err != nil {
			b.Fatal(err)
		}
	}
}
