package secure

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZero(t *testing.T) {
	data := []byte("sensitive data to be zeroed")
	original := make([]byte, len(data))
	copy(original, data)

	Zero(data)

	for _, b := range data {
		assert.Equal(t, byte(0), b)
	}
	assert.NotEqual(t, original, data)
}

func TestConstantTimeCompare(t *testing.T) {
	a := []byte("test data")
	b := []byte("test data")
	c := []byte("different")
	d := []byte("test dat")

	assert.True(t, ConstantTimeCompare(a, b))
	assert.False(t, ConstantTimeCompare(a, c))
	assert.False(t, ConstantTimeCompare(a, d))
	assert.False(t, ConstantTimeCompare(a, []byte{}))
}

func TestKeyMaterial(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		wantErr bool
	}{
		{"128-bit", 16, false},
		{"192-bit", 24, false},
		{"256-bit", 32, false},
		{"Empty", 0, true},
		{"Odd size", 20, true},
		{"Too large", 64, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := bytes.Repeat([]byte{0x00}, tt.size)
			if tt.size > 0 {
				key[tt.size-1] = 0x2a
			}

			km, err := NewKeyMaterial(key)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, km)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.size*8, km.Bits())

			// Leading zero bytes survive
			assert.Equal(t, key, km.Bytes())

			// The key owns its copy
			key[0] = 0xff
			assert.Equal(t, byte(0x00), km.Bytes()[0])

			km.Destroy()
			assert.Equal(t, 0, km.Bits())
			assert.Empty(t, km.Bytes())
		})
	}
}

func TestGenerateKey(t *testing.T) {
	for _, bits := range []int{128, 192, 256} {
		t.Run(fmt.Sprintf("%d bits", bits), func(t *testing.T) {
			a, err := GenerateKey(bits)
			require.NoError(t, err)
			b, err := GenerateKey(bits)
			require.NoError(t, err)

			assert.Equal(t, bits, a.Bits())
			assert.False(t, a.Equal(b))
			assert.True(t, a.Equal(a))
		})
	}

	_, err := GenerateKey(64)
	assert.Error(t, err)
}

func TestSecureRandom(t *testing.T) {
	sizes := []int{16, 32, 64, 128}

	for _, size := range sizes {
		t.Run(fmt.Sprintf("%d bytes", size), func(t *testing.T) {
			data, err := SecureRandom(size)
			require.NoError(t, err)
			assert.Len(t, data, size)

			data2, err := SecureRandom(size)
			require.NoError(t, err)
			assert.NotEqual(t, data, data2, "Random data should be different")
		})
	}

	_, err := SecureRandom(0)
	assert.Error(t, err)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("entropy exhausted")
}

func TestRandomBytesFromReader(t *testing.T) {
	src := bytes.NewReader([]byte{1, 2, 3, 4, 5})

	b, err := RandomBytes(src, 4)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, b)

	// Short read is an error
	_, err = RandomBytes(src, 4)
	assert.Error(t, err)

	_, err = RandomBytes(failingReader{}, 8)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "entropy exhausted")

	buf := []byte{9, 9, 9}
	assert.Error(t, Fill(failingReader{}, buf))
	assert.Equal(t, []byte{0, 0, 0}, buf)
}

func BenchmarkZero(b *testing.B) {
	data := make([]byte, 1024)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Zero(data)
	}
}

func BenchmarkConstantTimeCompare(b *testing.B) {
	a := bytes.Repeat([]byte{0x42}, 32)
	b1 := bytes.Repeat([]byte{0x42}, 32)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ConstantTimeCompare(a, b1)
	}
}
