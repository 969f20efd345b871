package chain

import "encoding/binary"

const (
	// paddingMarker is the single 1 bit that terminates the message
	paddingMarker = 0x80

	// lengthSize is the width of the trailing big-endian bit length
	lengthSize = 8
)

// ComputePadding returns the padded length of an n-byte message and the
// bytes to append to it. The padding is a 0x80 marker, zero fill, and the
// message length in bits as a big-endian uint64 in the last 8 bytes of the
// final block:
//
//	n%16 == 0:  one extra block: 80 00*7 len
//	n%16 <  8:  marker, zeros, len in the tail of the current block
//	n%16 >= 8:  marker, zeros to the block end, then 00*8 len
func ComputePadding(n int) (int, []byte) {
	rem := n % BlockSize

	var padLen int
	switch {
	case rem == 0:
		padLen = BlockSize
	case rem < BlockSize-lengthSize:
		padLen = BlockSize - rem
	default:
		padLen = 2*BlockSize - rem
	}

	pad := make([]byte, padLen)
	pad[0] = paddingMarker
	binary.BigEndian.PutUint64(pad[padLen-lengthSize:], uint64(n)*8)

	return n + padLen, pad
}

// decodeLength reads the message length from the last 8 bytes of a padded
// buffer and checks that the buffer is exactly what ComputePadding produces
// for that length.
func decodeLength(padded []byte) (int, bool) {
	if len(padded) < BlockSize || len(padded)%BlockSize != 0 {
		return 0, false
	}

	bits := binary.BigEndian.Uint64(padded[len(padded)-lengthSize:])
	if bits%8 != 0 {
		return 0, false
	}
	bytes := bits / 8
	if bytes >= uint64(len(padded)) {
		return 0, false
	}

	n := int(bytes)
	total, pad := ComputePadding(n)
	if total != len(padded) {
		return 0, false
	}
	for i, b := range pad {
		if padded[n+i] != b {
			return 0, false
		}
	}
	return n, true
}
