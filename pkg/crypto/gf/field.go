// Package gf implements arithmetic in GF(256), the field AES works in.
//
// Elements are bytes read as polynomials over GF(2) modulo the Rijndael
// polynomial x^8 + x^4 + x^3 + x + 1 (0x11B). Multiplication goes through
// log/anti-log tables generated from 0x03; the tables are built once at
// package init and never written again.
package gf

const (
	// Polynomial is the Rijndael reduction polynomial x^8 + x^4 + x^3 + x + 1
	Polynomial = 0x11B

	// Generator is the primitive element the log tables are built from
	Generator = 0x03

	// reduction is the low byte of Polynomial, xored in when a doubling overflows
	reduction = byte(Polynomial & 0xFF)
)

var (
	antilog [256]byte
	logt    [256]byte
	inverse [256]byte
)

func init() {
	// Multiplying by 3 is doubling then adding the original value
	antilog[0] = 1
	for i := 1; i < 256; i++ {
		prev := antilog[i-1]
		antilog[i] = prev ^ Double(prev)
		logt[antilog[i]] = byte(i)
	}

	// log(0) is undefined; leave it at 0
	inverse[0] = 0
	for i := 1; i < 256; i++ {
		inverse[i] = antilog[255-int(logt[i])]
	}
}

// Add adds two field elements (XOR)
func Add(a, b byte) byte {
	return a ^ b
}

// Double multiplies a by x (0x02), reducing modulo the Rijndael polynomial
func Double(a byte) byte {
	if a&0x80 == 0 {
		return a << 1
	}
	return (a << 1) ^ reduction
}

// Multiply returns the field product of a and b
func Multiply(a, b byte) byte {
	if a == 0 || b == 0 {
		return 0
	}
	return antilog[(int(logt[a])+int(logt[b]))%255]
}

// Inverse returns the multiplicative inverse of a. Zero maps to zero.
func Inverse(a byte) byte {
	return inverse[a]
}

// Pow raises a to the n-th power. Negative n gives powers of the inverse.
func Pow(a byte, n int) byte {
	if n == 0 {
		return 1
	}
	if a == 0 {
		return 0
	}
	n = ((n % 255) + 255) % 255
	return antilog[(int(logt[a])*n)%255]
}

// Log returns a copy of the log table. Entry 0 is meaningless.
func Log() [256]byte {
	return logt
}

// Antilog returns a copy of the anti-log (exponentiation) table
func Antilog() [256]byte {
	return antilog
}

// Inverses returns a copy of the multiplicative inverse table
func Inverses() [256]byte {
	return inverse
}
