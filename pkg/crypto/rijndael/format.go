package rijndael

import (
	"fmt"
	"strings"

	"github.com/Davincible/rijndael/pkg/crypto/gf"
)

// LogTables renders the log, anti-log and inverse tables with cols entries per line
func LogTables(cols int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Generator: 0x%02x\n", gf.Generator)
	writeTable(&sb, "Log table:", gf.Log(), cols)
	sb.WriteString("\n\n")
	writeTable(&sb, "Anti-log table:", gf.Antilog(), cols)
	sb.WriteString("\n\n")
	writeTable(&sb, "Inverse table:", gf.Inverses(), cols)
	sb.WriteString("\n")
	return sb.String()
}

// SBoxTables renders the forward and inverse S-boxes with cols entries per line
func SBoxTables(cols int) string {
	var sb strings.Builder
	writeTable(&sb, "S-Box table:", sbox, cols)
	sb.WriteString("\n\n")
	writeTable(&sb, "Inverse S-Box table:", invSbox, cols)
	sb.WriteString("\n")
	return sb.String()
}

func writeTable(sb *strings.Builder, title string, table [256]byte, cols int) {
	if cols <= 0 {
		cols = 16
	}
	sb.WriteString(title)
	for i, b := range table {
		if i%cols == 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(sb, "%02x ", b)
	}
}

// String prints the state as four rows of hex bytes
func (s State) String() string {
	var sb strings.Builder
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			fmt.Fprintf(&sb, "%02x ", s[r][c])
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// Hex returns the block bytes of the state as a hex string
func (s State) Hex() string {
	return fmt.Sprintf("%x", s.Bytes())
}

// String lists the forward round keys, one per line
func (s *Schedule) String() string {
	return formatKeys(s.keys)
}

// InverseString lists the decryption round keys, one per line
func (s *Schedule) InverseString() string {
	return formatKeys(s.invKeys)
}

func formatKeys(keys []State) string {
	var sb strings.Builder
	for _, k := range keys {
		sb.WriteString(k.Hex())
		sb.WriteString("\n")
	}
	return sb.String()
}
