package chain

import (
	"encoding/hex"
	"strings"
)

// FormatMessage renders msg as hex, one 16-byte block per line
func FormatMessage(msg []byte) string {
	var sb strings.Builder
	for i := 0; i < len(msg); i += BlockSize {
		end := i + BlockSize
		if end > len(msg) {
			end = len(msg)
		}
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(hex.EncodeToString(msg[i:end]))
	}
	return sb.String()
}
