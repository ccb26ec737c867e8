package tn3270

import (
	"strings"
	"unicode"

	"golang.org/x/text/encoding/charmap"
)

// EBCDIC renders CP037 bytes as text with control characters shown as '.'.
func EBCDIC(b []byte) string {
	s, err := charmap.CodePage037.NewDecoder().Bytes(b)
	if err != nil {
		return strings.Repeat(".", len(b))
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return '.'
		}
		return r
	}, string(s))
}
