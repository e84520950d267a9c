package textnorm

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// unmappableByte stands in for runes that have no Windows-1252 byte.
const unmappableByte = '?'

// MojibakeScore counts the mojibake marker sequences in s. A score of zero
// means the string shows no sign of Windows-1252 corruption.
func MojibakeScore(s string) int {
	if s == "" {
		return 0
	}
	return len(mojibakeMarkerRegex.FindAllStringIndex(s, -1))
}

// RepairMojibake reverses a UTF-8-read-as-Windows-1252 decoding. Each rune is
// turned back into the Windows-1252 byte it was decoded from and the bytes are
// read again as UTF-8. The candidate is returned only if it is valid UTF-8 and
// scores strictly lower than s; otherwise s is returned unchanged.
func RepairMojibake(s string) string {
	if s == "" || !mojibakeMarkerRegex.MatchString(s) {
		return s
	}

	before := MojibakeScore(s)
	candidate, ok := reencodeWindows1252(s)
	if !ok {
		return s
	}

	if MojibakeScore(candidate) < before {
		return candidate
	}
	return s
}

func reencodeWindows1252(s string) (string, bool) {
	buf := make([]byte, 0, len(s))
	for _, r := range s {
		buf = append(buf, windows1252Byte(r))
	}
	if !utf8.Valid(buf) {
		return "", false
	}
	return string(buf), true
}

// windows1252Byte maps Latin-1 runes to their own value and the 0x80–0x9F
// punctuation (curly quotes, dashes, €, ™, …) through the Windows-1252 table.
func windows1252Byte(r rune) byte {
	if r >= 0 && r <= 0xFF {
		return byte(r)
	}
	if b, ok := charmap.Windows1252.EncodeRune(r); ok {
		return b
	}
	return unmappableByte
}
