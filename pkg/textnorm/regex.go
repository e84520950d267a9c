package textnorm

import "regexp"

// Pre-compiled regular expressions for performance
var (
	// Byte patterns produced by decoding UTF-8 as Windows-1252, plus the
	// replacement character in both its decoded and double-decoded forms.
	mojibakeMarkerRegex = regexp.MustCompile(`â€|Ã|Â|ðŸ|ï¿½|\x{FFFD}`)

	// Numeric character references
	decimalEntityRegex = regexp.MustCompile(`&#(\d+);`)
	hexEntityRegex     = regexp.MustCompile(`&#[xX]([0-9a-fA-F]+);`)
)
