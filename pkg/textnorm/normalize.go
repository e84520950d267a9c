package textnorm

import (
	"strings"

	"github.com/dmitrymomot/textfix/pkg/jsonvalue"
)

// Mojibake must be repaired before entities are decoded: entity text is
// plain ASCII and survives mis-decoding, raw multi-byte text does not.
var normalizePass = Compose(RepairMojibake, DecodeEntities, ReplaceNBSP)

// ReplaceNBSP turns non-breaking spaces into ordinary spaces.
func ReplaceNBSP(s string) string {
	return strings.ReplaceAll(s, "\u00a0", " ")
}

// Normalize repairs mojibake, decodes entities and replaces non-breaking
// spaces, repeating the pass until the text no longer changes. Every pass
// that changes the text makes it strictly shorter, so the loop terminates and
// Normalize(Normalize(s)) == Normalize(s) for every s.
func Normalize(s string) string {
	if s == "" {
		return s
	}
	for {
		next := normalizePass(s)
		if next == s {
			return s
		}
		s = next
	}
}

// NormalizeValue applies Normalize to every string leaf of v. The result has
// the same shape as v and is Equal to it when no leaf needed repair.
func NormalizeValue(v jsonvalue.Value) jsonvalue.Value {
	return jsonvalue.MapStrings(v, Normalize)
}

// NeedsRepair reports whether Normalize would change s.
func NeedsRepair(s string) bool {
	return s != "" && Normalize(s) != s
}
