package textnorm

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// namedEntities is applied in order, so "&amp;" is resolved first.
var namedEntities = [...]struct {
	entity string
	text   string
}{
	{"&amp;", "&"},
	{"&lt;", "<"},
	{"&gt;", ">"},
	{"&quot;", `"`},
	{"&apos;", "'"},
	{"&nbsp;", "\u00a0"},
	{"&ndash;", "\u2013"},
	{"&mdash;", "\u2014"},
	{"&hellip;", "\u2026"},
}

// DecodeEntities resolves the named entities &amp; &lt; &gt; &quot; &apos;
// &nbsp; &ndash; &mdash; &hellip; as well as decimal (&#233;) and hexadecimal
// (&#xE9; or &#XE9;) character references. Unknown names and references outside
// the Unicode range are kept verbatim.
func DecodeEntities(s string) string {
	if !strings.Contains(s, "&") {
		return s
	}

	for _, e := range namedEntities {
		s = strings.ReplaceAll(s, e.entity, e.text)
	}

	if strings.Contains(s, "&#") {
		s = replaceReferences(s, decimalEntityRegex.FindAllStringSubmatchIndex(s, -1), 10)
		s = replaceReferences(s, hexEntityRegex.FindAllStringSubmatchIndex(s, -1), 16)
	}
	return s
}

// replaceReferences rewrites the matched references in s. Each match holds the
// full reference span followed by the digit span.
func replaceReferences(s string, matches [][]int, base int) string {
	if len(matches) == 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	last := 0
	for _, m := range matches {
		b.WriteString(s[last:m[0]])
		if r, ok := parseCodepoint(s[m[2]:m[3]], base); ok {
			b.WriteRune(r)
		} else {
			b.WriteString(s[m[0]:m[1]])
		}
		last = m[1]
	}
	b.WriteString(s[last:])
	return b.String()
}

func parseCodepoint(digits string, base int) (rune, bool) {
	code, err := strconv.ParseUint(digits, base, 32)
	if err != nil || code > utf8.MaxRune {
		return 0, false
	}
	r := rune(code)
	// Surrogate halves cannot be encoded on their own.
	if !utf8.ValidRune(r) {
		return 0, false
	}
	return r, true
}
