package textnorm_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/textfix/pkg/jsonvalue"
	"github.com/dmitrymomot/textfix/pkg/textnorm"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "mojibake", input: "parkâ€™s", expected: "park’s"},
		{name: "entities", input: "Caf&eacute;? Caf&#233;", expected: "Caf&eacute;? Café"},
		{name: "plain", input: "Plain text", expected: "Plain text"},
		{name: "nbsp entity becomes space", input: "Tom&nbsp;&amp;&nbsp;Jerry", expected: "Tom & Jerry"},
		{name: "raw nbsp becomes space", input: "caf\u00a0é", expected: "caf é"},
		{name: "mojibake nbsp", input: "1Â\u00a0km", expected: "1 km"},
		{name: "mojibake then entity", input: "Safariâ€™s &amp; more", expected: "Safari’s & more"},
		{name: "nested entities settle", input: "&amp;amp;", expected: "&"},
		{name: "entity that decodes to mojibake", input: "&#195;&#169;t&#195;&#169;", expected: "été"},
		{name: "empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, textnorm.Normalize(tt.input))
		})
	}
}

func TestNeedsRepair(t *testing.T) {
	assert.True(t, textnorm.NeedsRepair("parkâ€™s"))
	assert.True(t, textnorm.NeedsRepair("a&amp;b"))
	assert.False(t, textnorm.NeedsRepair("Plain text"))
	assert.False(t, textnorm.NeedsRepair(""))
}

func TestCompose(t *testing.T) {
	clean := textnorm.Compose(textnorm.RepairMojibake, strings.TrimSpace, strings.ToUpper)
	assert.Equal(t, "PARK’S", clean("  parkâ€™s "))
	assert.Equal(t, "x", textnorm.Apply("x"))
}

func TestNormalizeValue(t *testing.T) {
	input := jsonvalue.MustParse(`{"title":"Safariâ€™s Trip","days":3,"tags":["fun","Ã©vasion"]}`)

	out := textnorm.NormalizeValue(input)

	assert.Equal(t, `{"title":"Safari’s Trip","days":3,"tags":["fun","évasion"]}`, out.String())
	assert.True(t, jsonvalue.SameShape(input, out))
	days, _ := out.Get("days")
	assert.Equal(t, "3", days.String())
}

func TestNormalizeValue_CleanInputIsEqual(t *testing.T) {
	inputs := []string{
		`{"title":"Plain","days":3,"tags":["fun","évasion"],"note":null,"ok":true}`,
		`[[],{},"",0]`,
		`"Crème brûlée"`,
		`null`,
	}
	for _, in := range inputs {
		v := jsonvalue.MustParse(in)
		assert.True(t, jsonvalue.Equal(v, textnorm.NormalizeValue(v)), in)
	}
}

// fragments mixes clean text, corrupted text and entity-like input. Every
// concatenation of up to three fragments is checked against the invariants.
var fragments = []string{
	"",
	"Plain text",
	"parkâ€™s",
	"Ã©vasion",
	"Â",
	"Ã",
	"ðŸ˜Š",
	"�",
	"&amp;",
	"&amp;amp;lt;",
	"&#233;",
	"&#x1F600;",
	"&eacute;",
	"\u00a0",
	"CÂMARA",
	"中",
	"&",
	"#39;",
}

func eachCombination(fn func(s string)) {
	for _, a := range fragments {
		for _, b := range fragments {
			for _, c := range fragments {
				fn(a + b + c)
			}
		}
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	eachCombination(func(s string) {
		once := textnorm.Normalize(s)
		require.Equal(t, once, textnorm.Normalize(once), "input %q", s)
	})
}

func TestRepairMojibake_NeverIncreasesScore(t *testing.T) {
	eachCombination(func(s string) {
		repaired := textnorm.RepairMojibake(s)
		require.LessOrEqual(t, textnorm.MojibakeScore(repaired), textnorm.MojibakeScore(s), "input %q", s)
		if textnorm.MojibakeScore(s) == 0 {
			require.Equal(t, s, repaired, "input %q", s)
		}
	})
}

func TestDecodeEntities_IdentityWithoutAmpersand(t *testing.T) {
	eachCombination(func(s string) {
		if strings.Contains(s, "&") {
			return
		}
		require.Equal(t, s, textnorm.DecodeEntities(s), "input %q", s)
	})
}
