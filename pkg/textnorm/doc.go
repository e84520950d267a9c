// Package textnorm repairs text damaged by encoding mix-ups and HTML escaping.
//
// The helpers are grouped into three layers:
//
//   - Mojibake repair – MojibakeScore counts marker sequences left behind when
//     UTF-8 bytes were decoded as Windows-1252 ("â€™", "Ã©", "ðŸ˜Š", …) and
//     RepairMojibake reverses that decoding when, and only when, the result
//     carries fewer markers than the input.
//
//   - Entity decoding – DecodeEntities resolves a small fixed set of named
//     entities plus decimal and hexadecimal numeric references.
//
//   - Normalisation – Normalize chains the two with non-breaking-space cleanup,
//     and NormalizeValue applies Normalize to every string inside a structured
//     jsonvalue.Value without touching its shape.
//
// Example – repairing a single string:
//
//	fixed := textnorm.Normalize("parkâ€™s &amp; caf&#233;")
//	// fixed == "park’s & café"
//
// Example – repairing a JSON column:
//
//	itinerary := jsonvalue.MustParse(`{"title":"Safariâ€™s Trip","days":3}`)
//	clean := textnorm.NormalizeValue(itinerary)
//	changed := !jsonvalue.Equal(itinerary, clean)
//
// Custom pipelines can be assembled with Compose:
//
//	clean := textnorm.Compose(textnorm.RepairMojibake, strings.TrimSpace)
//
// # Error handling
//
// None of the helpers returns an error. When a repair cannot be shown to be an
// improvement the original input is returned unchanged.
//
// # Limitations
//
// Detection is a heuristic tuned for one corruption pattern. Legitimate text
// that happens to contain a marker sequence is protected by the
// strictly-fewer-markers acceptance rule, but not in every possible case.
// Characters the Windows-1252 table cannot express are replaced with '?' in a
// repaired candidate. Only nine named entities are recognised.
//
// All functions are pure and safe for concurrent use.
package textnorm
