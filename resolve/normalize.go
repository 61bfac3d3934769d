package resolve

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// smartPunct maps curly quotes and other fancy punctuation to ASCII.
var smartPunct = strings.NewReplacer(
	"‘", "'", // left single quote
	"’", "'", // right single quote
	"‚", "'",
	"“", `"`, // left double quote
	"”", `"`, // right double quote
	"„", `"`,
	"–", "-", // en dash
	"—", "-", // em dash
	"…", "...",
	" ", " ", // no-break space
)

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize cleans raw user text before it is used as a search key: mojibake
// repair, smart punctuation collapse, accent folding, and whitespace
// collapse. It never fails; when no repair applies the input comes back
// unchanged. Idempotent: Normalize(Normalize(s)) == Normalize(s).
func Normalize(raw string) string {
	s := repairMojibake(raw)
	s = smartPunct.Replace(s)
	s = FoldAccents(s)
	return strings.Join(strings.Fields(s), " ")
}

// FoldAccents strips combining marks (e.g. "Rosalía" -> "Rosalia") so query
// text lines up with the unaccented search columns. Input that fails to
// transform is returned as-is.
func FoldAccents(s string) string {
	out, _, err := transform.String(stripAccents, s)
	if err != nil {
		return s
	}
	return out
}

// mojibakeMarkers are lead runes characteristic of UTF-8 text that was
// decoded once too often as Windows-1252 ("donâ€™t", "CafÃ©").
const mojibakeMarkers = "ÃÂâƒ€"

// repairMojibake re-encodes the string as Windows-1252 bytes and keeps the
// result when it forms valid UTF-8 with the tell-tale lead runes gone.
// Strings without markers, or whose repair fails, pass through untouched.
func repairMojibake(s string) string {
	if !strings.ContainsAny(s, mojibakeMarkers) {
		return s
	}
	b, err := charmap.Windows1252.NewEncoder().Bytes([]byte(s))
	if err != nil || !utf8.Valid(b) {
		return s
	}
	fixed := string(b)
	if strings.ContainsAny(fixed, mojibakeMarkers) || strings.ContainsRune(fixed, utf8.RuneError) {
		return s
	}
	for _, r := range fixed {
		if r < 0x20 && r != '\t' && r != '\n' {
			return s
		}
	}
	return fixed
}
