// Package cleaner normalizes raw article text before it enters the corpus.
package cleaner

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// mojibake lists mis-decoded punctuation sequences and their intended ASCII form.
// Order matters: longer sequences come before the bare "â€" prefix they share.
var mojibake = [...]struct{ from, to string }{
	{"Â", ""},
	{"â€™", "'"},
	{"â€œ", `"`},
	{"â€“", "-"},
	{"â€”", "-"},
	{"â€˜", "'"},
	{"â€¦", "..."},
	{"â€", `"`},
}

var nonASCII = regexp.MustCompile(`[^\x00-\x7F]+`)

// Clean repairs double-encoded text, maps mis-decoded punctuation to ASCII,
// replaces remaining non-ASCII runs with a space, and collapses whitespace.
// It never fails and Clean(Clean(s)) == Clean(s).
func Clean(text string) string {
	text = RepairEncoding(text)
	for _, m := range mojibake {
		text = strings.ReplaceAll(text, m.from, m.to)
	}
	text = nonASCII.ReplaceAllString(text, " ")
	return strings.Join(strings.Fields(text), " ")
}

// RepairEncoding reverses UTF-8 text that was decoded as latin-1: the string is
// re-encoded to latin-1 bytes and read back as UTF-8. When a rune has no latin-1
// form or the bytes are not valid UTF-8, text is returned unchanged.
func RepairEncoding(text string) string {
	encoded, err := charmap.ISO8859_1.NewEncoder().String(text)
	if err != nil {
		return text
	}
	if !utf8.ValidString(encoded) {
		return text
	}
	return encoded
}
