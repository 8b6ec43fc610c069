package prestashop

import (
	"strings"
	"unicode"
)

var slugReplacements = map[rune]string{
	'à': "a", 'á': "a", 'â': "a", 'ä': "a", 'ã': "a", 'å': "a",
	'è': "e", 'é': "e", 'ê': "e", 'ë': "e",
	'ì': "i", 'í': "i", 'î': "i", 'ï': "i",
	'ò': "o", 'ó': "o", 'ô': "o", 'ö': "o", 'õ': "o",
	'ù': "u", 'ú': "u", 'û': "u", 'ü': "u",
	'ç': "c", 'ñ': "n", 'ß': "ss", 'æ': "ae", 'œ': "oe",
}

// Slugify lowercases, transliterates common accents and collapses
// everything else to single dashes.
func Slugify(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if repl, ok := slugReplacements[r]; ok {
			b.WriteString(repl)
			lastDash = false
			continue
		}
		if unicode.IsLetter(r) && r < 128 || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastDash = false
			continue
		}
		if !lastDash {
			b.WriteByte('-')
			lastDash = true
		}
	}

	return strings.Trim(b.String(), "-")
}
