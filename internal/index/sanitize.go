package index

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Ext is the file extension of every artifact.
const Ext = ".txt"

// Sanitize reduces name to its canonical, filesystem-safe form: lowercase
// letters, numbers, '-' and '_'. Names that sanitize identically refer to the
// same artifact. Sanitize(Sanitize(n)) == Sanitize(n).
func Sanitize(name string) string {
	lower := cases.Lower(language.Und).String(norm.NFC.String(name))
	var b strings.Builder
	b.Grow(len(lower))
	for _, r := range lower {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	// Lowercasing can leave composable sequences behind.
	return norm.NFC.String(b.String())
}
