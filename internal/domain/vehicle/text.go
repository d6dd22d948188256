package vehicle

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// FoldText lower-cases s, strips diacritics and trims surrounding space, so
// "Estándar " and "estandar" compare equal.
func FoldText(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}

// ContainsAny reports whether the folded haystack contains any folded needle.
func ContainsAny(haystack string, needles ...string) bool {
	h := FoldText(haystack)
	if h == "" {
		return false
	}
	for _, n := range needles {
		if n = FoldText(n); n != "" && strings.Contains(h, n) {
			return true
		}
	}
	return false
}

// ContainsWord is ContainsAny on whole words: a needle matches only a run of
// complete words in the haystack, so "van" does not match "Advance".
func ContainsWord(haystack string, needles ...string) bool {
	h := words(haystack)
	if len(h) == 0 {
		return false
	}
	for _, n := range needles {
		if w := words(n); len(w) > 0 && containsRun(h, w) {
			return true
		}
	}
	return false
}

func words(s string) []string {
	return strings.FieldsFunc(FoldText(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func containsRun(h, w []string) bool {
outer:
	for i := 0; i+len(w) <= len(h); i++ {
		for j := range w {
			if h[i+j] != w[j] {
				continue outer
			}
		}
		return true
	}
	return false
}

func upperTrim(s string) string {
	// Casers are stateful; one per call keeps this safe for concurrent use.
	return cases.Upper(language.Und).String(strings.TrimSpace(s))
}
