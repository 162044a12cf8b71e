package extract

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// Variations returns the regex-escaped surface forms under which keyword
// may appear in a document: lowercase, capitalized, uppercase, and the
// hyphen/underscore/space re-joinings of multi-word or hyphenated keywords.
// Order is stable and duplicates are dropped.
func Variations(keyword string) []string {
	forms := variantForms(keyword)
	escaped := make([]string, len(forms))
	for i, f := range forms {
		escaped[i] = regexp.QuoteMeta(f)
	}
	return escaped
}

// variantForms is Variations without the escaping step.
func variantForms(keyword string) []string {
	forms := []string{
		strings.ToLower(keyword),
		capitalize(keyword),
		strings.ToUpper(keyword),
	}

	if strings.Contains(keyword, " ") {
		forms = append(forms,
			whitespaceRun.ReplaceAllString(keyword, "-"),
			whitespaceRun.ReplaceAllString(keyword, "_"),
		)
	}
	if strings.Contains(keyword, "-") {
		forms = append(forms,
			strings.ReplaceAll(keyword, "-", " "),
			strings.ReplaceAll(keyword, "-", ""),
		)
	}

	seen := make(map[string]bool, len(forms))
	out := forms[:0]
	for _, f := range forms {
		if seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}

// capitalize upper-cases the first rune and lower-cases the rest.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
