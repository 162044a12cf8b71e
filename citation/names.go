package citation

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// NameParser turns a free-form author field into individual authors and
// reduces an author to the surname printed in a citation.
type NameParser interface {
	Authors(raw string) []string
	LastName(author string) string
}

// DefaultNameParser handles the two orders people type author names in:
// "Last, First" (a comma is present) and "First Last" (it is not).
//
// Authors are separated by "&", ";" or the words "dan"/"and". Inside one
// separated part, commas either delimit further authors or separate a
// surname from its given names: a segment made only of initials or a
// generational suffix is glued back to the segment before it, and a part
// with exactly one comma after a single-word surname is read as
// "Last, First".
type DefaultNameParser struct{}

var authorSeparator = regexp.MustCompile(`\s*(?:&|;|\s+dan\s+|\s+and\s+)\s*`)

var nameSplit = regexp.MustCompile(`[\s,]+`)

var nameSuffixes = map[string]bool{"jr": true, "sr": true, "ii": true, "iii": true, "iv": true}

// Authors splits raw into trimmed, non-empty author names.
func (DefaultNameParser) Authors(raw string) []string {
	var authors []string
	for _, part := range authorSeparator.Split(raw, -1) {
		authors = append(authors, splitCommaPart(part)...)
	}
	return authors
}

func splitCommaPart(part string) []string {
	var segs []string
	for _, s := range strings.Split(part, ",") {
		if s = strings.TrimSpace(s); s != "" {
			segs = append(segs, s)
		}
	}
	if len(segs) == 0 {
		return nil
	}
	if len(segs) == 2 && len(strings.Fields(segs[0])) == 1 {
		return []string{segs[0] + ", " + segs[1]}
	}

	out := []string{segs[0]}
	for _, s := range segs[1:] {
		if isGivenInitials(s) {
			out[len(out)-1] += ", " + s
			continue
		}
		out = append(out, s)
	}
	return out
}

// isGivenInitials reports whether s looks like "J", "J.", "J. D.", "A.B.",
// "J.-P." or a suffix such as "Jr.". Every token must be a single capital
// letter, so short surnames like "Li" or "Ng" stay separate authors.
func isGivenInitials(s string) bool {
	tokens := strings.FieldsFunc(s, func(r rune) bool {
		return r == '.' || r == '-' || unicode.IsSpace(r)
	})
	if len(tokens) == 0 {
		return false
	}
	if len(tokens) == 1 && nameSuffixes[strings.ToLower(tokens[0])] {
		return true
	}
	for _, tok := range tokens {
		r, _ := utf8.DecodeRuneInString(tok)
		if utf8.RuneCountInString(tok) != 1 || !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

// LastName returns the first token when author contains a comma and the
// final token otherwise.
func (DefaultNameParser) LastName(author string) string {
	var parts []string
	for _, p := range nameSplit.Split(strings.TrimSpace(author), -1) {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	if strings.Contains(author, ",") {
		return parts[0]
	}
	return parts[len(parts)-1]
}
