// Package citation renders in-text citations and bibliography entries for
// a paraphrased definition and picks the preferred variant of each.
//
// Output is Indonesian: citations open with "Menurut", two authors are
// joined with "dan", and bibliography entries close with a generic source
// label such as "Dokumen Akademik".
package citation

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Format is a citation style.
type Format string

const (
	APA     Format = "APA"
	MLA     Format = "MLA"
	Chicago Format = "CHICAGO"
)

// ParseFormat normalizes s case-insensitively. Unrecognized or empty
// input yields APA.
func ParseFormat(s string) Format {
	f := Format(strings.ToUpper(strings.TrimSpace(s)))
	if f.Known() {
		return f
	}
	return APA
}

// Known reports whether f is one of the supported styles.
func (f Format) Known() bool {
	switch f {
	case APA, MLA, Chicago:
		return true
	}
	return false
}

// Fixed Indonesian phrasing.
const (
	LeadIn      = "Menurut"
	AltLeadIn   = "Berdasarkan"
	Conjunction = "dan"
	EtAl        = "et al."
)

// Formatter builds citations using a pluggable NameParser.
type Formatter struct {
	names NameParser
}

// NewFormatter returns a Formatter. A nil parser selects DefaultNameParser.
func NewFormatter(names NameParser) *Formatter {
	if names == nil {
		names = DefaultNameParser{}
	}
	return &Formatter{names: names}
}

var defaultFormatter = NewFormatter(nil)

// Cite renders citations with the default name parser.
func Cite(paraphrase, author string, year int, format string) []string {
	return defaultFormatter.Cite(paraphrase, author, year, format)
}

// LastNames parses author into the surnames used for citing. If nothing
// parses, the trimmed raw field stands in as a single name.
func (f *Formatter) LastNames(author string) []string {
	var names []string
	for _, a := range f.names.Authors(author) {
		if ln := f.names.LastName(a); ln != "" {
			names = append(names, ln)
		}
	}
	if len(names) == 0 {
		names = []string{strings.TrimSpace(author)}
	}
	return names
}

// Cite returns the ordered citation variants for format, matched
// case-insensitively:
//
//	APA      lead-in, then parenthetical "(Last, year)"
//	MLA      parenthetical "(Last year)"
//	CHICAGO  lead-in
//	other    lead-in naming the first author only
//
// Two authors are joined with "dan" ("&" inside APA parentheses); three or
// more collapse to "et al.".
func (f *Formatter) Cite(paraphrase, author string, year int, format string) []string {
	names := f.LastNames(author)
	paraphrase = strings.TrimSpace(paraphrase)

	lower := lowerFirst(paraphrase)
	body := strings.TrimRightFunc(upperFirst(paraphrase), func(r rune) bool {
		return r == '.' || r == '!' || r == '?' || unicode.IsSpace(r)
	})

	leadIn := fmt.Sprintf("%s %s (%d), %s", LeadIn, joinNames(names, Conjunction), year, lower)

	switch Format(strings.ToUpper(strings.TrimSpace(format))) {
	case APA:
		return []string{
			leadIn,
			fmt.Sprintf("%s (%s, %d).", body, joinNames(names, "&"), year),
		}
	case MLA:
		return []string{
			fmt.Sprintf("%s (%s %d).", body, joinNames(names, Conjunction), year),
		}
	case Chicago:
		return []string{leadIn}
	default:
		return []string{fmt.Sprintf("%s %s (%d), %s", LeadIn, names[0], year, lower)}
	}
}

// joinNames renders one, two (joined by conj) or many ("et al.") names.
func joinNames(names []string, conj string) string {
	switch len(names) {
	case 1:
		return names[0]
	case 2:
		return names[0] + " " + conj + " " + names[1]
	default:
		return names[0] + " " + EtAl
	}
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
