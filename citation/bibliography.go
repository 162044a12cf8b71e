package citation

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Generic source labels closing a bibliography entry.
const (
	LabelAcademicDocument  = "Dokumen Akademik"
	LabelCourseMaterial    = "Materi Perkuliahan"
	LabelAcademicReference = "Sumber Referensi Akademik"
	LabelReference         = "Sumber Referensi"
)

var fileExtension = regexp.MustCompile(`(?i)\.(pdf|docx|txt|xlsx|pptx)$`)

// FormatTitle turns a filename into a title: known extension stripped,
// "-" and "_" read as spaces, each word's first letter upper-cased.
func FormatTitle(filename string) string {
	t := fileExtension.ReplaceAllString(strings.TrimSpace(filename), "")
	t = strings.NewReplacer("-", " ", "_", " ").Replace(t)
	t = strings.Join(strings.Fields(t), " ")
	// Casers are stateful; build one per call.
	return cases.Title(language.Indonesian, cases.NoLower).String(t)
}

// Bibliography returns the bibliography variants for title in format.
// Author and year are inserted as given.
func Bibliography(title, author string, year int, format string) []string {
	t := FormatTitle(title)
	author = strings.TrimSpace(author)

	apa := func(label string) string {
		return fmt.Sprintf("%s (%d). %s. %s.", author, year, t, label)
	}
	quoted := func(label string) string {
		return fmt.Sprintf("%s \"%s.\" %s, %d.", withPeriod(author), t, label, year)
	}

	switch Format(strings.ToUpper(strings.TrimSpace(format))) {
	case APA:
		return []string{apa(LabelAcademicDocument), apa(LabelCourseMaterial), apa(LabelAcademicReference)}
	case MLA:
		return []string{quoted(LabelAcademicDocument), quoted(LabelCourseMaterial)}
	case Chicago:
		return []string{quoted(LabelAcademicDocument), quoted(LabelReference)}
	default:
		return []string{apa(LabelAcademicDocument)}
	}
}

// withPeriod terminates s with a period unless it already ends in one.
func withPeriod(s string) string {
	if strings.HasSuffix(s, ".") {
		return s
	}
	return s + "."
}
