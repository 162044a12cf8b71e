package paraphrase

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// metaPhrases are stripped from model output before sentence selection.
var metaPhrases = []*regexp.Regexp{
	regexp.MustCompile(`(?i)hasil parafrase`),
	regexp.MustCompile(`(?i)parafrase.*?kalimat`),
	regexp.MustCompile(`(?i)dengan.*?kalimat`),
	regexp.MustCompile(`(?i)saya.*?memparafrase`),
	regexp.MustCompile(`(?i)teknik.*?digunakan`),
	regexp.MustCompile(`(?i)berikut.*?hasil`),
	regexp.MustCompile(`(?i)ini.*?parafrase`),
}

var (
	sentenceBreak  = regexp.MustCompile(`[.!?]+`)
	terminalMark   = regexp.MustCompile(`[.!?]$`)
	definitionMark = []string{"adalah", "merupakan", "yaitu", "didefinisikan", "dikategorikan"}
	metaWords      = []string{"parafrase", "kalimat"}
)

const (
	minFragmentLen = 15 // fragments must be longer than this
	minOtherLen    = 25 // unmarked fragments must be longer than this
)

// Cleanup reduces raw model output to exactly n sentences. Sentences
// mentioning the keyword alongside a definition marker come first, then
// keyword-only, then marker-only, then any other long sentence. Any
// shortfall is filled from the per-position templates.
func Cleanup(raw, keyword string, n int) string {
	n = max(n, MinSentences)
	cleaned := strings.TrimSpace(raw)
	for _, re := range metaPhrases {
		cleaned = re.ReplaceAllString(cleaned, "")
	}

	kw := strings.ToLower(strings.TrimSpace(keyword))
	var primary, withKeyword, withMarker, other []string
	for _, s := range sentenceBreak.Split(cleaned, -1) {
		s = strings.TrimSpace(s)
		if utf8.RuneCountInString(s) <= minFragmentLen {
			continue
		}
		lower := strings.ToLower(s)
		if containsAny(lower, metaWords) {
			continue
		}

		hasKeyword := kw != "" && strings.Contains(lower, kw)
		hasMarker := containsAny(lower, definitionMark)
		switch {
		case hasKeyword && hasMarker:
			primary = append(primary, s)
		case hasKeyword:
			withKeyword = append(withKeyword, s)
		case hasMarker:
			withMarker = append(withMarker, s)
		case utf8.RuneCountInString(s) > minOtherLen:
			other = append(other, s)
		}
	}

	out := make([]string, 0, n)
	out = append(out, primary[:min(len(primary), n)]...)
	for _, bucket := range [][]string{withKeyword, withMarker, other} {
		for _, s := range bucket {
			if len(out) >= n {
				break
			}
			out = append(out, s)
		}
	}
	for len(out) < n {
		out = append(out, AdditionalSentence(keyword, len(out)+1))
	}

	for i, s := range out {
		out[i] = finishSentence(s)
	}
	return strings.Join(out, " ")
}

// finishSentence upper-cases the first letter and appends a period when
// the sentence has no terminal punctuation.
func finishSentence(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	s = string(unicode.ToUpper(r)) + s[size:]
	if !terminalMark.MatchString(s) {
		s += "."
	}
	return s
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
