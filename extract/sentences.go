package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Indicator is a definitional phrase and the score it adds to a sentence.
type Indicator struct {
	Phrase string
	Bonus  int
}

// Indicators are summed over every phrase present, not just the first.
var Indicators = []Indicator{
	{Phrase: "adalah", Bonus: 3},
	{Phrase: "yaitu", Bonus: 3},
	{Phrase: "merupakan", Bonus: 3},
	{Phrase: "ialah", Bonus: 2},
	{Phrase: "didefinisikan sebagai", Bonus: 4},
	{Phrase: "diartikan sebagai", Bonus: 4},
	{Phrase: "bermakna", Bonus: 2},
	{Phrase: "berarti", Bonus: 2},
}

// gateWords must appear in a sentence before it is scored at all.
var gateWords = []string{"adalah", "yaitu", "merupakan", "ialah", "bermakna", "berarti"}

const (
	// MinSentenceLength is the exclusive lower bound on sentence length
	// for the scanner.
	MinSentenceLength = 30

	// MinSentenceScore is the exclusive lower bound on a kept sentence's score.
	MinSentenceScore = 3
)

var sentenceBreak = regexp.MustCompile(`[.!?]+`)

// SplitSentences splits text on runs of sentence punctuation. Fragments
// are returned untrimmed and may be empty.
func SplitSentences(text string) []string {
	return sentenceBreak.Split(text, -1)
}

// CountSentences counts the non-blank fragments of text.
func CountSentences(text string) int {
	n := 0
	for _, s := range SplitSentences(text) {
		if strings.TrimSpace(s) != "" {
			n++
		}
	}
	return n
}

// ScoreSentence rates how definitional a sentence looks for keyword.
func ScoreSentence(sentence, keyword string) int {
	lower := strings.ToLower(sentence)
	score := 0

	if strings.Contains(lower, strings.ToLower(keyword)) {
		score += 3
	}
	for _, ind := range Indicators {
		if strings.Contains(lower, ind.Phrase) {
			score += ind.Bonus
		}
	}

	n := utf8.RuneCountInString(sentence)
	if n > 50 && n < 300 {
		score++
	}
	if n < 30 {
		score -= 2
	}
	if n > 400 {
		score--
	}
	return score
}

// ScanSentences returns a candidate for every sentence that mentions a
// keyword form, carries a gate word and scores above MinSentenceScore.
// Context is the sentence with its immediate neighbours.
func ScanSentences(text, keyword string, forms []string) []Candidate {
	lowerForms := make([]string, 0, len(forms))
	for _, f := range forms {
		if f != "" {
			lowerForms = append(lowerForms, strings.ToLower(f))
		}
	}

	sentences := SplitSentences(text)
	var out []Candidate
	for i, s := range sentences {
		if utf8.RuneCountInString(s) <= MinSentenceLength {
			continue
		}
		lower := strings.ToLower(s)
		if !containsAny(lower, lowerForms) || !containsAny(lower, gateWords) {
			continue
		}
		score := ScoreSentence(s, keyword)
		if score <= MinSentenceScore {
			continue
		}
		out = append(out, Candidate{
			Text:    strings.TrimSpace(s) + ".",
			Context: neighbourhood(sentences, i),
			Score:   score,
			Source:  "sentence",
		})
	}
	return out
}

func neighbourhood(sentences []string, i int) string {
	start := max(0, i-1)
	end := min(len(sentences), i+2)
	return strings.TrimSpace(strings.Join(sentences[start:end], ". "))
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
