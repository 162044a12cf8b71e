// Package extract finds candidate definitions of a keyword in plain text
// and grades how much they can be trusted.
//
// Extraction runs two passes: a table of weighted definitional patterns
// and a sentence scanner that scores sentences by indicator words. Both
// feed the ranker, which deduplicates and orders candidates by score.
package extract

import "strings"

// Candidate is a span of text that may define the keyword.
type Candidate struct {
	Text    string `json:"text"`
	Context string `json:"context"`
	Score   int    `json:"score"`
	Source  string `json:"source"` // pattern rule name or "sentence"
}

// Result is the ranked extraction output. The three slices run in lock
// step and are sorted by non-increasing score.
type Result struct {
	Definitions []string `json:"definitions"`
	Contexts    []string `json:"contexts"`
	Scores      []int    `json:"scores"`
}

// Len returns the number of surviving candidates.
func (r Result) Len() int { return len(r.Definitions) }

// Empty reports whether no candidate survived.
func (r Result) Empty() bool { return len(r.Definitions) == 0 }

// Top returns the highest-scoring candidate.
func (r Result) Top() (Candidate, bool) {
	if r.Empty() {
		return Candidate{}, false
	}
	return Candidate{Text: r.Definitions[0], Context: r.Contexts[0], Score: r.Scores[0]}, true
}

// Candidates zips the lock-step slices back into candidates.
func (r Result) Candidates() []Candidate {
	out := make([]Candidate, r.Len())
	for i := range out {
		out[i] = Candidate{Text: r.Definitions[i], Context: r.Contexts[i], Score: r.Scores[i]}
	}
	return out
}

// TopScore returns the best score, or 0 when the result is empty.
func (r Result) TopScore() int {
	if r.Empty() {
		return 0
	}
	return r.Scores[0]
}

// Extract runs both passes over text and returns the ranked result.
// The keyword is matched in its trimmed form. A blank keyword or text
// yields an empty result.
func Extract(text, keyword string) Result {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" || strings.TrimSpace(text) == "" {
		return Result{}
	}

	forms := variantForms(keyword)
	candidates := MatchPatterns(text, Variations(keyword))
	candidates = append(candidates, ScanSentences(text, keyword, forms)...)
	return Rank(candidates)
}
