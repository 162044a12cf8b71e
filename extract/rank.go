package extract

import (
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// DedupKey normalizes candidate text for duplicate detection: NFKC,
// lowercase, whitespace runs collapsed, trimmed.
func DedupKey(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(norm.NFKC.String(text))), " ")
}

// Rank merges candidates that share a DedupKey, keeping the strictly
// higher score (first seen wins ties) together with its context, then
// orders survivors by descending score. Equal scores keep first-seen order.
func Rank(candidates []Candidate) Result {
	index := make(map[string]int, len(candidates))
	kept := make([]Candidate, 0, len(candidates))

	for _, c := range candidates {
		if c.Context == "" {
			c.Context = c.Text
		}
		key := DedupKey(c.Text)
		if i, ok := index[key]; ok {
			if c.Score > kept[i].Score {
				kept[i] = c
			}
			continue
		}
		index[key] = len(kept)
		kept = append(kept, c)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Score > kept[j].Score
	})

	res := Result{
		Definitions: make([]string, len(kept)),
		Contexts:    make([]string, len(kept)),
		Scores:      make([]int, len(kept)),
	}
	for i, c := range kept {
		res.Definitions[i] = c.Text
		res.Contexts[i] = c.Context
		res.Scores[i] = c.Score
	}
	return res
}
