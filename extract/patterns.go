package extract

import (
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"
)

// keywordSlot is replaced by the alternation of keyword variants when a
// rule is compiled.
const keywordSlot = "{kw}"

// definitionSpan is the body every rule requires after its connector:
// 20-300 characters without sentence punctuation, then the terminator.
const definitionSpan = `([^.!?;]{20,300}[.!?])`

// contextRadius is how many characters either side of a pattern match
// are kept as the candidate's context.
const contextRadius = 200

// PatternRule is one weighted definitional pattern. Rules are applied in
// table order; every match of every rule becomes a candidate.
type PatternRule struct {
	Name    string
	Pattern string // regular expression with {kw} in place of the keyword
	Weight  int
}

// PatternRules is the ordered rule table. Add rules here; scoring and
// ranking need no changes.
var PatternRules = []PatternRule{
	{
		Name:    "direct",
		Pattern: `(` + keywordSlot + `)\s+(?:adalah|yaitu|merupakan|ialah|didefinisikan\s+sebagai|diartikan\s+sebagai|bermakna)\s+` + definitionSpan,
		Weight:  10,
	},
	{
		Name:    "colon",
		Pattern: `(` + keywordSlot + `)\s*[:;]\s*` + definitionSpan,
		Weight:  9,
	},
	{
		Name:    "definition-of",
		Pattern: `(?:definisi|pengertian|arti|makna|konsep)\s+(?:dari\s+)?(` + keywordSlot + `)\s+(?:adalah|yaitu|merupakan|ialah)\s+` + definitionSpan,
		Weight:  9,
	},
	{
		Name:    "according-to",
		Pattern: `(?:menurut|berdasarkan|dalam\s+pandangan)\s+[^,]{1,50},\s*(` + keywordSlot + `)\s+(?:adalah|yaitu|merupakan)\s+` + definitionSpan,
		Weight:  8,
	},
	{
		Name:    "academic",
		Pattern: `(` + keywordSlot + `)\s+(?:dapat\s+didefinisikan|dapat\s+diartikan|secara\s+umum\s+dipahami)\s+sebagai\s+` + definitionSpan,
		Weight:  8,
	},
}

// Compile builds the case-insensitive expression for the given escaped
// keyword variants.
func (r PatternRule) Compile(variants []string) (*regexp.Regexp, error) {
	expr := strings.ReplaceAll(r.Pattern, keywordSlot, strings.Join(variants, "|"))
	return regexp.Compile("(?i)" + expr)
}

// MatchPatterns runs every rule over text and returns one candidate per
// match, in rule order then position order.
func MatchPatterns(text string, variants []string) []Candidate {
	var out []Candidate
	for _, rule := range PatternRules {
		re, err := rule.Compile(variants)
		if err != nil {
			slog.Warn("extract: skipping pattern rule", "rule", rule.Name, "error", err)
			continue
		}
		for _, loc := range re.FindAllStringIndex(text, -1) {
			out = append(out, Candidate{
				Text:    strings.TrimSpace(text[loc[0]:loc[1]]),
				Context: contextWindow(text, loc[0], loc[1], contextRadius),
				Score:   rule.Weight,
				Source:  rule.Name,
			})
		}
	}
	return out
}

// contextWindow returns text[start:end] widened by radius runes on each
// side, clamped to the text, trimmed.
func contextWindow(text string, start, end, radius int) string {
	for i := 0; i < radius && start > 0; i++ {
		_, size := utf8.DecodeLastRuneInString(text[:start])
		start -= size
	}
	for i := 0; i < radius && end < len(text); i++ {
		_, size := utf8.DecodeRuneInString(text[end:])
		end += size
	}
	return strings.TrimSpace(text[start:end])
}
