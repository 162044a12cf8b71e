package extract

import (
	"fmt"
	"strings"
)

// Score cutoffs. Both are inclusive lower bounds.
const (
	HighThreshold   = 9
	DirectThreshold = 7
)

// combinedContextCount is how many candidate contexts the combined
// strategy concatenates.
const combinedContextCount = 2

// Tier is a coarse confidence bucket for the top candidate.
type Tier int

const (
	TierLow Tier = iota
	TierMedium
	TierHigh
)

// String returns the persisted label: TINGGI, SEDANG or RENDAH.
func (t Tier) String() string {
	switch t {
	case TierHigh:
		return "TINGGI"
	case TierMedium:
		return "SEDANG"
	default:
		return "RENDAH"
	}
}

// English returns HIGH, MEDIUM or LOW.
func (t Tier) English() string {
	switch t {
	case TierHigh:
		return "HIGH"
	case TierMedium:
		return "MEDIUM"
	default:
		return "LOW"
	}
}

func (t Tier) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *Tier) UnmarshalText(b []byte) error {
	*t = ParseTier(string(b))
	return nil
}

// ParseTier accepts either label set, case-insensitively. Anything
// unrecognized is TierLow.
func ParseTier(s string) Tier {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TINGGI", "HIGH":
		return TierHigh
	case "SEDANG", "MEDIUM":
		return TierMedium
	default:
		return TierLow
	}
}

// TierForScore maps a top score onto a tier: >= 9 high, >= 7 medium,
// otherwise low. Classify reports sub-7 non-empty results as medium; see
// there.
func TierForScore(score float64) Tier {
	switch {
	case score >= HighThreshold:
		return TierHigh
	case score >= DirectThreshold:
		return TierMedium
	default:
		return TierLow
	}
}

// Strategy selects how the downstream paraphrase is grounded.
type Strategy int

const (
	// StrategyFullAnalysis: no candidate; hand the document to the model.
	StrategyFullAnalysis Strategy = iota
	// StrategyDirect: paraphrase the top candidate with its own context.
	StrategyDirect
	// StrategyCombinedContext: paraphrase the top candidate with the
	// first two contexts joined.
	StrategyCombinedContext
)

func (s Strategy) String() string {
	switch s {
	case StrategyDirect:
		return "direct"
	case StrategyCombinedContext:
		return "combined_context"
	case StrategyFullAnalysis:
		return "full_analysis"
	default:
		return fmt.Sprintf("strategy(%d)", int(s))
	}
}

func (s Strategy) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Strategy) UnmarshalText(b []byte) error {
	switch string(b) {
	case "direct":
		*s = StrategyDirect
	case "combined_context":
		*s = StrategyCombinedContext
	case "full_analysis":
		*s = StrategyFullAnalysis
	default:
		return fmt.Errorf("extract: unknown strategy %q", b)
	}
	return nil
}

// Classification is the routing decision for one extraction result.
type Classification struct {
	Tier       Tier     `json:"tier"`
	Strategy   Strategy `json:"strategy"`
	TopScore   int      `json:"top_score"`
	Definition string   `json:"definition,omitempty"`
	Context    string   `json:"context,omitempty"`
}

// Classify grades r. It depends only on r:
//
//	empty            -> low,    full analysis
//	top >= 9         -> high,   direct
//	7 <= top < 9     -> medium, direct
//	top < 7          -> medium, combined context
func Classify(r Result) Classification {
	top, ok := r.Top()
	if !ok {
		return Classification{Tier: TierLow, Strategy: StrategyFullAnalysis}
	}

	c := Classification{
		TopScore:   top.Score,
		Definition: top.Text,
		Tier:       TierMedium,
		Strategy:   StrategyCombinedContext,
	}
	if tier := TierForScore(float64(top.Score)); tier != TierLow {
		c.Tier = tier
		c.Strategy = StrategyDirect
	}
	c.Context = contextFor(c.Strategy, r)
	return c
}

// contextFor picks the generation context for a strategy.
func contextFor(s Strategy, r Result) string {
	switch s {
	case StrategyDirect:
		return r.Contexts[0]
	case StrategyCombinedContext:
		n := min(len(r.Contexts), combinedContextCount)
		return strings.Join(r.Contexts[:n], "\n\n")
	default:
		return ""
	}
}
