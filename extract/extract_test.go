package extract

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const inflationText = `Perekonomian nasional menghadapi banyak tantangan pada dekade ini. ` +
	`Menurut Keynes, inflasi adalah kenaikan harga barang dan jasa secara umum dalam periode tertentu. ` +
	`Inflasi merupakan gejala ekonomi yang berarti daya beli masyarakat menurun secara bertahap. ` +
	`Bank sentral berupaya menjaga stabilitas harga melalui kebijakan moneter.`

func TestVariations(t *testing.T) {
	tests := []struct {
		name    string
		keyword string
		want    []string
	}{
		{
			name:    "multi-word",
			keyword: "machine learning",
			want:    []string{"machine learning", "Machine learning", "MACHINE LEARNING", "machine-learning", "machine_learning"},
		},
		{
			name:    "hyphenated",
			keyword: "e-learning",
			want:    []string{"e-learning", "E-learning", "E-LEARNING", "e learning", "elearning"},
		},
		{
			name:    "single word collapses duplicates",
			keyword: "DATA",
			want:    []string{"data", "Data", "DATA"},
		},
		{
			name:    "regex metacharacters are escaped",
			keyword: "c++",
			want:    []string{`c\+\+`, `C\+\+`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Variations(tt.keyword))
		})
	}
}

func TestVariationsContainLowerAndUpper(t *testing.T) {
	for _, kw := range []string{"inflasi", "Kebijakan Moneter", "pra-sejarah", "IoT"} {
		got := Variations(kw)
		assert.Contains(t, got, strings.ToLower(kw), kw)
		assert.Contains(t, got, strings.ToUpper(kw), kw)
	}
}

func TestVariationsEmptyKeyword(t *testing.T) {
	for _, v := range Variations("") {
		assert.Empty(t, v)
	}
}

func TestMatchPatternsRules(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		wantSource string
		wantWeight int
		wantPrefix string
	}{
		{
			name:       "direct connector",
			text:       "Inflasi adalah kenaikan harga barang dan jasa secara umum.",
			wantSource: "direct",
			wantWeight: 10,
			wantPrefix: "Inflasi adalah",
		},
		{
			name:       "colon",
			text:       "Inflasi: kenaikan harga barang dan jasa secara umum dan terus menerus.",
			wantSource: "colon",
			wantWeight: 9,
			wantPrefix: "Inflasi:",
		},
		{
			name:       "definition of",
			text:       "Pengertian dari inflasi adalah kenaikan harga barang dan jasa secara umum.",
			wantSource: "definition-of",
			wantWeight: 9,
			wantPrefix: "Pengertian dari inflasi",
		},
		{
			name:       "according to",
			text:       "Menurut Keynes, inflasi adalah kenaikan harga barang dan jasa secara umum.",
			wantSource: "according-to",
			wantWeight: 8,
			wantPrefix: "Menurut Keynes",
		},
		{
			name:       "can be defined as",
			text:       "Inflasi dapat didefinisikan sebagai kenaikan harga barang dan jasa secara umum.",
			wantSource: "academic",
			wantWeight: 8,
			wantPrefix: "Inflasi dapat",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cands := MatchPatterns(tt.text, Variations("inflasi"))
			var found *Candidate
			for i := range cands {
				if cands[i].Source == tt.wantSource {
					found = &cands[i]
					break
				}
			}
			require.NotNil(t, found, "no %s match in %v", tt.wantSource, cands)
			assert.Equal(t, tt.wantWeight, found.Score)
			assert.True(t, strings.HasPrefix(found.Text, tt.wantPrefix), found.Text)
			assert.True(t, strings.HasSuffix(found.Text, "."), found.Text)
		})
	}
}

func TestMatchPatternsShortSpanRejected(t *testing.T) {
	cands := MatchPatterns("Inflasi adalah naik harga.", Variations("inflasi"))
	assert.Empty(t, cands)
}

func TestMatchPatternsGlobalScan(t *testing.T) {
	text := "Inflasi adalah kenaikan harga barang secara umum. " +
		"Inflasi adalah gejala ekonomi yang sering terjadi di negara berkembang."
	n := 0
	for _, c := range MatchPatterns(text, Variations("inflasi")) {
		if c.Source == "direct" {
			n++
		}
	}
	assert.Equal(t, 2, n)
}

func TestContextWindow(t *testing.T) {
	assert.Equal(t, "bcde", contextWindow("abcdef", 2, 4, 1))
	assert.Equal(t, "abcdef", contextWindow("abcdef", 2, 4, 50))
	// Multibyte runes are never split.
	assert.Equal(t, "éxé", contextWindow("ééxéé", 4, 5, 1))
}

func TestScoreSentence(t *testing.T) {
	tests := []struct {
		name     string
		sentence string
		keyword  string
		want     int
	}{
		{
			name:     "keyword plus two indicators plus length bonus",
			sentence: "Fotosintesis merupakan proses yang berarti tumbuhan membuat makanan sendiri",
			keyword:  "fotosintesis",
			want:     3 + 3 + 2 + 1,
		},
		{
			name:     "short sentence penalty",
			sentence: "X adalah y",
			keyword:  "x",
			want:     3 + 3 - 2,
		},
		{
			name:     "long sentence penalty",
			sentence: "kata adalah " + strings.Repeat("a", 400),
			keyword:  "kata",
			want:     3 + 3 - 1,
		},
		{
			name:     "defined-as phrase",
			sentence: "Istilah ini didefinisikan sebagai sesuatu yang sangat penting",
			keyword:  "konsep",
			want:     4 + 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ScoreSentence(tt.sentence, tt.keyword))
		})
	}
}

func TestScanSentences(t *testing.T) {
	cands := ScanSentences(inflationText, "inflasi", variantForms("inflasi"))
	require.Len(t, cands, 2)

	assert.Equal(t, "Menurut Keynes, inflasi adalah kenaikan harga barang dan jasa secara umum dalam periode tertentu.", cands[0].Text)
	assert.Equal(t, "sentence", cands[0].Source)
	// Neighbours on both sides are part of the context.
	assert.Contains(t, cands[0].Context, "Perekonomian nasional")
	assert.Contains(t, cands[0].Context, "daya beli")
}

func TestScanSentencesRequiresIndicator(t *testing.T) {
	text := "Inflasi sering dibahas oleh para ekonom di berbagai negara berkembang."
	assert.Empty(t, ScanSentences(text, "inflasi", variantForms("inflasi")))
}

func TestRankDeduplicatesKeepingMaxScore(t *testing.T) {
	res := Rank([]Candidate{
		{Text: "A  definisi", Score: 5, Context: "c1"},
		{Text: "other", Score: 6},
		{Text: "a definisi", Score: 8, Context: "c2"},
		{Text: " A DEFINISI ", Score: 7, Context: "c3"},
	})

	assert.Equal(t, []string{"a definisi", "other"}, res.Definitions)
	assert.Equal(t, []int{8, 6}, res.Scores)
	assert.Equal(t, []string{"c2", "other"}, res.Contexts)
}

func TestRankTieKeepsFirstSeen(t *testing.T) {
	res := Rank([]Candidate{
		{Text: "X", Score: 5, Context: "first"},
		{Text: "x", Score: 5, Context: "second"},
	})
	require.Equal(t, 1, res.Len())
	assert.Equal(t, "first", res.Contexts[0])
}

func TestRankStableOnEqualScores(t *testing.T) {
	res := Rank([]Candidate{
		{Text: "one", Score: 4},
		{Text: "two", Score: 9},
		{Text: "three", Score: 4},
	})
	assert.Equal(t, []string{"two", "one", "three"}, res.Definitions)
}

func TestDedupKeyNormalizesWidth(t *testing.T) {
	// Fullwidth letters fold to ASCII under NFKC.
	assert.Equal(t, DedupKey("ＡＢＣ  def"), DedupKey("abc def"))
}

func TestExtractEndToEnd(t *testing.T) {
	text := "Machine learning adalah cabang AI yang mempelajari pola dari data."
	res := Extract(text, "machine learning")

	require.Equal(t, 1, res.Len())
	assert.Equal(t, 10, res.Scores[0])
	assert.Equal(t, text, res.Definitions[0])

	c := Classify(res)
	assert.Equal(t, TierHigh, c.Tier)
	assert.Equal(t, StrategyDirect, c.Strategy)
	assert.Equal(t, text, c.Context)
}

func TestExtractTrimsKeyword(t *testing.T) {
	text := "Machine learning adalah cabang AI yang mempelajari pola dari data."
	want := Extract(text, "machine learning")
	got := Extract(text, "  machine learning \t")

	require.False(t, got.Empty())
	assert.Equal(t, want, got)
}

func TestTierForScore(t *testing.T) {
	tests := []struct {
		score float64
		want  Tier
	}{
		{10, TierHigh},
		{9, TierHigh},
		{8.99, TierMedium},
		{8, TierMedium},
		{7, TierMedium},
		{6.99, TierLow},
		{6, TierLow},
		{0, TierLow},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TierForScore(tt.score), "score %v", tt.score)
	}
}

func TestClassifyThresholds(t *testing.T) {
	result := func(top int) Result {
		return Result{
			Definitions: []string{"definisi pertama", "definisi kedua", "definisi ketiga"},
			Contexts:    []string{"konteks pertama", "konteks kedua", "konteks ketiga"},
			Scores:      []int{top, 5, 4},
		}
	}
	tests := []struct {
		top      int
		tier     Tier
		strategy Strategy
		context  string
	}{
		{10, TierHigh, StrategyDirect, "konteks pertama"},
		{9, TierHigh, StrategyDirect, "konteks pertama"},
		{8, TierMedium, StrategyDirect, "konteks pertama"},
		{7, TierMedium, StrategyDirect, "konteks pertama"},
		{6, TierMedium, StrategyCombinedContext, "konteks pertama\n\nkonteks kedua"},
		{0, TierMedium, StrategyCombinedContext, "konteks pertama\n\nkonteks kedua"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("score %d", tt.top), func(t *testing.T) {
			c := Classify(result(tt.top))
			assert.Equal(t, tt.tier, c.Tier)
			assert.Equal(t, tt.strategy, c.Strategy)
			assert.Equal(t, tt.top, c.TopScore)
			assert.Equal(t, "definisi pertama", c.Definition)
			assert.Equal(t, tt.context, c.Context)
		})
	}
}

func TestClassifyCombinedSingleCandidate(t *testing.T) {
	c := Classify(Result{Definitions: []string{"d"}, Contexts: []string{"k"}, Scores: []int{3}})
	assert.Equal(t, StrategyCombinedContext, c.Strategy)
	assert.Equal(t, "k", c.Context)
}

func TestClassifyEmpty(t *testing.T) {
	c := Classify(Result{})
	assert.Equal(t, TierLow, c.Tier)
	assert.Equal(t, StrategyFullAnalysis, c.Strategy)
	assert.Empty(t, c.Context)
}

func TestExtractScoresSorted(t *testing.T) {
	res := Extract(inflationText, "inflasi")
	require.False(t, res.Empty())
	assert.IsNonIncreasing(t, res.Scores)
	assert.Equal(t, len(res.Definitions), len(res.Contexts))
	assert.Equal(t, len(res.Definitions), len(res.Scores))

	seen := map[string]bool{}
	for _, d := range res.Definitions {
		key := DedupKey(d)
		assert.False(t, seen[key], "duplicate %q", d)
		seen[key] = true
	}
}

func TestExtractBlankInput(t *testing.T) {
	assert.True(t, Extract("anything adalah something long enough here.", "  ").Empty())
	assert.True(t, Extract("", "inflasi").Empty())
}

func TestStrategyTextRoundTrip(t *testing.T) {
	for _, s := range []Strategy{StrategyDirect, StrategyCombinedContext, StrategyFullAnalysis} {
		b, err := s.MarshalText()
		require.NoError(t, err)
		var got Strategy
		require.NoError(t, got.UnmarshalText(b))
		assert.Equal(t, s, got)
	}
	var s Strategy
	assert.Error(t, s.UnmarshalText([]byte("guess")))
}
