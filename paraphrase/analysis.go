package paraphrase

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/brunobiangulo/godefine/extract"
	"github.com/brunobiangulo/godefine/llm"
)

// Full-analysis generation settings.
const (
	analysisMaxTokens   = 4000
	analysisTemperature = 0.15
	analysisTopP        = 0.85

	notFoundTokensPerSentence = 400
	notFoundTemperature       = 0.3
	notFoundTopP              = 0.9

	maxRelevantSegments = 8
	headChars           = 3000
)

// Analysis is the parsed reply of a whole-document analysis.
type Analysis struct {
	Found              bool         `json:"found"`
	ExplicitDefinition string       `json:"explicit_definition,omitempty"`
	ImplicitDefinition string       `json:"implicit_definition,omitempty"`
	Summary            string       `json:"summary,omitempty"`
	Certainty          extract.Tier `json:"certainty"`
	Raw                string       `json:"-"`
}

var segmentBreak = regexp.MustCompile(`\n\n|\.\s+`)

// relevantText returns up to eight segments mentioning keyword, or the
// head of the document when none do.
func relevantText(text, keyword string) string {
	kw := strings.ToLower(keyword)
	var segs []string
	for _, s := range segmentBreak.Split(text, -1) {
		if strings.Contains(strings.ToLower(s), kw) {
			segs = append(segs, s)
			if len(segs) == maxRelevantSegments {
				break
			}
		}
	}
	if len(segs) > 0 {
		return strings.Join(segs, "\n\n")
	}
	if r := []rune(text); len(r) > headChars {
		return string(r[:headChars])
	}
	return text
}

func buildAnalysisPrompt(text, keyword, format string) string {
	return fmt.Sprintf(`Anda adalah asisten AI ahli analisis dokumen akademik dengan kemampuan tingkat PhD. Tugas Anda adalah melakukan analisis mendalam terhadap dokumen untuk mencari dan menganalisis definisi kata kunci.

INSTRUKSI ANALISIS:
1. Lakukan pencarian menyeluruh untuk kata kunci "%s" dalam teks
2. Identifikasi definisi langsung, tersirat, dan kontekstual
3. Berikan analisis yang komprehensif dalam bahasa Indonesia yang sempurna
4. Gunakan pendekatan multi-perspektif untuk memahami konsep

TEKS DOKUMEN:
%s

KATA KUNCI: %s
FORMAT SITASI: %s

PANDUAN ANALISIS:
- Cari definisi eksplisit (menggunakan kata "adalah", "yaitu", dll.)
- Identifikasi definisi implisit (dari konteks dan penjelasan)
- Perhatikan sinonim dan variasi istilah
- Analisis hubungan konsep dengan ide-ide terkait
- Pertimbangkan definisi operasional dan teoritis

FORMAT JAWABAN YANG WAJIB DIIKUTI:
STATUS_PENCARIAN: [DITEMUKAN/TIDAK_DITEMUKAN]
DEFINISI_EKSPLISIT: [kutip langsung jika ada, atau "Tidak ditemukan definisi eksplisit"]
DEFINISI_IMPLISIT: [jelaskan pemahaman dari konteks, atau "Tidak dapat diidentifikasi dari konteks"]
ANALISIS_KOMPREHENSIF: [analisis mendalam dalam bahasa Indonesia akademis]
TINGKAT_KEPASTIAN: [TINGGI/SEDANG/RENDAH]

JAWABAN:`, keyword, relevantText(text, keyword), keyword, format)
}

// Analyze asks the model to search the whole document for keyword. A
// generator error is returned unchanged; the caller decides how to recover.
func (o *Orchestrator) Analyze(ctx context.Context, text, keyword, format string) (*Analysis, error) {
	resp, err := o.generate(ctx, llm.GenerateRequest{
		Prompt:      buildAnalysisPrompt(text, keyword, format),
		MaxTokens:   analysisMaxTokens,
		Temperature: analysisTemperature,
		TopP:        analysisTopP,
	})
	if err != nil {
		return nil, fmt.Errorf("full analysis: %w", err)
	}
	a := ParseAnalysis(resp.Text())
	slog.Info("paraphrase: analysis complete",
		"keyword", keyword, "found", a.Found, "certainty", a.Certainty.String())
	return a, nil
}

var (
	labelStatus    = regexp.MustCompile(`(?i)STATUS_PENCARIAN:\s*`)
	labelExplicit  = regexp.MustCompile(`(?i)DEFINISI_EKSPLISIT:\s*`)
	labelImplicit  = regexp.MustCompile(`(?i)DEFINISI_IMPLISIT:\s*`)
	labelSummary   = regexp.MustCompile(`(?i)ANALISIS_KOMPREHENSIF:\s*`)
	labelCertainty = regexp.MustCompile(`(?i)TINGKAT_KEPASTIAN:\s*`)
	anyLabel       = regexp.MustCompile(`(?i)STATUS_PENCARIAN:|DEFINISI_EKSPLISIT:|DEFINISI_IMPLISIT:|ANALISIS_KOMPREHENSIF:|TINGKAT_KEPASTIAN:`)
)

// ParseAnalysis reads the labelled reply line by line. A status counts as
// found only when it says DITEMUKAN without TIDAK. When the summary label
// is missing from a long reply, the whole label-stripped reply becomes the
// summary and found is inferred from its wording.
func ParseAnalysis(raw string) *Analysis {
	a := &Analysis{Certainty: extract.TierLow, Raw: raw}

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "":
		case strings.Contains(line, "STATUS_PENCARIAN:"):
			status := strings.ToUpper(labelStatus.ReplaceAllString(line, ""))
			a.Found = strings.Contains(status, "DITEMUKAN") && !strings.Contains(status, "TIDAK")
		case strings.Contains(line, "DEFINISI_EKSPLISIT:"):
			a.ExplicitDefinition = strings.TrimSpace(labelExplicit.ReplaceAllString(line, ""))
			if strings.Contains(strings.ToLower(a.ExplicitDefinition), "tidak ditemukan") {
				a.ExplicitDefinition = ""
			}
		case strings.Contains(line, "DEFINISI_IMPLISIT:"):
			a.ImplicitDefinition = strings.TrimSpace(labelImplicit.ReplaceAllString(line, ""))
		case strings.Contains(line, "ANALISIS_KOMPREHENSIF:"):
			a.Summary = strings.TrimSpace(labelSummary.ReplaceAllString(line, ""))
		case strings.Contains(line, "TINGKAT_KEPASTIAN:"):
			a.Certainty = extract.ParseTier(strings.Trim(labelCertainty.ReplaceAllString(line, ""), " []"))
		}
	}

	if a.Summary == "" && len(raw) > 100 {
		clean := strings.TrimSpace(anyLabel.ReplaceAllString(raw, ""))
		if len(clean) > 50 {
			lower := strings.ToLower(raw)
			a.Summary = clean
			a.Found = strings.Contains(lower, "ditemukan") && !strings.Contains(lower, "tidak ditemukan")
		}
	}
	return a
}

// ExplainNotFound produces an n-sentence explanation that no definition of
// keyword was found in filename. It never fails for a valid n: generator
// errors fall back to the manual templates.
func (o *Orchestrator) ExplainNotFound(ctx context.Context, keyword, filename string, n int) (*Result, error) {
	if !ValidSentenceCount(n) {
		return nil, fmt.Errorf("%w: got %d", ErrSentenceCount, n)
	}
	resp, err := o.generate(ctx, llm.GenerateRequest{
		Prompt:      buildNotFoundPrompt(keyword, filename, n),
		MaxTokens:   notFoundTokensPerSentence * n,
		Temperature: notFoundTemperature,
		TopP:        notFoundTopP,
	})
	if err != nil {
		slog.Warn("paraphrase: not-found explanation failed, using fallback",
			"keyword", keyword, "filename", filename, "error", err)
		return &Result{Text: Fallback(keyword, n), Sentences: n, Fallback: true}, nil
	}
	return &Result{
		Text:             Cleanup(resp.Text(), keyword, n),
		Sentences:        n,
		Model:            resp.Model,
		PromptTokens:     resp.PromptTokens,
		CompletionTokens: resp.CompletionTokens,
	}, nil
}
