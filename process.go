package godefine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/brunobiangulo/godefine/extract"
	"github.com/brunobiangulo/godefine/paraphrase"
	"github.com/brunobiangulo/godefine/parser"
	"github.com/brunobiangulo/godefine/store"
)

// ProcessingInfo is the typed metadata stored with each document.
type ProcessingInfo = store.ProcessingInfo

// Source is a document held in memory, ready for the pipeline.
type Source struct {
	Filename       string `json:"filename"`
	Text           string `json:"text"`
	Keyword        string `json:"keyword"`
	Author         string `json:"author"`
	Year           int    `json:"year"`
	CitationFormat string `json:"citationFormat"`
	SentenceCount  int    `json:"sentenceCount"`
}

// SentenceAnalysis compares the requested and produced sentence counts.
type SentenceAnalysis struct {
	TargetSentences   int  `json:"targetSentences" yaml:"target_sentences"`
	ActualSentences   int  `json:"actualSentences" yaml:"actual_sentences"`
	OriginalSentences int  `json:"originalSentences" yaml:"original_sentences"`
	ProcessingSuccess bool `json:"processingSuccess" yaml:"processing_success"`
}

// ProcessResult is the outcome of the full pipeline on one document.
type ProcessResult struct {
	DocumentID                int64            `json:"documentId,omitempty" yaml:"document_id,omitempty"`
	Keyword                   string           `json:"keyword" yaml:"keyword"`
	Author                    string           `json:"author" yaml:"author"`
	PublicationYear           int              `json:"publicationYear" yaml:"publication_year"`
	DefinitionFound           bool             `json:"definitionFound" yaml:"definition_found"`
	ConfidenceLevel           extract.Tier     `json:"confidenceLevel" yaml:"confidence_level"`
	Strategy                  extract.Strategy `json:"strategy" yaml:"strategy"`
	OriginalDefinition        string           `json:"originalDefinition" yaml:"original_definition"`
	Paraphrased               string           `json:"paraphrased" yaml:"paraphrased"`
	InTextCitation            string           `json:"inTextCitation" yaml:"in_text_citation"`
	AlternativeCitations      []string         `json:"alternativeCitations" yaml:"alternative_citations"`
	Bibliography              string           `json:"bibliography" yaml:"bibliography"`
	AlternativeBibliographies []string         `json:"alternativeBibliographies" yaml:"alternative_bibliographies"`
	CitationFormat            string           `json:"citationFormat" yaml:"citation_format"`
	SentenceAnalysis          SentenceAnalysis `json:"sentenceAnalysis" yaml:"sentence_analysis"`
	ProcessingNotes           string           `json:"processingNotes" yaml:"processing_notes"`
	Fallback                  bool             `json:"fallback" yaml:"fallback"`

	generations []store.GenerationLog
}

// TextPreview summarises a manual paraphrase.
type TextPreview struct {
	OriginalSentences    int `json:"originalSentences" yaml:"original_sentences"`
	ParaphrasedSentences int `json:"paraphrasedSentences" yaml:"paraphrased_sentences"`
	TargetSentences      int `json:"targetSentences" yaml:"target_sentences"`
}

// TextResult is the outcome of ParaphraseText.
type TextResult struct {
	DocumentID     int64       `json:"documentId" yaml:"document_id"`
	Paraphrased    string      `json:"paraphrased" yaml:"paraphrased"`
	InTextCitation string      `json:"inTextCitation" yaml:"in_text_citation"`
	Bibliography   string      `json:"bibliography" yaml:"bibliography"`
	Fallback       bool        `json:"fallback" yaml:"fallback"`
	Preview        TextPreview `json:"preview" yaml:"preview"`
}

// SentenceInfo reports stored sentence counts; unknown values read
// "Unknown".
type SentenceInfo struct {
	SentenceCount       string `json:"sentenceCount" yaml:"sentence_count"`
	ActualSentenceCount string `json:"actualSentenceCount" yaml:"actual_sentence_count"`
}

// HistoryEntry is one document in a user's history.
type HistoryEntry struct {
	ID                 int64        `json:"id" yaml:"id"`
	Filename           string       `json:"filename" yaml:"filename"`
	Keyword            string       `json:"keyword" yaml:"keyword"`
	CitationFormat     string       `json:"citationFormat" yaml:"citation_format"`
	Paraphrased        string       `json:"paraphrased" yaml:"paraphrased"`
	Citation           string       `json:"citation" yaml:"citation"`
	DefinitionFound    bool         `json:"definitionFound" yaml:"definition_found"`
	OriginalDefinition string       `json:"originalDefinition" yaml:"original_definition"`
	Author             string       `json:"author" yaml:"author"`
	PublicationYear    int          `json:"publicationYear" yaml:"publication_year"`
	CreatedAt          string       `json:"createdAt" yaml:"created_at"`
	SentenceInfo       SentenceInfo `json:"sentenceInfo" yaml:"sentence_info"`
}

const unknownCount = "Unknown"

func (e *engine) ExtractText(ctx context.Context, filename, mimeType string, data []byte) (string, error) {
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = parser.MIMEForFilename(filename)
	}
	text, err := e.parsers.Extract(ctx, mimeType, data)
	if err != nil {
		return "", fmt.Errorf("extracting %s: %w", filename, err)
	}
	return text, nil
}

// Upload validates req, extracts its text and stores it unprocessed.
func (e *engine) Upload(ctx context.Context, req UploadRequest) (*store.Document, error) {
	if e.store == nil {
		return nil, ErrStoreUnavailable
	}
	n, err := req.validate(e.now(), e.cfg.DefaultSentenceCount)
	if err != nil {
		return nil, err
	}

	text, err := e.ExtractText(ctx, req.Filename, req.MIMEType, req.Data)
	if err != nil {
		return nil, err
	}

	doc := store.Document{
		UserID:          req.UserID,
		Filename:        parser.Sanitize(req.Filename),
		OriginalText:    text,
		CitationFormat:  normalizeFormat(req.CitationFormat, e.cfg.DefaultCitationFormat),
		Keyword:         parser.Sanitize(req.Keyword),
		Author:          parser.Sanitize(req.Author),
		PublicationYear: req.Year,
		Info:            ProcessingInfo{SentenceCount: n},
	}
	id, err := e.store.InsertDocument(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("storing upload: %w", err)
	}
	doc.ID = id

	slog.Info("upload: stored",
		"document_id", id, "filename", doc.Filename, "mime", req.MIMEType, "chars", len(text), "sentences", n)
	return &doc, nil
}

// ParaphraseText paraphrases req.OriginalText with itself as context and
// stores the result as a found definition.
func (e *engine) ParaphraseText(ctx context.Context, req TextRequest) (*TextResult, error) {
	if e.store == nil {
		return nil, ErrStoreUnavailable
	}
	n, err := req.validate(e.now(), e.cfg.DefaultSentenceCount)
	if err != nil {
		return nil, err
	}
	format := normalizeFormat(req.CitationFormat, e.cfg.DefaultCitationFormat)
	keyword := parser.Sanitize(req.Keyword)
	author := parser.Sanitize(req.Author)
	original := parser.Sanitize(req.OriginalText)
	e.metrics.ObserveRequest("paraphrase_text", format)

	start := time.Now()
	p, err := e.Paraphrase(ctx, original, keyword, original, n)
	if err != nil {
		return nil, err
	}
	citations := e.BuildCitations(p.Text, author, req.Year, format)
	bibs := e.BuildBibliography(`Definisi untuk "`+keyword+`"`, author, req.Year, format)
	selected := e.SelectBestCitation(citations)

	id, err := e.store.InsertDocument(ctx, store.Document{
		UserID:             req.UserID,
		Filename:           "Teks: " + keyword,
		OriginalText:       original,
		CitationFormat:     format,
		Keyword:            keyword,
		Author:             author,
		PublicationYear:    req.Year,
		Paraphrased:        p.Text,
		Citation:           selected,
		DefinitionFound:    true,
		OriginalDefinition: original,
		Info: ProcessingInfo{
			SentenceCount:  n,
			ProcessingType: store.ProcessingTextInput,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("storing paraphrase: %w", err)
	}
	e.logGenerations(ctx, []store.GenerationLog{
		generationLog(id, keyword, "paraphrase", p, time.Since(start)),
	})

	return &TextResult{
		DocumentID:     id,
		Paraphrased:    p.Text,
		InTextCitation: selected,
		Bibliography:   e.SelectBestBibliography(bibs),
		Fallback:       p.Fallback,
		Preview: TextPreview{
			OriginalSentences:    extract.CountSentences(original),
			ParaphrasedSentences: extract.CountSentences(p.Text),
			TargetSentences:      n,
		},
	}, nil
}

// Process loads a stored document, runs the pipeline and saves the
// result.
func (e *engine) Process(ctx context.Context, userID string, documentID int64) (*ProcessResult, error) {
	if e.store == nil {
		return nil, ErrStoreUnavailable
	}
	if documentID == 0 {
		return nil, ErrMissingDocumentID
	}
	doc, err := e.store.GetDocument(ctx, documentID, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrDocumentNotFound, documentID)
		}
		return nil, fmt.Errorf("loading document %d: %w", documentID, err)
	}

	n := doc.Info.SentenceCount
	if !paraphrase.ValidSentenceCount(n) {
		slog.Debug("process: stored sentence count unusable, using default", "document_id", documentID, "value", n)
		n = e.cfg.DefaultSentenceCount
	}

	res, err := e.ProcessSource(ctx, Source{
		Filename:       doc.Filename,
		Text:           doc.OriginalText,
		Keyword:        doc.Keyword,
		Author:         doc.Author,
		Year:           doc.PublicationYear,
		CitationFormat: doc.CitationFormat,
		SentenceCount:  n,
	})
	if err != nil {
		return nil, err
	}
	res.DocumentID = documentID

	for i := range res.generations {
		res.generations[i].DocumentID = documentID
	}
	err = e.store.UpdateResult(ctx, documentID, userID, store.Result{
		Paraphrased:        parser.Sanitize(res.Paraphrased),
		Citation:           parser.Sanitize(res.InTextCitation),
		DefinitionFound:    res.DefinitionFound,
		OriginalDefinition: parser.Sanitize(res.OriginalDefinition),
		Info: ProcessingInfo{
			SentenceCount:       n,
			ActualSentenceCount: res.SentenceAnalysis.ActualSentences,
			ProcessingType:      store.ProcessingDocumentAnalysis,
			ConfidenceLevel:     res.ConfidenceLevel.String(),
			ProcessedAt:         e.now().UTC(),
		},
		Generations: res.generations,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrDocumentNotFound, documentID)
		}
		return nil, fmt.Errorf("saving result for document %d: %w", documentID, err)
	}
	return res, nil
}

// ProcessSource runs extraction, classification, paraphrasing and
// citation on src:
//
//	candidates found  -> paraphrase the top candidate (direct or combined context)
//	no candidates     -> whole-document analysis, then paraphrase its
//	                     summary or explain that nothing was found
func (e *engine) ProcessSource(ctx context.Context, src Source) (*ProcessResult, error) {
	src.Keyword = strings.TrimSpace(src.Keyword)
	if src.Keyword == "" {
		return nil, ErrEmptyKeyword
	}
	n, err := resolveSentenceCount(src.SentenceCount, e.cfg.DefaultSentenceCount)
	if err != nil {
		return nil, err
	}
	format := normalizeFormat(src.CitationFormat, e.cfg.DefaultCitationFormat)
	e.metrics.ObserveRequest("process", format)

	start := time.Now()
	ext := e.ExtractDefinitions(src.Text, src.Keyword)
	cls := e.ClassifyConfidence(ext)

	res := &ProcessResult{
		Keyword:         src.Keyword,
		Author:          src.Author,
		PublicationYear: src.Year,
		CitationFormat:  format,
		Strategy:        cls.Strategy,
	}

	var p *paraphrase.Result
	switch cls.Strategy {
	case extract.StrategyDirect, extract.StrategyCombinedContext:
		res.DefinitionFound = true
		res.ConfidenceLevel = cls.Tier
		res.OriginalDefinition = cls.Definition
		p, err = e.Paraphrase(ctx, cls.Definition, src.Keyword, cls.Context, n)
		if err != nil {
			return nil, err
		}
		res.generations = append(res.generations, generationLog(0, src.Keyword, "paraphrase", p, time.Since(start)))

	default:
		a, aerr := e.orch.Analyze(ctx, src.Text, src.Keyword, format)
		if aerr != nil {
			slog.Warn("process: analysis failed, treating as not found", "keyword", src.Keyword, "error", aerr)
			a = &paraphrase.Analysis{Certainty: extract.TierLow}
		}
		res.DefinitionFound = a.Found
		res.ConfidenceLevel = a.Certainty
		res.OriginalDefinition = a.ExplicitDefinition

		if a.Found && a.Summary != "" {
			p, err = e.Paraphrase(ctx, a.Summary, src.Keyword, a.ImplicitDefinition, n)
			if err != nil {
				return nil, err
			}
			res.generations = append(res.generations, generationLog(0, src.Keyword, "analysis", p, time.Since(start)))
		} else {
			p, err = e.orch.ExplainNotFound(ctx, src.Keyword, src.Filename, n)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidSentenceCount, err)
			}
			if p.Fallback {
				e.metrics.ObserveFallback()
			}
			res.generations = append(res.generations, generationLog(0, src.Keyword, "not_found", p, time.Since(start)))
		}
	}
	e.metrics.ObserveTier(res.ConfidenceLevel.String())

	res.Paraphrased = p.Text
	res.Fallback = p.Fallback

	citations := e.BuildCitations(p.Text, src.Author, src.Year, format)
	bibs := e.BuildBibliography(src.Filename, src.Author, src.Year, format)
	res.InTextCitation = e.SelectBestCitation(citations)
	res.Bibliography = e.SelectBestBibliography(bibs)
	res.AlternativeCitations = citations[:min(len(citations), 3)]
	res.AlternativeBibliographies = bibs[:min(len(bibs), 2)]

	res.OriginalDefinition = stripQuotes(res.OriginalDefinition)
	actual := extract.CountSentences(p.Text)
	res.SentenceAnalysis = SentenceAnalysis{
		TargetSentences:   n,
		ActualSentences:   actual,
		OriginalSentences: extract.CountSentences(res.OriginalDefinition),
		ProcessingSuccess: actual == n,
	}
	res.ProcessingNotes = ProcessingNotes(res.DefinitionFound, res.ConfidenceLevel, ext.TopScore())

	slog.Info("process: complete",
		"keyword", src.Keyword,
		"found", res.DefinitionFound,
		"tier", res.ConfidenceLevel.String(),
		"strategy", res.Strategy.String(),
		"target", n,
		"actual", actual,
		"fallback", res.Fallback,
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return res, nil
}

// History returns the user's documents newest first.
func (e *engine) History(ctx context.Context, userID string) ([]HistoryEntry, error) {
	if e.store == nil {
		return nil, ErrStoreUnavailable
	}
	docs, err := e.store.ListHistory(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}
	out := make([]HistoryEntry, 0, len(docs))
	for _, d := range docs {
		out = append(out, HistoryEntry{
			ID:                 d.ID,
			Filename:           d.Filename,
			Keyword:            d.Keyword,
			CitationFormat:     d.CitationFormat,
			Paraphrased:        d.Paraphrased,
			Citation:           d.Citation,
			DefinitionFound:    d.DefinitionFound,
			OriginalDefinition: d.OriginalDefinition,
			Author:             d.Author,
			PublicationYear:    d.PublicationYear,
			CreatedAt:          d.CreatedAt,
			SentenceInfo: SentenceInfo{
				SentenceCount:       countOrUnknown(d.Info.SentenceCount),
				ActualSentenceCount: countOrUnknown(d.Info.ActualSentenceCount),
			},
		})
	}
	return out, nil
}

// ProcessingNotes explains in Indonesian how the result was reached.
func ProcessingNotes(found bool, tier extract.Tier, score int) string {
	if !found {
		return "Definisi eksplisit tidak ditemukan dalam dokumen. Telah dilakukan analisis menyeluruh " +
			"menggunakan berbagai teknik pencarian dan AI untuk memastikan tidak ada informasi yang terlewat."
	}
	switch tier {
	case extract.TierHigh:
		return fmt.Sprintf("Definisi ditemukan dengan tingkat kepercayaan tinggi (skor: %d). Parafrase dibuat "+
			"menggunakan teknik analisis semantik lanjutan dengan multiple sentence generation.", score)
	case extract.TierMedium:
		return fmt.Sprintf("Definisi ditemukan dengan tingkat kepercayaan sedang (skor: %d). Dilakukan analisis "+
			"kontekstual untuk menghasilkan parafrase multi-kalimat yang akurat.", score)
	default:
		return "Definisi ditemukan dengan tingkat kepercayaan rendah. Digunakan analisis komprehensif AI " +
			"untuk memastikan akurasi parafrase multi-kalimat."
	}
}

// stripQuotes removes one pair of surrounding double quotes.
func stripQuotes(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return s[1 : len(s)-1]
	}
	return s
}

func countOrUnknown(n int) string {
	if n <= 0 {
		return unknownCount
	}
	return strconv.Itoa(n)
}

func generationLog(docID int64, keyword, kind string, p *paraphrase.Result, elapsed time.Duration) store.GenerationLog {
	return store.GenerationLog{
		DocumentID:       docID,
		Keyword:          keyword,
		Kind:             kind,
		ModelUsed:        p.Model,
		Fallback:         p.Fallback,
		SentenceCount:    p.Sentences,
		PromptTokens:     p.PromptTokens,
		CompletionTokens: p.CompletionTokens,
		ElapsedMs:        elapsed.Milliseconds(),
	}
}

// logGenerations records generation calls; failures are not fatal.
func (e *engine) logGenerations(ctx context.Context, logs []store.GenerationLog) {
	for _, g := range logs {
		if err := e.store.LogGeneration(ctx, g); err != nil {
			slog.Warn("failed to log generation", "kind", g.Kind, "error", err)
		}
	}
}
