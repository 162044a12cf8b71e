// Package godefine finds the definition of a keyword in an academic
// document, paraphrases it into a chosen number of Indonesian sentences
// and renders matching in-text citations and bibliography entries.
package godefine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/brunobiangulo/godefine/citation"
	"github.com/brunobiangulo/godefine/extract"
	"github.com/brunobiangulo/godefine/llm"
	"github.com/brunobiangulo/godefine/metrics"
	"github.com/brunobiangulo/godefine/paraphrase"
	"github.com/brunobiangulo/godefine/parser"
	"github.com/brunobiangulo/godefine/store"
)

// Engine is the main entry point for definition processing.
type Engine interface {
	// ExtractDefinitions returns ranked candidate definitions of keyword.
	ExtractDefinitions(text, keyword string) extract.Result

	// ClassifyConfidence grades an extraction result.
	ClassifyConfidence(r extract.Result) extract.Classification

	// Paraphrase rewrites sourceText into exactly n sentences. The only
	// error is an n outside 1-5.
	Paraphrase(ctx context.Context, sourceText, keyword, surrounding string, n int) (*paraphrase.Result, error)

	// BuildCitations renders the in-text citation variants.
	BuildCitations(paraphrased, author string, year int, format string) []string

	// BuildBibliography renders the bibliography variants for a title.
	BuildBibliography(title, author string, year int, format string) []string

	SelectBestCitation(citations []string) string
	SelectBestBibliography(entries []string) string

	// ExtractText returns the sanitized text of a document using the
	// engine's parsers. An empty or generic mimeType is resolved from the
	// filename extension.
	ExtractText(ctx context.Context, filename, mimeType string, data []byte) (string, error)

	// Upload validates req, extracts its text and stores it for a later
	// Process call.
	Upload(ctx context.Context, req UploadRequest) (*store.Document, error)

	// ParaphraseText paraphrases a user-supplied definition and stores
	// the result.
	ParaphraseText(ctx context.Context, req TextRequest) (*TextResult, error)

	// Process runs the full pipeline on a stored document and saves the
	// result.
	Process(ctx context.Context, userID string, documentID int64) (*ProcessResult, error)

	// ProcessSource runs the full pipeline on an in-memory source without
	// touching the store.
	ProcessSource(ctx context.Context, src Source) (*ProcessResult, error)

	// History lists a user's documents, newest first.
	History(ctx context.Context, userID string) ([]HistoryEntry, error)

	// Stats summarises stored documents.
	Stats(ctx context.Context) (*store.DBStats, error)

	// Metrics returns the engine's collectors; nil when disabled.
	Metrics() *metrics.Metrics

	// Close cleanly shuts down the engine.
	Close() error
}

// DocumentStore is the persistence the engine needs. *store.Store
// implements it.
type DocumentStore interface {
	InsertDocument(ctx context.Context, doc store.Document) (int64, error)
	GetDocument(ctx context.Context, id int64, userID string) (*store.Document, error)
	UpdateResult(ctx context.Context, id int64, userID string, r store.Result) error
	ListHistory(ctx context.Context, userID string) ([]store.Document, error)
	LogGeneration(ctx context.Context, g store.GenerationLog) error
	DBStats(ctx context.Context) (*store.DBStats, error)
	Close() error
}

// Deps overrides the collaborators New would build. Nil fields mean:
// no generator (template fallback only), no store (persistence calls
// return ErrStoreUnavailable), the built-in parsers, and no metrics.
type Deps struct {
	Generator llm.Generator
	Store     DocumentStore
	Parsers   *parser.Registry
	Metrics   *metrics.Metrics
	Now       func() time.Time
}

// engine is the concrete implementation of Engine.
type engine struct {
	cfg     Config
	store   DocumentStore
	parsers *parser.Registry
	orch    *paraphrase.Orchestrator
	cites   *citation.Formatter
	metrics *metrics.Metrics
	now     func() time.Time
}

// New creates an engine with a sqlite store, the configured generation
// provider and a private metrics registry.
func New(cfg Config) (Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s, err := store.New(cfg.resolveDBPath())
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	var gen llm.Generator
	if cfg.Generation.Provider != "" {
		p, err := llm.NewProvider(cfg.Generation)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("creating generation provider: %w", err)
		}
		gen = llm.NewGenerator(p)
	} else {
		slog.Warn("no generation provider configured, paraphrases will use templates")
	}

	return NewWithDeps(cfg, Deps{
		Generator: gen,
		Store:     s,
		Metrics:   metrics.New(),
	})
}

// NewWithDeps creates an engine around caller-supplied collaborators.
func NewWithDeps(cfg Config, deps Deps) (Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.normalize()

	parsers := deps.Parsers
	if parsers == nil {
		parsers = parser.NewRegistry()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	return &engine{
		cfg:     cfg,
		store:   deps.Store,
		parsers: parsers,
		orch:    paraphrase.New(deps.Metrics.InstrumentGenerator(deps.Generator), cfg.Paraphrase),
		cites:   citation.NewFormatter(nil),
		metrics: deps.Metrics,
		now:     now,
	}, nil
}

func (e *engine) ExtractDefinitions(text, keyword string) extract.Result {
	return extract.Extract(text, keyword)
}

func (e *engine) ClassifyConfidence(r extract.Result) extract.Classification {
	return extract.Classify(r)
}

func (e *engine) Paraphrase(ctx context.Context, sourceText, keyword, surrounding string, n int) (*paraphrase.Result, error) {
	res, err := e.orch.Paraphrase(ctx, paraphrase.Request{
		SourceText:    sourceText,
		Keyword:       keyword,
		Context:       surrounding,
		SentenceCount: n,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSentenceCount, err)
	}
	if res.Fallback {
		e.metrics.ObserveFallback()
	}
	return res, nil
}

func (e *engine) BuildCitations(paraphrased, author string, year int, format string) []string {
	return e.cites.Cite(paraphrased, author, year, format)
}

func (e *engine) BuildBibliography(title, author string, year int, format string) []string {
	return citation.Bibliography(title, author, year, format)
}

func (e *engine) SelectBestCitation(citations []string) string {
	return citation.SelectBestCitation(citations)
}

func (e *engine) SelectBestBibliography(entries []string) string {
	return citation.SelectBestBibliography(entries)
}

func (e *engine) Stats(ctx context.Context) (*store.DBStats, error) {
	if e.store == nil {
		return nil, ErrStoreUnavailable
	}
	return e.store.DBStats(ctx)
}

func (e *engine) Metrics() *metrics.Metrics { return e.metrics }

func (e *engine) Close() error {
	if e.store == nil {
		return nil
	}
	return e.store.Close()
}
