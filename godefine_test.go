package godefine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brunobiangulo/godefine/extract"
	"github.com/brunobiangulo/godefine/llm"
	"github.com/brunobiangulo/godefine/metrics"
	"github.com/brunobiangulo/godefine/paraphrase"
	"github.com/brunobiangulo/godefine/parser"
	"github.com/brunobiangulo/godefine/store"
)

// ---------------------------------------------------------------------------
// Fakes
// ---------------------------------------------------------------------------

// memStore is an in-memory DocumentStore.
type memStore struct {
	mu     sync.Mutex
	nextID int64
	docs   map[int64]store.Document
	logs   []store.GenerationLog
	closed bool
}

func newMemStore() *memStore {
	return &memStore{docs: map[int64]store.Document{}}
}

func (m *memStore) InsertDocument(_ context.Context, doc store.Document) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	doc.ID = m.nextID
	doc.CreatedAt = time.Unix(m.nextID, 0).UTC().Format(time.RFC3339)
	m.docs[doc.ID] = doc
	return doc.ID, nil
}

func (m *memStore) GetDocument(_ context.Context, id int64, userID string) (*store.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.docs[id]
	if !ok || d.UserID != userID {
		return nil, store.ErrNotFound
	}
	return &d, nil
}

func (m *memStore) UpdateResult(_ context.Context, id int64, userID string, r store.Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.docs[id]
	if !ok || d.UserID != userID {
		return store.ErrNotFound
	}
	d.Paraphrased = r.Paraphrased
	d.Citation = r.Citation
	d.DefinitionFound = r.DefinitionFound
	d.OriginalDefinition = r.OriginalDefinition
	d.Info = r.Info
	m.docs[id] = d
	m.logs = append(m.logs, r.Generations...)
	return nil
}

func (m *memStore) ListHistory(_ context.Context, userID string) ([]store.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []store.Document
	for _, d := range m.docs {
		if d.UserID == userID {
			d.OriginalText = ""
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memStore) LogGeneration(_ context.Context, g store.GenerationLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, g)
	return nil
}

func (m *memStore) DBStats(context.Context) (*store.DBStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return &store.DBStats{Documents: len(m.docs), Generations: len(m.logs)}, nil
}

func (m *memStore) Close() error {
	m.closed = true
	return nil
}

// scripted answers analysis prompts with analysis and everything else
// with paraphrase; a non-nil err fails every call.
type scripted struct {
	mu       sync.Mutex
	analysis string
	reply    string
	err      error
	prompts  []string
}

func (s *scripted) Generate(_ context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = append(s.prompts, req.Prompt)
	if s.err != nil {
		return nil, s.err
	}
	if strings.Contains(req.Prompt, "STATUS_PENCARIAN") {
		return &llm.GenerateResponse{Fragments: []string{s.analysis}, Model: "fake"}, nil
	}
	return &llm.GenerateResponse{Fragments: []string{s.reply}, Model: "fake", PromptTokens: 10, CompletionTokens: 20}, nil
}

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T, gen llm.Generator) (Engine, *memStore) {
	t.Helper()
	ms := newMemStore()
	e, err := NewWithDeps(DefaultConfig(), Deps{
		Generator: gen,
		Store:     ms,
		Metrics:   metrics.New(),
		Now:       func() time.Time { return fixedNow },
	})
	require.NoError(t, err)
	return e, ms
}

var errDown = errors.New("model unavailable")

// fixedText is an Extractor that ignores its input.
type fixedText string

func (f fixedText) MIMETypes() []string { return []string{parser.MIMEText} }

func (f fixedText) Extract(context.Context, []byte) (string, error) { return string(f), nil }

func TestExtractTextUsesInjectedParsers(t *testing.T) {
	reg := parser.NewRegistry()
	reg.Register(parser.MIMEText, fixedText("teks dari parser kustom"))
	e, err := NewWithDeps(DefaultConfig(), Deps{Parsers: reg})
	require.NoError(t, err)

	got, err := e.ExtractText(context.Background(), "catatan.txt", "", []byte("diabaikan"))
	require.NoError(t, err)
	assert.Equal(t, "teks dari parser kustom", got)

	got, err = e.ExtractText(context.Background(), "tanpa-ekstensi", "text/plain; charset=utf-8", nil)
	require.NoError(t, err)
	assert.Equal(t, "teks dari parser kustom", got)

	_, err = e.ExtractText(context.Background(), "catatan.odt", "application/octet-stream", []byte("x"))
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

const mlText = "Machine learning adalah cabang AI yang mempelajari pola dari data."

// ---------------------------------------------------------------------------
// Pipeline
// ---------------------------------------------------------------------------

func TestProcessSourceTrimsKeyword(t *testing.T) {
	gen := &scripted{err: errDown}
	e, _ := newTestEngine(t, gen)

	res, err := e.ProcessSource(context.Background(), Source{
		Filename: "pengantar-ml.pdf",
		Text:     mlText,
		Keyword:  "  machine learning ",
		Author:   "Budi Santoso",
		Year:     2020,
	})
	require.NoError(t, err)

	assert.Equal(t, "machine learning", res.Keyword)
	assert.True(t, res.DefinitionFound)
	assert.Equal(t, extract.TierHigh, res.ConfidenceLevel)
	assert.Equal(t, extract.StrategyDirect, res.Strategy)
}

func TestProcessSourceHighConfidence(t *testing.T) {
	gen := &scripted{err: errDown}
	e, _ := newTestEngine(t, gen)

	res, err := e.ProcessSource(context.Background(), Source{
		Filename:       "pengantar-ml.pdf",
		Text:           mlText,
		Keyword:        "machine learning",
		Author:         "Budi Santoso",
		Year:           2020,
		CitationFormat: "apa",
	})
	require.NoError(t, err)

	assert.True(t, res.DefinitionFound)
	assert.Equal(t, extract.TierHigh, res.ConfidenceLevel)
	assert.Equal(t, extract.StrategyDirect, res.Strategy)
	assert.Equal(t, mlText, res.OriginalDefinition)
	assert.Equal(t, "APA", res.CitationFormat)

	// Generation failed, so the templates answer.
	assert.True(t, res.Fallback)
	assert.Equal(t, paraphrase.Fallback("machine learning", 2), res.Paraphrased)
	assert.Len(t, gen.prompts, 1)

	assert.True(t, strings.HasPrefix(res.InTextCitation, "Menurut Santoso (2020), "))
	assert.LessOrEqual(t, len(res.AlternativeCitations), 3)
	assert.LessOrEqual(t, len(res.AlternativeBibliographies), 2)
	assert.Contains(t, res.Bibliography, "Pengantar Ml")
	assert.Contains(t, res.Bibliography, "Dokumen Akademik")

	assert.Equal(t, SentenceAnalysis{
		TargetSentences:   2,
		ActualSentences:   2,
		OriginalSentences: 1,
		ProcessingSuccess: true,
	}, res.SentenceAnalysis)
	assert.Contains(t, res.ProcessingNotes, "kepercayaan tinggi (skor: 10)")
}

func TestProcessSourceNotFound(t *testing.T) {
	gen := &scripted{err: errDown}
	e, _ := newTestEngine(t, gen)

	res, err := e.ProcessSource(context.Background(), Source{
		Filename:      "cuaca.txt",
		Text:          "Cuaca hari ini cerah sekali. Angin bertiup pelan.",
		Keyword:       "blockchain",
		Author:        "Sari Dewi",
		Year:          2021,
		SentenceCount: 3,
	})
	require.NoError(t, err)

	assert.False(t, res.DefinitionFound)
	assert.Equal(t, extract.TierLow, res.ConfidenceLevel)
	assert.Equal(t, extract.StrategyFullAnalysis, res.Strategy)
	assert.Empty(t, res.OriginalDefinition)
	assert.Equal(t, paraphrase.Fallback("blockchain", 3), res.Paraphrased)
	assert.Equal(t, 3, res.SentenceAnalysis.TargetSentences)
	assert.True(t, strings.HasPrefix(res.ProcessingNotes, "Definisi eksplisit tidak ditemukan"))

	// Analysis then the not-found explanation.
	require.Len(t, gen.prompts, 2)
	assert.Contains(t, gen.prompts[0], "STATUS_PENCARIAN")
}

func TestProcessSourceAnalysisFound(t *testing.T) {
	gen := &scripted{
		analysis: "STATUS_PENCARIAN: DITEMUKAN\n" +
			"DEFINISI_EKSPLISIT: \"Pajak adalah iuran rakyat.\"\n" +
			"DEFINISI_IMPLISIT: Pungutan untuk membiayai negara.\n" +
			"ANALISIS_KOMPREHENSIF: Pajak dipahami sebagai kontribusi wajib warga.\n" +
			"TINGKAT_KEPASTIAN: TINGGI",
		reply: "Pajak merupakan kontribusi wajib yang dibayarkan warga kepada negara. " +
			"Pajak digunakan untuk membiayai kebutuhan publik secara luas.",
	}
	e, _ := newTestEngine(t, gen)

	res, err := e.ProcessSource(context.Background(), Source{
		Filename: "keuangan.txt",
		Text:     "Dokumen ini membahas keuangan negara secara umum.",
		Keyword:  "pajak",
		Author:   "Santoso, Budi",
		Year:     2019,
	})
	require.NoError(t, err)

	assert.True(t, res.DefinitionFound)
	assert.Equal(t, extract.TierHigh, res.ConfidenceLevel)
	assert.Equal(t, "Pajak adalah iuran rakyat.", res.OriginalDefinition)
	assert.False(t, res.Fallback)
	assert.NotEmpty(t, res.Paraphrased)
	assert.Contains(t, res.ProcessingNotes, "(skor: 0)")

	require.Len(t, gen.prompts, 2)
	assert.Contains(t, gen.prompts[1], "Pajak dipahami sebagai kontribusi wajib warga.")
}

func TestProcessSourceRejectsBadInput(t *testing.T) {
	e, _ := newTestEngine(t, nil)

	_, err := e.ProcessSource(context.Background(), Source{Text: mlText, Keyword: " "})
	assert.ErrorIs(t, err, ErrEmptyKeyword)

	_, err = e.ProcessSource(context.Background(), Source{Text: mlText, Keyword: "x", SentenceCount: 9})
	assert.ErrorIs(t, err, ErrInvalidSentenceCount)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

// ---------------------------------------------------------------------------
// Upload / Process / History
// ---------------------------------------------------------------------------

func validUpload() UploadRequest {
	return UploadRequest{
		UserID:   "u1",
		Filename: "pengantar-ml.txt",
		MIMEType: parser.MIMEText,
		Data:     []byte(mlText),
		Keyword:  "machine learning",
		Author:   "Budi Santoso",
		Year:     2020,
	}
}

func TestUploadValidationOrder(t *testing.T) {
	e, _ := newTestEngine(t, nil)

	tests := []struct {
		name   string
		mutate func(*UploadRequest)
		want   error
	}{
		{"no file", func(r *UploadRequest) { r.Data = nil; r.Keyword = "" }, ErrMissingFile},
		{"keyword before author", func(r *UploadRequest) { r.Keyword = " "; r.Author = "" }, ErrEmptyKeyword},
		{"author before year", func(r *UploadRequest) { r.Author = ""; r.Year = 0 }, ErrEmptyAuthor},
		{"year too old", func(r *UploadRequest) { r.Year = 1899 }, ErrInvalidYear},
		{"year too far ahead", func(r *UploadRequest) { r.Year = fixedNow.Year() + 6 }, ErrInvalidYear},
		{"year before count", func(r *UploadRequest) { r.Year = 0; r.SentenceCount = 9 }, ErrInvalidYear},
		{"count too high", func(r *UploadRequest) { r.SentenceCount = 6 }, ErrInvalidSentenceCount},
		{"count negative", func(r *UploadRequest) { r.SentenceCount = -1 }, ErrInvalidSentenceCount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validUpload()
			tt.mutate(&req)
			_, err := e.Upload(context.Background(), req)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, ErrInvalidRequest)
		})
	}
}

func TestUploadStoresDocument(t *testing.T) {
	e, ms := newTestEngine(t, nil)

	req := validUpload()
	req.Year = fixedNow.Year() + 5
	req.MIMEType = ""
	doc, err := e.Upload(context.Background(), req)
	require.NoError(t, err)

	stored := ms.docs[doc.ID]
	assert.Equal(t, mlText, stored.OriginalText)
	assert.Equal(t, "APA", stored.CitationFormat)
	assert.Equal(t, 2, stored.Info.SentenceCount)
	assert.False(t, stored.DefinitionFound)
}

func TestUploadExtractionErrors(t *testing.T) {
	e, _ := newTestEngine(t, nil)

	req := validUpload()
	req.MIMEType = "image/png"
	req.Filename = "foto.png"
	_, err := e.Upload(context.Background(), req)
	assert.ErrorIs(t, err, ErrUnsupportedType)

	req = validUpload()
	req.Data = []byte(" \n ")
	_, err = e.Upload(context.Background(), req)
	assert.ErrorIs(t, err, ErrNoTextExtracted)
}

func TestProcessStoredDocument(t *testing.T) {
	gen := &scripted{err: errDown}
	e, ms := newTestEngine(t, gen)
	ctx := context.Background()

	req := validUpload()
	req.SentenceCount = 3
	req.CitationFormat = "mla"
	doc, err := e.Upload(ctx, req)
	require.NoError(t, err)

	res, err := e.Process(ctx, "u1", doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.ID, res.DocumentID)
	assert.Equal(t, "MLA", res.CitationFormat)
	assert.Equal(t, 3, res.SentenceAnalysis.TargetSentences)
	assert.True(t, strings.HasSuffix(res.InTextCitation, "(Santoso 2020)."))

	stored := ms.docs[doc.ID]
	assert.True(t, stored.DefinitionFound)
	assert.Equal(t, res.Paraphrased, stored.Paraphrased)
	assert.Equal(t, res.InTextCitation, stored.Citation)
	assert.Equal(t, ProcessingInfo{
		SentenceCount:       3,
		ActualSentenceCount: 3,
		ProcessingType:      store.ProcessingDocumentAnalysis,
		ConfidenceLevel:     "TINGGI",
		ProcessedAt:         fixedNow,
	}, stored.Info)

	require.Len(t, ms.logs, 1)
	assert.Equal(t, doc.ID, ms.logs[0].DocumentID)
	assert.True(t, ms.logs[0].Fallback)
}

func TestProcessErrors(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	ctx := context.Background()

	doc, err := e.Upload(ctx, validUpload())
	require.NoError(t, err)

	_, err = e.Process(ctx, "someone-else", doc.ID)
	assert.ErrorIs(t, err, ErrDocumentNotFound)

	_, err = e.Process(ctx, "u1", 0)
	assert.ErrorIs(t, err, ErrMissingDocumentID)
}

func TestParaphraseText(t *testing.T) {
	gen := &scripted{err: errDown}
	e, ms := newTestEngine(t, gen)

	res, err := e.ParaphraseText(context.Background(), TextRequest{
		UserID:        "u1",
		OriginalText:  "Pajak adalah iuran wajib. Pajak dipungut negara.",
		Keyword:       "pajak",
		Author:        "Sari Dewi",
		Year:          2022,
		SentenceCount: 4,
	})
	require.NoError(t, err)

	assert.Equal(t, TextPreview{OriginalSentences: 2, ParaphrasedSentences: 4, TargetSentences: 4}, res.Preview)
	assert.True(t, res.Fallback)
	assert.Contains(t, res.Bibliography, "Definisi")
	assert.True(t, strings.HasPrefix(res.InTextCitation, "Menurut Dewi (2022), "))

	stored := ms.docs[res.DocumentID]
	assert.Equal(t, "Teks: pajak", stored.Filename)
	assert.True(t, stored.DefinitionFound)
	assert.Equal(t, stored.OriginalText, stored.OriginalDefinition)
	assert.Equal(t, store.ProcessingTextInput, stored.Info.ProcessingType)
	assert.Len(t, ms.logs, 1)

	// The definition text is checked first.
	_, err = e.ParaphraseText(context.Background(), TextRequest{Keyword: ""})
	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestHistory(t *testing.T) {
	e, _ := newTestEngine(t, &scripted{err: errDown})
	ctx := context.Background()

	first, err := e.Upload(ctx, validUpload())
	require.NoError(t, err)
	second, err := e.Upload(ctx, validUpload())
	require.NoError(t, err)
	_, err = e.Process(ctx, "u1", second.ID)
	require.NoError(t, err)

	hist, err := e.History(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, second.ID, hist[0].ID)
	assert.Equal(t, SentenceInfo{SentenceCount: "2", ActualSentenceCount: "2"}, hist[0].SentenceInfo)
	assert.Equal(t, first.ID, hist[1].ID)
	assert.Equal(t, SentenceInfo{SentenceCount: "2", ActualSentenceCount: "Unknown"}, hist[1].SentenceInfo)

	empty, err := e.History(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestStoreUnavailable(t *testing.T) {
	e, err := NewWithDeps(DefaultConfig(), Deps{})
	require.NoError(t, err)
	ctx := context.Background()

	_, err = e.Upload(ctx, validUpload())
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	_, err = e.Process(ctx, "u1", 1)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	_, err = e.History(ctx, "u1")
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	_, err = e.Stats(ctx)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.NoError(t, e.Close())

	// The pipeline itself needs no store.
	res, err := e.ProcessSource(ctx, Source{Text: mlText, Keyword: "machine learning", Author: "A", Year: 2000})
	require.NoError(t, err)
	assert.True(t, res.DefinitionFound)
}

func TestEngineParaphraseInvalidCount(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	_, err := e.Paraphrase(context.Background(), "x", "x", "", 0)
	assert.ErrorIs(t, err, ErrInvalidSentenceCount)
}

// ---------------------------------------------------------------------------
// Helpers and validation
// ---------------------------------------------------------------------------

func TestParseSentenceCount(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"", 2, false},
		{"abc", 2, false},
		{"0", 2, false},
		{"1", 1, false},
		{" 5 ", 5, false},
		{"3 kalimat", 3, false},
		{"3.7", 3, false},
		{"6", 0, true},
		{"-2", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseSentenceCount(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidSentenceCount, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestSentenceCountFromInfo(t *testing.T) {
	n, err := SentenceCountFromInfo(`{"sentenceCount": 4}`)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	n, err = SentenceCountFromInfo(`{"sentenceCount": "3"}`)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = SentenceCountFromInfo(`{not json`)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = SentenceCountFromInfo(`{"sentenceCount": 8}`)
	assert.ErrorIs(t, err, ErrInvalidSentenceCount)
}

func TestValidateYear(t *testing.T) {
	assert.NoError(t, ValidateYear(1900, fixedNow))
	assert.NoError(t, ValidateYear(2029, fixedNow))
	assert.ErrorIs(t, ValidateYear(2030, fixedNow), ErrInvalidYear)
	assert.ErrorIs(t, ValidateYear(0, fixedNow), ErrInvalidYear)
}

func TestProcessingNotes(t *testing.T) {
	assert.Contains(t, ProcessingNotes(true, extract.TierHigh, 11), "tinggi (skor: 11)")
	assert.Contains(t, ProcessingNotes(true, extract.TierMedium, 7), "sedang (skor: 7)")
	assert.Contains(t, ProcessingNotes(true, extract.TierLow, 0), "kepercayaan rendah.")
	assert.True(t, strings.HasPrefix(ProcessingNotes(false, extract.TierHigh, 10), "Definisi eksplisit tidak ditemukan"))
}

func TestStripQuotes(t *testing.T) {
	assert.Equal(t, "abc", stripQuotes(`"abc"`))
	assert.Equal(t, `"abc`, stripQuotes(`"abc`))
	assert.Equal(t, `"`, stripQuotes(`"`))
	assert.Equal(t, "", stripQuotes(`""`))
}

// ---------------------------------------------------------------------------
// Config
// ---------------------------------------------------------------------------

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 2, cfg.DefaultSentenceCount)
	assert.Equal(t, "APA", cfg.DefaultCitationFormat)
	assert.Equal(t, int64(5<<20), cfg.MaxUploadBytes)
	assert.Equal(t, "replicate", cfg.Generation.Provider)
	assert.NoError(t, cfg.Validate())
}

func TestResolveDBPath(t *testing.T) {
	cfg := Config{DBPath: "/tmp/x.db"}
	assert.Equal(t, "/tmp/x.db", cfg.resolveDBPath())

	cfg = Config{DBName: "kamus", StorageDir: "local"}
	assert.Equal(t, "kamus.db", cfg.resolveDBPath())

	cfg = Config{}
	assert.True(t, strings.HasSuffix(cfg.resolveDBPath(), "godefine.db"))
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "godefine.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
db_name: kamus
storage_dir: local
default_sentence_count: 9
generation:
  provider: openai
  model: gpt-4o-mini
  timeout: 30s
server:
  addr: ":9090"
`), 0o644))
	t.Setenv("GODEFINE_GENERATION_API_KEY", "sk-test")
	t.Setenv("GODEFINE_DEFAULT_CITATION_FORMAT", "MLA")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "kamus", cfg.DBName)
	assert.Equal(t, "openai", cfg.Generation.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.Generation.Model)
	assert.Equal(t, 30*time.Second, cfg.Generation.Timeout)
	assert.Equal(t, "sk-test", cfg.Generation.APIKey)
	assert.Equal(t, "MLA", cfg.DefaultCitationFormat)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	// Out-of-range default falls back to 2.
	assert.Equal(t, 2, cfg.DefaultSentenceCount)
	// Untouched keys keep their defaults.
	assert.Equal(t, 800, cfg.Paraphrase.MaxTokensPerSentence)
	assert.Equal(t, int64(5<<20), cfg.MaxUploadBytes)
}

func TestLoadConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "godefine.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage_dir: cloud\n"), 0o644))

	_, err := LoadConfig(path)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestApplyProviderEnv(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "gsk-env")

	cfg := DefaultConfig()
	cfg.Generation.Provider = "groq"
	cfg.ApplyProviderEnv()
	assert.Equal(t, "gsk-env", cfg.Generation.APIKey)

	cfg.Generation.APIKey = "explicit"
	cfg.ApplyProviderEnv()
	assert.Equal(t, "explicit", cfg.Generation.APIKey)

	cfg = DefaultConfig()
	cfg.Generation.Provider = "ollama"
	cfg.ApplyProviderEnv()
	assert.Empty(t, cfg.Generation.APIKey)
}
