package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when a document does not exist or belongs to a
// different user.
var ErrNotFound = errors.New("store: document not found")

// ProcessingInfo is the typed processing metadata kept with a document.
type ProcessingInfo struct {
	SentenceCount       int       `json:"sentenceCount" yaml:"sentence_count"`
	ActualSentenceCount int       `json:"actualSentenceCount,omitempty" yaml:"actual_sentence_count,omitempty"`
	ProcessingType      string    `json:"processingType,omitempty" yaml:"processing_type,omitempty"`
	ConfidenceLevel     string    `json:"confidenceLevel,omitempty" yaml:"confidence_level,omitempty"`
	ProcessedAt         time.Time `json:"processedAt,omitempty" yaml:"processed_at,omitempty"`
}

// Processing types.
const (
	ProcessingTextInput        = "text_input"
	ProcessingDocumentAnalysis = "document_analysis"
)

// Document is an uploaded source text with its latest processing result.
type Document struct {
	ID                 int64          `json:"id"`
	UserID             string         `json:"userId"`
	Filename           string         `json:"filename"`
	OriginalText       string         `json:"originalText,omitempty"`
	ContentHash        string         `json:"contentHash"`
	CitationFormat     string         `json:"citationFormat"`
	Keyword            string         `json:"keyword"`
	Author             string         `json:"author"`
	PublicationYear    int            `json:"publicationYear"`
	Paraphrased        string         `json:"paraphrased,omitempty"`
	Citation           string         `json:"citation,omitempty"`
	DefinitionFound    bool           `json:"definitionFound"`
	OriginalDefinition string         `json:"originalDefinition,omitempty"`
	Info               ProcessingInfo `json:"additionalInfo"`
	CreatedAt          string         `json:"createdAt"`
	UpdatedAt          string         `json:"updatedAt"`
}

// Result is the outcome of processing a stored document.
type Result struct {
	Paraphrased        string
	Citation           string
	DefinitionFound    bool
	OriginalDefinition string
	Info               ProcessingInfo
	Generations        []GenerationLog
}

// GenerationLog is one generation call made while serving a request.
type GenerationLog struct {
	DocumentID       int64  `json:"document_id"`
	Keyword          string `json:"keyword"`
	Kind             string `json:"kind"` // "paraphrase", "analysis", "not_found"
	ModelUsed        string `json:"model_used"`
	Fallback         bool   `json:"fallback"`
	SentenceCount    int    `json:"sentence_count"`
	PromptTokens     int    `json:"prompt_tokens"`
	CompletionTokens int    `json:"completion_tokens"`
	ElapsedMs        int64  `json:"elapsed_ms"`
}

// Store is the SQLite-backed document archive. It is safe for concurrent
// use.
type Store struct {
	db *sql.DB
}

// WAL keeps history reads from blocking uploads.
var dsnParams = url.Values{
	"_journal_mode": {"WAL"},
	"_foreign_keys": {"on"},
	"_busy_timeout": {"30000"},
}

// New opens the database at dbPath, creating the file and its directory
// if needed, and brings the schema up to date.
func New(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("store: mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?"+dsnParams.Encode())
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", dbPath, err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	s := &Store{db: db}
	if err := s.init(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: init %s: %w", dbPath, err)
	}
	return s, nil
}

func (s *Store) init(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("schema: %w", err)
	}
	return s.Migrate(ctx)
}

func (s *Store) Close() error { return s.db.Close() }

// DB exposes the handle for maintenance queries.
func (s *Store) DB() *sql.DB { return s.db }

// ContentHash returns the hex SHA-256 of text.
func ContentHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// InsertDocument stores a new document and returns its ID. Result fields
// set on doc are stored as well.
func (s *Store) InsertDocument(ctx context.Context, doc Document) (int64, error) {
	if doc.ContentHash == "" {
		doc.ContentHash = ContentHash(doc.OriginalText)
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (user_id, filename, original_text, content_hash, citation_format,
			keyword, author, publication_year, paraphrased, citation, definition_found,
			original_definition, sentence_count, actual_sentence_count, processing_type,
			confidence_level, processed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, doc.UserID, doc.Filename, doc.OriginalText, doc.ContentHash, doc.CitationFormat,
		doc.Keyword, doc.Author, doc.PublicationYear, nullString(doc.Paraphrased),
		nullString(doc.Citation), doc.DefinitionFound, nullString(doc.OriginalDefinition),
		doc.Info.SentenceCount, nullInt(doc.Info.ActualSentenceCount),
		nullString(doc.Info.ProcessingType), nullString(doc.Info.ConfidenceLevel),
		nullTime(doc.Info.ProcessedAt))
	if err != nil {
		return 0, fmt.Errorf("inserting document: %w", err)
	}
	return res.LastInsertId()
}

const documentColumns = `id, user_id, filename, original_text, content_hash, citation_format,
	keyword, author, publication_year, paraphrased, citation, definition_found,
	original_definition, sentence_count, actual_sentence_count, processing_type,
	confidence_level, processed_at, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*Document, error) {
	var (
		d                                           Document
		paraphrased, citation, origDef, pType, conf sql.NullString
		actual                                      sql.NullInt64
		processedAt                                 sql.NullTime
	)
	if err := row.Scan(&d.ID, &d.UserID, &d.Filename, &d.OriginalText, &d.ContentHash,
		&d.CitationFormat, &d.Keyword, &d.Author, &d.PublicationYear, &paraphrased,
		&citation, &d.DefinitionFound, &origDef, &d.Info.SentenceCount, &actual,
		&pType, &conf, &processedAt, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	d.Paraphrased = paraphrased.String
	d.Citation = citation.String
	d.OriginalDefinition = origDef.String
	d.Info.ActualSentenceCount = int(actual.Int64)
	d.Info.ProcessingType = pType.String
	d.Info.ConfidenceLevel = conf.String
	if processedAt.Valid {
		d.Info.ProcessedAt = processedAt.Time
	}
	return &d, nil
}

// GetDocument retrieves a document owned by userID.
func (s *Store) GetDocument(ctx context.Context, id int64, userID string) (*Document, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+documentColumns+" FROM documents WHERE id = ? AND user_id = ?", id, userID)
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// UpdateResult records the processing outcome for a document and its
// generation log in one transaction.
func (s *Store) UpdateResult(ctx context.Context, id int64, userID string, r Result) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE documents SET paraphrased = ?, citation = ?, definition_found = ?,
				original_definition = ?, sentence_count = ?, actual_sentence_count = ?,
				processing_type = ?, confidence_level = ?, processed_at = ?,
				updated_at = CURRENT_TIMESTAMP
			WHERE id = ? AND user_id = ?
		`, r.Paraphrased, r.Citation, r.DefinitionFound, r.OriginalDefinition,
			r.Info.SentenceCount, nullInt(r.Info.ActualSentenceCount),
			nullString(r.Info.ProcessingType), nullString(r.Info.ConfidenceLevel),
			nullTime(r.Info.ProcessedAt), id, userID)
		if err != nil {
			return fmt.Errorf("updating document %d: %w", id, err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return fmt.Errorf("%w: id %d", ErrNotFound, id)
		}

		for _, g := range r.Generations {
			g.DocumentID = id
			if err := logGeneration(ctx, tx, g); err != nil {
				return err
			}
		}
		return nil
	})
}

// ListHistory returns a user's documents, newest first. Original text is
// left out.
func (s *Store) ListHistory(ctx context.Context, userID string) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+strings.Replace(documentColumns, "original_text", "''", 1)+`
		FROM documents WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *d)
	}
	return docs, rows.Err()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// LogGeneration writes an entry to the generation audit log.
func (s *Store) LogGeneration(ctx context.Context, g GenerationLog) error {
	return logGeneration(ctx, s.db, g)
}

func logGeneration(ctx context.Context, db execer, g GenerationLog) error {
	var docID any
	if g.DocumentID != 0 {
		docID = g.DocumentID
	}
	_, err := db.ExecContext(ctx, `
		INSERT INTO generation_log (document_id, keyword, kind, model_used, fallback,
			sentence_count, prompt_tokens, completion_tokens, elapsed_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, docID, g.Keyword, g.Kind, g.ModelUsed, g.Fallback, g.SentenceCount,
		g.PromptTokens, g.CompletionTokens, g.ElapsedMs)
	if err != nil {
		return fmt.Errorf("logging generation: %w", err)
	}
	return nil
}

// DBStats summarises stored documents and generation activity.
type DBStats struct {
	Documents   int `json:"documents"`
	Processed   int `json:"processed"`
	Found       int `json:"definitions_found"`
	Generations int `json:"generations"`
	Fallbacks   int `json:"fallbacks"`
}

// DBStats returns row counts for the health endpoint.
func (s *Store) DBStats(ctx context.Context) (*DBStats, error) {
	var st DBStats
	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM documents),
			(SELECT COUNT(*) FROM documents WHERE paraphrased IS NOT NULL),
			(SELECT COUNT(*) FROM documents WHERE definition_found = 1),
			(SELECT COUNT(*) FROM generation_log),
			(SELECT COUNT(*) FROM generation_log WHERE fallback = 1)
	`).Scan(&st.Documents, &st.Processed, &st.Found, &st.Generations, &st.Fallbacks)
	if err != nil {
		return nil, fmt.Errorf("store: stats: %w", err)
	}
	return &st, nil
}

// inTx commits when fn succeeds and rolls back otherwise.
func (s *Store) inTx(ctx context.Context, fn func(*sql.Tx) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()
	if err = fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(n int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(n), Valid: n != 0}
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
