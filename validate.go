package godefine

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/brunobiangulo/godefine/paraphrase"
)

// Request-boundary constants.
const (
	DefaultSentenceCount = 2
	MinPublicationYear   = 1900
	maxYearsAhead        = 5
)

var leadingInt = regexp.MustCompile(`^\s*[-+]?\d+`)

// ParseSentenceCount reads a sentence count from user input. A missing,
// non-numeric or zero value yields the default of 2; a number outside 1-5
// is ErrInvalidSentenceCount. Trailing garbage after the leading integer
// is ignored ("3 kalimat" is 3).
func ParseSentenceCount(raw string) (int, error) {
	m := leadingInt.FindString(raw)
	if m == "" {
		if strings.TrimSpace(raw) != "" {
			slog.Debug("sentence count not numeric, using default", "value", raw)
		}
		return DefaultSentenceCount, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(m))
	if err != nil || n == 0 {
		return DefaultSentenceCount, nil
	}
	return checkSentenceCount(n)
}

// SentenceCountFromInfo reads the sentenceCount field of a legacy
// additional-info JSON object. Malformed JSON yields the default.
func SentenceCountFromInfo(raw string) (int, error) {
	if strings.TrimSpace(raw) == "" {
		return DefaultSentenceCount, nil
	}
	var info map[string]any
	if err := json.Unmarshal([]byte(raw), &info); err != nil {
		slog.Debug("additional info not parseable, using default sentence count", "error", err)
		return DefaultSentenceCount, nil
	}
	v, ok := info["sentenceCount"]
	if !ok || v == nil {
		return DefaultSentenceCount, nil
	}
	return ParseSentenceCount(fmt.Sprint(v))
}

func checkSentenceCount(n int) (int, error) {
	if !paraphrase.ValidSentenceCount(n) {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidSentenceCount, n)
	}
	return n, nil
}

// resolveSentenceCount maps the zero value to the default and rejects
// anything else outside 1-5.
func resolveSentenceCount(n, def int) (int, error) {
	if n == 0 {
		return def, nil
	}
	return checkSentenceCount(n)
}

// ValidateYear accepts years from 1900 through five years after now.
func ValidateYear(year int, now time.Time) error {
	if year < MinPublicationYear || year > now.Year()+maxYearsAhead {
		return fmt.Errorf("%w: got %d", ErrInvalidYear, year)
	}
	return nil
}

// normalizeFormat upper-cases a citation format, defaulting blank input.
func normalizeFormat(format, def string) string {
	f := strings.ToUpper(strings.TrimSpace(format))
	if f == "" {
		return strings.ToUpper(def)
	}
	return f
}

// UploadRequest is a document upload awaiting processing.
type UploadRequest struct {
	UserID         string `json:"userId"`
	Filename       string `json:"filename"`
	MIMEType       string `json:"mimeType"`
	Data           []byte `json:"-"`
	Keyword        string `json:"keyword"`
	Author         string `json:"author"`
	Year           int    `json:"year"`
	CitationFormat string `json:"citationFormat"`
	SentenceCount  int    `json:"sentenceCount"` // 0 selects the default
}

// validate checks fields in the order the API reports them: file,
// keyword, author, year, sentence count.
func (r *UploadRequest) validate(now time.Time, defCount int) (int, error) {
	if len(r.Data) == 0 {
		return 0, ErrMissingFile
	}
	return validateCommon(r.Keyword, r.Author, r.Year, r.SentenceCount, now, defCount)
}

// TextRequest is a manually supplied definition to paraphrase.
type TextRequest struct {
	UserID         string `json:"userId"`
	OriginalText   string `json:"originalText"`
	Keyword        string `json:"keyword"`
	Author         string `json:"author"`
	Year           int    `json:"year"`
	CitationFormat string `json:"citationFormat"`
	SentenceCount  int    `json:"sentenceCount"`
}

func (r *TextRequest) validate(now time.Time, defCount int) (int, error) {
	if strings.TrimSpace(r.OriginalText) == "" {
		return 0, ErrEmptyText
	}
	return validateCommon(r.Keyword, r.Author, r.Year, r.SentenceCount, now, defCount)
}

func validateCommon(keyword, author string, year, count int, now time.Time, defCount int) (int, error) {
	if strings.TrimSpace(keyword) == "" {
		return 0, ErrEmptyKeyword
	}
	if strings.TrimSpace(author) == "" {
		return 0, ErrEmptyAuthor
	}
	if err := ValidateYear(year, now); err != nil {
		return 0, err
	}
	return resolveSentenceCount(count, defCount)
}
