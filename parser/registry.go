package parser

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
)

// Registry maps MIME types to extractors.
type Registry struct {
	extractors map[string]Extractor
}

// NewRegistry returns a registry holding the built-in extractors.
func NewRegistry() *Registry {
	r := &Registry{extractors: make(map[string]Extractor)}
	for _, e := range []Extractor{&PDFExtractor{}, &DOCXExtractor{}, &XLSXExtractor{}, &PPTXExtractor{}, &TextExtractor{}} {
		for _, m := range e.MIMETypes() {
			r.extractors[m] = e
		}
	}
	return r
}

// Register installs e for mimeType, replacing any existing extractor.
func (r *Registry) Register(mimeType string, e Extractor) {
	r.extractors[normalizeMIME(mimeType)] = e
}

// Get returns the extractor for mimeType. Parameters such as charset are
// ignored.
func (r *Registry) Get(mimeType string) (Extractor, error) {
	e, ok := r.extractors[normalizeMIME(mimeType)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, mimeType)
	}
	return e, nil
}

// Supported lists the registered MIME types.
func (r *Registry) Supported() []string {
	out := make([]string, 0, len(r.extractors))
	for m := range r.extractors {
		out = append(out, m)
	}
	return out
}

// Extract runs the extractor for mimeType and sanitizes its output.
// Whitespace-only output is reported as ErrNoText.
func (r *Registry) Extract(ctx context.Context, mimeType string, data []byte) (string, error) {
	e, err := r.Get(mimeType)
	if err != nil {
		return "", err
	}
	text, err := e.Extract(ctx, data)
	if err != nil {
		return "", fmt.Errorf("extracting %s: %w", mimeType, err)
	}
	text = Sanitize(text)
	if text == "" {
		return "", ErrNoText
	}
	return text, nil
}

func normalizeMIME(m string) string {
	if mt, _, err := mime.ParseMediaType(m); err == nil {
		return mt
	}
	return strings.ToLower(strings.TrimSpace(m))
}

var extensionTypes = map[string]string{
	".pdf":  MIMEPDF,
	".docx": MIMEDOCX,
	".xlsx": MIMEXLSX,
	".pptx": MIMEPPTX,
	".txt":  MIMEText,
	".md":   MIMEText,
}

// MIMEForFilename guesses a MIME type from the file extension. Unknown
// extensions return "".
func MIMEForFilename(name string) string {
	return extensionTypes[strings.ToLower(filepath.Ext(name))]
}
