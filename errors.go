package godefine

import (
	"errors"

	"github.com/brunobiangulo/godefine/parser"
)

var (
	// ErrInvalidRequest is the parent of every input validation error.
	ErrInvalidRequest = errors.New("godefine: invalid request")

	// ErrMissingFile is returned when an upload carries no file data.
	ErrMissingFile = wrapInvalid("file is required")

	// ErrEmptyKeyword is returned for a blank keyword.
	ErrEmptyKeyword = wrapInvalid("keyword is required")

	// ErrEmptyAuthor is returned for a blank author.
	ErrEmptyAuthor = wrapInvalid("author is required")

	// ErrEmptyText is returned for a blank definition text.
	ErrEmptyText = wrapInvalid("definition text is required")

	// ErrInvalidYear is returned for a year outside 1900..now+5.
	ErrInvalidYear = wrapInvalid("publication year is invalid")

	// ErrInvalidSentenceCount is returned for an explicit sentence count
	// outside 1-5.
	ErrInvalidSentenceCount = wrapInvalid("sentence count must be between 1-5")

	// ErrMissingDocumentID is returned when processing without an ID.
	ErrMissingDocumentID = wrapInvalid("document id is required")

	// ErrDocumentNotFound is returned for a missing document or one owned
	// by another user.
	ErrDocumentNotFound = errors.New("godefine: document not found")

	// ErrUnsupportedType is returned for MIME types with no extractor.
	ErrUnsupportedType = parser.ErrUnsupportedType

	// ErrNoTextExtracted is returned when a file yields no text.
	ErrNoTextExtracted = parser.ErrNoText

	// ErrStoreUnavailable is returned by persistence operations on an
	// engine built without a store.
	ErrStoreUnavailable = errors.New("godefine: store unavailable")

	// ErrInvalidConfig is returned for invalid configuration values.
	ErrInvalidConfig = errors.New("godefine: invalid configuration")
)

// validationError keeps its own message while matching ErrInvalidRequest.
type validationError struct {
	msg string
}

func (e *validationError) Error() string { return "godefine: " + e.msg }

func (e *validationError) Unwrap() error { return ErrInvalidRequest }

func wrapInvalid(msg string) error { return &validationError{msg: msg} }
