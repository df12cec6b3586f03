package service

import "errors"

var (
	// ErrInvalidDocumentType is returned for uploads that are not PDFs.
	ErrInvalidDocumentType = errors.New("document must be a PDF")

	// ErrExtractionFailed wraps text-extraction failures.
	ErrExtractionFailed = errors.New("failed to extract document text")

	// ErrGenerationFailed covers provider errors and malformed generator
	// output alike; there is never a partial question set.
	ErrGenerationFailed = errors.New("failed to generate questions")

	// ErrGenerationInProgress refuses a second generation on a session
	// that is still loading.
	ErrGenerationInProgress = errors.New("generation already in progress")

	ErrSessionNotFound = errors.New("session not found")
	ErrSessionNotReady = errors.New("session has no generated questions")
	ErrRecordNotFound  = errors.New("saved quiz not found")
	ErrInvalidToken    = errors.New("invalid or expired token")

	// ErrPersistence flags a store write that failed; the in-memory
	// mutation it accompanied still took effect.
	ErrPersistence = errors.New("failed to persist saved quizzes")
)
