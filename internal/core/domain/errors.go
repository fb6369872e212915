package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyDocument indicates a document yielded no usable text.
	// Processing for that file is aborted; other files are unaffected.
	ErrEmptyDocument = errors.New("document has no text content")

	// ErrUnsupportedType indicates a file type no normaliser handles.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrLLMUnavailable indicates the generation endpoint is not reachable.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrLLMBadResponse indicates the model returned output that could not
	// be parsed into the expected JSON shape. Callers treat this the same
	// as a transport failure and skip the unit of work.
	ErrLLMBadResponse = errors.New("LLM response not in expected shape")
)
