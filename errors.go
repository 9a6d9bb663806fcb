package hl7v2

import (
	"errors"
	"fmt"
)

// Decode error sentinels. A failed decode returns a *DecodeError wrapping
// exactly one of these, so callers can branch with errors.Is.
var (
	// ErrEmptyInput indicates zero-length or whitespace-only input.
	ErrEmptyInput = errors.New("empty input")

	// ErrMalformedHeader indicates the header segment's first two fields are
	// missing, of wrong length, or contain duplicate delimiter characters.
	ErrMalformedHeader = errors.New("malformed header segment")

	// ErrUnterminatedEscape indicates a dangling escape character with no
	// closing escape character.
	ErrUnterminatedEscape = errors.New("unterminated escape sequence")

	// ErrUnknownEscapeCode indicates an escape sequence with an unrecognized
	// code letter or an invalid hex payload.
	ErrUnknownEscapeCode = errors.New("unknown escape code")
)

// Path error sentinels, wrapped by *PathError.
var (
	// ErrPathSyntax indicates malformed path expression text.
	ErrPathSyntax = errors.New("path syntax error")

	// ErrSegmentCreation indicates a write requested a non-contiguous new
	// segment occurrence (index > existing occurrences + 1).
	ErrSegmentCreation = errors.New("segment creation not supported")
)

// ErrEmptyMessage is returned by Encode for a nil or segment-less Message.
var ErrEmptyMessage = errors.New("empty message")

// DecodeError describes why a raw message failed to decode. The whole decode
// fails rather than producing a partial tree: downstream consumers require a
// fully-formed tree or none at all.
type DecodeError struct {
	// Offset is the byte offset into the raw input where the problem was
	// detected.
	Offset int

	// Reason is a human-readable description.
	Reason string

	kind error
}

func decodeErrorf(kind error, offset int, format string, args ...any) *DecodeError {
	return &DecodeError{
		Offset: offset,
		Reason: fmt.Sprintf(format, args...),
		kind:   kind,
	}
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("hl7v2: decode failed at offset %d: %s: %s", e.Offset, e.kind, e.Reason)
}

// Unwrap returns the sentinel kind (ErrEmptyInput, ErrMalformedHeader,
// ErrUnterminatedEscape, or ErrUnknownEscapeCode).
func (e *DecodeError) Unwrap() error {
	return e.kind
}

// PathError describes a failure local to one Get/Set call. It never aborts a
// batch operation; BulkTerser reports it per path.
type PathError struct {
	// Path is the raw path expression that failed.
	Path string

	// Offset is the byte offset into Path where parsing failed, or -1 when
	// the failure happened during resolution.
	Offset int

	// Segment and Field identify the failing location for resolution
	// failures (empty/zero for syntax errors).
	Segment string
	Field   int

	// Reason is a human-readable description.
	Reason string

	kind error
}

func pathSyntaxErrorf(path string, offset int, format string, args ...any) *PathError {
	return &PathError{
		Path:   path,
		Offset: offset,
		Reason: fmt.Sprintf(format, args...),
		kind:   ErrPathSyntax,
	}
}

func segmentCreationError(path, segment string, requested, existing int) *PathError {
	return &PathError{
		Path:    path,
		Offset:  -1,
		Segment: segment,
		Reason:  fmt.Sprintf("occurrence %d requested but only %d exist", requested, existing),
		kind:    ErrSegmentCreation,
	}
}

// Error implements the error interface.
func (e *PathError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("hl7v2: %s in %q at offset %d: %s", e.kind, e.Path, e.Offset, e.Reason)
	}
	return fmt.Sprintf("hl7v2: %s for %q (segment %s): %s", e.kind, e.Path, e.Segment, e.Reason)
}

// Unwrap returns the sentinel kind (ErrPathSyntax or ErrSegmentCreation).
func (e *PathError) Unwrap() error {
	return e.kind
}
