// Package rxerr defines the single error taxonomy every backend failure is
// normalized into.
//
// Callers classify failures with errors.Is against the exported sentinels:
//
//	res, err := m.FindAll(ctx, subject)
//	if errors.Is(err, rxerr.ErrCancelled) {
//	    // the caller gave up; no partial result is returned
//	}
//
// A *Error compares equal to a sentinel when their kinds match, so wrapped
// errors keep their classification through fmt.Errorf("...: %w").
package rxerr

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Kind classifies normalized errors.
type Kind uint8

const (
	// CompileFailed indicates the backend rejected the pattern or its options.
	CompileFailed Kind = iota

	// IndexTranslation indicates a native offset could not be mapped to host
	// code units (out of range, or inside an encoded character).
	IndexTranslation

	// IllegalSpan indicates a backend reported a span whose end precedes its start.
	IllegalSpan

	// Overflow indicates a native offset or length does not fit the host
	// integer width.
	Overflow

	// MatchRuntime indicates the backend failed mid-search for a reason
	// unrelated to cancellation.
	MatchRuntime

	// Cancelled indicates the caller cancelled the operation.
	Cancelled

	// TimedOut indicates a deadline or the hard timeout expired.
	TimedOut

	// Internal is the catch-all for failures that fit no other kind.
	Internal
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case CompileFailed:
		return "CompileError"
	case IndexTranslation:
		return "IndexTranslationError"
	case IllegalSpan:
		return "IllegalSpanError"
	case Overflow:
		return "OverflowError"
	case MatchRuntime:
		return "MatchRuntimeError"
	case Cancelled:
		return "Cancelled"
	case TimedOut:
		return "TimedOut"
	case Internal:
		return "InternalError"
	default:
		return fmt.Sprintf("UnknownErrorKind(%d)", k)
	}
}

// Sentinels for errors.Is. Only the Kind is compared.
var (
	ErrCompile          = &Error{Kind: CompileFailed, Message: "pattern compilation failed", Offset: -1}
	ErrIndexTranslation = &Error{Kind: IndexTranslation, Message: "offset cannot be translated", Offset: -1}
	ErrIllegalSpan      = &Error{Kind: IllegalSpan, Message: "match end precedes match start", Offset: -1}
	ErrOverflow         = &Error{Kind: Overflow, Message: "value exceeds host integer width", Offset: -1}
	ErrMatchRuntime     = &Error{Kind: MatchRuntime, Message: "backend failed during matching", Offset: -1}
	ErrCancelled        = &Error{Kind: Cancelled, Message: "operation cancelled", Offset: -1}
	ErrTimedOut         = &Error{Kind: TimedOut, Message: "operation timed out", Offset: -1}
	ErrInternal         = &Error{Kind: Internal, Message: "internal error", Offset: -1}
)

// Error is a normalized backend failure.
type Error struct {
	Kind    Kind
	Message string

	// Backend names the engine that produced the failure, if known.
	Backend string

	// Offset is the position in the pattern (host code units) of a compile
	// error, or -1 when the backend does not report one. Line and Column are
	// 1-based and only meaningful when Offset >= 0.
	Offset int
	Line   int
	Column int

	Cause error // Optional underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	if e.Backend != "" {
		b.WriteString(e.Backend)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	if e.Kind == CompileFailed && e.Offset >= 0 {
		fmt.Fprintf(&b, " at offset %d (line %d, column %d)", e.Offset, e.Line, e.Column)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error (for errors.Is/As).
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements error comparison for errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Newf creates an error of the given kind.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Offset: -1}
}

// Wrap creates an error of the given kind around cause.
func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Offset: -1, Cause: cause}
}

// Compile creates a CompileFailed error for pattern. offset is in host code
// units; pass -1 when the backend does not supply one. Line and column are
// derived from the pattern text.
func Compile(backend, pattern string, offset int, cause error) *Error {
	e := &Error{
		Kind:    CompileFailed,
		Message: "invalid pattern",
		Backend: backend,
		Offset:  -1,
		Cause:   cause,
	}
	if offset >= 0 {
		e.Offset = offset
		e.Line, e.Column = lineColumn(pattern, offset)
	}
	return e
}

// lineColumn converts a UTF-16 code-unit offset into a 1-based line and column.
func lineColumn(s string, offset int) (line, column int) {
	line, column = 1, 1
	units := 0
	for _, r := range s {
		if units >= offset {
			break
		}
		if r == '\n' {
			line++
			column = 1
		} else if r >= 0x10000 {
			column += 2
		} else {
			column++
		}
		if r >= 0x10000 {
			units += 2
		} else {
			units++
		}
	}
	return line, column
}

// KindOf reports the kind of a normalized error anywhere in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// FromContext converts a context error into Cancelled or TimedOut.
func FromContext(backend string, err error) *Error {
	kind := Cancelled
	msg := "operation cancelled"
	if errors.Is(err, context.DeadlineExceeded) {
		kind = TimedOut
		msg = "deadline exceeded"
	}
	return &Error{Kind: kind, Message: msg, Backend: backend, Offset: -1, Cause: err}
}

// Normalize maps err into the taxonomy. Normalized errors pass through with
// the backend name filled in, context errors become Cancelled or TimedOut,
// and anything else becomes Internal carrying the original text.
func Normalize(backend string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		if e.Backend == "" {
			c := *e
			c.Backend = backend
			return &c
		}
		return e
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return FromContext(backend, err)
	}
	return &Error{
		Kind:    Internal,
		Message: "unclassified backend failure",
		Backend: backend,
		Offset:  -1,
		Cause:   err,
	}
}
