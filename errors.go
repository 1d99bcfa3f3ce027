package xcf

import (
	"errors"
	"fmt"
)

// Kind identifies the class of failure a parse or render call returned.
// Callers match on it with errors.As(err, &xcfErr) and a switch on xcfErr.Kind.
type Kind int

const (
	// KindIO marks a failure from the optional file adapter (xcffile):
	// the file could not be opened, mapped, or read.
	KindIO Kind = iota
	// KindUnsupported marks input that isn't a GIMP XCF file, uses a
	// compression scheme other than RLE, or declares a version outside the
	// decoder's supported range.
	KindUnsupported
	// KindValidation marks a structurally well-formed file that violates one
	// of the bounds/shape invariants enforced before or during parsing
	// (dimension caps, offset-in-bounds, path depth, and so on).
	KindValidation
	// KindMalformed marks a length/terminator/offset mismatch caught while
	// decoding a specific record (a tile whose RLE stream doesn't produce the
	// expected byte count, a colormap or parasite payload that ends early,
	// and similar).
	KindMalformed
	// KindUnexpectedEOF marks a read that ran past the end of the buffer.
	KindUnexpectedEOF
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindUnsupported:
		return "unsupported"
	case KindValidation:
		return "validation"
	case KindMalformed:
		return "malformed"
	case KindUnexpectedEOF:
		return "unexpected_eof"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is the single error type this package returns. Offset and Field are
// best-effort diagnostic context: Offset is -1 and Field is empty when not
// applicable.
type Error struct {
	Kind   Kind
	Detail string
	Offset int64  // -1 when not applicable
	Field  string // "" when not applicable
	cause  error
}

func (e *Error) Error() string {
	switch {
	case e.Field != "" && e.Offset >= 0:
		return fmt.Sprintf("xcf: %s: %s (field %s, offset %d)", e.Kind, e.Detail, e.Field, e.Offset)
	case e.Field != "":
		return fmt.Sprintf("xcf: %s: %s (field %s)", e.Kind, e.Detail, e.Field)
	case e.Offset >= 0:
		return fmt.Sprintf("xcf: %s: %s (offset %d)", e.Kind, e.Detail, e.Offset)
	default:
		return fmt.Sprintf("xcf: %s: %s", e.Kind, e.Detail)
	}
}

func (e *Error) Unwrap() error { return e.cause }

func newErr(kind Kind, detail string) *Error {
	return &Error{Kind: kind, Detail: detail, Offset: -1}
}

func newErrAt(kind Kind, detail, field string, offset int64) *Error {
	return &Error{Kind: kind, Detail: detail, Field: field, Offset: offset}
}

func wrapErr(kind Kind, detail string, cause error) *Error {
	return &Error{Kind: kind, Detail: detail, Offset: -1, cause: cause}
}

// NewIOError wraps a filesystem/mmap failure as KindIO. It exists for the
// xcffile adapter, the only caller outside this package expected to
// originate an Error (every other failure surfaces from ParseBytes itself).
func NewIOError(detail string, cause error) *Error {
	return wrapErr(KindIO, detail, cause)
}

// IsKind reports whether err is an *Error of the given Kind.
func IsKind(err error, kind Kind) bool {
	var xe *Error
	if !errors.As(err, &xe) {
		return false
	}
	return xe.Kind == kind
}
