package codex32

import "fmt"

// ErrorKind classifies codex32 failures so callers can branch on the
// class of problem without matching detail strings.
type ErrorKind uint8

const (
	// KindMalformed covers structural problems: bad prefix, bad length,
	// invalid characters, mixed case, an out-of-range threshold.
	KindMalformed ErrorKind = iota + 1
	// KindChecksum means the string is structurally sound but its
	// checksum does not verify.
	KindChecksum
	// KindUncorrectable is reported by correction paths when no valid
	// codeword can be recovered.
	KindUncorrectable
	// KindInterpolation covers share-set problems: too few shares,
	// duplicate indices, mismatched lengths or headers.
	KindInterpolation
)

func (k ErrorKind) String() string {
	switch k {
	case KindMalformed:
		return "malformed input"
	case KindChecksum:
		return "checksum failure"
	case KindUncorrectable:
		return "uncorrectable"
	case KindInterpolation:
		return "interpolation error"
	}
	return "unknown error"
}

// Error is the error type returned by this package. The Kind is stable
// API; the Detail is human-readable and may change.
type Error struct {
	Kind   ErrorKind
	Detail string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return "codex32: " + e.Kind.String()
	}
	return "codex32: " + e.Kind.String() + ": " + e.Detail
}

// Is matches any *Error of the same kind, so
// errors.Is(err, ErrChecksum) works regardless of detail.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Detail == "" || t.Detail == e.Detail)
}

// Sentinel values for errors.Is checks. Returned errors carry a detail
// string; these match on kind alone.
var (
	ErrMalformed     = &Error{Kind: KindMalformed}
	ErrChecksum      = &Error{Kind: KindChecksum}
	ErrUncorrectable = &Error{Kind: KindUncorrectable}
	ErrInterpolation = &Error{Kind: KindInterpolation}
)

func errMalformed(format string, args ...any) error {
	return &Error{Kind: KindMalformed, Detail: fmt.Sprintf(format, args...)}
}

func errChecksum(format string, args ...any) error {
	return &Error{Kind: KindChecksum, Detail: fmt.Sprintf(format, args...)}
}

func errInterpolation(format string, args ...any) error {
	return &Error{Kind: KindInterpolation, Detail: fmt.Sprintf(format, args...)}
}

// ErrUncorrectablef builds an uncorrectable-kind error. Exported for the
// decoder and correction packages that report through this taxonomy.
func ErrUncorrectablef(format string, args ...any) error {
	return &Error{Kind: KindUncorrectable, Detail: fmt.Sprintf(format, args...)}
}
