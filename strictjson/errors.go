package strictjson

import (
	"fmt"
	"strings"
)

// Kind classifies a decode failure.
type Kind int

const (
	// KindMalformedInput means the byte buffer is not valid JSON text.
	KindMalformedInput Kind = iota
	// KindUnknownField means an object held a key no field spec claims.
	KindUnknownField
	// KindMissingField means a required field was absent.
	KindMissingField
	// KindShapeMismatch means a polymorphic value matched no declared variant.
	KindShapeMismatch
	// KindScalarDecode means a hex string or other scalar failed to decode.
	KindScalarDecode
	// KindPlaceholderViolation means a canary field held non-null content.
	KindPlaceholderViolation
)

func (k Kind) String() string {
	switch k {
	case KindMalformedInput:
		return "malformed input"
	case KindUnknownField:
		return "unknown field"
	case KindMissingField:
		return "missing field"
	case KindShapeMismatch:
		return "shape mismatch"
	case KindScalarDecode:
		return "scalar decode"
	case KindPlaceholderViolation:
		return "placeholder violation"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is a single decode failure annotated with the dotted/indexed
// path from the document root to the offending value. The path is
// assembled segment by segment as the failure unwinds out of nested
// decoders.
type Error struct {
	Kind Kind
	Msg  string

	segments []string
}

// Path renders the location of the failure, e.g.
// "behavior.processes[2].calls[0].return". Empty for root-level failures.
func (e *Error) Path() string {
	var b strings.Builder
	for _, seg := range e.segments {
		if !strings.HasPrefix(seg, "[") && b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(seg)
	}
	return b.String()
}

func (e *Error) Error() string {
	if p := e.Path(); p != "" {
		return p + ": " + e.Msg
	}
	return e.Msg
}

func newError(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Errors aggregates sibling failures collected while decoding one
// subtree. Decoding does not stop at the first bad field of an object;
// every failing field contributes its own path-annotated entry.
type Errors []*Error

func (e Errors) Error() string {
	parts := make([]string, len(e))
	for i, err := range e {
		parts[i] = err.Error()
	}
	return strings.Join(parts, "; ")
}

// collapse returns nil, the sole entry, or the slice itself.
func (e Errors) collapse() error {
	switch len(e) {
	case 0:
		return nil
	case 1:
		return e[0]
	default:
		return e
	}
}

// Flatten expands an error returned by this package into its individual
// entries. A foreign error yields a single malformed-input entry.
func Flatten(err error) []*Error {
	switch e := err.(type) {
	case nil:
		return nil
	case *Error:
		return []*Error{e}
	case Errors:
		return e
	default:
		return []*Error{newError(KindMalformedInput, "%v", err)}
	}
}

// HasKind reports whether any entry within err has the given kind.
func HasKind(err error, kind Kind) bool {
	for _, e := range Flatten(err) {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

// prefix prepends a path segment to every entry within err.
func prefix(err error, seg string) error {
	switch e := err.(type) {
	case nil:
		return nil
	case *Error:
		e.segments = append([]string{seg}, e.segments...)
		return e
	case Errors:
		for _, entry := range e {
			entry.segments = append([]string{seg}, entry.segments...)
		}
		return e
	default:
		wrapped := newError(KindMalformedInput, "%v", err)
		wrapped.segments = []string{seg}
		return wrapped
	}
}

func prefixIndex(err error, i int) error {
	return prefix(err, fmt.Sprintf("[%d]", i))
}

// AtKey annotates err with an object key segment. For custom decoders
// layered on top of this package.
func AtKey(err error, key string) error {
	return prefix(err, key)
}

// AtIndex annotates err with an array index segment.
func AtIndex(err error, i int) error {
	return prefixIndex(err, i)
}

// ScalarError builds a scalar-decode failure for custom decoders.
func ScalarError(format string, args ...interface{}) error {
	return newError(KindScalarDecode, format, args...)
}

// ShapeError builds a shape-mismatch failure for custom decoders.
func ShapeError(format string, args ...interface{}) error {
	return newError(KindShapeMismatch, format, args...)
}

// jsonType names the JSON shape of a parsed value for error messages.
func jsonType(v interface{}) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "bool"
	case string:
		return "string"
	case map[string]interface{}:
		return "object"
	case []interface{}:
		return "array"
	default:
		return "number"
	}
}
