package rawtype

import (
	"fmt"
	"strings"
)

// Kind categorizes a decode failure.
type Kind string

const (
	KindInvalidInput       Kind = "invalid_input"       // nil/empty buffer, nil or no-op reader
	KindTruncatedInput     Kind = "truncated_input"     // fewer bytes than the layout needs
	KindUnsupportedLayout  Kind = "unsupported_layout"  // non-blittable or empty layout
	KindUninstantiableType Kind = "uninstantiable_type" // no concrete value to build
	KindReadFailed         Kind = "read_failed"         // the reader returned a non-EOF error
)

// Sentinels for errors.Is. They match any *Error of the same Kind.
var (
	ErrInvalidInput       = &Error{Kind: KindInvalidInput}
	ErrTruncatedInput     = &Error{Kind: KindTruncatedInput}
	ErrUnsupportedLayout  = &Error{Kind: KindUnsupportedLayout}
	ErrUninstantiableType = &Error{Kind: KindUninstantiableType}
	ErrReadFailed         = &Error{Kind: KindReadFailed}
)

// Error is the structured error returned by every decode and encode path.
type Error struct {
	Cause    error
	Kind     Kind
	Type     string   // Go type of the target layout
	Detail   string
	Path     []string // field path inside the layout, if any
	Required int      // bytes the layout needs (truncated_input)
	Actual   int      // bytes that were available (truncated_input)
}

func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString("rawtype: ")
	b.WriteString(string(e.Kind))

	if e.Type != "" {
		b.WriteString(" [")
		b.WriteString(e.Type)
		b.WriteByte(']')
	}
	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}
	if e.Kind == KindTruncatedInput {
		fmt.Fprintf(&b, ": need %d bytes, have %d", e.Required, e.Actual)
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}
	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same Kind.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

func invalidInput(typ string, detail string) *Error {
	return &Error{Kind: KindInvalidInput, Type: typ, Detail: detail}
}

func truncated(typ string, required, actual int, cause error) *Error {
	return &Error{
		Kind:     KindTruncatedInput,
		Type:     typ,
		Required: required,
		Actual:   actual,
		Cause:    cause,
	}
}

func unsupported(typ string, path []string, format string, args ...any) *Error {
	return &Error{
		Kind:   KindUnsupportedLayout,
		Type:   typ,
		Path:   path,
		Detail: fmt.Sprintf(format, args...),
	}
}

func uninstantiable(typ string, detail string) *Error {
	return &Error{Kind: KindUninstantiableType, Type: typ, Detail: detail}
}

func readFailed(typ string, cause error) *Error {
	return &Error{Kind: KindReadFailed, Type: typ, Cause: cause}
}
