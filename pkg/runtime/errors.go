package runtime

import (
	"errors"
	"fmt"
)

// ErrorKind names the evaluation fault taxonomy. Every fault is raised at
// the operation that violates its contract and propagates to the host
// unmodified; the evaluator never retries.
type ErrorKind string

const (
	IndexOutOfRange   ErrorKind = "IndexOutOfRange"
	KeyNotFound       ErrorKind = "KeyNotFound"
	TypeMismatch      ErrorKind = "TypeMismatch"
	NotIndexable      ErrorKind = "NotIndexable"
	UnboundVariable   ErrorKind = "UnboundVariable"
	NotIterable       ErrorKind = "NotIterable"
	DivisionByZero    ErrorKind = "DivisionByZero"
	BadArgumentCount  ErrorKind = "BadArgumentCount"
	UndefinedFunction ErrorKind = "UndefinedFunction"
)

// Error is a structured evaluation fault carrying the kind and the
// operation context the host needs to report it.
type Error struct {
	Kind    ErrorKind
	Message string

	// Optional context, populated where applicable.
	Container Kind   // container kind for index/iteration faults
	Key       Value  // offending key or index
	Operand   Kind   // offending operand kind for type faults
	Name      string // variable or function name for lookup faults
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// IsKind reports whether err is (or wraps) a runtime Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var re *Error
	if errors.As(err, &re) {
		return re.Kind == kind
	}
	return false
}

func indexOutOfRange(index int64, length int) *Error {
	return &Error{
		Kind:      IndexOutOfRange,
		Message:   fmt.Sprintf("index %d out of range for array of length %d", index, length),
		Container: KindArray,
		Key:       IntValue{Val: index},
	}
}

func keyNotFound(key Value) *Error {
	return &Error{
		Kind:      KeyNotFound,
		Message:   fmt.Sprintf("key %s not found", DisplayText(key)),
		Container: KindDict,
		Key:       key,
	}
}

func typeMismatch(format string, args ...any) *Error {
	return &Error{Kind: TypeMismatch, Message: fmt.Sprintf(format, args...)}
}

// NewUnbound reports a lookup of a name with no binding in scope.
func NewUnbound(name string) *Error {
	return &Error{
		Kind:    UnboundVariable,
		Message: fmt.Sprintf("variable '%s' is not bound", name),
		Name:    name,
	}
}
