package runtime

import "fmt"

// Kind identifies the runtime value category.
type Kind int

const (
	KindNil Kind = iota
	KindBool
	KindInt
	KindString
	KindArray
	KindDict
	KindFunction
	KindNativeFunction
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindDict:
		return "dict"
	case KindFunction:
		return "function"
	case KindNativeFunction:
		return "native_function"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

type NilValue struct{}

func (NilValue) Kind() Kind { return KindNil }

type BoolValue struct {
	Val bool
}

func (v BoolValue) Kind() Kind { return KindBool }

type IntValue struct {
	Val int64
}

func (v IntValue) Kind() Kind { return KindInt }

type StringValue struct {
	Val string
}

func (v StringValue) Kind() Kind { return KindString }

//-----------------------------------------------------------------------------
// Containers
//-----------------------------------------------------------------------------

// ArrayValue is an ordered, growable sequence of values. Containers are
// held by pointer so two bindings alias one underlying array.
type ArrayValue struct {
	Elements []Value
}

func (v *ArrayValue) Kind() Kind { return KindArray }

// NewArray constructs an array over the given elements.
func NewArray(elements []Value) *ArrayValue {
	return &ArrayValue{Elements: elements}
}

// Get reads the element at index, faulting with IndexOutOfRange when the
// index is negative or past the end.
func (v *ArrayValue) Get(index int64) (Value, error) {
	if index < 0 || index >= int64(len(v.Elements)) {
		return nil, indexOutOfRange(index, len(v.Elements))
	}
	return v.Elements[index], nil
}

// Set overwrites the element at index. Arrays never grow on write; an
// out-of-range index is the same fault as on read.
func (v *ArrayValue) Set(index int64, value Value) error {
	if index < 0 || index >= int64(len(v.Elements)) {
		return indexOutOfRange(index, len(v.Elements))
	}
	v.Elements[index] = value
	return nil
}

// Push appends an element, growing the array.
func (v *ArrayValue) Push(value Value) {
	v.Elements = append(v.Elements, value)
}

// Len returns the element count.
func (v *ArrayValue) Len() int {
	return len(v.Elements)
}

//-----------------------------------------------------------------------------
// Functions
//-----------------------------------------------------------------------------

// FunctionValue is a script-defined function. Declaration is an
// *ast.FunctionDefinition; it is typed as any to keep this package free of
// an ast dependency, the interpreter owns the concrete type.
type FunctionValue struct {
	Name        string
	Declaration any
	Closure     *Environment
}

func (v *FunctionValue) Kind() Kind { return KindFunction }

// NativeCallContext provides hooks for native functions.
type NativeCallContext struct {
	Env *Environment
}

type NativeFunc func(*NativeCallContext, []Value) (Value, error)

type NativeFunctionValue struct {
	Name  string
	Arity int // negative means variadic
	Impl  NativeFunc
}

func (v NativeFunctionValue) Kind() Kind { return KindNativeFunction }
