package runtime

import (
	"fmt"
	"strconv"
	"strings"
)

// This file centralizes the dynamic operation tables: every coercion rule
// lives here rather than at the call sites, so the switch arms are the
// single source of truth for what combinations are legal.

//-----------------------------------------------------------------------------
// Indexing
//-----------------------------------------------------------------------------

// Index reads container[key]. Arrays require an in-range int index;
// dictionaries require a present key.
func Index(container, key Value) (Value, error) {
	switch c := container.(type) {
	case *ArrayValue:
		idx, ok := key.(IntValue)
		if !ok {
			return nil, typeMismatch("array index must be int, got %s", key.Kind())
		}
		return c.Get(idx.Val)
	case *DictValue:
		return c.Get(key)
	default:
		return nil, &Error{
			Kind:      NotIndexable,
			Message:   fmt.Sprintf("cannot index value of kind %s", container.Kind()),
			Container: container.Kind(),
			Key:       key,
		}
	}
}

// SetIndex writes container[key] = value. Dictionaries grow on write;
// arrays never do. A failed write leaves the container unmodified.
func SetIndex(container, key, value Value) error {
	switch c := container.(type) {
	case *ArrayValue:
		idx, ok := key.(IntValue)
		if !ok {
			return typeMismatch("array index must be int, got %s", key.Kind())
		}
		return c.Set(idx.Val, value)
	case *DictValue:
		return c.Set(key, value)
	default:
		return &Error{
			Kind:      NotIndexable,
			Message:   fmt.Sprintf("cannot index value of kind %s", container.Kind()),
			Container: container.Kind(),
			Key:       key,
		}
	}
}

//-----------------------------------------------------------------------------
// Arithmetic
//-----------------------------------------------------------------------------

// Add is int addition when both operands are ints, and string concatenation
// when either operand is a string, the other rendered canonically first.
func Add(a, b Value) (Value, error) {
	if la, ok := a.(IntValue); ok {
		if rb, ok := b.(IntValue); ok {
			return IntValue{Val: la.Val + rb.Val}, nil
		}
	}
	_, aStr := a.(StringValue)
	_, bStr := b.(StringValue)
	if aStr || bStr {
		left, err := concatText(a)
		if err != nil {
			return nil, err
		}
		right, err := concatText(b)
		if err != nil {
			return nil, err
		}
		return StringValue{Val: left + right}, nil
	}
	return nil, typeMismatch("cannot add %s and %s", a.Kind(), b.Kind())
}

// concatText renders a concatenation operand; containers do not coerce.
func concatText(v Value) (string, error) {
	switch v.(type) {
	case *ArrayValue, *DictValue:
		return "", typeMismatch("cannot concatenate %s into a string", v.Kind())
	default:
		return DisplayText(v), nil
	}
}

// Arithmetic handles the remaining int-only operators: -, *, /, %.
func Arithmetic(op string, a, b Value) (Value, error) {
	la, lok := a.(IntValue)
	rb, rok := b.(IntValue)
	if !lok || !rok {
		return nil, typeMismatch("operator %s requires int operands, got %s and %s", op, a.Kind(), b.Kind())
	}
	switch op {
	case "-":
		return IntValue{Val: la.Val - rb.Val}, nil
	case "*":
		return IntValue{Val: la.Val * rb.Val}, nil
	case "/":
		if rb.Val == 0 {
			return nil, &Error{Kind: DivisionByZero, Message: "division by zero"}
		}
		return IntValue{Val: la.Val / rb.Val}, nil
	case "%":
		if rb.Val == 0 {
			return nil, &Error{Kind: DivisionByZero, Message: "remainder by zero"}
		}
		return IntValue{Val: la.Val % rb.Val}, nil
	default:
		return nil, typeMismatch("unsupported arithmetic operator %s", op)
	}
}

//-----------------------------------------------------------------------------
// Equality & ordering
//-----------------------------------------------------------------------------

// Equal is structural for scalars and identity for containers. Cross-kind
// comparisons are unequal, never faults.
func Equal(a, b Value) bool {
	switch la := a.(type) {
	case NilValue:
		_, ok := b.(NilValue)
		return ok
	case BoolValue:
		rb, ok := b.(BoolValue)
		return ok && la.Val == rb.Val
	case IntValue:
		rb, ok := b.(IntValue)
		return ok && la.Val == rb.Val
	case StringValue:
		rb, ok := b.(StringValue)
		return ok && la.Val == rb.Val
	case *ArrayValue:
		rb, ok := b.(*ArrayValue)
		return ok && la == rb
	case *DictValue:
		rb, ok := b.(*DictValue)
		return ok && la == rb
	default:
		return false
	}
}

// Compare orders two values of the same scalar kind for <, <=, >, >=.
func Compare(op string, a, b Value) (Value, error) {
	var cmp int
	switch la := a.(type) {
	case IntValue:
		rb, ok := b.(IntValue)
		if !ok {
			return nil, typeMismatch("cannot compare %s with %s", a.Kind(), b.Kind())
		}
		switch {
		case la.Val < rb.Val:
			cmp = -1
		case la.Val > rb.Val:
			cmp = 1
		}
	case StringValue:
		rb, ok := b.(StringValue)
		if !ok {
			return nil, typeMismatch("cannot compare %s with %s", a.Kind(), b.Kind())
		}
		cmp = strings.Compare(la.Val, rb.Val)
	default:
		return nil, typeMismatch("values of kind %s are not ordered", a.Kind())
	}
	switch op {
	case "<":
		return BoolValue{Val: cmp < 0}, nil
	case "<=":
		return BoolValue{Val: cmp <= 0}, nil
	case ">":
		return BoolValue{Val: cmp > 0}, nil
	case ">=":
		return BoolValue{Val: cmp >= 0}, nil
	default:
		return nil, typeMismatch("unsupported comparison operator %s", op)
	}
}

//-----------------------------------------------------------------------------
// Iteration
//-----------------------------------------------------------------------------

// Pair is one step of a container walk.
type Pair struct {
	Key   Value
	Value Value
}

// Iterate returns a step function producing (key, value) pairs: arrays in
// index order, dictionaries in insertion order, and an int n the sequence
// 0..n-1 (counting down toward n for negative n), with the value doubling
// as the key. The sequence is finite and one-shot; calling Iterate again
// re-walks the container's current state. Mutating a container during
// iteration is undefined behavior.
func Iterate(v Value) (func() (Pair, bool), error) {
	switch c := v.(type) {
	case *ArrayValue:
		elements := c.Elements
		i := 0
		return func() (Pair, bool) {
			if i >= len(elements) {
				return Pair{}, false
			}
			p := Pair{Key: IntValue{Val: int64(i)}, Value: elements[i]}
			i++
			return p, true
		}, nil
	case *DictValue:
		slots := c.slots
		i := 0
		return func() (Pair, bool) {
			for i < len(slots) {
				s := slots[i]
				i++
				if s.deleted {
					continue
				}
				return Pair{Key: s.key, Value: s.value}, true
			}
			return Pair{}, false
		}, nil
	case IntValue:
		step := int64(1)
		if c.Val < 0 {
			step = -1
		}
		n := int64(0)
		return func() (Pair, bool) {
			if n == c.Val {
				return Pair{}, false
			}
			p := Pair{Key: IntValue{Val: n}, Value: IntValue{Val: n}}
			n += step
			return p, true
		}, nil
	default:
		return nil, &Error{
			Kind:      NotIterable,
			Message:   fmt.Sprintf("cannot iterate value of kind %s", v.Kind()),
			Container: v.Kind(),
		}
	}
}

//-----------------------------------------------------------------------------
// Display
//-----------------------------------------------------------------------------

// DisplayText renders the canonical text form used by print and by string
// coercion: primitives in their literal form, arrays as a bracketed list,
// dictionaries as braced key: value pairs in insertion order.
func DisplayText(v Value) string {
	switch c := v.(type) {
	case NilValue:
		return "nil"
	case BoolValue:
		if c.Val {
			return "true"
		}
		return "false"
	case IntValue:
		return strconv.FormatInt(c.Val, 10)
	case StringValue:
		return c.Val
	case *ArrayValue:
		var b strings.Builder
		b.WriteByte('[')
		for i, el := range c.Elements {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(DisplayText(el))
		}
		b.WriteByte(']')
		return b.String()
	case *DictValue:
		var b strings.Builder
		b.WriteByte('{')
		first := true
		for i := range c.slots {
			if c.slots[i].deleted {
				continue
			}
			if !first {
				b.WriteString(", ")
			}
			first = false
			b.WriteString(DisplayText(c.slots[i].key))
			b.WriteString(": ")
			b.WriteString(DisplayText(c.slots[i].value))
		}
		b.WriteByte('}')
		return b.String()
	case *FunctionValue:
		return fmt.Sprintf("fn %s", c.Name)
	case NativeFunctionValue:
		return fmt.Sprintf("fn %s", c.Name)
	default:
		return fmt.Sprintf("[%s]", v.Kind())
	}
}
