package runtime

import "fmt"

// dictKey is the structural identity of a dictionary key. Int and String
// keys of equal text are distinct: Int(1) never collides with String("1").
type dictKey struct {
	kind Kind
	i    int64
	s    string
}

func dictKeyOf(key Value) (dictKey, error) {
	switch k := key.(type) {
	case IntValue:
		return dictKey{kind: KindInt, i: k.Val}, nil
	case StringValue:
		return dictKey{kind: KindString, s: k.Val}, nil
	default:
		return dictKey{}, typeMismatch("dictionary key must be int or string, got %s", key.Kind())
	}
}

type dictSlot struct {
	key     Value
	value   Value
	deleted bool
}

// DictValue is a mutable mapping from Int/String keys to values that
// iterates in insertion order. Overwrites update the slot in place; deletes
// tombstone the slot so the remaining keys keep their positions. Held by
// pointer so bindings alias one underlying dictionary.
type DictValue struct {
	index map[dictKey]int
	slots []dictSlot
	live  int
}

func (v *DictValue) Kind() Kind { return KindDict }

// NewDict constructs an empty dictionary.
func NewDict() *DictValue {
	return &DictValue{index: make(map[dictKey]int)}
}

// Get returns the value for key, faulting with KeyNotFound when absent and
// TypeMismatch when the key is not an int or string.
func (v *DictValue) Get(key Value) (Value, error) {
	id, err := dictKeyOf(key)
	if err != nil {
		return nil, err
	}
	pos, ok := v.index[id]
	if !ok || v.slots[pos].deleted {
		return nil, keyNotFound(key)
	}
	return v.slots[pos].value, nil
}

// Set inserts or overwrites. A new key appends a slot; an existing key
// keeps its iteration position. Set never fails on a missing key.
func (v *DictValue) Set(key, value Value) error {
	id, err := dictKeyOf(key)
	if err != nil {
		return err
	}
	if pos, ok := v.index[id]; ok && !v.slots[pos].deleted {
		v.slots[pos].value = value
		return nil
	}
	v.index[id] = len(v.slots)
	v.slots = append(v.slots, dictSlot{key: key, value: value})
	v.live++
	return nil
}

// Delete removes key, returning whether it was present. The slot is
// tombstoned so later keys keep their order.
func (v *DictValue) Delete(key Value) (bool, error) {
	id, err := dictKeyOf(key)
	if err != nil {
		return false, err
	}
	pos, ok := v.index[id]
	if !ok || v.slots[pos].deleted {
		return false, nil
	}
	v.slots[pos].deleted = true
	v.slots[pos].value = nil
	delete(v.index, id)
	v.live--
	return true, nil
}

// Has reports whether key is present.
func (v *DictValue) Has(key Value) (bool, error) {
	id, err := dictKeyOf(key)
	if err != nil {
		return false, err
	}
	pos, ok := v.index[id]
	return ok && !v.slots[pos].deleted, nil
}

// Len returns the number of live entries.
func (v *DictValue) Len() int {
	return v.live
}

// Entries walks the live entries in insertion order. Mutating the
// dictionary while walking is undefined behavior.
func (v *DictValue) Entries(fn func(key, value Value) error) error {
	for i := range v.slots {
		if v.slots[i].deleted {
			continue
		}
		if err := fn(v.slots[i].key, v.slots[i].value); err != nil {
			return err
		}
	}
	return nil
}

// Keys returns the live keys in insertion order.
func (v *DictValue) Keys() []Value {
	keys := make([]Value, 0, v.live)
	for i := range v.slots {
		if !v.slots[i].deleted {
			keys = append(keys, v.slots[i].key)
		}
	}
	return keys
}

func (v *DictValue) String() string {
	return fmt.Sprintf("dict(%d entries)", v.live)
}
