package value

import (
	"iter"
	"math"
)

// Pair is a single key/value entry of a [Map].
type Pair struct {
	Key   Scalar
	Value Value
}

// P returns a text-keyed pair.
func P(key string, v Value) Pair {
	return Pair{Key: Text(key), Value: v}
}

// Map is a mapping from scalar keys to values that remembers insertion
// order. The zero value is an empty map ready for use; a nil *Map renders
// as an empty mapping. All NaN keys address the same entry.
type Map struct {
	keys   []Scalar
	values map[any]Value
}

// nanSlot stands in for NaN keys, which never compare equal to themselves.
type nanSlot struct{}

func slot(key Scalar) any {
	if f, ok := key.(Float); ok && math.IsNaN(float64(f)) {
		return nanSlot{}
	}

	return key
}

func (*Map) isValue() {}

// NewMap returns a map holding pairs in the given order. Later pairs
// replace earlier pairs with the same key.
func NewMap(pairs ...Pair) *Map {
	m := &Map{values: make(map[any]Value, len(pairs))}
	for _, p := range pairs {
		m.Set(p.Key, p.Value)
	}

	return m
}

// Set binds key to v. A new key is appended; an existing key keeps its
// position. Set returns m for chaining.
func (m *Map) Set(key Scalar, v Value) *Map {
	if key == nil {
		key = Null{}
	}

	if m.values == nil {
		m.values = make(map[any]Value)
	}

	if _, ok := m.values[slot(key)]; !ok {
		m.keys = append(m.keys, key)
	}

	m.values[slot(key)] = v

	return m
}

// SetText is shorthand for Set(Text(key), v).
func (m *Map) SetText(key string, v Value) *Map {
	return m.Set(Text(key), v)
}

// Get returns the value bound to key.
func (m *Map) Get(key Scalar) (Value, bool) {
	if m == nil {
		return nil, false
	}

	v, ok := m.values[slot(key)]

	return v, ok
}

// Delete removes key, preserving the order of the remaining entries.
func (m *Map) Delete(key Scalar) {
	if m == nil {
		return
	}

	if _, ok := m.values[slot(key)]; !ok {
		return
	}

	delete(m.values, slot(key))

	for i, k := range m.keys {
		if slot(k) == slot(key) {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Len returns the number of entries.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}

	return len(m.keys)
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []Scalar {
	if m == nil {
		return nil
	}

	out := make([]Scalar, len(m.keys))
	copy(out, m.keys)

	return out
}

// All iterates over the entries in insertion order.
func (m *Map) All() iter.Seq2[Scalar, Value] {
	return func(yield func(Scalar, Value) bool) {
		if m == nil {
			return
		}

		for _, k := range m.keys {
			if !yield(k, m.values[slot(k)]) {
				return
			}
		}
	}
}
