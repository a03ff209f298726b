package value

import (
	"cmp"
	"fmt"
	"reflect"

	"k8s.io/apimachinery/pkg/util/sets"
)

// Sorter is implemented by set-kind values. Sorted returns the distinct
// elements in ascending order.
type Sorter interface {
	Value
	Sorted() []Scalar
}

// Set is an unordered collection of distinct, ordered elements. It renders
// as an ascending sequence without duplicates, so tag sets produce the same
// output regardless of insertion order.
type Set[T cmp.Ordered] struct {
	items sets.Set[T]
}

func (Set[T]) isValue() {}

// NewSet returns a set holding items.
func NewSet[T cmp.Ordered](items ...T) Set[T] {
	return Set[T]{items: sets.New(items...)}
}

// Insert adds items to the set and returns it.
func (s Set[T]) Insert(items ...T) Set[T] {
	if s.items == nil {
		s.items = sets.New[T]()
	}

	s.items.Insert(items...)

	return s
}

// Has reports whether item is a member.
func (s Set[T]) Has(item T) bool {
	return s.items.Has(item)
}

// Len returns the number of distinct elements.
func (s Set[T]) Len() int {
	return s.items.Len()
}

// List returns the distinct elements in ascending order.
func (s Set[T]) List() []T {
	return sets.List(s.items)
}

// Sorted implements [Sorter].
func (s Set[T]) Sorted() []Scalar {
	list := s.List()
	out := make([]Scalar, 0, len(list))

	for _, item := range list {
		out = append(out, scalarOf(item))
	}

	return out
}

// scalarOf converts an ordered Go value to its scalar variant. cmp.Ordered
// admits only string, integer and float kinds.
func scalarOf[T cmp.Ordered](item T) Scalar {
	rv := reflect.ValueOf(item)

	switch rv.Kind() {
	case reflect.String:
		return Text(rv.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return Int(int64(rv.Uint())) //nolint:gosec // tag values never approach the int64 limit
	default:
		return Float(rv.Float())
	}
}

// NewSetOf builds a set from dynamically typed scalars, as found in source
// documents. Elements must share one ordering: all text, or all numeric.
// Any other mix, and any boolean or null element, yields ErrUnorderableSet.
func NewSetOf(elems ...Scalar) (Sorter, error) {
	var texts, ints, floats int

	for _, e := range elems {
		switch e.(type) {
		case Text:
			texts++
		case Int:
			ints++
		case Float:
			floats++
		default:
			return nil, fmt.Errorf("%w: element %q has type %T", ErrUnorderableSet, e.String(), e)
		}
	}

	switch {
	case texts == len(elems):
		s := NewSet[string]()
		for _, e := range elems {
			s.Insert(string(e.(Text)))
		}

		return s, nil
	case ints == len(elems):
		s := NewSet[int64]()
		for _, e := range elems {
			s.Insert(int64(e.(Int)))
		}

		return s, nil
	case texts == 0:
		s := NewSet[float64]()
		for _, e := range elems {
			switch n := e.(type) {
			case Int:
				s.Insert(float64(n))
			case Float:
				s.Insert(float64(n))
			}
		}

		return s, nil
	default:
		return nil, fmt.Errorf("%w: mixes %d text and %d numeric elements", ErrUnorderableSet, texts, ints+floats)
	}
}
