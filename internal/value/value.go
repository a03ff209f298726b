// Package value defines the closed set of shapes an Evergreen configuration
// tree may take before it is rendered to YAML.
//
// A tree is built from the [Value] variants [Null], [Bool], [Int], [Float],
// [Text], [Seq] and [*Map]. Two additional kinds are resolved by the renderer
// before emission:
//
//   - [Set] values render as sorted, deduplicated sequences.
//   - [ConfigObject] implementers render as the mapping returned by ToMap.
//
// Native Go values (maps, slices, strings, numbers) can be lifted into the
// model with [From].
package value

import (
	"errors"
	"strconv"
)

var (
	// ErrUnsupported is returned when a Go value has no representation in
	// the value model.
	ErrUnsupported = errors.New("unsupported value")

	// ErrUnorderableSet is returned when the elements of a set cannot be
	// brought into a single total order.
	ErrUnorderableSet = errors.New("set elements are not mutually orderable")
)

// Value is any node of a configuration tree. The interface is sealed: only
// the types in this package (and types embedding [Base]) satisfy it.
type Value interface {
	isValue()
}

// Scalar is the subset of values that may be used as mapping keys.
type Scalar interface {
	Value
	isScalar()
	String() string
}

// Null is the YAML null value.
type Null struct{}

// Bool is a YAML boolean.
type Bool bool

// Int is a YAML integer.
type Int int64

// Float is a YAML floating-point number.
type Float float64

// Text is a YAML string. Text containing a line break renders in
// block-literal style.
type Text string

// Seq is an ordered sequence of values.
type Seq []Value

func (Null) isValue()  {}
func (Bool) isValue()  {}
func (Int) isValue()   {}
func (Float) isValue() {}
func (Text) isValue()  {}
func (Seq) isValue()   {}

func (Null) isScalar()  {}
func (Bool) isScalar()  {}
func (Int) isScalar()   {}
func (Float) isScalar() {}
func (Text) isScalar()  {}

func (Null) String() string { return "null" }

func (b Bool) String() string { return strconv.FormatBool(bool(b)) }

func (i Int) String() string { return strconv.FormatInt(int64(i), 10) }

func (f Float) String() string { return strconv.FormatFloat(float64(f), 'g', -1, 64) }

func (t Text) String() string { return string(t) }

// Texts builds a sequence of text values.
func Texts(items ...string) Seq {
	seq := make(Seq, 0, len(items))
	for _, s := range items {
		seq = append(seq, Text(s))
	}

	return seq
}
