package value

import "reflect"

// Unset is the name reported by a [ConfigObject] that does not override
// Name.
const Unset = "UNSET"

// ConfigObject is implemented by domain objects (tasks, variants, ...) that
// can be embedded directly in a configuration tree. The renderer replaces
// every ConfigObject with the mapping returned by ToMap.
type ConfigObject interface {
	// Name returns the display name of the object.
	Name() string
	// ToMap returns an ordered mapping whose first entry is "name".
	ToMap() *Map
}

// Base supplies the default ConfigObject behaviour and makes embedding
// types usable as a [Value]. A type that overrides only Name still renders
// with its own name, because [Resolve] takes the name entry from Name.
type Base struct{}

func (Base) isValue() {}

// Name returns [Unset].
func (Base) Name() string { return Unset }

// ToMap returns {name: UNSET}.
func (Base) ToMap() *Map { return NewMap(P("name", Text(Unset))) }

// ObjectMap returns a new mapping whose only entry is name: o.Name().
// Implementers append their own fields to it.
func ObjectMap(o ConfigObject) *Map {
	return NewMap(P("name", Text(o.Name())))
}

// Object adapts a ConfigObject that does not embed [Base] into a Value.
type Object struct {
	ConfigObject
}

func (Object) isValue() {}

// Resolve returns the mapping that represents o: name: o.Name() first,
// followed by every other entry of o.ToMap() in order. A "name" entry in
// ToMap is ignored and a nil ToMap result contributes nothing.
func Resolve(o ConfigObject) *Map {
	out := ObjectMap(o)

	for k, v := range o.ToMap().All() {
		if k == Text("name") {
			continue
		}

		out.Set(k, v)
	}

	return out
}

// IsNilObject reports whether o is nil, a typed nil pointer, or an
// [Object] wrapping one. Calling Name or ToMap on such a value would
// panic for types with value receivers.
func IsNilObject(o ConfigObject) bool {
	if w, ok := o.(Object); ok {
		o = w.ConfigObject
	}

	if o == nil {
		return true
	}

	rv := reflect.ValueOf(o)

	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
