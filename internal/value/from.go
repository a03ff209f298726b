package value

import (
	"fmt"
	"reflect"
	"sort"
)

// From lifts a native Go value into the value model. Supported inputs are
// nil, Values, ConfigObjects, booleans, integers, floats, strings, slices
// and arrays, and maps with string keys. Map keys are sorted so the result
// is deterministic; use [Map] directly to control key order.
func From(in any) (Value, error) {
	if o, ok := in.(ConfigObject); ok && IsNilObject(o) {
		return nil, fmt.Errorf("%w: nil %T", ErrUnsupported, in)
	}

	switch v := in.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return v, nil
	case ConfigObject:
		return Object{v}, nil
	case []any:
		return fromSlice(reflect.ValueOf(v))
	case map[string]any:
		return fromMap(reflect.ValueOf(v))
	}

	return fromReflect(reflect.ValueOf(in))
}

func fromReflect(rv reflect.Value) (Value, error) {
	switch rv.Kind() {
	case reflect.Invalid:
		return Null{}, nil
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > 1<<63-1 {
			return nil, fmt.Errorf("%w: unsigned integer %d overflows int64", ErrUnsupported, u)
		}

		return Int(int64(u)), nil
	case reflect.Float32, reflect.Float64:
		return Float(rv.Float()), nil
	case reflect.String:
		return Text(rv.String()), nil
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return Seq{}, nil
		}

		return fromSlice(rv)
	case reflect.Map:
		return fromMap(rv)
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null{}, nil
		}

		return From(rv.Elem().Interface())
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, rv.Type())
	}
}

func fromSlice(rv reflect.Value) (Value, error) {
	seq := make(Seq, 0, rv.Len())

	for i := range rv.Len() {
		item, err := From(rv.Index(i).Interface())
		if err != nil {
			return nil, fmt.Errorf("index %d: %w", i, err)
		}

		seq = append(seq, item)
	}

	return seq, nil
}

func fromMap(rv reflect.Value) (Value, error) {
	if rv.Type().Key().Kind() != reflect.String {
		return nil, fmt.Errorf("%w: map key type %s", ErrUnsupported, rv.Type().Key())
	}

	keys := make([]string, 0, rv.Len())
	for _, k := range rv.MapKeys() {
		keys = append(keys, k.String())
	}

	sort.Strings(keys)

	m := NewMap()

	for _, k := range keys {
		item, err := From(rv.MapIndex(reflect.ValueOf(k).Convert(rv.Type().Key())).Interface())
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}

		m.Set(Text(k), item)
	}

	return m, nil
}
