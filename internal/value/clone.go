package value

// Clone returns a deep copy of v. Mappings and sequences are copied
// recursively; scalars, sets and ConfigObjects are shared.
func Clone(v Value) Value {
	switch t := v.(type) {
	case *Map:
		return t.Clone()
	case Seq:
		return cloneSeq(t)
	default:
		return v
	}
}

// Clone returns a deep copy of m. A nil map clones to nil.
func (m *Map) Clone() *Map {
	if m == nil {
		return nil
	}

	dst := NewMap()
	for k, v := range m.All() {
		dst.Set(k, Clone(v))
	}

	return dst
}

func cloneSeq(src Seq) Seq {
	if src == nil {
		return nil
	}

	dst := make(Seq, len(src))
	for i, v := range src {
		dst[i] = Clone(v)
	}

	return dst
}
