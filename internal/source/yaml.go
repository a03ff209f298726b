package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/evgconfig/internal/value"
)

// maxNesting bounds source documents, which also stops alias loops.
const maxNesting = 512

// LoadYAML parses a single YAML (or JSON) document. Key order is kept, and
// mappings tagged !!set become sets. An empty document yields an empty
// mapping.
func LoadYAML(data []byte, filename string) (value.Value, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))

	var doc yaml.Node
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return value.NewMap(), nil
		}

		return nil, fmt.Errorf("parsing YAML: %w", err)
	}

	var extra yaml.Node
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		if err != nil {
			return nil, fmt.Errorf("parsing YAML: %w", err)
		}

		return nil, fmt.Errorf("%s: multiple YAML documents are not supported", filename)
	}

	return fromNode(&doc, 0)
}

func fromNode(n *yaml.Node, depth int) (value.Value, error) {
	if depth > maxNesting {
		return nil, fmt.Errorf("line %d: nesting exceeds %d levels", n.Line, maxNesting)
	}

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return value.Null{}, nil
		}

		return fromNode(n.Content[0], depth+1)
	case yaml.AliasNode:
		return fromNode(n.Alias, depth+1)
	case yaml.ScalarNode:
		return fromScalar(n)
	case yaml.SequenceNode:
		seq := make(value.Seq, 0, len(n.Content))

		for _, c := range n.Content {
			v, err := fromNode(c, depth+1)
			if err != nil {
				return nil, err
			}

			seq = append(seq, v)
		}

		return seq, nil
	case yaml.MappingNode:
		if n.ShortTag() == "!!set" {
			return fromSet(n)
		}

		return fromMapping(n, depth)
	default:
		return nil, fmt.Errorf("line %d: unexpected YAML node kind %d", n.Line, n.Kind)
	}
}

func fromScalar(n *yaml.Node) (value.Scalar, error) {
	switch tag := n.ShortTag(); tag {
	case "!!null":
		return value.Null{}, nil
	case "!!str", "!!timestamp":
		return value.Text(n.Value), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}

		return value.Bool(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}

		return value.Int(i), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}

		return value.Float(f), nil
	default:
		return nil, fmt.Errorf("line %d: %w: YAML tag %s", n.Line, value.ErrUnsupported, tag)
	}
}

func fromMapping(n *yaml.Node, depth int) (value.Value, error) {
	m := value.NewMap()

	for i := 0; i+1 < len(n.Content); i += 2 {
		keyNode, valNode := n.Content[i], n.Content[i+1]

		if keyNode.Kind == yaml.AliasNode {
			keyNode = keyNode.Alias
		}

		if keyNode.ShortTag() == "!!merge" {
			return nil, fmt.Errorf("line %d: %w: merge keys", keyNode.Line, value.ErrUnsupported)
		}

		if keyNode.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: %w: non-scalar mapping key", keyNode.Line, value.ErrUnsupported)
		}

		key, err := fromScalar(keyNode)
		if err != nil {
			return nil, err
		}

		if _, dup := m.Get(key); dup {
			return nil, fmt.Errorf("line %d: duplicate key %q", keyNode.Line, key.String())
		}

		v, err := fromNode(valNode, depth+1)
		if err != nil {
			return nil, err
		}

		m.Set(key, v)
	}

	return m, nil
}

// fromSet converts a !!set mapping (keys with null values) to a set.
func fromSet(n *yaml.Node) (value.Value, error) {
	elems := make([]value.Scalar, 0, len(n.Content)/2)

	for i := 0; i < len(n.Content); i += 2 {
		keyNode := n.Content[i]
		if keyNode.Kind == yaml.AliasNode {
			keyNode = keyNode.Alias
		}

		if keyNode.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: %w: non-scalar set element", keyNode.Line, value.ErrUnsupported)
		}

		e, err := fromScalar(keyNode)
		if err != nil {
			return nil, err
		}

		elems = append(elems, e)
	}

	s, err := value.NewSetOf(elems...)
	if err != nil {
		return nil, fmt.Errorf("line %d: %w", n.Line, err)
	}

	return s, nil
}
