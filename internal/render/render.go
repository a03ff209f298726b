// Package render serializes configuration trees to YAML under the
// legibility rules used for generated Evergreen files:
//
//   - text containing a line break is written in block-literal ("|") style,
//   - set values become sorted, deduplicated sequences,
//   - [value.ConfigObject] implementers are replaced by their mapping.
//
// Everything else is left to the gopkg.in/yaml.v3 emitter. Mappings and
// sequences use block style unless a Renderer is built with
// [WithFlowStyle].
package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
	sigsyaml "sigs.k8s.io/yaml"

	"github.com/hupe1980/evgconfig/internal/value"
)

// ErrCycle is returned when a tree refers back to itself or nests deeper
// than the renderer's depth limit.
var ErrCycle = errors.New("cyclic or too deeply nested configuration tree")

// Options configures a Renderer.
type Options struct {
	// Indent is the number of spaces per indentation level (default: 2).
	Indent int
	// FlowStyle renders mappings and sequences inline ({}/[]).
	FlowStyle bool
	// LiteralMultiline renders text containing "\n" in "|" style. When
	// false such text is double-quoted with escapes.
	LiteralMultiline bool
	// MaxDepth bounds nesting; deeper trees fail with ErrCycle.
	MaxDepth int
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		Indent:           2,
		FlowStyle:        false,
		LiteralMultiline: true,
		MaxDepth:         512,
	}
}

// Option configures a Renderer.
type Option func(*Options)

// WithIndent sets the number of spaces per indentation level.
func WithIndent(n int) Option {
	return func(o *Options) {
		o.Indent = n
	}
}

// WithFlowStyle toggles inline rendering of collections.
func WithFlowStyle(flow bool) Option {
	return func(o *Options) {
		o.FlowStyle = flow
	}
}

// WithLiteralMultiline toggles block-literal style for multiline text.
func WithLiteralMultiline(literal bool) Option {
	return func(o *Options) {
		o.LiteralMultiline = literal
	}
}

// WithMaxDepth sets the nesting limit.
func WithMaxDepth(n int) Option {
	return func(o *Options) {
		o.MaxDepth = n
	}
}

// Renderer converts configuration trees to YAML. A Renderer holds only its
// options and is safe for concurrent use.
type Renderer struct {
	opts Options
}

// New creates a Renderer.
func New(opts ...Option) *Renderer {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if o.Indent <= 0 {
		o.Indent = 2
	}

	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultOptions().MaxDepth
	}

	return &Renderer{opts: o}
}

// Options returns the effective options.
func (r *Renderer) Options() Options {
	return r.opts
}

// YAML renders in as a single YAML document terminated by a newline.
// in may be a [value.Value], a [value.ConfigObject] or any native Go value
// accepted by [value.From].
func (r *Renderer) YAML(in any) ([]byte, error) {
	root, err := r.Node(in)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(r.opts.Indent)

	doc := &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("serializing YAML: %w", err)
	}

	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("serializing YAML: %w", err)
	}

	b := buf.Bytes()

	// Ensure trailing newline.
	if len(b) > 0 && b[len(b)-1] != '\n' {
		b = append(b, '\n')
	}

	return b, nil
}

// JSON renders in as indented JSON. Object keys come out sorted, so JSON
// output is meant for inspection, not for generated files.
func (r *Renderer) JSON(in any) ([]byte, error) {
	yamlBytes, err := r.YAML(in)
	if err != nil {
		return nil, err
	}

	jsonBytes, err := sigsyaml.YAMLToJSON(yamlBytes)
	if err != nil {
		return nil, fmt.Errorf("converting to JSON: %w", err)
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, jsonBytes, "", strings.Repeat(" ", r.opts.Indent)); err != nil {
		return nil, fmt.Errorf("formatting JSON: %w", err)
	}

	buf.WriteByte('\n')

	return buf.Bytes(), nil
}

// Node builds the yaml.v3 node tree for in without encoding it.
func (r *Renderer) Node(in any) (*yaml.Node, error) {
	v, err := value.From(in)
	if err != nil {
		return nil, err
	}

	w := &walker{opts: r.opts, onPath: make(map[*value.Map]struct{})}

	return w.node(v, 0)
}

// walker carries the per-call traversal state.
type walker struct {
	opts   Options
	onPath map[*value.Map]struct{}
}

func (w *walker) node(v value.Value, depth int) (*yaml.Node, error) {
	if depth > w.opts.MaxDepth {
		return nil, fmt.Errorf("%w: depth exceeds %d", ErrCycle, w.opts.MaxDepth)
	}

	if v == nil {
		return nullNode(), nil
	}

	// Capability dispatch comes first so that any ConfigObject, whatever
	// its concrete type, is flattened before the other rules apply.
	if obj, ok := v.(value.ConfigObject); ok {
		if value.IsNilObject(obj) {
			return nil, fmt.Errorf("%w: nil object %T", value.ErrUnsupported, v)
		}

		return w.mapping(value.Resolve(obj), depth)
	}

	if s, ok := v.(value.Sorter); ok {
		elems := s.Sorted()

		seq := make(value.Seq, 0, len(elems))
		for _, e := range elems {
			seq = append(seq, e)
		}

		return w.sequence(seq, depth)
	}

	switch t := v.(type) {
	case value.Seq:
		return w.sequence(t, depth)
	case *value.Map:
		return w.mapping(t, depth)
	case value.Scalar:
		return w.scalar(t, w.opts.LiteralMultiline)
	default:
		return nil, fmt.Errorf("%w: %T", value.ErrUnsupported, v)
	}
}

func (w *walker) scalar(s value.Scalar, literal bool) (*yaml.Node, error) {
	switch t := s.(type) {
	case value.Null:
		return nullNode(), nil
	case value.Bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(bool(t))}, nil
	case value.Int:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(int64(t), 10)}, nil
	case value.Float:
		n := &yaml.Node{}
		if err := n.Encode(float64(t)); err != nil {
			return nil, fmt.Errorf("encoding float %v: %w", float64(t), err)
		}

		return n, nil
	case value.Text:
		n := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: string(t)}
		if strings.Contains(string(t), "\n") {
			// The emitter picks "|" for multiline text on its own, so the
			// disabled case has to ask for quoting explicitly.
			n.Style = yaml.DoubleQuotedStyle
			if literal {
				n.Style = yaml.LiteralStyle
			}
		}

		return n, nil
	default:
		return nil, fmt.Errorf("%w: scalar %T", value.ErrUnsupported, s)
	}
}

func (w *walker) sequence(seq value.Seq, depth int) (*yaml.Node, error) {
	n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Content: make([]*yaml.Node, 0, len(seq))}
	if w.opts.FlowStyle {
		n.Style = yaml.FlowStyle
	}

	for i, item := range seq {
		child, err := w.node(item, depth+1)
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}

		n.Content = append(n.Content, child)
	}

	return n, nil
}

func (w *walker) mapping(m *value.Map, depth int) (*yaml.Node, error) {
	if m != nil {
		if _, seen := w.onPath[m]; seen {
			return nil, fmt.Errorf("%w: mapping contains itself", ErrCycle)
		}

		w.onPath[m] = struct{}{}
		defer delete(w.onPath, m)
	}

	n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map", Content: make([]*yaml.Node, 0, 2*m.Len())}
	if w.opts.FlowStyle {
		n.Style = yaml.FlowStyle
	}

	for k, v := range m.All() {
		key, err := w.scalar(k, false)
		if err != nil {
			return nil, err
		}

		child, err := w.node(v, depth+1)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k.String(), err)
		}

		n.Content = append(n.Content, key, child)
	}

	return n, nil
}

func nullNode() *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
}
