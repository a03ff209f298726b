// Package evgconfig provides a public Go API for generating Evergreen CI
// configuration files.
//
// A configuration tree is built from the value model ([Map], [Seq],
// [Text], [Set], ...) and domain objects implementing [ConfigObject], then
// written with [Generate]:
//
//	tree := evgconfig.NewMap(
//	    evgconfig.P("tasks", evgconfig.Seq{task}),
//	)
//
//	if err := evgconfig.Generate(tree, ".evergreen/generated.yml"); err != nil {
//	    log.Fatal(err)
//	}
//
// With options:
//
//	err := evgconfig.Generate(tree, path,
//	    evgconfig.WithIndent(4),
//	    evgconfig.WithLogger(logger),
//	)
package evgconfig

import (
	"cmp"
	"log/slog"
	"os"

	"github.com/hupe1980/evgconfig/internal/logging"
	"github.com/hupe1980/evgconfig/internal/output"
	"github.com/hupe1980/evgconfig/internal/render"
	"github.com/hupe1980/evgconfig/internal/source"
	"github.com/hupe1980/evgconfig/internal/value"
)

// Value model.
type (
	Value        = value.Value
	Scalar       = value.Scalar
	Null         = value.Null
	Bool         = value.Bool
	Int          = value.Int
	Float        = value.Float
	Text         = value.Text
	Seq          = value.Seq
	Map          = value.Map
	Pair         = value.Pair
	Sorter       = value.Sorter
	ConfigObject = value.ConfigObject
	Base         = value.Base
	Object       = value.Object
)

// Set is an unordered collection rendered as a sorted, deduplicated
// sequence.
type Set[T cmp.Ordered] = value.Set[T]

// Header is the banner written at the top of every generated file.
const Header = output.Header

// Unset is the name reported by ConfigObjects that do not set one.
const Unset = value.Unset

// Sentinel errors.
var (
	ErrUnsupported    = value.ErrUnsupported
	ErrUnorderableSet = value.ErrUnorderableSet
	ErrCycle          = render.ErrCycle
)

// NewMap returns an ordered mapping holding pairs.
func NewMap(pairs ...Pair) *Map { return value.NewMap(pairs...) }

// P returns a text-keyed pair for NewMap.
func P(key string, v Value) Pair { return value.P(key, v) }

// NewSet returns a set holding items.
func NewSet[T cmp.Ordered](items ...T) Set[T] { return value.NewSet(items...) }

// Texts returns a sequence of text values.
func Texts(items ...string) Seq { return value.Texts(items...) }

// ObjectMap returns a mapping whose first entry is name: o.Name().
func ObjectMap(o ConfigObject) *Map { return value.ObjectMap(o) }

// From lifts a native Go value into the value model.
func From(in any) (Value, error) { return value.From(in) }

// Load reads a source document (.yaml, .yml, .json or .hcl).
func Load(path string) (Value, error) { return source.Load(path) }

// Option configures rendering and generation.
type Option func(*options)

type options struct {
	render []render.Option
	logger *slog.Logger
	perm   os.FileMode
}

// WithIndent sets the number of spaces per indentation level.
func WithIndent(n int) Option {
	return func(o *options) { o.render = append(o.render, render.WithIndent(n)) }
}

// WithFlowStyle renders mappings and sequences inline.
func WithFlowStyle(flow bool) Option {
	return func(o *options) { o.render = append(o.render, render.WithFlowStyle(flow)) }
}

// WithLiteralMultiline toggles block-literal style for multiline text.
func WithLiteralMultiline(literal bool) Option {
	return func(o *options) { o.render = append(o.render, render.WithLiteralMultiline(literal)) }
}

// WithLogger sets the logger used while generating files.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithFileMode sets the mode of newly created files.
func WithFileMode(perm os.FileMode) Option {
	return func(o *options) { o.perm = perm }
}

func buildOptions(opts []Option) options {
	o := options{logger: logging.Discard(), perm: 0o644}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// Render returns the YAML document for tree without the banner.
func Render(tree any, opts ...Option) ([]byte, error) {
	o := buildOptions(opts)

	return render.New(o.render...).YAML(tree)
}

// RenderJSON returns tree as indented JSON.
func RenderJSON(tree any, opts ...Option) ([]byte, error) {
	o := buildOptions(opts)

	return render.New(o.render...).JSON(tree)
}

// Generate writes Header followed by the YAML rendering of tree to path,
// replacing any existing file. The directory must exist.
func Generate(tree any, path string, opts ...Option) error {
	o := buildOptions(opts)

	return output.Generate(tree, path,
		output.WithRenderer(render.New(o.render...)),
		output.WithGenerateLogger(o.logger),
		output.WithFilePermissions(o.perm),
	)
}
