package render

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/hupe1980/evgconfig/internal/value"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// decodeNode parses rendered YAML and returns the document's root node.
func decodeNode(t *testing.T, data []byte) *yaml.Node {
	t.Helper()

	var doc yaml.Node
	require.NoError(t, yaml.Unmarshal(data, &doc))
	require.Equal(t, yaml.DocumentNode, doc.Kind)
	require.Len(t, doc.Content, 1)

	return doc.Content[0]
}

// mappingKeys returns the keys of a mapping node in document order.
func mappingKeys(n *yaml.Node) []string {
	keys := make([]string, 0, len(n.Content)/2)
	for i := 0; i < len(n.Content); i += 2 {
		keys = append(keys, n.Content[i].Value)
	}

	return keys
}

// lookup returns the value node bound to key in a mapping node.
func lookup(t *testing.T, n *yaml.Node, key string) *yaml.Node {
	t.Helper()

	require.Equal(t, yaml.MappingNode, n.Kind)

	for i := 0; i < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}

	t.Fatalf("key %q not found", key)

	return nil
}

type task struct {
	value.Base
	name string
	tags value.Set[string]
}

func (tk task) Name() string { return tk.name }

func (tk task) ToMap() *value.Map {
	return value.ObjectMap(tk).SetText("tags", tk.tags)
}

type variant struct {
	value.Base
}

type foreign struct{}

func (foreign) Name() string { return "foreign" }
func (foreign) ToMap() *value.Map { return value.NewMap(value.P("name", value.Text("foreign"))) }

type selfRef struct {
	value.Base
}

func (s selfRef) ToMap() *value.Map {
	return value.ObjectMap(s).SetText("self", s)
}

// ---------------------------------------------------------------------------
// Multiline text
// ---------------------------------------------------------------------------

func TestYAML_MultilineUsesLiteralStyle(t *testing.T) {
	script := "set -o errexit\nset -o xtrace\n./build.sh --target all\n"

	tree := value.NewMap(
		value.P("commands", value.Seq{
			value.NewMap(
				value.P("command", value.Text("shell.exec")),
				value.P("params", value.NewMap(value.P("script", value.Text(script)))),
			),
		}),
	)

	out, err := New().YAML(tree)
	require.NoError(t, err)

	assert.Contains(t, string(out), "script: |")
	assert.NotContains(t, string(out), `\n`)

	root := decodeNode(t, out)
	cmd := lookup(t, root, "commands").Content[0]
	scriptNode := lookup(t, lookup(t, cmd, "params"), "script")

	assert.Equal(t, yaml.LiteralStyle, scriptNode.Style)
	assert.Equal(t, script, scriptNode.Value)
}

func TestYAML_MultilineRoundTrip(t *testing.T) {
	for _, s := range []string{
		"a\nb",
		"a\nb\n",
		"trailing space \nline",
		"tab\there\nx",
		"key: value\n- item\n# not a comment",
	} {
		out, err := New().YAML(value.NewMap(value.P("s", value.Text(s))))
		require.NoError(t, err)

		var got map[string]string
		require.NoError(t, yaml.Unmarshal(out, &got))
		assert.Equal(t, s, got["s"], "rendered:\n%s", out)
	}
}

func TestYAML_SingleLineKeepsDefaultStyle(t *testing.T) {
	out, err := New().YAML(value.NewMap(value.P("name", value.Text("debug-compile"))))
	require.NoError(t, err)
	assert.Equal(t, "name: debug-compile\n", string(out))
}

func TestYAML_LiteralMultilineDisabled(t *testing.T) {
	out, err := New(WithLiteralMultiline(false)).YAML(value.NewMap(value.P("s", value.Text("a\nb"))))
	require.NoError(t, err)

	assert.NotContains(t, string(out), "|")
	assert.Equal(t, "s: \"a\\nb\"\n", string(out))

	var got map[string]string
	require.NoError(t, yaml.Unmarshal(out, &got))
	assert.Equal(t, "a\nb", got["s"])
}

// ---------------------------------------------------------------------------
// Sets
// ---------------------------------------------------------------------------

func TestYAML_SetSortedDeduplicated(t *testing.T) {
	a := value.NewSet("zlib", "snappy", "zlib", "openssl")
	b := value.NewSet("openssl", "zlib", "snappy", "snappy")

	outA, err := New().YAML(value.NewMap(value.P("tags", a)))
	require.NoError(t, err)

	outB, err := New().YAML(value.NewMap(value.P("tags", b)))
	require.NoError(t, err)

	assert.Equal(t, string(outA), string(outB))

	var got map[string][]string
	require.NoError(t, yaml.Unmarshal(outA, &got))
	assert.Equal(t, []string{"openssl", "snappy", "zlib"}, got["tags"])
}

func TestYAML_DynamicSet(t *testing.T) {
	s, err := value.NewSetOf(value.Int(3), value.Int(1), value.Int(3))
	require.NoError(t, err)

	out, err := New().YAML(s)
	require.NoError(t, err)

	var got []int
	require.NoError(t, yaml.Unmarshal(out, &got))
	assert.Equal(t, []int{1, 3}, got)
}

// ---------------------------------------------------------------------------
// ConfigObjects
// ---------------------------------------------------------------------------

func TestYAML_ConfigObjectFlattening(t *testing.T) {
	obj := task{name: "debug-compile", tags: value.NewSet("zlib", "openssl")}
	plain := value.NewMap(
		value.P("name", value.Text("debug-compile")),
		value.P("tags", value.Texts("openssl", "zlib")),
	)

	fromObj, err := New().YAML(value.Seq{obj})
	require.NoError(t, err)

	fromMap, err := New().YAML(value.Seq{plain})
	require.NoError(t, err)

	assert.Equal(t, string(fromMap), string(fromObj))
}

func TestYAML_ConfigObjectDefaultName(t *testing.T) {
	out, err := New().YAML(variant{})
	require.NoError(t, err)
	assert.Equal(t, "name: UNSET\n", string(out))
}

func TestYAML_ConfigObjectNotEmbeddingBase(t *testing.T) {
	out, err := New().YAML(map[string]any{"variant": foreign{}})
	require.NoError(t, err)

	var got map[string]map[string]string
	require.NoError(t, yaml.Unmarshal(out, &got))
	assert.Equal(t, "foreign", got["variant"]["name"])

	out, err = New().YAML(value.Seq{value.Object{ConfigObject: foreign{}}})
	require.NoError(t, err)
	assert.Contains(t, string(out), "name: foreign")
}

func TestYAML_EmptyObjectWrapper(t *testing.T) {
	_, err := New().YAML(value.Seq{value.Object{}})
	require.ErrorIs(t, err, value.ErrUnsupported)
}

type nameOnly struct {
	value.Base
}

func (nameOnly) Name() string { return "debug-compile" }

func TestYAML_NameOnlyOverride(t *testing.T) {
	out, err := New().YAML(value.Seq{nameOnly{}})
	require.NoError(t, err)
	assert.Equal(t, "- name: debug-compile\n", string(out))
}

func TestYAML_NilObjectPointer(t *testing.T) {
	var obj *task

	tests := []struct {
		name string
		tree any
	}{
		{"wrapped", value.Seq{value.Object{ConfigObject: obj}}},
		{"native", []any{obj}},
		{"root", obj},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New().YAML(tt.tree)
			require.ErrorIs(t, err, value.ErrUnsupported)
		})
	}
}

// ---------------------------------------------------------------------------
// Ordering and style
// ---------------------------------------------------------------------------

func TestYAML_PreservesKeyOrder(t *testing.T) {
	tree := value.NewMap(
		value.P("name", value.Text("compile")),
		value.P("tags", value.Texts("a")),
		value.P("commands", value.Seq{}),
	)

	out, err := New().YAML(tree)
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "tags", "commands"}, mappingKeys(decodeNode(t, out)))
}

func TestYAML_BlockStyleByDefault(t *testing.T) {
	tree := value.NewMap(
		value.P("tags", value.Texts("x", "y")),
		value.P("vars", value.NewMap(value.P("a", value.Int(1)))),
	)

	out, err := New().YAML(tree)
	require.NoError(t, err)

	s := string(out)
	assert.NotContains(t, s, "[x")
	assert.NotContains(t, s, "{a")
	assert.Contains(t, s, "- x\n")
	assert.Contains(t, s, "a: 1\n")
}

func TestYAML_FlowStyle(t *testing.T) {
	out, err := New(WithFlowStyle(true)).YAML(value.NewMap(value.P("tags", value.Texts("x", "y"))))
	require.NoError(t, err)
	assert.Contains(t, string(out), "[x, y]")
}

func TestYAML_Indent(t *testing.T) {
	tree := value.NewMap(value.P("outer", value.NewMap(value.P("inner", value.Int(1)))))

	out, err := New(WithIndent(4)).YAML(tree)
	require.NoError(t, err)
	assert.Equal(t, "outer:\n    inner: 1\n", string(out))

	out, err = New().YAML(tree)
	require.NoError(t, err)
	assert.Equal(t, "outer:\n  inner: 1\n", string(out))
}

func TestYAML_EmptyCollections(t *testing.T) {
	var nilMap *value.Map

	out, err := New().YAML(value.NewMap(
		value.P("seq", value.Seq{}),
		value.P("map", value.NewMap()),
		value.P("nil", nilMap),
	))
	require.NoError(t, err)

	s := string(out)
	assert.Contains(t, s, "seq: []")
	assert.Contains(t, s, "map: {}")
	assert.Contains(t, s, "nil: {}")
}

// ---------------------------------------------------------------------------
// Scalars
// ---------------------------------------------------------------------------

func TestYAML_ScalarTypesSurvive(t *testing.T) {
	tree := value.NewMap(
		value.P("bool", value.Bool(true)),
		value.P("int", value.Int(-7)),
		value.P("float", value.Float(1.25)),
		value.P("null", value.Null{}),
		value.P("text-true", value.Text("true")),
		value.P("text-num", value.Text("123")),
		value.P("text-empty", value.Text("")),
		value.P("inf", value.Float(math.Inf(1))),
	)

	out, err := New().YAML(tree)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, yaml.Unmarshal(out, &got))

	assert.Equal(t, true, got["bool"])
	assert.Equal(t, -7, got["int"])
	assert.InDelta(t, 1.25, got["float"], 0)
	assert.Nil(t, got["null"])
	assert.Equal(t, "true", got["text-true"])
	assert.Equal(t, "123", got["text-num"])
	assert.Equal(t, "", got["text-empty"])
	assert.True(t, math.IsInf(got["inf"].(float64), 1))
}

func TestYAML_NonTextKeys(t *testing.T) {
	m := value.NewMap()
	m.Set(value.Int(1), value.Text("one")).Set(value.Bool(false), value.Text("no"))

	out, err := New().YAML(m)
	require.NoError(t, err)

	var got map[any]string
	require.NoError(t, yaml.Unmarshal(out, &got))
	assert.Equal(t, "one", got[1])
	assert.Equal(t, "no", got[false])
}

func TestYAML_NativeInput(t *testing.T) {
	out, err := New().YAML(map[string]any{
		"b": []string{"x"},
		"a": 1,
	})
	require.NoError(t, err)
	assert.Equal(t, "a: 1\nb:\n  - x\n", string(out))
}

func TestYAML_NilRoot(t *testing.T) {
	out, err := New().YAML(nil)
	require.NoError(t, err)
	assert.Equal(t, "null\n", string(out))
}

// ---------------------------------------------------------------------------
// Errors
// ---------------------------------------------------------------------------

func TestYAML_Unsupported(t *testing.T) {
	_, err := New().YAML(map[string]any{"ch": make(chan int)})
	require.ErrorIs(t, err, value.ErrUnsupported)
}

func TestYAML_MapCycle(t *testing.T) {
	m := value.NewMap()
	m.SetText("self", m)

	_, err := New().YAML(m)
	require.ErrorIs(t, err, ErrCycle)
}

func TestYAML_ConfigObjectCycle(t *testing.T) {
	_, err := New(WithMaxDepth(32)).YAML(selfRef{})
	require.ErrorIs(t, err, ErrCycle)
}

func TestYAML_SharedMapIsNotACycle(t *testing.T) {
	shared := value.NewMap(value.P("k", value.Text("v")))

	out, err := New().YAML(value.Seq{shared, shared})
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(out), "k: v"))
}

// ---------------------------------------------------------------------------
// JSON
// ---------------------------------------------------------------------------

func TestJSON(t *testing.T) {
	tree := value.NewMap(
		value.P("name", value.Text("compile")),
		value.P("tags", value.NewSet("b", "a")),
		value.P("script", value.Text("a\nb")),
	)

	out, err := New().JSON(tree)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(out, &got))

	assert.Equal(t, "compile", got["name"])
	assert.Equal(t, []any{"a", "b"}, got["tags"])
	assert.Equal(t, "a\nb", got["script"])
	assert.True(t, strings.HasSuffix(string(out), "\n"))
}

// ---------------------------------------------------------------------------
// Options
// ---------------------------------------------------------------------------

func TestNew_Defaults(t *testing.T) {
	opts := New(WithIndent(0), WithMaxDepth(-1)).Options()

	assert.Equal(t, 2, opts.Indent)
	assert.Equal(t, 512, opts.MaxDepth)
	assert.True(t, opts.LiteralMultiline)
	assert.False(t, opts.FlowStyle)
}
