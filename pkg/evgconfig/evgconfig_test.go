package evgconfig_test

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/evgconfig/pkg/evgconfig"
)

type compileTask struct {
	evgconfig.Base
	tags evgconfig.Set[string]
}

func (compileTask) Name() string { return "compile" }

func (c compileTask) ToMap() *evgconfig.Map {
	return evgconfig.ObjectMap(c).Set(evgconfig.Text("tags"), c.tags)
}

func tree() *evgconfig.Map {
	return evgconfig.NewMap(
		evgconfig.P("tasks", evgconfig.Seq{compileTask{tags: evgconfig.NewSet("b", "a", "b")}}),
		evgconfig.P("script", evgconfig.Text("echo 1\necho 2\n")),
	)
}

func TestRender(t *testing.T) {
	out, err := evgconfig.Render(tree())
	require.NoError(t, err)

	assert.Equal(t, `tasks:
  - name: compile
    tags:
      - a
      - b
script: |
  echo 1
  echo 2
`, string(out))
}

func TestRender_Options(t *testing.T) {
	out, err := evgconfig.Render(evgconfig.NewMap(evgconfig.P("a", evgconfig.Texts("x"))), evgconfig.WithFlowStyle(true))
	require.NoError(t, err)
	assert.Equal(t, "{a: [x]}\n", string(out))

	out, err = evgconfig.Render(evgconfig.Text("a\nb\n"), evgconfig.WithLiteralMultiline(false))
	require.NoError(t, err)
	assert.NotContains(t, string(out), "|")
}

func TestRenderJSON(t *testing.T) {
	out, err := evgconfig.RenderJSON(tree())
	require.NoError(t, err)
	assert.Contains(t, string(out), `"tags": [`)
}

func TestGenerate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	require.NoError(t, evgconfig.Generate(tree(), path, evgconfig.WithIndent(4), evgconfig.WithLogger(logger)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, evgconfig.Header+`tasks:
    - name: compile
      tags:
        - a
        - b
script: |
    echo 1
    echo 2
`, string(data))
	assert.Contains(t, logs.String(), "rendered configuration")
}

func TestGenerate_CycleLeavesNoFile(t *testing.T) {
	m := evgconfig.NewMap()
	m.Set(evgconfig.Text("self"), m)

	path := filepath.Join(t.TempDir(), "config.yml")

	err := evgconfig.Generate(m, path)
	require.ErrorIs(t, err, evgconfig.ErrCycle)

	_, statErr := os.Stat(path)
	assert.ErrorIs(t, statErr, os.ErrNotExist)
}

func TestFrom(t *testing.T) {
	v, err := evgconfig.From(map[string]any{"b": 1, "a": []string{"x"}})
	require.NoError(t, err)

	out, err := evgconfig.Render(v)
	require.NoError(t, err)
	assert.Equal(t, "a:\n  - x\nb: 1\n", string(out))
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "evergreen.hcl")
	require.NoError(t, os.WriteFile(path, []byte("name = \"compile\"\n"), 0o600))

	v, err := evgconfig.Load(path)
	require.NoError(t, err)

	out, err := evgconfig.Render(v)
	require.NoError(t, err)
	assert.Equal(t, "name: compile\n", string(out))
}
