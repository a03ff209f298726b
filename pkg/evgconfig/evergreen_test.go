package evgconfig_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/evgconfig/pkg/evgconfig"
)

func TestGenerate_Project(t *testing.T) {
	m := evgconfig.Matrix{Versions: []string{"7.0", "latest"}, Topologies: []string{"server"}}

	tasks, err := m.Tasks(func(version, topology string) *evgconfig.Task {
		vars := evgconfig.NewMap(
			evgconfig.P("VERSION", evgconfig.Text(version)),
			evgconfig.P("TOPOLOGY", evgconfig.Text(topology)),
		)

		return evgconfig.NewTask(fmt.Sprintf("test-%s-%s", version, topology),
			evgconfig.FuncCall("run tests", vars))
	})
	require.NoError(t, err)

	p := &evgconfig.Project{}
	p.AddFunction("run tests", evgconfig.ShellExec(`
		cd src
		make test
	`, evgconfig.WithXtrace()))

	for _, task := range tasks {
		p.Tasks = append(p.Tasks, task)
	}

	p.Variants = append(p.Variants, evgconfig.Variant{
		VariantName: "ubuntu2204",
		RunOn:       []string{"ubuntu2204-small"},
		Tasks:       []string{".server"},
	})

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, evgconfig.Generate(p.Tree(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	body := strings.TrimPrefix(string(data), evgconfig.Header)
	assert.Equal(t, `functions:
  run tests:
    - command: shell.exec
      type: test
      params:
        shell: bash
        script: |
          set -o errexit
          set -o xtrace
          cd src
          make test
tasks:
  - name: test-latest-server
    tags:
      - latest
      - server
    commands:
      - func: run tests
        vars:
          VERSION: latest
          TOPOLOGY: server
  - name: test-7.0-server
    tags:
      - "7.0"
      - server
    commands:
      - func: run tests
        vars:
          VERSION: "7.0"
          TOPOLOGY: server
buildvariants:
  - name: ubuntu2204
    run_on:
      - ubuntu2204-small
    tasks:
      - .server
`, body)
}
