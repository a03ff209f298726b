package evergreen

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatrix_SortedVersions(t *testing.T) {
	m := Matrix{Versions: []string{"4.4", "rapid", "7.0", "latest", "5.0", "4.4", "8.0"}}

	got, err := m.SortedVersions()
	require.NoError(t, err)

	assert.Equal(t, []string{"latest", "rapid", "8.0", "7.0", "5.0", "4.4"}, got)
}

func TestMatrix_InvalidVersion(t *testing.T) {
	_, err := Matrix{Versions: []string{"next"}}.SortedVersions()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"next"`)
}

func TestMatrix_Tasks(t *testing.T) {
	m := Matrix{
		Versions:   []string{"6.0", "latest"},
		Topologies: []string{"server", "sharded_cluster"},
	}

	tasks, err := m.Tasks(func(version, topology string) *Task {
		if version == "6.0" && topology == "sharded_cluster" {
			return nil
		}

		return NewTask(fmt.Sprintf("test-%s-%s", version, topology))
	})
	require.NoError(t, err)
	require.Len(t, tasks, 3)

	names := make([]string, 0, len(tasks))
	for _, task := range tasks {
		names = append(names, task.Name())
	}

	assert.Equal(t, []string{"test-latest-server", "test-latest-sharded_cluster", "test-6.0-server"}, names)
	assert.Equal(t, []string{"latest", "sharded_cluster"}, tasks[1].Tags.List())
}

func TestMatrix_TasksPropagatesVersionError(t *testing.T) {
	_, err := Matrix{Versions: []string{"x.y"}, Topologies: []string{"server"}}.Tasks(func(string, string) *Task {
		t.Fatal("build must not be called")
		return nil
	})
	require.Error(t, err)
}
