package evergreen

import (
	"fmt"
	"slices"

	"github.com/Masterminds/semver/v3"
)

// Moving server versions sort ahead of numbered releases.
var movingVersions = []string{"latest", "rapid"}

// Matrix expands a task template across server versions and topologies.
type Matrix struct {
	Versions   []string
	Topologies []string
}

// SortedVersions returns the distinct versions, moving versions first and
// numbered releases newest first.
func (m Matrix) SortedVersions() ([]string, error) {
	var (
		moving   []string
		numbered []*semver.Version
		seen     = make(map[string]struct{}, len(m.Versions))
	)

	for _, v := range m.Versions {
		if _, dup := seen[v]; dup {
			continue
		}

		seen[v] = struct{}{}

		if slices.Contains(movingVersions, v) {
			moving = append(moving, v)
			continue
		}

		sv, err := semver.NewVersion(v)
		if err != nil {
			return nil, fmt.Errorf("server version %q: %w", v, err)
		}

		numbered = append(numbered, sv)
	}

	slices.SortFunc(moving, func(a, b string) int {
		return slices.Index(movingVersions, a) - slices.Index(movingVersions, b)
	})

	slices.SortStableFunc(numbered, func(a, b *semver.Version) int {
		return b.Compare(a)
	})

	out := moving
	for _, sv := range numbered {
		out = append(out, sv.Original())
	}

	return out, nil
}

// Tasks calls build for every version and topology pair and tags each
// resulting task with its version and topology.
func (m Matrix) Tasks(build func(version, topology string) *Task) ([]*Task, error) {
	versions, err := m.SortedVersions()
	if err != nil {
		return nil, err
	}

	tasks := make([]*Task, 0, len(versions)*len(m.Topologies))

	for _, v := range versions {
		for _, topology := range m.Topologies {
			t := build(v, topology)
			if t == nil {
				continue
			}

			tasks = append(tasks, t.WithTags(v, topology))
		}
	}

	return tasks, nil
}
