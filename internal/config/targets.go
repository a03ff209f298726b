package config

import (
	"fmt"
	"os"
	"path/filepath"

	sigsyaml "sigs.k8s.io/yaml"
)

// Target pairs a source document with the Evergreen file generated from it.
type Target struct {
	// Source is the path of the source document (.yaml, .yml, .json, .hcl).
	Source string `json:"source"`

	// Output is the path of the generated configuration file.
	Output string `json:"output"`
}

// ParseTargets parses the targets section from raw config file bytes. Other
// sections are ignored.
func ParseTargets(data []byte) ([]Target, error) {
	var raw struct {
		Targets []Target `json:"targets,omitempty"`
	}

	if err := sigsyaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing targets: %w", err)
	}

	if err := validateTargets(raw.Targets); err != nil {
		return nil, err
	}

	return raw.Targets, nil
}

// readTargets loads the targets declared in the config file at path and
// resolves relative paths against the file's directory.
func readTargets(path string) ([]Target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %q: %w", path, err)
	}

	targets, err := ParseTargets(data)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	for i := range targets {
		targets[i] = targets[i].ResolveAgainst(dir)
	}

	return targets, nil
}

// ResolveAgainst returns t with relative paths joined to dir.
func (t Target) ResolveAgainst(dir string) Target {
	if t.Source != "" && !filepath.IsAbs(t.Source) {
		t.Source = filepath.Join(dir, t.Source)
	}

	if t.Output != "" && !filepath.IsAbs(t.Output) {
		t.Output = filepath.Join(dir, t.Output)
	}

	return t
}

// validateTargets requires both paths on every target and rejects two
// targets writing the same output.
func validateTargets(targets []Target) error {
	outputs := make(map[string]int, len(targets))

	for i, t := range targets {
		if t.Source == "" {
			return fmt.Errorf("targets[%d]: source is required", i)
		}

		if t.Output == "" {
			return fmt.Errorf("targets[%d]: output is required", i)
		}

		out := filepath.Clean(t.Output)
		if prev, dup := outputs[out]; dup {
			return fmt.Errorf("targets[%d]: output %q already written by targets[%d]", i, t.Output, prev)
		}

		outputs[out] = i
	}

	return nil
}
