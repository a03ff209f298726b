package evergreen

import (
	"github.com/hupe1980/evgconfig/internal/value"
)

// Project assembles the top-level sections of an Evergreen configuration
// file.
type Project struct {
	// Functions maps function names to their command lists.
	Functions *value.Map
	// Pre and Post run before and after every task.
	Pre  value.Seq
	Post value.Seq

	Tasks      []value.ConfigObject
	TaskGroups []value.ConfigObject
	Variants   []value.ConfigObject
}

// AddFunction registers a named function and returns p.
func (p *Project) AddFunction(name string, commands ...value.Value) *Project {
	if p.Functions == nil {
		p.Functions = value.NewMap()
	}

	p.Functions.SetText(name, value.Seq(commands))

	return p
}

// Tree returns the configuration tree for p. Sections without content are
// omitted.
func (p *Project) Tree() *value.Map {
	m := value.NewMap()

	if p.Functions.Len() > 0 {
		m.SetText("functions", p.Functions)
	}

	if len(p.Pre) > 0 {
		m.SetText("pre", p.Pre)
	}

	if len(p.Post) > 0 {
		m.SetText("post", p.Post)
	}

	for _, section := range []struct {
		key     string
		objects []value.ConfigObject
	}{
		{"tasks", p.Tasks},
		{"task_groups", p.TaskGroups},
		{"buildvariants", p.Variants},
	} {
		if len(section.objects) > 0 {
			m.SetText(section.key, objects(section.objects))
		}
	}

	return m
}

func objects(in []value.ConfigObject) value.Seq {
	seq := make(value.Seq, 0, len(in))
	for _, o := range in {
		if v, ok := o.(value.Value); ok {
			seq = append(seq, v)
			continue
		}

		seq = append(seq, value.Object{ConfigObject: o})
	}

	return seq
}
