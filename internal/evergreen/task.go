package evergreen

import (
	"github.com/hupe1980/evgconfig/internal/value"
)

// Dependency names a task that must finish before the dependent task runs.
type Dependency struct {
	Name    string
	Variant string
	Status  string
}

func (d Dependency) toMap() *value.Map {
	m := value.NewMap(value.P("name", value.Text(d.Name)))

	if d.Variant != "" {
		m.SetText("variant", value.Text(d.Variant))
	}

	if d.Status != "" {
		m.SetText("status", value.Text(d.Status))
	}

	return m
}

// Task is an Evergreen task definition.
type Task struct {
	value.Base

	TaskName        string
	Tags            value.Set[string]
	DependsOn       []Dependency
	ExecTimeoutSecs int
	Commands        value.Seq
}

// NewTask returns a task running commands.
func NewTask(name string, commands ...value.Value) *Task {
	return &Task{TaskName: name, Commands: commands}
}

// WithTags adds tags and returns t.
func (t *Task) WithTags(tags ...string) *Task {
	t.Tags = t.Tags.Insert(tags...)
	return t
}

// WithDependencies appends dependencies and returns t.
func (t *Task) WithDependencies(deps ...Dependency) *Task {
	t.DependsOn = append(t.DependsOn, deps...)
	return t
}

// Name implements value.ConfigObject.
func (t Task) Name() string {
	if t.TaskName == "" {
		return value.Unset
	}

	return t.TaskName
}

// ToMap implements value.ConfigObject.
func (t Task) ToMap() *value.Map {
	m := value.ObjectMap(t)

	if t.Tags.Len() > 0 {
		m.SetText("tags", t.Tags)
	}

	if t.ExecTimeoutSecs > 0 {
		m.SetText("exec_timeout_secs", value.Int(t.ExecTimeoutSecs))
	}

	if len(t.DependsOn) > 0 {
		deps := make(value.Seq, 0, len(t.DependsOn))
		for _, d := range t.DependsOn {
			deps = append(deps, d.toMap())
		}

		m.SetText("depends_on", deps)
	}

	commands := t.Commands
	if commands == nil {
		commands = value.Seq{}
	}

	return m.SetText("commands", commands)
}

// TaskGroup runs a set of tasks on shared hosts with common setup and
// teardown.
type TaskGroup struct {
	value.Base

	GroupName     string
	MaxHosts      int
	SetupGroup    value.Seq
	SetupTask     value.Seq
	TeardownTask  value.Seq
	TeardownGroup value.Seq
	Tasks         []string
}

// Name implements value.ConfigObject.
func (g TaskGroup) Name() string {
	if g.GroupName == "" {
		return value.Unset
	}

	return g.GroupName
}

// ToMap implements value.ConfigObject.
func (g TaskGroup) ToMap() *value.Map {
	m := value.ObjectMap(g)

	if g.MaxHosts > 0 {
		m.SetText("max_hosts", value.Int(g.MaxHosts))
	}

	for _, section := range []struct {
		key  string
		cmds value.Seq
	}{
		{"setup_group", g.SetupGroup},
		{"setup_task", g.SetupTask},
		{"teardown_task", g.TeardownTask},
		{"teardown_group", g.TeardownGroup},
	} {
		if len(section.cmds) > 0 {
			m.SetText(section.key, section.cmds)
		}
	}

	return m.SetText("tasks", value.Texts(g.Tasks...))
}

// Variant is an Evergreen build variant.
type Variant struct {
	value.Base

	VariantName string
	DisplayName string
	RunOn       []string
	Expansions  *value.Map
	Tags        value.Set[string]
	Batchtime   int
	Tasks       []string
}

// Name implements value.ConfigObject.
func (v Variant) Name() string {
	if v.VariantName == "" {
		return value.Unset
	}

	return v.VariantName
}

// ToMap implements value.ConfigObject.
func (v Variant) ToMap() *value.Map {
	m := value.ObjectMap(v)

	if v.DisplayName != "" {
		m.SetText("display_name", value.Text(v.DisplayName))
	}

	if len(v.RunOn) > 0 {
		m.SetText("run_on", value.Texts(v.RunOn...))
	}

	if v.Expansions.Len() > 0 {
		m.SetText("expansions", v.Expansions)
	}

	if v.Tags.Len() > 0 {
		m.SetText("tags", v.Tags)
	}

	if v.Batchtime > 0 {
		m.SetText("batchtime", value.Int(v.Batchtime))
	}

	if len(v.Tasks) > 0 {
		m.SetText("tasks", value.Texts(v.Tasks...))
	}

	return m
}
