package evgconfig

import (
	"github.com/hupe1980/evgconfig/internal/evergreen"
)

// Evergreen domain objects.
type (
	Task        = evergreen.Task
	Dependency  = evergreen.Dependency
	TaskGroup   = evergreen.TaskGroup
	Variant     = evergreen.Variant
	Project     = evergreen.Project
	Matrix      = evergreen.Matrix
	ShellOption = evergreen.ShellOption
)

// NewTask returns a task running commands.
func NewTask(name string, commands ...Value) *Task { return evergreen.NewTask(name, commands...) }

// ShellExec returns a shell.exec command running script with bash.
func ShellExec(script string, opts ...ShellOption) *Map { return evergreen.ShellExec(script, opts...) }

// FuncCall returns a command invoking the project function name.
func FuncCall(name string, vars *Map) *Map { return evergreen.FuncCall(name, vars) }

// Shell command options.
var (
	WithWorkingDir         = evergreen.WithWorkingDir
	WithXtrace             = evergreen.WithXtrace
	WithoutErrexit         = evergreen.WithoutErrexit
	AsSetup                = evergreen.AsSetup
	Silent                 = evergreen.Silent
	ContinueOnErr          = evergreen.ContinueOnErr
	Background             = evergreen.Background
	AddExpansionsToEnv     = evergreen.AddExpansionsToEnv
	RedirectStderrToStdout = evergreen.RedirectStderrToStdout
	IncludeExpansionsInEnv = evergreen.IncludeExpansionsInEnv
)
