package evergreen

import (
	"strings"

	"github.com/hupe1980/evgconfig/internal/value"
)

type shellOptions struct {
	errexit             bool
	xtrace              bool
	silent              bool
	continueOnErr       bool
	background          bool
	addExpansionsToEnv  bool
	redirectStderr      bool
	commandType         string
	workingDir          string
	includeExpansionsIn []string
}

// ShellOption configures ShellExec.
type ShellOption func(*shellOptions)

// WithWorkingDir runs the script in dir.
func WithWorkingDir(dir string) ShellOption {
	return func(o *shellOptions) { o.workingDir = dir }
}

// WithXtrace prefixes the script with "set -o xtrace".
func WithXtrace() ShellOption {
	return func(o *shellOptions) { o.xtrace = true }
}

// WithoutErrexit drops the "set -o errexit" prefix.
func WithoutErrexit() ShellOption {
	return func(o *shellOptions) { o.errexit = false }
}

// AsSetup marks the command as a setup command instead of a test command.
func AsSetup() ShellOption {
	return func(o *shellOptions) { o.commandType = "setup" }
}

// Silent hides the script output from the task log.
func Silent() ShellOption {
	return func(o *shellOptions) { o.silent = true }
}

// ContinueOnErr keeps the task running when the script fails.
func ContinueOnErr() ShellOption {
	return func(o *shellOptions) { o.continueOnErr = true }
}

// Background runs the script without waiting for it.
func Background() ShellOption {
	return func(o *shellOptions) { o.background = true }
}

// AddExpansionsToEnv exports all expansions as environment variables.
func AddExpansionsToEnv() ShellOption {
	return func(o *shellOptions) { o.addExpansionsToEnv = true }
}

// RedirectStderrToStdout merges the script's stderr into stdout.
func RedirectStderrToStdout() ShellOption {
	return func(o *shellOptions) { o.redirectStderr = true }
}

// IncludeExpansionsInEnv exports the named expansions as environment
// variables.
func IncludeExpansionsInEnv(names ...string) ShellOption {
	return func(o *shellOptions) { o.includeExpansionsIn = append(o.includeExpansionsIn, names...) }
}

// ShellExec returns a shell.exec command running script with bash. The
// script is dedented and, unless disabled, prefixed with
// "set -o errexit".
func ShellExec(script string, opts ...ShellOption) *value.Map {
	o := shellOptions{errexit: true, commandType: "test"}
	for _, opt := range opts {
		opt(&o)
	}

	var sb strings.Builder

	if o.errexit {
		sb.WriteString("set -o errexit\n")
	}

	if o.xtrace {
		sb.WriteString("set -o xtrace\n")
	}

	sb.WriteString(dedent(script))

	cmd := value.NewMap(
		value.P("command", value.Text("shell.exec")),
		value.P("type", value.Text(o.commandType)),
	)

	params := value.NewMap()

	if o.silent {
		params.SetText("silent", value.Bool(true))
	}

	if o.workingDir != "" {
		params.SetText("working_dir", value.Text(o.workingDir))
	}

	if o.continueOnErr {
		params.SetText("continue_on_err", value.Bool(true))
	}

	if o.background {
		params.SetText("background", value.Bool(true))
	}

	if o.addExpansionsToEnv {
		params.SetText("add_expansions_to_env", value.Bool(true))
	}

	if o.redirectStderr {
		params.SetText("redirect_standard_error_to_output", value.Bool(true))
	}

	if len(o.includeExpansionsIn) > 0 {
		params.SetText("include_expansions_in_env", value.Texts(o.includeExpansionsIn...))
	}

	params.SetText("shell", value.Text("bash"))
	params.SetText("script", value.Text(sb.String()))

	return cmd.SetText("params", params)
}

// FuncCall returns a command invoking the project function name. vars is
// copied, so callers may keep mutating it, and omitted when empty.
func FuncCall(name string, vars *value.Map) *value.Map {
	cmd := value.NewMap(value.P("func", value.Text(name)))
	if vars.Len() > 0 {
		cmd.SetText("vars", vars.Clone())
	}

	return cmd
}

// dedent trims blank leading and trailing lines and removes the longest
// common indentation. The result ends with a newline unless empty.
func dedent(script string) string {
	lines := strings.Split(script, "\n")

	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}

	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}

	if len(lines) == 0 {
		return ""
	}

	prefix := ""
	first := true

	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}

		indent := l[:len(l)-len(strings.TrimLeft(l, " \t"))]

		if first {
			prefix, first = indent, false
			continue
		}

		for !strings.HasPrefix(indent, prefix) {
			prefix = prefix[:len(prefix)-1]
		}
	}

	for i, l := range lines {
		lines[i] = strings.TrimRight(strings.TrimPrefix(l, prefix), " \t")
	}

	return strings.Join(lines, "\n") + "\n"
}
