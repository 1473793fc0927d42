package process

import (
	"os/exec"
	"strings"
)

// CmdSpec names the program to run: either a line handed to the shell or a
// program path with an argument list. The zero value is invalid. A CmdSpec
// is immutable once built; it is used for spawning and for rendering
// diagnostics, nothing else.
type CmdSpec struct {
	shell string
	path  string
	args  []string
}

// Shell builds a CmdSpec interpreted by /bin/sh -c.
func Shell(cmdline string) CmdSpec {
	return CmdSpec{shell: cmdline}
}

// Prog builds a CmdSpec running path directly with the given arguments,
// resolved via PATH if path contains no separator.
func Prog(path string, args ...string) CmdSpec {
	return CmdSpec{path: path, args: args}
}

// IsShell reports whether the command goes through the shell.
func (c CmdSpec) IsShell() bool { return c.shell != "" }

// IsZero reports whether no command was given.
func (c CmdSpec) IsZero() bool { return c.shell == "" && c.path == "" }

// Render returns the command as it appears in diagnostics.
func (c CmdSpec) Render() string {
	if c.IsShell() {
		return c.shell
	}
	if len(c.args) == 0 {
		return c.path
	}
	return c.path + " " + strings.Join(c.args, " ")
}

// command builds the exec.Cmd for this spec. Stream wiring, environment
// and attributes are applied by the caller.
func (c CmdSpec) command() *exec.Cmd {
	if c.IsShell() {
		return exec.Command("/bin/sh", "-c", c.shell)
	}
	return exec.Command(c.path, c.args...)
}
