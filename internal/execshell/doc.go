// Package execshell provides structured helpers for invoking external tools.
//
// It wraps os/exec with logging via ShellExecutor, exposes OSCommandRunner for
// default process execution, and defines the abstractions specmirror uses to
// run the git client in a testable manner. Every invocation carries an explicit
// working directory; the process-wide current directory is never changed.
package execshell
