// Package execshell provides structured helpers for invoking external tools.
//
// ShellExecutor wraps a CommandRunner with zap logging and typed failures, and
// OSCommandRunner is the os/exec backed default. The git CLI inspector uses it
// to read remotes and the checked-out branch.
package execshell
