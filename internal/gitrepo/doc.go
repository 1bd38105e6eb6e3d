// Package gitrepo reads the two facts transform-readme needs from a local Git
// repository: the URL of a remote and the name of the checked-out branch.
//
// Inspector abstracts the lookup. LibraryInspector reads the repository
// in-process with go-git while CLIInspector shells out to the git executable.
// ParseGitHubRemoteURL turns remote URLs into owner and repository names.
package gitrepo
