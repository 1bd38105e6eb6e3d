package gitrepo

import (
	"context"
	"errors"
	"sort"
	"strings"
)

const (
	// DefaultRemoteNameConstant is the remote preferred when none is configured.
	DefaultRemoteNameConstant = "origin"

	repositoryNotFoundMessageConstant     = "no git repository found"
	remoteNotConfiguredMessageConstant    = "no git remote configured"
	detachedHeadMessageConstant           = "HEAD is detached"
	openRepositoryErrorTemplateConstant   = "unable to open git repository at %s: %w"
	listRemotesErrorTemplateConstant      = "unable to list git remotes in %s: %w"
	readHeadErrorTemplateConstant         = "unable to read HEAD in %s: %w"
	remoteWithoutURLErrorTemplateConstant = "remote %s has no url: %w"
)

// ErrRepositoryNotFound indicates no git metadata exists at or above the inspected path.
var ErrRepositoryNotFound = errors.New(repositoryNotFoundMessageConstant)

// ErrRemoteNotConfigured indicates the repository has no usable remote.
var ErrRemoteNotConfigured = errors.New(remoteNotConfiguredMessageConstant)

// ErrDetachedHead indicates HEAD does not point at a branch.
var ErrDetachedHead = errors.New(detachedHeadMessageConstant)

// Inspector reads remote and branch facts from a local repository.
// repositoryPath may be any directory inside the working tree.
type Inspector interface {
	RemoteURL(executionContext context.Context, repositoryPath string, preferredRemoteName string) (string, error)
	CurrentBranch(executionContext context.Context, repositoryPath string) (string, error)
}

// SelectRemoteName picks preferredRemoteName when present, otherwise the
// alphabetically first remote, mirroring the order `git remote` prints.
func SelectRemoteName(remoteNames []string, preferredRemoteName string) (string, error) {
	trimmedPreferredRemoteName := strings.TrimSpace(preferredRemoteName)
	if len(trimmedPreferredRemoteName) == 0 {
		trimmedPreferredRemoteName = DefaultRemoteNameConstant
	}

	candidates := make([]string, 0, len(remoteNames))
	for _, remoteName := range remoteNames {
		trimmedRemoteName := strings.TrimSpace(remoteName)
		if len(trimmedRemoteName) == 0 {
			continue
		}
		if trimmedRemoteName == trimmedPreferredRemoteName {
			return trimmedRemoteName, nil
		}
		candidates = append(candidates, trimmedRemoteName)
	}

	if len(candidates) == 0 {
		return "", ErrRemoteNotConfigured
	}

	sort.Strings(candidates)
	return candidates[0], nil
}
