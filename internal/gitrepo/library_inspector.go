package gitrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// LibraryInspector reads repository metadata in-process with go-git.
type LibraryInspector struct{}

// NewLibraryInspector constructs a go-git backed inspector.
func NewLibraryInspector() *LibraryInspector {
	return &LibraryInspector{}
}

// RemoteURL returns the first URL of the selected remote.
func (inspector *LibraryInspector) RemoteURL(_ context.Context, repositoryPath string, preferredRemoteName string) (string, error) {
	repository, openError := inspector.open(repositoryPath)
	if openError != nil {
		return "", openError
	}

	remotes, remotesError := repository.Remotes()
	if remotesError != nil {
		return "", fmt.Errorf(listRemotesErrorTemplateConstant, repositoryPath, remotesError)
	}

	remoteURLs := make(map[string][]string, len(remotes))
	remoteNames := make([]string, 0, len(remotes))
	for _, remote := range remotes {
		remoteConfiguration := remote.Config()
		remoteURLs[remoteConfiguration.Name] = remoteConfiguration.URLs
		remoteNames = append(remoteNames, remoteConfiguration.Name)
	}

	selectedRemoteName, selectionError := SelectRemoteName(remoteNames, preferredRemoteName)
	if selectionError != nil {
		return "", selectionError
	}

	selectedURLs := remoteURLs[selectedRemoteName]
	if len(selectedURLs) == 0 {
		return "", fmt.Errorf(remoteWithoutURLErrorTemplateConstant, selectedRemoteName, ErrRemoteNotConfigured)
	}
	return selectedURLs[0], nil
}

// CurrentBranch returns the short name of the branch HEAD points at.
// HEAD is read without resolving it so an unborn branch still reports its name.
func (inspector *LibraryInspector) CurrentBranch(_ context.Context, repositoryPath string) (string, error) {
	repository, openError := inspector.open(repositoryPath)
	if openError != nil {
		return "", openError
	}

	headReference, referenceError := repository.Reference(plumbing.HEAD, false)
	if referenceError != nil {
		return "", fmt.Errorf(readHeadErrorTemplateConstant, repositoryPath, referenceError)
	}

	if headReference.Type() != plumbing.SymbolicReference || !headReference.Target().IsBranch() {
		return "", ErrDetachedHead
	}
	return headReference.Target().Short(), nil
}

func (inspector *LibraryInspector) open(repositoryPath string) (*git.Repository, error) {
	repository, openError := git.PlainOpenWithOptions(repositoryPath, &git.PlainOpenOptions{DetectDotGit: true})
	if openError != nil {
		if errors.Is(openError, git.ErrRepositoryNotExists) {
			return nil, fmt.Errorf(openRepositoryErrorTemplateConstant, repositoryPath, ErrRepositoryNotFound)
		}
		return nil, fmt.Errorf(openRepositoryErrorTemplateConstant, repositoryPath, openError)
	}
	return repository, nil
}
