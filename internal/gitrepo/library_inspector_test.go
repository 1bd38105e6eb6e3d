package gitrepo_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/require"

	"github.com/temirov/transform-readme/internal/gitrepo"
)

const (
	testDefaultBranchConstant   = "main"
	testOriginURLConstant       = "git@github.com:octocat/hello-world.git"
	testUpstreamURLConstant     = "https://github.com/upstream/hello-world.git"
	testNestedDirectoryConstant = "docs"
	testDetachedHashConstant    = "0123456789abcdef0123456789abcdef01234567"
)

func initializeRepository(testInstance *testing.T, remotes map[string]string) (string, *git.Repository) {
	testInstance.Helper()
	repositoryPath := testInstance.TempDir()
	repository, initError := git.PlainInitWithOptions(repositoryPath, &git.PlainInitOptions{
		InitOptions: git.InitOptions{DefaultBranch: plumbing.NewBranchReferenceName(testDefaultBranchConstant)},
	})
	require.NoError(testInstance, initError)

	for remoteName, remoteURL := range remotes {
		_, remoteError := repository.CreateRemote(&config.RemoteConfig{Name: remoteName, URLs: []string{remoteURL}})
		require.NoError(testInstance, remoteError)
	}
	return repositoryPath, repository
}

func TestLibraryInspectorRemoteURL(testInstance *testing.T) {
	testCases := []struct {
		name          string
		remotes       map[string]string
		preferred     string
		expectedURL   string
		expectedError error
	}{
		{name: "origin_preferred", remotes: map[string]string{"origin": testOriginURLConstant, "upstream": testUpstreamURLConstant}, preferred: "origin", expectedURL: testOriginURLConstant},
		{name: "configured_remote", remotes: map[string]string{"origin": testOriginURLConstant, "upstream": testUpstreamURLConstant}, preferred: "upstream", expectedURL: testUpstreamURLConstant},
		{name: "fallback_remote", remotes: map[string]string{"upstream": testUpstreamURLConstant}, preferred: "origin", expectedURL: testUpstreamURLConstant},
		{name: "no_remote", remotes: map[string]string{}, preferred: "origin", expectedError: gitrepo.ErrRemoteNotConfigured},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			repositoryPath, _ := initializeRepository(testInstance, testCase.remotes)
			inspector := gitrepo.NewLibraryInspector()

			remoteURL, remoteError := inspector.RemoteURL(context.Background(), repositoryPath, testCase.preferred)
			if testCase.expectedError != nil {
				require.ErrorIs(testInstance, remoteError, testCase.expectedError)
				return
			}
			require.NoError(testInstance, remoteError)
			require.Equal(testInstance, testCase.expectedURL, remoteURL)
		})
	}
}

func TestLibraryInspectorDiscoversRepositoryFromNestedDirectory(testInstance *testing.T) {
	repositoryPath, _ := initializeRepository(testInstance, map[string]string{"origin": testOriginURLConstant})
	nestedPath := filepath.Join(repositoryPath, testNestedDirectoryConstant)
	require.NoError(testInstance, os.MkdirAll(nestedPath, 0o755))

	inspector := gitrepo.NewLibraryInspector()
	remoteURL, remoteError := inspector.RemoteURL(context.Background(), nestedPath, gitrepo.DefaultRemoteNameConstant)
	require.NoError(testInstance, remoteError)
	require.Equal(testInstance, testOriginURLConstant, remoteURL)

	branchName, branchError := inspector.CurrentBranch(context.Background(), nestedPath)
	require.NoError(testInstance, branchError)
	require.Equal(testInstance, testDefaultBranchConstant, branchName)
}

func TestLibraryInspectorCurrentBranchOnUnbornBranch(testInstance *testing.T) {
	repositoryPath, repository := initializeRepository(testInstance, nil)
	featureHead := plumbing.NewSymbolicReference(plumbing.HEAD, plumbing.NewBranchReferenceName("feature/docs"))
	require.NoError(testInstance, repository.Storer.SetReference(featureHead))

	branchName, branchError := gitrepo.NewLibraryInspector().CurrentBranch(context.Background(), repositoryPath)
	require.NoError(testInstance, branchError)
	require.Equal(testInstance, "feature/docs", branchName)
}

func TestLibraryInspectorCurrentBranchDetachedHead(testInstance *testing.T) {
	repositoryPath, repository := initializeRepository(testInstance, nil)
	detachedHead := plumbing.NewHashReference(plumbing.HEAD, plumbing.NewHash(testDetachedHashConstant))
	require.NoError(testInstance, repository.Storer.SetReference(detachedHead))

	_, branchError := gitrepo.NewLibraryInspector().CurrentBranch(context.Background(), repositoryPath)
	require.ErrorIs(testInstance, branchError, gitrepo.ErrDetachedHead)
}

func TestLibraryInspectorOutsideRepository(testInstance *testing.T) {
	inspector := gitrepo.NewLibraryInspector()
	directory := testInstance.TempDir()

	_, remoteError := inspector.RemoteURL(context.Background(), directory, gitrepo.DefaultRemoteNameConstant)
	require.ErrorIs(testInstance, remoteError, gitrepo.ErrRepositoryNotFound)

	_, branchError := inspector.CurrentBranch(context.Background(), directory)
	require.ErrorIs(testInstance, branchError, gitrepo.ErrRepositoryNotFound)
}
