package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/transform-readme/internal/execshell"
)

const (
	gitRemoteSubcommandConstant          = "remote"
	gitGetURLFlagConstant                = "get-url"
	gitSymbolicRefSubcommandConstant     = "symbolic-ref"
	gitQuietFlagConstant                 = "--quiet"
	gitShortFlagConstant                 = "--short"
	gitHeadReferenceConstant             = "HEAD"
	gitNotRepositoryExitCodeConstant     = 128
	gitNotSymbolicRefExitCodeConstant    = 1
	gitCommandErrorTemplateConstant      = "git %s failed in %s: %w"
	executorNotConfiguredMessageConstant = "git executor not configured"
	outputLineSeparatorConstant          = "\n"
	gitTerminalPromptVariableConstant    = "GIT_TERMINAL_PROMPT"
	gitTerminalPromptDisabledConstant    = "0"
	localeVariableConstant               = "LC_ALL"
	stableLocaleConstant                 = "C"
)

// ErrGitExecutorNotConfigured indicates a CLIInspector was built without an executor.
var ErrGitExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)

// GitExecutor runs git subcommands.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// CLIInspector reads repository metadata by invoking the git executable.
type CLIInspector struct {
	executor GitExecutor
}

// NewCLIInspector constructs an inspector that shells out through executor.
func NewCLIInspector(executor GitExecutor) (*CLIInspector, error) {
	if executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	return &CLIInspector{executor: executor}, nil
}

// RemoteURL lists remotes, selects one and returns its URL.
func (inspector *CLIInspector) RemoteURL(executionContext context.Context, repositoryPath string, preferredRemoteName string) (string, error) {
	remoteListOutput, listError := inspector.run(executionContext, repositoryPath, gitRemoteSubcommandConstant)
	if listError != nil {
		return "", listError
	}

	selectedRemoteName, selectionError := SelectRemoteName(strings.Split(remoteListOutput, outputLineSeparatorConstant), preferredRemoteName)
	if selectionError != nil {
		return "", selectionError
	}

	remoteURL, urlError := inspector.run(executionContext, repositoryPath, gitRemoteSubcommandConstant, gitGetURLFlagConstant, selectedRemoteName)
	if urlError != nil {
		return "", urlError
	}
	if len(remoteURL) == 0 {
		return "", fmt.Errorf(remoteWithoutURLErrorTemplateConstant, selectedRemoteName, ErrRemoteNotConfigured)
	}
	return remoteURL, nil
}

// CurrentBranch asks git for the symbolic target of HEAD.
func (inspector *CLIInspector) CurrentBranch(executionContext context.Context, repositoryPath string) (string, error) {
	branchName, branchError := inspector.run(executionContext, repositoryPath, gitSymbolicRefSubcommandConstant, gitQuietFlagConstant, gitShortFlagConstant, gitHeadReferenceConstant)
	if branchError != nil {
		var failedError execshell.CommandFailedError
		if errors.As(branchError, &failedError) && failedError.Result.ExitCode == gitNotSymbolicRefExitCodeConstant {
			return "", ErrDetachedHead
		}
		return "", branchError
	}
	if len(branchName) == 0 {
		return "", ErrDetachedHead
	}
	return branchName, nil
}

func (inspector *CLIInspector) run(executionContext context.Context, repositoryPath string, arguments ...string) (string, error) {
	executionResult, executionError := inspector.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        arguments,
		WorkingDirectory: repositoryPath,
		EnvironmentVariables: map[string]string{
			gitTerminalPromptVariableConstant: gitTerminalPromptDisabledConstant,
			localeVariableConstant:            stableLocaleConstant,
		},
	})
	if executionError != nil {
		subcommandLabel := strings.Join(arguments, " ")
		var failedError execshell.CommandFailedError
		if errors.As(executionError, &failedError) && failedError.Result.ExitCode == gitNotRepositoryExitCodeConstant {
			return "", fmt.Errorf(gitCommandErrorTemplateConstant, subcommandLabel, repositoryPath, errors.Join(ErrRepositoryNotFound, executionError))
		}
		return "", fmt.Errorf(gitCommandErrorTemplateConstant, subcommandLabel, repositoryPath, executionError)
	}
	return strings.TrimSpace(executionResult.StandardOutput), nil
}
