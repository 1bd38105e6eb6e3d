package execshell_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/transform-readme/internal/execshell"
)

const (
	testExecutionSuccessCaseNameConstant         = "success"
	testExecutionFailureCaseNameConstant         = "failure_exit_code"
	testExecutionRunnerErrorCaseNameConstant     = "runner_error"
	testCommandArgumentConstant                  = "symbolic-ref"
	testWorkingDirectoryConstant                 = "."
	testStandardErrorOutputConstant              = "fatal: ref HEAD is not a symbolic ref"
	testLoggerInitializationCaseNameConstant     = "logger_validation"
	testRunnerInitializationCaseNameConstant     = "runner_validation"
	testSuccessfulInitializationCaseNameConstant = "successful_initialization"
)

type recordingCommandRunner struct {
	executionResult  execshell.ExecutionResult
	executionError   error
	recordedCommands []execshell.ShellCommand
}

func (runner *recordingCommandRunner) Run(executionContext context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error) {
	runner.recordedCommands = append(runner.recordedCommands, command)
	return runner.executionResult, runner.executionError
}

func TestShellExecutorInitializationValidation(testInstance *testing.T) {
	testCases := []struct {
		name          string
		logger        *zap.Logger
		runner        execshell.CommandRunner
		expectError   error
		expectSuccess bool
	}{
		{
			name:        testLoggerInitializationCaseNameConstant,
			logger:      nil,
			runner:      &recordingCommandRunner{},
			expectError: execshell.ErrLoggerNotConfigured,
		},
		{
			name:        testRunnerInitializationCaseNameConstant,
			logger:      zap.NewNop(),
			runner:      nil,
			expectError: execshell.ErrCommandRunnerNotConfigured,
		},
		{
			name:          testSuccessfulInitializationCaseNameConstant,
			logger:        zap.NewNop(),
			runner:        &recordingCommandRunner{},
			expectSuccess: true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor, creationError := execshell.NewShellExecutor(testCase.logger, testCase.runner)
			if testCase.expectSuccess {
				require.NoError(testInstance, creationError)
				require.NotNil(testInstance, executor)
			} else {
				require.Error(testInstance, creationError)
				require.ErrorIs(testInstance, creationError, testCase.expectError)
			}
		})
	}
}

func TestShellExecutorExecuteGitLogsLifecycle(testInstance *testing.T) {
	testCases := []struct {
		name                string
		runnerResult        execshell.ExecutionResult
		runnerError         error
		expectErrorType     any
		expectedLogMessages []string
		expectedExitCode    int64
	}{
		{
			name:                testExecutionSuccessCaseNameConstant,
			runnerResult:        execshell.ExecutionResult{StandardOutput: "main\n"},
			expectedLogMessages: []string{"external command started", "external command completed"},
		},
		{
			name:                testExecutionFailureCaseNameConstant,
			runnerResult:        execshell.ExecutionResult{StandardError: testStandardErrorOutputConstant + "\n", ExitCode: 128},
			expectErrorType:     execshell.CommandFailedError{},
			expectedLogMessages: []string{"external command started", "external command failed"},
			expectedExitCode:    128,
		},
		{
			name:                testExecutionRunnerErrorCaseNameConstant,
			runnerError:         errors.New("exec: \"git\": executable file not found in $PATH"),
			expectErrorType:     execshell.CommandExecutionError{},
			expectedLogMessages: []string{"external command started", "external command failed"},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			observerCore, observerLogs := observer.New(zap.DebugLevel)
			recordingRunner := &recordingCommandRunner{
				executionResult: testCase.runnerResult,
				executionError:  testCase.runnerError,
			}

			shellExecutor, creationError := execshell.NewShellExecutor(zap.New(observerCore), recordingRunner)
			require.NoError(testInstance, creationError)

			commandDetails := execshell.CommandDetails{
				Arguments:            []string{testCommandArgumentConstant, "--quiet", "--short", "HEAD"},
				WorkingDirectory:     testWorkingDirectoryConstant,
				EnvironmentVariables: map[string]string{"LC_ALL": "C"},
			}
			executionResult, executionError := shellExecutor.ExecuteGit(context.Background(), commandDetails)

			if testCase.expectErrorType != nil {
				require.Error(testInstance, executionError)
				require.IsType(testInstance, testCase.expectErrorType, executionError)
				require.Empty(testInstance, executionResult.StandardOutput)
			} else {
				require.NoError(testInstance, executionError)
				require.Equal(testInstance, testCase.runnerResult.StandardOutput, executionResult.StandardOutput)
			}

			require.Len(testInstance, recordingRunner.recordedCommands, 1)
			require.Equal(testInstance, execshell.CommandGit, recordingRunner.recordedCommands[0].Name)
			require.Equal(testInstance, commandDetails, recordingRunner.recordedCommands[0].Details)

			loggedEntries := observerLogs.All()
			loggedMessages := make([]string, 0, len(loggedEntries))
			for _, loggedEntry := range loggedEntries {
				require.Equal(testInstance, zap.DebugLevel, loggedEntry.Level)
				require.Equal(testInstance, "git", loggedEntry.ContextMap()["command"])
				loggedMessages = append(loggedMessages, loggedEntry.Message)
			}
			require.Equal(testInstance, testCase.expectedLogMessages, loggedMessages)

			if testCase.expectedExitCode != 0 {
				finalFields := loggedEntries[len(loggedEntries)-1].ContextMap()
				require.Equal(testInstance, testCase.expectedExitCode, finalFields["exit_code"])
				require.Equal(testInstance, testStandardErrorOutputConstant, finalFields["stderr"])
			}
		})
	}
}

func TestCommandFailedErrorIncludesStandardError(testInstance *testing.T) {
	failedError := execshell.CommandFailedError{
		Command: execshell.ShellCommand{Name: execshell.CommandGit, Details: execshell.CommandDetails{Arguments: []string{"remote", "get-url", "origin"}}},
		Result:  execshell.ExecutionResult{ExitCode: 2, StandardError: "error: No such remote 'origin'\n"},
	}

	require.Equal(testInstance, "git remote get-url origin exited with code 2: error: No such remote 'origin'", failedError.Error())
}

func TestCommandExecutionErrorUnwrapsCause(testInstance *testing.T) {
	cause := errors.New("executable file not found in $PATH")
	executionError := execshell.CommandExecutionError{Command: execshell.ShellCommand{Name: execshell.CommandGit}, Cause: cause}

	require.ErrorIs(testInstance, executionError, cause)
}
