package transform

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/transform-readme/internal/execshell"
	"github.com/temirov/transform-readme/internal/gitrepo"
	"github.com/temirov/transform-readme/internal/rawlinks"
	"github.com/temirov/transform-readme/internal/repository"
	"github.com/temirov/transform-readme/internal/utils/flags"
)

const (
	commandUseConstant                    = "transform-readme [input]"
	commandShortDescriptionConstant       = "Rewrite relative README image links to raw GitHub URLs"
	commandLongDescriptionConstant        = "transform-readme rewrites repository-relative image links in a Markdown document into absolute raw.githubusercontent.com URLs so the document renders on sites that cannot resolve repository paths. The repository and branch are detected from local git metadata unless given explicitly. Use - as the input to read standard input."
	defaultInputPathConstant              = "README.md"
	outputFlagNameConstant                = "output"
	outputFlagShorthandConstant           = "o"
	outputFlagDescriptionConstant         = "Output file (default: standard output)"
	branchFlagNameConstant                = "branch"
	branchFlagShorthandConstant           = "b"
	branchFlagDescriptionConstant         = "Git branch name (default: auto-detect)"
	repositoryFlagNameConstant            = "repo"
	repositoryFlagDescriptionConstant     = "Override repository in owner/repo format"
	dryRunFlagNameConstant                = "dry-run"
	dryRunFlagDescriptionConstant         = "Print rewritten links to standard error without writing output"
	gitBackendSettingNameConstant         = "git backend"
	workingDirectoryErrorTemplateConstant = "unable to determine working directory: %w"
	executorCreationErrorTemplateConstant = "unable to create git executor: %w"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider returns the current transform configuration.
type ConfigurationProvider func() Configuration

// CommandBuilder assembles the transform command. Optional fields replace the
// collaborators the command would otherwise construct.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
	Inspector             gitrepo.Inspector
	GitExecutor           gitrepo.GitExecutor
	FileSystem            FileSystem
	WorkingDirectory      string
}

// Build constructs the transform command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:           commandUseConstant,
		Short:         commandShortDescriptionConstant,
		Long:          commandLongDescriptionConstant,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          builder.run,
	}

	command.Flags().StringP(outputFlagNameConstant, outputFlagShorthandConstant, "", outputFlagDescriptionConstant)
	command.Flags().StringP(branchFlagNameConstant, branchFlagShorthandConstant, "", branchFlagDescriptionConstant)
	command.Flags().String(repositoryFlagNameConstant, "", repositoryFlagDescriptionConstant)
	command.Flags().Bool(dryRunFlagNameConstant, false, dryRunFlagDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	options, optionsError := builder.parseOptions(command, arguments)
	if optionsError != nil {
		return optionsError
	}

	configuration := builder.resolveConfiguration()
	gitBackend, backendError := flags.MatchChoice(gitBackendSettingNameConstant, configuration.GitBackend, SupportedGitBackends())
	if backendError != nil {
		return backendError
	}

	workingDirectory, workingDirectoryError := builder.resolveWorkingDirectory()
	if workingDirectoryError != nil {
		return workingDirectoryError
	}

	logger := builder.resolveLogger()
	resolver := repository.NewResolver(repository.ResolverDependencies{
		InspectorFactory: builder.inspectorFactory(gitBackend, logger),
		RemoteName:       configuration.RemoteName,
		Logger:           logger,
	})

	service, serviceError := NewService(Dependencies{
		Resolver:         resolver,
		Rewriter:         rawlinks.NewRewriter(rawlinks.Options{ImageExtensions: configuration.ImageExtensions}),
		FileSystem:       builder.resolveFileSystem(),
		StandardInput:    command.InOrStdin(),
		StandardOutput:   command.OutOrStdout(),
		StandardError:    command.ErrOrStderr(),
		WorkingDirectory: workingDirectory,
		Logger:           logger,
	})
	if serviceError != nil {
		return serviceError
	}

	_, runError := service.Run(command.Context(), options)
	return runError
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command, arguments []string) (Options, error) {
	inputPath := defaultInputPathConstant
	if len(arguments) > 0 {
		inputPath = arguments[0]
	}

	outputPath, outputError := command.Flags().GetString(outputFlagNameConstant)
	if outputError != nil {
		return Options{}, outputError
	}
	branchName, branchError := command.Flags().GetString(branchFlagNameConstant)
	if branchError != nil {
		return Options{}, branchError
	}
	repositoryName, repositoryError := command.Flags().GetString(repositoryFlagNameConstant)
	if repositoryError != nil {
		return Options{}, repositoryError
	}
	dryRun, dryRunError := command.Flags().GetBool(dryRunFlagNameConstant)
	if dryRunError != nil {
		return Options{}, dryRunError
	}

	return Options{
		InputPath:  inputPath,
		OutputPath: outputPath,
		Branch:     branchName,
		Repository: repositoryName,
		DryRun:     dryRun,
	}, nil
}

// inspectorFactory defers inspector construction until the resolver needs git metadata.
func (builder *CommandBuilder) inspectorFactory(gitBackend string, logger *zap.Logger) repository.InspectorFactory {
	return func() (gitrepo.Inspector, error) {
		if builder.Inspector != nil {
			return builder.Inspector, nil
		}
		if gitBackend != GitBackendCLI {
			return gitrepo.NewLibraryInspector(), nil
		}

		gitExecutor := builder.GitExecutor
		if gitExecutor == nil {
			shellExecutor, executorError := execshell.NewShellExecutor(logger, execshell.NewOSCommandRunner())
			if executorError != nil {
				return nil, fmt.Errorf(executorCreationErrorTemplateConstant, executorError)
			}
			gitExecutor = shellExecutor
		}
		cliInspector, inspectorError := gitrepo.NewCLIInspector(gitExecutor)
		if inspectorError != nil {
			return nil, inspectorError
		}
		return cliInspector, nil
	}
}

func (builder *CommandBuilder) resolveConfiguration() Configuration {
	if builder.ConfigurationProvider == nil {
		return DefaultConfiguration()
	}
	return builder.ConfigurationProvider().Sanitize()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func (builder *CommandBuilder) resolveFileSystem() FileSystem {
	if builder.FileSystem == nil {
		return NewOSFileSystem()
	}
	return builder.FileSystem
}

func (builder *CommandBuilder) resolveWorkingDirectory() (string, error) {
	if len(builder.WorkingDirectory) > 0 {
		return builder.WorkingDirectory, nil
	}
	workingDirectory, workingDirectoryError := os.Getwd()
	if workingDirectoryError != nil {
		return "", fmt.Errorf(workingDirectoryErrorTemplateConstant, workingDirectoryError)
	}
	return workingDirectory, nil
}
