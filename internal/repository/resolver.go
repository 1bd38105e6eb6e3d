package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/transform-readme/internal/gitrepo"
)

const (
	repositorySeparatorConstant            = "/"
	inspectorUnavailableTemplateConstant   = "git inspector unavailable: %w"
	detectionErrorTemplateConstant         = "%w: %w"
	inspectorFactoryMissingMessageConstant = "git inspector factory not configured"
	repositoryResolvedLogMessageConstant   = "repository resolved"
	branchResolvedLogMessageConstant       = "branch resolved"
	logFieldRepositoryConstant             = "repository"
	logFieldBranchConstant                 = "branch"
	logFieldSourceConstant                 = "source"
	logFieldRemoteURLConstant              = "remote_url"
	logFieldWorkingDirectoryConstant       = "working_directory"
	resolutionSourceExplicitConstant       = "flag"
	resolutionSourceDetectedConstant       = "git"
)

// ErrInspectorFactoryNotConfigured indicates detection was needed but no inspector can be built.
var ErrInspectorFactoryNotConfigured = errors.New(inspectorFactoryMissingMessageConstant)

// InspectorFactory builds the git inspector on first use.
type InspectorFactory func() (gitrepo.Inspector, error)

// ResolverDependencies wires collaborators for Resolver.
type ResolverDependencies struct {
	InspectorFactory InspectorFactory
	RemoteName       string
	Logger           *zap.Logger
}

// Request carries explicit overrides and the directory detection starts from.
type Request struct {
	Repository       string
	Branch           string
	WorkingDirectory string
}

// Validate checks the explicit values without touching git. A value that was
// given but is blank is rejected rather than treated as absent.
func (request Request) Validate() error {
	if len(request.Repository) > 0 {
		if _, _, parseError := ParseRepository(request.Repository); parseError != nil {
			return parseError
		}
	}
	if len(request.Branch) > 0 && len(strings.TrimSpace(request.Branch)) == 0 {
		return ErrBlankBranch
	}
	return nil
}

// Resolver fills in a Reference from explicit values or local git metadata.
type Resolver struct {
	inspectorFactory InspectorFactory
	remoteName       string
	logger           *zap.Logger
	inspector        gitrepo.Inspector
}

// NewResolver constructs a Resolver.
func NewResolver(dependencies ResolverDependencies) *Resolver {
	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	remoteName := strings.TrimSpace(dependencies.RemoteName)
	if len(remoteName) == 0 {
		remoteName = gitrepo.DefaultRemoteNameConstant
	}
	return &Resolver{
		inspectorFactory: dependencies.InspectorFactory,
		remoteName:       remoteName,
		logger:           logger,
	}
}

// Resolve returns the reference for request. Explicit values always win, and
// the inspector is only constructed when something must be detected.
func (resolver *Resolver) Resolve(executionContext context.Context, request Request) (Reference, error) {
	if validationError := request.Validate(); validationError != nil {
		return Reference{}, validationError
	}

	reference := Reference{}

	explicitRepository := strings.TrimSpace(request.Repository)
	if len(explicitRepository) > 0 {
		owner, repositoryName, parseError := ParseRepository(explicitRepository)
		if parseError != nil {
			return Reference{}, parseError
		}
		reference.Owner = owner
		reference.Repository = repositoryName
		resolver.logger.Debug(repositoryResolvedLogMessageConstant,
			zap.String(logFieldRepositoryConstant, reference.FullName()),
			zap.String(logFieldSourceConstant, resolutionSourceExplicitConstant))
	} else {
		detectedReference, detectionError := resolver.detectRepository(executionContext, request.WorkingDirectory)
		if detectionError != nil {
			return Reference{}, detectionError
		}
		reference.Owner = detectedReference.Owner
		reference.Repository = detectedReference.Repository
	}

	explicitBranch := strings.TrimSpace(request.Branch)
	if len(explicitBranch) > 0 {
		reference.Branch = explicitBranch
		resolver.logger.Debug(branchResolvedLogMessageConstant,
			zap.String(logFieldBranchConstant, reference.Branch),
			zap.String(logFieldSourceConstant, resolutionSourceExplicitConstant))
		return reference, nil
	}

	detectedBranch, branchError := resolver.detectBranch(executionContext, request.WorkingDirectory)
	if branchError != nil {
		return Reference{}, branchError
	}
	reference.Branch = detectedBranch
	return reference, nil
}

// ParseRepository splits an owner/repo value.
func ParseRepository(value string) (string, string, error) {
	trimmedValue := strings.TrimSpace(value)
	segments := strings.Split(trimmedValue, repositorySeparatorConstant)
	if len(segments) != 2 {
		return "", "", InvalidRepositoryFormatError{Value: value}
	}

	owner := strings.TrimSpace(segments[0])
	repositoryName := strings.TrimSpace(segments[1])
	if len(owner) == 0 || len(repositoryName) == 0 {
		return "", "", InvalidRepositoryFormatError{Value: value}
	}
	return owner, repositoryName, nil
}

func (resolver *Resolver) detectRepository(executionContext context.Context, workingDirectory string) (Reference, error) {
	inspector, inspectorError := resolver.resolveInspector()
	if inspectorError != nil {
		return Reference{}, fmt.Errorf(detectionErrorTemplateConstant, ErrRepoNotDetected, inspectorError)
	}

	remoteURL, remoteError := inspector.RemoteURL(executionContext, workingDirectory, resolver.remoteName)
	if remoteError != nil {
		return Reference{}, fmt.Errorf(detectionErrorTemplateConstant, ErrRepoNotDetected, remoteError)
	}

	parsedRemote, parseError := gitrepo.ParseGitHubRemoteURL(remoteURL)
	if parseError != nil {
		return Reference{}, fmt.Errorf(detectionErrorTemplateConstant, ErrRepoNotDetected, parseError)
	}

	reference := Reference{Owner: parsedRemote.Owner, Repository: parsedRemote.Repository}
	resolver.logger.Debug(repositoryResolvedLogMessageConstant,
		zap.String(logFieldRepositoryConstant, reference.FullName()),
		zap.String(logFieldSourceConstant, resolutionSourceDetectedConstant),
		zap.String(logFieldRemoteURLConstant, remoteURL),
		zap.String(logFieldWorkingDirectoryConstant, workingDirectory))
	return reference, nil
}

func (resolver *Resolver) detectBranch(executionContext context.Context, workingDirectory string) (string, error) {
	inspector, inspectorError := resolver.resolveInspector()
	if inspectorError != nil {
		return "", fmt.Errorf(detectionErrorTemplateConstant, ErrBranchNotDetected, inspectorError)
	}

	branchName, branchError := inspector.CurrentBranch(executionContext, workingDirectory)
	if branchError != nil {
		return "", fmt.Errorf(detectionErrorTemplateConstant, ErrBranchNotDetected, branchError)
	}

	trimmedBranchName := strings.TrimSpace(branchName)
	if len(trimmedBranchName) == 0 {
		return "", ErrBranchNotDetected
	}

	resolver.logger.Debug(branchResolvedLogMessageConstant,
		zap.String(logFieldBranchConstant, trimmedBranchName),
		zap.String(logFieldSourceConstant, resolutionSourceDetectedConstant))
	return trimmedBranchName, nil
}

func (resolver *Resolver) resolveInspector() (gitrepo.Inspector, error) {
	if resolver.inspector != nil {
		return resolver.inspector, nil
	}
	if resolver.inspectorFactory == nil {
		return nil, ErrInspectorFactoryNotConfigured
	}

	inspector, factoryError := resolver.inspectorFactory()
	if factoryError != nil {
		return nil, fmt.Errorf(inspectorUnavailableTemplateConstant, factoryError)
	}
	resolver.inspector = inspector
	return inspector, nil
}
