package transform

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/transform-readme/internal/rawlinks"
	"github.com/temirov/transform-readme/internal/repository"
)

const (
	// StandardStreamPathConstant selects standard input or standard output instead of a file.
	StandardStreamPathConstant = "-"

	fileNotFoundMessageConstant              = "input file not found"
	writeFailureMessageConstant              = "unable to write output"
	resolverMissingMessageConstant           = "transform service requires a reference resolver"
	rewriterMissingMessageConstant           = "transform service requires a document rewriter"
	fileSystemMissingMessageConstant         = "transform service requires a filesystem"
	outputWriterMissingMessageConstant       = "transform service requires an output writer"
	fileNotFoundErrorTemplateConstant        = "%w: %s"
	readInputErrorTemplateConstant           = "unable to read %s: %w"
	writeOutputErrorTemplateConstant         = "%w: %s: %w"
	writeStandardOutputErrorTemplateConstant = "%w: standard output: %w"
	outputWrittenTemplateConstant            = "Transformed README written to: %s\n"
	dryRunLinkTemplateConstant               = "%s -> %s\n"
	standardInputDisplayNameConstant         = "standard input"
	documentTransformedLogMessageConstant    = "document transformed"
	dryRunLogMessageConstant                 = "dry run, output not written"
	linkRewrittenLogMessageConstant          = "image link rewritten"
	logFieldInputConstant                    = "input"
	logFieldOutputConstant                   = "output"
	logFieldReferenceConstant                = "reference"
	logFieldLinkCountConstant                = "rewritten_links"
	logFieldLinkKindConstant                 = "kind"
	logFieldOriginalConstant                 = "original"
	logFieldRewrittenConstant                = "rewritten"
)

// ErrFileNotFound indicates the input document does not exist.
var ErrFileNotFound = errors.New(fileNotFoundMessageConstant)

// ErrWriteFailure indicates the transformed document could not be written.
var ErrWriteFailure = errors.New(writeFailureMessageConstant)

var (
	errResolverMissing     = errors.New(resolverMissingMessageConstant)
	errRewriterMissing     = errors.New(rewriterMissingMessageConstant)
	errFileSystemMissing   = errors.New(fileSystemMissingMessageConstant)
	errOutputWriterMissing = errors.New(outputWriterMissingMessageConstant)
)

// Options describes one transform invocation.
type Options struct {
	InputPath  string
	OutputPath string
	Branch     string
	Repository string
	DryRun     bool
}

// ReferenceResolver produces the repository reference for a run.
type ReferenceResolver interface {
	Resolve(executionContext context.Context, request repository.Request) (repository.Reference, error)
}

// DocumentRewriter rewrites image links in a document.
type DocumentRewriter interface {
	Rewrite(document []byte, reference repository.Reference) ([]byte, rawlinks.Report, error)
}

// Dependencies wires collaborators for Service.
type Dependencies struct {
	Resolver         ReferenceResolver
	Rewriter         DocumentRewriter
	FileSystem       FileSystem
	StandardInput    io.Reader
	StandardOutput   io.Writer
	StandardError    io.Writer
	WorkingDirectory string
	Logger           *zap.Logger
}

// Result summarises a completed run.
type Result struct {
	Reference  repository.Reference
	Report     rawlinks.Report
	OutputPath string
	Written    bool
}

// Service reads, rewrites and writes one document.
type Service struct {
	resolver         ReferenceResolver
	rewriter         DocumentRewriter
	fileSystem       FileSystem
	standardInput    io.Reader
	standardOutput   io.Writer
	standardError    io.Writer
	workingDirectory string
	logger           *zap.Logger
}

// NewService validates dependencies and constructs a Service.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.Resolver == nil {
		return nil, errResolverMissing
	}
	if dependencies.Rewriter == nil {
		return nil, errRewriterMissing
	}
	if dependencies.FileSystem == nil {
		return nil, errFileSystemMissing
	}
	if dependencies.StandardOutput == nil {
		return nil, errOutputWriterMissing
	}

	standardInput := dependencies.StandardInput
	if standardInput == nil {
		standardInput = strings.NewReader("")
	}
	standardError := dependencies.StandardError
	if standardError == nil {
		standardError = io.Discard
	}
	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		resolver:         dependencies.Resolver,
		rewriter:         dependencies.Rewriter,
		fileSystem:       dependencies.FileSystem,
		standardInput:    standardInput,
		standardOutput:   dependencies.StandardOutput,
		standardError:    standardError,
		workingDirectory: dependencies.WorkingDirectory,
		logger:           logger,
	}, nil
}

// Run performs the transformation. Nothing is written unless every step succeeds.
// Malformed explicit values are reported before the input is read.
func (service *Service) Run(executionContext context.Context, options Options) (Result, error) {
	referenceRequest := repository.Request{
		Repository:       options.Repository,
		Branch:           options.Branch,
		WorkingDirectory: service.searchDirectory(options.InputPath),
	}
	if validationError := referenceRequest.Validate(); validationError != nil {
		return Result{}, validationError
	}

	document, readError := service.readInput(options.InputPath)
	if readError != nil {
		return Result{}, readError
	}

	reference, resolveError := service.resolver.Resolve(executionContext, referenceRequest)
	if resolveError != nil {
		return Result{}, resolveError
	}

	transformedDocument, report, rewriteError := service.rewriter.Rewrite(document, reference)
	if rewriteError != nil {
		return Result{}, rewriteError
	}

	for _, rewrittenLink := range report.Links {
		service.logger.Debug(linkRewrittenLogMessageConstant,
			zap.String(logFieldLinkKindConstant, string(rewrittenLink.Kind)),
			zap.String(logFieldOriginalConstant, rewrittenLink.Original),
			zap.String(logFieldRewrittenConstant, rewrittenLink.Rewritten))
	}
	service.logger.Info(documentTransformedLogMessageConstant,
		zap.String(logFieldInputConstant, service.inputDisplayName(options.InputPath)),
		zap.String(logFieldReferenceConstant, reference.String()),
		zap.Int(logFieldLinkCountConstant, report.Count()))

	result := Result{Reference: reference, Report: report, OutputPath: options.OutputPath}

	if options.DryRun {
		for _, rewrittenLink := range report.Links {
			fmt.Fprintf(service.standardError, dryRunLinkTemplateConstant, rewrittenLink.Original, rewrittenLink.Rewritten)
		}
		service.logger.Info(dryRunLogMessageConstant, zap.String(logFieldOutputConstant, options.OutputPath))
		return result, nil
	}

	if writeError := service.writeOutput(options.OutputPath, transformedDocument); writeError != nil {
		return Result{}, writeError
	}
	result.Written = true
	return result, nil
}

func (service *Service) readInput(inputPath string) ([]byte, error) {
	if isStandardStream(inputPath) {
		document, readError := io.ReadAll(service.standardInput)
		if readError != nil {
			return nil, fmt.Errorf(readInputErrorTemplateConstant, standardInputDisplayNameConstant, readError)
		}
		return document, nil
	}

	document, readError := service.fileSystem.ReadFile(service.resolvePath(inputPath))
	if readError != nil {
		if errors.Is(readError, fs.ErrNotExist) {
			return nil, fmt.Errorf(fileNotFoundErrorTemplateConstant, ErrFileNotFound, inputPath)
		}
		return nil, fmt.Errorf(readInputErrorTemplateConstant, inputPath, readError)
	}
	return document, nil
}

func (service *Service) writeOutput(outputPath string, document []byte) error {
	if len(strings.TrimSpace(outputPath)) == 0 || isStandardStream(outputPath) {
		if _, writeError := service.standardOutput.Write(document); writeError != nil {
			return fmt.Errorf(writeStandardOutputErrorTemplateConstant, ErrWriteFailure, writeError)
		}
		return nil
	}

	if writeError := service.fileSystem.WriteFile(service.resolvePath(outputPath), document); writeError != nil {
		return fmt.Errorf(writeOutputErrorTemplateConstant, ErrWriteFailure, outputPath, writeError)
	}
	fmt.Fprintf(service.standardError, outputWrittenTemplateConstant, outputPath)
	return nil
}

// searchDirectory is where repository detection starts: the input's directory,
// or the working directory for standard input.
func (service *Service) searchDirectory(inputPath string) string {
	if isStandardStream(inputPath) {
		return service.workingDirectory
	}
	return filepath.Dir(service.resolvePath(inputPath))
}

// resolvePath anchors relative paths at the working directory.
func (service *Service) resolvePath(path string) string {
	if filepath.IsAbs(path) || len(service.workingDirectory) == 0 {
		return path
	}
	return filepath.Join(service.workingDirectory, path)
}

func (service *Service) inputDisplayName(inputPath string) string {
	if isStandardStream(inputPath) {
		return standardInputDisplayNameConstant
	}
	return inputPath
}

func isStandardStream(path string) bool {
	return strings.TrimSpace(path) == StandardStreamPathConstant
}
