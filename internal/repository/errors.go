package repository

import (
	"errors"
	"fmt"
)

const (
	invalidRepositoryFormatMessageConstant       = "repository must be in owner/repo format"
	repositoryNotDetectedMessageConstant         = "could not detect GitHub repository from git remote"
	branchNotDetectedMessageConstant             = "could not detect current git branch"
	blankBranchMessageConstant                   = "branch must not be blank"
	invalidRepositoryFormatErrorTemplateConstant = "%s: %q"
)

// ErrInvalidRepoFormat indicates an explicit repository value is not owner/repo.
var ErrInvalidRepoFormat = errors.New(invalidRepositoryFormatMessageConstant)

// ErrRepoNotDetected indicates local git metadata did not yield a GitHub repository.
var ErrRepoNotDetected = errors.New(repositoryNotDetectedMessageConstant)

// ErrBranchNotDetected indicates the current branch could not be read.
var ErrBranchNotDetected = errors.New(branchNotDetectedMessageConstant)

// ErrBlankBranch indicates an explicit branch value contains only whitespace.
var ErrBlankBranch = errors.New(blankBranchMessageConstant)

// InvalidRepositoryFormatError carries the rejected repository value.
type InvalidRepositoryFormatError struct {
	Value string
}

// Error describes the rejected value.
func (formatError InvalidRepositoryFormatError) Error() string {
	return fmt.Sprintf(invalidRepositoryFormatErrorTemplateConstant, invalidRepositoryFormatMessageConstant, formatError.Value)
}

// Is matches ErrInvalidRepoFormat.
func (formatError InvalidRepositoryFormatError) Is(target error) bool {
	return target == ErrInvalidRepoFormat
}
