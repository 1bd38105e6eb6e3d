package repository

import "strings"

const (
	fullNameSeparatorConstant = "/"
	branchSeparatorConstant   = "@"
)

// Reference identifies a branch of a GitHub repository.
type Reference struct {
	Owner      string
	Repository string
	Branch     string
}

// IsComplete reports whether every field carries a non-blank value.
func (reference Reference) IsComplete() bool {
	return len(strings.TrimSpace(reference.Owner)) > 0 &&
		len(strings.TrimSpace(reference.Repository)) > 0 &&
		len(strings.TrimSpace(reference.Branch)) > 0
}

// FullName returns owner/repository.
func (reference Reference) FullName() string {
	return reference.Owner + fullNameSeparatorConstant + reference.Repository
}

// String renders owner/repository@branch.
func (reference Reference) String() string {
	return reference.FullName() + branchSeparatorConstant + reference.Branch
}
