package rawlinks

import (
	"errors"
	"fmt"

	"github.com/temirov/transform-readme/internal/repository"
)

const (
	incompleteReferenceMessageConstant       = "repository reference is incomplete"
	incompleteReferenceErrorTemplateConstant = "%w: cannot rewrite %q for %q"
	applyEditsErrorTemplateConstant          = "unable to apply link edits: %w"
)

// ErrIncompleteReference indicates a relocatable link was found while owner, repository or branch was empty.
var ErrIncompleteReference = errors.New(incompleteReferenceMessageConstant)

// Options configures a Rewriter.
type Options struct {
	// ImageExtensions limits rewriting to matching paths. An empty list disables the filter.
	ImageExtensions []string
}

// RewrittenLink records one destination replacement.
type RewrittenLink struct {
	Kind      LinkKind
	Original  string
	Rewritten string
}

// Report summarises a rewrite.
type Report struct {
	Links []RewrittenLink
}

// Count returns the number of rewritten links.
func (report Report) Count() int {
	return len(report.Links)
}

// Rewriter converts repository-relative image destinations into raw content URLs.
type Rewriter struct {
	filter extensionFilter
}

// NewRewriter constructs a Rewriter.
func NewRewriter(options Options) *Rewriter {
	return &Rewriter{filter: newExtensionFilter(options.ImageExtensions)}
}

// Rewrite returns document with every relocatable image destination replaced.
// The input is returned unchanged when nothing qualifies.
func (rewriter *Rewriter) Rewrite(document []byte, reference repository.Reference) ([]byte, Report, error) {
	edits := make([]Edit, 0)
	report := Report{}

	for _, imageReference := range scanImageReferences(document) {
		rawURL, rewritable := rewriter.rewriteDestination(imageReference.Destination, reference)
		if !rewritable {
			continue
		}
		if !reference.IsComplete() {
			return nil, Report{}, fmt.Errorf(incompleteReferenceErrorTemplateConstant, ErrIncompleteReference, imageReference.Destination, reference.String())
		}

		edits = append(edits, Edit{Start: imageReference.Start, End: imageReference.End, Replacement: []byte(rawURL)})
		report.Links = append(report.Links, RewrittenLink{
			Kind:      imageReference.Kind,
			Original:  imageReference.Destination,
			Rewritten: rawURL,
		})
	}

	updatedDocument, applyError := ApplyEdits(document, edits)
	if applyError != nil {
		return nil, Report{}, fmt.Errorf(applyEditsErrorTemplateConstant, applyError)
	}
	return updatedDocument, report, nil
}

// rewriteDestination builds the raw URL for destination, preserving any query or fragment.
func (rewriter *Rewriter) rewriteDestination(destination string, reference repository.Reference) (string, bool) {
	if !IsRelocatable(destination) {
		return "", false
	}

	localPath, suffix := splitTarget(destination)
	pathSegments, normalized := NormalizePath(localPath)
	if !normalized {
		return "", false
	}
	if !rewriter.filter.Matches(pathSegments) {
		return "", false
	}
	return BuildRawURL(reference, pathSegments) + suffix, true
}
