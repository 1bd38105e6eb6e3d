package rawlinks

import (
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/temirov/transform-readme/internal/repository"
)

const (
	rawContentBaseURLConstant      = "https://raw.githubusercontent.com"
	urlPathSeparatorConstant       = "/"
	windowsPathSeparatorConstant   = "\\"
	fragmentPrefixConstant         = "#"
	protocolRelativePrefixConstant = "//"
	uncPathPrefixConstant          = "\\\\"
	targetSuffixDelimitersConstant = "?#"
	currentDirectoryConstant       = "."
	parentDirectoryConstant        = ".."
	extensionPrefixConstant        = "."
)

// A scheme needs two characters so single-letter drive prefixes are not mistaken for one.
var urlSchemePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.\-]+:`)

var windowsDrivePattern = regexp.MustCompile(`^[A-Za-z]:`)

// DefaultImageExtensions lists the extensions rewritten when no other set is configured.
func DefaultImageExtensions() []string {
	return []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".svg", ".ico", ".bmp"}
}

// IsRelocatable reports whether target is a local path that can be mapped into the repository.
func IsRelocatable(target string) bool {
	trimmedTarget := strings.TrimSpace(target)
	switch {
	case len(trimmedTarget) == 0:
		return false
	case strings.HasPrefix(trimmedTarget, fragmentPrefixConstant):
		return false
	case strings.HasPrefix(trimmedTarget, protocolRelativePrefixConstant):
		return false
	case strings.HasPrefix(trimmedTarget, uncPathPrefixConstant):
		return false
	case windowsDrivePattern.MatchString(trimmedTarget):
		return false
	case urlSchemePattern.MatchString(trimmedTarget):
		return false
	default:
		return true
	}
}

// splitTarget separates the path from any query string or fragment.
func splitTarget(target string) (string, string) {
	suffixIndex := strings.IndexAny(target, targetSuffixDelimitersConstant)
	if suffixIndex < 0 {
		return target, ""
	}
	return target[:suffixIndex], target[suffixIndex:]
}

// NormalizePath converts a local path into cleaned, repository-root-relative
// segments. It reports false when nothing inside the repository remains.
func NormalizePath(localPath string) ([]string, bool) {
	slashedPath := strings.ReplaceAll(strings.TrimSpace(localPath), windowsPathSeparatorConstant, urlPathSeparatorConstant)
	cleanedPath := strings.TrimPrefix(path.Clean(urlPathSeparatorConstant+slashedPath), urlPathSeparatorConstant)
	if len(cleanedPath) == 0 || cleanedPath == currentDirectoryConstant {
		return nil, false
	}
	if hasParentTraversal(slashedPath) {
		return nil, false
	}

	rawSegments := strings.Split(cleanedPath, urlPathSeparatorConstant)
	decodedSegments := make([]string, 0, len(rawSegments))
	for _, rawSegment := range rawSegments {
		decodedSegment, decodeError := url.PathUnescape(rawSegment)
		if decodeError != nil {
			decodedSegment = rawSegment
		}
		decodedSegments = append(decodedSegments, decodedSegment)
	}
	return decodedSegments, true
}

// hasParentTraversal reports whether the path climbs above its starting directory.
func hasParentTraversal(slashedPath string) bool {
	relativeClean := path.Clean(strings.TrimLeft(slashedPath, urlPathSeparatorConstant))
	return relativeClean == parentDirectoryConstant || strings.HasPrefix(relativeClean, parentDirectoryConstant+urlPathSeparatorConstant)
}

// BuildRawURL joins the reference and decoded path segments into a raw content URL.
func BuildRawURL(reference repository.Reference, pathSegments []string) string {
	urlSegments := []string{rawContentBaseURLConstant, url.PathEscape(reference.Owner), url.PathEscape(reference.Repository)}
	for _, branchSegment := range strings.Split(reference.Branch, urlPathSeparatorConstant) {
		urlSegments = append(urlSegments, url.PathEscape(branchSegment))
	}
	for _, pathSegment := range pathSegments {
		urlSegments = append(urlSegments, url.PathEscape(pathSegment))
	}
	return strings.Join(urlSegments, urlPathSeparatorConstant)
}

// extensionFilter matches paths by extension, case-insensitively.
type extensionFilter struct {
	extensions map[string]struct{}
}

func newExtensionFilter(extensions []string) extensionFilter {
	normalizedExtensions := make(map[string]struct{}, len(extensions))
	for _, extension := range extensions {
		normalizedExtension := strings.ToLower(strings.TrimSpace(extension))
		if len(normalizedExtension) == 0 {
			continue
		}
		if !strings.HasPrefix(normalizedExtension, extensionPrefixConstant) {
			normalizedExtension = extensionPrefixConstant + normalizedExtension
		}
		normalizedExtensions[normalizedExtension] = struct{}{}
	}
	return extensionFilter{extensions: normalizedExtensions}
}

// Matches reports true for every path when no extensions are configured.
func (filter extensionFilter) Matches(pathSegments []string) bool {
	if len(filter.extensions) == 0 {
		return true
	}
	if len(pathSegments) == 0 {
		return false
	}
	_, found := filter.extensions[strings.ToLower(path.Ext(pathSegments[len(pathSegments)-1]))]
	return found
}
