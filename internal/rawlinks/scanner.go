package rawlinks

import (
	"bytes"
	"regexp"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"golang.org/x/net/html"
)

const (
	imageTagNameConstant       = "img"
	htmlCommentOpenConstant    = "<!--"
	labelWordSeparatorConstant = " "
	angleBracketOpenConstant   = '<'
	angleBracketCloseConstant  = '>'
	parenthesisOpenConstant    = '('
)

// LinkKind distinguishes the syntax an image reference was written in.
type LinkKind string

// Recognised image reference syntaxes.
const (
	LinkKindMarkdown  LinkKind = "markdown"
	LinkKindReference LinkKind = "reference"
	LinkKindHTML      LinkKind = "html"
)

// Alt text may hold one level of nested brackets.
const altTextExpressionConstant = `(?:[^\[\]\n]|\[[^\[\]\n]*\])*`

// Group 1 is the destination, optionally wrapped in angle brackets, with one
// level of balanced parentheses allowed; anything after it up to the closing
// parenthesis is a title.
var markdownImagePattern = regexp.MustCompile(`!\[` + altTextExpressionConstant + `\]\(\s*(<[^>\n]*>|(?:[^()\s]|\([^()\s]*\))+)[^)\n]*\)`)

// Group 1 is the alt text and group 2 the optional explicit label of a full,
// collapsed or shortcut reference image.
var referenceImagePattern = regexp.MustCompile(`!\[(` + altTextExpressionConstant + `)\](?:\[([^\[\]\n]*)\])?`)

// Group 1 is the label and group 2 the destination of a link reference definition.
var referenceDefinitionPattern = regexp.MustCompile(`(?m)^ {0,3}\[((?:[^\[\]\n\\]|\\.)+)\]:[ \t]*(?:\n[ \t]*)?(<[^>\n]*>|[^\s<]\S*)`)

// Groups 1 to 3 hold the double-quoted, single-quoted and unquoted src value.
var sourceAttributePattern = regexp.MustCompile(`(?i)\ssrc\s*=\s*(?:"([^"]*)"|'([^']*)'|([^\s"'=<>` + "`" + `]+))`)

// imageReference is a destination located in the original document.
type imageReference struct {
	Kind        LinkKind
	Start       int
	End         int
	Destination string
}

// byteRange is a half-open [Start, End) span of the document.
type byteRange struct {
	Start int
	End   int
}

func (span byteRange) overlaps(start int, end int) bool {
	return start < span.End && span.Start < end
}

// documentRegions holds the spans Goldmark classifies as code or raw HTML.
// HTML comments count as code: nothing inside them is rewritten.
type documentRegions struct {
	Code []byteRange
	HTML []byteRange
}

func (regions documentRegions) insideCode(start int, end int) bool {
	for _, codeRange := range regions.Code {
		if codeRange.overlaps(start, end) {
			return true
		}
	}
	return false
}

// scanImageReferences returns non-overlapping image destinations in document order.
func scanImageReferences(document []byte) []imageReference {
	regions := collectRegions(document)

	references := scanMarkdownImages(document, regions)
	references = append(references, scanReferenceDefinitions(document, regions)...)
	references = append(references, scanHTMLImages(document, regions)...)

	sort.SliceStable(references, func(leftIndex int, rightIndex int) bool {
		return references[leftIndex].Start < references[rightIndex].Start
	})

	keptReferences := make([]imageReference, 0, len(references))
	lastEnd := -1
	for _, reference := range references {
		if reference.Start < lastEnd {
			continue
		}
		keptReferences = append(keptReferences, reference)
		lastEnd = reference.End
	}
	return keptReferences
}

func scanMarkdownImages(document []byte, regions documentRegions) []imageReference {
	references := make([]imageReference, 0)
	for _, matchIndexes := range markdownImagePattern.FindAllSubmatchIndex(document, -1) {
		if regions.insideCode(matchIndexes[0], matchIndexes[1]) {
			continue
		}

		destinationStart, destinationEnd := trimAngleBrackets(document, matchIndexes[2], matchIndexes[3])

		references = append(references, imageReference{
			Kind:        LinkKindMarkdown,
			Start:       destinationStart,
			End:         destinationEnd,
			Destination: string(document[destinationStart:destinationEnd]),
		})
	}
	return references
}

// scanReferenceDefinitions returns destinations of link reference definitions
// whose label is used by at least one reference-style image.
func scanReferenceDefinitions(document []byte, regions documentRegions) []imageReference {
	imageLabels := collectImageLabels(document, regions)
	references := make([]imageReference, 0)
	if len(imageLabels) == 0 {
		return references
	}

	for _, matchIndexes := range referenceDefinitionPattern.FindAllSubmatchIndex(document, -1) {
		if regions.insideCode(matchIndexes[0], matchIndexes[1]) {
			continue
		}
		if _, usedByImage := imageLabels[normalizeLabel(document[matchIndexes[2]:matchIndexes[3]])]; !usedByImage {
			continue
		}

		destinationStart, destinationEnd := trimAngleBrackets(document, matchIndexes[4], matchIndexes[5])
		references = append(references, imageReference{
			Kind:        LinkKindReference,
			Start:       destinationStart,
			End:         destinationEnd,
			Destination: string(document[destinationStart:destinationEnd]),
		})
	}
	return references
}

// collectImageLabels gathers normalized labels of reference-style images outside code.
func collectImageLabels(document []byte, regions documentRegions) map[string]struct{} {
	imageLabels := make(map[string]struct{})
	for _, matchIndexes := range referenceImagePattern.FindAllSubmatchIndex(document, -1) {
		if regions.insideCode(matchIndexes[0], matchIndexes[1]) {
			continue
		}

		label := document[matchIndexes[2]:matchIndexes[3]]
		if matchIndexes[4] < 0 {
			if matchIndexes[1] < len(document) && document[matchIndexes[1]] == parenthesisOpenConstant {
				continue
			}
		} else if matchIndexes[5] > matchIndexes[4] {
			label = document[matchIndexes[4]:matchIndexes[5]]
		}

		normalizedLabel := normalizeLabel(label)
		if len(normalizedLabel) > 0 {
			imageLabels[normalizedLabel] = struct{}{}
		}
	}
	return imageLabels
}

// normalizeLabel folds case and collapses whitespace the way reference labels are matched.
func normalizeLabel(label []byte) string {
	return strings.ToLower(strings.Join(strings.Fields(string(label)), labelWordSeparatorConstant))
}

func trimAngleBrackets(document []byte, start int, end int) (int, int) {
	if end-start >= 2 && document[start] == angleBracketOpenConstant && document[end-1] == angleBracketCloseConstant {
		return start + 1, end - 1
	}
	return start, end
}

func scanHTMLImages(document []byte, regions documentRegions) []imageReference {
	references := make([]imageReference, 0)
	for _, htmlRange := range regions.HTML {
		references = append(references, scanHTMLRegion(document, htmlRange)...)
	}
	return references
}

// scanHTMLRegion tokenizes one raw HTML span and maps src values back to document offsets.
func scanHTMLRegion(document []byte, htmlRange byteRange) []imageReference {
	references := make([]imageReference, 0)
	tokenizer := html.NewTokenizer(bytes.NewReader(document[htmlRange.Start:htmlRange.End]))

	tokenOffset := htmlRange.Start
	for {
		tokenType := tokenizer.Next()
		if tokenType == html.ErrorToken {
			return references
		}

		rawToken := tokenizer.Raw()
		tokenStart := tokenOffset
		tokenOffset += len(rawToken)

		if tokenType != html.StartTagToken && tokenType != html.SelfClosingTagToken {
			continue
		}
		tagName, _ := tokenizer.TagName()
		if !strings.EqualFold(string(tagName), imageTagNameConstant) {
			continue
		}

		sourceIndexes := sourceAttributePattern.FindSubmatchIndex(rawToken)
		if sourceIndexes == nil {
			continue
		}
		for groupIndex := 2; groupIndex+1 < len(sourceIndexes); groupIndex += 2 {
			if sourceIndexes[groupIndex] < 0 {
				continue
			}
			valueStart := tokenStart + sourceIndexes[groupIndex]
			valueEnd := tokenStart + sourceIndexes[groupIndex+1]
			references = append(references, imageReference{
				Kind:        LinkKindHTML,
				Start:       valueStart,
				End:         valueEnd,
				Destination: string(document[valueStart:valueEnd]),
			})
			break
		}
	}
}

// collectRegions parses document with Goldmark and records code and raw HTML spans.
func collectRegions(document []byte) documentRegions {
	markdown := goldmark.New()
	root := markdown.Parser().Parse(text.NewReader(document))

	regions := documentRegions{}
	_ = gmast.Walk(root, func(node gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}

		switch typedNode := node.(type) {
		case *gmast.FencedCodeBlock:
			appendLinesRange(&regions.Code, typedNode.Lines())
			return gmast.WalkSkipChildren, nil
		case *gmast.CodeBlock:
			appendLinesRange(&regions.Code, typedNode.Lines())
			return gmast.WalkSkipChildren, nil
		case *gmast.CodeSpan:
			for child := typedNode.FirstChild(); child != nil; child = child.NextSibling() {
				if textNode, isText := child.(*gmast.Text); isText {
					regions.Code = append(regions.Code, byteRange{Start: textNode.Segment.Start, End: textNode.Segment.Stop})
				}
			}
			return gmast.WalkSkipChildren, nil
		case *gmast.HTMLBlock:
			targetRanges := &regions.HTML
			if typedNode.HTMLBlockType == gmast.HTMLBlockType2 {
				targetRanges = &regions.Code
			}
			htmlRange, found := segmentsRange(typedNode.Lines())
			if typedNode.HasClosure() {
				closure := typedNode.ClosureLine
				if !found {
					htmlRange = byteRange{Start: closure.Start, End: closure.Stop}
					found = true
				} else if closure.Stop > htmlRange.End {
					htmlRange.End = closure.Stop
				}
			}
			if found {
				*targetRanges = append(*targetRanges, htmlRange)
			}
			return gmast.WalkSkipChildren, nil
		case *gmast.RawHTML:
			if htmlRange, found := segmentsRange(typedNode.Segments); found {
				if bytes.HasPrefix(document[htmlRange.Start:htmlRange.End], []byte(htmlCommentOpenConstant)) {
					regions.Code = append(regions.Code, htmlRange)
				} else {
					regions.HTML = append(regions.HTML, htmlRange)
				}
			}
			return gmast.WalkSkipChildren, nil
		}
		return gmast.WalkContinue, nil
	})
	return regions
}

func appendLinesRange(target *[]byteRange, lines *text.Segments) {
	if linesSpan, found := segmentsRange(lines); found {
		*target = append(*target, linesSpan)
	}
}

// segmentsRange spans from the first segment start to the last segment stop.
func segmentsRange(segments *text.Segments) (byteRange, bool) {
	if segments == nil || segments.Len() == 0 {
		return byteRange{}, false
	}
	firstSegment := segments.At(0)
	lastSegment := segments.At(segments.Len() - 1)
	return byteRange{Start: firstSegment.Start, End: lastSegment.Stop}, true
}
