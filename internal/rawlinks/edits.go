package rawlinks

import (
	"errors"
	"fmt"
	"sort"
)

const (
	negativeRangeTemplateConstant    = "invalid edit[%d]: negative range"
	reversedRangeTemplateConstant    = "invalid edit[%d]: end before start"
	outOfBoundsTemplateConstant      = "invalid edit[%d]: range out of bounds"
	overlappingRangesMessageConstant = "invalid edits: overlapping ranges"
)

// ErrOverlappingEdits indicates two edits touch the same bytes.
var ErrOverlappingEdits = errors.New(overlappingRangesMessageConstant)

// Edit replaces document[Start:End] with Replacement. Offsets refer to the
// original document and End is exclusive.
type Edit struct {
	Start       int
	End         int
	Replacement []byte
}

// ApplyEdits applies non-overlapping edits back to front so earlier offsets stay valid.
func ApplyEdits(document []byte, edits []Edit) ([]byte, error) {
	if len(edits) == 0 {
		return document, nil
	}

	sortedEdits := sortEditsDescending(edits)
	for editIndex, edit := range sortedEdits {
		if edit.Start < 0 || edit.End < 0 {
			return nil, fmt.Errorf(negativeRangeTemplateConstant, editIndex)
		}
		if edit.End < edit.Start {
			return nil, fmt.Errorf(reversedRangeTemplateConstant, editIndex)
		}
		if edit.End > len(document) {
			return nil, fmt.Errorf(outOfBoundsTemplateConstant, editIndex)
		}
		if editIndex > 0 && edit.End > sortedEdits[editIndex-1].Start {
			return nil, ErrOverlappingEdits
		}
	}

	updatedDocument := append([]byte(nil), document...)
	for _, edit := range sortedEdits {
		prefix := updatedDocument[:edit.Start]
		suffix := updatedDocument[edit.End:]
		nextDocument := make([]byte, 0, len(prefix)+len(edit.Replacement)+len(suffix))
		nextDocument = append(nextDocument, prefix...)
		nextDocument = append(nextDocument, edit.Replacement...)
		nextDocument = append(nextDocument, suffix...)
		updatedDocument = nextDocument
	}
	return updatedDocument, nil
}

func sortEditsDescending(edits []Edit) []Edit {
	sortedEdits := append([]Edit(nil), edits...)
	sort.Slice(sortedEdits, func(leftIndex int, rightIndex int) bool {
		if sortedEdits[leftIndex].Start == sortedEdits[rightIndex].Start {
			return sortedEdits[leftIndex].End > sortedEdits[rightIndex].End
		}
		return sortedEdits[leftIndex].Start > sortedEdits[rightIndex].Start
	})
	return sortedEdits
}
