package library

import "fonograf/pkg/models"

// ComputeDropOrder rebuilds the full order of a scope after a drag-and-drop:
// given the currently displayed refs, the indices of the dragged items and
// the drop index (all within the displayed order), it removes the dragged
// items, finds the insertion point as the count of non-dragged items at or
// before the drop index (zero when dropping at the top), and splices the
// dragged items back in preserving their relative order. The result is the
// complete identifier list to hand to the store's reorder operation; the
// computation never re-reads storage. Out-of-range dragged indices are
// ignored; an empty drag returns the input order unchanged.
func ComputeDropOrder(current []models.ItemRef, draggedIndices []int, dropIndex int) []models.ItemRef {
	dragged := make(map[int]struct{}, len(draggedIndices))
	for _, i := range draggedIndices {
		if i >= 0 && i < len(current) {
			dragged[i] = struct{}{}
		}
	}
	if len(dragged) == 0 {
		return append([]models.ItemRef(nil), current...)
	}

	if dropIndex < 0 {
		dropIndex = 0
	}
	if dropIndex > len(current)-1 {
		dropIndex = len(current) - 1
	}

	remaining := make([]models.ItemRef, 0, len(current)-len(dragged))
	draggedRefs := make([]models.ItemRef, 0, len(dragged))
	for i, ref := range current {
		if _, ok := dragged[i]; ok {
			draggedRefs = append(draggedRefs, ref)
		} else {
			remaining = append(remaining, ref)
		}
	}

	insertPos := 0
	if dropIndex > 0 {
		for i := 0; i <= dropIndex; i++ {
			if _, ok := dragged[i]; !ok {
				insertPos++
			}
		}
	}

	result := make([]models.ItemRef, 0, len(current))
	result = append(result, remaining[:insertPos]...)
	result = append(result, draggedRefs...)
	result = append(result, remaining[insertPos:]...)
	return result
}
