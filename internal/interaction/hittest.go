// Package interaction turns serial pointer events into click dispatch or a
// drag-and-commit reorder, and resolves pointer positions against the most
// recent layout pass.
package interaction

import (
	"topbar/internal/geometry"
	"topbar/internal/layout"
)

// HitTest returns the id of the module whose rectangle contains pt. It is a
// linear scan over the current BoundsMap with half-open rectangles; sections
// never overlap, so scan order cannot change the result.
func HitTest(bounds layout.BoundsMap, pt geometry.Point) (string, bool) {
	for id, r := range bounds {
		if r.Contains(pt) {
			return id, true
		}
	}
	return "", false
}
