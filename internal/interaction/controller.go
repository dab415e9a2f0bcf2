package interaction

import (
	"topbar/internal/geometry"
	"topbar/internal/layout"
	"topbar/internal/module"
)

// DefaultDragThreshold is the horizontal displacement, in cells, that
// distinguishes pointer jitter from drag intent.
const DefaultDragThreshold = 6

// Phase is the controller's state machine position.
type Phase int

const (
	// PhaseIdle means no pointer interaction is in progress.
	PhaseIdle Phase = iota
	// PhaseArmed means a press landed on a module; the gesture is not yet a
	// click or a drag.
	PhaseArmed
	// PhaseDragging means the press exceeded the threshold and the module
	// is being reordered.
	PhaseDragging
)

// Button identifies which pointer button completed a press.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonSecondary
)

// DragState is the live gesture. Created on pointer-down, mutated on move,
// consumed and cleared on pointer-up. At most one exists per pointer.
type DragState struct {
	ClickedID     string
	ClickedPos    geometry.Point
	Dragging      bool
	StartX        int
	CurrentX      int
	OriginSection module.Section
	OriginIndex   int
	button        Button
}

// Commit describes a completed reorder for the persistence layer.
type Commit struct {
	Section  module.Section
	ID       string
	OldIndex int
	NewIndex int
	Order    []string // the section's full new order
}

// ResultKind discriminates what a release produced.
type ResultKind int

const (
	// ResultNone: nothing to dispatch (no-op drag, or release without press).
	ResultNone ResultKind = iota
	// ResultClick: dispatch a click to the pressed module.
	ResultClick
	// ResultReorder: persist the commit and redraw.
	ResultReorder
)

// Result is the outcome of Release.
type Result struct {
	Kind    ResultKind
	ClickID string
	Button  Button
	Commit  Commit
}

// Controller is the pointer state machine. It is owned by the serial UI
// loop and needs no locking.
type Controller struct {
	phase     Phase
	threshold int
	drag      DragState
}

// NewController creates a controller with the given drag threshold;
// non-positive values take the default.
func NewController(threshold int) *Controller {
	if threshold <= 0 {
		threshold = DefaultDragThreshold
	}
	return &Controller{threshold: threshold}
}

// Phase returns the current state machine position.
func (c *Controller) Phase() Phase { return c.phase }

// Dragging reports whether a drag is in progress. Hover tracking is
// suspended while this is true.
func (c *Controller) Dragging() bool { return c.phase == PhaseDragging }

// Drag returns a snapshot of the live gesture for rendering the preview.
func (c *Controller) Drag() DragState { return c.drag }

// Press arms the controller: a pointer-down landed on module id, which sits
// at index within section's order list.
func (c *Controller) Press(id string, pt geometry.Point, section module.Section, index int, button Button) {
	c.phase = PhaseArmed
	c.drag = DragState{
		ClickedID:     id,
		ClickedPos:    pt,
		StartX:        pt.X,
		CurrentX:      pt.X,
		OriginSection: section,
		OriginIndex:   index,
		button:        button,
	}
}

// Move feeds a pointer-move. It returns true when the visible state changed
// and the bar needs a redraw (a drag started or advanced).
func (c *Controller) Move(pt geometry.Point) bool {
	switch c.phase {
	case PhaseArmed:
		dx := pt.X - c.drag.StartX
		if dx < 0 {
			dx = -dx
		}
		if dx <= c.threshold {
			return false
		}
		// Only primary-button presses on reorderable sections become drags;
		// everything else stays armed and resolves as a click.
		if c.drag.button != ButtonPrimary || !c.drag.OriginSection.Reorderable() {
			return false
		}
		c.phase = PhaseDragging
		c.drag.Dragging = true
		c.drag.CurrentX = pt.X
		return true
	case PhaseDragging:
		c.drag.CurrentX = pt.X
		return true
	}
	return false
}

// Release feeds the pointer-up. bounds must be the BoundsMap of the most
// recently completed layout pass, and order the origin section's current id
// list. The controller always returns to Idle.
func (c *Controller) Release(pt geometry.Point, bounds layout.BoundsMap, order []string) Result {
	defer c.reset()

	switch c.phase {
	case PhaseArmed:
		return Result{Kind: ResultClick, ClickID: c.drag.ClickedID, Button: c.drag.button}
	case PhaseDragging:
		commit, ok := commitReorder(c.drag, pt.X, bounds, order)
		if !ok {
			return Result{Kind: ResultNone}
		}
		return Result{Kind: ResultReorder, Commit: commit}
	}
	return Result{Kind: ResultNone}
}

// Cancel unconditionally resets to Idle, discarding any gesture. Called on
// lost pointer capture (window blur, suspend); no partial state survives.
func (c *Controller) Cancel() {
	c.reset()
}

func (c *Controller) reset() {
	c.phase = PhaseIdle
	c.drag = DragState{}
}

// commitReorder computes the insertion point for a released drag: scan the
// origin section's placed rectangles left to right and insert before the
// first module whose midpoint exceeds the release x, or at the end. The
// dragged module is absent from bounds while dragging, so it never competes
// with itself. A computed index equal to the origin is a no-op.
func commitReorder(d DragState, releaseX int, bounds layout.BoundsMap, order []string) (Commit, bool) {
	oldIdx := -1
	for i, id := range order {
		if id == d.ClickedID {
			oldIdx = i
			break
		}
	}
	if oldIdx < 0 {
		// The section order changed under the drag (config reload); drop it.
		return Commit{}, false
	}

	insertAt := len(order)
	for i, id := range order {
		if id == d.ClickedID {
			continue
		}
		r, ok := bounds[id]
		if !ok {
			continue
		}
		if releaseX < r.MidX() {
			insertAt = i
			break
		}
	}

	newIdx := insertAt
	if newIdx > oldIdx {
		newIdx--
	}
	if newIdx == oldIdx {
		return Commit{}, false
	}

	newOrder := make([]string, 0, len(order))
	for _, id := range order {
		if id != d.ClickedID {
			newOrder = append(newOrder, id)
		}
	}
	newOrder = append(newOrder, "")
	copy(newOrder[newIdx+1:], newOrder[newIdx:])
	newOrder[newIdx] = d.ClickedID

	return Commit{
		Section:  d.OriginSection,
		ID:       d.ClickedID,
		OldIndex: oldIdx,
		NewIndex: newIdx,
		Order:    newOrder,
	}, true
}
