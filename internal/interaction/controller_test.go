package interaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"topbar/internal/geometry"
	"topbar/internal/layout"
	"topbar/internal/module"
)

func pt(x int) geometry.Point { return geometry.Point{X: x, Y: 0} }

func TestHitTestHalfOpenEdges(t *testing.T) {
	bounds := layout.BoundsMap{
		"clock": geometry.NewRect(80, 0, 20, 1),
	}

	id, ok := HitTest(bounds, pt(80))
	require.True(t, ok, "left edge is inside")
	assert.Equal(t, "clock", id)

	_, ok = HitTest(bounds, pt(100))
	assert.False(t, ok, "right edge is outside")

	_, ok = HitTest(bounds, geometry.Point{X: 90, Y: 1})
	assert.False(t, ok, "bottom edge is outside")
}

func TestMoveWithinThresholdStaysArmed(t *testing.T) {
	c := NewController(6)
	c.Press("volume", pt(50), module.SectionRight, 0, ButtonPrimary)

	// Exactly at the threshold is still jitter.
	for _, x := range []int{51, 53, 47, 56, 44} {
		c.Move(pt(x))
		assert.Equal(t, PhaseArmed, c.Phase(), "move to %d must not start a drag", x)
	}

	res := c.Release(pt(53), nil, []string{"volume"})
	assert.Equal(t, ResultClick, res.Kind)
	assert.Equal(t, "volume", res.ClickID)
	assert.Equal(t, ButtonPrimary, res.Button)
	assert.Equal(t, PhaseIdle, c.Phase())
}

func TestMoveBeyondThresholdStartsDrag(t *testing.T) {
	c := NewController(6)
	c.Press("battery", pt(50), module.SectionRight, 1, ButtonPrimary)

	assert.True(t, c.Move(pt(57)), "7 cells exceeds the threshold")
	assert.Equal(t, PhaseDragging, c.Phase())
	assert.True(t, c.Drag().Dragging)
	assert.Equal(t, 57, c.Drag().CurrentX)
}

func TestSecondaryButtonNeverDrags(t *testing.T) {
	c := NewController(6)
	c.Press("battery", pt(50), module.SectionRight, 1, ButtonSecondary)
	c.Move(pt(90))

	assert.Equal(t, PhaseArmed, c.Phase())
	res := c.Release(pt(90), nil, nil)
	assert.Equal(t, ResultClick, res.Kind)
	assert.Equal(t, ButtonSecondary, res.Button)
}

func TestCenterSectionNeverDrags(t *testing.T) {
	c := NewController(6)
	c.Press("clock", pt(50), module.SectionCenter, 0, ButtonPrimary)
	c.Move(pt(200))

	assert.Equal(t, PhaseArmed, c.Phase())
}

// rightPair lays out Right=["network","battery"]: network at x=60, battery
// at x=81, as a completed layout pass would have produced.
func rightPair() layout.BoundsMap {
	return layout.BoundsMap{
		"network": geometry.NewRect(60, 0, 20, 1), // mid 70
		"battery": geometry.NewRect(81, 0, 18, 1), // mid 90
	}
}

func TestDragCommitReordersRightSection(t *testing.T) {
	order := []string{"network", "battery"}
	c := NewController(6)

	// Press battery, drag left past network's midpoint, release.
	c.Press("battery", pt(90), module.SectionRight, 1, ButtonPrimary)
	c.Move(pt(65))

	// While dragging, the dragged module is absent from the fresh bounds.
	bounds := layout.BoundsMap{"network": rightPair()["network"]}
	res := c.Release(pt(65), bounds, order)

	require.Equal(t, ResultReorder, res.Kind)
	assert.Equal(t, module.SectionRight, res.Commit.Section)
	assert.Equal(t, "battery", res.Commit.ID)
	assert.Equal(t, 1, res.Commit.OldIndex)
	assert.Equal(t, 0, res.Commit.NewIndex)
	assert.Equal(t, []string{"battery", "network"}, res.Commit.Order)
	assert.Equal(t, PhaseIdle, c.Phase())
}

func TestDragCommitAtSameIndexIsNoOp(t *testing.T) {
	order := []string{"network", "battery"}
	c := NewController(6)

	c.Press("battery", pt(90), module.SectionRight, 1, ButtonPrimary)
	c.Move(pt(98))

	bounds := layout.BoundsMap{"network": rightPair()["network"]}
	res := c.Release(pt(98), bounds, order)

	assert.Equal(t, ResultNone, res.Kind, "computed index equals origin: persisted order untouched")
}

func TestDragReleaseOnMidpointBoundaryInsertsAfter(t *testing.T) {
	// Release exactly on a midpoint: "exceeds" is strict, so the insertion
	// lands after that module.
	order := []string{"network", "battery", "uptime"}
	bounds := layout.BoundsMap{
		"network": geometry.NewRect(60, 0, 20, 1), // mid 70
		"battery": geometry.NewRect(81, 0, 18, 1), // mid 90
	}
	c := NewController(6)
	c.Press("uptime", pt(110), module.SectionRight, 2, ButtonPrimary)
	c.Move(pt(70))

	res := c.Release(pt(70), bounds, order)
	require.Equal(t, ResultReorder, res.Kind)
	assert.Equal(t, []string{"network", "uptime", "battery"}, res.Commit.Order)
}

func TestDragPastEndInsertsLast(t *testing.T) {
	order := []string{"network", "battery"}
	bounds := layout.BoundsMap{"battery": rightPair()["battery"]}
	c := NewController(6)
	c.Press("network", pt(70), module.SectionRight, 0, ButtonPrimary)
	c.Move(pt(120))

	res := c.Release(pt(120), bounds, order)
	require.Equal(t, ResultReorder, res.Kind)
	assert.Equal(t, []string{"battery", "network"}, res.Commit.Order)
	assert.Equal(t, 1, res.Commit.NewIndex)
}

func TestCancelDiscardsDragWithoutCommit(t *testing.T) {
	c := NewController(6)
	c.Press("battery", pt(90), module.SectionRight, 1, ButtonPrimary)
	c.Move(pt(60))
	require.Equal(t, PhaseDragging, c.Phase())

	c.Cancel()
	assert.Equal(t, PhaseIdle, c.Phase())
	assert.Equal(t, DragState{}, c.Drag())

	// A stray release after cancellation dispatches nothing.
	res := c.Release(pt(60), rightPair(), []string{"network", "battery"})
	assert.Equal(t, ResultNone, res.Kind)
}

func TestReleaseWhenOrderChangedUnderDrag(t *testing.T) {
	c := NewController(6)
	c.Press("battery", pt(90), module.SectionRight, 1, ButtonPrimary)
	c.Move(pt(60))

	// Config reload removed the dragged module mid-gesture.
	res := c.Release(pt(60), rightPair(), []string{"network"})
	assert.Equal(t, ResultNone, res.Kind)
}
