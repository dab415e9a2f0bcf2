// Package module defines the capability set every status module exposes to
// the engine, and the registry that owns module instances. The engine path
// (layout, hit testing, dispatch) sees only the Module interface; anything
// module-specific goes through the As escape hatch at call sites that truly
// need it, never inside layout.
package module

import (
	"time"

	"topbar/internal/config"
	"topbar/internal/refresh"
)

// Section is one of the three placement zones in the bar.
type Section int

const (
	SectionLeft Section = iota
	SectionCenter
	SectionRight
)

// String returns the section's config name.
func (s Section) String() string {
	switch s {
	case SectionLeft:
		return "left"
	case SectionCenter:
		return "center"
	case SectionRight:
		return "right"
	}
	return "unknown"
}

// Reorderable reports whether modules in this section can be drag-reordered.
// The center section is anchored and never reorders.
func (s Section) Reorderable() bool {
	return s == SectionLeft || s == SectionRight
}

// UpdateContext carries the per-tick inputs a module may use. Update must
// return in sub-millisecond time; anything that blocks belongs in a worker
// goroutine that publishes under the module's own lock and then notifies.
type UpdateContext struct {
	Config *config.Config
	Notify refresh.Notifier
	Now    time.Time
}

// Module is a self-contained status widget. Implementations cache their
// display state; DisplayText and the handlers run on the UI loop.
type Module interface {
	// ID is the stable unique identifier used in section order lists.
	ID() string

	// DisplayText returns the current text. Empty text means the module
	// occupies no space this frame.
	DisplayText(cfg *config.Config) string

	// Update refreshes cached state. Never blocks.
	Update(uc UpdateContext)

	// OnClick handles a primary click.
	OnClick()

	// OnRightClick handles a secondary click.
	OnRightClick()

	// OnScroll handles a wheel notch; delta is positive for up.
	OnScroll(delta int)

	// Tooltip returns hover text, if any.
	Tooltip() (string, bool)

	// Visible reports whether the module should occupy space at all.
	Visible() bool

	// PreferredWidth returns a fixed cell width, or 0 for auto. Modules
	// whose text changes every update return the width of their widest
	// plausible rendering so the bar never visibly resizes.
	PreferredWidth() int
}

// Base provides default no-op behavior for the optional capabilities.
// Concrete modules embed it and override what they need.
type Base struct{}

// OnClick implements Module.
func (Base) OnClick() {}

// OnRightClick implements Module.
func (Base) OnRightClick() {}

// OnScroll implements Module.
func (Base) OnScroll(int) {}

// Tooltip implements Module.
func (Base) Tooltip() (string, bool) { return "", false }

// Visible implements Module.
func (Base) Visible() bool { return true }

// PreferredWidth implements Module.
func (Base) PreferredWidth() int { return 0 }
