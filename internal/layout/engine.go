// Package layout packs the three bar sections into cell rectangles each
// frame and draws the result into an off-screen surface. The produced
// BoundsMap is the single source of truth for hit testing until the next
// pass fully replaces it.
package layout

import (
	"context"
	"log"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"

	"topbar/internal/config"
	"topbar/internal/geometry"
	"topbar/internal/module"
	"topbar/internal/render"
)

// BoundsMap maps module id to its on-screen rectangle for one frame. It is
// fully replaced by each layout pass, never merged.
type BoundsMap map[string]geometry.Rect

// Metrics are the packing constants, in cells. They are parameters rather
// than literals so tests can pin exact arithmetic.
type Metrics struct {
	EdgePadding int // margin at both bar ends
	ItemSpacing int // gap between adjacent modules
	ItemPadding int // horizontal padding inside a module's rectangle
	BarHeight   int
}

// DefaultMetrics returns the terminal bar's packing constants.
func DefaultMetrics() Metrics {
	return Metrics{EdgePadding: 1, ItemSpacing: 1, ItemPadding: 1, BarHeight: 1}
}

// Frame is the per-pass input snapshot. Everything here is owned by the
// serial UI loop; the engine reads it, it never escapes.
type Frame struct {
	Width    int
	Config   *config.Config
	Registry *module.Registry
	Update   module.UpdateContext

	// HoverID highlights the module under the pointer. Suspended (empty)
	// while dragging.
	HoverID string

	// DraggingID is omitted from its slot; a floating preview and an
	// insertion caret are drawn at DragX instead.
	DraggingID string
	DragX      int

	// Tooltip is drawn in the slack space between sections when it fits.
	Tooltip string
}

// Engine lays out and draws frames. The off-screen buffer and style table
// are owned exclusively by the engine and recreated on size change.
type Engine struct {
	metrics  Metrics
	measurer render.Measurer
	fb       *render.FrameBuffer
	tracer   oteltrace.Tracer
	logger   *log.Logger
}

// NewEngine creates an engine with the given measurer. A nil logger
// disables diagnostics.
func NewEngine(m render.Measurer, metrics Metrics, logger *log.Logger) *Engine {
	return &Engine{
		metrics:  metrics,
		measurer: m,
		fb:       render.NewFrameBuffer(0, metrics.BarHeight),
		tracer:   otel.Tracer("topbar/layout"),
		logger:   logger,
	}
}

// Frontbuffer returns the most recently published frame surface.
func (e *Engine) Frontbuffer() *render.Surface { return e.fb.Front() }

// item is one placed module, resolved before packing.
type item struct {
	id    string
	text  string
	width int
}

// Layout runs one full pass: update every module, resolve visible items,
// pack each section, draw, and blit. It returns the fresh BoundsMap.
func (e *Engine) Layout(ctx context.Context, f Frame) BoundsMap {
	ctx, span := e.tracer.Start(ctx, "layout.pass")
	defer span.End()

	if e.fb.Back().Width() != f.Width || e.fb.Back().Height() != e.metrics.BarHeight {
		e.fb.Resize(f.Width, e.metrics.BarHeight)
	}
	e.fb.Back().Clear()

	e.updateAll(f)

	bounds := make(BoundsMap)
	e.packLeft(f, bounds)
	e.packRight(f, bounds)
	e.packCenter(f, bounds)

	e.drawItems(f, bounds)
	e.drawTooltip(f, bounds)
	e.drawDragPreview(f)

	e.fb.Blit()

	span.SetAttributes(
		attribute.Int("bar.width", f.Width),
		attribute.Int("modules.placed", len(bounds)),
	)
	return bounds
}

// updateAll runs every registered module's update hook, isolating failures:
// a panicking module loses its frame, not the bar.
func (e *Engine) updateAll(f Frame) {
	f.Registry.Each(func(m module.Module) {
		defer func() {
			if r := recover(); r != nil {
				e.logf("module %s: update panic: %v", m.ID(), r)
			}
		}()
		m.Update(f.Update)
	})
}

// resolve returns the placeable item for id, or false when the module is
// absent, hidden, empty, or being dragged.
func (e *Engine) resolve(f Frame, id string) (item, bool) {
	if id == f.DraggingID {
		return item{}, false
	}
	m, ok := f.Registry.Get(id)
	if !ok {
		// Order list referencing an unknown id: skip, never fatal.
		return item{}, false
	}
	if !m.Visible() {
		return item{}, false
	}
	text := e.safeText(m, f.Config)
	if text == "" {
		return item{}, false
	}
	w := f.Config.FixedWidth(id)
	if w == 0 {
		w = m.PreferredWidth()
	}
	if w == 0 {
		tw, _ := e.measurer.Measure(text)
		w = tw + 2*e.metrics.ItemPadding
	}
	return item{id: id, text: text, width: w}, true
}

// safeText shields the frame from a failing DisplayText: the module renders
// empty for this frame only.
func (e *Engine) safeText(m module.Module, cfg *config.Config) (text string) {
	defer func() {
		if r := recover(); r != nil {
			e.logf("module %s: display panic: %v", m.ID(), r)
			text = ""
		}
	}()
	return m.DisplayText(cfg)
}

func (e *Engine) packLeft(f Frame, bounds BoundsMap) {
	x := e.metrics.EdgePadding
	limit := f.Width - e.metrics.EdgePadding
	for _, id := range f.Config.Sections.Left {
		it, ok := e.resolve(f, id)
		if !ok {
			continue
		}
		if x+it.width > limit {
			break // out of room; remaining items occupy no space this frame
		}
		bounds[it.id] = geometry.NewRect(x, 0, it.width, e.metrics.BarHeight)
		x += it.width + e.metrics.ItemSpacing
	}
}

func (e *Engine) packRight(f Frame, bounds BoundsMap) {
	x := f.Width - e.metrics.EdgePadding
	order := f.Config.Sections.Right
	for i := len(order) - 1; i >= 0; i-- {
		it, ok := e.resolve(f, order[i])
		if !ok {
			continue
		}
		x -= it.width
		if x < e.metrics.EdgePadding {
			break
		}
		bounds[it.id] = geometry.NewRect(x, 0, it.width, e.metrics.BarHeight)
		x -= e.metrics.ItemSpacing
	}
}

// packCenter measures all center items first, using fixed-width hints so the
// block never shifts as text changes, then places the run centered.
func (e *Engine) packCenter(f Frame, bounds BoundsMap) {
	items := make([]item, 0, len(f.Config.Sections.Center))
	total := 0
	for _, id := range f.Config.Sections.Center {
		it, ok := e.resolve(f, id)
		if !ok {
			continue
		}
		items = append(items, it)
		total += it.width + e.metrics.ItemSpacing
	}
	if len(items) == 0 {
		return
	}
	total -= e.metrics.ItemSpacing

	x := (f.Width - total) / 2
	if x < e.metrics.EdgePadding {
		x = e.metrics.EdgePadding
	}
	limit := f.Width - e.metrics.EdgePadding
	for _, it := range items {
		if x+it.width > limit {
			break
		}
		bounds[it.id] = geometry.NewRect(x, 0, it.width, e.metrics.BarHeight)
		x += it.width + e.metrics.ItemSpacing
	}
}

// drawItems renders every placed module's text centered in its rectangle.
func (e *Engine) drawItems(f Frame, bounds BoundsMap) {
	for id, r := range bounds {
		m, ok := f.Registry.Get(id)
		if !ok {
			continue
		}
		text := e.safeText(m, f.Config)
		tw, _ := e.measurer.Measure(text)
		style := render.StyleText
		if id == f.HoverID && f.DraggingID == "" {
			style = render.StyleHover
		}
		tx := r.X + (r.Width-tw)/2
		if tx < r.X {
			tx = r.X
		}
		e.fb.Back().DrawText(tx, 0, text, style)
	}
}

// drawTooltip renders hover text in the slack between the left and right
// runs, only when it fits without touching a module rectangle.
func (e *Engine) drawTooltip(f Frame, bounds BoundsMap) {
	if f.Tooltip == "" || f.DraggingID != "" {
		return
	}
	gapStart, gapEnd := e.slack(f, bounds)
	tw, _ := e.measurer.Measure(f.Tooltip)
	if gapEnd-gapStart < tw+2*e.metrics.ItemSpacing {
		return
	}
	x := gapStart + (gapEnd-gapStart-tw)/2
	e.fb.Back().DrawText(x, 0, f.Tooltip, render.StyleMuted)
}

// slack returns the widest unoccupied horizontal interval of the bar.
func (e *Engine) slack(f Frame, bounds BoundsMap) (int, int) {
	lo, hi := e.metrics.EdgePadding, f.Width-e.metrics.EdgePadding
	for _, r := range bounds {
		// Modules sit in two runs from each edge; shrink the gap to exclude
		// every placed rectangle.
		if r.MidX() < f.Width/2 {
			if r.MaxX() > lo {
				lo = r.MaxX()
			}
		} else if r.X < hi {
			hi = r.X
		}
	}
	return lo, hi
}

// drawDragPreview renders the floating label of the dragged module and an
// insertion caret at the current pointer position.
func (e *Engine) drawDragPreview(f Frame) {
	if f.DraggingID == "" {
		return
	}
	m, ok := f.Registry.Get(f.DraggingID)
	if !ok {
		return
	}
	e.fb.Back().Set(f.DragX, 0, render.Cell{Rune: '│', Style: render.StyleCaret})
	text := e.safeText(m, f.Config)
	tw, _ := e.measurer.Measure(text)
	x := f.DragX - tw/2
	if x < 0 {
		x = 0
	}
	if x+tw > f.Width {
		x = f.Width - tw
	}
	e.fb.Back().DrawText(x, 0, text, render.StyleDrag)
}

func (e *Engine) logf(format string, args ...any) {
	if e.logger != nil {
		e.logger.Printf(format, args...)
	}
}
