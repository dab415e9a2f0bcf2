package layout

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"topbar/internal/config"
	"topbar/internal/module"
	"topbar/internal/render"
)

// stub is a configurable test module.
type stub struct {
	module.Base
	id        string
	text      string
	width     int
	visible   bool
	panicText bool
	panicUpd  bool
	updates   int
}

func (s *stub) ID() string { return s.id }

func (s *stub) DisplayText(*config.Config) string {
	if s.panicText {
		panic("display boom")
	}
	return s.text
}

func (s *stub) Update(module.UpdateContext) {
	if s.panicUpd {
		panic("update boom")
	}
	s.updates++
}

func (s *stub) Visible() bool        { return s.visible }
func (s *stub) PreferredWidth() int  { return s.width }

// barMetrics mirror the original pixel constants so the packing arithmetic
// is pinned exactly: 8-cell edge margin, 4-cell spacing, 8-cell padding.
func barMetrics() Metrics {
	return Metrics{EdgePadding: 8, ItemSpacing: 4, ItemPadding: 8, BarHeight: 1}
}

func newFrame(width int, reg *module.Registry, cfg *config.Config) Frame {
	return Frame{
		Width:    width,
		Config:   cfg,
		Registry: reg,
		Update:   module.UpdateContext{Config: cfg},
	}
}

func TestLayoutLeftAndRightPacking(t *testing.T) {
	reg := module.NewRegistry()
	reg.Register(&stub{id: "app_menu", text: "menu", visible: true})  // 4 + 16 = 20 wide
	reg.Register(&stub{id: "active_app", text: "nvim", visible: true}) // 20 wide
	reg.Register(&stub{id: "clock", text: "12:34", visible: true})     // 5 + 16 = 21 wide

	cfg := &config.Config{
		Sections: config.SectionsConfig{
			Left:  []string{"app_menu", "active_app"},
			Right: []string{"clock"},
		},
	}

	e := NewEngine(render.FixedMeasurer{}, barMetrics(), nil)
	bounds := e.Layout(context.Background(), newFrame(1000, reg, cfg))

	appMenu, ok := bounds["app_menu"]
	require.True(t, ok)
	assert.Equal(t, 8, appMenu.X, "first left module starts at the edge margin")
	assert.Equal(t, 20, appMenu.Width)

	activeApp, ok := bounds["active_app"]
	require.True(t, ok)
	assert.Equal(t, 8+20+4, activeApp.X, "second left module follows width plus spacing")

	clock, ok := bounds["clock"]
	require.True(t, ok)
	assert.Equal(t, 1000-8-21, clock.X, "right module is right-aligned inside the margin")
	assert.Equal(t, 1000-8, clock.MaxX())
}

func TestLayoutRightSectionReverseOrder(t *testing.T) {
	reg := module.NewRegistry()
	reg.Register(&stub{id: "network", text: "eth0", visible: true})
	reg.Register(&stub{id: "battery", text: "95%", visible: true})

	cfg := &config.Config{
		Sections: config.SectionsConfig{Right: []string{"network", "battery"}},
	}

	e := NewEngine(render.FixedMeasurer{}, barMetrics(), nil)
	bounds := e.Layout(context.Background(), newFrame(200, reg, cfg))

	// List order is left-to-right on screen: network left of battery.
	assert.Less(t, bounds["network"].X, bounds["battery"].X)
	assert.Equal(t, 200-8, bounds["battery"].MaxX())
}

func TestLayoutCenterIsCentered(t *testing.T) {
	reg := module.NewRegistry()
	reg.Register(&stub{id: "clock", text: "12:34", visible: true, width: 30})

	cfg := &config.Config{
		Sections: config.SectionsConfig{Center: []string{"clock"}},
	}

	e := NewEngine(render.FixedMeasurer{}, barMetrics(), nil)
	bounds := e.Layout(context.Background(), newFrame(100, reg, cfg))

	clock := bounds["clock"]
	assert.Equal(t, (100-30)/2, clock.X)
	assert.Equal(t, 30, clock.Width)
}

func TestFixedWidthStableAcrossTextChanges(t *testing.T) {
	clk := &stub{id: "clock", text: "9:01 AM", visible: true, width: 22}
	reg := module.NewRegistry()
	reg.Register(clk)

	cfg := &config.Config{Sections: config.SectionsConfig{Right: []string{"clock"}}}
	e := NewEngine(render.FixedMeasurer{}, barMetrics(), nil)

	first := e.Layout(context.Background(), newFrame(300, reg, cfg))["clock"]
	clk.text = "11:59 PM"
	second := e.Layout(context.Background(), newFrame(300, reg, cfg))["clock"]

	assert.Equal(t, first, second, "fixed-width module must not move or resize as text changes")
}

func TestConfigFixedWidthOverridesModuleHint(t *testing.T) {
	reg := module.NewRegistry()
	reg.Register(&stub{id: "disk", text: "42G", visible: true, width: 10})

	cfg := &config.Config{
		Sections: config.SectionsConfig{Right: []string{"disk"}},
		Modules:  config.ModulesConfig{FixedWidths: map[string]int{"disk": 25}},
	}
	e := NewEngine(render.FixedMeasurer{}, barMetrics(), nil)
	bounds := e.Layout(context.Background(), newFrame(300, reg, cfg))

	assert.Equal(t, 25, bounds["disk"].Width)
}

func TestHiddenEmptyAndUnknownOccupyNoSpace(t *testing.T) {
	reg := module.NewRegistry()
	reg.Register(&stub{id: "a", text: "aa", visible: true})
	reg.Register(&stub{id: "hidden", text: "xx", visible: false})
	reg.Register(&stub{id: "empty", text: "", visible: true})
	reg.Register(&stub{id: "b", text: "bb", visible: true})

	cfg := &config.Config{
		Sections: config.SectionsConfig{Left: []string{"a", "hidden", "empty", "ghost", "b"}},
	}
	e := NewEngine(render.FixedMeasurer{}, barMetrics(), nil)
	bounds := e.Layout(context.Background(), newFrame(500, reg, cfg))

	require.Len(t, bounds, 2)
	// b packs directly after a: the skipped modules left no gap.
	assert.Equal(t, bounds["a"].MaxX()+4, bounds["b"].X)
}

func TestLayoutNeverExceedsBarWidth(t *testing.T) {
	reg := module.NewRegistry()
	cfg := &config.Config{}
	for _, id := range []string{"l1", "l2", "l3", "l4", "l5"} {
		reg.Register(&stub{id: id, text: "xxxxxxxxxxxxxxxxxxxx", visible: true})
		cfg.Sections.Left = append(cfg.Sections.Left, id)
	}
	for _, id := range []string{"r1", "r2", "r3", "r4", "r5"} {
		reg.Register(&stub{id: id, text: "yyyyyyyyyyyyyyyyyyyy", visible: true})
		cfg.Sections.Right = append(cfg.Sections.Right, id)
	}

	const width = 120
	e := NewEngine(render.FixedMeasurer{}, barMetrics(), nil)
	bounds := e.Layout(context.Background(), newFrame(width, reg, cfg))

	for id, r := range bounds {
		assert.GreaterOrEqual(t, r.X, 0, "%s starts inside the bar", id)
		assert.LessOrEqual(t, r.MaxX(), width, "%s ends inside the bar", id)
	}
}

func TestDisplayTextPanicSkipsModuleForTheFrame(t *testing.T) {
	reg := module.NewRegistry()
	reg.Register(&stub{id: "bad", visible: true, panicText: true})
	reg.Register(&stub{id: "good", text: "ok", visible: true})

	cfg := &config.Config{Sections: config.SectionsConfig{Left: []string{"bad", "good"}}}
	e := NewEngine(render.FixedMeasurer{}, barMetrics(), nil)
	bounds := e.Layout(context.Background(), newFrame(300, reg, cfg))

	_, ok := bounds["bad"]
	assert.False(t, ok, "failing module renders as nothing")
	assert.Contains(t, bounds, "good", "the frame survives")
}

func TestUpdatePanicDoesNotAbortFrame(t *testing.T) {
	bad := &stub{id: "bad", text: "t", visible: true, panicUpd: true}
	good := &stub{id: "good", text: "ok", visible: true}
	reg := module.NewRegistry()
	reg.Register(bad)
	reg.Register(good)

	cfg := &config.Config{Sections: config.SectionsConfig{Left: []string{"bad", "good"}}}
	e := NewEngine(render.FixedMeasurer{}, barMetrics(), nil)
	bounds := e.Layout(context.Background(), newFrame(300, reg, cfg))

	assert.Contains(t, bounds, "good")
	assert.Equal(t, 1, good.updates, "other modules still update")
}

func TestDraggedModuleOmittedFromBounds(t *testing.T) {
	reg := module.NewRegistry()
	reg.Register(&stub{id: "network", text: "eth0", visible: true})
	reg.Register(&stub{id: "battery", text: "95%", visible: true})

	cfg := &config.Config{Sections: config.SectionsConfig{Right: []string{"network", "battery"}}}
	e := NewEngine(render.FixedMeasurer{}, barMetrics(), nil)

	f := newFrame(200, reg, cfg)
	f.DraggingID = "battery"
	f.DragX = 100
	bounds := e.Layout(context.Background(), f)

	_, ok := bounds["battery"]
	assert.False(t, ok, "dragged module has no slot")
	assert.Contains(t, bounds, "network")
}
