// Package bar is the interactive program: it routes pointer and key input
// into the gesture controller, runs layout passes, and renders the front
// buffer. All state here is owned by the serial event loop.
package bar

import (
	"context"
	"log"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"topbar/internal/config"
	"topbar/internal/geometry"
	"topbar/internal/interaction"
	"topbar/internal/layout"
	"topbar/internal/module"
	"topbar/internal/refresh"
	"topbar/internal/render"
)

const (
	slowTick     = time.Second
	tooltipDwell = 600 * time.Millisecond
)

// ReloadMsg carries a freshly loaded config into the loop. The file watcher
// posts it from its own goroutine via Program.Send.
type ReloadMsg struct{ Config *config.Config }

// WatchErrMsg reports a config watcher failure.
type WatchErrMsg struct{ Err error }

type slowTickMsg time.Time
type dwellTickMsg time.Time
type refreshMsg refresh.Notification

// Model is the bubbletea model for the bar.
type Model struct {
	cfg      *config.Config
	cfgPath  string
	registry *module.Registry
	engine   *layout.Engine
	ctrl     *interaction.Controller
	notifier *refresh.ChanNotifier
	styles   Styles
	keys     keyMap
	logger   *log.Logger

	width  int
	bounds layout.BoundsMap

	hoverID    string
	hoverSince time.Time
}

// New creates the bar model. The logger must write to a file, never the
// terminal the bar owns.
func New(cfg *config.Config, cfgPath string, reg *module.Registry, logger *log.Logger) Model {
	return Model{
		cfg:      cfg,
		cfgPath:  cfgPath,
		registry: reg,
		engine:   layout.NewEngine(render.CellMeasurer{}, layout.DefaultMetrics(), logger),
		ctrl:     interaction.NewController(interaction.DefaultDragThreshold),
		notifier: refresh.NewChanNotifier(64),
		styles:   DefaultStyles(),
		keys:     defaultKeyMap(),
		logger:   logger,
		bounds:   layout.BoundsMap{},
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.scheduleSlowTick(), m.waitRefresh())
}

func (m Model) scheduleSlowTick() tea.Cmd {
	return tea.Tick(slowTick, func(t time.Time) tea.Msg { return slowTickMsg(t) })
}

func (m Model) scheduleDwell() tea.Cmd {
	return tea.Tick(tooltipDwell, func(t time.Time) tea.Msg { return dwellTickMsg(t) })
}

// waitRefresh blocks on the worker notification channel and converts the
// next notification into a message.
func (m Model) waitRefresh() tea.Cmd {
	ch := m.notifier.C()
	return func() tea.Msg { return refreshMsg(<-ch) }
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.relayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.BlurMsg:
		// Focus loss cancels any gesture: no commit, no click.
		m.ctrl.Cancel()
		m.hoverID = ""
		m.relayout()
		return m, nil

	case slowTickMsg:
		m.relayout()
		return m, m.scheduleSlowTick()

	case dwellTickMsg:
		// Redraw so a tooltip whose dwell just elapsed appears.
		if m.hoverID != "" {
			m.relayout()
		}
		return m, nil

	case refreshMsg:
		m.relayout()
		return m, m.waitRefresh()

	case ReloadMsg:
		m.cfg = msg.Config
		m.logger.Printf("config reloaded from %s", m.cfgPath)
		m.relayout()
		return m, nil

	case WatchErrMsg:
		m.logger.Printf("config watch: %v", msg.Err)
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Reload):
		cfg, err := config.Load(m.cfgPath)
		if err != nil {
			m.logger.Printf("reload config: %v", err)
			return m, nil
		}
		m.cfg = cfg
		m.relayout()
		return m, nil
	case key.Matches(msg, m.keys.Refresh):
		m.relayout()
		return m, nil
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	pt := geometry.Point{X: msg.X, Y: msg.Y}

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			m.press(pt, interaction.ButtonPrimary)
		case tea.MouseButtonRight:
			m.press(pt, interaction.ButtonSecondary)
		case tea.MouseButtonWheelUp:
			m.scroll(pt, 1)
		case tea.MouseButtonWheelDown:
			m.scroll(pt, -1)
		}
		return m, nil

	case tea.MouseActionMotion:
		if m.ctrl.Phase() != interaction.PhaseIdle {
			if m.ctrl.Move(pt) {
				m.relayout()
			}
			return m, nil
		}
		return m.trackHover(pt)

	case tea.MouseActionRelease:
		m.release(pt)
		return m, nil
	}
	return m, nil
}

func (m *Model) press(pt geometry.Point, button interaction.Button) {
	id, ok := interaction.HitTest(m.bounds, pt)
	if !ok {
		return
	}
	section, index, ok := sectionOf(m.cfg, id)
	if !ok {
		return
	}
	m.ctrl.Press(id, pt, section, index, button)
}

func (m *Model) scroll(pt geometry.Point, delta int) {
	id, ok := interaction.HitTest(m.bounds, pt)
	if !ok {
		return
	}
	if mod, ok := m.registry.Get(id); ok {
		mod.OnScroll(delta)
		m.relayout()
	}
}

func (m *Model) release(pt geometry.Point) {
	drag := m.ctrl.Drag()
	res := m.ctrl.Release(pt, m.bounds, orderOf(m.cfg, drag.OriginSection))

	switch res.Kind {
	case interaction.ResultClick:
		if mod, ok := m.registry.Get(res.ClickID); ok {
			if res.Button == interaction.ButtonSecondary {
				mod.OnRightClick()
			} else {
				mod.OnClick()
			}
		}
	case interaction.ResultReorder:
		m.applyReorder(res.Commit)
	}
	m.relayout()
}

// applyReorder writes the committed order into the config and persists it.
// A failed save keeps the in-memory order; the bar stays usable.
func (m *Model) applyReorder(c interaction.Commit) {
	setOrder(m.cfg, c.Section, c.Order)
	m.logger.Printf("reorder %s: %s %d -> %d", c.Section, c.ID, c.OldIndex, c.NewIndex)
	if err := config.Save(m.cfgPath, m.cfg); err != nil {
		m.logger.Printf("save config: %v", err)
	}
}

func (m Model) trackHover(pt geometry.Point) (tea.Model, tea.Cmd) {
	id, _ := interaction.HitTest(m.bounds, pt)
	if id == m.hoverID {
		return m, nil
	}
	m.hoverID = id
	m.hoverSince = time.Now()
	m.relayout()
	if id != "" {
		return m, m.scheduleDwell()
	}
	return m, nil
}

// tooltip returns the hovered module's tooltip once the dwell elapsed.
func (m *Model) tooltip() string {
	if m.hoverID == "" || m.ctrl.Dragging() {
		return ""
	}
	if time.Since(m.hoverSince) < tooltipDwell {
		return ""
	}
	mod, ok := m.registry.Get(m.hoverID)
	if !ok {
		return ""
	}
	tip, ok := mod.Tooltip()
	if !ok {
		return ""
	}
	return tip
}

// relayout runs a full layout pass and replaces the hit-test bounds.
func (m *Model) relayout() {
	if m.width == 0 {
		return
	}
	f := layout.Frame{
		Width:    m.width,
		Config:   m.cfg,
		Registry: m.registry,
		Update: module.UpdateContext{
			Config: m.cfg,
			Notify: m.notifier,
			Now:    time.Now(),
		},
		Tooltip: m.tooltip(),
	}
	if m.ctrl.Dragging() {
		d := m.ctrl.Drag()
		f.DraggingID = d.ClickedID
		f.DragX = d.CurrentX
	} else {
		f.HoverID = m.hoverID
	}
	m.bounds = m.engine.Layout(context.Background(), f)
}

// View implements tea.Model.
func (m Model) View() string {
	return m.engine.Frontbuffer().Render(m.styles.Map())
}

// sectionOf finds which section holds id and at what index.
func sectionOf(cfg *config.Config, id string) (module.Section, int, bool) {
	for i, s := range cfg.Sections.Left {
		if s == id {
			return module.SectionLeft, i, true
		}
	}
	for i, s := range cfg.Sections.Center {
		if s == id {
			return module.SectionCenter, i, true
		}
	}
	for i, s := range cfg.Sections.Right {
		if s == id {
			return module.SectionRight, i, true
		}
	}
	return 0, 0, false
}

func orderOf(cfg *config.Config, s module.Section) []string {
	switch s {
	case module.SectionLeft:
		return cfg.Sections.Left
	case module.SectionCenter:
		return cfg.Sections.Center
	default:
		return cfg.Sections.Right
	}
}

func setOrder(cfg *config.Config, s module.Section, order []string) {
	switch s {
	case module.SectionLeft:
		cfg.Sections.Left = order
	case module.SectionCenter:
		cfg.Sections.Center = order
	default:
		cfg.Sections.Right = order
	}
}
