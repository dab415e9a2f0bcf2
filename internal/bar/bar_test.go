package bar

import (
	"log"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"topbar/internal/config"
	"topbar/internal/module"
)

// stub is a minimal module that records dispatched input.
type stub struct {
	module.Base
	id      string
	text    string
	clicks  int
	rclicks int
	scrolls []int
}

func (s *stub) ID() string                        { return s.id }
func (s *stub) DisplayText(*config.Config) string { return s.text }
func (s *stub) Update(module.UpdateContext)       {}

func (s *stub) OnClick()           { s.clicks++ }
func (s *stub) OnRightClick()      { s.rclicks++ }
func (s *stub) OnScroll(delta int) { s.scrolls = append(s.scrolls, delta) }

func testModel(t *testing.T) (Model, *stub, *stub, *stub) {
	t.Helper()
	alpha := &stub{id: "alpha", text: "aa"}
	beta := &stub{id: "beta", text: "bb"}
	gamma := &stub{id: "gamma", text: "cc"}
	reg := module.NewRegistry()
	reg.Register(alpha)
	reg.Register(beta)
	reg.Register(gamma)

	cfg := config.Default()
	cfg.Sections.Left = []string{"alpha", "beta", "gamma"}
	cfg.Sections.Center = nil
	cfg.Sections.Right = nil

	path := filepath.Join(t.TempDir(), "config.yaml")
	logger := log.New(os.Stderr, "", 0)
	m := New(cfg, path, reg, logger)

	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 1})
	return next.(Model), alpha, beta, gamma
}

func mouse(x int, action tea.MouseAction, button tea.MouseButton) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: 0, Action: action, Button: button}
}

func step(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

// Each item is its text width plus one padding cell per side, so with
// edge padding and spacing of one cell the left section packs:
// alpha [1,5), beta [6,10), gamma [11,15).
func TestLayoutPlacesLeftSection(t *testing.T) {
	m, _, _, _ := testModel(t)
	require.Contains(t, m.bounds, "alpha")
	assert.Equal(t, 1, m.bounds["alpha"].X)
	assert.Equal(t, 5, m.bounds["alpha"].MaxX())
	assert.Equal(t, 6, m.bounds["beta"].X)
	assert.Equal(t, 11, m.bounds["gamma"].X)
}

func TestClickDispatch(t *testing.T) {
	m, alpha, _, _ := testModel(t)
	m = step(t, m, mouse(2, tea.MouseActionPress, tea.MouseButtonLeft))
	m = step(t, m, mouse(2, tea.MouseActionRelease, tea.MouseButtonLeft))
	assert.Equal(t, 1, alpha.clicks)
	assert.Equal(t, 0, alpha.rclicks)
}

func TestRightClickDispatch(t *testing.T) {
	m, _, beta, _ := testModel(t)
	m = step(t, m, mouse(7, tea.MouseActionPress, tea.MouseButtonRight))
	m = step(t, m, mouse(7, tea.MouseActionRelease, tea.MouseButtonLeft))
	assert.Equal(t, 1, beta.rclicks)
	assert.Equal(t, 0, beta.clicks)
}

// Jitter below the threshold must resolve as a click, not a drag, even
// though the pointer moved.
func TestJitterStaysAClick(t *testing.T) {
	m, alpha, _, _ := testModel(t)
	m = step(t, m, mouse(2, tea.MouseActionPress, tea.MouseButtonLeft))
	m = step(t, m, mouse(7, tea.MouseActionMotion, tea.MouseButtonNone))
	m = step(t, m, mouse(3, tea.MouseActionMotion, tea.MouseButtonNone))
	m = step(t, m, mouse(3, tea.MouseActionRelease, tea.MouseButtonLeft))
	assert.Equal(t, 1, alpha.clicks)

	cfg := m.cfg
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, cfg.Sections.Left)
}

func TestDragReorderCommitsAndSaves(t *testing.T) {
	m, alpha, _, _ := testModel(t)

	m = step(t, m, mouse(2, tea.MouseActionPress, tea.MouseButtonLeft))
	// Crossing the threshold starts the drag; alpha leaves the packing and
	// beta/gamma close ranks at [1,5) and [6,10).
	m = step(t, m, mouse(9, tea.MouseActionMotion, tea.MouseButtonNone))
	assert.NotContains(t, m.bounds, "alpha")
	m = step(t, m, mouse(9, tea.MouseActionRelease, tea.MouseButtonLeft))

	assert.Equal(t, []string{"beta", "gamma", "alpha"}, m.cfg.Sections.Left)
	assert.Zero(t, alpha.clicks, "a completed drag must not also click")

	// The new order must have been persisted.
	saved, err := config.Load(m.cfgPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"beta", "gamma", "alpha"}, saved.Sections.Left)
}

func TestDragToSamePositionIsNoop(t *testing.T) {
	m, _, _, _ := testModel(t)
	m = step(t, m, mouse(2, tea.MouseActionPress, tea.MouseButtonLeft))
	m = step(t, m, mouse(9, tea.MouseActionMotion, tea.MouseButtonNone))
	// Drift back over the origin slot before releasing.
	m = step(t, m, mouse(2, tea.MouseActionMotion, tea.MouseButtonNone))
	m = step(t, m, mouse(2, tea.MouseActionRelease, tea.MouseButtonLeft))

	assert.Equal(t, []string{"alpha", "beta", "gamma"}, m.cfg.Sections.Left)
	_, err := os.Stat(m.cfgPath)
	assert.True(t, os.IsNotExist(err), "a no-op drag must not write the config")
}

func TestWheelDispatch(t *testing.T) {
	m, _, beta, _ := testModel(t)
	m = step(t, m, mouse(7, tea.MouseActionPress, tea.MouseButtonWheelUp))
	m = step(t, m, mouse(7, tea.MouseActionPress, tea.MouseButtonWheelDown))
	assert.Equal(t, []int{1, -1}, beta.scrolls)
}

func TestBlurCancelsDrag(t *testing.T) {
	m, alpha, _, _ := testModel(t)
	m = step(t, m, mouse(2, tea.MouseActionPress, tea.MouseButtonLeft))
	m = step(t, m, mouse(9, tea.MouseActionMotion, tea.MouseButtonNone))
	m = step(t, m, tea.BlurMsg{})
	m = step(t, m, mouse(9, tea.MouseActionRelease, tea.MouseButtonLeft))

	assert.Equal(t, []string{"alpha", "beta", "gamma"}, m.cfg.Sections.Left)
	assert.Zero(t, alpha.clicks)
	// The drag preview is gone; all three modules are placed again.
	assert.Contains(t, m.bounds, "alpha")
}

func TestReloadMsgSwapsConfig(t *testing.T) {
	m, _, _, _ := testModel(t)
	cfg := config.Default()
	cfg.Sections.Left = []string{"gamma", "beta", "alpha"}
	cfg.Sections.Right = nil
	m = step(t, m, ReloadMsg{Config: cfg})

	assert.Equal(t, 1, m.bounds["gamma"].X)
	assert.Equal(t, 6, m.bounds["beta"].X)
}

func TestPressOutsideAnyModuleIsIgnored(t *testing.T) {
	m, alpha, beta, gamma := testModel(t)
	m = step(t, m, mouse(40, tea.MouseActionPress, tea.MouseButtonLeft))
	m = step(t, m, mouse(40, tea.MouseActionRelease, tea.MouseButtonLeft))
	assert.Zero(t, alpha.clicks+beta.clicks+gamma.clicks)
}

func TestViewRendersFrontBuffer(t *testing.T) {
	m, _, _, _ := testModel(t)
	out := m.View()
	assert.Contains(t, out, "aa")
	assert.Contains(t, out, "bb")
	assert.Contains(t, out, "cc")
}
