package bar

import (
	"github.com/charmbracelet/lipgloss"

	"topbar/internal/render"
)

// Styles holds the lipgloss styles for every cell role the bar draws.
type Styles struct {
	Text  lipgloss.Style
	Hover lipgloss.Style
	Drag  lipgloss.Style
	Caret lipgloss.Style
	Muted lipgloss.Style
}

// DefaultStyles returns the bar's color scheme.
func DefaultStyles() Styles {
	return Styles{
		Text:  lipgloss.NewStyle(),
		Hover: lipgloss.NewStyle().Reverse(true),
		Drag:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		Caret: lipgloss.NewStyle().Foreground(lipgloss.Color("212")),
		Muted: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

// Map adapts the struct to the render surface's per-style lookup.
func (s Styles) Map() map[render.StyleID]lipgloss.Style {
	return map[render.StyleID]lipgloss.Style{
		render.StyleText:  s.Text,
		render.StyleHover: s.Hover,
		render.StyleDrag:  s.Drag,
		render.StyleCaret: s.Caret,
		render.StyleMuted: s.Muted,
	}
}
