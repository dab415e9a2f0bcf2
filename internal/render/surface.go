// Package render owns the bar's drawing surfaces. Layout draws into an
// off-screen cell buffer; the finished frame is copied to the visible buffer
// in one step so a partially drawn frame is never shown.
package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// StyleID selects one of the bar's cell styles.
type StyleID uint8

const (
	StyleNone StyleID = iota
	StyleText
	StyleHover
	StyleDrag
	StyleCaret
	StyleMuted
)

// Cell is one character cell of a surface.
type Cell struct {
	Rune  rune
	Style StyleID
}

// Surface is a fixed-size grid of cells.
type Surface struct {
	width  int
	height int
	cells  []Cell
}

// NewSurface allocates a cleared surface.
func NewSurface(width, height int) *Surface {
	s := &Surface{}
	s.Resize(width, height)
	return s
}

// Width returns the surface width in cells.
func (s *Surface) Width() int { return s.width }

// Height returns the surface height in cells.
func (s *Surface) Height() int { return s.height }

// Resize reallocates the surface. Contents are cleared.
func (s *Surface) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	s.width = width
	s.height = height
	s.cells = make([]Cell, width*height)
	s.Clear()
}

// Clear resets every cell to a blank.
func (s *Surface) Clear() {
	for i := range s.cells {
		s.cells[i] = Cell{Rune: ' ', Style: StyleNone}
	}
}

// Set writes a single cell. Writes outside the surface are discarded.
func (s *Surface) Set(x, y int, c Cell) {
	if x < 0 || y < 0 || x >= s.width || y >= s.height {
		return
	}
	s.cells[y*s.width+x] = c
}

// At returns the cell at (x, y), or a blank for out-of-range coordinates.
func (s *Surface) At(x, y int) Cell {
	if x < 0 || y < 0 || x >= s.width || y >= s.height {
		return Cell{Rune: ' ', Style: StyleNone}
	}
	return s.cells[y*s.width+x]
}

// DrawText writes text starting at (x, y), clipping at the surface edges.
// Wide runes occupy two cells; the trailing cell is left blank in the same
// style so widths stay consistent with Measure.
func (s *Surface) DrawText(x, y int, text string, style StyleID) {
	cx := x
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		s.Set(cx, y, Cell{Rune: r, Style: style})
		if w == 2 {
			s.Set(cx+1, y, Cell{Rune: 0, Style: style})
		}
		cx += w
	}
}

// DrawHLine draws a horizontal run of the given rune.
func (s *Surface) DrawHLine(x, y, length int, r rune, style StyleID) {
	for i := 0; i < length; i++ {
		s.Set(x+i, y, Cell{Rune: r, Style: style})
	}
}

// CopyFrom replaces this surface's contents with src. Both surfaces must
// have the same dimensions; mismatched copies resize the destination first.
func (s *Surface) CopyFrom(src *Surface) {
	if s.width != src.width || s.height != src.height {
		s.Resize(src.width, src.height)
	}
	copy(s.cells, src.cells)
}

// Render flattens the surface to a styled string, one line per row. Adjacent
// cells with the same style are emitted as one styled run.
func (s *Surface) Render(styles map[StyleID]lipgloss.Style) string {
	var out strings.Builder
	for y := 0; y < s.height; y++ {
		if y > 0 {
			out.WriteByte('\n')
		}
		var run strings.Builder
		runStyle := StyleNone
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if st, ok := styles[runStyle]; ok {
				out.WriteString(st.Render(run.String()))
			} else {
				out.WriteString(run.String())
			}
			run.Reset()
		}
		for x := 0; x < s.width; x++ {
			c := s.cells[y*s.width+x]
			if c.Rune == 0 {
				continue // continuation of a wide rune
			}
			if c.Style != runStyle {
				flush()
				runStyle = c.Style
			}
			run.WriteRune(c.Rune)
		}
		flush()
	}
	return out.String()
}
