package render

import "github.com/mattn/go-runewidth"

// Measurer reports the rendered size of a string. Layout depends only on
// this capability, not on any particular rasterizer.
type Measurer interface {
	Measure(s string) (width, height int)
}

// CellMeasurer measures strings in terminal cells, accounting for wide and
// combining runes.
type CellMeasurer struct{}

// Measure implements Measurer. Height is always one cell: module text is a
// single line.
func (CellMeasurer) Measure(s string) (int, int) {
	return runewidth.StringWidth(s), 1
}

// FixedMeasurer measures every rune as one cell. Used in tests where exact
// arithmetic matters more than Unicode fidelity.
type FixedMeasurer struct{}

// Measure implements Measurer.
func (FixedMeasurer) Measure(s string) (int, int) {
	n := 0
	for range s {
		n++
	}
	return n, 1
}
