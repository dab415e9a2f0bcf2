// Package geometry provides the cell-based value types the bar is laid out
// in: points and half-open rectangles. Rectangles are recomputed every frame
// and never persisted.
package geometry

// Point is a position in bar cells.
type Point struct {
	X int
	Y int
}

// Rect is an axis-aligned rectangle. It is half-open: the left and top edges
// are inside, the right and bottom edges are outside.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// NewRect constructs a Rect.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, Width: w, Height: h}
}

// Contains reports whether p lies inside r using the half-open convention.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width &&
		p.Y >= r.Y && p.Y < r.Y+r.Height
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// MaxX returns the first x coordinate outside the rectangle.
func (r Rect) MaxX() int {
	return r.X + r.Width
}

// MaxY returns the first y coordinate outside the rectangle.
func (r Rect) MaxY() int {
	return r.Y + r.Height
}

// MidX returns the horizontal midpoint, rounded down.
func (r Rect) MidX() int {
	return r.X + r.Width/2
}

// Intersection returns the overlap of r and o, or an empty Rect when they
// do not overlap.
func (r Rect) Intersection(o Rect) Rect {
	x0 := max(r.X, o.X)
	y0 := max(r.Y, o.Y)
	x1 := min(r.MaxX(), o.MaxX())
	y1 := min(r.MaxY(), o.MaxY())
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}
