package frameset

// Point is a position in tree coordinates.
type Point struct {
	X, Y int
}

// Rect represents a rectangle with integer coordinates.
// X and Y are the top-left corner; Width and Height are dimensions.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Right returns the x-coordinate of the right edge (exclusive).
func (r Rect) Right() int { return r.X + r.Width }

// Bottom returns the y-coordinate of the bottom edge (exclusive).
func (r Rect) Bottom() int { return r.Y + r.Height }

// IsEmpty returns true if the rectangle has zero or negative area.
func (r Rect) IsEmpty() bool { return r.Width <= 0 || r.Height <= 0 }

// Contains returns true if p is inside the rectangle.
// Points on the left and top edges are inside; points on the right and bottom edges are outside.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// Origin returns the top-left corner.
func (r Rect) Origin() Point { return Point{X: r.X, Y: r.Y} }
