package mirror

import "fmt"

// Coord is a cell position on the board. Both axes are 0-indexed and the
// board's far edges (x == W, y == H) are valid cells.
type Coord struct {
	X int
	Y int
}

// C is a convenience constructor for Coord.
func C(x, y int) Coord {
	return Coord{X: x, Y: y}
}

// String formats the coordinate the way the step report prints it.
func (c Coord) String() string {
	return fmt.Sprintf("[%d, %d]", c.X, c.Y)
}

// Add returns a new Coord offset by (dx, dy).
func (c Coord) Add(dx, dy int) Coord {
	return Coord{X: c.X + dx, Y: c.Y + dy}
}

// Step returns the neighbouring Coord one unit in direction d.
func (c Coord) Step(d Dir) Coord {
	dx, dy := d.Delta()
	return c.Add(dx, dy)
}
