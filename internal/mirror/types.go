// Package mirror implements the Mirror House beam simulation: board
// geometry, the mirror reflection table, the beam stepping engine and
// the run controller. It is UI-agnostic, deterministic and does no I/O.
package mirror

import "fmt"

// Dir is the direction the beam travels in.
// The board uses a y-up frame: Up increases Y, Down decreases it.
type Dir uint8

const (
	DirUp Dir = iota
	DirRight
	DirDown
	DirLeft
)

// Dirs lists every direction in declaration order.
var Dirs = [...]Dir{DirUp, DirRight, DirDown, DirLeft}

// String returns the upper-case name used in step reports.
func (d Dir) String() string {
	switch d {
	case DirUp:
		return "UP"
	case DirRight:
		return "RIGHT"
	case DirDown:
		return "DOWN"
	case DirLeft:
		return "LEFT"
	default:
		return "UNKNOWN"
	}
}

// Delta returns the (dx, dy) offset for moving one step in this direction.
func (d Dir) Delta() (dx, dy int) {
	switch d {
	case DirUp:
		return 0, 1
	case DirRight:
		return 1, 0
	case DirDown:
		return 0, -1
	case DirLeft:
		return -1, 0
	default:
		return 0, 0
	}
}

// Opposite returns the reverse direction.
func (d Dir) Opposite() Dir {
	switch d {
	case DirUp:
		return DirDown
	case DirRight:
		return DirLeft
	case DirDown:
		return DirUp
	case DirLeft:
		return DirRight
	default:
		return d
	}
}

// Axis returns the axis the direction runs along.
func (d Dir) Axis() Axis {
	if d == DirUp || d == DirDown {
		return AxisVertical
	}
	return AxisHorizontal
}

// ParseDir parses a direction name as printed by Dir.String (case-insensitive).
func ParseDir(s string) (Dir, error) {
	switch s {
	case "UP", "up", "Up":
		return DirUp, nil
	case "RIGHT", "right", "Right":
		return DirRight, nil
	case "DOWN", "down", "Down":
		return DirDown, nil
	case "LEFT", "left", "Left":
		return DirLeft, nil
	}
	return DirUp, fmt.Errorf("mirror: unknown direction %q", s)
}

// Axis is the exit axis reported when the beam leaves the board.
type Axis uint8

const (
	AxisHorizontal Axis = iota
	AxisVertical
)

// String returns the single-letter axis code ("H" or "V").
func (a Axis) String() string {
	if a == AxisVertical {
		return "V"
	}
	return "H"
}

// Lean is the diagonal orientation of a mirror.
type Lean uint8

const (
	LeanLeft  Lean = iota // "L", drawn as '\'
	LeanRight             // "R", drawn as '/'
)

// String returns the lean code letter.
func (l Lean) String() string {
	if l == LeanRight {
		return "R"
	}
	return "L"
}

// Glyph returns the character used to draw the mirror in a y-up frame.
func (l Lean) Glyph() rune {
	if l == LeanRight {
		return '/'
	}
	return '\\'
}

// ReflectMode restricts which side of a mirror reflects.
// The non-reflecting side of a single-sided mirror is transparent.
type ReflectMode uint8

const (
	ReflectDual ReflectMode = iota
	ReflectLeft
	ReflectRight
)

// String returns a human-readable mode name.
func (m ReflectMode) String() string {
	switch m {
	case ReflectLeft:
		return "Left-only"
	case ReflectRight:
		return "Right-only"
	default:
		return "Dual"
	}
}

// side is the gate side a reflection rule requires.
type side uint8

const (
	sideLeft side = iota
	sideRight
)

// allows reports whether a mirror in this mode reflects on the given side.
func (m ReflectMode) allows(s side) bool {
	switch m {
	case ReflectDual:
		return true
	case ReflectLeft:
		return s == sideLeft
	case ReflectRight:
		return s == sideRight
	default:
		return false
	}
}
