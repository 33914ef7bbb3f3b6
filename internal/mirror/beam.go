package mirror

import "fmt"

// Beam is the beam's position and heading. It is a plain value; the step
// counter belongs to the run controller.
type Beam struct {
	Pos Coord
	Dir Dir
}

// String returns e.g. "[0, 2] RIGHT".
func (b Beam) String() string {
	return fmt.Sprintf("%v %v", b.Pos, b.Dir)
}

// StepResult is the outcome of a single beam advance.
type StepResult struct {
	Beam      Beam
	Reflected bool // the mirror on the starting cell turned the beam
}

// StartBeam places a beam on its entry cell, heading into the board from
// the edge the cell lies on.
func StartBeam(b *Board, entry Coord) (Beam, error) {
	dir, err := b.EntryDir(entry)
	if err != nil {
		return Beam{}, err
	}
	return Beam{Pos: entry, Dir: dir}, nil
}

// Step advances the beam one cell: it first reflects off the mirror on its
// current cell, if any, and then moves one unit in the resulting direction.
// Step is pure; the result may lie off the board.
func Step(b *Board, s Beam) StepResult {
	dir, reflected := b.Reflect(s.Pos, s.Dir)
	return StepResult{
		Beam:      Beam{Pos: s.Pos.Step(dir), Dir: dir},
		Reflected: reflected,
	}
}
