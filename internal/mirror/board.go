package mirror

import (
	"fmt"
	"sort"
)

// Board is an immutable W×H board with its mirror table.
// Valid cells span 0..W and 0..H inclusive, so a board holds
// (W+1)×(H+1) cells. A Board is safe for concurrent readers.
type Board struct {
	W int
	H int

	mirrors         map[Coord]Mirror
	legacyRightGate bool
}

// BoardOption configures a Board at construction time.
type BoardOption func(*Board)

// WithLegacyRightGate makes Right-leaning mirrors gate Right-incoming beams
// on the left side, as the first published puzzle table did.
func WithLegacyRightGate() BoardOption {
	return func(b *Board) {
		b.legacyRightGate = true
	}
}

// NewBoard builds a board and its mirror table. Every MirrorSpec is validated
// up front; a bad code, a duplicate cell or an off-board mirror fails
// with ErrMalformedMirrorSpec.
func NewBoard(w, h int, specs []MirrorSpec, opts ...BoardOption) (*Board, error) {
	if w < 1 || h < 1 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, w, h)
	}

	b := &Board{
		W:       w,
		H:       h,
		mirrors: make(map[Coord]Mirror, len(specs)),
	}
	for _, opt := range opts {
		opt(b)
	}

	for _, spec := range specs {
		input := fmt.Sprintf("%d,%d,%s", spec.Pos.X, spec.Pos.Y, spec.Code)

		lean, mode, err := ParseMirrorCode(spec.Code)
		if err != nil {
			return nil, &SpecError{Line: spec.Line, Input: input, Err: err}
		}
		if !b.InBounds(spec.Pos) {
			return nil, &SpecError{
				Line:  spec.Line,
				Input: input,
				Err:   fmt.Errorf("%w: position outside %dx%d board", ErrMalformedMirrorSpec, w, h),
			}
		}
		if existing, dup := b.mirrors[spec.Pos]; dup {
			return nil, &SpecError{
				Line:  spec.Line,
				Input: input,
				Err:   fmt.Errorf("%w: cell already holds mirror %s", ErrMalformedMirrorSpec, existing.Code()),
			}
		}

		b.mirrors[spec.Pos] = Mirror{Pos: spec.Pos, Lean: lean, Mode: mode}
	}

	return b, nil
}

// InBounds reports whether c lies on the board, edges included.
func (b *Board) InBounds(c Coord) bool {
	return c.X >= 0 && c.X <= b.W && c.Y >= 0 && c.Y <= b.H
}

// MirrorAt returns the mirror at c, if any.
func (b *Board) MirrorAt(c Coord) (Mirror, bool) {
	m, ok := b.mirrors[c]
	return m, ok
}

// MirrorCount returns the number of mirrors on the board.
func (b *Board) MirrorCount() int {
	return len(b.mirrors)
}

// Mirrors returns all mirrors ordered by row then column.
func (b *Board) Mirrors() []Mirror {
	out := make([]Mirror, 0, len(b.mirrors))
	for _, m := range b.mirrors {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Pos.Y != out[j].Pos.Y {
			return out[i].Pos.Y < out[j].Pos.Y
		}
		return out[i].Pos.X < out[j].Pos.X
	})
	return out
}

// LegacyRightGate reports whether the board uses the legacy gate for
// Right-incoming beams on Right-leaning mirrors.
func (b *Board) LegacyRightGate() bool {
	return b.legacyRightGate
}

// Reflect returns the direction a beam at c leaves in after meeting the
// mirror there. Cells without a mirror leave the direction unchanged.
func (b *Board) Reflect(c Coord, in Dir) (Dir, bool) {
	m, ok := b.mirrors[c]
	if !ok {
		return in, false
	}
	return m.reflect(in, b.legacyRightGate)
}

// EntryDir derives the starting direction for a laser entering at c.
// The entry must lie on exactly one edge; corners and interior cells
// fail with ErrInvalidEntryPosition.
func (b *Board) EntryDir(c Coord) (Dir, error) {
	if !b.InBounds(c) {
		return DirUp, fmt.Errorf("%w: %v is off the %dx%d board", ErrInvalidEntryPosition, c, b.W, b.H)
	}

	var dirs []Dir
	if c.X == 0 {
		dirs = append(dirs, DirRight)
	}
	if c.X == b.W {
		dirs = append(dirs, DirLeft)
	}
	if c.Y == 0 {
		dirs = append(dirs, DirUp)
	}
	if c.Y == b.H {
		dirs = append(dirs, DirDown)
	}

	switch len(dirs) {
	case 1:
		return dirs[0], nil
	case 0:
		return DirUp, fmt.Errorf("%w: %v is not on a board edge", ErrInvalidEntryPosition, c)
	default:
		return DirUp, fmt.Errorf("%w: %v lies on %d edges", ErrInvalidEntryPosition, c, len(dirs))
	}
}
