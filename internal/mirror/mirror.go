package mirror

import (
	"fmt"
	"regexp"
	"strconv"
)

// MirrorSpec is an unvalidated mirror definition as read from a board file.
type MirrorSpec struct {
	Pos  Coord
	Code string // "L", "R", "LL", "LR", "RL" or "RR"
	Line int    // source line for error reporting, 0 if unknown
}

// Mirror is a single-cell diagonal mirror. Values are immutable once built.
type Mirror struct {
	Pos  Coord
	Lean Lean
	Mode ReflectMode
}

// Code returns the one- or two-letter code the mirror was built from.
func (m Mirror) Code() string {
	switch m.Mode {
	case ReflectLeft:
		return m.Lean.String() + "L"
	case ReflectRight:
		return m.Lean.String() + "R"
	default:
		return m.Lean.String()
	}
}

// String returns a compact description such as "RL@(3,4)".
func (m Mirror) String() string {
	return fmt.Sprintf("%s@(%d,%d)", m.Code(), m.Pos.X, m.Pos.Y)
}

// Reflect returns the outgoing direction for a beam arriving in direction
// in, and whether the mirror changed it. Uses the symmetric gate table.
func (m Mirror) Reflect(in Dir) (Dir, bool) {
	return m.reflect(in, false)
}

// reflect applies the gated decision table:
//
//	incoming  Lean=L            Lean=R
//	Up        Left  (gate L)    Right (gate R)
//	Down      Right (gate R)    Left  (gate L)
//	Right     Down  (gate L)    Up    (gate R, legacy gate L)
//	Left      Up    (gate R)    Down  (gate R)
//
// A Dual mirror passes every gate.
func (m Mirror) reflect(in Dir, legacyRightGate bool) (Dir, bool) {
	var out Dir
	var gate side

	switch in {
	case DirUp:
		if m.Lean == LeanLeft {
			out, gate = DirLeft, sideLeft
		} else {
			out, gate = DirRight, sideRight
		}
	case DirDown:
		if m.Lean == LeanLeft {
			out, gate = DirRight, sideRight
		} else {
			out, gate = DirLeft, sideLeft
		}
	case DirRight:
		if m.Lean == LeanLeft {
			out, gate = DirDown, sideLeft
		} else {
			out, gate = DirUp, sideRight
			if legacyRightGate {
				gate = sideLeft
			}
		}
	case DirLeft:
		if m.Lean == LeanLeft {
			out, gate = DirUp, sideRight
		} else {
			out, gate = DirDown, sideRight
		}
	default:
		return in, false
	}

	if !m.Mode.allows(gate) {
		return in, false
	}
	return out, true
}

// ParseMirrorCode decodes a mirror code into its lean and reflect mode.
func ParseMirrorCode(code string) (Lean, ReflectMode, error) {
	if len(code) < 1 || len(code) > 2 {
		return LeanLeft, ReflectDual, fmt.Errorf("%w: code %q must be one or two letters", ErrMalformedMirrorSpec, code)
	}

	var lean Lean
	switch code[0] {
	case 'L':
		lean = LeanLeft
	case 'R':
		lean = LeanRight
	default:
		return LeanLeft, ReflectDual, fmt.Errorf("%w: unknown lean %q", ErrMalformedMirrorSpec, code[0])
	}

	if len(code) == 1 {
		return lean, ReflectDual, nil
	}

	switch code[1] {
	case 'L':
		return lean, ReflectLeft, nil
	case 'R':
		return lean, ReflectRight, nil
	default:
		return LeanLeft, ReflectDual, fmt.Errorf("%w: unknown reflect side %q", ErrMalformedMirrorSpec, code[1])
	}
}

// posDirPattern matches "x,y,CODE". The comma before CODE is optional so the
// compact "3,2RL" form is accepted as well.
var posDirPattern = regexp.MustCompile(`^\s*(\d+)\s*,\s*(\d+)\s*,?\s*([A-Z]{1,2})\s*$`)

// ParsePosCode splits a "x,y,CODE" line into its position and code.
// Whitespace around fields is ignored; whitespace inside a number is not.
func ParsePosCode(line string) (Coord, string, error) {
	parts := posDirPattern.FindStringSubmatch(line)
	if parts == nil {
		return Coord{}, "", fmt.Errorf("%w: expected x,y,CODE", ErrMalformedMirrorSpec)
	}

	x, err := strconv.Atoi(parts[1])
	if err != nil {
		return Coord{}, "", fmt.Errorf("%w: x: %v", ErrMalformedMirrorSpec, err)
	}
	y, err := strconv.Atoi(parts[2])
	if err != nil {
		return Coord{}, "", fmt.Errorf("%w: y: %v", ErrMalformedMirrorSpec, err)
	}
	return C(x, y), parts[3], nil
}

// ParseMirrorLine parses a mirror line such as "2,3,RL".
// The code is checked against the mirror grammar here so bad lines fail
// at load time rather than when the board is built.
func ParseMirrorLine(line string) (MirrorSpec, error) {
	pos, code, err := ParsePosCode(line)
	if err != nil {
		return MirrorSpec{}, &SpecError{Input: line, Err: err}
	}
	if _, _, err := ParseMirrorCode(code); err != nil {
		return MirrorSpec{}, &SpecError{Input: line, Err: err}
	}
	return MirrorSpec{Pos: pos, Code: code}, nil
}
