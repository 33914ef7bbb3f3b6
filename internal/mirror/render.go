package mirror

import "strings"

// CellKind classifies a rendered cell so front-ends can style it.
type CellKind uint8

const (
	CellEmpty CellKind = iota
	CellTrail
	CellMirror
	CellMirrorSided // single-sided mirror
	CellEntry
	CellBeam
)

// RenderCell is one character of a rendered board.
type RenderCell struct {
	Rune rune
	Kind CellKind
}

// View describes what to draw on top of the board.
type View struct {
	Entry *Coord       // laser entry cell, if known
	Trail []StepRecord // cells the beam has visited
	Beam  *Beam        // current beam head, if running
}

// RenderGrid draws the board as rows of cells, top row first. Because the
// board is y-up, row 0 holds y == H. Mirrors are drawn as '\' (L) and
// '/' (R), trail cells as '-' or '|', and the beam head as an arrow.
func RenderGrid(b *Board, v View) [][]RenderCell {
	rows := make([][]RenderCell, b.H+1)
	for i := range rows {
		row := make([]RenderCell, b.W+1)
		for x := range row {
			row[x] = RenderCell{Rune: '.', Kind: CellEmpty}
		}
		rows[i] = row
	}

	set := func(c Coord, cell RenderCell) {
		if !b.InBounds(c) {
			return
		}
		rows[b.H-c.Y][c.X] = cell
	}

	for _, rec := range v.Trail {
		r := '-'
		if rec.Dir.Axis() == AxisVertical {
			r = '|'
		}
		set(rec.Pos, RenderCell{Rune: r, Kind: CellTrail})
	}

	if v.Entry != nil {
		set(*v.Entry, RenderCell{Rune: 'o', Kind: CellEntry})
	}

	for _, m := range b.mirrors {
		kind := CellMirror
		if m.Mode != ReflectDual {
			kind = CellMirrorSided
		}
		set(m.Pos, RenderCell{Rune: m.Lean.Glyph(), Kind: kind})
	}

	if v.Beam != nil {
		set(v.Beam.Pos, RenderCell{Rune: arrow(v.Beam.Dir), Kind: CellBeam})
	}

	return rows
}

// RenderASCII returns the board as plain text, one line per row.
func RenderASCII(b *Board, v View) string {
	var sb strings.Builder
	for i, row := range RenderGrid(b, v) {
		if i > 0 {
			sb.WriteByte('\n')
		}
		for _, cell := range row {
			sb.WriteRune(cell.Rune)
		}
	}
	return sb.String()
}

func arrow(d Dir) rune {
	switch d {
	case DirUp:
		return '^'
	case DirRight:
		return '>'
	case DirDown:
		return 'v'
	case DirLeft:
		return '<'
	default:
		return '*'
	}
}
