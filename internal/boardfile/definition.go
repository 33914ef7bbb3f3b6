// Package boardfile loads Mirror House board descriptions from disk.
// It depends on mirror, but mirror never depends on boardfile.
package boardfile

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/vovakirdan/mirrorhouse/internal/mirror"
)

// ErrMalformedBoard is returned when a description is structurally broken:
// missing sections, a bad dimension line or a bad entry line.
var ErrMalformedBoard = errors.New("malformed board description")

// ErrBoardNotFound is returned by Loader.LoadByID for an unknown ID.
var ErrBoardNotFound = errors.New("board not found")

// EntrySpec is the laser entry as written in the board file.
type EntrySpec struct {
	Pos  mirror.Coord
	Code string // optional; not used to derive the direction
	Line int
}

// Definition is a parsed, not yet validated, board description.
type Definition struct {
	ID       string
	Name     string
	Width    int
	Height   int
	Mirrors  []mirror.MirrorSpec
	Entry    EntrySpec
	Metadata map[string]string
	FilePath string
}

// Board builds the immutable board described by d.
func (d Definition) Board(opts ...mirror.BoardOption) (*mirror.Board, error) {
	return mirror.NewBoard(d.Width, d.Height, d.Mirrors, opts...)
}

// Build constructs the board and places the beam on its entry cell.
// Any failure means the run must not start.
func (d Definition) Build(opts ...mirror.BoardOption) (*mirror.Board, mirror.Beam, error) {
	b, err := d.Board(opts...)
	if err != nil {
		return nil, mirror.Beam{}, err
	}

	beam, err := mirror.StartBeam(b, d.Entry.Pos)
	if err != nil {
		return nil, mirror.Beam{}, &mirror.SpecError{
			Line:  d.Entry.Line,
			Input: entryLine(d.Entry),
			Err:   err,
		}
	}
	return b, beam, nil
}

// Title returns the display name, falling back to the ID.
func (d Definition) Title() string {
	if d.Name != "" {
		return d.Name
	}
	return d.ID
}

// Hash returns a stable digest of the board content. Two definitions that
// describe the same board hash equally regardless of mirror order, ID or
// source format.
func (d Definition) Hash() string {
	sum := sha256.Sum256([]byte(Format(d.canonical())))
	return hex.EncodeToString(sum[:])
}

func (d Definition) canonical() Definition {
	c := d
	c.Mirrors = append([]mirror.MirrorSpec(nil), d.Mirrors...)
	sort.Slice(c.Mirrors, func(i, j int) bool {
		a, b := c.Mirrors[i], c.Mirrors[j]
		if a.Pos.Y != b.Pos.Y {
			return a.Pos.Y < b.Pos.Y
		}
		if a.Pos.X != b.Pos.X {
			return a.Pos.X < b.Pos.X
		}
		return a.Code < b.Code
	})
	return c
}

// Format renders d in the section-delimited text format.
func Format(d Definition) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d,%d\n", d.Width, d.Height)
	sb.WriteString(sectionSeparator + "\n")
	for _, m := range d.Mirrors {
		fmt.Fprintf(&sb, "%d,%d,%s\n", m.Pos.X, m.Pos.Y, m.Code)
	}
	sb.WriteString(sectionSeparator + "\n")
	sb.WriteString(entryLine(d.Entry) + "\n")
	sb.WriteString(sectionSeparator + "\n")
	return sb.String()
}

func entryLine(e EntrySpec) string {
	if e.Code == "" {
		return fmt.Sprintf("%d,%d", e.Pos.X, e.Pos.Y)
	}
	return fmt.Sprintf("%d,%d,%s", e.Pos.X, e.Pos.Y, e.Code)
}
