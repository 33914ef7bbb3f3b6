// Package report prints run progress and results for the console and
// builds markdown summaries.
package report

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/vovakirdan/mirrorhouse/internal/mirror"
)

// PrintBoardInfo prints the board dimensions and mirror count.
func PrintBoardInfo(w io.Writer, b *mirror.Board) {
	fmt.Fprintf(w, ":: Board dimensions: %d by %d, \n", b.W, b.H)
	fmt.Fprintf(w, ":: Mirror count: %d, \n", b.MirrorCount())
}

// PrintLaserInfo prints the entry cell and the axis of the start direction.
func PrintLaserInfo(w io.Writer, beam mirror.Beam) {
	fmt.Fprintf(w, ":: Laser start pos : %v, direction: %v, \n", beam.Pos, beam.Dir.Axis())
}

// PrintStart prints the banner shown before the first step.
func PrintStart(w io.Writer) {
	fmt.Fprintln(w, " ---- STARTING GAME ----")
}

// PrintStep prints one step line.
func PrintStep(w io.Writer, rec mirror.StepRecord) {
	fmt.Fprintln(w, rec.String())
}

// PrintOutcome prints the closing block of a run.
func PrintOutcome(w io.Writer, out mirror.Outcome) {
	switch out.Kind {
	case mirror.OutcomeExited:
		fmt.Fprintln(w, "--------- PUZZLE SOLVED ---------")
		fmt.Fprintf(w, "-- Exit Room : %v\n", out.Pos)
		fmt.Fprintf(w, "-- Exit Direction : %v\n", out.Axis)
	case mirror.OutcomeStepCap:
		fmt.Fprintln(w, "------ STEP LIMIT REACHED ------")
		fmt.Fprintf(w, "-- Last Room : %v\n", out.Pos)
		fmt.Fprintf(w, "-- Direction : %v\n", out.Dir)
		fmt.Fprintf(w, "-- Steps : %d\n", out.Steps)
	}
}

// Printer writes the full console report of a run as it happens.
type Printer struct {
	w     io.Writer
	quiet bool
}

// NewPrinter creates a printer. A quiet printer omits the per-step lines.
func NewPrinter(w io.Writer, quiet bool) *Printer {
	return &Printer{w: w, quiet: quiet}
}

// Run prints the header, runs the beam and prints each step and the
// outcome.
func (p *Printer) Run(b *mirror.Board, beam mirror.Beam, maxSteps int) mirror.Result {
	PrintBoardInfo(p.w, b)
	PrintLaserInfo(p.w, beam)
	PrintStart(p.w)

	var opts []mirror.RunOption
	if !p.quiet {
		opts = append(opts, mirror.WithObserver(func(rec mirror.StepRecord) {
			PrintStep(p.w, rec)
		}))
	}

	res := mirror.Run(b, beam, maxSteps, opts...)
	PrintOutcome(p.w, res.Outcome)
	return res
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// TerminalWidth returns the width of the terminal on f, or fallback.
func TerminalWidth(f *os.File, fallback int) int {
	if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
		return w
	}
	return fallback
}
