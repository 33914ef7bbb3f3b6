package mirror

import "fmt"

// DefaultMaxSteps bounds runs whose beam is trapped in a mirror cycle.
const DefaultMaxSteps = 2000

// StepRecord is a snapshot taken after each in-bounds step.
type StepRecord struct {
	Index     int // 1-based step number
	Pos       Coord
	Dir       Dir
	Reflected bool
}

// String formats the record like the console step report.
func (r StepRecord) String() string {
	return fmt.Sprintf("-- Step %d ::: Position %v, Direction %v", r.Index, r.Pos, r.Dir)
}

// OutcomeKind distinguishes the two terminal outcomes of a run.
type OutcomeKind uint8

const (
	OutcomeExited  OutcomeKind = iota + 1 // beam left the board: the puzzle answer
	OutcomeStepCap                        // step budget exhausted, no answer
)

// String returns a stable lowercase name, used for storage and metrics.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeExited:
		return "exited"
	case OutcomeStepCap:
		return "step_cap"
	default:
		return "unknown"
	}
}

// ParseOutcomeKind is the inverse of OutcomeKind.String.
func ParseOutcomeKind(s string) (OutcomeKind, error) {
	switch s {
	case "exited":
		return OutcomeExited, nil
	case "step_cap":
		return OutcomeStepCap, nil
	}
	return 0, fmt.Errorf("mirror: unknown outcome %q", s)
}

// Outcome is the terminal result of a run.
//
// For OutcomeExited, Pos is the last in-bounds cell and Dir the direction
// that carried the beam off the board. For OutcomeStepCap, Pos and Dir are
// the beam's state after the final step.
type Outcome struct {
	Kind  OutcomeKind
	Pos   Coord
	Dir   Dir
	Axis  Axis
	Steps int
}

// Solved reports whether the beam left the board.
func (o Outcome) Solved() bool {
	return o.Kind == OutcomeExited
}

// RunState is the run controller's state machine state.
type RunState uint8

const (
	StateRunning RunState = iota
	StateExited
	StateStepCapReached
)

// String returns the state name.
func (s RunState) String() string {
	switch s {
	case StateRunning:
		return "Running"
	case StateExited:
		return "ExitedBoard"
	case StateStepCapReached:
		return "StepCapReached"
	default:
		return "Unknown"
	}
}

// progress is the loop state threaded through advance.
type progress struct {
	beam  Beam
	steps int
}

// advance performs one iteration of the run loop. It returns the next
// progress, the record for an in-bounds step, and a terminal outcome
// when the run ends on this iteration.
func advance(b *Board, p progress, maxSteps int) (progress, StepRecord, *Outcome) {
	last := p.beam
	res := Step(b, last)

	if !b.InBounds(res.Beam.Pos) {
		return p, StepRecord{}, &Outcome{
			Kind:  OutcomeExited,
			Pos:   last.Pos,
			Dir:   res.Beam.Dir,
			Axis:  res.Beam.Dir.Axis(),
			Steps: p.steps,
		}
	}

	next := progress{beam: res.Beam, steps: p.steps + 1}
	rec := StepRecord{
		Index:     next.steps,
		Pos:       res.Beam.Pos,
		Dir:       res.Beam.Dir,
		Reflected: res.Reflected,
	}

	if next.steps >= maxSteps {
		return next, rec, &Outcome{
			Kind:  OutcomeStepCap,
			Pos:   res.Beam.Pos,
			Dir:   res.Beam.Dir,
			Axis:  res.Beam.Dir.Axis(),
			Steps: next.steps,
		}
	}
	return next, rec, nil
}

// Runner drives a single run one step at a time. Once it reaches a
// terminal state it stays there; start a new Runner for another run.
type Runner struct {
	board    *Board
	start    Beam
	maxSteps int

	p       progress
	state   RunState
	outcome Outcome
}

// NewRunner creates a runner in the Running state. A non-positive
// maxSteps selects DefaultMaxSteps.
func NewRunner(b *Board, beam Beam, maxSteps int) *Runner {
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}
	return &Runner{
		board:    b,
		start:    beam,
		maxSteps: maxSteps,
		p:        progress{beam: beam},
		state:    StateRunning,
	}
}

// Advance performs one step. It returns the new record and true when the
// beam moved to an in-bounds cell. When the beam exits, or the runner has
// already finished, it returns false.
func (r *Runner) Advance() (StepRecord, bool) {
	if r.state != StateRunning {
		return StepRecord{}, false
	}

	next, rec, out := advance(r.board, r.p, r.maxSteps)
	moved := next.steps != r.p.steps
	r.p = next

	if out != nil {
		r.outcome = *out
		if out.Kind == OutcomeExited {
			r.state = StateExited
		} else {
			r.state = StateStepCapReached
		}
	}
	return rec, moved
}

// State returns the current state.
func (r *Runner) State() RunState {
	return r.state
}

// Done reports whether the run has reached a terminal state.
func (r *Runner) Done() bool {
	return r.state != StateRunning
}

// Beam returns the beam's current state.
func (r *Runner) Beam() Beam {
	return r.p.beam
}

// Start returns the beam the run began with.
func (r *Runner) Start() Beam {
	return r.start
}

// Steps returns the number of in-bounds steps taken so far.
func (r *Runner) Steps() int {
	return r.p.steps
}

// MaxSteps returns the step budget.
func (r *Runner) MaxSteps() int {
	return r.maxSteps
}

// Board returns the board being run.
func (r *Runner) Board() *Board {
	return r.board
}

// Outcome returns the terminal outcome once the run is done.
func (r *Runner) Outcome() (Outcome, bool) {
	return r.outcome, r.Done()
}

// Result holds a finished run.
type Result struct {
	Trace   []StepRecord
	Outcome Outcome
}

// Reflections counts the steps on which a mirror turned the beam.
func (r Result) Reflections() int {
	n := 0
	for _, rec := range r.Trace {
		if rec.Reflected {
			n++
		}
	}
	return n
}

// RunOption configures Run.
type RunOption func(*runOptions)

type runOptions struct {
	observers []func(StepRecord)
	noTrace   bool
}

// WithObserver registers fn to receive every StepRecord as it is produced.
func WithObserver(fn func(StepRecord)) RunOption {
	return func(o *runOptions) {
		if fn != nil {
			o.observers = append(o.observers, fn)
		}
	}
}

// WithoutTrace skips collecting the trace; observers still see each step.
func WithoutTrace() RunOption {
	return func(o *runOptions) {
		o.noTrace = true
	}
}

// Run drives beam across b until it exits or maxSteps steps have been
// taken. Identical inputs always produce identical results.
func Run(b *Board, beam Beam, maxSteps int, opts ...RunOption) Result {
	var o runOptions
	for _, opt := range opts {
		opt(&o)
	}

	r := NewRunner(b, beam, maxSteps)
	var trace []StepRecord
	if !o.noTrace {
		trace = make([]StepRecord, 0, min(r.maxSteps, 64))
	}

	for !r.Done() {
		rec, ok := r.Advance()
		if !ok {
			continue
		}
		if !o.noTrace {
			trace = append(trace, rec)
		}
		for _, fn := range o.observers {
			fn(rec)
		}
	}

	out, _ := r.Outcome()
	return Result{Trace: trace, Outcome: out}
}
