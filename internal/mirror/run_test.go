package mirror

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustBoard(t *testing.T, w, h int, specs ...MirrorSpec) *Board {
	t.Helper()
	b, err := NewBoard(w, h, specs)
	require.NoError(t, err)
	return b
}

func mustBeam(t *testing.T, b *Board, entry Coord) Beam {
	t.Helper()
	beam, err := StartBeam(b, entry)
	require.NoError(t, err)
	return beam
}

func TestStepTranslatesWithoutMirror(t *testing.T) {
	b := mustBoard(t, 5, 5)

	tests := []struct {
		dir  Dir
		want Coord
	}{
		{DirUp, C(2, 3)},
		{DirDown, C(2, 1)},
		{DirLeft, C(1, 2)},
		{DirRight, C(3, 2)},
	}

	for _, tc := range tests {
		t.Run(tc.dir.String(), func(t *testing.T) {
			res := Step(b, Beam{Pos: C(2, 2), Dir: tc.dir})
			assert.Equal(t, tc.want, res.Beam.Pos)
			assert.Equal(t, tc.dir, res.Beam.Dir)
			assert.False(t, res.Reflected)
		})
	}
}

func TestStepReflectsBeforeMoving(t *testing.T) {
	b := mustBoard(t, 5, 5, MirrorSpec{Pos: C(2, 2), Code: "L"})

	res := Step(b, Beam{Pos: C(2, 2), Dir: DirRight})
	assert.True(t, res.Reflected)
	assert.Equal(t, Beam{Pos: C(2, 1), Dir: DirDown}, res.Beam)
}

func TestRunEmptyBoardLeftEdge(t *testing.T) {
	b := mustBoard(t, 5, 5)
	beam := mustBeam(t, b, C(0, 2))
	require.Equal(t, DirRight, beam.Dir)

	res := Run(b, beam, DefaultMaxSteps)

	assert.Equal(t, OutcomeExited, res.Outcome.Kind)
	assert.Equal(t, C(5, 2), res.Outcome.Pos)
	assert.Equal(t, AxisHorizontal, res.Outcome.Axis)
	assert.Equal(t, 5, res.Outcome.Steps)
	require.Len(t, res.Trace, 5)
	for i, rec := range res.Trace {
		assert.Equal(t, i+1, rec.Index)
		assert.Equal(t, C(i+1, 2), rec.Pos)
		assert.Equal(t, DirRight, rec.Dir)
	}
}

func TestRunEmptyBoardExitsStraight(t *testing.T) {
	b := mustBoard(t, 6, 4)

	tests := []struct {
		name  string
		entry Coord
		exit  Coord
		steps int
		axis  Axis
	}{
		{"from left", C(0, 1), C(6, 1), 6, AxisHorizontal},
		{"from right", C(6, 3), C(0, 3), 6, AxisHorizontal},
		{"from bottom", C(2, 0), C(2, 4), 4, AxisVertical},
		{"from top", C(5, 4), C(5, 0), 4, AxisVertical},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			beam := mustBeam(t, b, tc.entry)
			res := Run(b, beam, 0)

			assert.Equal(t, OutcomeExited, res.Outcome.Kind)
			assert.Equal(t, tc.exit, res.Outcome.Pos)
			assert.Equal(t, beam.Dir, res.Outcome.Dir, "direction never changes without mirrors")
			assert.Equal(t, tc.axis, res.Outcome.Axis)
			assert.Equal(t, tc.steps, res.Outcome.Steps)
			assert.Equal(t, 0, res.Reflections())
		})
	}
}

func TestRunSingleDualMirror(t *testing.T) {
	b := mustBoard(t, 5, 5, MirrorSpec{Pos: C(2, 2), Code: "L"})
	beam := mustBeam(t, b, C(0, 2))

	res := Run(b, beam, DefaultMaxSteps)

	require.Equal(t, OutcomeExited, res.Outcome.Kind)
	assert.Equal(t, C(2, 0), res.Outcome.Pos)
	assert.Equal(t, DirDown, res.Outcome.Dir)
	assert.Equal(t, AxisVertical, res.Outcome.Axis)

	// Two steps to reach the mirror, two more after turning down.
	want := []StepRecord{
		{Index: 1, Pos: C(1, 2), Dir: DirRight},
		{Index: 2, Pos: C(2, 2), Dir: DirRight},
		{Index: 3, Pos: C(2, 1), Dir: DirDown, Reflected: true},
		{Index: 4, Pos: C(2, 0), Dir: DirDown},
	}
	assert.Equal(t, want, res.Trace)
	assert.Equal(t, 1, res.Reflections())
}

func TestRunSingleSidedMirrorPassesThrough(t *testing.T) {
	// An LL mirror only reflects on its left side; a beam travelling Left
	// hits the gated-out side and must continue unchanged.
	b := mustBoard(t, 5, 5, MirrorSpec{Pos: C(2, 2), Code: "LL"})
	beam := mustBeam(t, b, C(5, 2))
	require.Equal(t, DirLeft, beam.Dir)

	res := Run(b, beam, DefaultMaxSteps)

	require.Equal(t, OutcomeExited, res.Outcome.Kind)
	assert.Equal(t, C(0, 2), res.Outcome.Pos)
	assert.Equal(t, DirLeft, res.Outcome.Dir)
	for _, rec := range res.Trace {
		assert.Equal(t, DirLeft, rec.Dir)
		assert.Equal(t, 2, rec.Pos.Y)
		assert.False(t, rec.Reflected)
	}

	// The same mirror does reflect a beam arriving on its left side.
	res = Run(b, mustBeam(t, b, C(0, 2)), DefaultMaxSteps)
	assert.Equal(t, C(2, 0), res.Outcome.Pos)
	assert.Equal(t, AxisVertical, res.Outcome.Axis)
}

// trapBoard returns a board whose beam is fed into a closed rectangle of
// dual mirrors through a single-sided mirror that is transparent to the
// circulating beam.
func trapBoard(t *testing.T) (*Board, Beam) {
	t.Helper()
	b := mustBoard(t, 4, 4,
		MirrorSpec{Pos: C(2, 1), Code: "LL"},
		MirrorSpec{Pos: C(1, 1), Code: "L"},
		MirrorSpec{Pos: C(1, 3), Code: "R"},
		MirrorSpec{Pos: C(3, 3), Code: "L"},
		MirrorSpec{Pos: C(3, 1), Code: "R"},
	)
	return b, mustBeam(t, b, C(2, 0))
}

func TestRunTrappedBeamHitsStepCap(t *testing.T) {
	b, beam := trapBoard(t)

	for _, maxSteps := range []int{1, 7, 50, 333} {
		res := Run(b, beam, maxSteps)

		assert.Equal(t, OutcomeStepCap, res.Outcome.Kind, "maxSteps=%d", maxSteps)
		assert.Equal(t, maxSteps, res.Outcome.Steps)
		require.Len(t, res.Trace, maxSteps)

		last := res.Trace[len(res.Trace)-1]
		assert.Equal(t, last.Pos, res.Outcome.Pos)
		assert.Equal(t, last.Dir, res.Outcome.Dir)
		assert.False(t, res.Outcome.Solved())
	}
}

func TestRunTrappedBeamCycles(t *testing.T) {
	b, beam := trapBoard(t)
	res := Run(b, beam, 0)

	require.Equal(t, DefaultMaxSteps, res.Outcome.Steps)
	// After entering, the beam repeats the same 8-cell loop.
	for i := 10; i < len(res.Trace); i++ {
		assert.Equal(t, res.Trace[i-8].Pos, res.Trace[i].Pos)
		assert.Equal(t, res.Trace[i-8].Dir, res.Trace[i].Dir)
	}
}

func TestRunDeterministic(t *testing.T) {
	b := mustBoard(t, 8, 6,
		MirrorSpec{Pos: C(3, 2), Code: "R"},
		MirrorSpec{Pos: C(3, 5), Code: "L"},
		MirrorSpec{Pos: C(6, 5), Code: "RL"},
		MirrorSpec{Pos: C(6, 2), Code: "LR"},
	)
	beam := mustBeam(t, b, C(0, 2))

	first := Run(b, beam, 500)
	for i := 0; i < 5; i++ {
		again := Run(b, beam, 500)
		assert.Equal(t, first, again)
	}
}

func TestRunObserverSeesEveryStep(t *testing.T) {
	b := mustBoard(t, 5, 5, MirrorSpec{Pos: C(2, 2), Code: "L"})
	beam := mustBeam(t, b, C(0, 2))

	var seen []StepRecord
	res := Run(b, beam, 0, WithObserver(func(r StepRecord) {
		seen = append(seen, r)
	}))
	assert.Equal(t, res.Trace, seen)

	seen = nil
	res = Run(b, beam, 0, WithoutTrace(), WithObserver(func(r StepRecord) {
		seen = append(seen, r)
	}))
	assert.Empty(t, res.Trace)
	assert.Len(t, seen, 4)
	assert.Equal(t, 4, res.Outcome.Steps)
}

func TestRunExitAfterReflectionOnEdge(t *testing.T) {
	// The mirror sits on the bottom edge; the beam turns down on it and
	// leaves immediately. The exit axis follows the outgoing direction.
	b := mustBoard(t, 4, 4, MirrorSpec{Pos: C(2, 0), Code: "L"})

	res := Run(b, Beam{Pos: C(1, 0), Dir: DirRight}, 0)
	assert.Equal(t, OutcomeExited, res.Outcome.Kind)
	assert.Equal(t, C(2, 0), res.Outcome.Pos)
	assert.Equal(t, DirDown, res.Outcome.Dir)
	assert.Equal(t, AxisVertical, res.Outcome.Axis)
	assert.Equal(t, 1, res.Outcome.Steps)
}

func TestRunnerStateMachine(t *testing.T) {
	b := mustBoard(t, 2, 2)
	beam := mustBeam(t, b, C(0, 1))
	r := NewRunner(b, beam, 0)

	assert.Same(t, b, r.Board())
	assert.Equal(t, StateRunning, r.State())
	assert.Equal(t, DefaultMaxSteps, r.MaxSteps())
	_, done := r.Outcome()
	assert.False(t, done)

	rec, ok := r.Advance()
	require.True(t, ok)
	assert.Equal(t, C(1, 1), rec.Pos)

	rec, ok = r.Advance()
	require.True(t, ok)
	assert.Equal(t, C(2, 1), rec.Pos)

	_, ok = r.Advance()
	assert.False(t, ok)
	assert.Equal(t, StateExited, r.State())

	out, done := r.Outcome()
	require.True(t, done)
	assert.Equal(t, C(2, 1), out.Pos)
	assert.Equal(t, 2, out.Steps)

	// A finished runner stays finished.
	_, ok = r.Advance()
	assert.False(t, ok)
	assert.Equal(t, 2, r.Steps())
	assert.Equal(t, beam, r.Start())
}

func TestRunnerStepCapState(t *testing.T) {
	b, beam := trapBoard(t)
	r := NewRunner(b, beam, 3)

	for i := 0; i < 3; i++ {
		_, ok := r.Advance()
		require.True(t, ok)
	}
	assert.Equal(t, StateStepCapReached, r.State())
	assert.True(t, r.Done())
}

func TestOutcomeKindRoundTrip(t *testing.T) {
	for _, k := range []OutcomeKind{OutcomeExited, OutcomeStepCap} {
		got, err := ParseOutcomeKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	_, err := ParseOutcomeKind("nope")
	assert.Error(t, err)
}
