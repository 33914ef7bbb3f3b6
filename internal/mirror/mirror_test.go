package mirror

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMirrorCode(t *testing.T) {
	tests := []struct {
		code    string
		lean    Lean
		mode    ReflectMode
		wantErr bool
	}{
		{"L", LeanLeft, ReflectDual, false},
		{"R", LeanRight, ReflectDual, false},
		{"LL", LeanLeft, ReflectLeft, false},
		{"LR", LeanLeft, ReflectRight, false},
		{"RL", LeanRight, ReflectLeft, false},
		{"RR", LeanRight, ReflectRight, false},
		{"", 0, 0, true},
		{"X", 0, 0, true},
		{"LX", 0, 0, true},
		{"LLL", 0, 0, true},
		{"l", 0, 0, true},
	}

	for _, tc := range tests {
		t.Run(tc.code, func(t *testing.T) {
			lean, mode, err := ParseMirrorCode(tc.code)
			if tc.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrMalformedMirrorSpec)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.lean, lean)
			assert.Equal(t, tc.mode, mode)
		})
	}
}

func TestParseMirrorLine(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    MirrorSpec
		wantErr bool
	}{
		{"comma form", "2,3,RL", MirrorSpec{Pos: C(2, 3), Code: "RL"}, false},
		{"compact form", "3,2RL", MirrorSpec{Pos: C(3, 2), Code: "RL"}, false},
		{"single letter", "0,4,L", MirrorSpec{Pos: C(0, 4), Code: "L"}, false},
		{"surrounding spaces", "  1, 1, R ", MirrorSpec{Pos: C(1, 1), Code: "R"}, false},
		{"negative", "-1,2,L", MirrorSpec{}, true},
		{"missing code", "1,2", MirrorSpec{}, true},
		{"lowercase", "1,2,l", MirrorSpec{}, true},
		{"unknown lean", "1,2,Q", MirrorSpec{}, true},
		{"three letters", "1,2,LRL", MirrorSpec{}, true},
		{"garbage", "mirror", MirrorSpec{}, true},
		{"space inside x", "1 2,3,L", MirrorSpec{}, true},
		{"space inside y", "1,2 3,L", MirrorSpec{}, true},
		{"space inside code", "1,2,L L", MirrorSpec{}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseMirrorLine(tc.line)
			if tc.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrMalformedMirrorSpec)
				var specErr *SpecError
				assert.True(t, errors.As(err, &specErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestReflectTable(t *testing.T) {
	tests := []struct {
		code      string
		in        Dir
		out       Dir
		reflected bool
	}{
		// Dual left-leaning
		{"L", DirUp, DirLeft, true},
		{"L", DirDown, DirRight, true},
		{"L", DirRight, DirDown, true},
		{"L", DirLeft, DirUp, true},
		// Dual right-leaning
		{"R", DirUp, DirRight, true},
		{"R", DirDown, DirLeft, true},
		{"R", DirRight, DirUp, true},
		{"R", DirLeft, DirDown, true},
		// Left-leaning, left side only
		{"LL", DirUp, DirLeft, true},
		{"LL", DirRight, DirDown, true},
		{"LL", DirDown, DirDown, false},
		{"LL", DirLeft, DirLeft, false},
		// Left-leaning, right side only
		{"LR", DirDown, DirRight, true},
		{"LR", DirLeft, DirUp, true},
		{"LR", DirUp, DirUp, false},
		{"LR", DirRight, DirRight, false},
		// Right-leaning, left side only
		{"RL", DirDown, DirLeft, true},
		{"RL", DirUp, DirUp, false},
		{"RL", DirRight, DirRight, false},
		{"RL", DirLeft, DirLeft, false},
		// Right-leaning, right side only
		{"RR", DirUp, DirRight, true},
		{"RR", DirRight, DirUp, true},
		{"RR", DirLeft, DirDown, true},
		{"RR", DirDown, DirDown, false},
	}

	for _, tc := range tests {
		t.Run(tc.code+"/"+tc.in.String(), func(t *testing.T) {
			lean, mode, err := ParseMirrorCode(tc.code)
			require.NoError(t, err)
			m := Mirror{Lean: lean, Mode: mode}

			out, reflected := m.Reflect(tc.in)
			assert.Equal(t, tc.out, out)
			assert.Equal(t, tc.reflected, reflected)
		})
	}
}

func TestReflectLegacyRightGate(t *testing.T) {
	b, err := NewBoard(4, 4, []MirrorSpec{
		{Pos: C(1, 1), Code: "RL"},
		{Pos: C(2, 2), Code: "RR"},
	}, WithLegacyRightGate())
	require.NoError(t, err)
	assert.True(t, b.LegacyRightGate())

	out, reflected := b.Reflect(C(1, 1), DirRight)
	assert.True(t, reflected, "legacy table reflects Right on a left-gated R mirror")
	assert.Equal(t, DirUp, out)

	out, reflected = b.Reflect(C(2, 2), DirRight)
	assert.False(t, reflected, "legacy table passes Right through a right-gated R mirror")
	assert.Equal(t, DirRight, out)

	// The other directions are unaffected by the legacy gate.
	out, reflected = b.Reflect(C(2, 2), DirUp)
	assert.True(t, reflected)
	assert.Equal(t, DirRight, out)
}

func TestDualReflectionSymmetry(t *testing.T) {
	for _, lean := range []Lean{LeanLeft, LeanRight} {
		m := Mirror{Lean: lean, Mode: ReflectDual}
		for _, in := range Dirs {
			out, reflected := m.Reflect(in)
			require.True(t, reflected, "dual mirror must reflect %v", in)
			assert.NotEqual(t, in.Axis(), out.Axis(), "reflection turns by 90 degrees")

			back, _ := m.Reflect(out.Opposite())
			assert.Equal(t, in.Opposite(), back, "lean %v: reversing %v -> %v", lean, in, out)
		}
	}
}

func TestMirrorCode(t *testing.T) {
	for _, code := range []string{"L", "R", "LL", "LR", "RL", "RR"} {
		lean, mode, err := ParseMirrorCode(code)
		require.NoError(t, err)
		assert.Equal(t, code, Mirror{Lean: lean, Mode: mode}.Code())
	}
}
