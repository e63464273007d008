package utils

import (
	"bytes"
	"testing"

	V "github.com/andewx/flipsim/vector"
)

func TestScalePositions(t *testing.T) {
	origin := V.Vec3{0, 0, 0}
	pos := []V.Vec3{{1, 0, 0}, {0, 2, 0}, {-1, -1, 0}}

	ScalePositions(pos, origin, 2.0)

	want := []V.Vec3{{2, 0, 0}, {0, 4, 0}, {-2, -2, 0}}
	for i := range pos {
		if !V.Equals(pos[i], want[i]) {
			t.Errorf("index %d: got %s, want %s", i, pos[i].String(), want[i].String())
		}
	}
}

func TestScalePositionsAroundNonZeroOrigin(t *testing.T) {
	origin := V.Vec3{1, 1, 1}
	pos := []V.Vec3{{2, 1, 1}}

	ScalePositions(pos, origin, 3.0)

	want := V.Vec3{4, 1, 1}
	if !V.Equals(pos[0], want) {
		t.Errorf("got %s, want %s", pos[0].String(), want.String())
	}
}

func TestLoggerStepRespectsVerbose(t *testing.T) {
	var quietOut, loudOut bytes.Buffer

	quiet := NewLogger(false)
	quiet.SetOutput(&quietOut)
	quiet.Step("step %d", 1)
	if quietOut.Len() != 0 {
		t.Errorf("a non-verbose logger should not print step banners, got %q", quietOut.String())
	}

	loud := NewLogger(true)
	loud.SetOutput(&loudOut)
	loud.Step("step %d", 1)
	if loudOut.Len() == 0 {
		t.Errorf("a verbose logger should print step banners")
	}
}
