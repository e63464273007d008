package vector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddSub(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{4, 5, 6}

	sum := Add(a, b)
	assert.Equal(t, Vec3{5, 7, 9}, sum, "component-wise add")

	diff := Sub(sum, b)
	assert.Equal(t, a, diff, "subtracting back recovers original")
}

func TestDotCross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}

	assert.Equal(t, 0.0, Dot(x, y), "orthogonal vectors have zero dot")
	assert.Equal(t, Vec3{0, 0, 1}, Cross(x, y), "x cross y is z")
}

func TestNormalize(t *testing.T) {
	v := Vec3{3, 4, 0}
	n := Normalize(v)
	assert.InDelta(t, 1.0, Length(n), 1e-9, "normalized vector has unit length")

	zero := Normalize(Vec3{})
	assert.Equal(t, Vec3{}, zero, "normalizing the zero vector returns zero, not NaN")
}

func TestReflect(t *testing.T) {
	v := Vec3{1, -1, 0}
	n := Vec3{0, 1, 0}
	r := Reflect(n, v)
	assert.InDelta(t, 1.0, r[0], 1e-9)
	assert.InDelta(t, 1.0, r[1], 1e-9)
	assert.InDelta(t, 0.0, r[2], 1e-9)
}

func TestClamp(t *testing.T) {
	v := Vec3{-1, 0.5, 2}
	c := Clamp(v, Splat(0), Splat(1))
	assert.Equal(t, Vec3{0, 0.5, 1}, c)
}
