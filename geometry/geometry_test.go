package geometry

import (
	"testing"

	"github.com/andewx/flipsim/vector"
)

func TestTriangleBarycentric(t *testing.T) {
	V0 := vector.Vec3{0, 0, 0}
	V1 := vector.Vec3{-1, 0, -2}
	V2 := vector.Vec3{-1, 1, -1}
	P1 := vector.Vec3{-0.5, 0, -0.5}

	tri := InitTriangle(V0, V1, V2)

	coords, isCollision := tri.Barycentric(&P1)
	if !isCollision {
		t.Errorf("expected P1 to fall inside the triangle's barycentric footprint, got coords %s", coords.String())
	}

	outside := vector.Vec3{5, 5, 5}
	if _, hit := tri.Barycentric(&outside); hit {
		t.Errorf("expected a far-away point to miss the triangle")
	}
}

func TestBoxMeshNormalsPointInward(t *testing.T) {
	origin := vector.Vec3{0, 0, 0}
	box := Box(2, 2, 2, origin)

	if len(box.Vertexes) != 36 {
		t.Fatalf("expected 36 vertices (12 triangles), got %d", len(box.Vertexes))
	}
	if len(box.Normals) != 12 {
		t.Fatalf("expected 12 triangle normals, got %d", len(box.Normals))
	}

	for i, n := range box.Normals {
		v0 := box.Vertexes[i*3]
		toOrigin := vector.Sub(origin, v0)
		if vector.Dot(n, toOrigin) < 0 {
			t.Errorf("triangle %d normal %s does not point toward the box interior", i, n.String())
		}
	}
}

func TestMeshSignedDistance(t *testing.T) {
	origin := vector.Vec3{0, 0, 0}
	box := Box(2, 2, 2, origin)

	inside := box.SignedDistance(origin)
	if inside <= 0 {
		t.Errorf("expected the box center to have positive (fluid-side) signed distance, got %f", inside)
	}

	outside := box.SignedDistance(vector.Vec3{10, 10, 10})
	if outside >= 0 {
		t.Errorf("expected a point far outside the box to have negative signed distance, got %f", outside)
	}
}
