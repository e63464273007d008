// Package geometry implements the triangle-mesh boundary representation
// used for solid collision detection and the solid level set: plane
// projection, barycentric point-in-triangle tests, and a box mesh
// generator, kept close to the teacher's SPH collision library and
// retargeted from float32 to the simulation's float64 vector type.
package geometry

import (
	"fmt"

	Vec "github.com/andewx/flipsim/vector"
)

const (
	// EPSILON guards against degenerate plane-normal divisions.
	EPSILON = 0.00001
)

// Triangle collision depends on clockwise-wound vertices for the default
// (outward) normal convention; InitMesh flips normals inward relative to a
// supplied origin.

type Triangle struct {
	Verts [3]*Vec.Vec3
}

// Mesh is a flat triangle-list mesh: every 3 consecutive Vertexes form one
// triangle, with one Normal per triangle.
type Mesh struct {
	Vertexes []Vec.Vec3
	Normals  []Vec.Vec3
}

func InitTriangle(a, b, c Vec.Vec3) Triangle {
	V := Triangle{}
	V.Verts[0] = &a
	V.Verts[1] = &b
	V.Verts[2] = &c
	return V
}

// InitMesh builds per-triangle normals oriented inward relative to origin —
// the convention the solid level set needs (positive distance = fluid
// side, negative = inside the solid).
func InitMesh(vertices []Vec.Vec3, origin Vec.Vec3) Mesh {
	nMesh := Mesh{}
	nMesh.Vertexes = vertices
	nMesh.Normals = make([]Vec.Vec3, len(vertices)/3)
	for i := 0; i < len(vertices); i += 3 {
		thisTriangle := InitTriangle(vertices[i], vertices[i+1], vertices[i+2])
		n := thisTriangle.Normal()
		v0 := Vec.Sub(vertices[i], origin)
		dv0 := Vec.Dot(n, v0)
		if dv0 > 0 {
			n.Scale(-1.0)
		}
		nMesh.Normals[i/3] = n
	}
	return nMesh
}

func (tri *Triangle) Normal() Vec.Vec3 {
	N := Vec.Cross(Vec.Sub(*tri.Verts[1], *tri.Verts[0]), Vec.Sub(*tri.Verts[2], *tri.Verts[0]))
	return Vec.Normalize(N)
}

// Collision tests whether P projects into the triangle's barycentric
// footprint, returning the barycentric coordinates and a hit flag.
func (t *Triangle) Collision(P *Vec.Vec3) (Vec.Vec3, bool) {
	coord, isBarycentric := t.Barycentric(P)
	return coord, isBarycentric
}

// BarycentricCollision tests whether a particle at P moving with velocity V
// passes within r of the triangle's plane along its direction of travel,
// returning the plane normal, barycentric coords, the plane-projected
// point, and a hit flag.
func (t *Triangle) BarycentricCollision(P, V, n Vec.Vec3, dt, r float64) (Vec.Vec3, Vec.Vec3, Vec.Vec3, bool) {
	if Vec.Length(V) == 0 {
		return n, Vec.Vec3{}, Vec.Vec3{}, false
	}

	t0 := *t.Verts[0]
	v0 := Vec.Sub(t0, P)

	nDotRay := Vec.Dot(n, V)
	if nDotRay == 0 {
		nDotRay = 0.0001
	}

	d := Vec.Dot(v0, n)
	k := d / nDotRay
	p0 := Vec.Add(P, Vec.Scale(V, k))
	dist := Vec.Length(Vec.Sub(P, p0))

	if dist <= r {
		coord, collision := t.Barycentric(&P)
		return n, coord, p0, collision
	}
	return n, Vec.Vec3{}, Vec.Vec3{}, false
}

// SignedDistance returns the distance from p to the triangle's supporting
// plane, signed by the triangle's winding normal (Normal()): positive on
// the side that normal points to. Mesh.SignedDistance flips the sign where
// the winding normal disagrees with the mesh's inward normal, to build the
// solid level set without a full nearest-point search.
func (t *Triangle) SignedDistance(p Vec.Vec3) float64 {
	n := t.Normal()
	v0 := Vec.Sub(p, *t.Verts[0])
	return Vec.Dot(v0, n)
}

// Collision scans every triangle in the mesh (skipping excludeFace, or none
// when excludeFace is -1) and returns the first barycentric hit along with
// its triangle index, for recursive collision-response callers.
func (g *Mesh) Collision(P, V Vec.Vec3, dt, r float64, excludeFace int) (Vec.Vec3, Vec.Vec3, Vec.Vec3, bool, int) {
	VERTS := len(g.Vertexes)

	for i := 0; i < VERTS; i += 3 {
		if i != excludeFace*3 {
			normal := g.Normals[i/3]
			triangle := InitTriangle(g.Vertexes[i], g.Vertexes[i+1], g.Vertexes[i+2])
			fN, coord, p0, c0 := triangle.BarycentricCollision(P, V, normal, dt, r)
			if c0 {
				return fN, coord, p0, true, i / 3
			}
		}
	}
	return Vec.Vec3{}, Vec.Vec3{}, Vec.Vec3{}, false, 0
}

// SignedDistance approximates the mesh's signed distance at p as the
// minimum-magnitude signed distance to any of its triangle planes,
// sufficient for a convex solid (the box scenes this module targets).
// Positive is fluid-side, negative is inside the solid.
func (g *Mesh) SignedDistance(p Vec.Vec3) float64 {
	best := 0.0
	set := false
	for i := 0; i < len(g.Vertexes); i += 3 {
		tri := InitTriangle(g.Vertexes[i], g.Vertexes[i+1], g.Vertexes[i+2])
		d := tri.SignedDistance(p)
		if Vec.Dot(tri.Normal(), g.Normals[i/3]) < 0 {
			d = -d
		}
		if !set || absf(d) < absf(best) {
			best = d
			set = true
		}
	}
	return best
}

func absf(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func (g *Mesh) PrintNormals() {
	fmt.Printf("Printing Triangle Normals: Order is {FRONT, BACK, BOTTOM, TOP,LEFT,RIGHT}\n\n")
	VERTS := len(g.Vertexes)
	for i := 0; i < VERTS; i += 3 {
		fmt.Printf("N: %s\n", g.Normals[i/3].String())
	}
}

// Project returns a copy of t with every vertex projected onto the plane
// with normal N.
func (t *Triangle) Project(N Vec.Vec3) Triangle {
	nTri := Triangle{}
	a := Vec.ProjPlane(*t.Verts[0], N)
	b := Vec.ProjPlane(*t.Verts[1], N)
	c := Vec.ProjPlane(*t.Verts[2], N)
	nTri.Verts[0] = &a
	nTri.Verts[1] = &b
	nTri.Verts[2] = &c
	return nTri
}

// Barycentric computes p's barycentric coordinates relative to t and
// reports whether p lies within the triangle's footprint.
func (t *Triangle) Barycentric(p *Vec.Vec3) (Vec.Vec3, bool) {
	v0 := Vec.Sub(*t.Verts[1], *t.Verts[0])
	v1 := Vec.Sub(*t.Verts[2], *t.Verts[0])
	v2 := Vec.Sub(*p, *t.Verts[0])
	d00 := Vec.Dot(v0, v0)
	d01 := Vec.Dot(v0, v1)
	d11 := Vec.Dot(v1, v1)
	d20 := Vec.Dot(v2, v0)
	d21 := Vec.Dot(v2, v1)
	denom := d00*d11 - d01*d01
	u := (d11*d20 - d01*d21) / denom
	v := (d00*d21 - d01*d20) / denom
	w := 1.0 - v - u
	coord := Vec.Vec3{u, v, w}
	collision := u <= 1.0 && v <= 1.0 && w <= 1.0 && (u+v+w) <= 1.0 && u >= 0 && v >= 0 && w >= 0
	return coord, collision
}

// Box builds a 12-triangle (36-vertex) closed box mesh of width w, height
// h, depth d, centered at o.
func Box(w, h, d float64, o Vec.Vec3) *Mesh {
	var Verts = make([]Vec.Vec3, 12*3)

	x := o[0]
	y := o[1]
	z := o[2]

	p := w / 2
	q := h / 2
	s := d / 2

	//FRONT FACE +Z
	Verts[0] = Vec.Vec3{x - p, y - q, z + s}
	Verts[1] = Vec.Vec3{x - p, y + q, z + s}
	Verts[2] = Vec.Vec3{x + p, y + q, z + s}

	Verts[3] = Vec.Vec3{x + p, y + q, z + s}
	Verts[4] = Vec.Vec3{x + p, y - q, z + s}
	Verts[5] = Vec.Vec3{x - p, y - q, z + s}

	//BACK FACE -Z
	Verts[6] = Vec.Vec3{x - p, y - q, z - s}
	Verts[7] = Vec.Vec3{x - p, y + q, z - s}
	Verts[8] = Vec.Vec3{x + p, y - q, z - s}

	Verts[9] = Vec.Vec3{x - p, y + q, z - s}
	Verts[10] = Vec.Vec3{x + p, y + q, z - s}
	Verts[11] = Vec.Vec3{x + p, y - q, z - s}

	//BOTTOM FACE -Y
	Verts[12] = Vec.Vec3{x - p, y - q, z + s}
	Verts[13] = Vec.Vec3{x - p, y - q, z - s}
	Verts[14] = Vec.Vec3{x + p, y - q, z - s}

	Verts[15] = Vec.Vec3{x - p, y - q, z + s}
	Verts[16] = Vec.Vec3{x + p, y - q, z - s}
	Verts[17] = Vec.Vec3{x + p, y - q, z + s}

	//TOP FACE +Y
	Verts[18] = Vec.Vec3{x - p, y + q, z + s}
	Verts[19] = Vec.Vec3{x - p, y + q, z - s}
	Verts[20] = Vec.Vec3{x + p, y + q, z - s}

	Verts[21] = Vec.Vec3{x + p, y + q, z - s}
	Verts[22] = Vec.Vec3{x + p, y + q, z + s}
	Verts[23] = Vec.Vec3{x - p, y + q, z + s}

	//LEFT FACE -X
	Verts[24] = Vec.Vec3{x - p, y - q, z + s}
	Verts[25] = Vec.Vec3{x - p, y - q, z - s}
	Verts[26] = Vec.Vec3{x - p, y + q, z + s}

	Verts[27] = Vec.Vec3{x - p, y - q, z - s}
	Verts[28] = Vec.Vec3{x - p, y + q, z - s}
	Verts[29] = Vec.Vec3{x - p, y + q, z + s}

	//RIGHT FACE +X
	Verts[30] = Vec.Vec3{x + p, y + q, z + s}
	Verts[31] = Vec.Vec3{x + p, y - q, z + s}
	Verts[32] = Vec.Vec3{x + p, y - q, z - s}

	Verts[33] = Vec.Vec3{x + p, y + q, z + s}
	Verts[34] = Vec.Vec3{x + p, y + q, z - s}
	Verts[35] = Vec.Vec3{x + p, y - q, z - s}

	boxMesh := InitMesh(Verts, o)
	return &boxMesh
}
