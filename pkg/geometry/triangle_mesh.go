package geometry

import (
	"fmt"
	"sort"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
	"github.com/df07/go-bvh-pathtracer/pkg/material"
)

// TriangleMesh is a set of triangles sharing one material, intersected through
// its own BVH and treated as a single primitive by the scene.
type TriangleMesh struct {
	triangles []*Triangle
	bvh       *BVH
	mat       material.Material
	area      float64
	areaCDF   []float64 // areaCDF[i] = total area of triangles[0..i]
}

// NewTriangleMesh creates a new triangle mesh from vertices and face indices.
// Each group of 3 indices in faces forms one triangle.
func NewTriangleMesh(vertices []core.Vec3, faces []int, mat material.Material) (*TriangleMesh, error) {
	if len(faces)%3 != 0 {
		return nil, fmt.Errorf("geometry: face index count %d is not a multiple of 3", len(faces))
	}

	numTriangles := len(faces) / 3
	triangles := make([]*Triangle, numTriangles)
	prims := make([]Primitive, numTriangles)
	cdf := make([]float64, numTriangles)
	area := 0.0

	for i := 0; i < numTriangles; i++ {
		i0, i1, i2 := faces[i*3], faces[i*3+1], faces[i*3+2]
		for _, idx := range []int{i0, i1, i2} {
			if idx < 0 || idx >= len(vertices) {
				return nil, fmt.Errorf("geometry: face %d references vertex %d of %d", i, idx, len(vertices))
			}
		}

		tri := NewTriangle(vertices[i0], vertices[i1], vertices[i2], mat)
		triangles[i] = tri
		prims[i] = tri
		area += tri.Area()
		cdf[i] = area
	}

	return &TriangleMesh{
		triangles: triangles,
		bvh:       NewBVH(prims, 1, SplitMidpoint),
		mat:       mat,
		area:      area,
		areaCDF:   cdf,
	}, nil
}

// NewQuad creates a two-triangle mesh for the planar quad v0 v1 v2 v3, split
// along the v0-v2 diagonal. The winding of v0, v1, v2 sets the normal.
func NewQuad(v0, v1, v2, v3 core.Vec3, mat material.Material) *TriangleMesh {
	mesh, err := NewTriangleMesh([]core.Vec3{v0, v1, v2, v3}, []int{0, 1, 2, 0, 2, 3}, mat)
	if err != nil {
		// Fixed indices, cannot fail
		panic(err)
	}
	return mesh
}

// Intersect finds the nearest triangle hit through the mesh BVH
func (tm *TriangleMesh) Intersect(ray core.Ray) Intersection {
	hit := tm.bvh.Intersect(ray)
	if hit.Happened {
		hit.Primitive = tm
	}
	return hit
}

// Bounds returns the axis-aligned bounding box for the entire mesh
func (tm *TriangleMesh) Bounds() core.Bounds3 {
	return tm.bvh.Bounds()
}

// Area returns the summed area of all triangles
func (tm *TriangleMesh) Area() float64 {
	return tm.area
}

// HasEmit reports whether the mesh is a light source
func (tm *TriangleMesh) HasEmit() bool {
	return tm.mat.HasEmission()
}

// Material returns the mesh material
func (tm *TriangleMesh) Material() material.Material {
	return tm.mat
}

// Sample picks a triangle with probability proportional to its area, then a
// uniform point on it. The pdf is 1/area of the whole mesh.
func (tm *TriangleMesh) Sample(sampler core.Sampler) (Intersection, float64) {
	if len(tm.triangles) == 0 || tm.area <= 0 {
		return NoHit(), 0
	}

	p := sampler.Get1D() * tm.area
	idx := sort.Search(len(tm.areaCDF), func(i int) bool { return tm.areaCDF[i] > p })
	if idx >= len(tm.triangles) {
		idx = len(tm.triangles) - 1
	}

	hit, _ := tm.triangles[idx].Sample(sampler)
	hit.Primitive = tm
	return hit, 1.0 / tm.area
}

// TriangleCount returns the number of triangles in this mesh
func (tm *TriangleMesh) TriangleCount() int {
	return len(tm.triangles)
}
