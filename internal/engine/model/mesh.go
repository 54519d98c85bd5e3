package model

import (
	"github.com/Faultbox/gldemos/internal/engine/scenegraph"
)

// BuildMesh interleaves geometry attributes. Missing normals are generated
// from the triangles; missing colours default to white. Returns nil for
// empty geometry.
func BuildMesh(g *scenegraph.Geometry) *Mesh {
	n := g.PointCount()
	if n == 0 {
		return nil
	}

	vertices := make([]Vertex, n)
	bounds := Bounds{
		Min: [3]float32{1e10, 1e10, 1e10},
		Max: [3]float32{-1e10, -1e10, -1e10},
	}

	for i := range vertices {
		v := &vertices[i]
		v.Position = [3]float32{g.Positions[i*3], g.Positions[i*3+1], g.Positions[i*3+2]}
		updateBounds(&bounds, v.Position)

		if len(g.Normals) >= (i+1)*3 {
			v.Normal = [3]float32{g.Normals[i*3], g.Normals[i*3+1], g.Normals[i*3+2]}
		}
		if len(g.UVs) >= (i+1)*2 {
			v.TexCoord = [2]float32{g.UVs[i*2], g.UVs[i*2+1]}
		}
		v.Color = [3]float32{1, 1, 1}
		if len(g.Colors) >= (i+1)*3 {
			v.Color = [3]float32{g.Colors[i*3], g.Colors[i*3+1], g.Colors[i*3+2]}
		}
	}

	mesh := &Mesh{
		Vertices: vertices,
		Indices:  g.Indices,
		Lines:    g.Mode == scenegraph.Lines,
		Bounds:   bounds,
	}
	if !mesh.Lines && len(g.Normals) < n*3 {
		ComputeNormals(mesh, g)
	}
	return mesh
}

// ComputeNormals accumulates area-weighted face normals per vertex.
// Indexed meshes come out smooth, non-indexed ones faceted.
func ComputeNormals(mesh *Mesh, g *scenegraph.Geometry) {
	vs := mesh.Vertices
	for i := range vs {
		vs[i].Normal = [3]float32{}
	}

	g.Triangles(func(a, b, c uint32) {
		n := Cross(sub(vs[b].Position, vs[a].Position), sub(vs[c].Position, vs[a].Position))
		for _, idx := range [3]uint32{a, b, c} {
			vs[idx].Normal[0] += n[0]
			vs[idx].Normal[1] += n[1]
			vs[idx].Normal[2] += n[2]
		}
	})

	for i := range vs {
		vs[i].Normal = Normalize(vs[i].Normal)
	}
}

// SmoothNormals averages normals at shared vertex positions.
// This reduces faceted appearance on models.
func SmoothNormals(vertices []Vertex) {
	const epsilon float32 = 0.001

	// Group vertices by quantized position for O(n) lookup
	posMap := make(map[[3]int32][]int)
	for i := range vertices {
		key := [3]int32{
			int32(vertices[i].Position[0] / epsilon),
			int32(vertices[i].Position[1] / epsilon),
			int32(vertices[i].Position[2] / epsilon),
		}
		posMap[key] = append(posMap[key], i)
	}

	// Average normals for vertices at same position
	for _, idxs := range posMap {
		if len(idxs) < 2 {
			continue
		}

		var sum [3]float32
		for _, idx := range idxs {
			sum[0] += vertices[idx].Normal[0]
			sum[1] += vertices[idx].Normal[1]
			sum[2] += vertices[idx].Normal[2]
		}

		avg := Normalize(sum)

		for _, idx := range idxs {
			vertices[idx].Normal = avg
		}
	}
}

// Update rewrites positions and normals from geometry that was deformed
// in place, keeping the vertex count.
func Update(mesh *Mesh, g *scenegraph.Geometry) {
	for i := range mesh.Vertices {
		if len(g.Positions) < (i+1)*3 {
			break
		}
		mesh.Vertices[i].Position = [3]float32{g.Positions[i*3], g.Positions[i*3+1], g.Positions[i*3+2]}
		if len(g.Normals) >= (i+1)*3 {
			mesh.Vertices[i].Normal = [3]float32{g.Normals[i*3], g.Normals[i*3+1], g.Normals[i*3+2]}
		}
	}
}

func updateBounds(b *Bounds, p [3]float32) {
	for k := 0; k < 3; k++ {
		if p[k] < b.Min[k] {
			b.Min[k] = p[k]
		}
		if p[k] > b.Max[k] {
			b.Max[k] = p[k]
		}
	}
}
