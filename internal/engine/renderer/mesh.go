package renderer

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/gldemos/internal/engine/model"
	"github.com/Faultbox/gldemos/internal/engine/scenegraph"
)

// gpuMesh is the uploaded copy of one Geometry.
type gpuMesh struct {
	vao, vbo, ebo uint32
	count         int32
	indexed       bool
	lines         bool
	version       uint64
	cpu           *model.Mesh
}

// mesh returns the GPU copy of g, uploading on first use and refreshing
// vertex data when the geometry version changed.
func (r *Renderer) mesh(g *scenegraph.Geometry) (*gpuMesh, error) {
	if m, ok := r.meshes[g]; ok {
		if m == nil {
			return nil, nil
		}
		if m.version != g.Version && m.cpu != nil {
			model.Update(m.cpu, g)
			m.refresh()
			m.version = g.Version
		}
		return m, nil
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}
	cpu := model.BuildMesh(g)
	if cpu == nil {
		r.meshes[g] = nil
		return nil, nil
	}

	m := upload(cpu)
	m.version = g.Version
	r.meshes[g] = m
	r.stats.Uploads++
	return m, nil
}

// upload creates the VAO and buffers for a mesh.
func upload(cpu *model.Mesh) *gpuMesh {
	m := &gpuMesh{
		indexed: len(cpu.Indices) > 0,
		lines:   cpu.Lines,
		cpu:     cpu,
	}

	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(cpu.Vertices)*model.VertexSize, unsafe.Pointer(&cpu.Vertices[0]), gl.DYNAMIC_DRAW)

	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, model.VertexSize, model.OffsetPosition)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, model.VertexSize, model.OffsetNormal)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, model.VertexSize, model.OffsetTexCoord)
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointerWithOffset(3, 3, gl.FLOAT, false, model.VertexSize, model.OffsetColor)
	gl.EnableVertexAttribArray(3)

	if m.indexed {
		gl.GenBuffers(1, &m.ebo)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(cpu.Indices)*4, unsafe.Pointer(&cpu.Indices[0]), gl.STATIC_DRAW)
		m.count = int32(len(cpu.Indices))
	} else {
		m.count = int32(len(cpu.Vertices))
	}

	gl.BindVertexArray(0)
	return m
}

// refresh re-uploads vertex data after deformation.
func (m *gpuMesh) refresh() {
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(m.cpu.Vertices)*model.VertexSize, unsafe.Pointer(&m.cpu.Vertices[0]))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

func (m *gpuMesh) draw() {
	mode := uint32(gl.TRIANGLES)
	if m.lines {
		mode = gl.LINES
	}
	gl.BindVertexArray(m.vao)
	if m.indexed {
		gl.DrawElements(mode, m.count, gl.UNSIGNED_INT, nil)
	} else {
		gl.DrawArrays(mode, 0, m.count)
	}
	gl.BindVertexArray(0)
}

func (m *gpuMesh) delete() {
	if m == nil {
		return
	}
	gl.DeleteVertexArrays(1, &m.vao)
	gl.DeleteBuffers(1, &m.vbo)
	if m.ebo != 0 {
		gl.DeleteBuffers(1, &m.ebo)
	}
}
