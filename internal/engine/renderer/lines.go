package renderer

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/gldemos/pkg/math"
)

// lineBatch streams debug line vertices each frame.
type lineBatch struct {
	vao, vbo uint32
	capacity int // in floats
	data     []float32
}

func newLineBatch() *lineBatch {
	b := &lineBatch{}
	gl.GenVertexArrays(1, &b.vao)
	gl.BindVertexArray(b.vao)
	gl.GenBuffers(1, &b.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)

	// Position (location 0) + colour (location 1)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 6*4, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, 6*4, 3*4)
	gl.EnableVertexAttribArray(1)

	gl.BindVertexArray(0)
	return b
}

func (b *lineBatch) delete() {
	if b == nil {
		return
	}
	gl.DeleteVertexArrays(1, &b.vao)
	gl.DeleteBuffers(1, &b.vbo)
}

// DrawLines draws world-space segments (pairs of xyz points) in one colour.
func (r *Renderer) DrawLines(segments []float32, color math.Vec3, view View) {
	if len(segments) < 6 {
		return
	}

	b := r.lines
	b.data = b.data[:0]
	for i := 0; i+2 < len(segments); i += 3 {
		b.data = append(b.data, segments[i], segments[i+1], segments[i+2], color.X, color.Y, color.Z)
	}

	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	size := len(b.data) * 4
	if len(b.data) > b.capacity {
		gl.BufferData(gl.ARRAY_BUFFER, size, unsafe.Pointer(&b.data[0]), gl.STREAM_DRAW)
		b.capacity = len(b.data)
	} else {
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, size, unsafe.Pointer(&b.data[0]))
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	r.lineProgram.Use()
	r.lineProgram.SetMat4("uMVP", view.ViewProjection())
	gl.BindVertexArray(b.vao)
	gl.DrawArrays(gl.LINES, 0, int32(len(b.data)/6))
	gl.BindVertexArray(0)
	r.stats.DrawCalls++
}
