package window

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/gldemos/internal/engine/input"
)

var keymap = map[sdl.Scancode]input.Key{
	sdl.SCANCODE_ESCAPE: input.KeyEscape,
	sdl.SCANCODE_SPACE:  input.KeySpace,
	sdl.SCANCODE_RETURN: input.KeyEnter,
	sdl.SCANCODE_TAB:    input.KeyTab,
	sdl.SCANCODE_UP:     input.KeyUp,
	sdl.SCANCODE_DOWN:   input.KeyDown,
	sdl.SCANCODE_LEFT:   input.KeyLeft,
	sdl.SCANCODE_RIGHT:  input.KeyRight,
	sdl.SCANCODE_A:      input.KeyA,
	sdl.SCANCODE_C:      input.KeyC,
	sdl.SCANCODE_G:      input.KeyG,
	sdl.SCANCODE_R:      input.KeyR,
	sdl.SCANCODE_S:      input.KeyS,
	sdl.SCANCODE_F:      input.KeyF,
	sdl.SCANCODE_F12:    input.KeyF12,
}

// PollEvents drains the SDL queue, appending translated events to dst.
// Pointer positions and resize dimensions are in drawable pixels; drag
// deltas stay in screen coordinates.
func (w *Window) PollEvents(dst []input.Event) []input.Event {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			dst = append(dst, input.Event{Type: input.EventQuit})

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_RESIZED || e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				width, height := w.DrawableSize()
				dst = append(dst, input.Event{
					Type:   input.EventWindowResize,
					Width:  width,
					Height: height,
				})
			}

		case *sdl.KeyboardEvent:
			t := input.EventKeyDown
			if e.Type == sdl.KEYUP {
				t = input.EventKeyUp
			}
			dst = append(dst, input.Event{
				Type:   t,
				Key:    keymap[e.Keysym.Scancode],
				Repeat: e.Repeat != 0,
			})

		case *sdl.MouseMotionEvent:
			sx, sy := w.pixelScale()
			dst = append(dst, input.Event{
				Type:   input.EventMouseMove,
				MouseX: int(float32(e.X) * sx),
				MouseY: int(float32(e.Y) * sy),
				DeltaX: int(e.XRel),
				DeltaY: int(e.YRel),
			})

		case *sdl.MouseButtonEvent:
			t := input.EventMouseDown
			if e.Type == sdl.MOUSEBUTTONUP {
				t = input.EventMouseUp
			}
			sx, sy := w.pixelScale()
			dst = append(dst, input.Event{
				Type:   t,
				MouseX: int(float32(e.X) * sx),
				MouseY: int(float32(e.Y) * sy),
				Button: e.Button,
			})

		case *sdl.MouseWheelEvent:
			dst = append(dst, input.Event{
				Type:   input.EventMouseWheel,
				DeltaX: int(e.X),
				DeltaY: int(e.Y),
			})
		}
	}
	return dst
}

// pixelScale is the ratio of drawable pixels to screen coordinates.
func (w *Window) pixelScale() (sx, sy float32) {
	ww, wh := w.GetSize()
	dw, dh := w.DrawableSize()
	if ww == 0 || wh == 0 {
		return 1, 1
	}
	return float32(dw) / float32(ww), float32(dh) / float32(wh)
}
