package input

import "testing"

type fakePoller struct {
	batches [][]Event
}

func (f *fakePoller) PollEvents(dst []Event) []Event {
	if len(f.batches) == 0 {
		return dst
	}
	dst = append(dst, f.batches[0]...)
	f.batches = f.batches[1:]
	return dst
}

func TestUpdateTracksState(t *testing.T) {
	p := &fakePoller{batches: [][]Event{
		{
			{Type: EventKeyDown, Key: KeyG},
			{Type: EventMouseDown, Button: ButtonLeft, MouseX: 10, MouseY: 20},
		},
		{
			{Type: EventKeyDown, Key: KeyG, Repeat: true},
			{Type: EventMouseMove, MouseX: 30, MouseY: 40},
		},
		{
			{Type: EventKeyUp, Key: KeyG},
			{Type: EventMouseUp, Button: ButtonLeft, MouseX: 30, MouseY: 40},
			{Type: EventQuit},
		},
	}}

	in := New()

	if in.Update(p) {
		t.Fatal("unexpected quit")
	}
	if !in.IsKeyPressed(KeyG) || !in.IsKeyDown(KeyG) || !in.IsButtonDown(ButtonLeft) {
		t.Error("expected G pressed and left button held")
	}

	in.Update(p)
	if in.IsKeyPressed(KeyG) {
		t.Error("auto-repeat should not count as a press")
	}
	if !in.IsKeyDown(KeyG) {
		t.Error("G should still be held")
	}
	if x, y := in.Mouse(); x != 30 || y != 40 {
		t.Errorf("mouse = %d,%d", x, y)
	}

	if !in.Update(p) {
		t.Error("expected quit")
	}
	if in.IsKeyDown(KeyG) || in.IsButtonDown(ButtonLeft) {
		t.Error("released key and button still held")
	}
	if len(in.Events()) != 3 {
		t.Errorf("events = %d, want 3", len(in.Events()))
	}
}

func TestFeed(t *testing.T) {
	in := New()
	in.Feed(Event{Type: EventKeyDown, Key: KeyF12})
	if !in.IsKeyPressed(KeyF12) {
		t.Error("fed key not pressed")
	}
}
