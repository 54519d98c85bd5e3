// Package input defines window-system independent input events and tracks
// keyboard and mouse state across frames.
package input

// EventType identifies an input event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventMouseWheel
)

// Key is a physical key.
type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
	KeySpace
	KeyEnter
	KeyTab
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyA
	KeyC
	KeyG
	KeyR
	KeyS
	KeyF
	KeyF12
)

// Mouse buttons.
const (
	ButtonLeft   uint8 = 1
	ButtonMiddle uint8 = 2
	ButtonRight  uint8 = 3
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    Key
	Repeat bool
	Width  int
	Height int
	MouseX int
	MouseY int
	DeltaX int // Relative motion, or wheel steps
	DeltaY int
	Button uint8
}

// Input handles all input processing.
type Input struct {
	events  []Event
	keys    map[Key]bool
	buttons map[uint8]bool
	mouseX  int
	mouseY  int
	quit    bool
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events:  make([]Event, 0, 16),
		keys:    make(map[Key]bool),
		buttons: make(map[uint8]bool),
	}
}

// Poller produces the events that arrived since its last call.
type Poller interface {
	PollEvents(dst []Event) []Event
}

// Update replaces this frame's events with those from p and updates key,
// button and pointer state. Returns true if a quit was requested.
func (i *Input) Update(p Poller) bool {
	i.events = p.PollEvents(i.events[:0])
	for _, e := range i.events {
		i.apply(e)
	}
	return i.quit
}

// Feed appends events directly, for replay and tests.
func (i *Input) Feed(events ...Event) {
	for _, e := range events {
		i.events = append(i.events, e)
		i.apply(e)
	}
}

func (i *Input) apply(e Event) {
	switch e.Type {
	case EventQuit:
		i.quit = true
	case EventKeyDown:
		i.keys[e.Key] = true
	case EventKeyUp:
		delete(i.keys, e.Key)
	case EventMouseMove:
		i.mouseX, i.mouseY = e.MouseX, e.MouseY
	case EventMouseDown:
		i.buttons[e.Button] = true
		i.mouseX, i.mouseY = e.MouseX, e.MouseY
	case EventMouseUp:
		delete(i.buttons, e.Button)
		i.mouseX, i.mouseY = e.MouseX, e.MouseY
	}
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// IsKeyPressed checks if a specific key was pressed this frame.
func (i *Input) IsKeyPressed(key Key) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == key && !e.Repeat {
			return true
		}
	}
	return false
}

// IsKeyDown reports whether key is currently held.
func (i *Input) IsKeyDown(key Key) bool {
	return i.keys[key]
}

// IsButtonDown reports whether a mouse button is currently held.
func (i *Input) IsButtonDown(button uint8) bool {
	return i.buttons[button]
}

// Mouse returns the last known pointer position.
func (i *Input) Mouse() (x, y int) {
	return i.mouseX, i.mouseY
}
