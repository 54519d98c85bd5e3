// Package demo defines the interface every demo scene implements, a
// registry to look them up by name, and the runner that drives one.
package demo

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/Faultbox/gldemos/internal/engine/input"
)

// ErrUnknownDemo is returned by Lookup for unregistered names.
var ErrUnknownDemo = errors.New("unknown demo")

// Demo is one self-contained scene.
type Demo interface {
	// Name returns the registry name.
	Name() string

	// Setup builds the scene into ctx. Called once before the first frame.
	Setup(ctx *Context) error

	// Update advances the demo by dt seconds.
	Update(ctx *Context, dt float64) error

	// HandleEvent reacts to one input event. Called before Update.
	HandleEvent(ctx *Context, e input.Event)

	// Render draws the frame. Not called when headless.
	Render(ctx *Context) error

	// Close releases GPU and audio resources. It is called even when Setup
	// fails, so it must cope with a partial setup.
	Close()
}

// Factory creates a fresh demo instance.
type Factory func() Demo

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register makes a demo available under name. Registering the same name
// twice panics.
func Register(name string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if f == nil {
		panic("demo: Register factory is nil")
	}
	if _, dup := registry[name]; dup {
		panic("demo: Register called twice for " + name)
	}
	registry[name] = f
}

// Lookup creates the demo registered under name.
func Lookup(name string) (Demo, error) {
	registryMu.RLock()
	f, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDemo, name)
	}
	return f(), nil
}

// Names returns the registered demo names in sorted order.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
