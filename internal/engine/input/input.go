// Package input handles SDL2 input events.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// EventType identifies a processed event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
)

// Action is a viewer command bound to a key.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionReload
	ActionScreenshot
	ActionToggleSpin
	ActionResetRotation
)

// String returns a human-readable action name.
func (a Action) String() string {
	switch a {
	case ActionQuit:
		return "quit"
	case ActionReload:
		return "reload"
	case ActionScreenshot:
		return "screenshot"
	case ActionToggleSpin:
		return "toggle-spin"
	case ActionResetRotation:
		return "reset-rotation"
	default:
		return "none"
	}
}

// keyBindings maps scancodes to actions.
var keyBindings = map[sdl.Scancode]Action{
	sdl.SCANCODE_ESCAPE: ActionQuit,
	sdl.SCANCODE_R:      ActionReload,
	sdl.SCANCODE_F12:    ActionScreenshot,
	sdl.SCANCODE_SPACE:  ActionToggleSpin,
	sdl.SCANCODE_HOME:   ActionResetRotation,
}

// ActionForKey returns the action bound to scancode, or ActionNone.
func ActionForKey(scancode sdl.Scancode) Action {
	return keyBindings[scancode]
}

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Action Action
	Width  int
	Height int
}

// Input handles all input processing.
type Input struct {
	events []Event
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
	}
}

// Update polls SDL events and converts them to viewer events.
// Returns true if the viewer should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0]

	quit := false
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		if e, ok := translate(event); ok {
			i.events = append(i.events, e)
			if e.Type == EventQuit || e.Action == ActionQuit {
				quit = true
			}
		}
	}

	return quit
}

// translate converts an SDL event. Key repeats are dropped so held keys fire once.
func translate(event sdl.Event) (Event, bool) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		return Event{Type: EventQuit}, true

	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_RESIZED || e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
			return Event{
				Type:   EventWindowResize,
				Width:  int(e.Data1),
				Height: int(e.Data2),
			}, true
		}

	case *sdl.KeyboardEvent:
		if e.Type == sdl.KEYDOWN && e.Repeat == 0 {
			return Event{
				Type:   EventKeyDown,
				Key:    e.Keysym.Scancode,
				Action: ActionForKey(e.Keysym.Scancode),
			}, true
		}
	}
	return Event{}, false
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// Triggered reports whether action fired this frame.
func (i *Input) Triggered(action Action) bool {
	for _, e := range i.events {
		if e.Action == action {
			return true
		}
	}
	return false
}
