package common

import "github.com/wego-track/tracker/dom"

// EmitFunc is the callback a handler fires for each qualifying occurrence.
// auxData is nil unless the variant produces structured auxiliary detail.
type EmitFunc func(primaryValue string, auxData interface{})

// Handler arms browser-level listeners for one event source variant.
// A handler validates its own criteria before arming and never lets a
// malformed selector or payload escape as a panic.
type Handler interface {
	Type() string
	Arm(page *dom.Page, event *TrackedEvent, emit EmitFunc)
}
