// Package youtube models the iframe player API the video event source
// depends on: an asynchronously loaded script exposing a ready hook and a
// per-iframe player constructor.
package youtube

import "fmt"

// State is the numeric player state code reported on state changes.
type State int

const (
	StateEnded     State = 0
	StatePlaying   State = 1
	StatePaused    State = 2
	StateBuffering State = 3
)

// Label maps a state code to its canonical label. Codes outside the four
// tracked states yield an empty string.
func (s State) Label() string {

	switch s {
	case StatePlaying:
		return "Playing"
	case StatePaused:
		return "Paused"
	case StateEnded:
		return "Ended"
	case StateBuffering:
		return "Buffering"
	}

	return ""
}

// Video identifies an embedded video.
type Video struct {
	ID    string
	Title string
}

// WatchURL is the computed public watch address for the video.
func (v Video) WatchURL() string {
	return fmt.Sprintf("https://www.youtube.com/watch?v=%s", v.ID)
}

// Player is a constructed player bound to one iframe element.
type Player interface {
	Video() Video
	CurrentTime() float64
	OnStateChange(fn func(State))
}

// API is the player script surface. Loading is one-shot with no timeout:
// the ready future either eventually resolves or stays pending for the page
// lifetime. OnReady callbacks registered after readiness run immediately.
type API interface {
	Loaded() bool
	EnsureLoaded()
	OnReady(fn func())
	Player(elementID string) (Player, error)
}
