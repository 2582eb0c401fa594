package youtube

import (
	"fmt"

	"github.com/devopsext/utils"
)

var log = utils.GetLog()

// SimulatedAPI implements API for the replay driver and tests. Readiness is
// signalled explicitly, players are registered per element id, and state
// changes are fired by hand.
type SimulatedAPI struct {
	loadRequested bool
	ready         bool
	pending       []func()
	players       map[string]*SimulatedPlayer
}

func NewSimulatedAPI() *SimulatedAPI {
	return &SimulatedAPI{
		players: make(map[string]*SimulatedPlayer),
	}
}

func (a *SimulatedAPI) Loaded() bool {
	return a.ready
}

// EnsureLoaded records the script injection request. Injection happens once;
// repeated calls are no-ops.
func (a *SimulatedAPI) EnsureLoaded() {

	if a.loadRequested {
		return
	}

	a.loadRequested = true
	log.Debug("Player script injection requested")
}

func (a *SimulatedAPI) OnReady(fn func()) {

	if a.ready {
		fn()
		return
	}

	a.pending = append(a.pending, fn)
}

// SignalReady resolves the ready future, draining every pending callback in
// registration order.
func (a *SimulatedAPI) SignalReady() {

	if a.ready {
		return
	}

	a.ready = true

	pending := a.pending
	a.pending = nil

	for _, fn := range pending {
		fn()
	}
}

// AddVideo registers a playable video behind an iframe element id.
func (a *SimulatedAPI) AddVideo(elementID string, video Video) *SimulatedPlayer {

	player := &SimulatedPlayer{video: video}
	a.players[elementID] = player

	return player
}

// Lookup returns the registered player for an element id.
func (a *SimulatedAPI) Lookup(elementID string) (*SimulatedPlayer, bool) {
	player, ok := a.players[elementID]
	return player, ok
}

func (a *SimulatedAPI) Player(elementID string) (Player, error) {

	player, ok := a.players[elementID]
	if !ok {
		return nil, fmt.Errorf("no video registered for element %q", elementID)
	}

	return player, nil
}

// SimulatedPlayer is the Player counterpart of SimulatedAPI.
type SimulatedPlayer struct {
	video       Video
	currentTime float64
	listeners   []func(State)
}

func (p *SimulatedPlayer) Video() Video {
	return p.video
}

func (p *SimulatedPlayer) CurrentTime() float64 {
	return p.currentTime
}

func (p *SimulatedPlayer) SetCurrentTime(seconds float64) {
	p.currentTime = seconds
}

func (p *SimulatedPlayer) OnStateChange(fn func(State)) {
	p.listeners = append(p.listeners, fn)
}

// ChangeState delivers a state change to every subscriber.
func (p *SimulatedPlayer) ChangeState(s State) {

	for _, fn := range p.listeners {
		fn(s)
	}
}
