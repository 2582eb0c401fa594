package youtube

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateLabels(t *testing.T) {

	assert.Equal(t, "Ended", StateEnded.Label())
	assert.Equal(t, "Playing", StatePlaying.Label())
	assert.Equal(t, "Paused", StatePaused.Label())
	assert.Equal(t, "Buffering", StateBuffering.Label())
	assert.Equal(t, "", State(5).Label())
	assert.Equal(t, "", State(-1).Label())
}

func TestVideoWatchURL(t *testing.T) {

	video := Video{ID: "abc123", Title: "Launch Video"}
	assert.Equal(t, "https://www.youtube.com/watch?v=abc123", video.WatchURL())
}

func TestOnReadyOrderingAroundSignal(t *testing.T) {

	api := NewSimulatedAPI()

	var order []string

	api.OnReady(func() { order = append(order, "first") })
	api.OnReady(func() { order = append(order, "second") })

	assert.Empty(t, order, "nothing runs before the script is up")

	api.SignalReady()
	assert.Equal(t, []string{"first", "second"}, order)

	// after readiness the callback runs immediately
	api.OnReady(func() { order = append(order, "late") })
	assert.Equal(t, []string{"first", "second", "late"}, order)

	// a second signal never replays the queue
	api.SignalReady()
	assert.Equal(t, []string{"first", "second", "late"}, order)
}

func TestPlayerLookup(t *testing.T) {

	api := NewSimulatedAPI()
	api.AddVideo("player1", Video{ID: "abc123", Title: "Launch Video"})

	player, err := api.Player("player1")
	require.NoError(t, err)
	assert.Equal(t, "abc123", player.Video().ID)

	_, err = api.Player("missing")
	assert.Error(t, err)
}
