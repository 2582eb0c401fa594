package input

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wego-track/tracker/common"
	"github.com/wego-track/tracker/dom"
	"github.com/wego-track/tracker/youtube"
)

func videoEvent(slug, selector string, states ...string) *common.TrackedEvent {
	return &common.TrackedEvent{
		Slug:        slug,
		EventSource: &common.EventSource{Type: common.TypeYouTubeVideo, Selector: selector, States: states},
	}
}

const videoDoc = `
	<html><body>
		<iframe id="player1" class="yt" src="https://www.youtube.com/embed/abc123"></iframe>
	</body></html>`

func TestYouTubeVideoDeferredInitialization(t *testing.T) {

	page := testPage(t, videoDoc)

	api := youtube.NewSimulatedAPI()
	player := api.AddVideo("player1", youtube.Video{ID: "abc123", Title: "Launch Video"})

	var emits []emitted

	NewYouTubeVideoInput(api).Arm(page, videoEvent("videos", "iframe.yt", "Playing", "Paused"), collector(&emits))

	// nothing is bound until the script is up
	player.ChangeState(youtube.StatePlaying)
	assert.Empty(t, emits)

	api.SignalReady()

	player.SetCurrentTime(3725)
	player.ChangeState(youtube.StatePlaying)

	require.Len(t, emits, 1)
	assert.Equal(t, "Launch Video: Playing (1:02:05)", emits[0].primaryValue)

	aux, ok := emits[0].auxData.(*VideoEventData)
	require.True(t, ok)
	assert.Equal(t, "abc123", aux.VideoID)
	assert.Equal(t, "Launch Video", aux.VideoTitle)
	assert.Equal(t, "https://www.youtube.com/watch?v=abc123", aux.VideoURL)
	assert.Equal(t, "Playing", aux.StateChange)
	assert.Equal(t, "1:02:05", aux.CurrentTime)
}

func TestYouTubeVideoFiltersStates(t *testing.T) {

	page := testPage(t, videoDoc)

	api := youtube.NewSimulatedAPI()
	api.SignalReady()
	player := api.AddVideo("player1", youtube.Video{ID: "abc123", Title: "Launch Video"})

	var emits []emitted

	NewYouTubeVideoInput(api).Arm(page, videoEvent("videos", "iframe.yt", "Ended"), collector(&emits))

	player.ChangeState(youtube.StatePlaying)
	player.ChangeState(youtube.StateBuffering)
	player.ChangeState(youtube.State(5)) // cued, outside the canonical four
	assert.Empty(t, emits)

	player.ChangeState(youtube.StateEnded)

	require.Len(t, emits, 1)
	assert.True(t, strings.HasPrefix(emits[0].primaryValue, "Launch Video: Ended"))
}

func TestYouTubeVideoPreparesIframe(t *testing.T) {

	page := testPage(t, videoDoc)

	api := youtube.NewSimulatedAPI()
	api.SignalReady()
	api.AddVideo("player1", youtube.Video{ID: "abc123", Title: "Launch Video"})

	var emits []emitted

	NewYouTubeVideoInput(api).Arm(page, videoEvent("videos", "iframe.yt", "Playing"), collector(&emits))

	frame := dom.QueryFirst("test", "#player1", page.Doc)
	require.NotNil(t, frame)

	src, _ := dom.Attr(frame, "src")
	assert.Contains(t, src, "enablejsapi=1")

	_, armed := dom.Attr(frame, videoArmedMarker)
	assert.True(t, armed)
}

func TestYouTubeVideoInitializationIsIdempotent(t *testing.T) {

	page := testPage(t, videoDoc)

	api := youtube.NewSimulatedAPI()
	api.SignalReady()
	player := api.AddVideo("player1", youtube.Video{ID: "abc123", Title: "Launch Video"})

	var emits []emitted

	handler := NewYouTubeVideoInput(api)
	handler.Arm(page, videoEvent("videos", "iframe.yt", "Playing"), collector(&emits))
	handler.Arm(page, videoEvent("videos-again", "iframe.yt", "Playing"), collector(&emits))

	player.ChangeState(youtube.StatePlaying)

	assert.Len(t, emits, 1, "the marker flag guards against double binding")
}

func TestYouTubeVideoGeneratesElementID(t *testing.T) {

	page := testPage(t, `
		<html><body>
			<iframe class="yt" src="https://www.youtube.com/embed/xyz"></iframe>
		</body></html>`)

	api := youtube.NewSimulatedAPI()
	api.SignalReady()

	var emits []emitted

	// no registered player behind the generated id: binding fails quietly
	assert.NotPanics(t, func() {
		NewYouTubeVideoInput(api).Arm(page, videoEvent("videos", "iframe.yt", "Playing"), collector(&emits))
	})

	frame := dom.QueryFirst("test", "iframe.yt", page.Doc)
	require.NotNil(t, frame)

	id, ok := dom.Attr(frame, "id")
	assert.True(t, ok)
	assert.True(t, strings.HasPrefix(id, "wego-yt-"))
}

func TestFormatPlaybackTime(t *testing.T) {

	tests := []struct {
		seconds  float64
		expected string
	}{
		{0, "0:00:00"},
		{59.9, "0:00:59"},
		{61, "0:01:01"},
		{3725, "1:02:05"},
		{-5, "0:00:00"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, formatPlaybackTime(tt.seconds))
	}
}
