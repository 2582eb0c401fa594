package input

import (
	"fmt"
	"net/url"

	"github.com/devopsext/utils"
	"github.com/google/uuid"
	"golang.org/x/net/html"

	"github.com/wego-track/tracker/common"
	"github.com/wego-track/tracker/dom"
	"github.com/wego-track/tracker/youtube"
)

// Per-iframe idempotency marker: an iframe carrying it is already bound to a
// player and must not be initialized again.
const videoArmedMarker = "data-wego-yt"

// VideoEventData is the structured auxiliary detail a video state change
// carries alongside the primary value.
type VideoEventData struct {
	VideoID     string `json:"video_id"`
	VideoTitle  string `json:"video_title"`
	VideoURL    string `json:"video_url"`
	StateChange string `json:"state_change"`
	CurrentTime string `json:"current_time"`
}

// YouTubeVideoInput binds matching iframes to players and emits on the
// configured state changes. When the player API is not loaded yet,
// initialization is deferred through the API's ready future; iframes from
// every tracked event armed before readiness are initialized by their queued
// callbacks once the script is up.
type YouTubeVideoInput struct {
	api youtube.API
}

func NewYouTubeVideoInput(api youtube.API) *YouTubeVideoInput {
	return &YouTubeVideoInput{api: api}
}

func (i *YouTubeVideoInput) Type() string {
	return common.TypeYouTubeVideo
}

func (i *YouTubeVideoInput) Arm(page *dom.Page, event *common.TrackedEvent, emit common.EmitFunc) {

	selector := event.EventSource.Selector

	if utils.IsEmpty(selector) {
		log.Warn("Tracked event %s has no selector. Skipped.", event.Slug)
		return
	}

	if len(dom.Query(event.Slug, selector, page.Doc)) == 0 {
		log.Warn("Selector %q for tracked event %s matches nothing. Skipped.", selector, event.Slug)
		return
	}

	if i.api == nil {
		log.Warn("No player API for tracked event %s. Skipped.", event.Slug)
		return
	}

	states := make(map[string]bool)

	for _, state := range event.EventSource.States {
		states[state] = true
	}

	slug := event.Slug

	initialize := func() {
		for _, frame := range dom.Query(slug, selector, page.Doc) {
			i.initFrame(event, states, frame, emit)
		}
	}

	if !i.api.Loaded() {
		log.Debug("Player API is not loaded. Deferring initialization for tracked event %s...", slug)
		i.api.EnsureLoaded()
	}

	i.api.OnReady(initialize)

	inputArmedSources.WithLabelValues(common.TypeYouTubeVideo).Inc()
}

func (i *YouTubeVideoInput) initFrame(event *common.TrackedEvent, states map[string]bool, frame *html.Node, emit common.EmitFunc) {

	if _, armed := dom.Attr(frame, videoArmedMarker); armed {
		return
	}

	dom.SetAttr(frame, videoArmedMarker, "1")

	ensureAPIEnabled(event.Slug, frame)

	elementID, ok := dom.Attr(frame, "id")
	if !ok || elementID == "" {
		elementID = "wego-yt-" + uuid.NewString()
		dom.SetAttr(frame, "id", elementID)
	}

	player, err := i.api.Player(elementID)
	if err != nil {
		log.Warn("Can't construct player for tracked event %s: %v", event.Slug, err)
		return
	}

	player.OnStateChange(func(state youtube.State) {

		label := state.Label()
		if label == "" || !states[label] {
			return
		}

		video := player.Video()
		position := formatPlaybackTime(player.CurrentTime())

		emit(fmt.Sprintf("%s: %s (%s)", video.Title, label, position), &VideoEventData{
			VideoID:     video.ID,
			VideoTitle:  video.Title,
			VideoURL:    video.WatchURL(),
			StateChange: label,
			CurrentTime: position,
		})
	})
}

// ensureAPIEnabled injects the API-enablement query parameter into the
// iframe src when absent. A src that does not parse is left untouched.
func ensureAPIEnabled(slug string, frame *html.Node) {

	src, ok := dom.Attr(frame, "src")
	if !ok || src == "" {
		return
	}

	u, err := url.Parse(src)
	if err != nil {
		log.Debug("Can't parse iframe src %q for tracked event %s: %v", src, slug, err)
		return
	}

	query := u.Query()

	if query.Get("enablejsapi") != "" {
		return
	}

	query.Set("enablejsapi", "1")
	u.RawQuery = query.Encode()

	dom.SetAttr(frame, "src", u.String())
}

// formatPlaybackTime renders a playback offset as H:MM:SS.
func formatPlaybackTime(seconds float64) string {

	total := int(seconds)
	if total < 0 {
		total = 0
	}

	return fmt.Sprintf("%d:%02d:%02d", total/3600, total%3600/60, total%60)
}
