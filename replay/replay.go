// Package replay drives a page session from a recorded occurrence stream so
// the tracking engine can run headlessly end to end.
package replay

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"

	"github.com/devopsext/utils"

	"github.com/wego-track/tracker/dom"
	"github.com/wego-track/tracker/youtube"
)

var log = utils.GetLog()

// Occurrence is one recorded browser-level happening, one JSON document per
// line. Target selectors resolve against the page document at replay time.
type Occurrence struct {
	Type       string                 `json:"type"`
	Target     string                 `json:"target,omitempty"`
	Name       string                 `json:"name,omitempty"`
	Detail     json.RawMessage        `json:"detail,omitempty"`
	Properties map[string]interface{} `json:"properties,omitempty"`
	ElementID  string                 `json:"element_id,omitempty"`
	VideoID    string                 `json:"video_id,omitempty"`
	VideoTitle string                 `json:"video_title,omitempty"`
	State      int                    `json:"state,omitempty"`
	Time       float64                `json:"time,omitempty"`
}

const replaySlug = "replay"

type Runner struct {
	page *dom.Page
	api  *youtube.SimulatedAPI
}

func NewRunner(page *dom.Page, api *youtube.SimulatedAPI) *Runner {
	return &Runner{
		page: page,
		api:  api,
	}
}

// Run applies every occurrence from the stream in order. Unreadable lines
// and unknown occurrence types are logged and skipped; the stream keeps
// going.
func (r *Runner) Run(reader io.Reader) error {

	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0

	for scanner.Scan() {

		line++

		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		var o Occurrence

		if err := json.Unmarshal([]byte(text), &o); err != nil {
			log.Warn("Can't decode occurrence at line %d: %v", line, err)
			continue
		}

		r.apply(&o, line)
	}

	return scanner.Err()
}

func (r *Runner) apply(o *Occurrence, line int) {

	switch o.Type {

	case "click":
		node := dom.QueryFirst(replaySlug, o.Target, r.page.Doc)
		if node == nil {
			log.Warn("Click target %q at line %d is not in the document. Skipped.", o.Target, line)
			return
		}
		r.page.Bus.Click(node)

	case "submit":
		node := dom.QueryFirst(replaySlug, o.Target, r.page.Doc)
		if node == nil {
			log.Warn("Submit target %q at line %d is not in the document. Skipped.", o.Target, line)
			return
		}
		r.page.Bus.Submit(node)

	case "custom":
		// A target selector stands in for payloads that carry an element;
		// otherwise the raw detail document is delivered as decoded JSON.
		if o.Target != "" {
			node := dom.QueryFirst(replaySlug, o.Target, r.page.Doc)
			if node == nil {
				log.Warn("Custom event target %q at line %d is not in the document. Skipped.", o.Target, line)
				return
			}
			r.page.Bus.DispatchCustom(o.Name, node)
			return
		}

		var detail interface{}
		if len(o.Detail) > 0 {
			if err := json.Unmarshal(o.Detail, &detail); err != nil {
				log.Warn("Can't decode custom event detail at line %d: %v", line, err)
				return
			}
		}
		r.page.Bus.DispatchCustom(o.Name, detail)

	case "widget":
		r.page.FireWidgetEvent(o.Name, o.Properties)

	case "video_register":
		if r.api == nil {
			log.Warn("No simulated player API. Skipped.")
			return
		}
		r.api.AddVideo(o.ElementID, youtube.Video{ID: o.VideoID, Title: o.VideoTitle})

	case "video_ready":
		if r.api == nil {
			log.Warn("No simulated player API. Skipped.")
			return
		}
		r.api.SignalReady()

	case "video_state":
		if r.api == nil {
			log.Warn("No simulated player API. Skipped.")
			return
		}
		player, ok := r.api.Lookup(o.ElementID)
		if !ok {
			log.Warn("No video registered for element %q at line %d. Skipped.", o.ElementID, line)
			return
		}
		player.SetCurrentTime(o.Time)
		player.ChangeState(youtube.State(o.State))

	default:
		log.Debug("Unknown occurrence type %q at line %d. Skipped.", o.Type, line)
	}
}
