package input

import (
	"github.com/wego-track/tracker/common"
	"github.com/wego-track/tracker/dom"
)

// PodiumWidgetInput installs the single page-wide widget callback. Arming a
// second tracked event of this variant overwrites the first; only one is
// expected per page and the last registered wins. The callback emits only
// for event names in the configured set, using the name verbatim as the
// primary value.
type PodiumWidgetInput struct{}

func NewPodiumWidgetInput() *PodiumWidgetInput {
	return &PodiumWidgetInput{}
}

func (i *PodiumWidgetInput) Type() string {
	return common.TypePodiumWidget
}

func (i *PodiumWidgetInput) Arm(page *dom.Page, event *common.TrackedEvent, emit common.EmitFunc) {

	if len(event.EventSource.Events) == 0 {
		log.Warn("Tracked event %s accepts no widget events.", event.Slug)
	}

	accepted := make(map[string]bool)

	for _, name := range event.EventSource.Events {
		accepted[name] = true
	}

	page.SetWidgetCallback(func(name string, properties map[string]interface{}) {

		if !accepted[name] {
			return
		}

		emit(name, nil)
	})

	inputArmedSources.WithLabelValues(common.TypePodiumWidget).Inc()
}
