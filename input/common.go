package input

import (
	"github.com/devopsext/utils"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/wego-track/tracker/common"
	"github.com/wego-track/tracker/youtube"
)

var log = utils.GetLog()

var inputArmedSources = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "tracker_input_armed_sources",
	Help: "Count of all armed event sources",
}, []string{"tracker_input_type"})

// Handlers returns one handler per supported event source variant, ready to
// be registered with the dispatch engine.
func Handlers(api youtube.API) []common.Handler {

	return []common.Handler{
		NewLinkClickInput(),
		NewFormSubmitInput(),
		NewPodiumWidgetInput(),
		NewYouTubeVideoInput(api),
	}
}

func init() {
	prometheus.Register(inputArmedSources)
}
