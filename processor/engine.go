package processor

import (
	"github.com/devopsext/utils"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/wego-track/tracker/attribution"
	"github.com/wego-track/tracker/classify"
	"github.com/wego-track/tracker/common"
	"github.com/wego-track/tracker/dom"
)

var processorEmittedEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "tracker_processor_emitted_events",
	Help: "Count of all emitted tracked events",
}, []string{"tracker_processor_slug"})

var processorConfigErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "tracker_processor_config_errors",
	Help: "Count of all rejected tracking configurations",
}, []string{})

// Engine dispatches tracked events to their handlers and is the single
// chokepoint every handler emits through. It has two states: uninitialized
// (before Initialize, or after Initialize rejected the configuration) and
// armed. There is no teardown; the engine lives for the page lifetime.
type Engine struct {
	page     *dom.Page
	outputs  *common.Outputs
	registry map[string]common.Handler
	endpoint string
	armed    bool
}

func NewEngine(page *dom.Page, outputs *common.Outputs, handlers ...common.Handler) *Engine {

	registry := make(map[string]common.Handler)

	for _, h := range handlers {
		if h != nil {
			registry[h.Type()] = h
		}
	}

	return &Engine{
		page:     page,
		outputs:  outputs,
		registry: registry,
	}
}

// Initialize validates the inbound configuration and arms a handler for
// every recognized tracked event. A missing or invalid configuration is
// logged and leaves the engine uninitialized; the page is otherwise
// unaffected. Tracked events with an unrecognized source type, or missing a
// slug or source, are skipped silently.
func (e *Engine) Initialize(raw []byte) {

	if len(raw) == 0 {
		log.Debug("No tracking configuration. Skipped.")
		return
	}

	cfg, err := common.ParseConfiguration(raw)
	if err != nil {
		processorConfigErrors.WithLabelValues().Inc()
		log.Error("Invalid tracking configuration: %v", err)
		return
	}

	e.endpoint = cfg.Endpoint
	e.armed = true

	for idx := range cfg.TrackedEvents {

		event := &cfg.TrackedEvents[idx]

		if utils.IsEmpty(event.Slug) || event.EventSource == nil {
			continue
		}

		handler, ok := e.registry[event.EventSource.Type]
		if !ok {
			continue
		}

		slug := event.Slug

		handler.Arm(e.page, event, func(primaryValue string, auxData interface{}) {
			e.Emit(slug, primaryValue, auxData)
		})
	}
}

// Armed reports whether Initialize accepted a configuration.
func (e *Engine) Armed() bool {
	return e.armed
}

// Emit composes the full payload for one occurrence, resolving attribution
// and context classification at call time, and hands it to the outputs.
func (e *Engine) Emit(slug string, primaryValue string, auxData interface{}) {

	if !e.armed {
		return
	}

	pageURL := ""
	if e.page.URL != nil {
		pageURL = e.page.URL.String()
	}

	payload := &common.EventPayload{
		EventType:       slug,
		PrimaryValue:    primaryValue,
		TrafficSource:   attribution.ResolveLabel(e.page.Storage),
		DeviceType:      classify.DeviceType(e.page.UserAgent, e.page.ViewportWidth),
		PageURL:         pageURL,
		BrowserFamily:   classify.BrowserFamily(e.page.UserAgent),
		OSFamily:        classify.OSFamily(e.page.UserAgent),
		EventSourceData: auxData,
	}

	processorEmittedEvents.WithLabelValues(slug).Inc()

	if err := e.outputs.Send(e.endpoint, payload); err != nil {
		log.Error("Can't send payload for tracked event %s: %v", slug, err)
	}
}

func init() {
	prometheus.Register(processorEmittedEvents)
	prometheus.Register(processorConfigErrors)
}
