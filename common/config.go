package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/devopsext/utils"
)

var log = utils.GetLog()

// Event source type tags. Tags not listed here may still appear in a
// configuration; the engine skips them silently.
const (
	TypeLinkClick    = "link_click"
	TypeFormSubmit   = "form_submit"
	TypePodiumWidget = "podium_widget"
	TypeYouTubeVideo = "youtube_video"
)

// EventSource is the trigger condition of a tracked event. The union over
// variants is discriminated by Type; only the criteria fields a variant
// uses are populated.
type EventSource struct {
	Type     string   `json:"type"`
	Selector string   `json:"selector,omitempty"`
	Events   []string `json:"events,omitempty"`
	States   []string `json:"states,omitempty"`
}

// TrackedEvent pairs a collector-side identifier with its trigger condition.
type TrackedEvent struct {
	Slug        string       `json:"slug"`
	EventSource *EventSource `json:"eventSource"`
}

// TrackingConfiguration is the inbound configuration document, loaded once
// per page.
type TrackingConfiguration struct {
	Endpoint      string         `json:"endpoint"`
	TrackedEvents []TrackedEvent `json:"trackedEvents"`
}

// ParseConfiguration decodes and validates the inbound configuration.
// The endpoint must be an absolute URL and trackedEvents must be present;
// individual tracked events are not validated here, the engine skips the
// unusable ones.
func ParseConfiguration(raw []byte) (*TrackingConfiguration, error) {

	var cfg TrackingConfiguration

	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, err
	}

	if utils.IsEmpty(cfg.Endpoint) {
		return nil, errors.New("configuration endpoint is missing")
	}

	u, err := url.Parse(cfg.Endpoint)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return nil, fmt.Errorf("configuration endpoint %q is not an absolute URL", cfg.Endpoint)
	}

	if cfg.TrackedEvents == nil {
		return nil, errors.New("configuration trackedEvents is missing")
	}

	return &cfg, nil
}
