package common

// EventPayload is the normalized record sent to the collector. The
// contextual fields are resolved at the moment the occurrence fires, not at
// arm time. EventSourceData is only present for variants producing
// structured auxiliary detail; when a handler supplies none the key is
// absent from the serialized document entirely.
type EventPayload struct {
	EventType       string      `json:"event_type"`
	PrimaryValue    string      `json:"primary_value"`
	TrafficSource   string      `json:"traffic_source"`
	DeviceType      string      `json:"device_type"`
	PageURL         string      `json:"page_url"`
	BrowserFamily   string      `json:"browser_family"`
	OSFamily        string      `json:"os_family"`
	EventSourceData interface{} `json:"event_source_data,omitempty"`
}
