// Package attribution captures first-touch traffic data once per session and
// resolves it into a human-readable label at emit time.
package attribution

import (
	"encoding/json"
	"net/url"
	"strings"

	"github.com/devopsext/utils"

	"github.com/wego-track/tracker/dom"
)

var log = utils.GetLog()

// Session storage slots. Both are written together exactly once per session.
const (
	utmKey      = "wego_utm_params"
	referrerKey = "wego_referrer"
)

// MarkerValue is the sentinel a hidden form field carries to be auto-filled
// with the resolved label.
const MarkerValue = "wego-traffic-source"

var utmParamNames = []string{"utm_source", "utm_medium", "utm_campaign", "utm_term", "utm_content"}

const malformedReferrerLimit = 100

// CaptureOnce records the UTM parameters and the external referrer into the
// session slots. It is idempotent: if either slot already holds a value the
// call is a no-op, so first-touch data from an earlier page view is never
// overwritten, even when one of the slots was stored empty.
func CaptureOnce(page *dom.Page) {

	if page == nil || page.Storage == nil {
		return
	}

	if _, ok := page.Storage.Get(utmKey); ok {
		return
	}

	if _, ok := page.Storage.Get(referrerKey); ok {
		return
	}

	params := make(map[string]string)

	if page.URL != nil {

		query := page.URL.Query()

		for _, name := range utmParamNames {
			if value := query.Get(name); value != "" {
				params[name] = value
			}
		}
	}

	encoded, err := json.Marshal(params)
	if err != nil {
		log.Error(err)
		encoded = []byte("{}")
	}

	referrer := strings.TrimSpace(page.Referrer)

	if referrer != "" {

		// Internal navigation is not a traffic source. A referrer whose
		// hostname cannot be determined is kept so the label resolver can
		// degrade it safely.
		if u, err := url.Parse(referrer); err == nil && u.Hostname() != "" {
			if strings.EqualFold(u.Hostname(), page.Hostname()) {
				referrer = ""
			}
		}
	}

	// Both slots are always written, even empty, so the no-op check above
	// stays reliable on later page views.
	page.Storage.Set(utmKey, string(encoded))
	page.Storage.Set(referrerKey, referrer)

	log.Debug("Captured attribution: utm=%s referrer=%q", string(encoded), referrer)
}

// ResolveLabel computes the traffic-source label from the stored slots.
// Precedence: tracked UTM medium, then referrer classification, then Direct.
func ResolveLabel(storage dom.Storage) string {

	if storage == nil {
		return "Direct"
	}

	params := storedUTMParams(storage)

	if medium := params["utm_medium"]; medium != "" {

		if term := params["utm_term"]; term != "" {
			return "Tracked: " + medium + " - " + term
		}

		return "Tracked: " + medium
	}

	referrer, _ := storage.Get(referrerKey)

	if referrer != "" {

		u, err := url.Parse(referrer)
		if err != nil || u.Hostname() == "" {
			return malformedReferrerLabel(referrer)
		}

		hostname := strings.ToLower(u.Hostname())

		if label, ok := knownSourceIndex[hostname]; ok {
			return label
		}

		return "Referral from " + hostname
	}

	return "Direct"
}

func storedUTMParams(storage dom.Storage) map[string]string {

	raw, ok := storage.Get(utmKey)
	if !ok || raw == "" {
		return nil
	}

	var params map[string]string

	if err := json.Unmarshal([]byte(raw), &params); err != nil {
		log.Debug("Can't decode stored UTM params: %v", err)
		return nil
	}

	return params
}

func malformedReferrerLabel(referrer string) string {

	runes := []rune(referrer)

	if len(runes) > malformedReferrerLimit {
		return "Malformed Referral: " + string(runes[:malformedReferrerLimit]) + "…"
	}

	return "Malformed Referral: " + referrer
}
