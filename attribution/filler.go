package attribution

import (
	"strings"

	"github.com/wego-track/tracker/dom"
)

const fillerSlug = "marker-field-filler"

// FillMarkerFields replaces the value of every hidden input holding the
// marker sentinel with the resolved traffic-source label. Page authors drop
// a hidden field with the placeholder value and it auto-populates without
// per-form scripting. Runs once at load.
func FillMarkerFields(page *dom.Page) {

	if page == nil || page.Doc == nil {
		return
	}

	fields := dom.Query(fillerSlug, `input[type="hidden"]`, page.Doc)
	if len(fields) == 0 {
		return
	}

	label := ResolveLabel(page.Storage)
	filled := 0

	for _, field := range fields {

		value, ok := dom.Attr(field, "value")
		if !ok {
			continue
		}

		if !strings.EqualFold(strings.TrimSpace(value), MarkerValue) {
			continue
		}

		dom.SetAttr(field, "value", label)
		filled++
	}

	if filled > 0 {
		log.Debug("Filled %d marker fields with %q", filled, label)
	}
}
