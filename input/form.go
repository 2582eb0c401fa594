package input

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/devopsext/utils"
	"golang.org/x/net/html"

	"github.com/wego-track/tracker/common"
	"github.com/wego-track/tracker/dom"
)

// Plugin signals for AJAX-only form builders. Each plugin ships its own
// event name and payload shape.
const (
	signalContactForm7 = "wpcf7mailsent"             // detail is the form element
	signalGravityForms = "gform_confirmation_loaded" // detail is a numeric form id
	signalNinjaForms   = "nfFormSubmitResponse"      // detail is a nested response object
)

// Forms matching these markers submit over AJAX and announce themselves via
// the plugin signals above; native submit must skip them to avoid double
// counting.
var ajaxPluginMarkers = []string{
	".wpcf7",
	`[id^="gform_wrapper_"]`,
	`[id^="gform_"]`,
	".nf-form-cont",
	`[id^="nf-form-"]`,
}

// FormSubmitInput arms a delegated native submit listener plus one listener
// per known AJAX form plugin signal.
type FormSubmitInput struct{}

func NewFormSubmitInput() *FormSubmitInput {
	return &FormSubmitInput{}
}

func (i *FormSubmitInput) Type() string {
	return common.TypeFormSubmit
}

func (i *FormSubmitInput) Arm(page *dom.Page, event *common.TrackedEvent, emit common.EmitFunc) {

	selector := event.EventSource.Selector

	if utils.IsEmpty(selector) {
		log.Warn("Tracked event %s has no selector. Skipped.", event.Slug)
		return
	}

	if len(dom.Query(event.Slug, selector, page.Doc)) == 0 {
		log.Warn("Selector %q for tracked event %s matches nothing. Skipped.", selector, event.Slug)
		return
	}

	slug := event.Slug

	page.Bus.OnSubmit(func(form *html.Node) {

		matched := dom.Closest(slug, selector, form)
		if matched == nil {
			return
		}

		for _, marker := range ajaxPluginMarkers {
			if dom.Closest(slug, marker, matched) != nil {
				return
			}
		}

		emit(formPrimaryValue(matched, ""), nil)
	})

	page.Bus.OnCustom(signalContactForm7, func(detail interface{}) {

		form, ok := detail.(*html.Node)
		if !ok {
			log.Warn("%s detail for tracked event %s is not a form element. Skipped.", signalContactForm7, slug)
			return
		}

		if dom.Closest(slug, selector, form) == nil {
			return
		}

		emit(formPrimaryValue(form, ""), nil)
	})

	page.Bus.OnCustom(signalGravityForms, func(detail interface{}) {

		id, ok := numericDetail(detail)
		if !ok {
			log.Warn("%s detail for tracked event %s has no form id. Skipped.", signalGravityForms, slug)
			return
		}

		form := dom.QueryFirst(slug, fmt.Sprintf(`#gform_wrapper_%d form`, id), page.Doc)
		if form == nil {
			form = dom.QueryFirst(slug, fmt.Sprintf("#gform_%d", id), page.Doc)
		}

		if form == nil {
			log.Warn("Form %d for %s is not in the document (tracked event %s). Skipped.", id, signalGravityForms, slug)
			return
		}

		if dom.Closest(slug, selector, form) == nil {
			return
		}

		emit(formPrimaryValue(form, ""), nil)
	})

	page.Bus.OnCustom(signalNinjaForms, func(detail interface{}) {

		id, title, ok := ninjaFormResponse(detail)
		if !ok {
			log.Warn("%s detail for tracked event %s has no form id. Skipped.", signalNinjaForms, slug)
			return
		}

		form := dom.QueryFirst(slug, fmt.Sprintf(`#nf-form-%d-cont form`, id), page.Doc)
		if form == nil {
			form = dom.QueryFirst(slug, fmt.Sprintf("#nf-form-%d-cont", id), page.Doc)
		}

		if form == nil {
			log.Warn("Form %d for %s is not in the document (tracked event %s). Skipped.", id, signalNinjaForms, slug)
			return
		}

		if dom.Closest(slug, selector, form) == nil {
			return
		}

		emit(formPrimaryValue(form, title), nil)
	})

	inputArmedSources.WithLabelValues(common.TypeFormSubmit).Inc()
}

// formPrimaryValue resolves the human-meaningful name of a form. Precedence:
// plugin-supplied override, then title, aria-label, id, name, role and
// action attributes, then a literal fallback.
func formPrimaryValue(form *html.Node, override string) string {

	if override != "" {
		return override
	}

	for _, name := range []string{"title", "aria-label", "id", "name", "role", "action"} {
		if value, ok := dom.Attr(form, name); ok && strings.TrimSpace(value) != "" {
			return value
		}
	}

	return "Unknown form"
}

// numericDetail extracts a numeric form id from a plugin payload. Decoded
// JSON carries numbers as float64; replayed payloads may carry them as
// strings.
func numericDetail(detail interface{}) (int, bool) {

	switch v := detail.(type) {
	case int:
		return v, true
	case float64:
		return int(v), true
	case string:
		id, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, false
		}
		return id, true
	}

	return 0, false
}

// ninjaFormResponse traverses the nested response payload down to
// response.data.form_id, picking up an optional settings title on the way.
func ninjaFormResponse(detail interface{}) (int, string, bool) {

	root, ok := detail.(map[string]interface{})
	if !ok {
		return 0, "", false
	}

	response, ok := root["response"].(map[string]interface{})
	if !ok {
		return 0, "", false
	}

	data, ok := response["data"].(map[string]interface{})
	if !ok {
		return 0, "", false
	}

	id, ok := numericDetail(data["form_id"])
	if !ok {
		return 0, "", false
	}

	title := ""

	if settings, ok := data["settings"].(map[string]interface{}); ok {
		title, _ = settings["title"].(string)
	}

	return id, title, true
}
