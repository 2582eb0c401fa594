package input

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wego-track/tracker/common"
	"github.com/wego-track/tracker/dom"
)

func formEvent(slug, selector string) *common.TrackedEvent {
	return &common.TrackedEvent{
		Slug:        slug,
		EventSource: &common.EventSource{Type: common.TypeFormSubmit, Selector: selector},
	}
}

func TestFormSubmitNativeEmit(t *testing.T) {

	page := testPage(t, `
		<html><body>
			<form id="contact" title="Contact Us"><input name="email"></form>
		</body></html>`)

	var emits []emitted

	NewFormSubmitInput().Arm(page, formEvent("contact-submits", "form"), collector(&emits))

	form := dom.QueryFirst("test", "#contact", page.Doc)
	require.NotNil(t, form)

	page.Bus.Submit(form)

	require.Len(t, emits, 1)
	assert.Equal(t, "Contact Us", emits[0].primaryValue)
}

func TestFormPrimaryValuePrecedence(t *testing.T) {

	tests := []struct {
		name     string
		form     string
		expected string
	}{
		{"title wins", `<form id="f" title="Quote Request" aria-label="al" name="n"></form>`, "Quote Request"},
		{"aria-label next", `<form id="f" aria-label="Request a Quote" name="n"></form>`, "Request a Quote"},
		{"id next", `<form id="quote-form" name="n" role="search"></form>`, "quote-form"},
		{"name next", `<form name="newsletter" role="search"></form>`, "newsletter"},
		{"role next", `<form role="search" action="/find"></form>`, "search"},
		{"action next", `<form action="/find"></form>`, "/find"},
		{"fallback", `<form></form>`, "Unknown form"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {

			page := testPage(t, "<html><body>"+tt.form+"</body></html>")

			var emits []emitted

			NewFormSubmitInput().Arm(page, formEvent("forms", "form"), collector(&emits))

			form := dom.QueryFirst("test", "form", page.Doc)
			require.NotNil(t, form)

			page.Bus.Submit(form)

			require.Len(t, emits, 1)
			assert.Equal(t, tt.expected, emits[0].primaryValue)
		})
	}
}

func TestFormSubmitSkipsAjaxPluginForms(t *testing.T) {

	page := testPage(t, `
		<html><body>
			<div class="wpcf7"><form id="cf7" class="wpcf7-form"></form></div>
			<div id="gform_wrapper_3"><form id="gform_3" action="/gf"></form></div>
			<div id="nf-form-7-cont"><form id="nf7"></form></div>
			<form id="native" title="Native"></form>
		</body></html>`)

	var emits []emitted

	NewFormSubmitInput().Arm(page, formEvent("forms", "form"), collector(&emits))

	for _, id := range []string{"cf7", "gform_3", "nf7"} {
		form := dom.QueryFirst("test", "#"+id, page.Doc)
		require.NotNil(t, form)
		page.Bus.Submit(form)
	}

	assert.Empty(t, emits, "plugin forms announce themselves via their own signals")

	native := dom.QueryFirst("test", "#native", page.Doc)
	page.Bus.Submit(native)

	require.Len(t, emits, 1)
	assert.Equal(t, "Native", emits[0].primaryValue)
}

func TestContactForm7Signal(t *testing.T) {

	page := testPage(t, `
		<html><body>
			<div class="wpcf7"><form id="cf7" class="wpcf7-form" title="Get in touch"></form></div>
		</body></html>`)

	var emits []emitted

	NewFormSubmitInput().Arm(page, formEvent("forms", "form"), collector(&emits))

	form := dom.QueryFirst("test", "#cf7", page.Doc)
	require.NotNil(t, form)

	page.Bus.DispatchCustom("wpcf7mailsent", form)

	require.Len(t, emits, 1)
	assert.Equal(t, "Get in touch", emits[0].primaryValue)

	// payloads that are not form elements are skipped, not fatal
	assert.NotPanics(t, func() {
		page.Bus.DispatchCustom("wpcf7mailsent", "not a node")
	})
	assert.Len(t, emits, 1)
}

func TestGravityFormsSignal(t *testing.T) {

	page := testPage(t, `
		<html><body>
			<div id="gform_wrapper_3"><form id="gform_3" action="/gf"></form></div>
		</body></html>`)

	var emits []emitted

	NewFormSubmitInput().Arm(page, formEvent("forms", "form"), collector(&emits))

	// decoded JSON delivers numbers as float64
	page.Bus.DispatchCustom("gform_confirmation_loaded", float64(3))

	require.Len(t, emits, 1)
	assert.Equal(t, "gform_3", emits[0].primaryValue)

	page.Bus.DispatchCustom("gform_confirmation_loaded", float64(9))
	assert.Len(t, emits, 1, "unknown form id is skipped")

	page.Bus.DispatchCustom("gform_confirmation_loaded", map[string]interface{}{})
	assert.Len(t, emits, 1, "non-numeric detail is skipped")
}

func TestNinjaFormsSignal(t *testing.T) {

	page := testPage(t, `
		<html><body>
			<div id="nf-form-7-cont"><form id="nf7"></form></div>
		</body></html>`)

	var emits []emitted

	NewFormSubmitInput().Arm(page, formEvent("forms", "form"), collector(&emits))

	detail := map[string]interface{}{
		"response": map[string]interface{}{
			"data": map[string]interface{}{
				"form_id": float64(7),
				"settings": map[string]interface{}{
					"title": "Newsletter Signup",
				},
			},
		},
	}

	page.Bus.DispatchCustom("nfFormSubmitResponse", detail)

	require.Len(t, emits, 1)
	assert.Equal(t, "Newsletter Signup", emits[0].primaryValue, "plugin-supplied title overrides attributes")

	// a response without the nested form id is skipped
	page.Bus.DispatchCustom("nfFormSubmitResponse", map[string]interface{}{"response": map[string]interface{}{}})
	assert.Len(t, emits, 1)
}

func TestFormSubmitOutsideSelectorNeverEmits(t *testing.T) {

	page := testPage(t, `
		<html><body>
			<form id="wanted" class="tracked" title="Wanted"></form>
			<form id="other" title="Other"></form>
		</body></html>`)

	var emits []emitted

	NewFormSubmitInput().Arm(page, formEvent("forms", "form.tracked"), collector(&emits))

	other := dom.QueryFirst("test", "#other", page.Doc)
	page.Bus.Submit(other)

	assert.Empty(t, emits)
}

func TestNumericDetailShapes(t *testing.T) {

	tests := []struct {
		detail   interface{}
		expected int
		ok       bool
	}{
		{float64(5), 5, true},
		{7, 7, true},
		{" 12 ", 12, true},
		{"abc", 0, false},
		{nil, 0, false},
		{[]interface{}{1}, 0, false},
	}

	for i, tt := range tests {
		t.Run(fmt.Sprintf("case_%d", i), func(t *testing.T) {
			id, ok := numericDetail(tt.detail)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, id)
		})
	}
}
