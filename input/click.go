package input

import (
	"github.com/devopsext/utils"
	"golang.org/x/net/html"

	"github.com/wego-track/tracker/common"
	"github.com/wego-track/tracker/dom"
)

// LinkClickInput arms a delegated click listener. A click qualifies when the
// clicked node or one of its ancestors matches the configured selector and
// the matched element carries an href attribute. Elements without href, like
// buttons styled as links, never fire.
type LinkClickInput struct{}

func NewLinkClickInput() *LinkClickInput {
	return &LinkClickInput{}
}

func (i *LinkClickInput) Type() string {
	return common.TypeLinkClick
}

func (i *LinkClickInput) Arm(page *dom.Page, event *common.TrackedEvent, emit common.EmitFunc) {

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

	page.Bus.OnClick(func(target *html.Node) {

		matched := dom.Closest(slug, selector, target)
		if matched == nil {
			return
		}

		// href attribute value verbatim, not resolved to an absolute URL
		href, ok := dom.Attr(matched, "href")
		if !ok {
			return
		}

		emit(href, nil)
	})

	inputArmedSources.WithLabelValues(common.TypeLinkClick).Inc()
}
