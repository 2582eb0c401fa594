package dom

import (
	"net/url"

	"golang.org/x/net/html"
)

// WidgetCallbackFunc receives external widget events.
type WidgetCallbackFunc func(event string, properties map[string]interface{})

// Page is the environment a tracking session runs against: the parsed
// document, the page location, the visitor context and the occurrence bus.
type Page struct {
	Doc           *html.Node
	URL           *url.URL
	Referrer      string
	UserAgent     string
	ViewportWidth int
	Storage       Storage
	Bus           *Bus

	// Single page-wide widget callback slot. Installing a new callback
	// overwrites the previous one; last write wins.
	widgetCallback WidgetCallbackFunc
}

func NewPage(doc *html.Node, pageURL *url.URL) *Page {
	return &Page{
		Doc:     doc,
		URL:     pageURL,
		Storage: MapStorage{},
		Bus:     NewBus(),
	}
}

// SetWidgetCallback installs the page-wide widget callback, replacing any
// previously installed one.
func (p *Page) SetWidgetCallback(fn WidgetCallbackFunc) {
	p.widgetCallback = fn
}

// FireWidgetEvent invokes the installed widget callback, if any.
func (p *Page) FireWidgetEvent(event string, properties map[string]interface{}) {

	if p.widgetCallback == nil {
		log.Debug("No widget callback installed. Skipped.")
		return
	}

	p.widgetCallback(event, properties)
}

// Hostname returns the page URL hostname, or empty when unknown.
func (p *Page) Hostname() string {

	if p.URL == nil {
		return ""
	}

	return p.URL.Hostname()
}
