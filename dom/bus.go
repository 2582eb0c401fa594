package dom

import "golang.org/x/net/html"

type ClickFunc func(target *html.Node)
type SubmitFunc func(form *html.Node)
type CustomFunc func(detail interface{})

// Bus carries page occurrences to delegated listeners. Clicks and native
// form submits are delivered to every subscriber; custom signals are keyed
// by their event name the way DOM custom events are.
type Bus struct {
	clicks  []ClickFunc
	submits []SubmitFunc
	custom  map[string][]CustomFunc
}

func NewBus() *Bus {
	return &Bus{
		custom: make(map[string][]CustomFunc),
	}
}

func (b *Bus) OnClick(fn ClickFunc) {
	b.clicks = append(b.clicks, fn)
}

func (b *Bus) OnSubmit(fn SubmitFunc) {
	b.submits = append(b.submits, fn)
}

func (b *Bus) OnCustom(name string, fn CustomFunc) {
	b.custom[name] = append(b.custom[name], fn)
}

// Click delivers a click occurrence on the target node.
func (b *Bus) Click(target *html.Node) {

	if target == nil {
		return
	}

	for _, fn := range b.clicks {
		fn(target)
	}
}

// Submit delivers a native submit occurrence on the form node.
func (b *Bus) Submit(form *html.Node) {

	if form == nil {
		return
	}

	for _, fn := range b.submits {
		fn(form)
	}
}

// DispatchCustom delivers a named custom signal with its payload.
func (b *Bus) DispatchCustom(name string, detail interface{}) {

	for _, fn := range b.custom[name] {
		fn(detail)
	}
}
