package dom

import (
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// compile wraps cascadia so a malformed selector never escapes as a panic
// or an error the caller has to handle. It logs one diagnostic naming the
// selector and the tracked event it belongs to and reports no match.
func compile(slug, selector string) cascadia.Selector {

	sel, err := cascadia.Compile(selector)
	if err != nil {
		log.Warn("Invalid selector %q for tracked event %s: %v", selector, slug, err)
		return nil
	}

	return sel
}

// Query returns every node under root matching the selector.
// Malformed selectors yield an empty result.
func Query(slug, selector string, root *html.Node) []*html.Node {

	if root == nil {
		return nil
	}

	sel := compile(slug, selector)
	if sel == nil {
		return nil
	}

	return sel.MatchAll(root)
}

// QueryFirst returns the first node under root matching the selector, or nil.
func QueryFirst(slug, selector string, root *html.Node) *html.Node {

	if root == nil {
		return nil
	}

	sel := compile(slug, selector)
	if sel == nil {
		return nil
	}

	return sel.MatchFirst(root)
}

// Closest walks from the node up through its ancestors (inclusive) and
// returns the first element matching the selector, or nil.
// Malformed selectors yield nil.
func Closest(slug, selector string, n *html.Node) *html.Node {

	if n == nil {
		return nil
	}

	sel := compile(slug, selector)
	if sel == nil {
		return nil
	}

	for cur := n; cur != nil; cur = cur.Parent {

		if cur.Type != html.ElementNode {
			continue
		}

		if sel.Match(cur) {
			return cur
		}
	}

	return nil
}
