package dom

import (
	"io"
	"strings"

	"github.com/devopsext/utils"
	"golang.org/x/net/html"
)

var log = utils.GetLog()

// ParseDocument parses a full HTML document.
func ParseDocument(r io.Reader) (*html.Node, error) {
	return html.Parse(r)
}

// ParseDocumentString parses a full HTML document from a string.
func ParseDocumentString(content string) (*html.Node, error) {
	return ParseDocument(strings.NewReader(content))
}

// Attr returns the value of an attribute and whether the attribute
// is present at all. An empty attribute value still reports presence.
func Attr(n *html.Node, name string) (string, bool) {

	if n == nil {
		return "", false
	}

	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, name) {
			return a.Val, true
		}
	}

	return "", false
}

// SetAttr sets an attribute value, replacing an existing one.
func SetAttr(n *html.Node, name, value string) {

	if n == nil {
		return
	}

	for i := range n.Attr {
		if strings.EqualFold(n.Attr[i].Key, name) {
			n.Attr[i].Val = value
			return
		}
	}

	n.Attr = append(n.Attr, html.Attribute{Key: name, Val: value})
}
