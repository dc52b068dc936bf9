// Package dom is a small server-side document model over golang.org/x/net/html:
// selector queries, element helpers and an explicit event registry.
package dom

import (
	"bytes"
	"io"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document is a parsed HTML page plus the listeners bound to its elements
type Document struct {
	root      *html.Node
	listeners map[*html.Node]map[string][]Handler
	bound     map[*html.Node]map[string]bool
}

func newDocument(root *html.Node) *Document {
	return &Document{
		root:      root,
		listeners: make(map[*html.Node]map[string][]Handler),
		bound:     make(map[*html.Node]map[string]bool),
	}
}

// Parse reads a full HTML document
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	return newDocument(root), nil
}

// ParseString parses a full HTML document from a string
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// Render writes the document as HTML
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

// String renders the document, returning "" if rendering fails
func (d *Document) String() string {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return ""
	}
	return buf.String()
}

// Root returns the document node
func (d *Document) Root() *html.Node {
	return d.root
}

// Body returns the <body> element
func (d *Document) Body() *Element {
	return d.first(func(n *html.Node) bool { return n.Type == html.ElementNode && n.DataAtom == atom.Body })
}

// Query returns the first element matching sel, or nil. An invalid selector matches nothing.
func (d *Document) Query(sel string) *Element {
	s, err := cascadia.Compile(sel)
	if err != nil {
		return nil
	}
	return d.wrap(s.MatchFirst(d.root))
}

// QueryAll returns every element matching sel in document order
func (d *Document) QueryAll(sel string) []*Element {
	s, err := cascadia.Compile(sel)
	if err != nil {
		return nil
	}
	return d.wrapAll(s.MatchAll(d.root))
}

// ByID returns the first element carrying id
func (d *Document) ByID(id string) *Element {
	return d.first(func(n *html.Node) bool { return n.Type == html.ElementNode && attr(n, "id") == id })
}

// AllByID returns every element carrying id. Exported pages often repeat ids.
func (d *Document) AllByID(id string) []*Element {
	var out []*Element
	walk(d.root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && attr(n, "id") == id {
			out = append(out, d.wrap(n))
		}
		return true
	})
	return out
}

// CreateElement returns a detached element
func (d *Document) CreateElement(tag string) *Element {
	tag = strings.ToLower(tag)
	return d.wrap(&html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))})
}

// Element wraps n for this document; nil for nil
func (d *Document) Element(n *html.Node) *Element {
	return d.wrap(n)
}

func (d *Document) wrap(n *html.Node) *Element {
	if n == nil {
		return nil
	}
	return &Element{doc: d, node: n}
}

func (d *Document) wrapAll(nodes []*html.Node) []*Element {
	out := make([]*Element, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, d.wrap(n))
	}
	return out
}

func (d *Document) first(match func(*html.Node) bool) *Element {
	var found *html.Node
	walk(d.root, func(n *html.Node) bool {
		if match(n) {
			found = n
			return false
		}
		return true
	})
	return d.wrap(found)
}

// forget drops listeners and bindings of n and its descendants
func (d *Document) forget(n *html.Node) {
	walk(n, func(c *html.Node) bool {
		delete(d.listeners, c)
		delete(d.bound, c)
		return true
	})
}

// walk visits n and its descendants depth first until visit returns false
func walk(n *html.Node, visit func(*html.Node) bool) bool {
	if !visit(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walk(c, visit) {
			return false
		}
	}
	return true
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}
