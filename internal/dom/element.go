package dom

import (
	"bytes"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// Element is a handle on an element node of a Document. Two handles on the
// same node are interchangeable; compare them with Same.
type Element struct {
	doc  *Document
	node *html.Node
}

func (e *Element) Node() *html.Node {
	return e.node
}

// Same reports whether both handles point at the same node
func (e *Element) Same(other *Element) bool {
	return e != nil && other != nil && e.node == other.node
}

func (e *Element) Tag() string {
	return e.node.Data
}

func (e *Element) ID() string {
	return attr(e.node, "id")
}

// Attr returns the attribute value and whether it is present
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// GetAttr returns the attribute value, "" when absent
func (e *Element) GetAttr(name string) string {
	return attr(e.node, name)
}

func (e *Element) HasAttr(name string) bool {
	_, ok := e.Attr(name)
	return ok
}

func (e *Element) SetAttr(name, value string) {
	for i, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == name {
			e.node.Attr[i].Val = value
			return
		}
	}
	e.node.Attr = append(e.node.Attr, html.Attribute{Key: name, Val: value})
}

func (e *Element) RemoveAttr(name string) {
	kept := e.node.Attr[:0]
	for _, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == name {
			continue
		}
		kept = append(kept, a)
	}
	e.node.Attr = kept
}

// Data returns the data-{key} attribute
func (e *Element) Data(key string) string {
	return e.GetAttr("data-" + key)
}

func (e *Element) SetData(key, value string) {
	e.SetAttr("data-"+key, value)
}

func (e *Element) classes() []string {
	return strings.Fields(e.GetAttr("class"))
}

func (e *Element) HasClass(name string) bool {
	for _, c := range e.classes() {
		if c == name {
			return true
		}
	}
	return false
}

func (e *Element) AddClass(names ...string) {
	classes := e.classes()
	for _, name := range names {
		if !e.HasClass(name) {
			classes = append(classes, name)
			e.SetAttr("class", strings.Join(classes, " "))
		}
	}
}

func (e *Element) RemoveClass(names ...string) {
	if !e.HasAttr("class") {
		return
	}
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	var kept []string
	for _, c := range e.classes() {
		if !drop[c] {
			kept = append(kept, c)
		}
	}
	e.SetAttr("class", strings.Join(kept, " "))
}

// ToggleClass adds name when force is true and removes it otherwise
func (e *Element) ToggleClass(name string, force bool) {
	if force {
		e.AddClass(name)
		return
	}
	e.RemoveClass(name)
}

// Text returns the concatenated text of the element and its descendants
func (e *Element) Text() string {
	var b strings.Builder
	walk(e.node, func(n *html.Node) bool {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		return true
	})
	return b.String()
}

// SetText replaces all children with a single text node
func (e *Element) SetText(text string) {
	e.Clear()
	e.node.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

// Clear removes all children, dropping their listeners
func (e *Element) Clear() {
	for c := e.node.FirstChild; c != nil; {
		next := c.NextSibling
		e.node.RemoveChild(c)
		e.doc.forget(c)
		c = next
	}
}

// Remove detaches the element from its parent, dropping its listeners
func (e *Element) Remove() {
	if e.node.Parent != nil {
		e.node.Parent.RemoveChild(e.node)
	}
	e.doc.forget(e.node)
}

// SetInnerHTML replaces the children with the parsed fragment
func (e *Element) SetInnerHTML(fragment string) error {
	nodes, err := html.ParseFragment(strings.NewReader(fragment), e.node)
	if err != nil {
		return err
	}
	e.Clear()
	for _, n := range nodes {
		e.node.AppendChild(n)
	}
	return nil
}

// AppendHTML parses fragment and appends it after the existing children
func (e *Element) AppendHTML(fragment string) error {
	nodes, err := html.ParseFragment(strings.NewReader(fragment), e.node)
	if err != nil {
		return err
	}
	for _, n := range nodes {
		e.node.AppendChild(n)
	}
	return nil
}

// AppendChild moves child to the end of e's children
func (e *Element) AppendChild(child *Element) {
	if child.node.Parent != nil {
		child.node.Parent.RemoveChild(child.node)
	}
	e.node.AppendChild(child.node)
}

// After inserts sibling directly after e
func (e *Element) After(sibling *Element) {
	if e.node.Parent == nil {
		return
	}
	if sibling.node.Parent != nil {
		sibling.node.Parent.RemoveChild(sibling.node)
	}
	e.node.Parent.InsertBefore(sibling.node, e.node.NextSibling)
}

// InnerHTML renders the children
func (e *Element) InnerHTML() string {
	var buf bytes.Buffer
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return ""
		}
	}
	return buf.String()
}

// OuterHTML renders the element itself
func (e *Element) OuterHTML() string {
	var buf bytes.Buffer
	if err := html.Render(&buf, e.node); err != nil {
		return ""
	}
	return buf.String()
}

// Children returns the element children
func (e *Element) Children() []*Element {
	var out []*Element
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, e.doc.wrap(c))
		}
	}
	return out
}

// Parent returns the parent element, nil at the top
func (e *Element) Parent() *Element {
	p := e.node.Parent
	if p == nil || p.Type != html.ElementNode {
		return nil
	}
	return e.doc.wrap(p)
}

func (e *Element) NextElementSibling() *Element {
	for s := e.node.NextSibling; s != nil; s = s.NextSibling {
		if s.Type == html.ElementNode {
			return e.doc.wrap(s)
		}
	}
	return nil
}

// Is reports whether the element matches sel
func (e *Element) Is(sel string) bool {
	s, err := cascadia.Compile(sel)
	if err != nil {
		return false
	}
	return s.Match(e.node)
}

// Closest returns the element or its nearest ancestor matching sel
func (e *Element) Closest(sel string) *Element {
	s, err := cascadia.Compile(sel)
	if err != nil {
		return nil
	}
	for n := e.node; n != nil; n = n.Parent {
		if n.Type == html.ElementNode && s.Match(n) {
			return e.doc.wrap(n)
		}
	}
	return nil
}

// Query returns the first descendant matching sel
func (e *Element) Query(sel string) *Element {
	all := e.QueryAll(sel)
	if len(all) == 0 {
		return nil
	}
	return all[0]
}

// QueryAll returns the descendants matching sel, excluding e itself
func (e *Element) QueryAll(sel string) []*Element {
	s, err := cascadia.Compile(sel)
	if err != nil {
		return nil
	}
	var out []*Element
	for _, n := range s.MatchAll(e.node) {
		if n != e.node {
			out = append(out, e.doc.wrap(n))
		}
	}
	return out
}

// Style returns the value of one inline style property
func (e *Element) Style(property string) string {
	for _, decl := range strings.Split(e.GetAttr("style"), ";") {
		k, v, ok := strings.Cut(decl, ":")
		if ok && strings.TrimSpace(k) == property {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// SetStyle sets one inline style property; an empty value removes it
func (e *Element) SetStyle(property, value string) {
	var decls []string
	for _, decl := range strings.Split(e.GetAttr("style"), ";") {
		k, _, ok := strings.Cut(decl, ":")
		if !ok || strings.TrimSpace(k) == property {
			continue
		}
		decls = append(decls, strings.TrimSpace(decl))
	}
	if value != "" {
		decls = append(decls, property+": "+value)
	}
	if len(decls) == 0 {
		e.RemoveAttr("style")
		return
	}
	e.SetAttr("style", strings.Join(decls, "; "))
}

// SetStyleDisplay sets style display ("" restores the stylesheet default)
func (e *Element) SetStyleDisplay(value string) {
	e.SetStyle("display", value)
}

func (e *Element) Disabled() bool {
	return e.HasAttr("disabled")
}

func (e *Element) SetDisabled(disabled bool) {
	if disabled {
		e.SetAttr("disabled", "")
		return
	}
	e.RemoveAttr("disabled")
}

// Value returns the value attribute of a form control
func (e *Element) Value() string {
	return e.GetAttr("value")
}

// Connected reports whether the element is still attached to its document
func (e *Element) Connected() bool {
	for n := e.node; n != nil; n = n.Parent {
		if n == e.doc.root {
			return true
		}
	}
	return false
}
