package dom

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Element wraps an element node of a Document. Wrappers are cached per node,
// so two lookups of the same node return the same *Element and share
// listeners.
type Element struct {
	doc  *Document
	node *html.Node

	// guarded by doc.mu
	value     string
	valueSet  bool
	listeners []listener
}

// Document returns the owning document.
func (e *Element) Document() *Document {
	return e.doc
}

// HTMLNode exposes the underlying node for read-only inspection.
func (e *Element) HTMLNode() *html.Node {
	return e.node
}

// Tag returns the lowercase tag name.
func (e *Element) Tag() string {
	return e.node.Data
}

// Attr returns the attribute value and whether it is present.
func (e *Element) Attr(key string) (string, bool) {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	return attr(e.node, key)
}

// GetAttribute returns the attribute value or "" when absent.
func (e *Element) GetAttribute(key string) string {
	v, _ := e.Attr(key)
	return v
}

// HasAttribute reports whether key is present.
func (e *Element) HasAttribute(key string) bool {
	_, ok := e.Attr(key)
	return ok
}

// SetAttribute creates or replaces an attribute.
func (e *Element) SetAttribute(key, value string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	setAttr(e.node, key, value)
}

// RemoveAttribute drops key when present.
func (e *Element) RemoveAttribute(key string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	removeAttr(e.node, key)
}

// Attributes returns a copy of the attribute list in source order.
func (e *Element) Attributes() []html.Attribute {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	out := make([]html.Attribute, len(e.node.Attr))
	copy(out, e.node.Attr)
	return out
}

// ID returns the id attribute.
func (e *Element) ID() string {
	return e.GetAttribute("id")
}

// SetID assigns the id attribute.
func (e *Element) SetID(id string) {
	e.SetAttribute("id", id)
}

// AppendChild moves child under e, detaching it from any previous parent.
func (e *Element) AppendChild(child *Element) error {
	if child == nil {
		return nil
	}
	if child.doc != e.doc {
		return ErrForeignElement
	}

	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()

	for n := e.node; n != nil; n = n.Parent {
		if n == child.node {
			return fmt.Errorf("%w: <%s> cannot contain its ancestor <%s>", ErrHierarchy, e.node.Data, child.node.Data)
		}
	}
	if child.node.Parent != nil {
		child.node.Parent.RemoveChild(child.node)
	}
	e.node.AppendChild(child.node)
	return nil
}

// Remove detaches e from its parent.
func (e *Element) Remove() {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	if e.node.Parent != nil {
		e.node.Parent.RemoveChild(e.node)
	}
}

// Parent returns the parent element, or nil for detached nodes and the root.
func (e *Element) Parent() *Element {
	e.doc.mu.RLock()
	p := e.node.Parent
	e.doc.mu.RUnlock()
	if p == nil || p.Type != html.ElementNode {
		return nil
	}
	return e.doc.wrap(p)
}

// Children returns the element children in order. Text and comment nodes are
// skipped.
func (e *Element) Children() []*Element {
	e.doc.mu.RLock()
	var nodes []*html.Node
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			nodes = append(nodes, c)
		}
	}
	e.doc.mu.RUnlock()

	out := make([]*Element, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, e.doc.wrap(n))
	}
	return out
}

// CloneNode copies e. A shallow clone keeps attributes only; a deep clone
// also copies every descendant node. Listeners and value properties are not
// copied.
func (e *Element) CloneNode(deep bool) *Element {
	e.doc.mu.RLock()
	clone := cloneNode(e.node, deep)
	e.doc.mu.RUnlock()
	return e.doc.wrap(clone)
}

// CloneTree deep-copies e together with the listeners and value properties of
// every element in the subtree.
func (e *Element) CloneTree() *Element {
	type pair struct{ src, dst *html.Node }
	var pairs []pair

	e.doc.mu.RLock()
	var walk func(src *html.Node) *html.Node
	walk = func(src *html.Node) *html.Node {
		dst := cloneNode(src, false)
		if src.Type == html.ElementNode {
			pairs = append(pairs, pair{src, dst})
		}
		for c := src.FirstChild; c != nil; c = c.NextSibling {
			dst.AppendChild(walk(c))
		}
		return dst
	}
	root := walk(e.node)
	e.doc.mu.RUnlock()

	for _, p := range pairs {
		src, ok := e.doc.lookup(p.src)
		if !ok {
			continue
		}
		dst := e.doc.wrap(p.dst)
		e.doc.mu.Lock()
		dst.value, dst.valueSet = src.value, src.valueSet
		for _, l := range src.listeners {
			dst.listeners = append(dst.listeners, listener{id: e.doc.nextListenerID(), kind: l.kind, fn: l.fn})
		}
		e.doc.mu.Unlock()
	}
	return e.doc.wrap(root)
}

// Text returns the concatenated text of e and its descendants.
func (e *Element) Text() string {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	var b strings.Builder
	collectText(e.node, &b)
	return b.String()
}

// SetText replaces every child of e with a single text node.
func (e *Element) SetText(text string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	removeChildren(e.node)
	if text != "" {
		e.node.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	}
}

// InnerHTML serialises the children of e.
func (e *Element) InnerHTML() (string, error) {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	var buf bytes.Buffer
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", fmt.Errorf("dom: render inner html: %w", err)
		}
	}
	return buf.String(), nil
}

// SetInnerHTML parses markup in the context of e and replaces its children.
func (e *Element) SetInnerHTML(markup string) error {
	context := &html.Node{Type: html.ElementNode, Data: e.node.Data, DataAtom: e.node.DataAtom}
	nodes, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		return fmt.Errorf("dom: parse inner html: %w", err)
	}

	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	removeChildren(e.node)
	for _, n := range nodes {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
		e.node.AppendChild(n)
	}
	return nil
}

// OuterHTML serialises e itself.
func (e *Element) OuterHTML() (string, error) {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	var buf bytes.Buffer
	if err := html.Render(&buf, e.node); err != nil {
		return "", fmt.Errorf("dom: render outer html: %w", err)
	}
	return buf.String(), nil
}

// Value mirrors the live value property of form controls. Until SetValue is
// called, inputs report their value attribute, textareas their text and
// selects the value of the first selected option (or of the first option).
func (e *Element) Value() string {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	if e.valueSet {
		return e.value
	}
	switch e.node.DataAtom {
	case atom.Textarea:
		var b strings.Builder
		collectText(e.node, &b)
		return b.String()
	case atom.Select:
		return selectedValue(e.node)
	default:
		v, _ := attr(e.node, "value")
		return v
	}
}

// SetValue updates the live value. For selects the option whose value matches
// becomes the only selected option, mirroring the property assignment of a
// browser.
func (e *Element) SetValue(value string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	if e.node.DataAtom == atom.Select {
		for _, opt := range options(e.node) {
			if optionValue(opt) == value {
				setAttr(opt, "selected", "")
			} else {
				removeAttr(opt, "selected")
			}
		}
		return
	}
	e.value, e.valueSet = value, true
}

// ResetValue forgets the live value so Value falls back to markup.
func (e *Element) ResetValue() {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	e.value, e.valueSet = "", false
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func setAttr(n *html.Node, key, value string) {
	for i := range n.Attr {
		if n.Attr[i].Namespace == "" && n.Attr[i].Key == key {
			n.Attr[i].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: value})
}

func removeAttr(n *html.Node, key string) {
	out := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			continue
		}
		out = append(out, a)
	}
	n.Attr = out
}

func cloneNode(n *html.Node, deep bool) *html.Node {
	clone := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
	}
	if len(n.Attr) > 0 {
		clone.Attr = make([]html.Attribute, len(n.Attr))
		copy(clone.Attr, n.Attr)
	}
	if deep {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			clone.AppendChild(cloneNode(c, true))
		}
	}
	return clone
}

func removeChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
}

func collectText(n *html.Node, b *strings.Builder) {
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b)
	}
}

func options(n *html.Node) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(p *html.Node) {
		for c := p.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			if c.DataAtom == atom.Option {
				out = append(out, c)
				continue
			}
			if c.DataAtom == atom.Optgroup {
				walk(c)
			}
		}
	}
	walk(n)
	return out
}

func optionValue(opt *html.Node) string {
	if v, ok := attr(opt, "value"); ok {
		return v
	}
	var b strings.Builder
	collectText(opt, &b)
	return strings.TrimSpace(b.String())
}

func selectedValue(sel *html.Node) string {
	opts := options(sel)
	for _, opt := range opts {
		if _, ok := attr(opt, "selected"); ok {
			return optionValue(opt)
		}
	}
	if len(opts) > 0 {
		return optionValue(opts[0])
	}
	return ""
}
