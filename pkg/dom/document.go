package dom

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	// ErrInvalidSelector is returned when a CSS or XPath selector cannot be
	// compiled.
	ErrInvalidSelector = errors.New("dom: invalid selector")
	// ErrForeignElement signals an attempt to mix elements from two documents.
	ErrForeignElement = errors.New("dom: element belongs to another document")
	// ErrHierarchy signals an append that would create a cycle.
	ErrHierarchy = errors.New("dom: hierarchy request error")
)

const blankPage = "<!DOCTYPE html><html><head></head><body></body></html>"

// Document is an in-memory HTML document backed by golang.org/x/net/html. It
// exposes the small host surface the form builder relies on: element
// creation, attribute updates, child append, cloning, selector queries and
// event dispatch.
//
// Tree reads and writes are guarded by a single RWMutex so timer callbacks
// running on their own goroutine observe consistent state. Listeners always
// run outside the lock.
type Document struct {
	mu   sync.RWMutex
	root *html.Node

	cacheMu  sync.Mutex
	elements map[*html.Node]*Element
	nextID   uint64
}

// NewDocument returns an empty HTML page with head and body.
func NewDocument() *Document {
	doc, err := ParseString(blankPage)
	if err != nil {
		panic(fmt.Errorf("dom: parse blank page: %w", err))
	}
	return doc
}

// Parse reads an HTML page into a Document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("dom: parse: %w", err)
	}
	return &Document{
		root:     root,
		elements: make(map[*html.Node]*Element),
	}, nil
}

// ParseString is Parse over an in-memory string.
func ParseString(page string) (*Document, error) {
	return Parse(strings.NewReader(page))
}

// Root returns the underlying document node.
func (d *Document) Root() *html.Node {
	return d.root
}

// Body returns the <body> element. html.Parse always synthesises one.
func (d *Document) Body() *Element {
	d.mu.RLock()
	n := findElement(d.root, atom.Body)
	d.mu.RUnlock()
	if n == nil {
		return nil
	}
	return d.wrap(n)
}

// CreateElement builds a detached element owned by the document.
func (d *Document) CreateElement(tag string) *Element {
	name := strings.ToLower(strings.TrimSpace(tag))
	node := &html.Node{
		Type:     html.ElementNode,
		Data:     name,
		DataAtom: atom.Lookup([]byte(name)),
	}
	return d.wrap(node)
}

// QuerySelector returns the first element matching selector, or nil when the
// selector is valid but nothing matches. Selectors starting with "/" or "("
// are evaluated as XPath, anything else as CSS.
func (d *Document) QuerySelector(selector string) (*Element, error) {
	nodes, err := d.query(selector, true)
	if err != nil || len(nodes) == 0 {
		return nil, err
	}
	return d.wrap(nodes[0]), nil
}

// QuerySelectorAll returns every element matching selector in document order.
func (d *Document) QuerySelectorAll(selector string) ([]*Element, error) {
	nodes, err := d.query(selector, false)
	if err != nil {
		return nil, err
	}
	out := make([]*Element, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, d.wrap(n))
	}
	return out, nil
}

func (d *Document) query(selector string, first bool) ([]*html.Node, error) {
	trimmed := strings.TrimSpace(selector)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty selector", ErrInvalidSelector)
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if isXPath(trimmed) {
		nodes, err := htmlquery.QueryAll(d.root, trimmed)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidSelector, trimmed, err)
		}
		out := nodes[:0]
		for _, n := range nodes {
			if n.Type == html.ElementNode {
				out = append(out, n)
			}
		}
		if first && len(out) > 1 {
			out = out[:1]
		}
		return out, nil
	}

	compiled, err := cascadia.Compile(trimmed)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidSelector, trimmed, err)
	}
	var matcher goquery.Matcher = compiled
	if first {
		matcher = goquery.SingleMatcher(compiled)
	}
	return goquery.NewDocumentFromNode(d.root).FindMatcher(matcher).Nodes, nil
}

func isXPath(selector string) bool {
	return strings.HasPrefix(selector, "/") || strings.HasPrefix(selector, "(")
}

// Render serialises the whole document.
func (d *Document) Render(w io.Writer) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return html.Render(w, d.root)
}

// HTML returns the serialised document.
func (d *Document) HTML() (string, error) {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return "", fmt.Errorf("dom: render: %w", err)
	}
	return buf.String(), nil
}

// Element returns the wrapper for n. Callers holding raw nodes (for example
// from htmlquery) use it to get back to the element API.
func (d *Document) Element(n *html.Node) *Element {
	if n == nil || n.Type != html.ElementNode {
		return nil
	}
	return d.wrap(n)
}

func (d *Document) wrap(n *html.Node) *Element {
	d.cacheMu.Lock()
	defer d.cacheMu.Unlock()
	if el, ok := d.elements[n]; ok {
		return el
	}
	el := &Element{doc: d, node: n}
	d.elements[n] = el
	return el
}

func (d *Document) lookup(n *html.Node) (*Element, bool) {
	d.cacheMu.Lock()
	defer d.cacheMu.Unlock()
	el, ok := d.elements[n]
	return el, ok
}

func (d *Document) nextListenerID() uint64 {
	d.cacheMu.Lock()
	defer d.cacheMu.Unlock()
	d.nextID++
	return d.nextID
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n == nil {
		return nil
	}
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}
