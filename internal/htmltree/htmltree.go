// Package htmltree wraps golang.org/x/net/html with fragment-oriented
// parsing, rendering, and mutation helpers shared by the enhancement
// pipeline. This isolates the external dependency so the tree library
// can be swapped without modifying callers.
package htmltree

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	ErrParse  = errors.New("htmltree: parse failed")
	ErrRender = errors.New("htmltree: render failed")
)

// Document holds a parsed HTML fragment. The fragment is wrapped in a
// full html/head/body frame by the parser; Render serializes only the
// body children so round-tripping never accretes wrapper elements.
type Document struct {
	root *html.Node
	body *html.Node
}

// Parse parses an HTML fragment into a mutable tree.
func Parse(fragment string) (*Document, error) {
	root, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	body := findBody(root)
	if body == nil {
		return nil, fmt.Errorf("%w: no body element", ErrParse)
	}
	return &Document{root: root, body: body}, nil
}

// Body returns the implicit body element containing the fragment.
func (d *Document) Body() *html.Node {
	return d.body
}

// Render serializes the body children back to an HTML fragment.
func (d *Document) Render() (string, error) {
	var b strings.Builder
	for c := d.body.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&b, c); err != nil {
			return "", fmt.Errorf("%w: %v", ErrRender, err)
		}
	}
	return b.String(), nil
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Body {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if body := findBody(c); body != nil {
			return body
		}
	}
	return nil
}

// NewElement creates a detached element node.
func NewElement(tag string) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
}

// Rename changes an element's tag in place, keeping attributes and
// children.
func Rename(n *html.Node, tag string) {
	n.Data = tag
	n.DataAtom = atom.Lookup([]byte(tag))
}

// NewText creates a detached text node.
func NewText(text string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: text}
}

// IsElement reports whether n is an element with one of the given tags.
// With no tags it matches any element.
func IsElement(n *html.Node, tags ...string) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	if len(tags) == 0 {
		return true
	}
	for _, t := range tags {
		if n.Data == t {
			return true
		}
	}
	return false
}

// IsWhitespace reports whether n is a text node containing only whitespace.
func IsWhitespace(n *html.Node) bool {
	return n != nil && n.Type == html.TextNode && strings.TrimSpace(n.Data) == ""
}

// Walk visits n and its descendants in document order. The visitor
// returns false to skip the node's children.
func Walk(n *html.Node, visit func(*html.Node) bool) {
	if !visit(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		Walk(c, visit)
	}
}

// FindAll returns all descendants of root matching the predicate, in
// document order. The result is a snapshot, so callers may mutate the
// tree while iterating over it.
func FindAll(root *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	Walk(root, func(n *html.Node) bool {
		if n != root && match(n) {
			out = append(out, n)
		}
		return true
	})
	return out
}

// ElementsByTag returns all descendant elements with one of the given tags.
func ElementsByTag(root *html.Node, tags ...string) []*html.Node {
	return FindAll(root, func(n *html.Node) bool { return IsElement(n, tags...) })
}

// ElementsByClass returns all descendant elements carrying the class.
// An empty tag matches any element.
func ElementsByClass(root *html.Node, tag, class string) []*html.Node {
	return FindAll(root, func(n *html.Node) bool {
		if tag != "" && !IsElement(n, tag) {
			return false
		}
		return IsElement(n) && HasClass(n, class)
	})
}

// First returns the first descendant matching the predicate, or nil.
func First(root *html.Node, match func(*html.Node) bool) *html.Node {
	var found *html.Node
	Walk(root, func(n *html.Node) bool {
		if found != nil {
			return false
		}
		if n != root && match(n) {
			found = n
			return false
		}
		return true
	})
	return found
}

// GetAttr returns the value of the named attribute, or "".
func GetAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// HasAttr reports whether the attribute is present, even if empty.
func HasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

// SetAttr sets or replaces an attribute.
func SetAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// RemoveAttr deletes an attribute if present.
func RemoveAttr(n *html.Node, key string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			return
		}
	}
}

// Classes returns the element's class list in attribute order.
func Classes(n *html.Node) []string {
	return strings.Fields(GetAttr(n, "class"))
}

// HasClass reports whether the element carries the class.
func HasClass(n *html.Node, class string) bool {
	for _, c := range Classes(n) {
		if c == class {
			return true
		}
	}
	return false
}

// AddClass appends classes not already present, preserving order.
func AddClass(n *html.Node, classes ...string) {
	existing := Classes(n)
	for _, c := range classes {
		dup := false
		for _, e := range existing {
			if e == c {
				dup = true
				break
			}
		}
		if !dup {
			existing = append(existing, c)
		}
	}
	SetAttr(n, "class", strings.Join(existing, " "))
}

// PrependClass inserts classes at the front of the class list,
// dropping any existing occurrence first.
func PrependClass(n *html.Node, classes ...string) {
	kept := make([]string, 0, len(classes)+len(n.Attr))
	for _, e := range Classes(n) {
		drop := false
		for _, c := range classes {
			if e == c {
				drop = true
				break
			}
		}
		if !drop {
			kept = append(kept, e)
		}
	}
	SetAttr(n, "class", strings.Join(append(append([]string{}, classes...), kept...), " "))
}

// RemoveClass drops classes from the class list. The class attribute is
// removed entirely when the list becomes empty.
func RemoveClass(n *html.Node, classes ...string) {
	kept := make([]string, 0, 4)
	for _, e := range Classes(n) {
		drop := false
		for _, c := range classes {
			if e == c {
				drop = true
				break
			}
		}
		if !drop {
			kept = append(kept, e)
		}
	}
	if len(kept) == 0 {
		RemoveAttr(n, "class")
		return
	}
	SetAttr(n, "class", strings.Join(kept, " "))
}

// Detach removes n from its parent, leaving it reusable elsewhere.
func Detach(n *html.Node) {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// Append moves n to the end of parent's children.
func Append(parent, n *html.Node) {
	Detach(n)
	parent.AppendChild(n)
}

// Prepend moves n to the front of parent's children.
func Prepend(parent, n *html.Node) {
	Detach(n)
	if parent.FirstChild != nil {
		parent.InsertBefore(n, parent.FirstChild)
		return
	}
	parent.AppendChild(n)
}

// InsertBefore moves n to the position immediately before ref.
func InsertBefore(ref, n *html.Node) {
	Detach(n)
	ref.Parent.InsertBefore(n, ref)
}

// InsertAfter moves n to the position immediately after ref.
func InsertAfter(ref, n *html.Node) {
	Detach(n)
	if ref.NextSibling != nil {
		ref.Parent.InsertBefore(n, ref.NextSibling)
		return
	}
	ref.Parent.AppendChild(n)
}

// ReplaceWith swaps old for n in old's parent, detaching old.
func ReplaceWith(old, n *html.Node) {
	Detach(n)
	old.Parent.InsertBefore(n, old)
	old.Parent.RemoveChild(old)
}

// Unwrap replaces n with its own children.
func Unwrap(n *html.Node) {
	for n.FirstChild != nil {
		c := n.FirstChild
		n.RemoveChild(c)
		n.Parent.InsertBefore(c, n)
	}
	n.Parent.RemoveChild(n)
}

// Empty removes all children of n.
func Empty(n *html.Node) {
	for n.FirstChild != nil {
		n.RemoveChild(n.FirstChild)
	}
}

// Text returns the concatenated text content of n and its descendants.
func Text(n *html.Node) string {
	var b strings.Builder
	Walk(n, func(c *html.Node) bool {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
		return true
	})
	return b.String()
}

// ChildElements returns the direct element children of n.
func ChildElements(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, c)
		}
	}
	return out
}

// MeaningfulChildren returns direct children that are elements or
// non-whitespace text nodes.
func MeaningfulChildren(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode || (c.Type == html.TextNode && !IsWhitespace(c)) {
			out = append(out, c)
		}
	}
	return out
}

// PrevElement returns the nearest preceding sibling element, skipping
// whitespace text and comments. A non-whitespace text node breaks the
// adjacency and yields nil.
func PrevElement(n *html.Node) *html.Node {
	for s := n.PrevSibling; s != nil; s = s.PrevSibling {
		switch {
		case s.Type == html.ElementNode:
			return s
		case s.Type == html.CommentNode, IsWhitespace(s):
			continue
		default:
			return nil
		}
	}
	return nil
}

// NextElement is the forward counterpart of PrevElement.
func NextElement(n *html.Node) *html.Node {
	for s := n.NextSibling; s != nil; s = s.NextSibling {
		switch {
		case s.Type == html.ElementNode:
			return s
		case s.Type == html.CommentNode, IsWhitespace(s):
			continue
		default:
			return nil
		}
	}
	return nil
}

// Ancestor returns the nearest ancestor with one of the given tags,
// stopping at (and excluding) the body element.
func Ancestor(n *html.Node, tags ...string) *html.Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.DataAtom == atom.Body {
			return nil
		}
		if IsElement(p, tags...) {
			return p
		}
	}
	return nil
}

// CountAncestors counts ancestors with one of the given tags, stopping
// at the body element.
func CountAncestors(n *html.Node, tags ...string) int {
	count := 0
	for p := n.Parent; p != nil; p = p.Parent {
		if p.DataAtom == atom.Body {
			break
		}
		if IsElement(p, tags...) {
			count++
		}
	}
	return count
}
