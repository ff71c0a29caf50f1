package pipeline

import (
	"golang.org/x/net/html"

	"github.com/inkpost/mdrender/internal/htmltree"
)

// admonitionTypes lists the supported callout kinds, each entered in
// markdown as a fenced div with class admonition-<type>.
var admonitionTypes = []string{"tip", "note", "warning", "error"}

// admonitionStage restructures admonition containers: the marker class
// becomes "admonition <type> block", a leading heading becomes an
// admonition-title div, and direct paragraphs get first-graf marking.
func admonitionStage(src string, c *Context) (string, error) {
	doc, err := c.Document(src)
	if err != nil {
		return "", err
	}

	changed := false
	for _, kind := range admonitionTypes {
		marker := "admonition-" + kind
		var containers []*html.Node
		containers = append(containers, htmltree.ElementsByClass(doc.Body(), "div", marker)...)
		// The sectionizer may have wrapped the fenced div's heading,
		// turning the container into a section.
		containers = append(containers, htmltree.ElementsByClass(doc.Body(), "section", marker)...)

		for _, container := range containers {
			changed = true
			enhanceAdmonition(container, kind, marker)
		}
	}

	if !changed {
		return src, nil
	}
	return c.Commit(doc)
}

func enhanceAdmonition(container *html.Node, kind, marker string) {
	if container.Data == "section" {
		htmltree.Rename(container, "div")
	}

	htmltree.RemoveClass(container, marker)
	htmltree.PrependClass(container, "admonition", kind)
	htmltree.AddClass(container, "block")

	if first := firstAdmonitionChild(container); first != nil && htmltree.IsElement(first, "h1", "h2", "h3", "h4", "h5", "h6") {
		convertHeadingToTitle(first)
	}

	var paras []*html.Node
	for _, child := range htmltree.ChildElements(container) {
		if child.Data == "p" {
			paras = append(paras, child)
		}
	}
	for i, p := range paras {
		htmltree.RemoveClass(p, "block")
		if i == 0 {
			htmltree.PrependClass(p, "first-graf")
		}
	}
}

func firstAdmonitionChild(container *html.Node) *html.Node {
	for c := container.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return c
		}
	}
	return nil
}

// convertHeadingToTitle replaces a heading with
// <div class="admonition-title"><p class="first-graf">…</p></div>,
// dropping any section link button the heading may carry.
func convertHeadingToTitle(heading *html.Node) {
	title := htmltree.NewElement("div")
	htmltree.AddClass(title, "admonition-title")

	p := htmltree.NewElement("p")
	htmltree.AddClass(p, "first-graf")

	for child := heading.FirstChild; child != nil; {
		next := child.NextSibling
		if !htmltree.IsElement(child, "button") {
			htmltree.Detach(child)
			htmltree.Append(p, child)
		}
		child = next
	}

	htmltree.Append(title, p)
	htmltree.ReplaceWith(heading, title)
}
