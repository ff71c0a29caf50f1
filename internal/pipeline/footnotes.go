package pipeline

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/inkpost/mdrender/internal/htmltree"
)

// backArrowPath is the up-arrow glyph drawn in footnote back links.
const backArrowPath = "M6.101 261.899L25.9 281.698c4.686 4.686 12.284 4.686 16.971 0L198 126.568V468c0 6.627 5.373 12 12 12h28c6.627 0 12-5.373 12-12V126.568l155.13 155.13c4.686 4.686 12.284 4.686 16.971 0l19.799-19.799c4.686-4.686 4.686-12.284 0-16.971L232.485 35.515c-4.686-4.686-12.284-4.686-16.971 0L6.101 244.929c-4.687 4.686-4.687 12.284 0 16.97z"

// footnoteStage enhances the footnotes section emitted by the markdown
// converter: block class on the container, a section self-link after
// its rule, and per-footnote classes, self-links, and SVG back links.
func footnoteStage(src string, c *Context) (string, error) {
	doc, err := c.Document(src)
	if err != nil {
		return "", err
	}

	container := findFootnotesContainer(doc.Body())
	if container == nil {
		return src, nil
	}

	htmltree.AddClass(container, "block")

	if hr := firstByTag(container, "hr"); hr != nil {
		next := htmltree.NextElement(hr)
		if next == nil || !htmltree.HasClass(next, "section-self-link") {
			link := htmltree.NewElement("a")
			htmltree.AddClass(link, "section-self-link", "graf-content-not")
			htmltree.SetAttr(link, "href", c.BaseURL+"#footnotes")
			htmltree.SetAttr(link, "title", "Link to section: § 'Footnotes'")
			htmltree.InsertAfter(hr, link)
		}
	}

	ol := firstByTag(container, "ol")
	if ol == nil {
		return c.Commit(doc)
	}

	idx := 0
	for _, li := range htmltree.ChildElements(ol) {
		if li.Data != "li" {
			continue
		}
		idx++
		enhanceFootnoteItem(li, idx, c.BaseURL)
	}

	return c.Commit(doc)
}

// findFootnotesContainer locates the converter's footnotes section,
// whichever container element it used.
func findFootnotesContainer(body *html.Node) *html.Node {
	for _, tag := range []string{"section", "div"} {
		for _, el := range htmltree.ElementsByTag(body, tag) {
			if htmltree.GetAttr(el, "id") == "footnotes" || htmltree.HasClass(el, "footnotes") {
				return el
			}
		}
	}
	return nil
}

func enhanceFootnoteItem(li *html.Node, idx int, baseURL string) {
	htmltree.AddClass(li, "footnote", "block")

	id := htmltree.GetAttr(li, "id")
	if id == "" {
		id = fmt.Sprintf("fn:%d", idx)
	}

	if !hasFootnoteSelfLink(li) {
		link := htmltree.NewElement("a")
		htmltree.AddClass(link, "footnote-self-link", "graf-content-not")
		htmltree.SetAttr(link, "href", baseURL+"#"+id)
		htmltree.SetAttr(link, "title", fmt.Sprintf("Link to footnote %d", idx))
		htmltree.Append(link, htmltree.NewText(" "))
		htmltree.Prepend(li, link)
	}

	if p := firstByTag(li, "p"); p != nil {
		htmltree.AddClass(p, "first-graf")
	}

	for _, a := range htmltree.ElementsByTag(li, "a") {
		if !htmltree.HasClass(a, "footnote-backref") {
			continue
		}
		if href := htmltree.GetAttr(a, "href"); strings.HasPrefix(href, "#") {
			htmltree.SetAttr(a, "href", baseURL+href)
		}
		if !htmltree.HasAttr(a, "role") {
			htmltree.SetAttr(a, "role", "doc-backlink")
		}

		htmltree.Empty(a)
		svg := htmltree.NewElement("svg")
		htmltree.SetAttr(svg, "xmlns", "http://www.w3.org/2000/svg")
		htmltree.SetAttr(svg, "viewbox", "0 0 448 512")
		path := htmltree.NewElement("path")
		htmltree.SetAttr(path, "d", backArrowPath)
		htmltree.Append(svg, path)
		htmltree.Append(a, svg)
	}
}

func firstByTag(root *html.Node, tag string) *html.Node {
	return htmltree.First(root, func(n *html.Node) bool {
		return htmltree.IsElement(n, tag)
	})
}

func hasFootnoteSelfLink(li *html.Node) bool {
	for c := li.FirstChild; c != nil; c = c.NextSibling {
		if htmltree.IsElement(c, "a") && htmltree.HasClass(c, "footnote-self-link") {
			return true
		}
	}
	return false
}
