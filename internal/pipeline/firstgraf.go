package pipeline

import (
	"golang.org/x/net/html"

	"github.com/inkpost/mdrender/internal/htmltree"
)

// firstParagraphStage marks lead paragraphs with the first-graf class:
// the opening paragraph of a section (headings skipped over), the
// paragraph directly after a heading, list, image, figure, blockquote,
// div, or rule, and the opening paragraph of list items and
// blockquotes. Abstracts mark only their first paragraph.
func firstParagraphStage(src string, c *Context) (string, error) {
	doc, err := c.Document(src)
	if err != nil {
		return "", err
	}

	if c.IsAbstract {
		if p := firstByTag(doc.Body(), "p"); p != nil {
			htmltree.AddClass(p, "first-graf")
		}
		return c.Commit(doc)
	}

	for _, section := range htmltree.ElementsByTag(doc.Body(), "section") {
		if p := leadParagraph(section, headingTags...); p != nil {
			htmltree.AddClass(p, "first-graf")
		}
	}

	for _, el := range htmltree.ElementsByTag(doc.Body(), headingTags...) {
		markFollowingParagraph(el)
	}
	for _, el := range htmltree.ElementsByTag(doc.Body(), "ul", "ol") {
		markFollowingParagraph(el)
	}

	for _, li := range htmltree.ElementsByTag(doc.Body(), "li") {
		if p := leadParagraph(li); p != nil {
			htmltree.AddClass(p, "first-graf")
		}
	}
	for _, bq := range htmltree.ElementsByTag(doc.Body(), "blockquote") {
		if p := leadParagraph(bq); p != nil {
			htmltree.AddClass(p, "first-graf")
		}
	}

	for _, el := range htmltree.ElementsByTag(doc.Body(), "img", "figure", "blockquote", "div", "hr") {
		markFollowingParagraph(el)
	}

	return c.Commit(doc)
}

// leadParagraph returns the first child paragraph of parent, looking
// past whitespace and any of the skip tags, and stopping at any other
// element.
func leadParagraph(parent *html.Node, skip ...string) *html.Node {
	for child := parent.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != html.ElementNode {
			continue
		}
		if child.Data == "p" {
			return child
		}
		if len(skip) > 0 && htmltree.IsElement(child, skip...) {
			continue
		}
		return nil
	}
	return nil
}

// markFollowingParagraph marks el's next sibling when it is a
// paragraph, skipping whitespace in between.
func markFollowingParagraph(el *html.Node) {
	next := htmltree.NextElement(el)
	if htmltree.IsElement(next, "p") {
		htmltree.AddClass(next, "first-graf")
	}
}
