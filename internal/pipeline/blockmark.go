package pipeline

import (
	"golang.org/x/net/html"

	"github.com/inkpost/mdrender/internal/htmltree"
)

// blockElementOrder lists the element types that count as discrete
// content blocks. Processing order matters: once an outer element is
// marked, anything nested under it is skipped.
var blockElementOrder = []string{
	"p", "section", "ul", "ol", "figure", "blockquote",
	"pre", "table", "div", "hr", "dl",
}

var blockElements = func() map[string]bool {
	m := make(map[string]bool, len(blockElementOrder))
	for _, tag := range blockElementOrder {
		m[tag] = true
	}
	return m
}()

// blockMarkerStage adds the block class to outermost content blocks.
// Nested occurrences are skipped: a paragraph inside a list item or
// blockquote is part of its parent's block, and only the outermost of
// nested lists is a block. Sections and headers are transparent for
// this purpose. Abstracts leave paragraphs unmarked.
func blockMarkerStage(src string, c *Context) (string, error) {
	doc, err := c.Document(src)
	if err != nil {
		return "", err
	}

	for _, tag := range blockElementOrder {
		for _, el := range htmltree.ElementsByTag(doc.Body(), tag) {
			if c.IsAbstract && tag == "p" {
				continue
			}
			if nestedInBlock(el) {
				continue
			}
			htmltree.AddClass(el, "block")
		}
	}

	return c.Commit(doc)
}

func nestedInBlock(el *html.Node) bool {
	isParagraph := el.Data == "p"
	isList := el.Data == "ul" || el.Data == "ol"

	for parent := el.Parent; parent != nil && !htmltree.IsElement(parent, "body"); parent = parent.Parent {
		if parent.Type != html.ElementNode {
			continue
		}

		if isParagraph || isList {
			switch parent.Data {
			case "ul", "ol", "li", "blockquote":
				return true
			case "section", "header":
				continue
			}
		}

		if blockElements[parent.Data] && htmltree.HasClass(parent, "block") {
			return true
		}
	}
	return false
}
