package pipeline

import (
	"fmt"
	"regexp"

	"golang.org/x/net/html"

	"github.com/inkpost/mdrender/internal/htmltree"
)

// Float markers authors write at the start of a blockquote:
// {>>} floats right, {<<} floats left.
var (
	floatRightMarker = regexp.MustCompile(`^\s*\{>>\}\s*`)
	floatLeftMarker  = regexp.MustCompile(`^\s*\{<<\}\s*`)
)

// blockquoteStage adds nesting-level classes to blockquotes and turns
// leading float markers into float wrapper divs.
func blockquoteStage(src string, c *Context) (string, error) {
	doc, err := c.Document(src)
	if err != nil {
		return "", err
	}

	quotes := htmltree.ElementsByTag(doc.Body(), "blockquote")
	if len(quotes) == 0 {
		return src, nil
	}

	for _, bq := range quotes {
		direction := stripFloatMarker(bq)

		level := htmltree.CountAncestors(bq, "blockquote") + 1
		htmltree.AddClass(bq, fmt.Sprintf("blockquote-level-%d", level))

		if direction != "" {
			wrapper := htmltree.NewElement("div")
			htmltree.AddClass(wrapper, "float", "float-"+direction)
			htmltree.InsertBefore(bq, wrapper)
			htmltree.Append(wrapper, bq)
		}
	}

	return c.Commit(doc)
}

// stripFloatMarker removes a float marker from the blockquote's first
// meaningful content and reports the direction ("right", "left", "").
// The marker may sit directly in the blockquote or at the start of its
// first paragraph or div.
func stripFloatMarker(bq *html.Node) string {
	for child := bq.FirstChild; child != nil; child = child.NextSibling {
		switch {
		case child.Type == html.TextNode:
			if htmltree.IsWhitespace(child) {
				continue
			}
			return stripMarkerFromText(child)
		case child.Type == html.ElementNode:
			if htmltree.IsElement(child, "p", "div") {
				return stripMarkerFromFirstText(child)
			}
			return ""
		}
	}
	return ""
}

func stripMarkerFromFirstText(el *html.Node) string {
	for c := el.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.TextNode {
			continue
		}
		if htmltree.IsWhitespace(c) {
			continue
		}
		return stripMarkerFromText(c)
	}
	return ""
}

func stripMarkerFromText(text *html.Node) string {
	switch {
	case floatRightMarker.MatchString(text.Data):
		text.Data = floatRightMarker.ReplaceAllString(text.Data, "")
		return "right"
	case floatLeftMarker.MatchString(text.Data):
		text.Data = floatLeftMarker.ReplaceAllString(text.Data, "")
		return "left"
	}
	return ""
}

// epigraphStage restructures epigraph fenced divs and unwraps text
// alignment divs, pushing their class onto the contained paragraphs.
func epigraphStage(src string, c *Context) (string, error) {
	doc, err := c.Document(src)
	if err != nil {
		return "", err
	}

	changed := false

	for _, class := range []string{"text-center", "text-right"} {
		for _, div := range htmltree.ElementsByClass(doc.Body(), "div", class) {
			for _, p := range htmltree.ChildElements(div) {
				if p.Data == "p" {
					htmltree.AddClass(p, class)
				}
			}
			htmltree.Unwrap(div)
			changed = true
		}
	}

	for _, div := range htmltree.ElementsByClass(doc.Body(), "div", "epigraph") {
		changed = true
		htmltree.AddClass(div, "block")

		var bq *html.Node
		for _, child := range htmltree.ChildElements(div) {
			if child.Data == "blockquote" {
				bq = child
				break
			}
		}
		if bq == nil {
			continue
		}
		htmltree.AddClass(bq, "block")
		htmltree.PrependClass(bq, "first-block", "last-block")

		var paras []*html.Node
		for _, child := range htmltree.ChildElements(bq) {
			if child.Data == "p" {
				paras = append(paras, child)
			}
		}
		for i, p := range paras {
			if i == len(paras)-1 {
				htmltree.PrependClass(p, "last-block")
			}
			if i == 0 {
				htmltree.PrependClass(p, "first-block", "first-graf")
			}
		}
	}

	if !changed {
		return src, nil
	}
	return c.Commit(doc)
}
