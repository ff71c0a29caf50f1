package pipeline

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/inkpost/mdrender/internal/htmltree"
)

var headingTags = []string{"h1", "h2", "h3", "h4", "h5", "h6"}

// Sectionize wraps each heading and the content it governs in a
// <section> carrying the heading's slug, level class, and data
// attributes, nesting sections by heading hierarchy. Heading text is
// wrapped in a self-referencing anchor. Runs between conversion and
// postprocessing so the postprocessor chain stays idempotent over its
// own output.
func Sectionize(src string, c *Context) string {
	doc, err := c.Document(src)
	if err != nil {
		c.logger().Warn("sectionizer: parse failed, leaving HTML unchanged",
			"input_len", len(src), "err", err)
		return src
	}

	sectionizeContainer(doc.Body(), false, c)

	out, err := c.Commit(doc)
	if err != nil {
		c.logger().Warn("sectionizer: render failed, leaving HTML unchanged", "err", err)
		c.Invalidate()
		return src
	}
	return out
}

// sectionizeContainer walks parent's children and wraps each heading
// found at this level. skipFirst leaves the container's own heading
// (its first element child) alone.
func sectionizeContainer(parent *html.Node, skipFirst bool, c *Context) {
	child := parent.FirstChild
	if skipFirst {
		for child != nil && child.Type != html.ElementNode {
			child = child.NextSibling
		}
		if child != nil {
			child = child.NextSibling
		}
	}

	for child != nil {
		if !htmltree.IsElement(child, headingTags...) {
			child = child.NextSibling
			continue
		}
		section := wrapHeading(child, c)
		sectionizeContainer(section, true, c)
		child = section.NextSibling
	}
}

// wrapHeading converts one heading into a section subtree and returns
// the section, leaving it where the heading stood.
func wrapHeading(heading *html.Node, c *Context) *html.Node {
	level := headingLevel(heading)
	text := strings.TrimSpace(htmltree.Text(heading))
	slug := c.UniqueSlug(Slugify(text))

	htmltree.AddClass(heading, "heading")
	if htmltree.GetAttr(heading, "id") == "" {
		htmltree.SetAttr(heading, "id", slug)
	}
	htmltree.SetAttr(heading, "data-level", strconv.Itoa(level))
	htmltree.SetAttr(heading, "data-slug", slug)

	anchorHeadingContent(heading, slug, text)

	section := htmltree.NewElement("section")
	htmltree.AddClass(section, "block", fmt.Sprintf("level%d", level))
	htmltree.SetAttr(section, "id", slug)
	htmltree.SetAttr(section, "data-level", strconv.Itoa(level))
	htmltree.SetAttr(section, "data-slug", slug)

	htmltree.InsertBefore(heading, section)
	htmltree.Append(section, heading)

	// Pull following siblings in until a heading of the same or
	// higher rank ends this section's reach.
	for {
		next := section.NextSibling
		if next == nil {
			break
		}
		if htmltree.IsWhitespace(next) {
			htmltree.Append(section, next)
			continue
		}
		if htmltree.IsElement(next, headingTags...) && headingLevel(next) <= level {
			break
		}
		htmltree.Append(section, next)
	}

	return section
}

// anchorHeadingContent wraps the heading's inline content in a link to
// its own section. A heading already holding a single anchor keeps it,
// with the href and title refreshed.
func anchorHeadingContent(heading *html.Node, slug, text string) {
	href := "#" + slug
	title := fmt.Sprintf("Link to section: § '%s'", text)

	children := htmltree.MeaningfulChildren(heading)
	if len(children) == 1 && htmltree.IsElement(children[0], "a") {
		htmltree.SetAttr(children[0], "href", href)
		htmltree.SetAttr(children[0], "title", title)
		return
	}

	anchor := htmltree.NewElement("a")
	htmltree.SetAttr(anchor, "href", href)
	htmltree.SetAttr(anchor, "title", title)
	for heading.FirstChild != nil {
		htmltree.Append(anchor, heading.FirstChild)
	}
	heading.AppendChild(anchor)
}

func headingLevel(n *html.Node) int {
	level := int(n.Data[1] - '0')
	if level < 1 || level > 6 {
		return 6
	}
	return level
}
