package pipeline

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/inkpost/mdrender/internal/htmltree"
)

// listTypeClasses maps CSS list-style-type values to contract classes.
var listTypeClasses = map[string]string{
	"decimal":     "list-type-decimal",
	"lower-alpha": "list-type-lower-alpha",
	"upper-alpha": "list-type-upper-alpha",
	"lower-roman": "list-type-lower-roman",
	"upper-roman": "list-type-upper-roman",
	"lower-greek": "list-type-lower-greek",
}

// olTypeAttr maps the legacy HTML type attribute to list-style-type.
var olTypeAttr = map[string]string{
	"1": "decimal",
	"a": "lower-alpha",
	"A": "upper-alpha",
	"i": "lower-roman",
	"I": "upper-roman",
}

var listStyleTypePattern = regexp.MustCompile(`list-style-type:\s*([^;]+)`)

// listStage annotates the list structure: list and nesting-level
// classes on ul/ol, numbering-type classes on ol, big-list marking,
// in-list on li, paragraph wrapping of li content, and the
// list-heading class on a paragraph introducing a top-level list.
func listStage(src string, c *Context) (string, error) {
	doc, err := c.Document(src)
	if err != nil {
		return "", err
	}

	lists := htmltree.ElementsByTag(doc.Body(), "ul", "ol")
	items := htmltree.ElementsByTag(doc.Body(), "li")
	if len(lists) == 0 && len(items) == 0 {
		return src, nil
	}

	for _, list := range lists {
		level := htmltree.CountAncestors(list, "ul", "ol") + 1
		htmltree.AddClass(list, "list", fmt.Sprintf("list-level-%d", level))

		if list.Data == "ol" {
			if typeClass := detectListType(list); typeClass != "" {
				htmltree.AddClass(list, typeClass)
			}
		}
		if isBigList(list) {
			htmltree.AddClass(list, "big-list")
		}

		// A paragraph directly before a top-level list is its heading.
		if level == 1 {
			if prev := htmltree.PrevElement(list); htmltree.IsElement(prev, "p") {
				htmltree.AddClass(prev, "list-heading", "block")
			}
		}
	}

	for _, li := range items {
		htmltree.AddClass(li, "in-list")
		wrapItemContent(li)
	}

	return c.Commit(doc)
}

// detectListType reads the numbering style from an inline
// list-style-type declaration or the legacy type attribute.
func detectListType(ol *html.Node) string {
	if style := htmltree.GetAttr(ol, "style"); style != "" {
		if m := listStyleTypePattern.FindStringSubmatch(style); m != nil {
			if class, ok := listTypeClasses[strings.TrimSpace(m[1])]; ok {
				return class
			}
		}
	}
	if styleType, ok := olTypeAttr[htmltree.GetAttr(ol, "type")]; ok {
		return listTypeClasses[styleType]
	}
	return ""
}

// isBigList reports whether any direct item holds more than one
// non-list element child, meaning items are paragraphs-plus rather
// than single lines.
func isBigList(list *html.Node) bool {
	for c := list.FirstChild; c != nil; c = c.NextSibling {
		if !htmltree.IsElement(c, "li") {
			continue
		}
		count := 0
		for k := c.FirstChild; k != nil; k = k.NextSibling {
			if k.Type != html.ElementNode || htmltree.IsElement(k, "ul", "ol") {
				continue
			}
			count++
			if count > 1 {
				return true
			}
		}
	}
	return false
}

// wrapItemContent normalizes an li so its inline content lives in a
// paragraph. Content already leading with a paragraph is left alone;
// inline content before a nested list or other block element is
// gathered into a new leading paragraph; a purely inline item is
// wrapped whole.
func wrapItemContent(li *html.Node) {
	children := htmltree.ChildElements(li)
	if len(children) == 1 && children[0].Data == "p" {
		return
	}

	hasBlock := false
	for _, c := range children {
		switch c.Data {
		case "p", "div", "ul", "ol", "pre", "blockquote":
			hasBlock = true
		}
	}

	if !hasBlock {
		p := htmltree.NewElement("p")
		for li.FirstChild != nil {
			htmltree.Append(p, li.FirstChild)
		}
		li.AppendChild(p)
		return
	}

	// Gather inline content before the first block element.
	var inline []*html.Node
	for c := li.FirstChild; c != nil; c = c.NextSibling {
		if htmltree.IsElement(c, "ul", "ol", "pre", "blockquote", "p", "div") {
			break
		}
		inline = append(inline, c)
	}

	meaningful := false
	for _, n := range inline {
		if n.Type == html.ElementNode || !htmltree.IsWhitespace(n) {
			meaningful = true
			break
		}
	}
	if !meaningful {
		return
	}

	p := htmltree.NewElement("p")
	htmltree.Prepend(li, p)
	for _, n := range inline {
		htmltree.Append(p, n)
	}
}
