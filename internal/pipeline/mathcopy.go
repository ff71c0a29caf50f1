package pipeline

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/inkpost/mdrender/internal/htmltree"
)

// copyIconPath is the clipboard glyph on math copy buttons.
const copyIconPath = "M433.941 65.941l-51.882-51.882A48 48 0 0 0 348.118 0H176c-26.51 0-48 21.49-48 48v48H48c-26.51 0-48 21.49-48 48v320c0 26.51 21.49 48 48 48h224c26.51 0 48-21.49 48-48v-48h80c26.51 0 48-21.49 48-48V99.882a48 48 0 0 0-14.059-33.941zM266 464H54a6 6 0 0 1-6-6V150a6 6 0 0 1 6-6h74v224c0 26.51 21.49 48 48 48h96v42a6 6 0 0 1-6 6zm128-96H182a6 6 0 0 1-6-6V54a6 6 0 0 1 6-6h106v88c0 13.255 10.745 24 24 24h88v202a6 6 0 0 1-6 6zm6-256h-64V48h9.632c1.591 0 3.117.632 4.243 1.757l48.368 48.368a6 6 0 0 1 1.757 4.243V112z"

// mathButtonStage appends a copy-to-clipboard button bar to every
// display math span. The equation's TeX source goes into the button
// title for the clipboard script to pick up.
func mathButtonStage(src string, c *Context) (string, error) {
	doc, err := c.Document(src)
	if err != nil {
		return "", err
	}

	changed := false
	for _, span := range htmltree.ElementsByClass(doc.Body(), "span", "math") {
		if !htmltree.HasClass(span, "display") {
			continue
		}
		if hasButtonBar(span) {
			continue
		}

		tex := mathSource(span)
		if tex == "" {
			continue
		}

		htmltree.Append(span, buildMathButtonBar(tex))
		changed = true
	}

	if !changed {
		return src, nil
	}
	return c.Commit(doc)
}

func hasButtonBar(span *html.Node) bool {
	return htmltree.First(span, func(n *html.Node) bool {
		return htmltree.IsElement(n, "span") && htmltree.HasClass(n, "block-button-bar")
	}) != nil
}

// mathSource extracts the TeX source, stripping the \[ \] or $$ $$
// display delimiters.
func mathSource(span *html.Node) string {
	tex := strings.TrimSpace(htmltree.Text(span))
	switch {
	case strings.HasPrefix(tex, `\[`) && strings.HasSuffix(tex, `\]`):
		tex = strings.TrimSpace(tex[2 : len(tex)-2])
	case strings.HasPrefix(tex, "$$") && strings.HasSuffix(tex, "$$"):
		tex = strings.TrimSpace(tex[2 : len(tex)-2])
	}
	return tex
}

func buildMathButtonBar(tex string) *html.Node {
	bar := htmltree.NewElement("span")
	htmltree.AddClass(bar, "block-button-bar")

	button := htmltree.NewElement("button")
	htmltree.SetAttr(button, "type", "button")
	htmltree.AddClass(button, "copy")
	htmltree.SetAttr(button, "tabindex", "-1")
	htmltree.SetAttr(button, "title", "Copy LaTeX source of this equation to clipboard: "+tex)

	svg := htmltree.NewElement("svg")
	htmltree.SetAttr(svg, "xmlns", "http://www.w3.org/2000/svg")
	htmltree.SetAttr(svg, "viewbox", "0 0 448 512")
	path := htmltree.NewElement("path")
	htmltree.SetAttr(path, "d", copyIconPath)
	htmltree.Append(svg, path)
	htmltree.Append(button, svg)

	scratch := htmltree.NewElement("span")
	htmltree.AddClass(scratch, "scratchpad")

	htmltree.Append(bar, button)
	htmltree.Append(bar, scratch)
	return bar
}
