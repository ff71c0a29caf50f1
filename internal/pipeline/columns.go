package pipeline

import (
	"github.com/inkpost/mdrender/internal/htmltree"
)

// columnsStage marks lists inside div.columns containers so the
// multi-column CSS can lay them out.
func columnsStage(src string, c *Context) (string, error) {
	doc, err := c.Document(src)
	if err != nil {
		return "", err
	}

	changed := false
	for _, div := range htmltree.ElementsByClass(doc.Body(), "div", "columns") {
		for _, child := range htmltree.ChildElements(div) {
			if htmltree.IsElement(child, "ul", "ol") {
				htmltree.AddClass(child, "list")
				changed = true
			}
		}
	}

	if !changed {
		return src, nil
	}
	return c.Commit(doc)
}
