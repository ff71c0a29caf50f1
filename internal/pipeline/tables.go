package pipeline

import (
	"golang.org/x/net/html"

	"github.com/inkpost/mdrender/internal/htmltree"
)

// tableSizeClasses are the size hints an author can put on a fenced
// div surrounding a table.
var tableSizeClasses = []string{"table-small", "width-full"}

// tableStage wraps every table in the scroll wrapper structure:
//
//	<div class="table-wrapper [size] [float-*] block">
//	  <div class="table-scroll-wrapper"><table>…</table></div>
//	</div>
//
// Size, float, and sortable hints are read from the table itself or
// from an author fenced div around it, which is consumed.
func tableStage(src string, c *Context) (string, error) {
	doc, err := c.Document(src)
	if err != nil {
		return "", err
	}

	tables := htmltree.ElementsByTag(doc.Body(), "table")
	if len(tables) == 0 {
		return src, nil
	}

	for _, table := range tables {
		ensureTableBody(table)
		wrapTable(table)
	}

	return c.Commit(doc)
}

// ensureTableBody moves stray rows under a tbody when the table has a
// thead but the body rows were emitted as direct children.
func ensureTableBody(table *html.Node) {
	var thead *html.Node
	hasTbody := false
	var strayRows []*html.Node
	for _, child := range htmltree.ChildElements(table) {
		switch child.Data {
		case "thead":
			thead = child
		case "tbody":
			hasTbody = true
		case "tr":
			strayRows = append(strayRows, child)
		}
	}
	if thead == nil || hasTbody || len(strayRows) == 0 {
		return
	}

	tbody := htmltree.NewElement("tbody")
	for _, row := range strayRows {
		htmltree.Detach(row)
		htmltree.Append(tbody, row)
	}
	htmltree.Append(table, tbody)
}

type tableHints struct {
	size     string
	floats   []string
	sortable bool
}

// collectTableHints reads styling hints from the table's classes and,
// when present, from the author div directly around it.
func collectTableHints(table *html.Node) tableHints {
	var hints tableHints
	for _, size := range tableSizeClasses {
		if htmltree.HasClass(table, size) {
			hints.size = size
			break
		}
	}
	hints.sortable = htmltree.HasClass(table, "sortable")

	parent := table.Parent
	if !htmltree.IsElement(parent, "div") {
		return hints
	}
	if hints.size == "" {
		for _, size := range tableSizeClasses {
			if htmltree.HasClass(parent, size) {
				hints.size = size
				break
			}
		}
	}
	for _, float := range []string{"float-left", "float-right"} {
		if htmltree.HasClass(parent, float) {
			hints.floats = append(hints.floats, float)
		}
	}
	if htmltree.HasClass(parent, "sortable") {
		hints.sortable = true
	}
	return hints
}

// isTableHintDiv reports whether div is an author fenced div carrying
// table styling hints.
func isTableHintDiv(div *html.Node) bool {
	for _, cls := range []string{"table-small", "width-full", "float-left", "float-right", "sortable"} {
		if htmltree.HasClass(div, cls) {
			return true
		}
	}
	return false
}

func wrapTable(table *html.Node) {
	parent := table.Parent
	if htmltree.IsElement(parent, "div") && htmltree.HasClass(parent, "table-wrapper") {
		return
	}

	hints := collectTableHints(table)

	var hintDiv *html.Node
	if htmltree.IsElement(parent, "div") && isTableHintDiv(parent) {
		hintDiv = parent
	}

	outer := htmltree.NewElement("div")
	htmltree.AddClass(outer, "table-wrapper")
	if hints.size != "" {
		htmltree.AddClass(outer, hints.size)
	}
	htmltree.AddClass(outer, hints.floats...)
	htmltree.AddClass(outer, "block")

	inner := htmltree.NewElement("div")
	htmltree.AddClass(inner, "table-scroll-wrapper")

	if hints.sortable {
		htmltree.SetAttr(table, "data-sortable", "true")
	}

	anchor := table
	if hintDiv != nil {
		anchor = hintDiv
	}
	htmltree.InsertBefore(anchor, outer)
	htmltree.Detach(table)
	htmltree.Append(inner, table)
	htmltree.Append(outer, inner)
	if hintDiv != nil {
		htmltree.Detach(hintDiv)
	}
}
