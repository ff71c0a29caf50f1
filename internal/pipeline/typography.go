package pipeline

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/inkpost/mdrender/internal/htmltree"
)

var (
	// Slash runs followed by more text, the spots worth a break
	// opportunity in long URLs and paths.
	slashRunPattern   = regexp.MustCompile(`/+`)
	slashBreakPattern = regexp.MustCompile("/+[^/​]")

	// A non-breaking space not sitting between a digit and a letter.
	looseNBSPPattern = regexp.MustCompile("(^|[^0-9]) ([^A-Za-z]|$)")
)

// typographyStage applies small text-level fixes: adjacent sub/sup
// pairs get a span.subsup wrapper, slashes in prose gain wbr break
// opportunities, and stray non-breaking spaces become plain spaces.
// Smart quotes and dashes are already handled during markdown
// conversion.
func typographyStage(src string, c *Context) (string, error) {
	doc, err := c.Document(src)
	if err != nil {
		return "", err
	}

	wrapSubSupPairs(doc.Body())
	addWordBreaks(doc.Body())
	dropDoubledWordBreaks(doc.Body())
	normalizeNBSP(doc.Body())

	return c.Commit(doc)
}

// wrapSubSupPairs wraps a sub directly followed by a sup, or the
// reverse, in <span class="subsup"> so CSS can stack them.
func wrapSubSupPairs(body *html.Node) {
	for _, pair := range [][2]string{{"sub", "sup"}, {"sup", "sub"}} {
		for _, first := range htmltree.ElementsByTag(body, pair[0]) {
			if insideSubsupWrapper(first) {
				continue
			}
			second := nextNonWhitespaceSibling(first)
			if !htmltree.IsElement(second, pair[1]) {
				continue
			}

			wrapper := htmltree.NewElement("span")
			htmltree.AddClass(wrapper, "subsup")
			htmltree.InsertBefore(first, wrapper)
			for n := first; ; {
				next := n.NextSibling
				htmltree.Detach(n)
				htmltree.Append(wrapper, n)
				if n == second {
					break
				}
				n = next
			}
		}
	}
}

func insideSubsupWrapper(n *html.Node) bool {
	return htmltree.IsElement(n.Parent, "span") && htmltree.HasClass(n.Parent, "subsup")
}

func nextNonWhitespaceSibling(n *html.Node) *html.Node {
	for s := n.NextSibling; s != nil; s = s.NextSibling {
		if s.Type == html.TextNode && strings.TrimSpace(s.Data) == "" {
			continue
		}
		return s
	}
	return nil
}

// addWordBreaks inserts <wbr> after every slash run in text so long
// URLs and paths can wrap. Preformatted and script-like content is
// left alone; inline code is processed.
func addWordBreaks(body *html.Node) {
	var texts []*html.Node
	htmltree.Walk(body, func(n *html.Node) bool {
		if htmltree.IsElement(n, "pre", "script", "style", "noscript") {
			return false
		}
		if n.Type == html.TextNode && slashBreakPattern.MatchString(n.Data) {
			texts = append(texts, n)
		}
		return true
	})

	for _, text := range texts {
		insertWordBreaks(text)
	}
}

func insertWordBreaks(text *html.Node) {
	data := text.Data
	locs := slashRunPattern.FindAllStringIndex(data, -1)
	if len(locs) == 0 {
		return
	}

	inserted := false
	pos := 0
	var nodes []*html.Node
	for _, loc := range locs {
		if loc[0] > pos {
			nodes = append(nodes, htmltree.NewText(data[pos:loc[0]]))
		}
		nodes = append(nodes, htmltree.NewText(data[loc[0]:loc[1]]))
		if loc[1] < len(data) {
			nodes = append(nodes, htmltree.NewElement("wbr"))
			inserted = true
		}
		pos = loc[1]
	}
	if pos < len(data) {
		nodes = append(nodes, htmltree.NewText(data[pos:]))
	}

	if !inserted {
		return
	}
	for _, n := range nodes {
		htmltree.InsertBefore(text, n)
	}
	htmltree.Detach(text)
}

// dropDoubledWordBreaks collapses runs of wbr tags down to one.
func dropDoubledWordBreaks(body *html.Node) {
	for _, wbr := range htmltree.ElementsByTag(body, "wbr") {
		if htmltree.IsElement(nextNonWhitespaceSibling(wbr), "wbr") {
			htmltree.Detach(wbr)
		}
	}
}

// normalizeNBSP turns non-breaking spaces into regular spaces outside
// code, keeping those that glue a number to its unit.
func normalizeNBSP(body *html.Node) {
	htmltree.Walk(body, func(n *html.Node) bool {
		if htmltree.IsElement(n, "pre", "code") {
			return false
		}
		if n.Type == html.TextNode && strings.Contains(n.Data, " ") {
			n.Data = replaceLooseNBSP(n.Data)
		}
		return true
	})
}

func replaceLooseNBSP(s string) string {
	// Overlapping contexts need repeated passes.
	for {
		out := looseNBSPPattern.ReplaceAllString(s, "$1 $2")
		if out == s {
			return out
		}
		s = out
	}
}
