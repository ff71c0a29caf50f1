package pipeline

import (
	"regexp"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// buildSanitizerPolicy constructs the allow-list policy. Swappable in
// tests to exercise the degraded path.
var buildSanitizerPolicy = defaultSanitizerPolicy

var (
	sanitizerOnce   sync.Once
	sanitizerPolicy *bluemonday.Policy
)

// sanitizeStage strips markup outside the allow-list. It runs first in
// the chain so every later stage sees trusted HTML, and its output is
// the fallback when a later stage fails. If no policy is available the
// input passes through and the condition is logged.
func sanitizeStage(src string, c *Context) (string, error) {
	sanitizerOnce.Do(func() { sanitizerPolicy = buildSanitizerPolicy() })
	if sanitizerPolicy == nil {
		c.logger().Warn("sanitizer unavailable, passing HTML through unsanitized")
		return src, nil
	}
	out := sanitizerPolicy.Sanitize(src)
	c.Invalidate()
	return out, nil
}

// defaultSanitizerPolicy allows the element and attribute vocabulary
// the enhancement chain emits: content structure, media, inline SVG
// icons, MathML, and the class/data-attribute contract.
func defaultSanitizerPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()

	p.AllowElements(
		// text
		"p", "br", "wbr", "div", "span", "section", "article", "cite",
		"mark", "ins", "del", "sup", "sub", "strong", "em", "b", "i",
		"u", "s", "small", "q",
		// headings
		"h1", "h2", "h3", "h4", "h5", "h6",
		// lists
		"ul", "ol", "li", "hr", "blockquote", "dl", "dt", "dd",
		// code
		"pre", "code", "kbd", "samp", "var",
		// tables
		"table", "thead", "tbody", "tfoot", "tr", "th", "td",
		"caption", "colgroup", "col",
		// media
		"img", "figure", "figcaption", "picture", "source", "video",
		"audio", "track",
		// svg inline icons
		"svg", "path", "g",
		// links and interactive
		"a", "button",
		// forms (for task lists)
		"input", "label",
		// semantic
		"time", "address", "abbr", "acronym",
		// math (MathJax/MathML)
		"math", "mrow", "mi", "mo", "mn", "msup", "msub", "msubsup",
		"mfrac", "msqrt", "mroot", "mtext", "menclose", "mspace",
		"mpadded", "mphantom", "mfenced", "mtable", "mtr", "mtd",
		"semantics", "annotation", "annotation-xml",
	)

	// Global contract attributes. Enhancers key off class, id, and
	// data-*; titles and ARIA keep accessibility markup intact.
	p.AllowAttrs("class", "id", "title", "role").Globally()
	p.AllowDataAttributes()
	p.AllowAttrs(
		"aria-hidden", "aria-label", "aria-labelledby", "aria-describedby",
		"aria-live", "aria-expanded", "aria-controls", "aria-current",
	).Globally()

	p.AllowAttrs("href", "rel", "target", "download").OnElements("a")
	p.AllowAttrs("src", "alt", "width", "height", "loading", "decoding",
		"srcset", "sizes").OnElements("img")
	p.AllowAttrs("src", "width", "height", "controls", "preload", "loop",
		"muted", "autoplay", "playsinline", "poster").OnElements("video")
	p.AllowAttrs("src", "controls", "preload", "loop", "muted", "autoplay").OnElements("audio")
	p.AllowAttrs("src", "type").OnElements("source")
	p.AllowAttrs("src", "kind", "srclang", "label", "default").OnElements("track")
	p.AllowAttrs("colspan", "rowspan", "scope").OnElements("th")
	p.AllowAttrs("colspan", "rowspan").OnElements("td")
	p.AllowAttrs("span").OnElements("col", "colgroup")
	p.AllowAttrs("type", "checked", "disabled").OnElements("input")
	p.AllowAttrs("type", "tabindex").OnElements("button")
	p.AllowAttrs("datetime").OnElements("time")
	p.AllowAttrs("start", "type", "reversed").OnElements("ol")
	p.AllowAttrs("cite").OnElements("blockquote", "q", "ins", "del")

	// SVG attributes for inline icons
	p.AllowAttrs("xmlns", "viewbox", "focusable").OnElements("svg")
	p.AllowAttrs("d", "fill", "stroke", "stroke-width").OnElements("path")
	p.AllowAttrs("fill", "stroke", "stroke-width").OnElements("g")

	// MathML attributes
	p.AllowAttrs("xmlns", "display", "alttext").OnElements("math")
	p.AllowAttrs("mathvariant").OnElements("mi")
	p.AllowAttrs("stretchy", "largeop", "movablelimits", "symmetric",
		"maxsize", "minsize", "form").OnElements("mo")
	p.AllowAttrs("linethickness", "bevelled").OnElements("mfrac")
	p.AllowAttrs("notation").OnElements("menclose")
	p.AllowAttrs("width", "height", "depth").OnElements("mspace")
	p.AllowAttrs("columnalign", "rowspacing", "columnspacing",
		"displaystyle").OnElements("mtable")
	p.AllowAttrs("columnalign").OnElements("mtr")
	p.AllowAttrs("columnalign", "rowspan", "colspan").OnElements("mtd")

	// Sizing styles the media enhancers emit. Restricting the value
	// shape keeps url() and expression() out; allowing them at all
	// keeps re-sanitization of enhanced output lossless.
	sizeValue := regexp.MustCompile(`(?i)^[0-9a-z%./\s-]+$`)
	p.AllowStyles("aspect-ratio", "width", "max-width", "height").
		Matching(sizeValue).
		OnElements("img", "video")

	// Authored numbering hints the list enhancer reads.
	p.AllowStyles("list-style-type").
		Matching(regexp.MustCompile(`(?i)^[a-z-]+$`)).
		OnElements("ol", "ul")

	p.AllowURLSchemes("http", "https", "mailto", "tel")
	p.AllowRelativeURLs(true)
	p.RequireParseableURLs(true)

	return p
}
