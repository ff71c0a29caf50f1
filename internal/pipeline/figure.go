package pipeline

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/inkpost/mdrender/internal/htmltree"
)

// positioningClasses travel from the media element to its figure
// wrapper so floats and sizing apply to the whole figure.
var positioningClasses = []string{
	"float-right", "float-left", "float-center", "width-full", "inline",
}

func isPositioningClass(class string) bool {
	for _, p := range positioningClasses {
		if class == p {
			return true
		}
	}
	return false
}

// figurePlan captures where an enhanced figure will stand and what it
// inherits from the markup it replaces.
type figurePlan struct {
	anchor         *html.Node // placeholder node the figure replaces
	inheritClasses []string
	existingCap    []*html.Node // figcaption children from a prior figure
}

// planFigure decides the replacement site for media's figure. A
// surrounding figure is replaced wholesale, inheriting its classes and
// caption; a paragraph holding only the media is replaced; otherwise
// the figure stands exactly where the media element was.
func planFigure(media *html.Node) figurePlan {
	parent := media.Parent

	if htmltree.IsElement(parent, "figure") {
		plan := figurePlan{anchor: parent, inheritClasses: htmltree.Classes(parent)}
		if cap := htmltree.First(parent, func(n *html.Node) bool {
			return htmltree.IsElement(n, "figcaption")
		}); cap != nil {
			for c := cap.FirstChild; c != nil; c = c.NextSibling {
				plan.existingCap = append(plan.existingCap, c)
			}
		}
		return plan
	}

	if htmltree.IsElement(parent, "p") && soleMeaningfulChild(parent, media) {
		return figurePlan{anchor: parent}
	}

	// Mixed content: swap in a placeholder at the media's position.
	placeholder := htmltree.NewText("")
	htmltree.InsertBefore(media, placeholder)
	return figurePlan{anchor: placeholder}
}

func soleMeaningfulChild(parent, child *html.Node) bool {
	kids := htmltree.MeaningfulChildren(parent)
	return len(kids) == 1 && kids[0] == child
}

// buildFigure assembles the enhanced figure structure:
//
//	<figure class="... block">
//	  <span class="figure-outer-wrapper">
//	    <span class="...wrapper classes...">media</span>
//	    <span class="caption-wrapper"><figcaption>...</figcaption></span>
//	  </span>
//	</figure>
//
// and installs it at the planned anchor. Caption markdown is rendered
// through the nested pipeline; when that fails the figure is built
// without a caption and the failure logged. A pre-existing caption's
// nodes are adopted as-is.
func buildFigure(plan figurePlan, media *html.Node, figureClasses, wrapperClasses []string, captionMD string, c *Context) {
	classes := make([]string, 0, len(figureClasses)+len(plan.inheritClasses)+2)
	classes = append(classes, figureClasses...)
	classes = append(classes, plan.inheritClasses...)

	floats := false
	for _, cls := range classes {
		if cls == "float-right" || cls == "float-left" || cls == "float-center" {
			floats = true
			break
		}
	}
	if floats {
		classes = append(classes, "float")
	}
	classes = append(classes, "block")

	figure := htmltree.NewElement("figure")
	htmltree.AddClass(figure, classes...)

	outer := htmltree.NewElement("span")
	htmltree.AddClass(outer, "figure-outer-wrapper")
	figure.AppendChild(outer)

	mediaWrap := htmltree.NewElement("span")
	htmltree.AddClass(mediaWrap, wrapperClasses...)
	htmltree.Append(mediaWrap, media)
	outer.AppendChild(mediaWrap)

	capNodes := plan.existingCap
	if captionMD != "" {
		if rendered := renderCaptionNodes(captionMD, c); rendered != nil {
			capNodes = rendered
		}
	}
	if len(capNodes) > 0 {
		capWrap := htmltree.NewElement("span")
		htmltree.AddClass(capWrap, "caption-wrapper")
		figcaption := htmltree.NewElement("figcaption")
		for _, n := range capNodes {
			htmltree.Append(figcaption, n)
		}
		capWrap.AppendChild(figcaption)
		outer.AppendChild(capWrap)
	}

	htmltree.ReplaceWith(plan.anchor, figure)
}

// renderCaptionNodes runs caption markdown through the nested render
// and returns the inline content: the children of the first paragraph
// when the caption rendered to one, the whole fragment otherwise.
func renderCaptionNodes(captionMD string, c *Context) []*html.Node {
	if c.RenderCaption == nil {
		return []*html.Node{htmltree.NewText(captionMD)}
	}
	rendered, err := c.RenderCaption(captionMD)
	if err != nil {
		c.logger().Warn("caption render failed, dropping caption",
			"caption_len", len(captionMD), "err", err)
		return nil
	}
	doc, err := htmltree.Parse(rendered)
	if err != nil {
		return []*html.Node{htmltree.NewText(captionMD)}
	}

	source := doc.Body()
	if p := htmltree.First(source, func(n *html.Node) bool {
		return htmltree.IsElement(n, "p")
	}); p != nil {
		source = p
	}

	var nodes []*html.Node
	for source.FirstChild != nil {
		n := source.FirstChild
		htmltree.Detach(n)
		nodes = append(nodes, n)
	}
	return nodes
}

// splitMediaClasses divides the element's classes into those that
// belong on the figure and those that stay on the media element.
func splitMediaClasses(media *html.Node) (figureClasses, mediaClasses []string) {
	for _, cls := range htmltree.Classes(media) {
		if isPositioningClass(cls) {
			figureClasses = append(figureClasses, cls)
		} else {
			mediaClasses = append(mediaClasses, cls)
		}
	}
	return figureClasses, mediaClasses
}

// styleJoin merges style declarations, keeping any existing style at
// the end the way the original markup wrote it.
func styleJoin(parts []string, existing string) string {
	existing = strings.TrimSpace(existing)
	joined := strings.Join(parts, "; ")
	if existing == "" {
		return joined
	}
	return joined + "; " + existing
}
