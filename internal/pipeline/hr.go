package pipeline

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/inkpost/mdrender/internal/config"
	"github.com/inkpost/mdrender/internal/htmltree"
)

// hrHintClass is the marker class the preprocessor leaves on hinted
// thematic breaks.
var hrHintClass = regexp.MustCompile(`^hr-style-([0-9]+)$`)

// hrStage assigns a visual style to every horizontal rule. A hinted
// rule keeps its requested style, unhinted rules take the configured
// default and cycle through the available styles when rotation is on.
func horizontalRuleStage(src string, c *Context) (string, error) {
	doc, err := c.Document(src)
	if err != nil {
		return "", err
	}

	rules := htmltree.ElementsByTag(doc.Body(), "hr")
	if len(rules) == 0 {
		return src, nil
	}

	cfg := c.config().HorizontalRule
	next := cfg.DefaultStyle

	for _, hr := range rules {
		if htmltree.HasClass(hr, "horizontal-rule") {
			continue
		}

		style := 0
		for _, cls := range htmltree.Classes(hr) {
			m := hrHintClass.FindStringSubmatch(cls)
			if m == nil {
				continue
			}
			htmltree.RemoveClass(hr, cls)
			if n, err := strconv.Atoi(m[1]); err == nil && n >= 1 && n <= config.HRStyleCount {
				style = n
			}
			break
		}

		if style == 0 {
			style = cfg.DefaultStyle
			if cfg.Rotate {
				style = next
				next = next%config.HRStyleCount + 1
			}
		}

		htmltree.AddClass(hr, "block", "horizontal-rule", fmt.Sprintf("horizontal-rule-%d", style))
	}

	return c.Commit(doc)
}
