package pipeline

// Stage is one named postprocessing step. Stages receive the current
// HTML and the render context and return the rewritten HTML.
type Stage struct {
	Name string
	Fn   func(src string, c *Context) (string, error)
}

// stages is the enhancement chain in its required order. Sanitization
// runs first so every later stage operates on trusted markup; the
// ordering of the rest encodes data dependencies (asset enhancers
// consume tokens the block marker would otherwise see, the first
// paragraph marker needs final block structure, link decoration must
// precede external-link attributes).
var stages = []Stage{
	{"sanitize", sanitizeStage},
	{"asset-images", assetImageStage},
	{"asset-videos", assetVideoStage},
	{"asset-documents", assetDocumentStage},
	{"lists", listStage},
	{"blockquotes", blockquoteStage},
	{"epigraphs", epigraphStage},
	{"admonitions", admonitionStage},
	{"columns", columnsStage},
	{"tables", tableStage},
	{"horizontal-rules", horizontalRuleStage},
	{"typography", typographyStage},
	{"dates", dateStage},
	{"footnotes", footnoteStage},
	{"block-markers", blockMarkerStage},
	{"first-paragraphs", firstParagraphStage},
	{"link-icons", linkIconStage},
	{"external-links", externalLinkStage},
	{"math-buttons", mathButtonStage},
}

// Stages returns the ordered stage chain. The slice is shared; callers
// must not mutate it.
func Stages() []Stage {
	return stages
}

// Apply runs the full postprocessing chain. A failing stage aborts the
// chain: the document falls back to the last sanitized state, so raw
// input can never leak past a broken enhancer. The failure is logged
// with the stage name and input size.
func Apply(src string, c *Context) string {
	current := src
	sanitized := ""

	for i, st := range stages {
		out, err := st.Fn(current, c)
		if err != nil {
			c.logger().Warn("postprocessor failed, falling back to sanitized HTML",
				"stage", st.Name, "input_len", len(current), "err", err)
			c.Invalidate()
			return sanitized
		}
		current = out
		if i == 0 {
			sanitized = out
		}
	}
	return current
}
