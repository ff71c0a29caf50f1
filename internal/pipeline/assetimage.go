package pipeline

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/inkpost/mdrender/internal/htmltree"
)

// assetImageStage upgrades tokenized images to responsive figures:
// intrinsic dimensions, aspect-ratio styling, rendition srcset, lazy
// loading, and the figure/caption wrapper structure. Images without a
// token, or whose asset no longer resolves, are left alone.
func assetImageStage(src string, c *Context) (string, error) {
	if !strings.Contains(src, assetTokenMarker) {
		return src, nil
	}
	doc, err := c.Document(src)
	if err != nil {
		return "", err
	}

	changed := false
	for _, img := range htmltree.ElementsByTag(doc.Body(), "img") {
		base, tok, ok := splitAssetToken(htmltree.GetAttr(img, "src"))
		if !ok || tok.Type != AssetImage {
			continue
		}
		asset := tokenAsset(c, tok.Key)
		if asset == nil {
			continue
		}
		changed = true

		htmltree.SetAttr(img, "src", base)
		enhanceImageElement(img, tok, asset)

		figureClasses, imgClasses := splitMediaClasses(img)
		htmltree.SetAttr(img, "class",
			strings.Join(append([]string{"focusable", "gallery-image"}, imgClasses...), " "))
		if strings.Contains(strings.ToLower(htmltree.GetAttr(img, "alt")), "invert") {
			htmltree.AddClass(img, "invert")
		}

		plan := planFigure(img)
		buildFigure(plan, img, figureClasses,
			[]string{"image-wrapper", "img", "focusable"},
			tok.Extra["caption"], c)
	}

	if !changed {
		return src, nil
	}
	return c.Commit(doc)
}

// enhanceImageElement sets the sizing, srcset, and loading attributes
// on the bare img.
func enhanceImageElement(img *html.Node, tok assetToken, asset *Asset) {
	width, height := tok.Width, tok.Height
	if width == 0 {
		width = asset.Width
	}
	if height == 0 {
		height = asset.Height
	}

	if width > 0 {
		htmltree.SetAttr(img, "width", strconv.Itoa(width))
	}
	if height > 0 {
		htmltree.SetAttr(img, "height", strconv.Itoa(height))
	}

	var styles []string
	if ratio := tok.aspectRatio(); ratio != "" {
		htmltree.SetAttr(img, "data-aspect-ratio", ratio)
		styles = append(styles, "aspect-ratio: "+ratio)
	}

	displayW, displayH := tok.displaySize()
	finalWidth := displayW
	if finalWidth == 0 {
		finalWidth = width
	}
	if finalWidth > 0 {
		styles = append(styles, fmt.Sprintf("width: %dpx", finalWidth))
	}
	if displayW > 0 && displayH > 0 {
		styles = append(styles, fmt.Sprintf("height: %dpx", displayH))
	}
	if len(styles) > 0 {
		htmltree.SetAttr(img, "style", styleJoin(styles, htmltree.GetAttr(img, "style")))
	}

	if len(asset.Renditions) > 0 {
		parts := make([]string, 0, len(asset.Renditions))
		for _, r := range asset.Renditions {
			parts = append(parts, fmt.Sprintf("%s %dw", r.URL, r.Width))
		}
		htmltree.SetAttr(img, "srcset", strings.Join(parts, ", "))
		htmltree.SetAttr(img, "sizes", "(max-width: 649px) 100vw, 935px")
	}

	if htmltree.GetAttr(img, "loading") == "" {
		htmltree.SetAttr(img, "loading", "lazy")
	}
	if htmltree.GetAttr(img, "decoding") == "" {
		htmltree.SetAttr(img, "decoding", "async")
	}
	if htmltree.GetAttr(img, "alt") == "" {
		htmltree.SetAttr(img, "alt", asset.Alt)
	}
}

// tokenAsset resolves a token's asset for rendition and metadata
// lookup. Returns nil when the asset is gone; the element then keeps
// its token untouched, mirroring the resolver's passthrough behavior.
func tokenAsset(c *Context, key string) *Asset {
	if c.Assets == nil {
		return nil
	}
	asset, err := c.Assets.Resolve(key)
	if err != nil {
		return nil
	}
	return asset
}
