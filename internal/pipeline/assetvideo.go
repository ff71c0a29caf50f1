package pipeline

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/inkpost/mdrender/internal/htmltree"
)

// assetVideoStage replaces tokenized video references with HTML5
// players wrapped in the shared figure structure. The markdown
// converter emits videos as img elements, so both tags are scanned.
func assetVideoStage(src string, c *Context) (string, error) {
	if !strings.Contains(src, assetTokenMarker) {
		return src, nil
	}
	doc, err := c.Document(src)
	if err != nil {
		return "", err
	}

	changed := false
	for _, el := range htmltree.ElementsByTag(doc.Body(), "img", "video") {
		base, tok, ok := splitAssetToken(htmltree.GetAttr(el, "src"))
		if !ok || tok.Type != AssetVideo {
			continue
		}
		asset := tokenAsset(c, tok.Key)
		if asset == nil {
			continue
		}
		changed = true

		video := buildVideoElement(base, tok, asset, c)

		figureClasses, _ := splitMediaClasses(el)
		plan := planFigure(el)
		htmltree.Detach(el)
		buildFigure(plan, video, figureClasses,
			[]string{"image-wrapper", "video"},
			tok.Extra["caption"], c)
	}

	if !changed {
		return src, nil
	}
	return c.Commit(doc)
}

// buildVideoElement assembles the player: controls, metadata preload
// so the first frame shows instead of a black box, intrinsic width,
// aspect-ratio styling, optional poster, and a typed source child.
func buildVideoElement(baseURL string, tok assetToken, asset *Asset, c *Context) *html.Node {
	video := htmltree.NewElement("video")
	htmltree.SetAttr(video, "controls", "controls")
	htmltree.SetAttr(video, "preload", "metadata")

	switch tok.Extra["loop"] {
	case "true", "1", "yes":
		htmltree.SetAttr(video, "loop", "")
	}

	width, height := tok.Width, tok.Height
	if width == 0 {
		width = asset.Width
	}
	if height == 0 {
		height = asset.Height
	}

	// Height attribute stays off; CSS aspect-ratio derives it.
	if width > 0 {
		htmltree.SetAttr(video, "width", strconv.Itoa(width))
	}

	var styles []string
	if ratio := tok.aspectRatio(); ratio != "" {
		htmltree.SetAttr(video, "data-aspect-ratio", ratio)
		styles = append(styles, "aspect-ratio: "+ratio)
	}

	displayW, displayH := tok.displaySize()
	finalWidth := displayW
	if finalWidth == 0 {
		finalWidth = width
	}
	if finalWidth > 0 {
		styles = append(styles, fmt.Sprintf("max-width: %dpx", finalWidth))
		styles = append(styles, "width: 100%")
	}
	if displayW > 0 && displayH > 0 {
		styles = append(styles, fmt.Sprintf("height: %dpx", displayH))
	}
	if len(styles) > 0 {
		htmltree.SetAttr(video, "style", strings.Join(styles, "; "))
	}

	if poster := resolvePoster(tok.Extra["poster"], c); poster != "" {
		htmltree.SetAttr(video, "data-video-poster", poster)
		htmltree.SetAttr(video, "poster", poster)
	}

	source := htmltree.NewElement("source")
	htmltree.SetAttr(source, "src", baseURL)
	mime := asset.MimeType
	if mime == "" {
		mime = "video/mp4"
	}
	htmltree.SetAttr(source, "type", mime)
	video.AppendChild(source)

	return video
}

// resolvePoster accepts either a direct URL or an @asset:key
// reference to another asset.
func resolvePoster(poster string, c *Context) string {
	if poster == "" {
		return ""
	}
	if key, ok := strings.CutPrefix(poster, "@asset:"); ok {
		if asset := tokenAsset(c, key); asset != nil {
			return asset.URL
		}
		return ""
	}
	return poster
}
