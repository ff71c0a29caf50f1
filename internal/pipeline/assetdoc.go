package pipeline

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/inkpost/mdrender/internal/htmltree"
)

// assetDocumentStage decorates tokenized document and data links with
// download semantics and the file metadata CSS keys off: type badge
// and human-readable size. Empty link text is filled from the asset
// title.
func assetDocumentStage(src string, c *Context) (string, error) {
	if !strings.Contains(src, assetTokenMarker) {
		return src, nil
	}
	doc, err := c.Document(src)
	if err != nil {
		return "", err
	}

	changed := false
	for _, link := range htmltree.ElementsByTag(doc.Body(), "a") {
		base, tok, ok := splitAssetToken(htmltree.GetAttr(link, "href"))
		if !ok || (tok.Type != AssetDocument && tok.Type != AssetData) {
			continue
		}
		asset := tokenAsset(c, tok.Key)
		if asset == nil {
			continue
		}
		changed = true

		ext := fileExtension(asset.URL)
		size := humanize.Bytes(uint64(asset.Size))

		htmltree.SetAttr(link, "href", base)
		htmltree.SetAttr(link, "download", "")
		htmltree.SetAttr(link, "data-asset-type", string(tok.Type))
		if ext != "" {
			htmltree.SetAttr(link, "data-file-type", ext)
		}
		if asset.Size > 0 {
			htmltree.SetAttr(link, "data-file-size", size)
		}

		if strings.TrimSpace(htmltree.Text(link)) == "" {
			htmltree.Empty(link)
			label := asset.Title
			if label == "" {
				label = asset.Key
			}
			text := label
			switch {
			case ext != "" && asset.Size > 0:
				text = fmt.Sprintf("%s (%s, %s)", label, strings.ToUpper(ext), size)
			case ext != "":
				text = fmt.Sprintf("%s (%s)", label, strings.ToUpper(ext))
			}
			link.AppendChild(htmltree.NewText(text))
		}
	}

	if !changed {
		return src, nil
	}
	return c.Commit(doc)
}

// fileExtension extracts the lowercase extension from a URL path,
// without the leading dot.
func fileExtension(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	ext := path.Ext(u.Path)
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
