package pipeline

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// assetRefPattern matches markdown asset references:
//
//	![Alt](@asset:key)   global asset, image form
//	[text](@alias)       post-local alias, link form
//	![Alt](@key?width=800)  with display overrides
//
// Keys allow letters, digits, hyphens, and underscores.
var assetRefPattern = regexp.MustCompile(`(!?)\[([^\]]*)\]\(@(asset:)?([a-zA-Z0-9_-]+)(\?[^)]*)?\)`)

// ResolveAssetRefs rewrites @asset:key and @alias markdown references
// to the asset's real URL, carrying the asset metadata in a URL
// fragment token the downstream enhancers consume. Unresolvable
// references are left byte-for-byte untouched.
func ResolveAssetRefs(markdown string, c *Context) string {
	if c.Assets == nil && c.Post == nil {
		return markdown
	}
	return assetRefPattern.ReplaceAllStringFunc(markdown, func(m string) string {
		sub := assetRefPattern.FindStringSubmatch(m)
		bang, text, global, key, query := sub[1], sub[2], sub[3] == "asset:", sub[4], sub[5]

		asset, binding := resolveRef(c, key, global)
		if asset == nil {
			if bang == "!" {
				return escapeImageRef(sub)
			}
			return m
		}

		alt := text
		caption := asset.Caption
		if binding != nil {
			if binding.Alt != "" {
				alt = binding.Alt
			} else if asset.Alt != "" {
				alt = asset.Alt
			}
			if binding.Caption != "" {
				caption = binding.Caption
			}
		} else if asset.Alt != "" {
			alt = asset.Alt
		}

		token := buildAssetToken(asset, caption, query)
		return fmt.Sprintf("%s[%s](%s%s)", bang, alt, asset.URL, token)
	})
}

// escapeImageRef rewrites an unresolvable image reference with
// escaped brackets so it renders as visible literal text. Left as an
// image, the sanitizer would strip the unparseable src and the broken
// reference would vanish from the page. Link references stay as they
// are: a dead link keeps its text visible on its own.
func escapeImageRef(sub []string) string {
	return fmt.Sprintf(`!\[%s\](@%s%s%s)`, sub[2], sub[3], sub[4], sub[5])
}

// resolveRef maps a reference to an asset. Global references go
// straight to the resolver; aliases consult the post's bindings first
// and fall back to a global lookup.
func resolveRef(c *Context, key string, global bool) (*Asset, *PostAsset) {
	lookup := func(k string) *Asset {
		if c.Assets == nil {
			return nil
		}
		a, err := c.Assets.Resolve(k)
		if err != nil {
			if !errors.Is(err, ErrAssetNotFound) {
				c.logger().Warn("asset resolution failed", "key", k, "err", err)
			}
			return nil
		}
		return a
	}

	if global {
		return lookup(key), c.Post.AssetByAlias(key)
	}
	if binding := c.Post.AssetByAlias(key); binding != nil {
		return lookup(binding.Key), binding
	}
	return lookup(key), nil
}

// buildAssetToken serializes asset metadata into the #asset-data:
// fragment consumed by the asset enhancers. Layout:
//
//	#asset-data:key:type[:width][:height][:caption=enc][:k=v...]
//
// The caption is URL-encoded so colons inside it cannot break the
// token grammar. Query parameters width/height become the
// display_width/display_height overrides.
func buildAssetToken(asset *Asset, caption, query string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "#asset-data:%s:%s", asset.Key, asset.Type)
	if asset.Width > 0 {
		fmt.Fprintf(&b, ":%d", asset.Width)
	}
	if asset.Height > 0 {
		fmt.Fprintf(&b, ":%d", asset.Height)
	}
	if caption != "" {
		fmt.Fprintf(&b, ":caption=%s", url.QueryEscape(caption))
	}
	if query != "" {
		for _, param := range strings.Split(query[1:], "&") {
			k, v, ok := strings.Cut(param, "=")
			if !ok || v == "" {
				continue
			}
			switch k {
			case "width":
				k = "display_width"
			case "height":
				k = "display_height"
			}
			fmt.Fprintf(&b, ":%s=%s", k, url.QueryEscape(v))
		}
	}
	return b.String()
}
