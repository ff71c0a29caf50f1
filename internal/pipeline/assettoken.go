package pipeline

import (
	"net/url"
	"strconv"
	"strings"
)

// assetTokenMarker separates the clean URL from the metadata fragment.
const assetTokenMarker = "#asset-data:"

// assetToken is the parsed form of an #asset-data: fragment.
type assetToken struct {
	Key    string
	Type   AssetType
	Width  int
	Height int
	Extra  map[string]string // caption, display_width, poster, loop, ...
}

// splitAssetToken splits a URL carrying an asset token into the clean
// base URL and the parsed token. ok is false when the URL carries no
// token or the token is malformed.
func splitAssetToken(src string) (base string, tok assetToken, ok bool) {
	base, frag, found := strings.Cut(src, assetTokenMarker)
	if !found {
		return "", assetToken{}, false
	}
	parts := strings.Split(frag, ":")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", assetToken{}, false
	}

	tok = assetToken{
		Key:   parts[0],
		Type:  AssetType(parts[1]),
		Extra: make(map[string]string),
	}
	for _, part := range parts[2:] {
		if k, v, isPair := strings.Cut(part, "="); isPair {
			if dec, err := url.QueryUnescape(v); err == nil {
				v = dec
			}
			tok.Extra[k] = v
			continue
		}
		// Positional: intrinsic width then height.
		n, err := strconv.Atoi(part)
		if err != nil {
			continue
		}
		if tok.Width == 0 {
			tok.Width = n
		} else if tok.Height == 0 {
			tok.Height = n
		}
	}
	return base, tok, true
}

// displaySize resolves the display override dimensions, completing a
// missing one proportionally from the intrinsic aspect ratio.
func (t assetToken) displaySize() (w, h int) {
	w, _ = strconv.Atoi(t.Extra["display_width"])
	h, _ = strconv.Atoi(t.Extra["display_height"])
	if w > 0 && h == 0 && t.Width > 0 && t.Height > 0 {
		h = w * t.Height / t.Width
	} else if h > 0 && w == 0 && t.Width > 0 && t.Height > 0 {
		w = h * t.Width / t.Height
	}
	return w, h
}

// aspectRatio returns the simplified "W / H" ratio, or "".
func (t assetToken) aspectRatio() string {
	if t.Width <= 0 || t.Height <= 0 {
		return ""
	}
	d := gcd(t.Width, t.Height)
	return strconv.Itoa(t.Width/d) + " / " + strconv.Itoa(t.Height/d)
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
