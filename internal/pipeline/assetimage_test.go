package pipeline

import (
	"strings"
	"testing"
)

func imageContext() *Context {
	c := newTestContext()
	c.Assets = testAssets()
	return c
}

func TestAssetImageStage(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains []string
		excludes []string
	}{
		{
			name:  "tokenized image becomes figure",
			input: `<p><img src="https://cdn.example.com/sunset.jpg#asset-data:sunset-photo:image:1600:900" alt="Sky"/></p>`,
			contains: []string{
				`<figure class="block">`,
				`<span class="figure-outer-wrapper">`,
				`<span class="image-wrapper img focusable">`,
				`src="https://cdn.example.com/sunset.jpg"`,
				`width="1600"`,
				`height="900"`,
				`data-aspect-ratio="16 / 9"`,
				"aspect-ratio: 16 / 9",
				"width: 1600px",
				`loading="lazy"`,
				`decoding="async"`,
				`class="focusable gallery-image"`,
			},
			excludes: []string{assetTokenMarker, "<p>"},
		},
		{
			name:  "display width override",
			input: `<p><img src="https://cdn.example.com/sunset.jpg#asset-data:sunset-photo:image:1600:900:display_width=800" alt="Sky"/></p>`,
			contains: []string{
				"width: 800px",
				`width="1600"`,
			},
		},
		{
			name:  "caption rendered into figcaption",
			input: `<p><img src="https://cdn.example.com/sunset.jpg#asset-data:sunset-photo:image:1600:900:caption=Golden+hour" alt="Sky"/></p>`,
			contains: []string{
				`<span class="caption-wrapper">`,
				"<figcaption>Golden hour</figcaption>",
			},
		},
		{
			name:  "float class moves to figure",
			input: `<p><img src="https://cdn.example.com/sunset.jpg#asset-data:sunset-photo:image:1600:900" alt="Sky" class="float-right"/></p>`,
			contains: []string{
				`<figure class="float-right float block">`,
			},
			excludes: []string{`class="focusable gallery-image float-right"`},
		},
		{
			name:  "invert hint from alt text",
			input: `<p><img src="https://cdn.example.com/sunset.jpg#asset-data:sunset-photo:image:1600:900" alt="diagram, invert colors"/></p>`,
			contains: []string{
				`class="focusable gallery-image invert"`,
			},
		},
		{
			name:     "plain image untouched",
			input:    `<p><img src="https://example.com/pic.jpg" alt="x"/></p>`,
			contains: []string{`<p><img src="https://example.com/pic.jpg" alt="x"/></p>`},
			excludes: []string{"<figure"},
		},
		{
			name:     "unresolvable asset left tokenized",
			input:    `<p><img src="https://x/y.jpg#asset-data:gone:image:100:100" alt="x"/></p>`,
			contains: []string{"#asset-data:gone:image"},
			excludes: []string{"<figure"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := runStageWith(t, "asset-images", tt.input, imageContext())
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("asset-images = %q, missing %q", got, want)
				}
			}
			for _, bad := range tt.excludes {
				if strings.Contains(got, bad) {
					t.Errorf("asset-images = %q, should not contain %q", got, bad)
				}
			}
		})
	}
}

func TestAssetImageStageSrcset(t *testing.T) {
	c := newTestContext()
	c.Assets = staticResolver{
		"resp": {
			Key: "resp", Type: AssetImage,
			URL: "https://x/full.jpg", Width: 1600, Height: 900,
			Renditions: []Rendition{
				{URL: "https://x/small.jpg", Width: 400},
				{URL: "https://x/mid.jpg", Width: 800},
			},
		},
	}
	input := `<p><img src="https://x/full.jpg#asset-data:resp:image:1600:900" alt="x"/></p>`
	got := runStageWith(t, "asset-images", input, c)

	if !strings.Contains(got, `srcset="https://x/small.jpg 400w, https://x/mid.jpg 800w"`) {
		t.Errorf("srcset missing: %q", got)
	}
	if !strings.Contains(got, `sizes="(max-width: 649px) 100vw, 935px"`) {
		t.Errorf("sizes missing: %q", got)
	}
}

func TestAssetImageStageIdempotent(t *testing.T) {
	input := `<p><img src="https://cdn.example.com/sunset.jpg#asset-data:sunset-photo:image:1600:900:caption=Golden+hour" alt="Sky"/></p>`
	first := runStageWith(t, "asset-images", input, imageContext())
	second := runStageWith(t, "asset-images", first, imageContext())
	if first != second {
		t.Errorf("second run changed output:\nfirst:  %q\nsecond: %q", first, second)
	}
}
