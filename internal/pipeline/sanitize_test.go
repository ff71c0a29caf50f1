package pipeline

import (
	"errors"
	"strings"
	"testing"
)

func TestSanitizeStage(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains []string
		excludes []string
	}{
		{
			name:     "script stripped",
			input:    `<p>hello</p><script>alert(1)</script>`,
			contains: []string{"<p>hello</p>"},
			excludes: []string{"<script", "alert"},
		},
		{
			name:     "event handlers stripped",
			input:    `<p onclick="evil()">text</p>`,
			contains: []string{"<p>text</p>"},
			excludes: []string{"onclick"},
		},
		{
			name:     "classes and data attributes kept",
			input:    `<section class="block level2" data-slug="intro"><p>x</p></section>`,
			contains: []string{`class="block level2"`, `data-slug="intro"`},
		},
		{
			name:     "sizing styles on images kept",
			input:    `<img src="/a.jpg" style="aspect-ratio: 4 / 3; width: 640px"/>`,
			contains: []string{"aspect-ratio: 4 / 3", "width: 640px"},
		},
		{
			name:     "style with url value dropped",
			input:    `<img src="/a.jpg" style="width: url(evil)"/>`,
			excludes: []string{"url(evil)"},
		},
		{
			name:     "javascript urls dropped",
			input:    `<a href="javascript:alert(1)">x</a>`,
			excludes: []string{"javascript:"},
		},
		{
			name:     "relative urls kept",
			input:    `<a href="/posts/other">x</a>`,
			contains: []string{`href="/posts/other"`},
		},
		{
			name:     "svg icon markup kept",
			input:    `<svg xmlns="http://www.w3.org/2000/svg" viewbox="0 0 448 512"><path d="M1 2"></path></svg>`,
			contains: []string{"<svg", `viewbox="0 0 448 512"`, `d="M1 2"`},
		},
		{
			name:     "video attributes kept",
			input:    `<video controls="" preload="metadata" poster="/p.jpg"><source src="/v.mp4" type="video/mp4"/></video>`,
			contains: []string{"controls", `preload="metadata"`, `poster="/p.jpg"`, `type="video/mp4"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := runStage(t, "sanitize", tt.input)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("sanitize(%q) = %q, missing %q", tt.input, got, want)
				}
			}
			for _, bad := range tt.excludes {
				if strings.Contains(got, bad) {
					t.Errorf("sanitize(%q) = %q, should not contain %q", tt.input, got, bad)
				}
			}
		})
	}
}

func TestApplyFallsBackToSanitized(t *testing.T) {
	orig := stages
	defer func() { stages = orig }()

	failing := Stage{
		Name: "failing",
		Fn: func(string, *Context) (string, error) {
			return "", errors.New("boom")
		},
	}
	stages = []Stage{orig[0], failing}

	c := newTestContext()
	input := `<p>keep me</p><script>drop()</script>`
	got := Apply(input, c)

	if !strings.Contains(got, "<p>keep me</p>") {
		t.Errorf("Apply() = %q, lost sanitized content", got)
	}
	if strings.Contains(got, "script") {
		t.Errorf("Apply() = %q, leaked unsanitized input", got)
	}
}

func TestApplyRunsChainInOrder(t *testing.T) {
	orig := stages
	defer func() { stages = orig }()

	var order []string
	record := func(name string) Stage {
		return Stage{
			Name: name,
			Fn: func(src string, _ *Context) (string, error) {
				order = append(order, name)
				return src, nil
			},
		}
	}
	stages = []Stage{record("one"), record("two"), record("three")}

	Apply("<p>x</p>", newTestContext())

	want := "one,two,three"
	if got := strings.Join(order, ","); got != want {
		t.Errorf("stage order = %s, want %s", got, want)
	}
}
