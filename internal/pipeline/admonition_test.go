package pipeline

import (
	"strings"
	"testing"
)

func TestAdmonitionStage(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains []string
		excludes []string
	}{
		{
			name:  "tip with heading title",
			input: `<div class="admonition-tip"><h1>Pro Tip</h1><p>Use the keyboard.</p></div>`,
			contains: []string{
				`<div class="admonition tip block">`,
				`<div class="admonition-title">`,
				`<p class="first-graf">Pro Tip</p>`,
				`<p class="first-graf">Use the keyboard.</p>`,
			},
			excludes: []string{"<h1", "admonition-tip"},
		},
		{
			name:  "note without title",
			input: `<div class="admonition-note"><p>Just a note.</p></div>`,
			contains: []string{
				`<div class="admonition note block">`,
				`<p class="first-graf">Just a note.</p>`,
			},
		},
		{
			name:  "sectionized admonition converted back to div",
			input: `<section class="admonition-warning"><h2>Careful</h2><p>Hot surface.</p></section>`,
			contains: []string{
				`<div class="admonition warning block">`,
			},
			excludes: []string{"<section"},
		},
		{
			name:  "section link button dropped from title",
			input: `<div class="admonition-error"><h1>Fail <button>link</button></h1><p>x</p></div>`,
			contains: []string{
				`<p class="first-graf">Fail </p>`,
			},
			excludes: []string{"<button"},
		},
		{
			name:  "block class stripped from inner paragraphs",
			input: `<div class="admonition-note"><p class="block">one</p><p class="block">two</p></div>`,
			contains: []string{
				`<p class="first-graf">one</p>`,
				"<p>two</p>",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := runStage(t, "admonitions", tt.input)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("admonitions = %q, missing %q", got, want)
				}
			}
			for _, bad := range tt.excludes {
				if strings.Contains(got, bad) {
					t.Errorf("admonitions = %q, should not contain %q", got, bad)
				}
			}
		})
	}
}

func TestColumnsStage(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains []string
	}{
		{
			name:     "list in columns div marked",
			input:    `<div class="columns"><ul><li>a</li><li>b</li></ul></div>`,
			contains: []string{`<ul class="list">`},
		},
		{
			name:     "ordered list marked",
			input:    `<div class="columns"><ol><li>a</li></ol></div>`,
			contains: []string{`<ol class="list">`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := runStage(t, "columns", tt.input)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("columns = %q, missing %q", got, want)
				}
			}
		})
	}
}

func TestColumnsStageIgnoresNestedLists(t *testing.T) {
	input := `<div class="columns"><div><ul><li>a</li></ul></div></div>`
	got := runStage(t, "columns", input)
	if strings.Contains(got, `<ul class="list">`) {
		t.Errorf("nested list marked: %q", got)
	}
}
