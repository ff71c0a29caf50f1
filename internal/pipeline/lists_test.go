package pipeline

import (
	"strings"
	"testing"
)

func TestListStage(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains []string
		excludes []string
	}{
		{
			name:  "basic list classes",
			input: "<ul><li>one</li><li>two</li></ul>",
			contains: []string{
				`<ul class="list list-level-1">`,
				`<li class="in-list"><p>one</p></li>`,
			},
		},
		{
			name:  "nested list levels",
			input: "<ul><li>a<ul><li>b</li></ul></li></ul>",
			contains: []string{
				`class="list list-level-1"`,
				`class="list list-level-2"`,
			},
		},
		{
			name:  "ordered list type attribute",
			input: `<ol type="a"><li>x</li></ol>`,
			contains: []string{
				"list-type-lower-alpha",
			},
		},
		{
			name:  "ordered list style declaration",
			input: `<ol style="list-style-type: upper-roman"><li>x</li></ol>`,
			contains: []string{
				"list-type-upper-roman",
			},
		},
		{
			name:  "big list when items hold multiple blocks",
			input: "<ul><li><p>one</p><p>two</p></li></ul>",
			contains: []string{
				"big-list",
			},
		},
		{
			name:     "single paragraph item not big",
			input:    "<ul><li><p>one</p></li></ul>",
			excludes: []string{"big-list"},
		},
		{
			name:  "preceding paragraph becomes list heading",
			input: "<p>Ingredients:</p><ul><li>salt</li></ul>",
			contains: []string{
				`<p class="list-heading block">Ingredients:</p>`,
			},
		},
		{
			name:  "inline content before nested list wrapped",
			input: "<ul><li>intro<ul><li>sub</li></ul></li></ul>",
			contains: []string{
				"<p>intro</p><ul",
			},
		},
		{
			name:     "nested list heading not marked",
			input:    "<ul><li><p>head</p><ul><li>x</li></ul></li></ul>",
			excludes: []string{"list-heading"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := runStage(t, "lists", tt.input)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("lists = %q, missing %q", got, want)
				}
			}
			for _, bad := range tt.excludes {
				if strings.Contains(got, bad) {
					t.Errorf("lists = %q, should not contain %q", got, bad)
				}
			}
		})
	}
}

func TestBlockquoteStage(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains []string
		excludes []string
	}{
		{
			name:     "level class",
			input:    "<blockquote><p>words</p></blockquote>",
			contains: []string{`<blockquote class="blockquote-level-1">`},
		},
		{
			name:  "nested level",
			input: "<blockquote><blockquote><p>deep</p></blockquote></blockquote>",
			contains: []string{
				`class="blockquote-level-1"`,
				`class="blockquote-level-2"`,
			},
		},
		{
			name:  "float right marker",
			input: "<blockquote><p>{&gt;&gt;} floated words</p></blockquote>",
			contains: []string{
				`<div class="float float-right"><blockquote`,
				"floated words",
			},
			excludes: []string{"{&gt;&gt;}"},
		},
		{
			name:  "float left marker",
			input: "<blockquote><p>{&lt;&lt;} other words</p></blockquote>",
			contains: []string{
				`<div class="float float-left"><blockquote`,
			},
		},
		{
			name:     "no marker no wrapper",
			input:    "<blockquote><p>plain</p></blockquote>",
			excludes: []string{"float"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := runStage(t, "blockquotes", tt.input)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("blockquotes = %q, missing %q", got, want)
				}
			}
			for _, bad := range tt.excludes {
				if strings.Contains(got, bad) {
					t.Errorf("blockquotes = %q, should not contain %q", got, bad)
				}
			}
		})
	}
}

func TestEpigraphStage(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains []string
		excludes []string
	}{
		{
			name:  "epigraph structure",
			input: `<div class="epigraph"><blockquote><p>quote line</p><p>attribution</p></blockquote></div>`,
			contains: []string{
				`<div class="epigraph block">`,
				`<blockquote class="first-block last-block block">`,
				`<p class="first-block first-graf">quote line</p>`,
				`<p class="last-block">attribution</p>`,
			},
		},
		{
			name:  "single paragraph gets both markers",
			input: `<div class="epigraph"><blockquote><p>only</p></blockquote></div>`,
			contains: []string{
				`<p class="first-block first-graf last-block">only</p>`,
			},
		},
		{
			name:  "text-center div unwrapped onto paragraphs",
			input: `<div class="text-center"><p>centered</p></div>`,
			contains: []string{
				`<p class="text-center">centered</p>`,
			},
			excludes: []string{"<div"},
		},
		{
			name:  "text-right div unwrapped",
			input: `<div class="text-right"><p>right</p></div>`,
			contains: []string{
				`<p class="text-right">right</p>`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := runStage(t, "epigraphs", tt.input)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("epigraphs = %q, missing %q", got, want)
				}
			}
			for _, bad := range tt.excludes {
				if strings.Contains(got, bad) {
					t.Errorf("epigraphs = %q, should not contain %q", got, bad)
				}
			}
		})
	}
}
