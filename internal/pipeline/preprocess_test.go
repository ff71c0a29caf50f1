package pipeline

import (
	"strings"
	"testing"
)

func TestNormalizeLineEndings(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "LF unchanged",
			input:    "line1\nline2",
			expected: "line1\nline2",
		},
		{
			name:     "CRLF to LF",
			input:    "line1\r\nline2",
			expected: "line1\nline2",
		},
		{
			name:     "CR to LF",
			input:    "line1\rline2",
			expected: "line1\nline2",
		},
		{
			name:     "mixed line endings",
			input:    "a\r\nb\rc\nd",
			expected: "a\nb\nc\nd",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeLineEndings(tt.input)
			if got != tt.expected {
				t.Errorf("NormalizeLineEndings() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestLowerSpans(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "date-since span",
			input:    "Born [1986-12-22]{.date-since}.",
			expected: `Born <span class="date-since">1986-12-22</span>.`,
		},
		{
			name:     "multiple classes",
			input:    "[text]{.a .b}",
			expected: `<span class="a b">text</span>`,
		},
		{
			name:     "id and class",
			input:    "[text]{#anchor .note}",
			expected: `<span id="anchor" class="note">text</span>`,
		},
		{
			name:     "bare word treated as class",
			input:    "[text]{smallcaps}",
			expected: `<span class="smallcaps">text</span>`,
		},
		{
			name:     "empty attributes left alone",
			input:    "[text]{}",
			expected: "[text]{}",
		},
		{
			name:     "link syntax not touched",
			input:    "[text](https://example.com)",
			expected: "[text](https://example.com)",
		},
		{
			name:     "span inside code fence untouched",
			input:    "```\n[x]{.y}\n```",
			expected: "```\n[x]{.y}\n```",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LowerSpans(tt.input)
			if got != tt.expected {
				t.Errorf("LowerSpans() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestLowerFencedDivs(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains []string
	}{
		{
			name:     "epigraph div",
			input:    "::: {.epigraph}\n> Quote\n:::",
			contains: []string{`<div class="epigraph">`, "> Quote", "</div>"},
		},
		{
			name:     "bare class name",
			input:    "::: columns\ncontent\n:::",
			contains: []string{`<div class="columns">`, "</div>"},
		},
		{
			name:     "id attribute",
			input:    "::: {#intro .admonition-note}\ncontent\n:::",
			contains: []string{`<div id="intro" class="admonition-note">`},
		},
		{
			name:     "nested divs close in order",
			input:    "::: {.outer}\n::: {.inner}\nx\n:::\n:::",
			contains: []string{`<div class="outer">`, `<div class="inner">`, "</div>\n\n\n</div>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LowerFencedDivs(tt.input)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("LowerFencedDivs() = %q, missing %q", got, want)
				}
			}
		})
	}
}

func TestLowerFencedDivsStrayClose(t *testing.T) {
	input := "text\n:::\nmore"
	got := LowerFencedDivs(input)
	if got != input {
		t.Errorf("stray closer rewritten: %q", got)
	}
}

func TestLowerMath(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "display math",
			input:    "$$E = mc^2$$",
			expected: `<span class="math display">\[E = mc^2\]</span>`,
		},
		{
			name:     "inline math",
			input:    "Euler: $e^{i\\pi} = -1$ holds.",
			expected: `Euler: <span class="math inline">\(e^{i\pi} = -1\)</span> holds.`,
		},
		{
			name:     "prices untouched",
			input:    "costs $5 to $10 each",
			expected: "costs $5 to $10 each",
		},
		{
			name:     "angle brackets escaped",
			input:    "$a < b$",
			expected: `<span class="math inline">\(a &lt; b\)</span>`,
		},
		{
			name:     "math in code fence untouched",
			input:    "```\n$$x$$\n```",
			expected: "```\n$$x$$\n```",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LowerMath(tt.input)
			if got != tt.expected {
				t.Errorf("LowerMath() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestLowerRuleHints(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "hint with dashes",
			input:    "<!-- hr:2 -->\n---",
			expected: `<hr class="hr-style-2"/>`,
		},
		{
			name:     "hint with asterisks",
			input:    "<!-- hr:3 -->\n***",
			expected: `<hr class="hr-style-3"/>`,
		},
		{
			name:     "plain rule untouched",
			input:    "---",
			expected: "---",
		},
		{
			name:     "hint without rule untouched",
			input:    "<!-- hr:1 -->\ntext",
			expected: "<!-- hr:1 -->\ntext",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LowerRuleHints(tt.input)
			if got != tt.expected {
				t.Errorf("LowerRuleHints() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestConvertHighlights(t *testing.T) {
	got := ConvertHighlights("this is ==important== text")
	want := "this is <mark>important</mark> text"
	if got != want {
		t.Errorf("ConvertHighlights() = %q, want %q", got, want)
	}
}

func TestEnsureBlankBeforeHeaders(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "adds blank before header",
			input:    "text\n# Header",
			expected: "text\n\n# Header",
		},
		{
			name:     "already blank unchanged",
			input:    "text\n\n# Header",
			expected: "text\n\n# Header",
		},
		{
			name:     "header in code fence untouched",
			input:    "```\ntext\n# not a header\n```",
			expected: "```\ntext\n# not a header\n```",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EnsureBlankBeforeHeaders(tt.input)
			if got != tt.expected {
				t.Errorf("EnsureBlankBeforeHeaders() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestEnsureBlankBeforeLists(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "adds blank before list",
			input:    "text\n- item",
			expected: "text\n\n- item",
		},
		{
			name:     "list continuation unchanged",
			input:    "- one\n- two",
			expected: "- one\n- two",
		},
		{
			name:     "blockquote list gets quote marker",
			input:    "> text\n> - item",
			expected: "> text\n>\n> - item",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EnsureBlankBeforeLists(tt.input)
			if got != tt.expected {
				t.Errorf("EnsureBlankBeforeLists() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestPreprocessMarkdownPipeline(t *testing.T) {
	p := &AuthorSyntaxPreprocessor{}
	input := "Intro text\r\n# Title\n\n\n\n[1500]{.date-since}\n::: {.epigraph}\n> words\n:::"
	got := p.PreprocessMarkdown(input)

	for _, want := range []string{
		"Intro text\n\n# Title",
		`<span class="date-since">1500</span>`,
		`<div class="epigraph">`,
		"</div>",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("PreprocessMarkdown() missing %q in %q", want, got)
		}
	}
	if strings.Contains(got, "\n\n\n") {
		t.Errorf("PreprocessMarkdown() left excess blank lines: %q", got)
	}
}
