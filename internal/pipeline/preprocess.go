package pipeline

import (
	"fmt"
	"regexp"
	"strings"
)

// Precompiled regex patterns for performance.
var (
	// Line ending normalization
	crlfOrCR = regexp.MustCompile(`\r\n?`)

	// Compress multiple blank lines to max 2
	multipleBlankLines = regexp.MustCompile(`\n{3,}`)

	// Highlight syntax ==text==
	highlightPattern = regexp.MustCompile(`==(.*?)==`)

	// Bracketed span syntax [text]{.class #id}
	spanPattern = regexp.MustCompile(`\[([^\[\]]+)\]\{([^}]*)\}`)

	// Fenced div delimiter ::: {.class} / ::: class / :::
	fencedDivPattern = regexp.MustCompile(`^(:{3,})\s*(.*?)\s*$`)

	// Display math $$...$$ on one line
	displayMathPattern = regexp.MustCompile(`\$\$([^$]+?)\$\$`)

	// Inline math $...$ with no space inside the delimiters and no
	// adjacent digits, so prices like $5 and $10 stay untouched.
	inlineMathPattern = regexp.MustCompile(`([^\d$]|^)\$([^\s$](?:[^$\n]*?[^\s$])?)\$([^\d$]|$)`)

	// Style hint comment followed by a thematic break
	hrHintPattern = regexp.MustCompile(`(?m)^<!--\s*hr:([0-9]+)\s*-->\s*\n+[ ]{0,3}(-{3,}|\*{3,}|_{3,})[ \t]*$`)

	// Fenced code block delimiter (backticks or tildes)
	fencedCodeBlock = regexp.MustCompile("^(```|~~~)")

	// Header pattern (ATX style)
	headerPattern = regexp.MustCompile(`^#{1,6}\s`)

	// Blockquote pattern
	blockquotePattern = regexp.MustCompile(`^>`)

	// List item patterns (unordered and ordered)
	unorderedListPattern = regexp.MustCompile(`^[-*+]\s`)
	orderedListPattern   = regexp.MustCompile(`^[0-9]+\.\s`)

	// List in blockquote patterns
	blockquoteUnorderedList = regexp.MustCompile(`^>\s*[-*+]\s`)
	blockquoteOrderedList   = regexp.MustCompile(`^>\s*[0-9]+\.\s`)

	// Indented code block (4 spaces or tab)
	indentedCodeBlock = regexp.MustCompile(`^(    |\t)`)
)

// MarkdownPreprocessor defines the contract for markdown preprocessing.
type MarkdownPreprocessor interface {
	PreprocessMarkdown(content string) string
}

// AuthorSyntaxPreprocessor lowers the platform's authoring shorthands
// to HTML the CommonMark converter passes through: bracketed spans,
// fenced divs, TeX math delimiters, rule style hints, and highlights.
// It also repairs the loose spacing authors write around block starts.
type AuthorSyntaxPreprocessor struct{}

// PreprocessMarkdown applies all transformations in order: normalize
// line endings first, then syntax lowering, then spacing fixes. Makes
// multiple passes for modularity and clarity; acceptable for typical
// document sizes.
func (p *AuthorSyntaxPreprocessor) PreprocessMarkdown(content string) string {
	content = NormalizeLineEndings(content)
	content = LowerRuleHints(content)
	content = LowerFencedDivs(content)
	content = LowerSpans(content)
	content = LowerMath(content)
	content = ConvertHighlights(content)
	content = EnsureBlankBeforeHeaders(content)
	content = EnsureBlankBeforeBlockquotes(content)
	content = EnsureBlankBeforeLists(content)
	content = CompressBlankLines(content)
	return content
}

// NormalizeLineEndings converts \r\n and \r to \n.
func NormalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

// CompressBlankLines limits consecutive blank lines to 2 maximum.
func CompressBlankLines(content string) string {
	return multipleBlankLines.ReplaceAllString(content, "\n\n")
}

// ConvertHighlights transforms ==text== to <mark>text</mark>.
func ConvertHighlights(content string) string {
	return mapLinesOutsideCode(content, func(line string) string {
		return highlightPattern.ReplaceAllString(line, "<mark>$1</mark>")
	})
}

// LowerSpans transforms bracketed spans to inline HTML:
// [1986]{.date-since} becomes <span class="date-since">1986</span>.
// Attributes support .class and #id tokens.
func LowerSpans(content string) string {
	return mapLinesOutsideCode(content, func(line string) string {
		return spanPattern.ReplaceAllStringFunc(line, func(m string) string {
			sub := spanPattern.FindStringSubmatch(m)
			classes, id := parseAttrTokens(sub[2])
			if len(classes) == 0 && id == "" {
				return m
			}
			var b strings.Builder
			b.WriteString("<span")
			if id != "" {
				fmt.Fprintf(&b, " id=%q", id)
			}
			if len(classes) > 0 {
				fmt.Fprintf(&b, " class=%q", strings.Join(classes, " "))
			}
			b.WriteString(">")
			b.WriteString(sub[1])
			b.WriteString("</span>")
			return b.String()
		})
	})
}

// LowerFencedDivs transforms ::: fenced blocks to div tags:
//
//	::: {.epigraph}       <div class="epigraph">
//	content          =>   content
//	:::                   </div>
//
// The div tags are emitted with surrounding blank lines so the
// converter treats them as HTML blocks and still parses the content
// between them as markdown. Unmatched closers pass through untouched.
func LowerFencedDivs(content string) string {
	lines := strings.Split(content, "\n")
	out := make([]string, 0, len(lines))
	inCode := false
	depth := 0

	for _, line := range lines {
		if fencedCodeBlock.MatchString(line) {
			inCode = !inCode
		}
		if inCode || indentedCodeBlock.MatchString(line) {
			out = append(out, line)
			continue
		}

		m := fencedDivPattern.FindStringSubmatch(line)
		if m == nil {
			out = append(out, line)
			continue
		}

		if m[2] == "" {
			if depth == 0 {
				out = append(out, line)
				continue
			}
			depth--
			out = append(out, "", "</div>", "")
			continue
		}

		classes, id := parseAttrTokens(m[2])
		var b strings.Builder
		b.WriteString("<div")
		if id != "" {
			fmt.Fprintf(&b, " id=%q", id)
		}
		if len(classes) > 0 {
			fmt.Fprintf(&b, " class=%q", strings.Join(classes, " "))
		}
		b.WriteString(">")
		depth++
		out = append(out, "", b.String(), "")
	}

	return strings.Join(out, "\n")
}

// parseAttrTokens parses pandoc-style attribute tokens: ".class"
// contributes a class, "#id" the element id, and a bare word is
// treated as a class. Braces around the whole token list are optional.
func parseAttrTokens(attrs string) (classes []string, id string) {
	attrs = strings.Trim(attrs, "{} \t")
	for _, tok := range strings.Fields(attrs) {
		switch {
		case strings.HasPrefix(tok, "."):
			if c := tok[1:]; c != "" {
				classes = append(classes, c)
			}
		case strings.HasPrefix(tok, "#"):
			if id == "" {
				id = tok[1:]
			}
		default:
			classes = append(classes, tok)
		}
	}
	return classes, id
}

// LowerMath transforms TeX math delimiters to the span contract the
// math enhancer expects: $$...$$ becomes a display math span holding
// \[...\], $...$ an inline span holding \(...\). The TeX source is
// HTML-escaped so the converter cannot misread it.
func LowerMath(content string) string {
	return mapLinesOutsideCode(content, func(line string) string {
		line = displayMathPattern.ReplaceAllStringFunc(line, func(m string) string {
			tex := displayMathPattern.FindStringSubmatch(m)[1]
			return `<span class="math display">\[` + escapeTeX(tex) + `\]</span>`
		})
		return inlineMathPattern.ReplaceAllStringFunc(line, func(m string) string {
			sub := inlineMathPattern.FindStringSubmatch(m)
			return sub[1] + `<span class="math inline">\(` + escapeTeX(sub[2]) + `\)</span>` + sub[3]
		})
	})
}

func escapeTeX(tex string) string {
	tex = strings.ReplaceAll(tex, "&", "&amp;")
	tex = strings.ReplaceAll(tex, "<", "&lt;")
	tex = strings.ReplaceAll(tex, ">", "&gt;")
	return tex
}

// LowerRuleHints collapses a style hint comment and the thematic break
// after it into a pre-styled rule tag. Plain comments would not
// survive sanitization, so the hint must move onto the element here.
func LowerRuleHints(content string) string {
	return hrHintPattern.ReplaceAllString(content, `<hr class="hr-style-$1"/>`)
}

// EnsureBlankBeforeHeaders adds a blank line before ATX headers (#, ##, etc.)
// if the previous line is non-empty. Skips content inside code blocks.
func EnsureBlankBeforeHeaders(content string) string {
	return processLinesWithCodeBlockAwareness(content, func(prev, current string) string {
		if headerPattern.MatchString(current) && prev != "" && !isBlankLine(prev) {
			return "\n" + current
		}
		return current
	})
}

// EnsureBlankBeforeBlockquotes adds a blank line before blockquotes (>)
// if the previous line is non-empty and not itself a blockquote.
// Skips content inside code blocks.
func EnsureBlankBeforeBlockquotes(content string) string {
	return processLinesWithCodeBlockAwareness(content, func(prev, current string) string {
		if blockquotePattern.MatchString(current) &&
			prev != "" &&
			!isBlankLine(prev) &&
			!blockquotePattern.MatchString(prev) {
			return "\n" + current
		}
		return current
	})
}

// EnsureBlankBeforeLists adds a blank line before list items (-, *, +, 1.)
// if the previous line is text (not a list item, blank, or header).
// Also handles lists inside blockquotes: "> text\n> - item" becomes "> text\n>\n> - item".
// Skips content inside code blocks.
func EnsureBlankBeforeLists(content string) string {
	return processLinesWithCodeBlockAwareness(content, func(prev, current string) string {
		// Handle lists inside blockquotes
		if isBlockquoteList(current) && blockquotePattern.MatchString(prev) && !isBlockquoteList(prev) && !isBlankLine(prev) {
			// Previous is blockquote text, current is blockquote list
			// Insert ">" between them
			return ">\n" + current
		}

		// Handle regular lists
		if isListItem(current) && prev != "" && !isBlankLine(prev) && !isListItem(prev) && !headerPattern.MatchString(prev) {
			return "\n" + current
		}

		return current
	})
}

// mapLinesOutsideCode rewrites each line with fn, leaving fenced and
// indented code blocks untouched.
func mapLinesOutsideCode(content string, fn func(string) string) string {
	lines := strings.Split(content, "\n")
	inCode := false
	for i, line := range lines {
		if fencedCodeBlock.MatchString(line) {
			inCode = !inCode
			continue
		}
		if inCode || indentedCodeBlock.MatchString(line) {
			continue
		}
		lines[i] = fn(line)
	}
	return strings.Join(lines, "\n")
}

// processLinesWithCodeBlockAwareness processes each line with a callback,
// but skips lines inside fenced code blocks.
func processLinesWithCodeBlockAwareness(content string, process func(prev, current string) string) string {
	lines := strings.Split(content, "\n")
	result := make([]string, 0, len(lines))

	inCodeBlock := false
	var previousLine string

	for i, line := range lines {
		// Track fenced code blocks
		if fencedCodeBlock.MatchString(line) {
			inCodeBlock = !inCodeBlock
		}

		// Skip processing inside code blocks or indented code blocks
		if inCodeBlock || indentedCodeBlock.MatchString(line) {
			result = append(result, line)
			previousLine = line
			continue
		}

		// First line has no previous
		if i == 0 {
			result = append(result, line)
			previousLine = line
			continue
		}

		processed := process(previousLine, line)
		if strings.HasPrefix(processed, "\n") {
			// Insert blank line before current line
			result = append(result, "")
			result = append(result, processed[1:])
		} else {
			result = append(result, processed)
		}

		// Use original line (not processed) to detect structure in next iteration.
		// This ensures we match against the original Markdown syntax, not inserted blank lines.
		previousLine = line
	}

	return strings.Join(result, "\n")
}

// isBlankLine returns true if the line is empty or contains only whitespace.
func isBlankLine(line string) bool {
	return strings.TrimSpace(line) == ""
}

// isListItem returns true if the line starts with a list marker (-, *, +, or 1.).
func isListItem(line string) bool {
	return unorderedListPattern.MatchString(line) || orderedListPattern.MatchString(line)
}

// isBlockquoteList returns true if the line is a list item inside a blockquote.
func isBlockquoteList(line string) bool {
	return blockquoteUnorderedList.MatchString(line) || blockquoteOrderedList.MatchString(line)
}
