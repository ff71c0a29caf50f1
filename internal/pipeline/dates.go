package pipeline

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/net/html"

	"github.com/inkpost/mdrender/internal/dateparse"
	"github.com/inkpost/mdrender/internal/htmltree"
)

// dateStage annotates author-marked date spans. A span.date-since gets
// a time-since subscript, span.date-range gets a duration subsup on
// its separator, and span.date-range-since gets both. Spans whose text
// does not parse as a date are left untouched.
func dateStage(src string, c *Context) (string, error) {
	doc, err := c.Document(src)
	if err != nil {
		return "", err
	}

	changed := false
	now := c.now()

	for _, span := range htmltree.ElementsByClass(doc.Body(), "span", "date-range-since") {
		if enhanceDateRange(span, now, true, c) {
			changed = true
		}
	}
	for _, span := range htmltree.ElementsByClass(doc.Body(), "span", "date-range") {
		if htmltree.HasClass(span, "date-range-since") {
			continue
		}
		if enhanceDateRange(span, now, false, c) {
			changed = true
		}
	}
	for _, span := range htmltree.ElementsByClass(doc.Body(), "span", "date-since") {
		if htmltree.HasClass(span, "date-range") || htmltree.HasClass(span, "date-range-since") {
			continue
		}
		if enhanceDateSince(span, now, c) {
			changed = true
		}
	}

	if !changed {
		return src, nil
	}
	return c.Commit(doc)
}

// enhanceDateSince appends a <sub>Nya</sub> to the span. For a range
// the time-since counts from the end date.
func enhanceDateSince(span *html.Node, now time.Time, c *Context) bool {
	text := htmltree.Text(span)

	dateStr := text
	if _, end, err := dateparse.SplitRange(text); err == nil {
		dateStr = end
	}

	d, err := dateparse.Parse(dateStr)
	if err != nil {
		c.logger().Warn("unparseable date-since span", "text", text, "error", err)
		return false
	}

	sub := htmltree.NewElement("sub")
	htmltree.Append(sub, htmltree.NewText(dateparse.FormatYears(d.YearsAgo(now), false)))
	htmltree.Append(span, sub)
	return true
}

// enhanceDateRange rebuilds the span as
// start <span class="subsup"><sup>–</sup><sub>Ny</sub></span> end,
// with a title describing the duration. With since set it also appends
// the time-since subscript and the date-range class.
func enhanceDateRange(span *html.Node, now time.Time, since bool, c *Context) bool {
	text := htmltree.Text(span)

	startStr, endStr, err := dateparse.SplitRange(text)
	if err != nil {
		c.logger().Warn("unparseable date range span", "text", text, "error", err)
		return false
	}
	start, err := dateparse.Parse(startStr)
	if err != nil {
		c.logger().Warn("unparseable range start", "text", startStr, "error", err)
		return false
	}
	end, err := dateparse.Parse(endStr)
	if err != nil {
		c.logger().Warn("unparseable range end", "text", endStr, "error", err)
		return false
	}

	duration, err := start.YearsUntil(end)
	if err != nil {
		c.logger().Warn("unusable date range", "text", text, "error", err)
		return false
	}

	if since {
		htmltree.AddClass(span, "date-range")
		yearsAgo := end.YearsAgo(now)
		htmltree.SetAttr(span, "title", fmt.Sprintf(
			"The date range %s–%s lasted %s %s, ending %s %s ago.",
			startStr, endStr,
			humanize.Comma(int64(duration)), pluralYears(duration),
			humanize.Comma(int64(yearsAgo)), pluralYears(yearsAgo)))
		rebuildRangeSpan(span, startStr, endStr, duration)

		sub := htmltree.NewElement("sub")
		htmltree.Append(sub, htmltree.NewText(dateparse.FormatYears(yearsAgo, false)))
		htmltree.Append(span, sub)
		return true
	}

	htmltree.SetAttr(span, "title", fmt.Sprintf(
		"The date range %s–%s lasted %s %s.",
		startStr, endStr, humanize.Comma(int64(duration)), pluralYears(duration)))
	rebuildRangeSpan(span, startStr, endStr, duration)
	return true
}

func rebuildRangeSpan(span *html.Node, startStr, endStr string, duration int) {
	htmltree.Empty(span)
	htmltree.Append(span, htmltree.NewText(startStr))

	subsup := htmltree.NewElement("span")
	htmltree.AddClass(subsup, "subsup")
	sup := htmltree.NewElement("sup")
	htmltree.Append(sup, htmltree.NewText("–"))
	sub := htmltree.NewElement("sub")
	htmltree.Append(sub, htmltree.NewText(dateparse.FormatYears(duration, true)))
	htmltree.Append(subsup, sup)
	htmltree.Append(subsup, sub)
	htmltree.Append(span, subsup)

	htmltree.Append(span, htmltree.NewText(endStr))
}

func pluralYears(n int) string {
	if n == 1 {
		return "year"
	}
	return "years"
}
