package pipeline

import (
	"strings"
	"testing"
)

const footnoteFixture = `<div class="footnotes" role="doc-endnotes"><hr/><ol><li id="fn:1"><p>First note. <a href="#fnref:1" class="footnote-backref" role="doc-backlink">&#x21a9;&#xfe0e;</a></p></li><li id="fn:2"><p>Second note. <a href="#fnref:2" class="footnote-backref" role="doc-backlink">&#x21a9;&#xfe0e;</a></p></li></ol></div>`

func TestFootnoteStage(t *testing.T) {
	c := newTestContext()
	c.BaseURL = "/posts/example"
	got := runStageWith(t, "footnotes", footnoteFixture, c)

	for _, want := range []string{
		`<div class="footnotes block"`,
		`<a class="section-self-link graf-content-not" href="/posts/example#footnotes" title="Link to section: § 'Footnotes'"></a>`,
		`<li id="fn:1" class="footnote block">`,
		`<a class="footnote-self-link graf-content-not" href="/posts/example#fn:1" title="Link to footnote 1">`,
		`<a class="footnote-self-link graf-content-not" href="/posts/example#fn:2" title="Link to footnote 2">`,
		`<p class="first-graf">First note.`,
		`href="/posts/example#fnref:1"`,
		`<svg xmlns="http://www.w3.org/2000/svg" viewbox="0 0 448 512"><path d="`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("footnotes = %q, missing %q", got, want)
		}
	}

	if strings.Contains(got, "↩") {
		t.Errorf("back arrow text not replaced by icon: %q", got)
	}
}

func TestFootnoteStageNoFootnotes(t *testing.T) {
	input := "<p>no notes here</p>"
	got := runStage(t, "footnotes", input)
	if got != input {
		t.Errorf("footnotes rewrote plain content: %q", got)
	}
}

func TestFootnoteStageIdempotent(t *testing.T) {
	c := newTestContext()
	first := runStageWith(t, "footnotes", footnoteFixture, c)
	second := runStageWith(t, "footnotes", first, newTestContext())
	if first != second {
		t.Errorf("second run changed output:\nfirst:  %q\nsecond: %q", first, second)
	}
}
