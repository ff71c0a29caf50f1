package htmltree

import (
	"strings"
	"testing"

	"golang.org/x/net/html"
)

func mustParse(t *testing.T, fragment string) *Document {
	t.Helper()
	doc, err := Parse(fragment)
	if err != nil {
		t.Fatalf("Parse(%q) error: %v", fragment, err)
	}
	return doc
}

func mustRender(t *testing.T, doc *Document) string {
	t.Helper()
	out, err := doc.Render()
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	return out
}

func TestParseRenderRoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		fragment string
		want     string
	}{
		{
			name:     "simple paragraph",
			fragment: "<p>hello</p>",
			want:     "<p>hello</p>",
		},
		{
			name:     "nested structure preserved",
			fragment: `<div class="a"><p>one</p><p>two</p></div>`,
			want:     `<div class="a"><p>one</p><p>two</p></div>`,
		},
		{
			name:     "text entities escaped",
			fragment: "<p>a &lt; b</p>",
			want:     "<p>a &lt; b</p>",
		},
		{
			name:     "void element",
			fragment: "<hr>",
			want:     "<hr/>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustParse(t, tt.fragment)
			got := mustRender(t, doc)
			if got != tt.want {
				t.Errorf("round trip = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderDoesNotAccreteWrappers(t *testing.T) {
	doc := mustParse(t, "<p>stable</p>")
	once := mustRender(t, doc)

	doc2 := mustParse(t, once)
	twice := mustRender(t, doc2)

	if once != twice {
		t.Errorf("second round trip changed output: %q vs %q", once, twice)
	}
	if strings.Contains(twice, "<html") || strings.Contains(twice, "<body") {
		t.Errorf("output contains document wrappers: %q", twice)
	}
}

func TestClassHelpers(t *testing.T) {
	doc := mustParse(t, `<p class="one two">x</p>`)
	p := ElementsByTag(doc.Body(), "p")[0]

	if !HasClass(p, "one") || !HasClass(p, "two") {
		t.Fatalf("initial classes missing: %v", Classes(p))
	}

	AddClass(p, "two", "three")
	if got := GetAttr(p, "class"); got != "one two three" {
		t.Errorf("AddClass dedup failed: %q", got)
	}

	PrependClass(p, "zero", "two")
	if got := GetAttr(p, "class"); got != "zero two one three" {
		t.Errorf("PrependClass order wrong: %q", got)
	}

	RemoveClass(p, "zero", "two", "one", "three")
	if HasAttr(p, "class") {
		t.Errorf("empty class attribute not removed: %q", GetAttr(p, "class"))
	}
}

func TestAttrHelpers(t *testing.T) {
	doc := mustParse(t, `<a href="/x">link</a>`)
	a := ElementsByTag(doc.Body(), "a")[0]

	if got := GetAttr(a, "href"); got != "/x" {
		t.Errorf("GetAttr = %q, want /x", got)
	}
	SetAttr(a, "href", "/y")
	SetAttr(a, "target", "_blank")
	if got := GetAttr(a, "href"); got != "/y" {
		t.Errorf("SetAttr replace failed: %q", got)
	}
	if !HasAttr(a, "target") {
		t.Error("SetAttr add failed")
	}
	RemoveAttr(a, "target")
	if HasAttr(a, "target") {
		t.Error("RemoveAttr failed")
	}
}

func TestStructuralMutation(t *testing.T) {
	doc := mustParse(t, "<p>a</p><p>b</p>")
	paras := ElementsByTag(doc.Body(), "p")

	div := NewElement("div")
	AddClass(div, "wrap")
	InsertBefore(paras[0], div)
	Append(div, paras[0])
	Append(div, paras[1])

	got := mustRender(t, doc)
	want := `<div class="wrap"><p>a</p><p>b</p></div>`
	if got != want {
		t.Errorf("wrap result = %q, want %q", got, want)
	}

	Unwrap(div)
	if got := mustRender(t, doc); got != "<p>a</p><p>b</p>" {
		t.Errorf("unwrap result = %q", got)
	}
}

func TestReplaceWith(t *testing.T) {
	doc := mustParse(t, "<p>old</p>")
	p := ElementsByTag(doc.Body(), "p")[0]

	fig := NewElement("figure")
	fig.AppendChild(NewText("new"))
	ReplaceWith(p, fig)

	if got := mustRender(t, doc); got != "<figure>new</figure>" {
		t.Errorf("ReplaceWith result = %q", got)
	}
}

func TestSiblingNavigation(t *testing.T) {
	doc := mustParse(t, "<p>first</p>\n<ul><li>x</li></ul>\ntext\n<p>last</p>")
	ul := ElementsByTag(doc.Body(), "ul")[0]

	prev := PrevElement(ul)
	if !IsElement(prev, "p") {
		t.Fatalf("PrevElement = %v, want p", prev)
	}
	// Intervening non-whitespace text blocks element adjacency.
	if next := NextElement(ul); next != nil {
		t.Errorf("NextElement across text = %v, want nil", next)
	}
}

func TestAncestorQueries(t *testing.T) {
	doc := mustParse(t, "<ul><li><ol><li><p>deep</p></li></ol></li></ul>")
	p := ElementsByTag(doc.Body(), "p")[0]

	if got := CountAncestors(p, "ul", "ol"); got != 2 {
		t.Errorf("CountAncestors = %d, want 2", got)
	}
	li := Ancestor(p, "li")
	if li == nil || li.Data != "li" {
		t.Errorf("Ancestor(li) = %v", li)
	}
	if Ancestor(p, "table") != nil {
		t.Error("Ancestor(table) should be nil")
	}
}

func TestTextAndChildren(t *testing.T) {
	doc := mustParse(t, "<div> <p>a <em>b</em></p> stray <span>c</span></div>")
	div := ElementsByTag(doc.Body(), "div")[0]

	if got := Text(div); got != " a b stray c" {
		t.Errorf("Text = %q", got)
	}
	if got := len(ChildElements(div)); got != 2 {
		t.Errorf("ChildElements = %d, want 2", got)
	}
	// Whitespace-only text nodes excluded, "stray" included.
	if got := len(MeaningfulChildren(div)); got != 3 {
		t.Errorf("MeaningfulChildren = %d, want 3", got)
	}
}

func TestElementsByClass(t *testing.T) {
	doc := mustParse(t, `<div class="x"><p class="x">a</p></div><span class="x y">b</span>`)

	if got := len(ElementsByClass(doc.Body(), "", "x")); got != 3 {
		t.Errorf("any-tag matches = %d, want 3", got)
	}
	if got := len(ElementsByClass(doc.Body(), "p", "x")); got != 1 {
		t.Errorf("p matches = %d, want 1", got)
	}
}

func TestFirst(t *testing.T) {
	doc := mustParse(t, "<p>a</p><p>b</p>")
	n := First(doc.Body(), func(n *html.Node) bool { return IsElement(n, "p") })
	if n == nil || Text(n) != "a" {
		t.Errorf("First returned wrong node: %v", n)
	}
}
