package pipeline

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/inkpost/mdrender/internal/config"
	"github.com/inkpost/mdrender/internal/htmltree"
)

// ErrAssetNotFound indicates an asset key or alias that resolves to nothing.
var ErrAssetNotFound = errors.New("asset not found")

// AssetType classifies a resolved asset for enhancement purposes.
type AssetType string

const (
	AssetImage    AssetType = "image"
	AssetVideo    AssetType = "video"
	AssetDocument AssetType = "document"
	AssetData     AssetType = "data"
)

// Rendition is an alternative size of an image asset.
type Rendition struct {
	URL   string
	Width int
}

// Asset is a resolved media or document asset.
type Asset struct {
	Key        string
	Type       AssetType
	Title      string
	URL        string
	Width      int
	Height     int
	Alt        string
	Caption    string
	MimeType   string
	Size       int64 // bytes, documents only
	Renditions []Rendition
}

// AssetResolver looks up assets by their global key.
type AssetResolver interface {
	Resolve(key string) (*Asset, error)
}

// PostAsset binds a post-local alias to a global asset key, optionally
// overriding the asset's own alt text and caption.
type PostAsset struct {
	Alias   string
	Key     string
	Alt     string
	Caption string
}

// Post carries the post being rendered and its asset bindings.
type Post struct {
	Slug   string
	Assets []PostAsset
}

// AssetByAlias returns the binding for a post-local alias, or nil.
func (p *Post) AssetByAlias(alias string) *PostAsset {
	if p == nil {
		return nil
	}
	for i := range p.Assets {
		if p.Assets[i].Alias == alias {
			return &p.Assets[i]
		}
	}
	return nil
}

// Context carries per-render state through every pipeline stage. It is
// not safe for concurrent use; each render gets its own.
type Context struct {
	Post       *Post
	IsAbstract bool
	BaseURL    string
	Assets     AssetResolver
	Config     *config.Config
	Logger     *slog.Logger

	// RenderCaption renders nested markdown (asset captions) through
	// the full pipeline. Injected by the service to bound recursion.
	RenderCaption func(markdown string) (string, error)

	// Now overrides the clock for elapsed-time computations.
	Now func() time.Time

	lastHTML string
	lastTree *htmltree.Document
	slugs    map[string]int
}

// Document parses src into a tree, reusing the cached tree when src is
// the exact string the previous stage committed. Stages that mutate
// the tree must Commit it; stages that rewrite HTML outside the tree
// must Invalidate.
func (c *Context) Document(src string) (*htmltree.Document, error) {
	if c.lastTree != nil && c.lastHTML == src {
		return c.lastTree, nil
	}
	doc, err := htmltree.Parse(src)
	if err != nil {
		return nil, err
	}
	c.lastTree = doc
	c.lastHTML = src
	return doc, nil
}

// Commit serializes doc and records the result so the next stage's
// Document call hits the cache instead of reparsing.
func (c *Context) Commit(doc *htmltree.Document) (string, error) {
	out, err := doc.Render()
	if err != nil {
		return "", err
	}
	c.lastTree = doc
	c.lastHTML = out
	return out, nil
}

// Invalidate drops the cached tree after an out-of-tree HTML rewrite.
func (c *Context) Invalidate() {
	c.lastTree = nil
	c.lastHTML = ""
}

var (
	slugQuotes = regexp.MustCompile(`['’‘"]`)
	slugStrip  = regexp.MustCompile(`[^a-z0-9]+`)
)

// Slugify converts heading text to a URL-safe slug. Apostrophes are
// dropped rather than dashed so "Don't Panic" yields "dont-panic".
func Slugify(text string) string {
	slug := strings.ToLower(strings.TrimSpace(text))
	slug = slugQuotes.ReplaceAllString(slug, "")
	slug = slugStrip.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		return "section"
	}
	return slug
}

// UniqueSlug returns slug itself on first use, then slug-2, slug-3 and
// so on for repeats within the same render.
func (c *Context) UniqueSlug(slug string) string {
	if c.slugs == nil {
		c.slugs = make(map[string]int)
	}
	c.slugs[slug]++
	if n := c.slugs[slug]; n > 1 {
		return fmt.Sprintf("%s-%d", slug, n)
	}
	return slug
}

func (c *Context) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *Context) config() *config.Config {
	if c.Config != nil {
		return c.Config
	}
	return config.Default()
}

func (c *Context) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}
