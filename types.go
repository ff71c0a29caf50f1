package mdrender

import (
	"log/slog"
	"time"
)

// AssetType classifies a resolved asset.
type AssetType string

// Asset type constants.
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
	Width      int // intrinsic pixels, images and videos
	Height     int
	Alt        string
	Caption    string // markdown, rendered into figcaptions
	MimeType   string
	Size       int64 // bytes, documents only
	Renditions []Rendition
}

// AssetResolver looks up assets by their global key. Implementations
// may load from a database, an API, or a static map; return
// ErrAssetNotFound for unknown keys so the reference passes through
// unchanged.
type AssetResolver interface {
	ResolveAsset(key string) (*Asset, error)
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

// Input contains rendering parameters.
type Input struct {
	Markdown   string // Markdown content (required)
	BaseURL    string // Absolute URL of the page, used in self-links (optional)
	IsAbstract bool   // Abstract mode: no sections, minimal block structure
	Post       *Post  // Post metadata and asset alias bindings (optional)
}

// Option configures a Service.
type Option func(*Service)

// serviceConfig holds internal configuration for Service.
type serviceConfig struct {
	configPath string
	logger     *slog.Logger
	resolver   AssetResolver
	cacheSize  int
	cacheTTL   time.Duration
	now        func() time.Time
}

// Asset cache defaults.
const (
	defaultCacheSize = 512
	defaultCacheTTL  = time.Hour
)

// WithLogger sets the structured logger for pipeline warnings.
// Panics if logger is nil (programmer error).
func WithLogger(logger *slog.Logger) Option {
	if logger == nil {
		panic("mdrender: WithLogger logger must not be nil")
	}
	return func(s *Service) {
		s.cfg.logger = logger
	}
}

// WithConfigFile loads renderer configuration (icon tables, internal
// domains, rule styling) from a YAML file. New returns ErrInvalidConfig
// if the file is missing or malformed.
func WithConfigFile(path string) Option {
	return func(s *Service) {
		s.cfg.configPath = path
	}
}

// WithAssetResolver sets the resolver for @asset references. Without
// one, asset references pass through as plain markdown.
func WithAssetResolver(r AssetResolver) Option {
	return func(s *Service) {
		s.cfg.resolver = r
	}
}

// WithAssetCache sizes the in-process asset cache. Resolved assets are
// kept for ttl and evicted least-recently-used beyond size.
// Panics if size < 1 or ttl <= 0 (programmer error).
func WithAssetCache(size int, ttl time.Duration) Option {
	if size < 1 {
		panic("mdrender: WithAssetCache size must be positive")
	}
	if ttl <= 0 {
		panic("mdrender: WithAssetCache ttl must be positive")
	}
	return func(s *Service) {
		s.cfg.cacheSize = size
		s.cfg.cacheTTL = ttl
	}
}

// WithoutAssetCache disables asset caching: every reference hits the
// resolver directly.
func WithoutAssetCache() Option {
	return func(s *Service) {
		s.cfg.cacheSize = 0
	}
}

// withClock pins the clock for elapsed-time rendering in tests.
func withClock(now func() time.Time) Option {
	return func(s *Service) {
		s.cfg.now = now
	}
}
