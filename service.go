package mdrender

import (
	"context"
	"errors"
	"fmt"

	"github.com/inkpost/mdrender/internal/config"
	"github.com/inkpost/mdrender/internal/pipeline"
)

// maxCaptionDepth bounds caption recursion: a caption may reference an
// asset whose own caption renders markdown, but no further.
const maxCaptionDepth = 2

// Service renders markdown to enhanced HTML fragments. A Service is
// safe for concurrent use; every Render call gets its own pipeline
// context.
type Service struct {
	cfg      serviceConfig
	rendCfg  *config.Config
	pre      pipeline.MarkdownPreprocessor
	conv     pipeline.HTMLConverter
	resolver pipeline.AssetResolver
}

// New creates a Service with default configuration.
// Use options to customize behavior (e.g., WithAssetResolver).
func New(opts ...Option) (*Service, error) {
	s := &Service{
		cfg: serviceConfig{
			cacheSize: defaultCacheSize,
			cacheTTL:  defaultCacheTTL,
		},
		pre:  &pipeline.AuthorSyntaxPreprocessor{},
		conv: pipeline.NewGoldmarkConverter(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.cfg.configPath != "" {
		cfg, err := config.Load(s.cfg.configPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		s.rendCfg = cfg
	} else {
		s.rendCfg = config.Default()
	}

	if s.cfg.resolver != nil {
		resolver := s.cfg.resolver
		if s.cfg.cacheSize > 0 {
			resolver = newCachedResolver(resolver, s.cfg.cacheSize, s.cfg.cacheTTL)
		}
		s.resolver = resolverAdapter{next: resolver}
	}

	return s, nil
}

// Render runs the full pipeline: asset reference resolution, author
// syntax lowering, markdown conversion, sectionizing, and the
// postprocessor chain. It returns valid HTML whenever it returns nil;
// a failing postprocessor degrades to sanitized output rather than
// failing the render. Errors occur only for empty markdown, conversion
// failure, or context cancellation.
func (s *Service) Render(ctx context.Context, input Input) (string, error) {
	if input.Markdown == "" {
		return "", ErrEmptyMarkdown
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	c := s.newContext(input)
	c.RenderCaption = s.captionRenderer(ctx, c, 1)

	md := pipeline.ResolveAssetRefs(input.Markdown, c)
	md = s.pre.PreprocessMarkdown(md)

	htmlContent, err := s.conv.ToHTML(ctx, md)
	if err != nil {
		if errors.Is(err, pipeline.ErrHTMLConversion) {
			return "", fmt.Errorf("%w: %v", ErrHTMLConversion, err)
		}
		return "", err
	}

	if !input.IsAbstract {
		htmlContent = pipeline.Sectionize(htmlContent, c)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	return pipeline.Apply(htmlContent, c), nil
}

// newContext builds the per-render pipeline context.
func (s *Service) newContext(input Input) *pipeline.Context {
	return &pipeline.Context{
		Post:       toPipelinePost(input.Post),
		IsAbstract: input.IsAbstract,
		BaseURL:    input.BaseURL,
		Assets:     s.resolver,
		Config:     s.rendCfg,
		Logger:     s.cfg.logger,
		Now:        s.cfg.now,
	}
}

// captionRenderer returns the nested render used for asset captions:
// the same pipeline in abstract mode, sharing the parent's bindings
// and resolver, with recursion bounded by maxCaptionDepth.
func (s *Service) captionRenderer(ctx context.Context, parent *pipeline.Context, depth int) func(string) (string, error) {
	return func(markdown string) (string, error) {
		if depth > maxCaptionDepth {
			return "", ErrCaptionDepth
		}

		c := &pipeline.Context{
			Post:       parent.Post,
			IsAbstract: true,
			BaseURL:    parent.BaseURL,
			Assets:     parent.Assets,
			Config:     parent.Config,
			Logger:     parent.Logger,
			Now:        parent.Now,
		}
		c.RenderCaption = s.captionRenderer(ctx, c, depth+1)

		md := pipeline.ResolveAssetRefs(markdown, c)
		md = s.pre.PreprocessMarkdown(md)

		out, err := s.conv.ToHTML(ctx, md)
		if err != nil {
			return "", err
		}
		return pipeline.Apply(out, c), nil
	}
}
