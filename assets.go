package mdrender

import (
	"errors"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/inkpost/mdrender/internal/pipeline"
)

// cachedResolver wraps an AssetResolver with an expiring LRU so hot
// assets are not re-fetched on every render. Only successful lookups
// are cached; a key that failed to resolve is retried next time.
type cachedResolver struct {
	next  AssetResolver
	cache *expirable.LRU[string, *Asset]
}

func newCachedResolver(next AssetResolver, size int, ttl time.Duration) *cachedResolver {
	return &cachedResolver{
		next:  next,
		cache: expirable.NewLRU[string, *Asset](size, nil, ttl),
	}
}

func (r *cachedResolver) ResolveAsset(key string) (*Asset, error) {
	if a, ok := r.cache.Get(key); ok {
		return a, nil
	}
	a, err := r.next.ResolveAsset(key)
	if err != nil {
		return nil, err
	}
	r.cache.Add(key, a)
	return a, nil
}

// resolverAdapter bridges the public resolver into the pipeline,
// converting types and mapping the not-found sentinel so enhancers
// leave unresolvable references untouched.
type resolverAdapter struct {
	next AssetResolver
}

func (r resolverAdapter) Resolve(key string) (*pipeline.Asset, error) {
	a, err := r.next.ResolveAsset(key)
	if err != nil {
		if errors.Is(err, ErrAssetNotFound) {
			return nil, pipeline.ErrAssetNotFound
		}
		return nil, err
	}
	return toPipelineAsset(a), nil
}

// toPipelineAsset converts the public Asset type to its internal twin.
func toPipelineAsset(a *Asset) *pipeline.Asset {
	if a == nil {
		return nil
	}
	renditions := make([]pipeline.Rendition, len(a.Renditions))
	for i, rd := range a.Renditions {
		renditions[i] = pipeline.Rendition(rd)
	}
	return &pipeline.Asset{
		Key:        a.Key,
		Type:       pipeline.AssetType(a.Type),
		Title:      a.Title,
		URL:        a.URL,
		Width:      a.Width,
		Height:     a.Height,
		Alt:        a.Alt,
		Caption:    a.Caption,
		MimeType:   a.MimeType,
		Size:       a.Size,
		Renditions: renditions,
	}
}

// toPipelinePost converts the public Post type to its internal twin.
func toPipelinePost(p *Post) *pipeline.Post {
	if p == nil {
		return nil
	}
	assets := make([]pipeline.PostAsset, len(p.Assets))
	for i, pa := range p.Assets {
		assets[i] = pipeline.PostAsset(pa)
	}
	return &pipeline.Post{
		Slug:   p.Slug,
		Assets: assets,
	}
}
