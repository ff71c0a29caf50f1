// Package mdrender converts authored markdown into enhanced HTML
// fragments for publishing.
//
// # Quick Start
//
// Create a service and render markdown:
//
//	svc, err := mdrender.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	html, err := svc.Render(ctx, mdrender.Input{
//	    Markdown: "# Hello\n\nWorld",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// The result is a standalone HTML fragment with the platform's class
// and data-attribute vocabulary applied: sections with slugs, block
// and first-graf markers, figure wrappers, typography fixes, date
// annotations, and decorated links.
//
// # Rendering Pipeline
//
// Render runs these stages:
//
//  1. Asset reference resolution (@asset:key and post-local aliases)
//  2. Author syntax lowering (spans, fenced divs, math, rule hints)
//  3. Markdown to HTML via Goldmark (GFM, footnotes, highlighting)
//  4. Sectionizing (heading hierarchy to nested <section> elements)
//  5. The postprocessor chain, sanitization first
//
// A failing postprocessor never fails the render: output degrades to
// the sanitized conversion and the failure is logged.
//
// # Assets
//
// Provide an AssetResolver to turn @asset references into figures,
// video players, and annotated document links:
//
//	svc, err := mdrender.New(
//	    mdrender.WithAssetResolver(myResolver),
//	    mdrender.WithAssetCache(1024, 30*time.Minute),
//	)
//
// Resolved assets are cached in-process with expiry. References the
// resolver cannot satisfy pass through as plain markdown.
//
// # Parallel Processing
//
// For batch rendering, use ServicePool to bound concurrency:
//
//	pool, err := mdrender.NewServicePool(mdrender.ResolvePoolSize(0))
//
//	svc := pool.Acquire()
//	defer pool.Release(svc)
//	html, err := svc.Render(ctx, input)
//
// # Configuration
//
// Link icon tables, internal domains, and rule styling come from an
// embedded YAML default; override with a config file:
//
//	svc, err := mdrender.New(mdrender.WithConfigFile("renderer.yaml"))
package mdrender
