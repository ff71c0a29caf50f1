// Package pipeline implements the Markdown-to-HTML enhancement pipeline.
//
// This package handles the three rendering stages:
//   - Markdown preprocessing (line normalization, asset reference
//     resolution, span/div/math syntax lowering)
//   - Markdown to HTML conversion via Goldmark, followed by heading
//     sectionization
//   - Ordered HTML postprocessing: sanitization first, then the
//     enhancement chain that produces the platform's class and
//     data-attribute contract
//
// Caching of resolved assets and concurrency live in the root mdrender
// package. This separation keeps the pipeline focused on document
// structure and content.
package pipeline
