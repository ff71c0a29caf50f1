package mdrender

import "errors"

// Sentinel errors for library operations.
var (
	ErrEmptyMarkdown  = errors.New("markdown content cannot be empty")
	ErrHTMLConversion = errors.New("HTML conversion failed")
	ErrInvalidConfig  = errors.New("invalid renderer configuration")

	// Asset resolution errors.
	ErrAssetNotFound = errors.New("asset not found")

	// Caption rendering errors.
	ErrCaptionDepth = errors.New("caption nesting too deep")
)
