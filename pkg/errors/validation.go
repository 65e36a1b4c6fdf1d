package errors

import (
	"math"
	"strings"
	"unicode"
)

// ValidatePath validates a local file path supplied for a document, font or
// output file.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}

// MaxDimension bounds the viewport accepted by the renderer.
const MaxDimension = 16384

// ValidateDimensions checks a viewport size: both sides must be finite,
// positive and no larger than MaxDimension.
func ValidateDimensions(width, height float64) error {
	for _, d := range []struct {
		name string
		v    float64
	}{{"width", width}, {"height", height}} {
		if math.IsNaN(d.v) || math.IsInf(d.v, 0) {
			return New(ErrCodeInvalidInput, "%s must be a finite number", d.name)
		}
		if d.v <= 0 {
			return New(ErrCodeInvalidInput, "%s must be positive, got %g", d.name, d.v)
		}
		if d.v > MaxDimension {
			return New(ErrCodeInvalidInput, "%s too large (max %d), got %g", d.name, MaxDimension, d.v)
		}
	}
	return nil
}
