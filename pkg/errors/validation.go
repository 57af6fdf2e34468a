package errors

import (
	"math"
	"strings"
	"unicode"
)

// ValidateBundleFile validates the configured sprite filename.
// The file is written inside the build's output directory, so it must be a
// relative path that cannot escape it.
//
// Validation rules:
//   - Name cannot be empty
//   - No control characters or null bytes
//   - No absolute paths
//   - No path traversal sequences (..)
func ValidateBundleFile(name string) error {
	if name == "" {
		return New(ErrCodeInvalidConfig, "bundleFile is required")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidConfig, "bundleFile contains invalid control characters")
		}
	}

	if strings.HasPrefix(name, "/") || strings.HasPrefix(name, "\\") {
		return New(ErrCodeInvalidConfig, "bundleFile must be relative to the output directory: %q", name)
	}

	for _, part := range strings.FieldsFunc(name, func(r rune) bool { return r == '/' || r == '\\' }) {
		if part == ".." {
			return New(ErrCodeInvalidConfig, "bundleFile cannot contain path traversal sequences (..)")
		}
	}

	return nil
}

// ValidateBundleURL validates the public URL prefix written into rewritten
// references. Any non-empty prefix is accepted (relative, absolute or
// protocol-relative); fragments and query strings are appended by the plugin.
func ValidateBundleURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidConfig, "bundleUrl is required")
	}
	if strings.ContainsAny(rawURL, "#") {
		return New(ErrCodeInvalidConfig, "bundleUrl must not contain a fragment: %q", rawURL)
	}
	for _, r := range rawURL {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidConfig, "bundleUrl contains whitespace or control characters")
		}
	}
	return nil
}

// ValidateGap validates the spacing between packed shapes.
func ValidateGap(gap float64) error {
	if gap < 0 || math.IsNaN(gap) || math.IsInf(gap, 0) {
		return New(ErrCodeInvalidConfig, "gap must be a finite non-negative number, got %g", gap)
	}
	return nil
}
