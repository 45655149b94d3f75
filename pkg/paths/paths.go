// Package paths validates and canonicalizes declared target paths against
// a root directory. Both the file reconciler and the ignore-block manager
// operate on the normalized forms produced here.
package paths

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/cpconfig/cpconfig/pkg/errors"
)

// Normalize canonicalizes a declared root-relative path. The result uses
// forward slashes, has no leading "./", and contains no ".." segments.
// Empty, absolute, null-byte-containing, and root-escaping paths are
// rejected.
func Normalize(rel string) (string, error) {
	trimmed := strings.TrimSpace(rel)
	if trimmed == "" {
		return "", errors.New(errors.ErrInvalidInput, "path cannot be empty")
	}

	if strings.Contains(trimmed, "\x00") {
		return "", errors.Newf(errors.ErrInvalidInput, "path %q contains null bytes", rel)
	}

	// Accept either separator style in input, canonicalize to forward
	// slashes.
	slashed := strings.ReplaceAll(trimmed, "\\", "/")

	if path.IsAbs(slashed) || filepath.IsAbs(trimmed) || hasVolumePrefix(slashed) {
		return "", errors.Newf(errors.ErrPathEscape, "path %q must be relative to the root directory", rel)
	}

	cleaned := path.Clean(slashed)
	if cleaned == "." {
		return "", errors.Newf(errors.ErrInvalidInput, "path %q resolves to the root directory itself", rel)
	}
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", errors.Newf(errors.ErrPathEscape, "path %q escapes the root directory", rel)
	}

	return cleaned, nil
}

// Resolve joins a normalized relative path onto the root directory using
// native separators and verifies the result stays inside the root.
func Resolve(root, rel string) (string, error) {
	normalized, err := Normalize(rel)
	if err != nil {
		return "", err
	}

	abs := filepath.Join(root, filepath.FromSlash(normalized))

	// Join cleans the result, so any surviving escape shows up as a ".."
	// prefix in the relative form.
	relBack, err := filepath.Rel(root, abs)
	if err != nil || relBack == ".." || strings.HasPrefix(relBack, ".."+string(filepath.Separator)) {
		return "", errors.Newf(errors.ErrPathEscape, "path %q escapes the root directory", rel)
	}

	return abs, nil
}

// hasVolumePrefix reports whether the path starts with a Windows drive or
// UNC volume, which is absolute regardless of the host platform.
func hasVolumePrefix(p string) bool {
	if len(p) >= 2 && p[1] == ':' {
		c := p[0]
		return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
	}
	return strings.HasPrefix(p, "//")
}
