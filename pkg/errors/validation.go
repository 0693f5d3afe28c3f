package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// ValidateFrameRange validates a closed frame interval.
func ValidateFrameRange(start, end int) error {
	if start > end {
		return New(ErrCodeInvalidInput, "invalid frame range [%d, %d]: start must not exceed end", start, end)
	}
	return nil
}

// ValidatePassName validates a requested render pass name.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No path separators (pass names end up in output file names)
//   - Maximum length of 128 characters
func ValidatePassName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidInput, "pass name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidInput, "pass name too long (max 128 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "pass name contains invalid control characters")
		}
	}

	if strings.ContainsAny(name, `/\`) {
		return New(ErrCodeInvalidInput, "pass name cannot contain path separators: %q", name)
	}

	return nil
}

// sceneFileExts lists the scene description formats the CLI can load.
var sceneFileExts = map[string]bool{
	".yaml": true,
	".yml":  true,
	".json": true,
}

// ValidateSceneFile validates a scene description path by extension.
// It does not touch the filesystem.
func ValidateSceneFile(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "scene file path cannot be empty")
	}
	ext := strings.ToLower(filepath.Ext(path))
	if !sceneFileExts[ext] {
		return New(ErrCodeInvalidPath, "scene file must be .yaml, .yml or .json, got: %q", ext)
	}
	return nil
}

// ValidateOutputPath validates a file path used for exports and render output.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 1024 characters
//   - No null bytes or control characters
//   - Must name a file, not a directory
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "output path cannot be empty")
	}

	const maxPathLength = 1024
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, `\`) {
		return New(ErrCodeInvalidPath, "output path must name a file: %q", path)
	}

	return nil
}
