package paths

import (
	"path"
	"path/filepath"
	"strings"
)

// Canonicalize converts a module path to the canonical key used by the graph.
// Normalization is lexical only; the file system is never consulted.
// - Converts backslashes to forward slashes
// - Cleans "." and ".." segments
// - relative mode: absolute paths under root become root-relative
// - absolute mode: relative paths are joined onto root
func Canonicalize(p string, root string, absolute bool) string {
	p = NormalizePath(p)
	root = NormalizePath(root)

	if absolute {
		if !isAbs(p) && root != "" {
			p = path.Join(root, p)
		}
		return path.Clean(p)
	}

	if isAbs(p) && root != "" {
		if rel, ok := relativeTo(root, p); ok {
			return rel
		}
	}
	return path.Clean(p)
}

// IsWithinRoot checks if a path is within the root directory
func IsWithinRoot(p string, root string) bool {
	canonical := Canonicalize(p, root, false)
	if isAbs(canonical) {
		return false
	}

	// Path is outside root if it starts with ..
	return canonical != ".." && !strings.HasPrefix(canonical, "../")
}

// NormalizePath normalizes a path by converting backslashes to forward slashes
// This is useful for paths that are already relative but need normalization
func NormalizePath(p string) string {
	return strings.ReplaceAll(filepath.ToSlash(p), "\\", "/")
}

// JoinRootPath joins a root with a canonical path
func JoinRootPath(root string, canonicalPath string) string {
	// Ensure we use forward slashes in the canonical path
	normalizedPath := strings.ReplaceAll(canonicalPath, "\\", "/")
	// Convert to OS-specific path separator for joining
	parts := strings.Split(normalizedPath, "/")
	return filepath.Join(append([]string{root}, parts...)...)
}

func isAbs(p string) bool {
	if strings.HasPrefix(p, "/") {
		return true
	}
	// Windows drive letter, e.g. C:/src
	return len(p) >= 3 && p[1] == ':' && p[2] == '/'
}

// relativeTo returns target relative to base. Both must be absolute and
// slash-separated. ok is false when they live on different volumes.
func relativeTo(base, target string) (string, bool) {
	base = path.Clean(base)
	target = path.Clean(target)
	if volume(base) != volume(target) {
		return "", false
	}

	baseParts := splitClean(base)
	targetParts := splitClean(target)

	i := 0
	for i < len(baseParts) && i < len(targetParts) && baseParts[i] == targetParts[i] {
		i++
	}

	rel := make([]string, 0, len(baseParts)-i+len(targetParts)-i)
	for j := i; j < len(baseParts); j++ {
		rel = append(rel, "..")
	}
	rel = append(rel, targetParts[i:]...)
	if len(rel) == 0 {
		return ".", true
	}
	return strings.Join(rel, "/"), true
}

func volume(p string) string {
	if len(p) >= 2 && p[1] == ':' {
		return strings.ToUpper(p[:2])
	}
	return ""
}

func splitClean(p string) []string {
	p = strings.TrimPrefix(p[len(volume(p)):], "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}
