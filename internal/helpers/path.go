package helpers

import "path/filepath"

// Expresses "target" relative to the directory "baseDir" using the host's
// native separators.
//
// Targets that can't be made relative (virtual module ids, or a relative
// target with an absolute base) are returned unchanged.
func RelativePath(baseDir string, target string) string {
	if !filepath.IsAbs(target) {
		return target
	}
	if rel, err := filepath.Rel(baseDir, target); err == nil {
		return rel
	}
	return target
}
