package util

import "path/filepath"

// ResolvePath joins a relative path onto base. Absolute paths are returned
// cleaned but otherwise untouched.
func ResolvePath(base, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(base, path)
}
