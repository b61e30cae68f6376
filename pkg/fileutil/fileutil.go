// Package fileutil provides small file-path helpers shared by the import
// and ref resolvers.
package fileutil

import "os"

// FileExists reports whether path exists and is not a directory.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
