package console

import (
	"os"
	"path/filepath"
	"strings"
)

// ErrorPosition represents a position in a source file.
type ErrorPosition struct {
	File   string
	Line   int
	Column int
}

// CompilerError represents a structured error with position information,
// suitable for rendering with source context the way a compiler would.
type CompilerError struct {
	Position ErrorPosition
	Type     string // "error", "warning", "info"
	Message  string
	Context  []string // source lines surrounding the error, for display
}

// ToRelativePath converts an absolute path to a relative path from the current
// working directory. If the relative path escapes the working directory, the
// absolute path is returned instead for clarity.
func ToRelativePath(path string) string {
	if !filepath.IsAbs(path) {
		return path
	}

	wd, err := os.Getwd()
	if err != nil {
		return path
	}

	relPath, err := filepath.Rel(wd, path)
	if err != nil {
		return path
	}

	if strings.Contains(relPath, "..") {
		return path
	}

	return relPath
}

// findWordEnd finds the end of the token starting at the given byte offset.
func findWordEnd(line string, start int) int {
	if start >= len(line) {
		return len(line)
	}

	end := start
	for end < len(line) {
		char := line[end]
		if char == ' ' || char == '\t' || char == ':' || char == '\n' || char == '\r' {
			break
		}
		end++
	}

	return end
}
