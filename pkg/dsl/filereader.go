package dsl

import (
	"fmt"
	"os"

	"github.com/github/topodsl/pkg/fileutil"
)

// ContentReader reads the bytes at a path. The default implementation reads
// from the local filesystem; tests and embedders supply their own to serve
// content from memory without touching disk.
//
// Each Parse/ParseFromFile call receives its own ContentReader (or the
// default) rather than reaching for a package-level variable, so concurrent
// invocations on disjoint inputs never share mutable state.
type ContentReader interface {
	ReadFile(path string) ([]byte, error)
}

type osContentReader struct{}

func (osContentReader) ReadFile(path string) ([]byte, error) {
	if !fileutil.FileExists(path) {
		return nil, fmt.Errorf("no such file: %s", path)
	}
	return os.ReadFile(path)
}

// defaultContentReader reads files directly from the local filesystem.
var defaultContentReader ContentReader = osContentReader{}
