package local

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/sematx/opendata-seed/internal/core/ports"
)

// DirSource reads seed CSV files from a local directory.
type DirSource struct {
	dir string
}

var _ ports.SeedSource = (*DirSource)(nil)

func NewDirSource(dir string) *DirSource {
	return &DirSource{dir: dir}
}

// List returns the paths of the *.csv files in the directory, sorted by name.
// A missing directory yields an empty list.
func (d *DirSource) List(_ context.Context) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(d.dir, "*.csv"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", d.dir, err)
	}

	files := matches[:0]
	for _, m := range matches {
		if info, err := os.Stat(m); err == nil && info.Mode().IsRegular() {
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files, nil
}

func (d *DirSource) Open(_ context.Context, name string) (io.ReadCloser, error) {
	return os.Open(name)
}

func (d *DirSource) Location() string {
	return d.dir
}
