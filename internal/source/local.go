package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// tabularExts are the file extensions a directory listing picks up.
var tabularExts = map[string]bool{
	".csv":  true,
	".xls":  true,
	".xlsx": true,
	".xlsm": true,
}

// LocalSource reads loan files from a directory. File IDs are base names.
type LocalSource struct {
	dir string
}

// NewLocalSource creates a LocalSource rooted at dir.
func NewLocalSource(dir string) *LocalSource {
	return &LocalSource{dir: dir}
}

// List returns tabular files in the directory sorted by name. A missing
// directory is ErrSourceNotFound; an existing empty one yields no files.
func (s *LocalSource) List(_ context.Context) ([]FileInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s: %w", ErrSourceNotFound, s.dir, err)
		}
		return nil, fmt.Errorf("reading dir %s: %w", s.dir, err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), "~$") {
			continue
		}
		if !tabularExts[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			ID:   e.Name(),
			Name: e.Name(),
			Size: info.Size(),
		})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// Fetch reads a file by ID. IDs containing path separators are rejected.
func (s *LocalSource) Fetch(_ context.Context, id string) ([]byte, error) {
	if id != filepath.Base(id) || id == "." || id == ".." {
		return nil, fmt.Errorf("invalid file id %q", id)
	}
	data, err := os.ReadFile(filepath.Join(s.dir, id))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", id, err)
	}
	return data, nil
}
