// Package source lists and downloads loan files from where they live:
// a Google Drive folder or a local directory.
package source

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/branchdash/loandash/internal/model"
)

// ErrSourceNotFound means the configured folder or directory does not exist.
var ErrSourceNotFound = errors.New("source folder not found")

// FileInfo describes a file available from a source.
type FileInfo struct {
	ID   string
	Name string
	Size int64
}

// FileSource lists files and returns their complete content.
type FileSource interface {
	List(ctx context.Context) ([]FileInfo, error)
	Fetch(ctx context.Context, id string) ([]byte, error)
}

// FetchAll downloads files with up to workers concurrent fetches. The
// result keeps the order of files regardless of completion order.
func FetchAll(ctx context.Context, src FileSource, files []FileInfo, workers int, logger *zap.Logger) ([]model.RawFile, error) {
	if workers < 1 {
		workers = 1
	}

	out := make([]model.RawFile, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, f := range files {
		g.Go(func() error {
			data, err := src.Fetch(ctx, f.ID)
			if err != nil {
				return fmt.Errorf("fetching %s: %w", f.Name, err)
			}
			logger.Debug("fetched file", zap.String("name", f.Name), zap.Int("bytes", len(data)))
			out[i] = model.RawFile{Name: f.Name, Data: data}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Load lists src and fetches every file in listing order.
func Load(ctx context.Context, src FileSource, workers int, logger *zap.Logger) ([]model.RawFile, error) {
	files, err := src.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing files: %w", err)
	}
	logger.Info("listed files", zap.Int("count", len(files)))
	return FetchAll(ctx, src, files, workers, logger)
}

// LoadOne fetches only the file whose name equals name. It returns a
// one-element slice, or an empty slice when nothing matches so the caller's
// aggregator reports the miss.
func LoadOne(ctx context.Context, src FileSource, name string, logger *zap.Logger) ([]model.RawFile, error) {
	files, err := src.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing files: %w", err)
	}
	for _, f := range files {
		if f.Name == name {
			return FetchAll(ctx, src, []FileInfo{f}, 1, logger)
		}
	}
	return nil, nil
}
