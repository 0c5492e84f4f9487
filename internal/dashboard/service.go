// Package dashboard wires a file source to the parse, combine and summary
// pipeline. Every call reloads from the source; nothing is cached between
// calls.
package dashboard

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/branchdash/loandash/internal/combine"
	"github.com/branchdash/loandash/internal/model"
	"github.com/branchdash/loandash/internal/source"
	"github.com/branchdash/loandash/internal/summary"
)

// Service answers dashboard queries against a file source.
type Service struct {
	src     source.FileSource
	workers int
	logger  *zap.Logger
}

// NewService creates a Service fetching with up to workers parallel downloads.
func NewService(src source.FileSource, workers int, logger *zap.Logger) *Service {
	return &Service{src: src, workers: workers, logger: logger}
}

// Files lists the files available from the source.
func (s *Service) Files(ctx context.Context) ([]source.FileInfo, error) {
	files, err := s.src.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing files: %w", err)
	}
	return files, nil
}

// Choices returns the selectable file entries: Combined first, then each
// file name in listing order.
func (s *Service) Choices(ctx context.Context) ([]string, error) {
	files, err := s.Files(ctx)
	if err != nil {
		return nil, err
	}
	choices := make([]string, 0, len(files)+1)
	choices = append(choices, combine.Combined)
	for _, f := range files {
		choices = append(choices, f.Name)
	}
	return choices, nil
}

// Table loads the table for a file choice. Only the selected file is
// downloaded unless the choice is Combined.
func (s *Service) Table(ctx context.Context, choice string) (*model.Table, error) {
	var (
		raw []model.RawFile
		err error
	)
	if choice == combine.Combined {
		raw, err = source.Load(ctx, s.src, s.workers, s.logger)
	} else {
		raw, err = source.LoadOne(ctx, s.src, choice, s.logger)
	}
	if err != nil {
		return nil, err
	}

	t, err := combine.Aggregate(raw, choice)
	if err != nil {
		return nil, err
	}
	s.logger.Info("loaded table",
		zap.String("file", choice),
		zap.Int("files", len(raw)),
		zap.Int("rows", t.Len()),
		zap.Int("columns", len(t.Columns)))
	return t, nil
}

// Summarize loads choice and applies sel.
func (s *Service) Summarize(ctx context.Context, choice string, sel model.FilterSelection) (*summary.Result, error) {
	t, err := s.Table(ctx, choice)
	if err != nil {
		return nil, err
	}
	return summary.FilterAndSummarize(t, sel)
}

// Options loads choice and returns its selectable branches and statuses.
func (s *Service) Options(ctx context.Context, choice string) (branches, statuses []string, err error) {
	t, err := s.Table(ctx, choice)
	if err != nil {
		return nil, nil, err
	}
	return summary.Options(t)
}
