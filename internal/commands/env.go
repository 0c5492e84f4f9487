package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/branchdash/loandash/internal/combine"
	"github.com/branchdash/loandash/internal/config"
	"github.com/branchdash/loandash/internal/dashboard"
	"github.com/branchdash/loandash/internal/logging"
	"github.com/branchdash/loandash/internal/model"
	"github.com/branchdash/loandash/internal/source"
)

// env is everything a subcommand needs to query the dashboard.
type env struct {
	cfg     *config.Config
	logger  *zap.Logger
	service *dashboard.Service
}

// loadEnv reads the config, applies flag overrides and connects the source.
// A missing config file falls back to the defaults.
func loadEnv(cmd *cobra.Command, opts *globalOptions) (*env, error) {
	cfg, err := config.Load(opts.configPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		cfg = config.Default()
	case err != nil:
		return nil, err
	default:
		resolvePaths(cfg, filepath.Dir(opts.configPath))
	}

	if opts.dir != "" {
		cfg.Source.Kind = config.SourceLocal
		cfg.Source.Directory = opts.dir
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}

	src, err := newSource(cmd, cfg, logger)
	if err != nil {
		return nil, err
	}

	return &env{
		cfg:     cfg,
		logger:  logger,
		service: dashboard.NewService(src, cfg.Dashboard.FetchWorkers, logger),
	}, nil
}

// resolvePaths makes relative paths in cfg relative to the config file.
func resolvePaths(cfg *config.Config, base string) {
	for _, p := range []*string{&cfg.Source.Directory, &cfg.Source.CredentialsFile, &cfg.Source.TokenFile} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}
}

func newSource(cmd *cobra.Command, cfg *config.Config, logger *zap.Logger) (source.FileSource, error) {
	switch cfg.Source.Kind {
	case config.SourceDrive:
		svc, err := source.NewDriveService(cmd.Context(), source.DriveAuth{
			Mode:            cfg.Source.Auth,
			CredentialsFile: cfg.Source.CredentialsFile,
			TokenFile:       cfg.Source.TokenFile,
		}, source.Prompt{In: cmd.InOrStdin(), Out: cmd.ErrOrStderr()}, logger)
		if err != nil {
			return nil, fmt.Errorf("connecting to drive: %w", err)
		}
		return source.NewDriveSource(svc, cfg.Source.FolderID, logger), nil
	case config.SourceLocal:
		return source.NewLocalSource(cfg.Source.Directory), nil
	default:
		return nil, fmt.Errorf("unknown source kind %q", cfg.Source.Kind)
	}
}

// selectionFlags are the filter flags shared by show and export.
type selectionFlags struct {
	file   string
	branch string
	status string
}

func (f *selectionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.file, "file", "", `file to read (default "All Files (Combined)")`)
	cmd.Flags().StringVar(&f.branch, "branch", "", "branch filter (default from config)")
	cmd.Flags().StringVar(&f.status, "status", "", "status filter (default from config)")
}

func (f *selectionFlags) resolve(cfg *config.Config) (string, model.FilterSelection) {
	file := f.file
	if file == "" {
		file = combine.Combined
	}
	sel := model.FilterSelection{Branch: f.branch, Status: f.status}
	if sel.Branch == "" {
		sel.Branch = cfg.Dashboard.DefaultBranch
	}
	if sel.Status == "" {
		sel.Status = cfg.Dashboard.DefaultStatus
	}
	return file, sel
}

// userError shows the explained message while keeping the cause for errors.Is.
type userError struct {
	msg dashboard.UserMessage
	err error
}

func (e *userError) Error() string {
	if e.msg.Code == "internal" {
		return e.err.Error()
	}
	return e.msg.Message + " " + e.msg.Action
}

func (e *userError) Unwrap() error { return e.err }

func explain(logger *zap.Logger, err error) error {
	msg := dashboard.Explain(err)
	logger.Debug("dashboard error", zap.String("code", msg.Code), zap.Error(err))
	return &userError{msg: msg, err: err}
}
