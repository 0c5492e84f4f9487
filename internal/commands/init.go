package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/branchdash/loandash/internal/config"
)

func newInitCommand() *cobra.Command {
	var folderID string
	var auth string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new dashboard project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			if err := runInit(absDir, folderID, auth); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized loan dashboard at %s\n", absDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&folderID, "drive-folder", "", "Google Drive folder ID; omit to read ./data")
	cmd.Flags().StringVar(&auth, "auth", "service_account", "drive auth mode: service_account or oauth")

	return cmd
}

func runInit(dir, folderID, auth string) error {
	cfgPath := filepath.Join(dir, "loandash.yaml")
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists", cfgPath)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking config: %w", err)
	}

	cfg := config.Default()
	if folderID != "" {
		cfg.Source.Kind = config.SourceDrive
		cfg.Source.FolderID = folderID
		cfg.Source.Auth = auth
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}

	// Local files go in data/ even for drive projects, for offline use with --dir.
	if err := os.MkdirAll(filepath.Join(dir, cfg.Source.Directory), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	gitignore := "credentials.json\ntoken.json\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}
	return nil
}
