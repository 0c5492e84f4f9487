package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"go.uber.org/zap"
	"google.golang.org/api/drive/v3"
)

const (
	folderMimeType      = "application/vnd.google-apps.folder"
	googleSheetMimeType = "application/vnd.google-apps.spreadsheet"
	xlsxMimeType        = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// DriveSource lists and downloads the files of one Google Drive folder.
type DriveSource struct {
	svc      *drive.Service
	folderID string
	logger   *zap.Logger

	mu        sync.Mutex
	mimeTypes map[string]string
}

// NewDriveSource wraps an authenticated Drive client.
func NewDriveSource(svc *drive.Service, folderID string, logger *zap.Logger) *DriveSource {
	return &DriveSource{
		svc:       svc,
		folderID:  folderID,
		logger:    logger,
		mimeTypes: make(map[string]string),
	}
}

// List returns the non-trashed files directly inside the folder, by name.
// Subfolders are skipped.
func (s *DriveSource) List(ctx context.Context) ([]FileInfo, error) {
	q := fmt.Sprintf("'%s' in parents and trashed=false", strings.ReplaceAll(s.folderID, "'", `\'`))

	var files []FileInfo
	call := s.svc.Files.List().
		Q(q).
		OrderBy("name").
		Fields("nextPageToken, files(id, name, size, mimeType)").
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true)

	err := call.Pages(ctx, func(page *drive.FileList) error {
		for _, f := range page.Files {
			if f.MimeType == folderMimeType {
				continue
			}
			s.remember(f.Id, f.MimeType)
			files = append(files, FileInfo{ID: f.Id, Name: f.Name, Size: f.Size})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing drive folder %s: %w", s.folderID, err)
	}

	s.logger.Debug("listed drive folder", zap.String("folder", s.folderID), zap.Int("files", len(files)))
	return files, nil
}

// Fetch downloads a file's content. Native Google Sheets are exported as
// .xlsx workbooks.
func (s *DriveSource) Fetch(ctx context.Context, id string) ([]byte, error) {
	var (
		resp *http.Response
		err  error
	)
	if s.mimeType(id) == googleSheetMimeType {
		resp, err = s.svc.Files.Export(id, xlsxMimeType).Context(ctx).Download()
	} else {
		resp, err = s.svc.Files.Get(id).SupportsAllDrives(true).Context(ctx).Download()
	}
	if err != nil {
		return nil, fmt.Errorf("downloading %s: %w", id, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", id, err)
	}
	return data, nil
}

func (s *DriveSource) remember(id, mimeType string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mimeTypes[id] = mimeType
}

func (s *DriveSource) mimeType(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mimeTypes[id]
}
