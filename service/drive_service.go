package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"patron-studio/models"
)

// DriveFileStore persists generated documents in a Google Drive folder.
// Implements FileStoreInterface.
type DriveFileStore struct {
	client   *drive.Service
	folderID string
}

// NewDriveFileStore creates a new DriveFileStore.
// credentialsPath should be the path to the Service Account JSON file;
// folderID is the Drive folder that receives generated files.
func NewDriveFileStore(credentialsPath, folderID string) (*DriveFileStore, error) {
	ctx := context.Background()

	// option.WithCredentialsFile automatically handles Service Account authentication
	driveService, err := drive.NewService(ctx, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}

	return &DriveFileStore{
		client:   driveService,
		folderID: folderID,
	}, nil
}

// Ensure DriveFileStore implements FileStoreInterface
var _ FileStoreInterface = (*DriveFileStore)(nil)

// CreateFile uploads the given bytes into the configured folder and
// returns a retrievable handle
func (s *DriveFileStore) CreateFile(ctx context.Context, name string, data []byte) (*models.StoredFile, error) {
	meta := &drive.File{
		Name:     name,
		MimeType: mimeTypeForName(name),
	}
	if s.folderID != "" {
		meta.Parents = []string{s.folderID}
	}

	file, err := s.client.Files.Create(meta).
		Media(bytes.NewReader(data)).
		Fields("id").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to upload file %s: %w", name, err)
	}

	url := fmt.Sprintf("https://drive.google.com/uc?id=%s", file.Id)
	log.Printf("✓ File stored: id=%s name=%s (%d bytes)", file.Id, name, len(data))

	return &models.StoredFile{ID: file.Id, URL: url}, nil
}

// GetFile returns the stored file with the given id, or nil when Drive
// reports it missing
func (s *DriveFileStore) GetFile(ctx context.Context, id string) (*models.StoredFile, error) {
	file, err := s.client.Files.Get(id).Fields("id").Context(ctx).Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && apiErr.Code == 404 {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get file %s: %w", id, err)
	}

	return &models.StoredFile{
		ID:  file.Id,
		URL: fmt.Sprintf("https://drive.google.com/uc?id=%s", file.Id),
	}, nil
}

// mimeTypeForName picks the upload MIME type from the file extension
func mimeTypeForName(name string) string {
	switch {
	case strings.HasSuffix(strings.ToLower(name), ".pdf"):
		return "application/pdf"
	case strings.HasSuffix(strings.ToLower(name), ".png"):
		return "image/png"
	case strings.HasSuffix(strings.ToLower(name), ".jpg"), strings.HasSuffix(strings.ToLower(name), ".jpeg"):
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}
