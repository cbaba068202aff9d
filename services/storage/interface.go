package storage

import "context"

// ArchiveService keeps off-site copies of generated report files.
type ArchiveService interface {
	// Upload stores the file under folder and returns its permanent identifier.
	Upload(ctx context.Context, localFilePath, folder string) (string, error)
	Delete(ctx context.Context, publicID string) error
}
