package port

import (
	"context"
	"io"
)

type VideoStorage interface {
	DownloadObject(ctx context.Context, objectKey string, destPath string) error
	UploadEvidence(ctx context.Context, objectKey string, reader io.Reader, size int64) error
}
