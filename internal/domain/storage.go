package domain

import "context"

// CVStorage is the narrow surface the submission flow needs from object
// storage: presigned URLs only, no server-side streaming.
type CVStorage interface {
	UploadURL(ctx context.Context, key string) (string, error)
	DownloadURL(ctx context.Context, key string) (string, error)
}
