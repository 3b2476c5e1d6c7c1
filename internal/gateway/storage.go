package gateway

import (
	"context"

	"github.com/NaloDAO/community_app/infra/supabase"
)

type storageService struct {
	client *supabase.Client
}

// UploadFile stores the blob and returns its public URL.
func (s *storageService) UploadFile(ctx context.Context, bucket, path string, data []byte, contentType string) (string, error) {
	if _, err := s.client.Storage().Upload(ctx, bucket, path, data, contentType); err != nil {
		return "", err
	}
	return s.client.Storage().PublicURL(bucket, path), nil
}

func (s *storageService) DeleteFile(ctx context.Context, bucket, path string) error {
	return s.client.Storage().Remove(ctx, bucket, []string{path})
}

func (s *storageService) PublicFileURL(bucket, path string) string {
	return s.client.Storage().PublicURL(bucket, path)
}
