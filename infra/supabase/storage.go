package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// StorageClient handles object storage operations.
type StorageClient struct {
	client *Client
}

// Upload uploads an object to a bucket.
func (s *StorageClient) Upload(ctx context.Context, bucket, path string, data []byte, contentType string) (*UploadResult, error) {
	urlStr := fmt.Sprintf("%s/object/%s/%s", s.client.storageURL, bucket, path)

	req, err := http.NewRequestWithContext(ctx, "POST", urlStr, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("apikey", s.client.config.AnonKey)
	req.Header.Set("Authorization", "Bearer "+s.client.config.AnonKey)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := s.client.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, parseError(body, resp.StatusCode)
	}

	var result UploadResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	return &result, nil
}

// Download fetches an object's contents.
func (s *StorageClient) Download(ctx context.Context, bucket, path string) ([]byte, error) {
	urlStr := fmt.Sprintf("%s/object/%s/%s", s.client.storageURL, bucket, path)

	resp, err := s.client.request(ctx, "GET", urlStr, nil, nil)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		return nil, parseError(resp.Body, resp.StatusCode)
	}
	return resp.Body, nil
}

// Remove deletes objects from a bucket.
func (s *StorageClient) Remove(ctx context.Context, bucket string, paths []string) error {
	urlStr := fmt.Sprintf("%s/object/%s", s.client.storageURL, bucket)

	body, err := json.Marshal(map[string][]string{"prefixes": paths})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	resp, err := s.client.request(ctx, "DELETE", urlStr, body, nil)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		return parseError(resp.Body, resp.StatusCode)
	}
	return nil
}

// PublicURL returns the public URL for an object in a public bucket. No
// request is made; the URL is derived locally.
func (s *StorageClient) PublicURL(bucket, path string) string {
	return fmt.Sprintf("%s/object/public/%s/%s", s.client.storageURL, bucket, path)
}
