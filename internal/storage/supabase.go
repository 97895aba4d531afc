package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	storage_go "github.com/supabase-community/storage-go"
	supa "github.com/supabase-community/supabase-go"
)

// SupabaseStorage stores files in a public Supabase Storage bucket.
type SupabaseStorage struct {
	client *supa.Client
	bucket string
	upsert bool
}

func NewSupabaseStorage(client *supa.Client, bucket string) *SupabaseStorage {
	return &SupabaseStorage{client: client, bucket: bucket}
}

// WithUpsert makes Save overwrite an existing object under the same key.
func (s *SupabaseStorage) WithUpsert() *SupabaseStorage {
	s.upsert = true
	return s
}

// Save uploads data and returns the bucket's public URL for it.
func (s *SupabaseStorage) Save(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	upsert := s.upsert
	_, err := s.client.Storage.UploadFile(s.bucket, key, bytes.NewReader(data), storage_go.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return "", fmt.Errorf("supabase upload to %s failed: %w", s.bucket, err)
	}
	res := s.client.Storage.GetPublicUrl(s.bucket, key)
	if res.SignedURL == "" {
		return "", fmt.Errorf("supabase returned no public url for %s", key)
	}
	return res.SignedURL, nil
}

func (s *SupabaseStorage) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if _, err := s.client.Storage.RemoveFile(s.bucket, []string{key}); err != nil {
		return fmt.Errorf("supabase remove from %s failed: %w", s.bucket, err)
	}
	return nil
}

func (s *SupabaseStorage) KeyFromURL(url string) (string, bool) {
	marker := "/object/public/" + s.bucket + "/"
	i := strings.Index(url, marker)
	if i < 0 {
		return "", false
	}
	key := url[i+len(marker):]
	if q := strings.IndexByte(key, '?'); q >= 0 {
		key = key[:q]
	}
	return key, key != ""
}
