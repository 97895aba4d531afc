// Package storage uploads user images to object storage and returns the URL
// they are served from.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// FileStorage saves and removes objects by key.
type FileStorage interface {
	// Save uploads data under key and returns its public URL.
	Save(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	// KeyFromURL recovers the key of a URL returned by Save. ok is false for
	// URLs this storage did not produce.
	KeyFromURL(url string) (key string, ok bool)
}

var (
	_ FileStorage = (*S3Storage)(nil)
	_ FileStorage = (*SupabaseStorage)(nil)
	_ FileStorage = Disabled{}
)

// ErrDisabled is returned by Disabled.
var ErrDisabled = errors.New("file uploads are disabled")

// Disabled is the FileStorage used when no bucket is configured.
type Disabled struct{}

func (Disabled) Save(context.Context, string, []byte, string) (string, error) { return "", ErrDisabled }
func (Disabled) Delete(context.Context, string) error                         { return ErrDisabled }
func (Disabled) KeyFromURL(string) (string, bool)                             { return "", false }

// validateKey rejects storage keys containing path traversal segments.
func validateKey(key string) error {
	if key == "" {
		return fmt.Errorf("empty storage key")
	}
	for _, segment := range strings.Split(key, "/") {
		if segment == ".." {
			return fmt.Errorf("path traversal detected in storage key")
		}
	}
	return nil
}

var safeFilenameRe = regexp.MustCompile(`[^\w.-]`)

// SanitizeFilename keeps word characters, dots and dashes.
func SanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = safeFilenameRe.ReplaceAllString(name, "_")
	if name == "" || name == "." || name == ".." {
		name = "upload"
	}
	if len(name) > 255 {
		ext := filepath.Ext(name)
		stem := strings.TrimSuffix(name, ext)
		maxStem := 255 - len(ext)
		if maxStem < 1 {
			maxStem = 1
		}
		if len(stem) > maxStem {
			stem = stem[:maxStem]
		}
		name = stem + ext
	}
	return name
}

// ObjectKey builds <folder>/<owner>/<unixmillis>_<filename>.
func ObjectKey(folder, owner, filename string, at time.Time) string {
	return fmt.Sprintf("%s/%s/%d_%s", folder, owner, at.UnixMilli(), SanitizeFilename(filename))
}
