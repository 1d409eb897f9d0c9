package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"
)

// ============================================================
// Blob Store
// ============================================================

type Driver string

const (
	DriverFilesystem Driver = "fs"
	DriverMemory     Driver = "memory"
	DriverS3         Driver = "s3"
)

var (
	ErrNotFound    = errors.New("blob: not found")
	ErrExists      = errors.New("blob: already exists")
	ErrInvalidKey  = errors.New("blob: invalid key")
	ErrUnsupported = errors.New("blob: unsupported operation")
)

type PutOptions struct {
	ContentType string
	Metadata    map[string]string
}

// Info описывает сохранённый объект.
type Info struct {
	Key          string            `json:"key"`
	Size         int64             `json:"size"`
	ContentType  string            `json:"contentType,omitempty"`
	ETag         string            `json:"etag,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	LastModified time.Time         `json:"lastModified"`
}

// Store: минимальное S3-подобное хранилище снимков галерей.
// Put не перезаписывает существующий ключ. List сортирует по ключу.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, opts PutOptions) (Info, error)
	Get(ctx context.Context, key string) (Info, io.ReadCloser, error)
	Head(ctx context.Context, key string) (Info, error)
	Delete(ctx context.Context, key string) (bool, error)
	List(ctx context.Context, prefix string) ([]Info, error)
	PresignURL(ctx context.Context, key string, expiry time.Duration) (string, error)
	Driver() Driver
}

// cleanKey запрещает пустые, абсолютные ключи и выход за корень.
func cleanKey(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidKey)
	}
	if strings.HasPrefix(key, "/") || strings.Contains(key, "..") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filepath.ToSlash(filepath.Clean(key)), nil
}

func cloneMetadata(md map[string]string) map[string]string {
	if len(md) == 0 {
		return nil
	}
	out := make(map[string]string, len(md))
	for k, v := range md {
		out[k] = v
	}
	return out
}
