package blob

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ============================================================
// Filesystem Store
// ============================================================

// FileStore раскладывает объекты по файлам под root. Рядом с каждым
// файлом лежит sidecar <file>.meta с типом содержимого и метаданными.
type FileStore struct {
	root string
}

const metaSuffix = ".meta"

type fileMeta struct {
	ContentType string            `json:"contentType,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	ETag        string            `json:"etag"`
	Size        int64             `json:"size"`
	CreatedAt   time.Time         `json:"createdAt"`
}

func NewFilesystem(root string) (*FileStore, error) {
	if root == "" {
		root = "data/snapshots"
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir blob root: %w", err)
	}
	return &FileStore{root: root}, nil
}

func (s *FileStore) Driver() Driver { return DriverFilesystem }

func (s *FileStore) paths(key string) (string, string, error) {
	clean, err := cleanKey(key)
	if err != nil {
		return "", "", err
	}
	dataPath := filepath.Join(s.root, filepath.FromSlash(clean))
	return dataPath, dataPath + metaSuffix, nil
}

func (s *FileStore) Put(_ context.Context, key string, r io.Reader, opts PutOptions) (Info, error) {
	dataPath, metaPath, err := s.paths(key)
	if err != nil {
		return Info{}, err
	}
	if _, err := os.Stat(dataPath); err == nil {
		return Info{}, fmt.Errorf("%w: %s", ErrExists, key)
	}
	if err := os.MkdirAll(filepath.Dir(dataPath), 0o755); err != nil {
		return Info{}, fmt.Errorf("mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dataPath), ".tmp-*")
	if err != nil {
		return Info{}, fmt.Errorf("create temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	h := sha256.New()
	size, err := io.Copy(io.MultiWriter(tmp, h), r)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return Info{}, fmt.Errorf("write blob: %w", err)
	}
	if err := os.Rename(tmp.Name(), dataPath); err != nil {
		return Info{}, fmt.Errorf("move blob: %w", err)
	}

	meta := fileMeta{
		ContentType: opts.ContentType,
		Metadata:    cloneMetadata(opts.Metadata),
		ETag:        hex.EncodeToString(h.Sum(nil)),
		Size:        size,
		CreatedAt:   time.Now().UTC(),
	}
	data, err := json.Marshal(meta)
	if err != nil {
		return Info{}, fmt.Errorf("encode meta: %w", err)
	}
	if err := os.WriteFile(metaPath, data, 0o644); err != nil {
		return Info{}, fmt.Errorf("write meta: %w", err)
	}
	return meta.info(key), nil
}

func (s *FileStore) Get(ctx context.Context, key string) (Info, io.ReadCloser, error) {
	info, err := s.Head(ctx, key)
	if err != nil {
		return Info{}, nil, err
	}
	dataPath, _, _ := s.paths(key)
	file, err := os.Open(dataPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Info{}, nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return Info{}, nil, err
	}
	return info, file, nil
}

func (s *FileStore) Head(_ context.Context, key string) (Info, error) {
	_, metaPath, err := s.paths(key)
	if err != nil {
		return Info{}, err
	}
	data, err := os.ReadFile(metaPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Info{}, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return Info{}, err
	}
	var meta fileMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return Info{}, fmt.Errorf("decode meta %s: %w", key, err)
	}
	return meta.info(key), nil
}

func (s *FileStore) Delete(_ context.Context, key string) (bool, error) {
	dataPath, metaPath, err := s.paths(key)
	if err != nil {
		return false, err
	}
	if err := os.Remove(dataPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	_ = os.Remove(metaPath)
	return true, nil
}

func (s *FileStore) List(ctx context.Context, prefix string) ([]Info, error) {
	var out []Info
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasSuffix(path, metaSuffix) || strings.HasPrefix(d.Name(), ".tmp-") {
			return nil
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if !strings.HasPrefix(key, prefix) {
			return nil
		}
		info, err := s.Head(ctx, key)
		if err != nil {
			return err
		}
		out = append(out, info)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list %q: %w", prefix, err)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (s *FileStore) PresignURL(context.Context, string, time.Duration) (string, error) {
	return "", ErrUnsupported
}

func (m fileMeta) info(key string) Info {
	return Info{
		Key:          key,
		Size:         m.Size,
		ContentType:  m.ContentType,
		ETag:         m.ETag,
		Metadata:     cloneMetadata(m.Metadata),
		LastModified: m.CreatedAt,
	}
}
