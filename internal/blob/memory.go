package blob

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"
)

// ============================================================
// Memory Store
// ============================================================

type memoryEntry struct {
	info Info
	data []byte
}

// MemoryStore хранит объекты в памяти процесса (тесты, dev).
type MemoryStore struct {
	mu   sync.RWMutex
	objs map[string]memoryEntry
}

func NewMemory() *MemoryStore {
	return &MemoryStore{objs: make(map[string]memoryEntry)}
}

func (s *MemoryStore) Driver() Driver { return DriverMemory }

func (s *MemoryStore) Put(_ context.Context, key string, r io.Reader, opts PutOptions) (Info, error) {
	key, err := cleanKey(key)
	if err != nil {
		return Info{}, err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return Info{}, fmt.Errorf("read blob: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.objs[key]; exists {
		return Info{}, fmt.Errorf("%w: %s", ErrExists, key)
	}
	sum := sha256.Sum256(data)
	info := Info{
		Key:          key,
		Size:         int64(len(data)),
		ContentType:  opts.ContentType,
		ETag:         hex.EncodeToString(sum[:]),
		Metadata:     cloneMetadata(opts.Metadata),
		LastModified: time.Now().UTC(),
	}
	s.objs[key] = memoryEntry{info: info, data: data}
	return info, nil
}

func (s *MemoryStore) Get(_ context.Context, key string) (Info, io.ReadCloser, error) {
	s.mu.RLock()
	entry, ok := s.objs[key]
	s.mu.RUnlock()
	if !ok {
		return Info{}, nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	info := entry.info
	info.Metadata = cloneMetadata(info.Metadata)
	return info, io.NopCloser(bytes.NewReader(bytes.Clone(entry.data))), nil
}

func (s *MemoryStore) Head(ctx context.Context, key string) (Info, error) {
	info, rc, err := s.Get(ctx, key)
	if err != nil {
		return Info{}, err
	}
	rc.Close()
	return info, nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objs[key]; !ok {
		return false, nil
	}
	delete(s.objs, key)
	return true, nil
}

func (s *MemoryStore) List(_ context.Context, prefix string) ([]Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Info
	for key, entry := range s.objs {
		if strings.HasPrefix(key, prefix) {
			info := entry.info
			info.Metadata = cloneMetadata(info.Metadata)
			out = append(out, info)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (s *MemoryStore) PresignURL(context.Context, string, time.Duration) (string, error) {
	return "", ErrUnsupported
}
