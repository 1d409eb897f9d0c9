package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"time"

	"artchive-gallery/internal/blob"
	"artchive-gallery/internal/gallery/metrics"
	"artchive-gallery/internal/gallery/models"
	"artchive-gallery/internal/gallery/repository"

	"github.com/google/uuid"
)

const (
	ThumbnailSide = 512
	urlExpiry     = 15 * time.Minute
)

var ErrSnapshotNotFound = errors.New("snapshot not found")

// ============================================================
// Snapshot Service
// ============================================================

// SnapshotService рендерит текущую версию галереи и складывает
// SVG и PNG в blob-хранилище.
type SnapshotService struct {
	repo     *repository.Repository
	blobs    blob.Store
	renderer Renderer
	metrics  *metrics.Metrics
	prefix   string
}

func NewSnapshotService(repo *repository.Repository, blobs blob.Store, renderer Renderer, m *metrics.Metrics, prefix string) *SnapshotService {
	return &SnapshotService{repo: repo, blobs: blobs, renderer: renderer, metrics: m, prefix: prefix}
}

// Create снимает текущую версию галереи.
func (s *SnapshotService) Create(ctx context.Context, galleryID string) (snap *models.Snapshot, err error) {
	defer func() { s.metrics.ObserveSnapshot(err) }()

	g, err := s.repo.Get(ctx, galleryID)
	if err != nil {
		return nil, err
	}

	svg, err := s.renderer.SVG(ctx, g.Document)
	if err != nil {
		return nil, fmt.Errorf("render svg: %w", err)
	}
	png, err := s.renderer.PNG(ctx, g.Document, ThumbnailSide)
	if err != nil {
		return nil, fmt.Errorf("render png: %w", err)
	}

	id := uuid.NewString()
	base := fmt.Sprintf("%s%s/v%d-%s", s.prefix, galleryID, g.Version, id)
	meta := map[string]string{"gallery": galleryID, "version": strconv.FormatInt(g.Version, 10)}

	svgInfo, err := s.blobs.Put(ctx, base+".svg", bytes.NewReader(svg), blob.PutOptions{ContentType: "image/svg+xml", Metadata: meta})
	if err != nil {
		return nil, fmt.Errorf("store svg: %w", err)
	}
	pngInfo, err := s.blobs.Put(ctx, base+".png", bytes.NewReader(png), blob.PutOptions{ContentType: "image/png", Metadata: meta})
	if err != nil {
		s.cleanup(ctx, svgInfo.Key)
		return nil, fmt.Errorf("store png: %w", err)
	}

	snap = &models.Snapshot{
		ID:        id,
		GalleryID: galleryID,
		Version:   g.Version,
		SVGKey:    svgInfo.Key,
		PNGKey:    pngInfo.Key,
	}
	if err := s.repo.AddSnapshot(ctx, *snap); err != nil {
		s.cleanup(ctx, svgInfo.Key, pngInfo.Key)
		return nil, err
	}

	log.Printf("[SNAPSHOT] %s v%d stored (%d B svg, %d B png)", galleryID, g.Version, len(svg), len(png))
	s.attachURLs(ctx, snap)
	return snap, nil
}

// List возвращает снимки с временными ссылками, если хранилище их умеет.
func (s *SnapshotService) List(ctx context.Context, galleryID string) ([]models.Snapshot, error) {
	snaps, err := s.repo.ListSnapshots(ctx, galleryID)
	if err != nil {
		return nil, err
	}
	for i := range snaps {
		s.attachURLs(ctx, &snaps[i])
	}
	return snaps, nil
}

// Open отдаёт содержимое снимка в формате svg или png.
func (s *SnapshotService) Open(ctx context.Context, galleryID, snapshotID, format string) (blob.Info, io.ReadCloser, error) {
	snaps, err := s.repo.ListSnapshots(ctx, galleryID)
	if err != nil {
		return blob.Info{}, nil, err
	}
	for _, snap := range snaps {
		if snap.ID != snapshotID {
			continue
		}
		switch format {
		case "svg":
			return s.blobs.Get(ctx, snap.SVGKey)
		case "png":
			return s.blobs.Get(ctx, snap.PNGKey)
		default:
			return blob.Info{}, nil, fmt.Errorf("unknown format %q", format)
		}
	}
	return blob.Info{}, nil, ErrSnapshotNotFound
}

// DeleteAll убирает файлы снимков галереи из хранилища.
func (s *SnapshotService) DeleteAll(ctx context.Context, galleryID string) error {
	infos, err := s.blobs.List(ctx, s.prefix+galleryID+"/")
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(infos))
	for _, info := range infos {
		keys = append(keys, info.Key)
	}
	s.cleanup(ctx, keys...)
	return nil
}

func (s *SnapshotService) attachURLs(ctx context.Context, snap *models.Snapshot) {
	if url, err := s.blobs.PresignURL(ctx, snap.SVGKey, urlExpiry); err == nil {
		snap.SVGURL = url
	}
	if url, err := s.blobs.PresignURL(ctx, snap.PNGKey, urlExpiry); err == nil {
		snap.PNGURL = url
	}
}

func (s *SnapshotService) cleanup(ctx context.Context, keys ...string) {
	for _, key := range keys {
		if _, err := s.blobs.Delete(ctx, key); err != nil {
			log.Printf("[SNAPSHOT] cleanup %s: %v", key, err)
		}
	}
}
