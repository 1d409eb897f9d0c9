package autosave

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"artchive-gallery/internal/canvas/models"
)

// ============================================================
// HTTP Store
// ============================================================

// ErrNotFound: галерея ещё не сохранялась.
var ErrNotFound = errors.New("document not found")

// HTTPStore сохраняет документы в gallery-сервисе.
type HTTPStore struct {
	baseURL string
	client  *http.Client
}

func NewHTTPStore(baseURL string, timeout time.Duration) *HTTPStore {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (s *HTTPStore) documentURL(documentID string) string {
	return fmt.Sprintf("%s/galleries/%s/document", s.baseURL, url.PathEscape(documentID))
}

// Save отправляет документ методом PUT.
func (s *HTTPStore) Save(ctx context.Context, documentID string, doc models.Document) (models.ServerDocument, error) {
	body, err := json.Marshal(doc)
	if err != nil {
		return models.ServerDocument{}, fmt.Errorf("encode document: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, s.documentURL(documentID), bytes.NewReader(body))
	if err != nil {
		return models.ServerDocument{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return s.do(req)
}

// Load забирает сохранённый документ.
func (s *HTTPStore) Load(ctx context.Context, documentID string) (models.ServerDocument, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.documentURL(documentID), nil)
	if err != nil {
		return models.ServerDocument{}, fmt.Errorf("build request: %w", err)
	}
	return s.do(req)
}

func (s *HTTPStore) do(req *http.Request) (models.ServerDocument, error) {
	resp, err := s.client.Do(req)
	if err != nil {
		return models.ServerDocument{}, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.ServerDocument{}, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return models.ServerDocument{}, ErrNotFound
	}
	if resp.StatusCode >= 300 {
		var payload struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &payload) == nil && payload.Error != "" {
			return models.ServerDocument{}, fmt.Errorf("gallery service: %s (status %d)", payload.Error, resp.StatusCode)
		}
		return models.ServerDocument{}, fmt.Errorf("gallery service: status %d", resp.StatusCode)
	}

	var out models.ServerDocument
	if err := json.Unmarshal(data, &out); err != nil {
		return models.ServerDocument{}, fmt.Errorf("decode response: %w", err)
	}
	return out, nil
}
