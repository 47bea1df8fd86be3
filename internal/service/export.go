package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strconv"
	"time"

	"github.com/google/uuid"

	"cookbook/internal/storage"
)

// ExportResult describes a catalog snapshot stored in object storage.
type ExportResult struct {
	Key       string    `json:"key"`
	Size      int64     `json:"size"`
	Count     int       `json:"count"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Export reads the catalog without touching view counters and uploads it as a JSON array.
// The uploaded object is removed again if a download link cannot be produced.
func (s *recipeService) Export(ctx context.Context) (*ExportResult, error) {
	if s.store == nil {
		return nil, ErrExportDisabled
	}

	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}

	body, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}

	now := s.now().UTC()
	key := path.Join("exports", fmt.Sprintf("recipes-%s-%s.json", now.Format("20060102T150405Z"), uuid.NewString()))

	info, err := s.store.Put(ctx, key, bytes.NewReader(body), storage.PutObjectOptions{
		Size:        int64(len(body)),
		ContentType: "application/json",
		Metadata: map[string]string{
			"recipe-count": strconv.Itoa(len(items)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload export: %w", err)
	}

	link, err := s.store.PresignGet(ctx, info.Key, s.exportTTL)
	if err != nil {
		if delErr := s.store.Delete(ctx, info.Key); delErr != nil {
			return nil, fmt.Errorf("presign export: %w; cleanup failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("presign export: %w", err)
	}

	s.metrics.catalogExported()
	return &ExportResult{
		Key:       info.Key,
		Size:      info.Size,
		Count:     len(items),
		URL:       link,
		ExpiresAt: now.Add(s.exportTTL),
		CreatedAt: now,
	}, nil
}
