package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"example.com/millops/internal/document"
)

// Cleanup thresholds. These are heuristics, not a guaranteed-capacity
// policy.
const (
	// orderRetentionWindow is the rolling window of orders kept by a
	// cleanup pass
	orderRetentionWindow = 6 * 30 * 24 * time.Hour
	// orderRetentionThreshold is the order count below which aged
	// orders are left alone
	orderRetentionThreshold = 500
	// maxNotifications caps the notification list after cleanup
	maxNotifications = 100
	// maxMessages caps the message list after cleanup
	maxMessages = 200
	// maxImageBytes strips any product image payload larger than this
	maxImageBytes = 50 * 1024
)

// QuotaStore decorates a Store with best-effort recovery from
// capacity failures: one cleanup pass over the document, one retry,
// and as a last resort an export of the full document to a backup file
// followed by clearing the key. The final fallback accepts data loss
// rather than leaving the application unable to write.
type QuotaStore struct {
	inner     Store
	backupDir string
}

// NewQuotaStore wraps inner. Last-resort document exports are written
// under backupDir.
func NewQuotaStore(inner Store, backupDir string) *QuotaStore {
	return &QuotaStore{
		inner:     inner,
		backupDir: backupDir,
	}
}

// Load retrieves a blob by key
func (s *QuotaStore) Load(ctx context.Context, key string) ([]byte, error) {
	return s.inner.Load(ctx, key)
}

// Save stores a blob, running the recovery sequence on a capacity
// failure. Non-capacity failures pass through untouched.
func (s *QuotaStore) Save(ctx context.Context, key string, data []byte) error {
	err := s.inner.Save(ctx, key, data)
	if err == nil || !errors.Is(err, ErrCapacityExceeded) {
		return err
	}

	log.Warn().Str("key", key).Int("bytes", len(data)).
		Msg("Store capacity exceeded, running cleanup pass")

	data, cleanupErr := s.cleanup(ctx, key, data)
	if cleanupErr != nil {
		log.Error().Err(cleanupErr).Msg("Cleanup pass failed")
		return err
	}

	if retryErr := s.inner.Save(ctx, key, data); retryErr == nil {
		log.Info().Str("key", key).Int("bytes", len(data)).
			Msg("Save succeeded after cleanup")
		return nil
	} else if !errors.Is(retryErr, ErrCapacityExceeded) {
		return retryErr
	}

	// Still over capacity. Export what we can and clear the document so
	// the next write has room.
	if exportErr := s.exportAndClear(ctx, data); exportErr != nil {
		return errors.Wrap(exportErr, "capacity recovery failed")
	}
	return errors.New("store capacity exceeded; document exported and cleared")
}

// Delete removes a blob
func (s *QuotaStore) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, key)
}

// Close closes the wrapped store
func (s *QuotaStore) Close() error {
	return s.inner.Close()
}

// cleanup shrinks the application document. When the failed write was
// the document itself the incoming payload is cleaned; for auxiliary
// keys the stored document is cleaned in place to free room, and the
// original payload is retried unchanged.
func (s *QuotaStore) cleanup(ctx context.Context, key string, data []byte) ([]byte, error) {
	if key == DocumentKey {
		cleaned, err := CleanupDocument(data)
		if err != nil {
			return nil, err
		}
		return cleaned, nil
	}

	stored, err := s.inner.Load(ctx, DocumentKey)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return data, nil
		}
		return nil, err
	}

	cleaned, err := CleanupDocument(stored)
	if err != nil {
		return nil, err
	}
	if err := s.inner.Save(ctx, DocumentKey, cleaned); err != nil {
		return nil, errors.Wrap(err, "failed to store cleaned document")
	}
	return data, nil
}

func (s *QuotaStore) exportAndClear(ctx context.Context, data []byte) error {
	if err := os.MkdirAll(s.backupDir, 0o755); err != nil {
		return errors.Wrap(err, "failed to create backup directory")
	}

	name := fmt.Sprintf("millops-backup-%s.json", time.Now().Format("20060102-150405"))
	path := filepath.Join(s.backupDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, "failed to write backup file")
	}

	if err := s.inner.Delete(ctx, DocumentKey); err != nil {
		return errors.Wrap(err, "failed to clear document after export")
	}

	log.Error().Str("backup", path).
		Msg("Store capacity could not be recovered; document exported and cleared")
	return nil
}

// CleanupDocument applies the cleanup heuristics to a serialized
// document and returns the re-serialized result: aged orders dropped
// once the collection is past the retention threshold, notifications
// and messages capped at their most recent entries, and oversized
// embedded product images stripped.
func CleanupDocument(data []byte) ([]byte, error) {
	var doc document.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "failed to parse document for cleanup")
	}

	if len(doc.Orders) > orderRetentionThreshold {
		cutoff := time.Now().Add(-orderRetentionWindow)
		kept := doc.Orders[:0]
		for _, order := range doc.Orders {
			if order.CreatedAt.After(cutoff) {
				kept = append(kept, order)
			}
		}
		doc.Orders = kept
	}

	if len(doc.Notifications) > maxNotifications {
		doc.Notifications = doc.Notifications[len(doc.Notifications)-maxNotifications:]
	}
	if len(doc.Messages) > maxMessages {
		doc.Messages = doc.Messages[len(doc.Messages)-maxMessages:]
	}

	for i := range doc.Products {
		if len(doc.Products[i].Image) > maxImageBytes {
			doc.Products[i].Image = ""
		}
	}

	cleaned, err := json.Marshal(&doc)
	if err != nil {
		return nil, errors.Wrap(err, "failed to serialize cleaned document")
	}
	return cleaned, nil
}
