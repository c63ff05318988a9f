package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"example.com/millops/internal/document"
)

func bulkyDocument() *document.Document {
	doc := document.DefaultDocument()
	for i := 0; i < maxNotifications+50; i++ {
		doc.Notifications = append(doc.Notifications, document.Notification{
			ID:      fmt.Sprintf("n-%d", i),
			Message: fmt.Sprintf("notification %d", i),
		})
	}
	for i := 0; i < maxMessages+30; i++ {
		doc.Messages = append(doc.Messages, document.Message{
			ID:   fmt.Sprintf("m-%d", i),
			Body: fmt.Sprintf("message %d", i),
		})
	}
	doc.Products[0].Image = strings.Repeat("x", maxImageBytes+1)
	return doc
}

func TestCleanupDocumentCapsCollections(t *testing.T) {
	data, err := json.Marshal(bulkyDocument())
	require.NoError(t, err)

	cleaned, err := CleanupDocument(data)
	require.NoError(t, err)
	require.Less(t, len(cleaned), len(data))

	var doc document.Document
	require.NoError(t, json.Unmarshal(cleaned, &doc))

	require.Len(t, doc.Notifications, maxNotifications)
	require.Len(t, doc.Messages, maxMessages)

	// The newest entries survive
	require.Equal(t, fmt.Sprintf("n-%d", maxNotifications+49), doc.Notifications[len(doc.Notifications)-1].ID)
	require.Equal(t, fmt.Sprintf("m-%d", maxMessages+29), doc.Messages[len(doc.Messages)-1].ID)

	require.Empty(t, doc.Products[0].Image)
}

func TestCleanupDocumentKeepsAgedOrdersBelowThreshold(t *testing.T) {
	doc := document.DefaultDocument()
	old := time.Now().Add(-orderRetentionWindow - 24*time.Hour)
	for i := 0; i < 10; i++ {
		doc.Orders = append(doc.Orders, document.Order{ID: int64(i + 1), CreatedAt: old})
	}

	data, err := json.Marshal(doc)
	require.NoError(t, err)
	cleaned, err := CleanupDocument(data)
	require.NoError(t, err)

	var out document.Document
	require.NoError(t, json.Unmarshal(cleaned, &out))
	require.Len(t, out.Orders, 10, "small order lists are never trimmed, however old")
}

func TestCleanupDocumentDropsAgedOrdersPastThreshold(t *testing.T) {
	doc := document.DefaultDocument()
	old := time.Now().Add(-orderRetentionWindow - 24*time.Hour)
	for i := 0; i < orderRetentionThreshold; i++ {
		doc.Orders = append(doc.Orders, document.Order{ID: int64(i + 1), CreatedAt: old})
	}
	doc.Orders = append(doc.Orders, document.Order{ID: 9001, CreatedAt: time.Now()})

	data, err := json.Marshal(doc)
	require.NoError(t, err)
	cleaned, err := CleanupDocument(data)
	require.NoError(t, err)

	var out document.Document
	require.NoError(t, json.Unmarshal(cleaned, &out))
	require.Len(t, out.Orders, 1)
	require.Equal(t, int64(9001), out.Orders[0].ID)
}

func TestQuotaStoreRecoversByCleanup(t *testing.T) {
	data, err := json.Marshal(bulkyDocument())
	require.NoError(t, err)

	// Capacity admits the document only after a cleanup pass shrinks it
	inner := NewBoundedMemoryStore(len(data) - 1)
	s := NewQuotaStore(inner, t.TempDir())
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, DocumentKey, data))

	stored, err := inner.Load(ctx, DocumentKey)
	require.NoError(t, err)
	require.Less(t, len(stored), len(data))

	var doc document.Document
	require.NoError(t, json.Unmarshal(stored, &doc))
	require.Len(t, doc.Notifications, maxNotifications)
}

func TestQuotaStoreExportsAndClearsAsLastResort(t *testing.T) {
	doc := document.DefaultDocument()
	data, err := json.Marshal(doc)
	require.NoError(t, err)

	// Nothing the cleanup can shrink; capacity stays too small
	inner := NewBoundedMemoryStore(10)
	backupDir := t.TempDir()
	s := NewQuotaStore(inner, backupDir)
	ctx := context.Background()

	err = s.Save(ctx, DocumentKey, data)
	require.Error(t, err)

	entries, err := os.ReadDir(backupDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.True(t, strings.HasPrefix(entries[0].Name(), "millops-backup-"))

	exported, err := os.ReadFile(filepath.Join(backupDir, entries[0].Name()))
	require.NoError(t, err)

	var backup document.Document
	require.NoError(t, json.Unmarshal(exported, &backup))
	require.Len(t, backup.Admins, 1)

	// The document key was cleared so the next read reseeds
	_, err = inner.Load(ctx, DocumentKey)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestQuotaStorePassesThroughOtherErrors(t *testing.T) {
	inner := NewMemoryStore()
	s := NewQuotaStore(inner, t.TempDir())
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "k", []byte("v")))
	data, err := s.Load(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "v", string(data))

	_, err = s.Load(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)
}
