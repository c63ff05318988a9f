package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"example.com/millops/config"
	"example.com/millops/internal/document"
	"example.com/millops/internal/export"
	"example.com/millops/internal/metrics"
	"example.com/millops/internal/repository"
	"example.com/millops/internal/search"
	"example.com/millops/internal/service"
	"example.com/millops/internal/store"
	"example.com/millops/internal/tracing"
)

func newAdminRouter(t *testing.T) (*gin.Engine, *service.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := repository.NewDocument(store.NewMemoryStore())
	tracer, err := tracing.NewTracer(config.TracingConfig{})
	require.NoError(t, err)
	elastic, err := search.NewElasticClient(config.ElasticConfig{})
	require.NoError(t, err)
	svc := service.NewService(repo, metrics.NewMetrics(), elastic, tracer)

	router := gin.New()
	NewAdminHandler(svc, tracer).RegisterRoutes(router)
	return router, svc
}

func backupBody(t *testing.T, doc *document.Document) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, export.WriteBackup(&buf, doc))
	return &buf
}

func TestRestoreReplacesWholeDocument(t *testing.T) {
	router, svc := newAdminRouter(t)
	ctx := context.Background()

	require.NoError(t, svc.Repo().Replace(ctx, &document.Document{
		Orders: []document.Order{{ID: 1, ProductName: "Teff", Status: document.OrderPending}},
	}))

	backup := &document.Document{
		Orders: []document.Order{{ID: 2, ProductName: "Wheat", Status: document.OrderPending}},
	}
	req := httptest.NewRequest(http.MethodPost, "/admin/restore", backupBody(t, backup))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	doc, err := svc.Repo().Get(ctx)
	require.NoError(t, err)
	require.Len(t, doc.Orders, 1)
	require.Equal(t, int64(2), doc.Orders[0].ID)
}

func TestRestoreMergeKeepsEntriesMissingFromBackup(t *testing.T) {
	router, svc := newAdminRouter(t)
	ctx := context.Background()

	// An order the backup has never seen, e.g. one placed after the
	// backup was taken; the merge must not clobber it
	require.NoError(t, svc.Repo().Replace(ctx, &document.Document{
		Customers: []document.Customer{{ID: 1, Name: "Abebe"}},
		Orders:    []document.Order{{ID: 1, ProductName: "Teff", Status: document.OrderPending}},
	}))

	backup := &document.Document{
		Orders: []document.Order{{ID: 2, ProductName: "Wheat", Status: document.OrderCompleted}},
	}
	req := httptest.NewRequest(http.MethodPost, "/admin/restore?merge=true", backupBody(t, backup))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	doc, err := svc.Repo().Get(ctx)
	require.NoError(t, err)
	require.Len(t, doc.Orders, 2)
	require.Len(t, doc.Customers, 1)
}

func TestRestoreRejectsMalformedBackup(t *testing.T) {
	router, _ := newAdminRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/admin/restore", bytes.NewBufferString("{not json"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
