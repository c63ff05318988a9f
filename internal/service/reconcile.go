package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"example.com/millops/internal/document"
	"example.com/millops/internal/metrics"
	"example.com/millops/internal/repository"
)

// ReconcileResult summarizes one reconciliation pass
type ReconcileResult struct {
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`
	Alerts    int `json:"alerts"`
}

// ReconcileOrders runs one reconciliation pass over the whole
// document: every order in an active status that has not yet been
// flagged warehouse-processed gets its quantity deducted from the
// matching warehouse item exactly once. Runs inline after order
// mutations, from the debounced change watcher, and from the periodic
// fallback job; the per-order flag makes repeat passes idempotent.
func (s *Service) ReconcileOrders(ctx context.Context) (ReconcileResult, error) {
	txn := s.tracer.StartTransaction("reconcile-orders")
	defer s.tracer.EndTransaction(txn)

	start := time.Now()
	var result ReconcileResult

	err := s.repo.Update(ctx, func(doc *document.Document) error {
		result = ReconcileDocument(doc)
		if result.Processed == 0 && result.Alerts == 0 {
			// Nothing changed. Skipping the save keeps the change bus
			// quiet; a pass that wrote on every trigger would re-arm the
			// watcher and loop forever.
			return repository.ErrNoChange
		}
		return nil
	})
	if err != nil {
		s.tracer.RecordError(txn, err)
		return ReconcileResult{}, err
	}

	s.metrics.IncrementCounter(metrics.CounterReconcilePasses)
	s.metrics.IncrementCounterBy(metrics.CounterOrdersReconciled, int64(result.Processed))
	s.metrics.IncrementCounterBy(metrics.CounterLowStockAlerts, int64(result.Alerts))
	s.metrics.RecordTimer(metrics.TimerReconcilePass, time.Since(start))

	if result.Processed > 0 || result.Alerts > 0 {
		log.Info().
			Int("processed", result.Processed).
			Int("skipped", result.Skipped).
			Int("alerts", result.Alerts).
			Msg("Reconciliation pass complete")
	}

	if result.Processed > 0 {
		s.indexReconciled(ctx)
	}
	return result, nil
}

// indexReconciled pushes processed orders into the search index.
// Failures are logged and swallowed; indexing never blocks the
// document mutation that triggered it.
func (s *Service) indexReconciled(ctx context.Context) {
	doc, err := s.repo.Get(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to re-read document for indexing")
		return
	}
	for i := range doc.Orders {
		order := &doc.Orders[i]
		if !order.WarehouseProcessed {
			continue
		}
		err := s.elastic.IndexOrder(ctx, order,
			repository.CustomerName(doc, order.CustomerID),
			repository.DriverName(doc, order.DriverID))
		if err != nil {
			log.Warn().Err(err).Int64("order_id", order.ID).Msg("Failed to index order")
		}
	}
}

// ReconcileDocument applies the order-to-warehouse reconciliation to
// the document in place and reports what happened. Exposed as a pure
// function over the document so the derived-effect rules are testable
// without a store.
func ReconcileDocument(doc *document.Document) ReconcileResult {
	var result ReconcileResult

	for i := range doc.Orders {
		order := &doc.Orders[i]
		if order.WarehouseProcessed || !order.Status.Active() {
			continue
		}

		key, ok := doc.WarehouseKey(order.ProductName)
		if !ok {
			// Dangling product reference; tolerated, never fatal
			log.Debug().Str("product", order.ProductName).
				Int64("order_id", order.ID).
				Msg("Order references no warehouse item")
			result.Skipped++
			continue
		}

		item := doc.Warehouse[key]
		if item.Quantity < order.Quantity {
			if appendLowStockAlert(doc, key) {
				result.Alerts++
			}
			result.Skipped++
			continue
		}

		item.Quantity = roundQuantity(math.Max(0, item.Quantity-order.Quantity))
		item.UpdatedAt = time.Now()
		doc.Warehouse[key] = item
		order.WarehouseProcessed = true
		order.UpdatedAt = time.Now()
		result.Processed++

		doc.Notifications = append(doc.Notifications, document.Notification{
			ID:        uuid.New().String(),
			Message:   fmt.Sprintf("Warehouse updated: %s reduced by %.2fkg", key, order.Quantity),
			Severity:  document.SeverityInfo,
			CreatedAt: time.Now(),
		})

		if item.Quantity <= item.AlertLevel {
			if appendLowStockAlert(doc, key) {
				result.Alerts++
			}
		}
	}

	return result
}

// appendLowStockAlert adds a low-stock notification for the given
// warehouse key unless an unread one already exists. Reports whether a
// notification was appended.
func appendLowStockAlert(doc *document.Document, key string) bool {
	message := lowStockMessage(key)
	if doc.HasUnreadNotification(message) {
		return false
	}

	doc.Notifications = append(doc.Notifications, document.Notification{
		ID:        uuid.New().String(),
		Message:   fmt.Sprintf("%s (%.2fkg remaining)", message, doc.Warehouse[key].Quantity),
		Severity:  document.SeverityWarning,
		CreatedAt: time.Now(),
	})
	return true
}

func lowStockMessage(key string) string {
	return "Low stock alert: " + key
}

// roundQuantity rounds a stock quantity to 2 decimals, the precision
// the reports display
func roundQuantity(q float64) float64 {
	return math.Round(q*100) / 100
}
