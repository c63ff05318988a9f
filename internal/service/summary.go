package service

import (
	"context"

	"example.com/millops/internal/document"
	"example.com/millops/internal/metrics"
)

// Summary is the dashboard overview: counts and totals derived from
// the whole document. The change watcher recomputes it after every
// write burst.
type Summary struct {
	PendingOrders   int     `json:"pending_orders"`
	ActiveOrders    int     `json:"active_orders"`
	CompletedOrders int     `json:"completed_orders"`
	Customers       int     `json:"customers"`
	Drivers         int     `json:"drivers"`
	LowStockItems   int     `json:"low_stock_items"`
	UnreadAlerts    int     `json:"unread_alerts"`
	Revenue         float64 `json:"revenue"`
	Expenses        float64 `json:"expenses"`
	NetIncome       float64 `json:"net_income"`
}

// Summarize computes the overview and refreshes the related gauges
func (s *Service) Summarize(ctx context.Context) (*Summary, error) {
	doc, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}

	summary := summarize(doc)

	s.metrics.SetGauge(metrics.GaugePendingOrders, int64(summary.PendingOrders))
	s.metrics.SetGauge(metrics.GaugeActiveOrders, int64(summary.ActiveOrders))
	s.metrics.SetGauge(metrics.GaugeLowStockItems, int64(summary.LowStockItems))

	return summary, nil
}

func summarize(doc *document.Document) *Summary {
	summary := &Summary{
		Customers: len(doc.Customers),
		Drivers:   len(doc.Drivers),
	}

	for _, order := range doc.Orders {
		switch {
		case order.Status == document.OrderPending:
			summary.PendingOrders++
		case order.Status == document.OrderCompleted:
			summary.CompletedOrders++
			summary.Revenue += order.TotalPrice
		case order.Status.Active():
			summary.ActiveOrders++
		}
	}

	for _, item := range doc.Warehouse {
		if item.Quantity <= item.AlertLevel {
			summary.LowStockItems++
		}
	}

	for _, n := range doc.Notifications {
		if !n.Read {
			summary.UnreadAlerts++
		}
	}

	for _, e := range doc.Expenses {
		summary.Expenses += e.Amount
	}
	summary.NetIncome = summary.Revenue - summary.Expenses

	return summary
}
