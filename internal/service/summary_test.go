package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"example.com/millops/internal/document"
)

func TestSummarize(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	doc := millDocument()
	doc.Drivers = []document.Driver{{ID: 5, Name: "Kebede"}}
	doc.Orders = []document.Order{
		{ID: 1, Status: document.OrderPending},
		{ID: 2, Status: document.OrderProcessing},
		{ID: 3, Status: document.OrderCompleted, TotalPrice: 600},
		{ID: 4, Status: document.OrderCompleted, TotalPrice: 400},
		{ID: 5, Status: document.OrderCancelled},
	}
	doc.Warehouse["Empty"] = document.WarehouseItem{Quantity: 5, AlertLevel: 10}
	doc.Notifications = []document.Notification{
		{ID: "a", Message: "unread"},
		{ID: "b", Message: "read", Read: true},
	}
	doc.Expenses = []document.Expense{{ID: 1, Amount: 250}}
	require.NoError(t, svc.Repo().Replace(ctx, doc))

	summary, err := svc.Summarize(ctx)
	require.NoError(t, err)

	require.Equal(t, 1, summary.PendingOrders)
	require.Equal(t, 1, summary.ActiveOrders)
	require.Equal(t, 2, summary.CompletedOrders)
	require.Equal(t, 1, summary.Customers)
	require.Equal(t, 1, summary.Drivers)
	require.Equal(t, 1, summary.LowStockItems)
	require.Equal(t, 1, summary.UnreadAlerts)
	require.Equal(t, 1000.0, summary.Revenue)
	require.Equal(t, 250.0, summary.Expenses)
	require.Equal(t, 750.0, summary.NetIncome)
}
