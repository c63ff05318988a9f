package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"example.com/millops/internal/document"
)

func seedMill(t *testing.T, svc *Service) {
	t.Helper()
	require.NoError(t, svc.Repo().Replace(context.Background(), millDocument()))
}

func TestPlaceOrderValidation(t *testing.T) {
	svc := newTestService(t)
	seedMill(t, svc)
	ctx := context.Background()

	_, err := svc.PlaceOrder(ctx, &PlaceOrderRequest{CustomerID: 1, ProductID: 10, Quantity: 0, DeliveryAddress: "Bole"})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.PlaceOrder(ctx, &PlaceOrderRequest{CustomerID: 1, ProductID: 10, Quantity: 5})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.PlaceOrder(ctx, &PlaceOrderRequest{CustomerID: 99, ProductID: 10, Quantity: 5, DeliveryAddress: "Bole"})
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.PlaceOrder(ctx, &PlaceOrderRequest{CustomerID: 1, ProductID: 99, Quantity: 5, DeliveryAddress: "Bole"})
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.PlaceOrder(ctx, &PlaceOrderRequest{CustomerID: 1, ProductID: 10, Quantity: 5000, DeliveryAddress: "Bole"})
	require.ErrorIs(t, err, ErrValidation)
}

func TestPlaceOrderCreatesPendingOrder(t *testing.T) {
	svc := newTestService(t)
	seedMill(t, svc)
	ctx := context.Background()

	order, err := svc.PlaceOrder(ctx, &PlaceOrderRequest{
		CustomerID: 1, ProductID: 10, Quantity: 2.5, DeliveryAddress: "Bole",
	})
	require.NoError(t, err)
	require.Equal(t, document.OrderPending, order.Status)
	require.Equal(t, "Teff", order.ProductName)
	require.Equal(t, 300.0, order.TotalPrice)
	require.False(t, order.WarehouseProcessed)

	// Placing an order commits no stock until it becomes active
	doc, err := svc.Repo().Get(ctx)
	require.NoError(t, err)
	require.Equal(t, 100.0, doc.Warehouse["Teff"].Quantity)
}

func TestUpdateOrderStatusTriggersInlineDeduction(t *testing.T) {
	svc := newTestService(t)
	seedMill(t, svc)
	ctx := context.Background()

	order, err := svc.PlaceOrder(ctx, &PlaceOrderRequest{
		CustomerID: 1, ProductID: 10, Quantity: 30, DeliveryAddress: "Bole",
	})
	require.NoError(t, err)

	updated, err := svc.UpdateOrderStatus(ctx, order.ID, document.OrderProcessing)
	require.NoError(t, err)
	require.Equal(t, document.OrderProcessing, updated.Status)

	doc, err := svc.Repo().Get(ctx)
	require.NoError(t, err)
	require.Equal(t, 70.0, doc.Warehouse["Teff"].Quantity)
	require.True(t, doc.FindOrder(order.ID).WarehouseProcessed)
}

func TestUpdateOrderStatusNotFound(t *testing.T) {
	svc := newTestService(t)
	seedMill(t, svc)

	_, err := svc.UpdateOrderStatus(context.Background(), 424242, document.OrderProcessing)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAssignDriverMarksDriverDelivering(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	doc := millDocument()
	doc.Drivers = []document.Driver{{ID: 5, Name: "Kebede", Status: document.DriverAvailable}}
	doc.Orders = []document.Order{{ID: 100, CustomerID: 1, Status: document.OrderPending}}
	require.NoError(t, svc.Repo().Replace(ctx, doc))

	require.NoError(t, svc.AssignDriver(ctx, 100, 5))

	stored, err := svc.Repo().Get(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(5), stored.FindOrder(100).DriverID)
	require.Equal(t, document.DriverDelivering, stored.FindDriver(5).Status)

	require.ErrorIs(t, svc.AssignDriver(ctx, 100, 99), ErrNotFound)
	require.ErrorIs(t, svc.AssignDriver(ctx, 99, 5), ErrNotFound)
}

func TestCancelOrder(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	doc := millDocument()
	doc.Orders = []document.Order{
		{ID: 1, Status: document.OrderPending},
		{ID: 2, Status: document.OrderCompleted},
	}
	require.NoError(t, svc.Repo().Replace(ctx, doc))

	require.NoError(t, svc.CancelOrder(ctx, 1))
	require.ErrorIs(t, svc.CancelOrder(ctx, 2), ErrValidation)
	require.ErrorIs(t, svc.CancelOrder(ctx, 99), ErrNotFound)

	stored, err := svc.Repo().Get(ctx)
	require.NoError(t, err)
	require.Equal(t, document.OrderCancelled, stored.FindOrder(1).Status)
	require.Equal(t, document.OrderCompleted, stored.FindOrder(2).Status)
}

func TestListOrdersFiltersAndOrdersNewestFirst(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	doc := millDocument()
	doc.Orders = []document.Order{
		{ID: 1, CustomerID: 1, DriverID: 5, Status: document.OrderPending},
		{ID: 2, CustomerID: 2, Status: document.OrderCompleted},
		{ID: 3, CustomerID: 1, Status: document.OrderCompleted},
	}
	require.NoError(t, svc.Repo().Replace(ctx, doc))

	all, err := svc.ListOrders(ctx, OrderFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, int64(3), all[0].ID)

	mine, err := svc.ListOrders(ctx, OrderFilter{CustomerID: 1})
	require.NoError(t, err)
	require.Len(t, mine, 2)

	deliveries, err := svc.ListOrders(ctx, OrderFilter{DriverID: 5})
	require.NoError(t, err)
	require.Len(t, deliveries, 1)

	completed, err := svc.ListOrders(ctx, OrderFilter{Status: document.OrderCompleted})
	require.NoError(t, err)
	require.Len(t, completed, 2)
}
