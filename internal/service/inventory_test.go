package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"example.com/millops/internal/document"
)

func TestCreateProductSeedsWarehouseEntry(t *testing.T) {
	svc := newTestService(t)
	seedMill(t, svc)
	ctx := context.Background()

	product, err := svc.CreateProduct(ctx, &ProductRequest{
		Name: "Millet", Category: "Grain", PricePerKg: 45, PurchasePrice: 32,
		InitialStock: 300, AlertLevel: 30,
	})
	require.NoError(t, err)
	require.NotZero(t, product.ID)

	doc, err := svc.Repo().Get(ctx)
	require.NoError(t, err)
	item, ok := doc.Warehouse["Millet"]
	require.True(t, ok)
	require.Equal(t, 300.0, item.Quantity)
	require.Equal(t, 45.0, item.SellPrice)

	_, err = svc.CreateProduct(ctx, &ProductRequest{Name: "millet", PricePerKg: 40})
	require.ErrorIs(t, err, ErrValidation, "duplicate names are rejected case-insensitively")

	_, err = svc.CreateProduct(ctx, &ProductRequest{Name: "", PricePerKg: 40})
	require.ErrorIs(t, err, ErrValidation)
	_, err = svc.CreateProduct(ctx, &ProductRequest{Name: "Oats", PricePerKg: 0})
	require.ErrorIs(t, err, ErrValidation)
}

func TestUpdateProductKeepsWarehouseKeyOnRename(t *testing.T) {
	svc := newTestService(t)
	seedMill(t, svc)
	ctx := context.Background()

	require.NoError(t, svc.UpdateProduct(ctx, 10, &ProductRequest{Name: "Red Teff", PricePerKg: 130}))

	doc, err := svc.Repo().Get(ctx)
	require.NoError(t, err)
	require.Equal(t, "Red Teff", doc.FindProduct(10).Name)
	require.Equal(t, 130.0, doc.FindProduct(10).PricePerKg)

	// The stock stays under the old key; reconciliation tolerates the
	// resulting miss rather than renaming stock implicitly
	_, ok := doc.Warehouse["Teff"]
	require.True(t, ok)
	_, ok = doc.Warehouse["Red Teff"]
	require.False(t, ok)

	require.ErrorIs(t, svc.UpdateProduct(ctx, 4242, &ProductRequest{Name: "X"}), ErrNotFound)
}

func TestDeleteProductLeavesOrdersDangling(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	doc := millDocument()
	doc.Orders = []document.Order{{ID: 100, ProductID: 10, ProductName: "Teff", Status: document.OrderPending}}
	require.NoError(t, svc.Repo().Replace(ctx, doc))

	require.NoError(t, svc.DeleteProduct(ctx, 10))
	require.ErrorIs(t, svc.DeleteProduct(ctx, 10), ErrNotFound)

	stored, err := svc.Repo().Get(ctx)
	require.NoError(t, err)
	require.Empty(t, stored.Products)
	require.NotNil(t, stored.FindOrder(100), "orders keep their dangling product reference")
}

func TestUpsertWarehouseItemReusesExistingKeyCaseInsensitively(t *testing.T) {
	svc := newTestService(t)
	seedMill(t, svc)
	ctx := context.Background()

	require.NoError(t, svc.UpsertWarehouseItem(ctx, &StockAdjustment{
		Name: "teff", Quantity: 150, SellPrice: 125, AlertLevel: 25,
	}))

	doc, err := svc.Repo().Get(ctx)
	require.NoError(t, err)
	require.Len(t, doc.Warehouse, 1, "no duplicate key under different casing")
	require.Equal(t, 150.0, doc.Warehouse["Teff"].Quantity)

	require.ErrorIs(t, svc.UpsertWarehouseItem(ctx, &StockAdjustment{Name: "", Quantity: 1}), ErrValidation)
	require.ErrorIs(t, svc.UpsertWarehouseItem(ctx, &StockAdjustment{Name: "X", Quantity: -1}), ErrValidation)
}

func TestAddStock(t *testing.T) {
	svc := newTestService(t)
	seedMill(t, svc)
	ctx := context.Background()

	require.NoError(t, svc.AddStock(ctx, "Teff", 25.5))

	doc, err := svc.Repo().Get(ctx)
	require.NoError(t, err)
	require.Equal(t, 125.5, doc.Warehouse["Teff"].Quantity)

	require.ErrorIs(t, svc.AddStock(ctx, "Teff", 0), ErrValidation)
	require.ErrorIs(t, svc.AddStock(ctx, "Quinoa", 10), ErrNotFound)
}

func TestLowStockItems(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	doc := millDocument()
	doc.Warehouse["Teff"] = document.WarehouseItem{Quantity: 15, AlertLevel: 20}
	doc.Warehouse["Wheat"] = document.WarehouseItem{Quantity: 500, AlertLevel: 50}
	require.NoError(t, svc.Repo().Replace(ctx, doc))

	low, err := svc.LowStockItems(ctx)
	require.NoError(t, err)
	require.Len(t, low, 1)
	require.Equal(t, "Teff", low[0].Name)
}
