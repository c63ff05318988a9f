package service

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"example.com/millops/internal/document"
)

// ProductRequest defines a product create/update
type ProductRequest struct {
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	PricePerKg    float64 `json:"price_per_kg"`
	PurchasePrice float64 `json:"purchase_price"`
	Description   string  `json:"description"`
	Image         string  `json:"image,omitempty"`
	// InitialStock seeds the warehouse entry when creating a product
	InitialStock float64 `json:"initial_stock"`
	AlertLevel   float64 `json:"alert_level"`
}

// CreateProduct adds a product and its warehouse entry, keyed by the
// product name
func (s *Service) CreateProduct(ctx context.Context, req *ProductRequest) (*document.Product, error) {
	if req.Name == "" || req.PricePerKg <= 0 {
		return nil, errors.Wrap(ErrValidation, "name and positive price are required")
	}

	var created document.Product
	err := s.repo.Update(ctx, func(doc *document.Document) error {
		if doc.FindProductByName(req.Name) != nil {
			return errors.Wrap(ErrValidation, "product name already exists")
		}

		created = document.Product{
			ID:            document.NextID(),
			Name:          req.Name,
			Category:      req.Category,
			PricePerKg:    req.PricePerKg,
			PurchasePrice: req.PurchasePrice,
			Description:   req.Description,
			Image:         req.Image,
		}
		doc.Products = append(doc.Products, created)
		doc.Warehouse[req.Name] = document.WarehouseItem{
			Quantity:      req.InitialStock,
			PurchasePrice: req.PurchasePrice,
			SellPrice:     req.PricePerKg,
			AlertLevel:    req.AlertLevel,
			UpdatedAt:     time.Now(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().Int64("product_id", created.ID).Str("name", created.Name).Msg("Product created")
	return &created, nil
}

// UpdateProduct modifies a product in place. The warehouse entry keeps
// its old key even if the name changes, so a rename can strand stock;
// the reconciliation fallback scan tolerates the resulting miss.
func (s *Service) UpdateProduct(ctx context.Context, productID int64, req *ProductRequest) error {
	return s.repo.Update(ctx, func(doc *document.Document) error {
		product := doc.FindProduct(productID)
		if product == nil {
			return errors.Wrap(ErrNotFound, "product")
		}
		if req.Name != "" {
			product.Name = req.Name
		}
		if req.Category != "" {
			product.Category = req.Category
		}
		if req.PricePerKg > 0 {
			product.PricePerKg = req.PricePerKg
		}
		if req.PurchasePrice > 0 {
			product.PurchasePrice = req.PurchasePrice
		}
		if req.Description != "" {
			product.Description = req.Description
		}
		if req.Image != "" {
			product.Image = req.Image
		}
		return nil
	})
}

// DeleteProduct removes a product. Orders referencing it keep their
// dangling ProductID; lookups fall back to "Unknown" (documented
// dangling-reference tolerance, no cascade).
func (s *Service) DeleteProduct(ctx context.Context, productID int64) error {
	return s.repo.Update(ctx, func(doc *document.Document) error {
		for i := range doc.Products {
			if doc.Products[i].ID == productID {
				doc.Products = append(doc.Products[:i], doc.Products[i+1:]...)
				return nil
			}
		}
		return errors.Wrap(ErrNotFound, "product")
	})
}

// StockAdjustment defines a warehouse item upsert
type StockAdjustment struct {
	Name          string  `json:"name"`
	Quantity      float64 `json:"quantity"`
	PurchasePrice float64 `json:"purchase_price"`
	SellPrice     float64 `json:"sell_price"`
	AlertLevel    float64 `json:"alert_level"`
}

// UpsertWarehouseItem creates or replaces a warehouse entry
func (s *Service) UpsertWarehouseItem(ctx context.Context, adj *StockAdjustment) error {
	if adj.Name == "" || adj.Quantity < 0 {
		return errors.Wrap(ErrValidation, "name and non-negative quantity are required")
	}

	return s.repo.Update(ctx, func(doc *document.Document) error {
		key := adj.Name
		if existing, ok := doc.WarehouseKey(adj.Name); ok {
			key = existing
		}
		doc.Warehouse[key] = document.WarehouseItem{
			Quantity:      roundQuantity(adj.Quantity),
			PurchasePrice: adj.PurchasePrice,
			SellPrice:     adj.SellPrice,
			AlertLevel:    adj.AlertLevel,
			UpdatedAt:     time.Now(),
		}
		return nil
	})
}

// AddStock increments a warehouse item's quantity, e.g. after a
// purchase delivery
func (s *Service) AddStock(ctx context.Context, name string, quantity float64) error {
	if quantity <= 0 {
		return errors.Wrap(ErrValidation, "quantity must be positive")
	}

	return s.repo.Update(ctx, func(doc *document.Document) error {
		key, ok := doc.WarehouseKey(name)
		if !ok {
			return errors.Wrap(ErrNotFound, "warehouse item")
		}
		item := doc.Warehouse[key]
		item.Quantity = roundQuantity(item.Quantity + quantity)
		item.UpdatedAt = time.Now()
		doc.Warehouse[key] = item
		return nil
	})
}

// LowStockItem pairs a warehouse key with its current state
type LowStockItem struct {
	Name string                 `json:"name"`
	Item document.WarehouseItem `json:"item"`
}

// LowStockItems returns all warehouse entries at or below their alert
// level
func (s *Service) LowStockItems(ctx context.Context) ([]LowStockItem, error) {
	doc, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}

	var low []LowStockItem
	for name, item := range doc.Warehouse {
		if item.Quantity <= item.AlertLevel {
			low = append(low, LowStockItem{Name: name, Item: item})
		}
	}
	return low, nil
}

// ListProducts returns the product catalog
func (s *Service) ListProducts(ctx context.Context) ([]document.Product, error) {
	doc, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Products, nil
}

// Warehouse returns the full warehouse map
func (s *Service) Warehouse(ctx context.Context) (map[string]document.WarehouseItem, error) {
	doc, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Warehouse, nil
}
