package service

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"example.com/millops/internal/document"
	"example.com/millops/internal/metrics"
)

// PlaceOrderRequest defines the request to place an order
type PlaceOrderRequest struct {
	CustomerID      int64   `json:"customer_id"`
	ProductID       int64   `json:"product_id"`
	Quantity        float64 `json:"quantity"`
	DeliveryAddress string  `json:"delivery_address"`
}

// PlaceOrder validates the request against the current document and
// appends a new pending order. Stock is only committed once the order
// reaches an active status and reconciliation runs.
func (s *Service) PlaceOrder(ctx context.Context, req *PlaceOrderRequest) (*document.Order, error) {
	if req.Quantity <= 0 {
		return nil, errors.Wrap(ErrValidation, "quantity must be positive")
	}
	if req.DeliveryAddress == "" {
		return nil, errors.Wrap(ErrValidation, "delivery address is required")
	}

	var placed document.Order
	err := s.repo.Update(ctx, func(doc *document.Document) error {
		if doc.FindCustomer(req.CustomerID) == nil {
			return errors.Wrap(ErrNotFound, "customer")
		}
		product := doc.FindProduct(req.ProductID)
		if product == nil {
			return errors.Wrap(ErrNotFound, "product")
		}

		if key, ok := doc.WarehouseKey(product.Name); ok {
			if doc.Warehouse[key].Quantity < req.Quantity {
				return errors.Wrap(ErrValidation, "insufficient stock")
			}
		}

		now := time.Now()
		placed = document.Order{
			ID:              document.NextID(),
			CustomerID:      req.CustomerID,
			ProductID:       product.ID,
			ProductName:     product.Name,
			Quantity:        req.Quantity,
			TotalPrice:      roundQuantity(req.Quantity * product.PricePerKg),
			Status:          document.OrderPending,
			DeliveryAddress: req.DeliveryAddress,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		doc.Orders = append(doc.Orders, placed)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncrementCounter(metrics.CounterOrdersPlaced)
	log.Info().Int64("order_id", placed.ID).Int64("customer_id", placed.CustomerID).
		Str("product", placed.ProductName).Float64("quantity", placed.Quantity).
		Msg("Order placed")
	return &placed, nil
}

// UpdateOrderStatus transitions an order and, when it becomes active,
// runs reconciliation so the warehouse deduction happens right away
func (s *Service) UpdateOrderStatus(ctx context.Context, orderID int64, status document.OrderStatus) (*document.Order, error) {
	var updated document.Order
	err := s.repo.Update(ctx, func(doc *document.Document) error {
		order := doc.FindOrder(orderID)
		if order == nil {
			return errors.Wrap(ErrNotFound, "order")
		}
		order.Status = status
		order.UpdatedAt = time.Now()
		updated = *order
		return nil
	})
	if err != nil {
		return nil, err
	}

	if status.Active() {
		if _, err := s.ReconcileOrders(ctx); err != nil {
			// The status change itself persisted; the fallback job
			// will retry the deduction.
			log.Warn().Err(err).Int64("order_id", orderID).
				Msg("Inline reconciliation failed after status change")
		}
	}
	return &updated, nil
}

// AssignDriver assigns a driver to an order and marks the driver
// delivering
func (s *Service) AssignDriver(ctx context.Context, orderID, driverID int64) error {
	return s.repo.Update(ctx, func(doc *document.Document) error {
		order := doc.FindOrder(orderID)
		if order == nil {
			return errors.Wrap(ErrNotFound, "order")
		}
		driver := doc.FindDriver(driverID)
		if driver == nil {
			return errors.Wrap(ErrNotFound, "driver")
		}

		order.DriverID = driverID
		order.UpdatedAt = time.Now()
		driver.Status = document.DriverDelivering
		return nil
	})
}

// CancelOrder cancels an order. Already-deducted stock is not
// returned to the warehouse; an operator restocks manually if needed.
func (s *Service) CancelOrder(ctx context.Context, orderID int64) error {
	err := s.repo.Update(ctx, func(doc *document.Document) error {
		order := doc.FindOrder(orderID)
		if order == nil {
			return errors.Wrap(ErrNotFound, "order")
		}
		if order.Status == document.OrderCompleted {
			return errors.Wrap(ErrValidation, "completed orders cannot be cancelled")
		}
		order.Status = document.OrderCancelled
		order.UpdatedAt = time.Now()
		return nil
	})
	if err != nil {
		return err
	}

	s.metrics.IncrementCounter(metrics.CounterOrdersCancelled)
	return nil
}

// OrderFilter narrows ListOrders results; zero values match everything
type OrderFilter struct {
	CustomerID int64
	DriverID   int64
	Status     document.OrderStatus
}

// ListOrders returns orders matching the filter, newest first
func (s *Service) ListOrders(ctx context.Context, filter OrderFilter) ([]document.Order, error) {
	doc, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}

	orders := make([]document.Order, 0, len(doc.Orders))
	for i := len(doc.Orders) - 1; i >= 0; i-- {
		order := doc.Orders[i]
		if filter.CustomerID != 0 && order.CustomerID != filter.CustomerID {
			continue
		}
		if filter.DriverID != 0 && order.DriverID != filter.DriverID {
			continue
		}
		if filter.Status != "" && order.Status != filter.Status {
			continue
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// GetOrder returns one order by ID
func (s *Service) GetOrder(ctx context.Context, orderID int64) (*document.Order, error) {
	doc, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	order := doc.FindOrder(orderID)
	if order == nil {
		return nil, errors.Wrap(ErrNotFound, "order")
	}
	out := *order
	return &out, nil
}
