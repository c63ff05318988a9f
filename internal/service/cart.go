package service

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"example.com/millops/internal/document"
	"example.com/millops/internal/store"
)

// CartItem is one line in a customer's cart
type CartItem struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  float64 `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// DeliveryProof is the payload a driver records on handover
type DeliveryProof struct {
	OrderID    int64     `json:"order_id"`
	DriverID   int64     `json:"driver_id"`
	Note       string    `json:"note"`
	PhotoData  string    `json:"photo_data,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Preferences holds per-user dashboard settings
type Preferences struct {
	Theme         string `json:"theme"`
	Language      string `json:"language"`
	NotifyByEmail bool   `json:"notify_by_email"`
}

// Cart returns a customer's saved cart; an absent key is an empty cart
func (s *Service) Cart(ctx context.Context, customerID int64) ([]CartItem, error) {
	var items []CartItem
	err := s.repo.LoadAux(ctx, store.CartKey(customerID), &items)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return []CartItem{}, nil
		}
		return nil, err
	}
	return items, nil
}

// SaveCart replaces a customer's cart
func (s *Service) SaveCart(ctx context.Context, customerID int64, items []CartItem) error {
	return s.repo.SaveAux(ctx, store.CartKey(customerID), items)
}

// ClearCart removes a customer's cart
func (s *Service) ClearCart(ctx context.Context, customerID int64) error {
	return s.repo.DeleteAux(ctx, store.CartKey(customerID))
}

// SavedItems returns a customer's saved-for-later product IDs
func (s *Service) SavedItems(ctx context.Context, customerID int64) ([]int64, error) {
	var ids []int64
	err := s.repo.LoadAux(ctx, store.SavedItemsKey(customerID), &ids)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return []int64{}, nil
		}
		return nil, err
	}
	return ids, nil
}

// SaveSavedItems replaces a customer's saved-for-later list
func (s *Service) SaveSavedItems(ctx context.Context, customerID int64, ids []int64) error {
	return s.repo.SaveAux(ctx, store.SavedItemsKey(customerID), ids)
}

// UserPreferences returns a user's dashboard preferences, with
// defaults when never saved
func (s *Service) UserPreferences(ctx context.Context, userID int64) (*Preferences, error) {
	var prefs Preferences
	err := s.repo.LoadAux(ctx, store.PreferencesKey(userID), &prefs)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return &Preferences{Theme: "light", Language: "en"}, nil
		}
		return nil, err
	}
	return &prefs, nil
}

// SaveUserPreferences replaces a user's dashboard preferences
func (s *Service) SaveUserPreferences(ctx context.Context, userID int64, prefs *Preferences) error {
	return s.repo.SaveAux(ctx, store.PreferencesKey(userID), prefs)
}

// RecordDeliveryProof stores the proof-of-delivery payload for an
// order and completes the order
func (s *Service) RecordDeliveryProof(ctx context.Context, proof *DeliveryProof) error {
	if proof.OrderID == 0 {
		return errors.Wrap(ErrValidation, "order id is required")
	}
	if proof.RecordedAt.IsZero() {
		proof.RecordedAt = time.Now()
	}

	if err := s.repo.SaveAux(ctx, store.DeliveryProofKey(proof.OrderID), proof); err != nil {
		return err
	}

	_, err := s.UpdateOrderStatus(ctx, proof.OrderID, document.OrderCompleted)
	return err
}

// GetDeliveryProof returns the stored proof-of-delivery for an order
func (s *Service) GetDeliveryProof(ctx context.Context, orderID int64) (*DeliveryProof, error) {
	var proof DeliveryProof
	err := s.repo.LoadAux(ctx, store.DeliveryProofKey(orderID), &proof)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.Wrap(ErrNotFound, "delivery proof")
		}
		return nil, err
	}
	return &proof, nil
}
