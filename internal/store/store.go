package store

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

// DocumentKey is the well-known key the whole application document is
// stored under.
const DocumentKey = "millops_data"

// Sentinel errors shared by all backends
var (
	// ErrNotFound indicates the requested key has never been written
	ErrNotFound = errors.New("store: key not found")
	// ErrCapacityExceeded indicates the backend refused the write for
	// lack of space
	ErrCapacityExceeded = errors.New("store: capacity exceeded")
)

// Store provides access to named text blobs. Every implementation is
// last-write-wins on a whole blob; callers needing read-modify-write
// atomicity go through the repository, never the store directly.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// CartKey returns the auxiliary key holding a customer's cart
func CartKey(customerID int64) string {
	return fmt.Sprintf("millops_cart_%d", customerID)
}

// SavedItemsKey returns the auxiliary key holding a customer's saved items
func SavedItemsKey(customerID int64) string {
	return fmt.Sprintf("millops_saved_%d", customerID)
}

// PreferencesKey returns the auxiliary key holding a user's preferences
func PreferencesKey(userID int64) string {
	return fmt.Sprintf("millops_prefs_%d", userID)
}

// DeliveryProofKey returns the auxiliary key holding a proof-of-delivery payload
func DeliveryProofKey(orderID int64) string {
	return fmt.Sprintf("millops_pod_%d", orderID)
}
