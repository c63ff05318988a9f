package document

import "strings"

// OrderStatus defines the lifecycle state of an order
type OrderStatus string

const (
	// OrderPending represents an order awaiting operator action
	OrderPending OrderStatus = "pending"
	// OrderProcessing represents an order being milled
	OrderProcessing OrderStatus = "processing"
	// OrderConfirmed represents an order accepted by an operator
	OrderConfirmed OrderStatus = "confirmed"
	// OrderCompleted represents a delivered order
	OrderCompleted OrderStatus = "completed"
	// OrderCancelled represents a cancelled order
	OrderCancelled OrderStatus = "cancelled"
)

// OrderStatusFromString normalizes a status string to the closed enum.
// Stored documents have carried inconsistent casing ("Pending" vs
// "pending" vs "PROCESSING"), so any unrecognized value collapses to
// pending rather than surviving as a free-form string.
func OrderStatusFromString(status string) OrderStatus {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "pending":
		return OrderPending
	case "processing":
		return OrderProcessing
	case "confirmed":
		return OrderConfirmed
	case "completed", "delivered":
		return OrderCompleted
	case "cancelled", "canceled":
		return OrderCancelled
	default:
		return OrderPending
	}
}

// Active reports whether the status commits warehouse stock. Pending
// and cancelled orders hold no stock.
func (s OrderStatus) Active() bool {
	switch s {
	case OrderProcessing, OrderConfirmed, OrderCompleted:
		return true
	default:
		return false
	}
}

// String returns the canonical lowercase form
func (s OrderStatus) String() string {
	return string(s)
}

// DriverStatus defines the availability state of a driver
type DriverStatus string

const (
	// DriverAvailable represents a driver ready for assignment
	DriverAvailable DriverStatus = "available"
	// DriverDelivering represents a driver out on a delivery
	DriverDelivering DriverStatus = "delivering"
	// DriverOffline represents a driver not on shift
	DriverOffline DriverStatus = "offline"
)

// DriverStatusFromString normalizes a driver status string
func DriverStatusFromString(status string) DriverStatus {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "available":
		return DriverAvailable
	case "delivering", "busy":
		return DriverDelivering
	default:
		return DriverOffline
	}
}

// String returns the canonical lowercase form
func (s DriverStatus) String() string {
	return string(s)
}
