package document

import (
	"strings"
	"time"
)

// Document is the single aggregate holding every application collection.
// The whole of it is serialized to one named blob on every write; all
// role dashboards read and mutate this one entry.
type Document struct {
	Admins        []Admin                  `json:"admin"`
	Customers     []Customer               `json:"customers"`
	Operators     []Operator               `json:"operators"`
	Drivers       []Driver                 `json:"drivers"`
	Products      []Product                `json:"products"`
	Orders        []Order                  `json:"orders"`
	Warehouse     map[string]WarehouseItem `json:"warehouse"`
	Messages      []Message                `json:"messages"`
	Notifications []Notification           `json:"notifications"`
	Expenses      []Expense                `json:"expenses"`
}

// Admin represents an administrator account
type Admin struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Customer represents a customer account
type Customer struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"password"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
}

// Operator represents a mill operator account
type Operator struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Password    string    `json:"password"`
	Phone       string    `json:"phone"`
	Assignments []string  `json:"assignments"`
	CreatedAt   time.Time `json:"created_at"`
}

// Location is a driver GPS position
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Driver represents a delivery driver account
type Driver struct {
	ID        int64        `json:"id"`
	Name      string       `json:"name"`
	Email     string       `json:"email"`
	Password  string       `json:"password"`
	Phone     string       `json:"phone"`
	Vehicle   string       `json:"vehicle"`
	Status    DriverStatus `json:"status"`
	Location  *Location    `json:"location,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

// Product represents a sellable product. The warehouse entry backing a
// product is keyed by the product name, not its ID.
type Product struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	PricePerKg    float64 `json:"price_per_kg"`
	PurchasePrice float64 `json:"purchase_price"`
	Description   string  `json:"description"`
	Image         string  `json:"image,omitempty"`
}

// WarehouseItem tracks on-hand stock for one product name
type WarehouseItem struct {
	Quantity      float64   `json:"quantity"`
	PurchasePrice float64   `json:"purchase_price"`
	SellPrice     float64   `json:"sell_price"`
	AlertLevel    float64   `json:"alert_level"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Order represents a customer order
type Order struct {
	ID                 int64       `json:"id"`
	CustomerID         int64       `json:"customer_id"`
	ProductID          int64       `json:"product_id"`
	ProductName        string      `json:"product_name"`
	Quantity           float64     `json:"quantity"`
	TotalPrice         float64     `json:"total_price"`
	Status             OrderStatus `json:"status"`
	DriverID           int64       `json:"driver_id,omitempty"`
	DeliveryAddress    string      `json:"delivery_address"`
	WarehouseProcessed bool        `json:"warehouse_processed"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
}

// Message is a direct message between two accounts
type Message struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Receiver  string    `json:"receiver"`
	Body      string    `json:"body"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// Severity levels for notifications
const (
	SeverityInfo    = "info"
	SeverityWarning = "warning"
	SeverityError   = "error"
)

// Notification is a broadcast alert shown on the dashboards
type Notification struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Severity  string    `json:"severity"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// Expense is a financial outflow record used by reporting
type Expense struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Amount      float64   `json:"amount"`
	Date        time.Time `json:"date"`
}

// Normalize canonicalizes the document after deserialization. Stored
// status strings have carried inconsistent casing; every load funnels
// through here so the rest of the code can compare enum values
// directly. Nil collections become empty so consumers never branch on
// nil.
func (d *Document) Normalize() {
	if d.Warehouse == nil {
		d.Warehouse = make(map[string]WarehouseItem)
	}
	for i := range d.Orders {
		d.Orders[i].Status = OrderStatusFromString(string(d.Orders[i].Status))
	}
	for i := range d.Drivers {
		d.Drivers[i].Status = DriverStatusFromString(string(d.Drivers[i].Status))
	}
}

// WarehouseKey resolves a product name to its warehouse key, first by
// exact match and then by a case-insensitive scan. The fallback covers
// keys whose casing has drifted from the product name. Returns false
// if no entry matches.
func (d *Document) WarehouseKey(productName string) (string, bool) {
	if _, ok := d.Warehouse[productName]; ok {
		return productName, true
	}
	for key := range d.Warehouse {
		if strings.EqualFold(key, productName) {
			return key, true
		}
	}
	return "", false
}

// FindOrder returns a pointer to the order with the given ID, or nil
func (d *Document) FindOrder(id int64) *Order {
	for i := range d.Orders {
		if d.Orders[i].ID == id {
			return &d.Orders[i]
		}
	}
	return nil
}

// FindCustomer returns the customer with the given ID, or nil
func (d *Document) FindCustomer(id int64) *Customer {
	for i := range d.Customers {
		if d.Customers[i].ID == id {
			return &d.Customers[i]
		}
	}
	return nil
}

// FindOperator returns the operator with the given ID, or nil
func (d *Document) FindOperator(id int64) *Operator {
	for i := range d.Operators {
		if d.Operators[i].ID == id {
			return &d.Operators[i]
		}
	}
	return nil
}

// FindDriver returns the driver with the given ID, or nil
func (d *Document) FindDriver(id int64) *Driver {
	for i := range d.Drivers {
		if d.Drivers[i].ID == id {
			return &d.Drivers[i]
		}
	}
	return nil
}

// FindProduct returns the product with the given ID, or nil
func (d *Document) FindProduct(id int64) *Product {
	for i := range d.Products {
		if d.Products[i].ID == id {
			return &d.Products[i]
		}
	}
	return nil
}

// FindProductByName returns the product with the given name, or nil.
// Matching is exact first, then case-insensitive.
func (d *Document) FindProductByName(name string) *Product {
	for i := range d.Products {
		if d.Products[i].Name == name {
			return &d.Products[i]
		}
	}
	for i := range d.Products {
		if strings.EqualFold(d.Products[i].Name, name) {
			return &d.Products[i]
		}
	}
	return nil
}

// HasUnreadNotification reports whether an unread notification already
// exists whose message contains the given substring. Used to
// de-duplicate low-stock alerts.
func (d *Document) HasUnreadNotification(substring string) bool {
	for _, n := range d.Notifications {
		if !n.Read && strings.Contains(n.Message, substring) {
			return true
		}
	}
	return false
}
