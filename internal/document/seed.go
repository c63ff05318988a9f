package document

import "time"

// Default catalog seeded into a fresh document. Reading the store
// before any write must yield these products with matching warehouse
// entries.
var defaultCatalog = []struct {
	name          string
	category      string
	pricePerKg    float64
	purchasePrice float64
	quantity      float64
	alertLevel    float64
}{
	{"Teff", "Grain", 120, 95, 500, 50},
	{"Wheat", "Grain", 55, 40, 800, 100},
	{"Maize", "Grain", 38, 28, 1000, 100},
	{"Barley", "Grain", 48, 35, 600, 60},
	{"Sorghum", "Grain", 42, 30, 400, 40},
	{"Chickpea Flour", "Flour", 85, 65, 250, 30},
}

// DefaultDocument returns the seeded fresh document: empty account and
// activity collections plus the fixed product catalog and warehouse
// stock.
func DefaultDocument() *Document {
	now := time.Now()

	doc := &Document{
		Admins: []Admin{{
			ID:       1,
			Name:     "Administrator",
			Email:    "admin@millops.local",
			Password: "admin123",
		}},
		Customers:     []Customer{},
		Operators:     []Operator{},
		Drivers:       []Driver{},
		Products:      make([]Product, 0, len(defaultCatalog)),
		Orders:        []Order{},
		Warehouse:     make(map[string]WarehouseItem, len(defaultCatalog)),
		Messages:      []Message{},
		Notifications: []Notification{},
		Expenses:      []Expense{},
	}

	for i, item := range defaultCatalog {
		doc.Products = append(doc.Products, Product{
			ID:            int64(i + 1),
			Name:          item.name,
			Category:      item.category,
			PricePerKg:    item.pricePerKg,
			PurchasePrice: item.purchasePrice,
			Description:   item.name + " sold per kilogram",
		})
		doc.Warehouse[item.name] = WarehouseItem{
			Quantity:      item.quantity,
			PurchasePrice: item.purchasePrice,
			SellPrice:     item.pricePerKg,
			AlertLevel:    item.alertLevel,
			UpdatedAt:     now,
		}
	}

	return doc
}
