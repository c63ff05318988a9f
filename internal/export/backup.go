package export

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"

	"example.com/millops/internal/document"
)

// WriteBackup serializes the full document as indented JSON
func WriteBackup(w io.Writer, doc *document.Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(doc), "failed to write backup")
}

// ReadBackup parses a backup into a document and normalizes it
func ReadBackup(r io.Reader) (*document.Document, error) {
	var doc document.Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "failed to parse backup")
	}
	doc.Normalize()
	return &doc, nil
}

// Merge reconciles a backup into an existing document by ID: entries
// present in the backup replace same-ID entries in the target, new
// entries are appended, and entries only in the target survive.
// Warehouse items merge on their key. Restoring into an empty document
// is equivalent to a plain replace.
func Merge(target, backup *document.Document) {
	target.Admins = mergeByID(target.Admins, backup.Admins, func(a document.Admin) int64 { return a.ID })
	target.Customers = mergeByID(target.Customers, backup.Customers, func(c document.Customer) int64 { return c.ID })
	target.Operators = mergeByID(target.Operators, backup.Operators, func(o document.Operator) int64 { return o.ID })
	target.Drivers = mergeByID(target.Drivers, backup.Drivers, func(d document.Driver) int64 { return d.ID })
	target.Products = mergeByID(target.Products, backup.Products, func(p document.Product) int64 { return p.ID })
	target.Orders = mergeByID(target.Orders, backup.Orders, func(o document.Order) int64 { return o.ID })
	target.Expenses = mergeByID(target.Expenses, backup.Expenses, func(e document.Expense) int64 { return e.ID })
	target.Messages = mergeByID(target.Messages, backup.Messages, func(m document.Message) string { return m.ID })
	target.Notifications = mergeByID(target.Notifications, backup.Notifications, func(n document.Notification) string { return n.ID })

	if target.Warehouse == nil {
		target.Warehouse = make(map[string]document.WarehouseItem, len(backup.Warehouse))
	}
	for key, item := range backup.Warehouse {
		target.Warehouse[key] = item
	}
}

// mergeByID overlays backup entries onto target, matching on the ID
// extracted by id. Target order is preserved; new entries append in
// backup order.
func mergeByID[T any, K comparable](target, backup []T, id func(T) K) []T {
	index := make(map[K]int, len(target))
	for i, entry := range target {
		index[id(entry)] = i
	}
	for _, entry := range backup {
		if i, ok := index[id(entry)]; ok {
			target[i] = entry
		} else {
			target = append(target, entry)
		}
	}
	return target
}
