// Package export produces the file-based interfaces: CSV reports and
// JSON document backup/restore.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"example.com/millops/internal/document"
	"example.com/millops/internal/repository"
)

// WriteOrderHistoryCSV writes the full order history with resolved
// customer and driver names
func WriteOrderHistoryCSV(w io.Writer, doc *document.Document) error {
	cw := csv.NewWriter(w)

	header := []string{"order_id", "created_at", "customer", "product", "quantity_kg", "total_price", "status", "driver"}
	if err := cw.Write(header); err != nil {
		return errors.Wrap(err, "failed to write CSV header")
	}

	for _, order := range doc.Orders {
		driver := ""
		if order.DriverID != 0 {
			driver = repository.DriverName(doc, order.DriverID)
		}
		record := []string{
			strconv.FormatInt(order.ID, 10),
			order.CreatedAt.Format(time.RFC3339),
			repository.CustomerName(doc, order.CustomerID),
			order.ProductName,
			formatAmount(order.Quantity),
			formatAmount(order.TotalPrice),
			order.Status.String(),
			driver,
		}
		if err := cw.Write(record); err != nil {
			return errors.Wrap(err, "failed to write order record")
		}
	}

	cw.Flush()
	return errors.Wrap(cw.Error(), "failed to flush CSV")
}

// WriteWarehouseCSV writes the warehouse inventory, sorted by item
// name for stable output
func WriteWarehouseCSV(w io.Writer, doc *document.Document) error {
	cw := csv.NewWriter(w)

	header := []string{"item", "quantity_kg", "purchase_price", "sell_price", "alert_level", "updated_at"}
	if err := cw.Write(header); err != nil {
		return errors.Wrap(err, "failed to write CSV header")
	}

	names := make([]string, 0, len(doc.Warehouse))
	for name := range doc.Warehouse {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		item := doc.Warehouse[name]
		record := []string{
			name,
			formatAmount(item.Quantity),
			formatAmount(item.PurchasePrice),
			formatAmount(item.SellPrice),
			formatAmount(item.AlertLevel),
			item.UpdatedAt.Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return errors.Wrap(err, "failed to write warehouse record")
		}
	}

	cw.Flush()
	return errors.Wrap(cw.Error(), "failed to flush CSV")
}

// WriteFinancialReportCSV writes a revenue/expense report: one line
// per completed order and per expense, followed by totals
func WriteFinancialReportCSV(w io.Writer, doc *document.Document) error {
	cw := csv.NewWriter(w)

	header := []string{"date", "kind", "description", "amount"}
	if err := cw.Write(header); err != nil {
		return errors.Wrap(err, "failed to write CSV header")
	}

	var revenue, expenses float64
	for _, order := range doc.Orders {
		if order.Status != document.OrderCompleted {
			continue
		}
		revenue += order.TotalPrice
		record := []string{
			order.CreatedAt.Format("2006-01-02"),
			"revenue",
			fmt.Sprintf("Order %d (%s)", order.ID, order.ProductName),
			formatAmount(order.TotalPrice),
		}
		if err := cw.Write(record); err != nil {
			return errors.Wrap(err, "failed to write revenue record")
		}
	}

	for _, expense := range doc.Expenses {
		expenses += expense.Amount
		record := []string{
			expense.Date.Format("2006-01-02"),
			"expense",
			expense.Description,
			formatAmount(expense.Amount),
		}
		if err := cw.Write(record); err != nil {
			return errors.Wrap(err, "failed to write expense record")
		}
	}

	totals := [][]string{
		{"", "total_revenue", "", formatAmount(revenue)},
		{"", "total_expenses", "", formatAmount(expenses)},
		{"", "net_income", "", formatAmount(revenue - expenses)},
	}
	for _, record := range totals {
		if err := cw.Write(record); err != nil {
			return errors.Wrap(err, "failed to write totals")
		}
	}

	cw.Flush()
	return errors.Wrap(cw.Error(), "failed to flush CSV")
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
