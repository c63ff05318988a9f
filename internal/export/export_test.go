package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"example.com/millops/internal/document"
)

func reportDocument() *document.Document {
	created := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	return &document.Document{
		Customers: []document.Customer{{ID: 1, Name: "Abebe"}},
		Drivers:   []document.Driver{{ID: 5, Name: "Kebede"}},
		Orders: []document.Order{
			{ID: 100, CustomerID: 1, ProductName: "Teff", Quantity: 30, TotalPrice: 3600,
				Status: document.OrderCompleted, DriverID: 5, CreatedAt: created},
			{ID: 101, CustomerID: 2, ProductName: "Wheat", Quantity: 10, TotalPrice: 550,
				Status: document.OrderPending, CreatedAt: created},
		},
		Warehouse: map[string]document.WarehouseItem{
			"Wheat": {Quantity: 800, SellPrice: 55, AlertLevel: 100},
			"Teff":  {Quantity: 470, SellPrice: 120, AlertLevel: 50},
		},
		Expenses: []document.Expense{
			{ID: 1, Description: "Diesel", Amount: 900, Date: created},
		},
	}
}

func TestWriteOrderHistoryCSVResolvesNames(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteOrderHistoryCSV(&buf, reportDocument()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	require.Equal(t, "order_id", records[0][0])
	require.Equal(t, "Abebe", records[1][2])
	require.Equal(t, "Kebede", records[1][7])

	// Dangling customer falls back to the placeholder; no driver, no name
	require.Equal(t, "Unknown", records[2][2])
	require.Equal(t, "", records[2][7])
}

func TestWriteWarehouseCSVSortsByName(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWarehouseCSV(&buf, reportDocument()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	require.Equal(t, "Teff", records[1][0])
	require.Equal(t, "Wheat", records[2][0])
	require.Equal(t, "470.00", records[1][1])
}

func TestWriteFinancialReportCSVTotals(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteFinancialReportCSV(&buf, reportDocument()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)

	// header + 1 completed order + 1 expense + 3 totals
	require.Len(t, records, 6)
	require.Equal(t, "revenue", records[1][1])
	require.Equal(t, "3600.00", records[1][3])
	require.Equal(t, "expense", records[2][1])

	require.Equal(t, "total_revenue", records[3][1])
	require.Equal(t, "3600.00", records[3][3])
	require.Equal(t, "total_expenses", records[4][1])
	require.Equal(t, "900.00", records[4][3])
	require.Equal(t, "net_income", records[5][1])
	require.Equal(t, "2700.00", records[5][3])
}

func TestBackupRoundTrip(t *testing.T) {
	doc := reportDocument()

	var buf bytes.Buffer
	require.NoError(t, WriteBackup(&buf, doc))

	restored, err := ReadBackup(&buf)
	require.NoError(t, err)
	require.Len(t, restored.Orders, 2)
	require.Equal(t, doc.Orders[0].TotalPrice, restored.Orders[0].TotalPrice)
	require.Equal(t, 470.0, restored.Warehouse["Teff"].Quantity)
}

func TestReadBackupNormalizesStatuses(t *testing.T) {
	backup := []byte(`{"orders":[{"id":1,"status":"Delivered"}]}`)

	doc, err := ReadBackup(bytes.NewReader(backup))
	require.NoError(t, err)
	require.Equal(t, document.OrderCompleted, doc.Orders[0].Status)
	require.NotNil(t, doc.Warehouse)
}

func TestMergeOverlaysByID(t *testing.T) {
	target := &document.Document{
		Customers: []document.Customer{
			{ID: 1, Name: "Abebe", Phone: "0911000000"},
			{ID: 2, Name: "Worku"},
		},
		Orders: []document.Order{{ID: 100, Status: document.OrderPending}},
		Warehouse: map[string]document.WarehouseItem{
			"Teff": {Quantity: 470},
		},
	}
	backup := &document.Document{
		Customers: []document.Customer{
			{ID: 1, Name: "Abebe", Phone: "0922000000"},
			{ID: 3, Name: "Kebede"},
		},
		Orders: []document.Order{{ID: 101, Status: document.OrderCompleted}},
		Warehouse: map[string]document.WarehouseItem{
			"Teff":  {Quantity: 500},
			"Wheat": {Quantity: 800},
		},
	}

	Merge(target, backup)

	require.Len(t, target.Customers, 3)
	require.Equal(t, "0922000000", target.Customers[0].Phone, "backup entry replaces same-ID target entry")
	require.Equal(t, "Worku", target.Customers[1].Name, "target-only entries survive")
	require.Equal(t, "Kebede", target.Customers[2].Name, "backup-only entries append")

	require.Len(t, target.Orders, 2)
	require.Equal(t, 500.0, target.Warehouse["Teff"].Quantity)
	require.Equal(t, 800.0, target.Warehouse["Wheat"].Quantity)
}
