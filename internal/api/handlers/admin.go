package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"example.com/millops/internal/document"
	"example.com/millops/internal/export"
	"example.com/millops/internal/service"
	"example.com/millops/internal/tracing"
)

// AdminHandler serves the admin dashboard operations: catalog
// management, staff, expenses, reports and document backup
type AdminHandler struct {
	service *service.Service
	tracer  tracing.Tracer
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(svc *service.Service, tracer tracing.Tracer) *AdminHandler {
	return &AdminHandler{service: svc, tracer: tracer}
}

// HandleCreateProduct adds a product with its warehouse entry
func (h *AdminHandler) HandleCreateProduct(c *gin.Context) {
	var req service.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := h.service.CreateProduct(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

// HandleUpdateProduct modifies a product
func (h *AdminHandler) HandleUpdateProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req service.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.UpdateProduct(c.Request.Context(), id, &req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

// HandleDeleteProduct removes a product without cascading to orders
func (h *AdminHandler) HandleDeleteProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteProduct(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// HandleListOperators lists operator accounts
func (h *AdminHandler) HandleListOperators(c *gin.Context) {
	operators, err := h.service.ListOperators(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, operators)
}

// HandleSetAssignments replaces an operator's category assignments
func (h *AdminHandler) HandleSetAssignments(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Assignments []string `json:"assignments"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.SetOperatorAssignments(c.Request.Context(), id, req.Assignments); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

// HandleListCustomers lists customer accounts
func (h *AdminHandler) HandleListCustomers(c *gin.Context) {
	customers, err := h.service.ListCustomers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customers)
}

// ExpenseRequest is the add-expense payload
type ExpenseRequest struct {
	Description string    `json:"description" binding:"required"`
	Category    string    `json:"category"`
	Amount      float64   `json:"amount" binding:"required"`
	Date        time.Time `json:"date"`
}

// HandleAddExpense records an expense
func (h *AdminHandler) HandleAddExpense(c *gin.Context) {
	var req ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	expense, err := h.service.AddExpense(c.Request.Context(), req.Description, req.Category, req.Amount, req.Date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, expense)
}

// HandleListExpenses lists all expenses
func (h *AdminHandler) HandleListExpenses(c *gin.Context) {
	expenses, err := h.service.ListExpenses(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, expenses)
}

// HandleSummary returns the dashboard overview
func (h *AdminHandler) HandleSummary(c *gin.Context) {
	summary, err := h.service.Summarize(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// HandleExportCSV streams one of the CSV reports selected by the
// "report" path parameter
func (h *AdminHandler) HandleExportCSV(c *gin.Context) {
	doc, err := h.service.Repo().Get(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	report := c.Param("report")
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="`+report+`.csv"`)

	switch report {
	case "orders":
		err = export.WriteOrderHistoryCSV(c.Writer, doc)
	case "warehouse":
		err = export.WriteWarehouseCSV(c.Writer, doc)
	case "finance":
		err = export.WriteFinancialReportCSV(c.Writer, doc)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown report"})
		return
	}
	if err != nil {
		respondError(c, err)
	}
}

// HandleBackup streams the full document as JSON
func (h *AdminHandler) HandleBackup(c *gin.Context) {
	doc, err := h.service.Repo().Get(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Type", "application/json")
	c.Header("Content-Disposition", `attachment; filename="millops-backup.json"`)
	if err := export.WriteBackup(c.Writer, doc); err != nil {
		respondError(c, err)
	}
}

// HandleRestore replaces or merges the document from an uploaded
// backup; merge is requested with ?merge=true
func (h *AdminHandler) HandleRestore(c *gin.Context) {
	backup, err := export.ReadBackup(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	if c.Query("merge") == "true" {
		// Merging inside Update keeps the load-merge-store cycle under
		// the repository mutex, so a concurrent mutation cannot land
		// between the read and the write and get clobbered
		err = h.service.Repo().Update(ctx, func(doc *document.Document) error {
			export.Merge(doc, backup)
			return nil
		})
	} else {
		err = h.service.Repo().Replace(ctx, backup)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"restored": true})
}

// RegisterRoutes registers the handler's routes
func (h *AdminHandler) RegisterRoutes(router *gin.Engine) {
	admin := router.Group("/admin")
	{
		admin.POST("/products", h.HandleCreateProduct)
		admin.PUT("/products/:id", h.HandleUpdateProduct)
		admin.DELETE("/products/:id", h.HandleDeleteProduct)
		admin.GET("/operators", h.HandleListOperators)
		admin.PUT("/operators/:id/assignments", h.HandleSetAssignments)
		admin.GET("/customers", h.HandleListCustomers)
		admin.POST("/expenses", h.HandleAddExpense)
		admin.GET("/expenses", h.HandleListExpenses)
		admin.GET("/summary", h.HandleSummary)
		admin.GET("/export/:report", h.HandleExportCSV)
		admin.GET("/backup", h.HandleBackup)
		admin.POST("/restore", h.HandleRestore)
	}
}
