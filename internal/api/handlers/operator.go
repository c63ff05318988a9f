package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"example.com/millops/internal/document"
	"example.com/millops/internal/service"
	"example.com/millops/internal/tracing"
)

// OperatorHandler serves the operator dashboard operations: order
// processing and warehouse management
type OperatorHandler struct {
	service *service.Service
	tracer  tracing.Tracer
}

// NewOperatorHandler creates a new operator handler
func NewOperatorHandler(svc *service.Service, tracer tracing.Tracer) *OperatorHandler {
	return &OperatorHandler{service: svc, tracer: tracer}
}

// HandleListOrders lists orders, optionally filtered by status
func (h *OperatorHandler) HandleListOrders(c *gin.Context) {
	filter := service.OrderFilter{}
	if status := c.Query("status"); status != "" {
		filter.Status = document.OrderStatusFromString(status)
	}

	orders, err := h.service.ListOrders(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// HandleUpdateStatus transitions an order; activating statuses trigger
// the warehouse deduction inline
func (h *OperatorHandler) HandleUpdateStatus(c *gin.Context) {
	txn := h.tracer.StartTransaction("api-update-order-status")
	defer h.tracer.EndTransaction(txn)

	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.service.UpdateOrderStatus(c.Request.Context(), id, document.OrderStatusFromString(req.Status))
	if err != nil {
		h.tracer.RecordError(txn, err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// HandleAssignDriver assigns a driver to an order
func (h *OperatorHandler) HandleAssignDriver(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req struct {
		DriverID int64 `json:"driver_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.AssignDriver(c.Request.Context(), id, req.DriverID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"assigned": true})
}

// HandleCancelOrder cancels an order
func (h *OperatorHandler) HandleCancelOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.service.CancelOrder(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cancelled": true})
}

// HandleWarehouse returns the full warehouse inventory
func (h *OperatorHandler) HandleWarehouse(c *gin.Context) {
	warehouse, err := h.service.Warehouse(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, warehouse)
}

// HandleUpsertStock creates or replaces a warehouse entry
func (h *OperatorHandler) HandleUpsertStock(c *gin.Context) {
	var req service.StockAdjustment
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.UpsertWarehouseItem(c.Request.Context(), &req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

// HandleAddStock increments a warehouse item's quantity
func (h *OperatorHandler) HandleAddStock(c *gin.Context) {
	var req struct {
		Name     string  `json:"name" binding:"required"`
		Quantity float64 `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.AddStock(c.Request.Context(), req.Name, req.Quantity); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

// HandleLowStock lists warehouse entries at or below their alert level
func (h *OperatorHandler) HandleLowStock(c *gin.Context) {
	low, err := h.service.LowStockItems(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, low)
}

// HandleReconcile runs one reconciliation pass on demand
func (h *OperatorHandler) HandleReconcile(c *gin.Context) {
	txn := h.tracer.StartTransaction("api-reconcile")
	defer h.tracer.EndTransaction(txn)

	result, err := h.service.ReconcileOrders(c.Request.Context())
	if err != nil {
		h.tracer.RecordError(txn, err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// RegisterRoutes registers the handler's routes
func (h *OperatorHandler) RegisterRoutes(router *gin.Engine) {
	operator := router.Group("/operator")
	{
		operator.GET("/orders", h.HandleListOrders)
		operator.PUT("/orders/:id/status", h.HandleUpdateStatus)
		operator.PUT("/orders/:id/driver", h.HandleAssignDriver)
		operator.DELETE("/orders/:id", h.HandleCancelOrder)
		operator.GET("/warehouse", h.HandleWarehouse)
		operator.PUT("/warehouse", h.HandleUpsertStock)
		operator.POST("/warehouse/stock", h.HandleAddStock)
		operator.GET("/warehouse/low-stock", h.HandleLowStock)
		operator.POST("/reconcile", h.HandleReconcile)
	}
}
