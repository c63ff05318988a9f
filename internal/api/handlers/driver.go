package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"example.com/millops/internal/document"
	"example.com/millops/internal/service"
	"example.com/millops/internal/tracing"
)

// DriverHandler serves the driver dashboard operations: assigned
// deliveries, availability and proof of delivery
type DriverHandler struct {
	service *service.Service
	tracer  tracing.Tracer
}

// NewDriverHandler creates a new driver handler
func NewDriverHandler(svc *service.Service, tracer tracing.Tracer) *DriverHandler {
	return &DriverHandler{service: svc, tracer: tracer}
}

// HandleDeliveries lists the orders assigned to a driver
func (h *DriverHandler) HandleDeliveries(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	orders, err := h.service.ListOrders(c.Request.Context(), service.OrderFilter{DriverID: id})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// HandleUpdateStatus sets a driver's availability
func (h *DriverHandler) HandleUpdateStatus(c *gin.Context) {
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

	if err := h.service.UpdateDriverStatus(c.Request.Context(), id, document.DriverStatusFromString(req.Status)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

// HandleUpdateLocation records a driver's last reported position
func (h *DriverHandler) HandleUpdateLocation(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var loc document.Location
	if err := c.ShouldBindJSON(&loc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.UpdateDriverLocation(c.Request.Context(), id, loc); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

// HandleRecordProof stores proof of delivery and completes the order
func (h *DriverHandler) HandleRecordProof(c *gin.Context) {
	txn := h.tracer.StartTransaction("api-delivery-proof")
	defer h.tracer.EndTransaction(txn)

	var proof service.DeliveryProof
	if err := c.ShouldBindJSON(&proof); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.RecordDeliveryProof(c.Request.Context(), &proof); err != nil {
		h.tracer.RecordError(txn, err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"recorded": true})
}

// HandleGetProof returns the stored proof of delivery for an order
func (h *DriverHandler) HandleGetProof(c *gin.Context) {
	id, ok := pathID(c, "order_id")
	if !ok {
		return
	}

	proof, err := h.service.GetDeliveryProof(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, proof)
}

// HandleListDrivers lists all driver accounts
func (h *DriverHandler) HandleListDrivers(c *gin.Context) {
	drivers, err := h.service.ListDrivers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, drivers)
}

// RegisterRoutes registers the handler's routes
func (h *DriverHandler) RegisterRoutes(router *gin.Engine) {
	driver := router.Group("/driver")
	{
		driver.GET("", h.HandleListDrivers)
		driver.GET("/:id/deliveries", h.HandleDeliveries)
		driver.PUT("/:id/status", h.HandleUpdateStatus)
		driver.PUT("/:id/location", h.HandleUpdateLocation)
		driver.POST("/proof", h.HandleRecordProof)
		driver.GET("/proof/:order_id", h.HandleGetProof)
	}
}
