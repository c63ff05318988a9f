package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"example.com/millops/internal/service"
	"example.com/millops/internal/tracing"
)

// CustomerHandler serves the customer dashboard operations: catalog,
// orders, cart and preferences
type CustomerHandler struct {
	service *service.Service
	tracer  tracing.Tracer
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(svc *service.Service, tracer tracing.Tracer) *CustomerHandler {
	return &CustomerHandler{service: svc, tracer: tracer}
}

// HandleCatalog returns the product catalog
func (h *CustomerHandler) HandleCatalog(c *gin.Context) {
	products, err := h.service.ListProducts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// HandlePlaceOrder places a new order
func (h *CustomerHandler) HandlePlaceOrder(c *gin.Context) {
	txn := h.tracer.StartTransaction("api-place-order")
	defer h.tracer.EndTransaction(txn)

	var req service.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.service.PlaceOrder(c.Request.Context(), &req)
	if err != nil {
		h.tracer.RecordError(txn, err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// HandleMyOrders lists a customer's orders
func (h *CustomerHandler) HandleMyOrders(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	orders, err := h.service.ListOrders(c.Request.Context(), service.OrderFilter{CustomerID: id})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// HandleGetCart returns a customer's cart
func (h *CustomerHandler) HandleGetCart(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	cart, err := h.service.Cart(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// HandleSaveCart replaces a customer's cart
func (h *CustomerHandler) HandleSaveCart(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var items []service.CartItem
	if err := c.ShouldBindJSON(&items); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.SaveCart(c.Request.Context(), id, items); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": true})
}

// HandleClearCart empties a customer's cart
func (h *CustomerHandler) HandleClearCart(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.service.ClearCart(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cleared": true})
}

// HandleSavedItems returns a customer's saved-for-later product IDs
func (h *CustomerHandler) HandleSavedItems(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	ids, err := h.service.SavedItems(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ids)
}

// HandleSaveSavedItems replaces a customer's saved-for-later list
func (h *CustomerHandler) HandleSaveSavedItems(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var ids []int64
	if err := c.ShouldBindJSON(&ids); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.SaveSavedItems(c.Request.Context(), id, ids); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": true})
}

// HandleGetPreferences returns a user's dashboard preferences
func (h *CustomerHandler) HandleGetPreferences(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	prefs, err := h.service.UserPreferences(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, prefs)
}

// HandleSavePreferences replaces a user's dashboard preferences
func (h *CustomerHandler) HandleSavePreferences(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var prefs service.Preferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.SaveUserPreferences(c.Request.Context(), id, &prefs); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": true})
}

// RegisterRoutes registers the handler's routes
func (h *CustomerHandler) RegisterRoutes(router *gin.Engine) {
	customer := router.Group("/customer")
	{
		customer.GET("/catalog", h.HandleCatalog)
		customer.POST("/orders", h.HandlePlaceOrder)
		customer.GET("/:id/orders", h.HandleMyOrders)
		customer.GET("/:id/cart", h.HandleGetCart)
		customer.PUT("/:id/cart", h.HandleSaveCart)
		customer.DELETE("/:id/cart", h.HandleClearCart)
		customer.GET("/:id/saved-items", h.HandleSavedItems)
		customer.PUT("/:id/saved-items", h.HandleSaveSavedItems)
		customer.GET("/:id/preferences", h.HandleGetPreferences)
		customer.PUT("/:id/preferences", h.HandleSavePreferences)
	}
}
