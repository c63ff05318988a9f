package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"example.com/millops/internal/service"
	"example.com/millops/internal/tracing"
)

// AuthHandler handles login and registration
type AuthHandler struct {
	service *service.Service
	tracer  tracing.Tracer
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(svc *service.Service, tracer tracing.Tracer) *AuthHandler {
	return &AuthHandler{service: svc, tracer: tracer}
}

// LoginRequest is the login payload
type LoginRequest struct {
	Role     string `json:"role" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// HandleLogin authenticates an account for one role
func (h *AuthHandler) HandleLogin(c *gin.Context) {
	txn := h.tracer.StartTransaction("api-login")
	defer h.tracer.EndTransaction(txn)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account, err := h.service.Authenticate(c.Request.Context(), req.Role, req.Email, req.Password)
	if err != nil {
		h.tracer.RecordError(txn, err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, account)
}

// HandleRegister registers a new account for the role in the path
func (h *AuthHandler) HandleRegister(c *gin.Context) {
	txn := h.tracer.StartTransaction("api-register")
	defer h.tracer.EndTransaction(txn)

	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	var result interface{}
	var err error

	switch c.Param("role") {
	case service.RoleCustomer:
		result, err = h.service.RegisterCustomer(ctx, &req)
	case service.RoleOperator:
		result, err = h.service.RegisterOperator(ctx, &req)
	case service.RoleDriver:
		result, err = h.service.RegisterDriver(ctx, &req)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown role"})
		return
	}

	if err != nil {
		h.tracer.RecordError(txn, err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// RegisterRoutes registers the handler's routes
func (h *AuthHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/auth/login", h.HandleLogin)
	router.POST("/auth/register/:role", h.HandleRegister)
}
