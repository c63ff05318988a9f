package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"example.com/millops/internal/service"
)

// CommsHandler serves the cross-role messaging and notification feed
type CommsHandler struct {
	service *service.Service
}

// NewCommsHandler creates a new comms handler
func NewCommsHandler(svc *service.Service) *CommsHandler {
	return &CommsHandler{service: svc}
}

// MessageRequest is the send-message payload
type MessageRequest struct {
	Sender   string `json:"sender" binding:"required"`
	Receiver string `json:"receiver" binding:"required"`
	Body     string `json:"body" binding:"required"`
}

// HandleSendMessage appends a direct message
func (h *CommsHandler) HandleSendMessage(c *gin.Context) {
	var req MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	message, err := h.service.SendMessage(c.Request.Context(), req.Sender, req.Receiver, req.Body)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, message)
}

// HandleInbox lists messages addressed to the receiver named in the
// query string
func (h *CommsHandler) HandleInbox(c *gin.Context) {
	receiver := c.Query("receiver")
	if receiver == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "receiver is required"})
		return
	}
	messages, err := h.service.Inbox(c.Request.Context(), receiver)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

// HandleMarkMessageRead flags a message as read
func (h *CommsHandler) HandleMarkMessageRead(c *gin.Context) {
	if err := h.service.MarkMessageRead(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"read": true})
}

// HandleNotifications lists notifications; ?unread=true filters to
// unread ones
func (h *CommsHandler) HandleNotifications(c *gin.Context) {
	unreadOnly := c.Query("unread") == "true"
	notifications, err := h.service.Notifications(c.Request.Context(), unreadOnly)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, notifications)
}

// HandleMarkNotificationRead flags a notification as read
func (h *CommsHandler) HandleMarkNotificationRead(c *gin.Context) {
	if err := h.service.MarkNotificationRead(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"read": true})
}

// RegisterRoutes registers the handler's routes
func (h *CommsHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/messages", h.HandleSendMessage)
	router.GET("/messages", h.HandleInbox)
	router.PUT("/messages/:id/read", h.HandleMarkMessageRead)
	router.GET("/notifications", h.HandleNotifications)
	router.PUT("/notifications/:id/read", h.HandleMarkNotificationRead)
}
