package handlers

import (
	"net/http"

	"github.com/edsotopublicidad-gif/Sotos-App/middleware"

	"github.com/gin-gonic/gin"
)

type BroadcastRequest struct {
	Message string `json:"message" binding:"required"`
}

// PostBroadcast lets the jefe announce a message to every client;
// the newest message replaces the previous one
func (h *Handler) PostBroadcast(c *gin.Context) {
	var req BroadcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	b, err := h.Broadcasts.Publish(req.Message, middleware.GetClientID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Broadcast sent", "broadcast": b})
}

// GetBroadcast returns the current broadcast, if one exists. Clients track
// the timestamp so each message is consumed once per device.
func (h *Handler) GetBroadcast(c *gin.Context) {
	b, found := h.Broadcasts.Current()
	if !found {
		c.JSON(http.StatusOK, gin.H{"broadcast": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"broadcast": b})
}
