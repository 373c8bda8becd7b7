package handlers

import (
	"net/http"

	"github.com/edsotopublicidad-gif/Sotos-App/middleware"

	"github.com/gin-gonic/gin"
)

// GetDeliveryOrders returns the active orders owned by one delivery id.
// Delivery ids live in the waiter id namespace.
func (h *Handler) GetDeliveryOrders(c *gin.Context) {
	deliveryID := c.Query("delivery_id")
	if deliveryID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "delivery_id query parameter required"})
		return
	}

	orders, err := h.Orders.ForWaiter(deliveryID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "orders": orders})
}

// ClearDeliverySold removes the delivery runner's settled orders, the
// end-of-shift reset for the delivery view.
func (h *Handler) ClearDeliverySold(c *gin.Context) {
	deliveryID := c.Query("delivery_id")
	if deliveryID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "delivery_id query parameter required"})
		return
	}

	removed, err := h.Orders.ClearDeliverySoldOrders(deliveryID, middleware.GetClientID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Shift deliveries cleared",
		"removed": removed,
	})
}
