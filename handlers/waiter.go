package handlers

import (
	"net/http"

	"github.com/edsotopublicidad-gif/Sotos-App/middleware"

	"github.com/gin-gonic/gin"
)

// GetWaiterOrders returns the active orders owned by one waiter id
func (h *Handler) GetWaiterOrders(c *gin.Context) {
	waiterID := c.Query("waiter_id")
	if waiterID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "waiter_id query parameter required"})
		return
	}

	orders, err := h.Orders.ForWaiter(waiterID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "orders": orders})
}

// ClearWaiterSold removes the waiter's settled orders at the end of a shift.
// The sales report keeps its figures from the archive.
func (h *Handler) ClearWaiterSold(c *gin.Context) {
	waiterID := c.Query("waiter_id")
	if waiterID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "waiter_id query parameter required"})
		return
	}

	removed, err := h.Orders.ClearWaiterSoldOrders(waiterID, middleware.GetClientID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Shift sales cleared",
		"removed": removed,
	})
}

// ClearWaiterCancelled removes the waiter's cancelled orders
func (h *Handler) ClearWaiterCancelled(c *gin.Context) {
	waiterID := c.Query("waiter_id")
	if waiterID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "waiter_id query parameter required"})
		return
	}

	removed, err := h.Orders.ClearWaiterCancelledOrders(waiterID, middleware.GetClientID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Cancelled orders cleared",
		"removed": removed,
	})
}
