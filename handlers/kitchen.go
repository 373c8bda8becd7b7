package handlers

import (
	"net/http"

	"github.com/edsotopublicidad-gif/Sotos-App/middleware"

	"github.com/gin-gonic/gin"
)

// GetKitchenOrders returns the active order queue with a per-status summary
func (h *Handler) GetKitchenOrders(c *gin.Context) {
	orders, err := h.Orders.Active()
	if err != nil {
		fail(c, err)
		return
	}

	summary := map[string]int{}
	for _, o := range orders {
		summary[string(o.Status)]++
	}

	c.JSON(http.StatusOK, gin.H{
		"order_summary": summary,
		"count":         len(orders),
		"orders":        orders,
	})
}

// AcceptOrder is the kitchen taking an order into preparation. Only orders
// still waiting in the queue can be accepted.
func (h *Handler) AcceptOrder(c *gin.Context) {
	order, found, err := h.Orders.Accept(c.Param("id"), middleware.GetClientID(c))
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	if order == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Operation failed, please retry"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order accepted", "order": order})
}

// ClearKitchenCompleted resets the kitchen view by removing every order the
// kitchen already finished. This is not archival; the kitchen never keeps
// sales history.
func (h *Handler) ClearKitchenCompleted(c *gin.Context) {
	removed, err := h.Orders.ClearKitchenCompletedOrders(middleware.GetClientID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Kitchen history cleared",
		"removed": removed,
	})
}
