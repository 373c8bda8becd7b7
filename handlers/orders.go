package handlers

import (
	"net/http"

	"github.com/edsotopublicidad-gif/Sotos-App/middleware"
	"github.com/edsotopublicidad-gif/Sotos-App/models"
	"github.com/edsotopublicidad-gif/Sotos-App/statemachine"
	"github.com/edsotopublicidad-gif/Sotos-App/store"

	"github.com/gin-gonic/gin"
)

// PlaceOrder creates a new order (waiter, delivery or jefe)
func (h *Handler) PlaceOrder(c *gin.Context) {
	var draft store.OrderDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.Orders.AddOrder(draft, middleware.GetClientID(c))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"order":   order,
	})
}

// GetOrders returns every active order; any role can watch the shared list
func (h *Handler) GetOrders(c *gin.Context) {
	orders, err := h.Orders.Active()
	if err != nil {
		fail(c, err)
		return
	}

	if status := c.Query("status"); status != "" {
		filtered := orders[:0]
		for _, o := range orders {
			if o.Status == models.OrderStatus(status) {
				filtered = append(filtered, o)
			}
		}
		orders = filtered
	}

	c.JSON(http.StatusOK, gin.H{"count": len(orders), "orders": orders})
}

// GetOrderDetail returns a single order by id, with the states it may
// legally move to next
func (h *Handler) GetOrderDetail(c *gin.Context) {
	order, found := h.Orders.ByID(c.Param("id"))
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"order":             order,
		"valid_next_states": statemachine.ValidTransitionsFrom(order.Status, order.Type),
	})
}

// UpdateOrder applies a partial update under the reconciliation rules.
// Any role may update; the state machine decides what sticks.
func (h *Handler) UpdateOrder(c *gin.Context) {
	var upd models.OrderUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, found := h.Orders.UpdateOrder(c.Param("id"), upd, middleware.GetClientID(c))
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if order == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Operation failed, please retry"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":           "Order updated",
		"order":             order,
		"valid_next_states": statemachine.ValidTransitionsFrom(order.Status, order.Type),
	})
}

// CancelOrder moves an order to cancelada from any non-terminal state
func (h *Handler) CancelOrder(c *gin.Context) {
	order, found := h.Orders.CancelOrder(c.Param("id"), middleware.GetClientID(c))
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if order == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Operation failed, please retry"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order cancelled",
		"order":   order,
	})
}
