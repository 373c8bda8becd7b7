package handlers

import (
	"net/http"

	"github.com/edsotopublicidad-gif/Sotos-App/middleware"
	"github.com/edsotopublicidad-gif/Sotos-App/store"

	"github.com/gin-gonic/gin"
)

type AddMenuItemRequest struct {
	Name  string   `json:"name" binding:"required"`
	Price *float64 `json:"price" binding:"required"`
}

// GetMenu returns the items available for order entry, in display order
func (h *Handler) GetMenu(c *gin.Context) {
	items, err := h.Menu.Available()
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(items), "menu_items": items})
}

// GetFullMenu returns every item including disabled ones for the jefe management view
func (h *Handler) GetFullMenu(c *gin.Context) {
	items, err := h.Menu.All()
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(items), "menu_items": items})
}

// AddMenuItem appends a new item to the menu
func (h *Handler) AddMenuItem(c *gin.Context) {
	var req AddMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.Menu.Add(req.Name, *req.Price, middleware.GetClientID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Menu item added", "menu_item": item})
}

// UpdateMenuItem edits an item's name and/or price. Past orders keep their
// own price snapshots.
func (h *Handler) UpdateMenuItem(c *gin.Context) {
	var upd store.MenuItemUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.Menu.Update(c.Param("itemId"), upd, middleware.GetClientID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu item updated", "menu_item": item})
}

// DeleteMenuItem removes an item permanently
func (h *Handler) DeleteMenuItem(c *gin.Context) {
	if err := h.Menu.Delete(c.Param("itemId"), middleware.GetClientID(c)); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu item deleted"})
}

type MoveMenuItemRequest struct {
	Direction string `json:"direction" binding:"required"`
}

// MoveMenuItem swaps an item's display rank with its neighbor
func (h *Handler) MoveMenuItem(c *gin.Context) {
	var req MoveMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Menu.Move(c.Param("itemId"), req.Direction, middleware.GetClientID(c)); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu item moved"})
}

// ToggleMenuItem flips an item's availability on the order-entry screen
func (h *Handler) ToggleMenuItem(c *gin.Context) {
	item, err := h.Menu.ToggleAvailability(c.Param("itemId"), middleware.GetClientID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu item toggled", "menu_item": item})
}
