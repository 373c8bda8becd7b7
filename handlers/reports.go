package handlers

import (
	"net/http"
	"time"

	"github.com/edsotopublicidad-gif/Sotos-App/middleware"

	"github.com/gin-gonic/gin"
)

// GetSalesReport returns today's and this week's totals plus the full
// historical breakdown, newest first at every level
func (h *Handler) GetSalesReport(c *gin.Context) {
	summary, err := h.Reports.Summary(time.Now())
	if err != nil {
		fail(c, err)
		return
	}
	historical, err := h.Reports.Historical()
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"summary":    summary,
		"historical": historical,
	})
}

// GetArchivedOrders returns the raw archive, newest first
func (h *Handler) GetArchivedOrders(c *gin.Context) {
	orders, err := h.Orders.Archived()
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "orders": orders})
}

// ArchiveToday moves today's settled and cancelled orders into the archive
func (h *Handler) ArchiveToday(c *gin.Context) {
	archived, err := h.Orders.ArchiveTodaysOrders(middleware.GetClientID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  "Day closed, orders archived",
		"archived": archived,
	})
}

// ClearArchive deletes the entire sales history
func (h *Handler) ClearArchive(c *gin.Context) {
	if err := h.Reports.ClearArchived(middleware.GetClientID(c)); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Sales history cleared"})
}

// ClearArchiveMonth deletes archived sales for one "YYYY-M" month
func (h *Handler) ClearArchiveMonth(c *gin.Context) {
	removed, err := h.Reports.ClearArchivedMonth(c.Param("monthKey"), middleware.GetClientID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Monthly history cleared",
		"removed": removed,
	})
}
