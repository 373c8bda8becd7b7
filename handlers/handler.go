package handlers

import (
	"errors"
	"net/http"

	"github.com/edsotopublicidad-gif/Sotos-App/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler bundles the injected stores behind the HTTP surface.
type Handler struct {
	Orders     *store.OrderStore
	Menu       *store.MenuStore
	Reports    *store.ReportStore
	Auth       *store.AuthStore
	Broadcasts *store.BroadcastStore
	Log        *zap.Logger
}

func New(orders *store.OrderStore, menu *store.MenuStore, reports *store.ReportStore,
	auth *store.AuthStore, broadcasts *store.BroadcastStore, log *zap.Logger) *Handler {
	return &Handler{
		Orders:     orders,
		Menu:       menu,
		Reports:    reports,
		Auth:       auth,
		Broadcasts: broadcasts,
		Log:        log,
	}
}

// validationErrors abort the operation without any mutation and surface a
// transient user-facing message.
var validationErrors = []error{
	store.ErrEmptyOrder,
	store.ErrMissingTable,
	store.ErrMissingCustomer,
	store.ErrInvalidOrderType,
	store.ErrUnknownMenuItem,
	store.ErrItemUnavailable,
	store.ErrInvalidQuantity,
	store.ErrEmptyName,
	store.ErrNegativePrice,
	store.ErrBadDirection,
	store.ErrBadMonthKey,
	store.ErrEmptyBroadcast,
	store.ErrWeakPassword,
	store.ErrUnknownRole,
}

// fail maps a store error onto the right HTTP status: validation problems
// are the caller's, everything else is a generic persistence failure.
func fail(c *gin.Context, err error) {
	for _, ve := range validationErrors {
		if errors.Is(err, ve) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	if errors.Is(err, store.ErrMenuItemMissing) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Operation failed, please retry"})
}
