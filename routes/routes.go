package routes

import (
	"github.com/edsotopublicidad-gif/Sotos-App/handlers"
	"github.com/edsotopublicidad-gif/Sotos-App/middleware"
	"github.com/edsotopublicidad-gif/Sotos-App/models"
	"github.com/edsotopublicidad-gif/Sotos-App/store"
	"github.com/edsotopublicidad-gif/Sotos-App/ws"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, h *handlers.Handler, hub *ws.Hub, auth *store.AuthStore) {
	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		public.POST("/auth/login", h.Login)

		// State machine info (great for docs/Postman)
		public.GET("/state-machine", h.GetStateMachineInfo)
	}

	// ── Shared authenticated routes ────────────────────────────────
	authed := r.Group("/api")
	authed.Use(middleware.AuthRequired(auth))
	{
		authed.GET("/menu", h.GetMenu)
		authed.GET("/orders", h.GetOrders)
		authed.GET("/orders/:id", h.GetOrderDetail)
		authed.PUT("/orders/:id", h.UpdateOrder)
		authed.PUT("/orders/:id/cancel", h.CancelOrder)
		authed.GET("/broadcast", h.GetBroadcast)
	}

	// Change-event channel; token travels as a query parameter
	r.GET("/ws", hub.Handle)

	// ── Waiter routes ──────────────────────────────────────────────
	waiter := r.Group("/api/waiter")
	waiter.Use(middleware.AuthRequired(auth), middleware.RoleRequired(models.RoleMesero, models.RoleJefe))
	{
		waiter.POST("/orders", h.PlaceOrder)
		waiter.GET("/orders", h.GetWaiterOrders)
		waiter.DELETE("/orders/sold", h.ClearWaiterSold)
		waiter.DELETE("/orders/cancelled", h.ClearWaiterCancelled)
	}

	// ── Kitchen routes ─────────────────────────────────────────────
	kitchen := r.Group("/api/kitchen")
	kitchen.Use(middleware.AuthRequired(auth), middleware.RoleRequired(models.RoleCocina, models.RoleJefe))
	{
		kitchen.GET("/orders", h.GetKitchenOrders)
		kitchen.PUT("/orders/:id/accept", h.AcceptOrder)
		kitchen.DELETE("/orders/completed", h.ClearKitchenCompleted)
	}

	// ── Delivery routes ────────────────────────────────────────────
	delivery := r.Group("/api/delivery")
	delivery.Use(middleware.AuthRequired(auth), middleware.RoleRequired(models.RoleDelivery, models.RoleJefe))
	{
		delivery.POST("/orders", h.PlaceOrder)
		delivery.GET("/orders", h.GetDeliveryOrders)
		delivery.DELETE("/orders/sold", h.ClearDeliverySold)
	}

	// ── Jefe routes ────────────────────────────────────────────────
	jefe := r.Group("/api/jefe")
	jefe.Use(middleware.AuthRequired(auth), middleware.RoleRequired(models.RoleJefe))
	{
		// Menu management
		jefe.GET("/menu", h.GetFullMenu)
		jefe.POST("/menu", h.AddMenuItem)
		jefe.PUT("/menu/:itemId", h.UpdateMenuItem)
		jefe.DELETE("/menu/:itemId", h.DeleteMenuItem)
		jefe.PUT("/menu/:itemId/move", h.MoveMenuItem)
		jefe.PUT("/menu/:itemId/toggle", h.ToggleMenuItem)

		// Sales reporting and archive
		jefe.GET("/reports/sales", h.GetSalesReport)
		jefe.GET("/reports/archive", h.GetArchivedOrders)
		jefe.POST("/orders/archive-today", h.ArchiveToday)
		jefe.DELETE("/reports/archive", h.ClearArchive)
		jefe.DELETE("/reports/archive/:monthKey", h.ClearArchiveMonth)

		// Announcements and role secrets
		jefe.POST("/broadcast", h.PostBroadcast)
		jefe.PUT("/passwords/:role", h.ChangePassword)
	}
}
