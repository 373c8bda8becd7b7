package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/edsotopublicidad-gif/Sotos-App/config"
	"github.com/edsotopublicidad-gif/Sotos-App/events"
	"github.com/edsotopublicidad-gif/Sotos-App/handlers"
	"github.com/edsotopublicidad-gif/Sotos-App/routes"
	"github.com/edsotopublicidad-gif/Sotos-App/store"
	"github.com/edsotopublicidad-gif/Sotos-App/ws"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadEnv()

	// Set Gin mode
	mode := os.Getenv("GIN_MODE")
	if mode == "" {
		gin.SetMode(gin.DebugMode)
	}

	logger := config.NewLogger()
	defer func() { _ = logger.Sync() }()

	// Initialize database and the cross-client change bus
	db := config.InitDB()
	bus := events.NewBus()

	orders := store.NewOrderStore(db, bus, logger)
	menu := store.NewMenuStore(db, bus, logger)
	reports := store.NewReportStore(db, bus, logger)
	auth := store.NewAuthStore(db, bus, logger)
	broadcasts := store.NewBroadcastStore(db, bus, logger)

	h := handlers.New(orders, menu, reports, auth, broadcasts, logger)

	resync := config.GetEnvDuration("RESYNC_INTERVAL", 5*time.Second)
	hub := ws.NewHub(bus, auth, logger, resync)
	hub.Run()

	// Create Gin router with default middleware (logger + recovery)
	r := gin.Default()

	// CORS middleware for frontend integration
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "Sotos App Order Service",
			"version": "1.0.0",
			"clients": hub.ClientCount(),
		})
	})

	// Welcome
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Bienvenido a Sotos App",
			"docs":    "/api/state-machine",
			"health":  "/health",
			"roles":   []string{"mesero", "cocina", "delivery", "jefe"},
		})
	})

	// Register all routes
	routes.SetupRoutes(r, h, hub, auth)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Server running on http://localhost:%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
