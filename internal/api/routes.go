package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all API routes
func SetupRoutes(r *gin.Engine, h *Handlers, corsOrigins []string) {
	r.Use(corsMiddleware(corsOrigins))
	r.Use(h.countRequests())

	// API v1 routes
	v1 := r.Group("/api")
	{
		// Health check (handle both GET and HEAD)
		v1.GET("/health", h.HealthCheck)
		v1.HEAD("/health", h.HealthCheck)

		// Devices
		v1.GET("/devices", h.GetDevices)
		v1.GET("/devices/:id", h.GetDevice)
		v1.POST("/devices", h.CreateDevice)
		v1.PUT("/devices/:id", h.UpdateDevice)
		v1.DELETE("/devices/:id", h.DeleteDevice)

		// Ledger reports
		v1.GET("/devices/:id/report", h.GetDeviceReport)
		v1.POST("/devices/:id/report", h.SubmitDeviceReport)

		// Categories
		v1.GET("/categories", h.GetCategories)

		// Stats
		v1.GET("/stats", h.GetStats)

		// Device analysis
		v1.POST("/analyze-device", h.HandleAnalyze)

		// Assistant
		v1.POST("/assistant", h.Chat)

		// Admin operations (WARNING: No authentication - add auth middleware before production)
		v1.POST("/admin/reload", h.ReloadCatalog)
	}

	r.GET("/metrics", gin.WrapH(h.metrics.Handler()))
}

func (h *Handlers) countRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		h.metrics.RequestsTotal.Inc()
		c.Next()
	}
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if allowed[origin] {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Content-Type")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
