package main

import (
	"database/sql"
	"net/http"
	"time"

	"voice-reservations/internal/httpapi"
	"voice-reservations/internal/telephony"
	"voice-reservations/pkg/utils"

	"github.com/gin-gonic/gin"
)

const gatherPath = "/voice/gather"

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers should delegate to internal modules.
func registerRoutes(r *gin.Engine, voice telephony.VoiceHandler, api httpapi.Handlers, authMW gin.HandlerFunc, db *sql.DB) {
	// public
	r.GET("/healthz", func(c *gin.Context) {
		if err := utils.HealthCheck(c.Request.Context(), db, 2*time.Second); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Provider voice webhooks (public).
	// NOTE: These should be protected by provider signature validation in production.
	r.POST("/voice/incoming", voice.HandleIncoming)
	r.POST(gatherPath, voice.HandleGather)
	r.POST("/voice/status", voice.HandleStatus)

	// Staff API
	v1 := r.Group("/v1")
	v1.POST("/auth/login", api.Login)

	protected := v1.Group("")
	protected.Use(authMW)
	{
		protected.GET("/customers", api.Customers)
		protected.GET("/reservations", api.Reservations)
		protected.GET("/reservations/today", api.TodaysReservations)
		protected.GET("/stats/calls", api.CallStats)
	}
}
