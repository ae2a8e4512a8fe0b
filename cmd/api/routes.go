package main

import (
	"database/sql"
	"time"

	"matrimony-platform/internal/httpapi"
	"matrimony-platform/internal/rbac"
	"matrimony-platform/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers should delegate to internal modules.
func registerRoutes(r *gin.Engine, h httpapi.Handlers, authMW gin.HandlerFunc, db *sql.DB) {
	// public
	r.GET("/healthz", func(c *gin.Context) {
		if err := utils.HealthCheck(c.Request.Context(), db, 2*time.Second); err != nil {
			c.JSON(503, gin.H{"status": "degraded"})
			return
		}
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/v1")

	// AUTH routes (token issuance).
	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/login", h.Login)
	}

	// protected API group
	protected := v1.Group("")
	protected.Use(authMW)
	{
		// CALLS routes
		callsGroup := protected.Group("/calls")
		{
			callsGroup.POST("/sessions", h.InitiateCall)
			callsGroup.GET("/sessions/:session_id", h.GetCallSession)
			callsGroup.GET("/sessions/:session_id/sync", h.SyncCallSession)
			callsGroup.GET("/sync/:external_call_id", h.SyncCallByExternalID)
		}

		// CREDITS routes
		protected.GET("/credits/me", h.GetMyCredits)

		// ADMIN routes
		admin := protected.Group("/admin")
		admin.Use(rbac.RequireAdmin())
		{
			admin.POST("/payments/:payment_id/verify", h.AdminVerifyPayment)
			admin.POST("/credits/grant", h.AdminGrantCredits)
			admin.GET("/budget", h.AdminGetBudget)
			admin.GET("/audit", h.AdminListAudit)
			admin.POST("/budget-settings", h.AdminUpdateBudgetSettings)
		}
	}
}
