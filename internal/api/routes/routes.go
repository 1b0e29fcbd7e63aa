package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/swiftride/backend/internal/api/handlers"
	"github.com/swiftride/backend/internal/api/middleware"
	"github.com/swiftride/backend/internal/auth"
	"github.com/swiftride/backend/pkg/logger"
	"github.com/swiftride/backend/pkg/monitoring"
)

// SetupRoutes configures all API routes.
func SetupRoutes(r *gin.Engine, h *handlers.Handlers, nrApp *monitoring.NewRelicApp, log *logger.Logger) {
	if nrApp != nil && nrApp.IsEnabled() {
		r.Use(nrgin.Middleware(nrApp.Application))
	}
	r.Use(middleware.RequestID())
	r.Use(middleware.Metrics())
	r.Use(middleware.AccessLog(log))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/v1")
	{
		// Authentication (unauthenticated)
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/passengers/register", h.RegisterPassenger)
			authGroup.POST("/passengers/login", h.LoginPassenger)
			authGroup.POST("/drivers/register", h.RegisterDriver)
			authGroup.POST("/drivers/login", h.LoginDriver)
			authGroup.POST("/admin/login", h.LoginAdmin)
		}

		// Ride endpoints (passenger, plus shared reads)
		rides := v1.Group("/rides")
		{
			rides.POST("", middleware.RequireRole(h.Auth, auth.RolePassenger), h.CreateRide)
			rides.GET("", middleware.RequireRole(h.Auth, auth.RolePassenger, auth.RoleDriver), h.ListMyRides)
			rides.GET("/:id", middleware.RequireRole(h.Auth), h.GetRide)
			rides.POST("/:id/cancel", middleware.RequireRole(h.Auth, auth.RolePassenger), h.CancelRide)
		}

		// Driver endpoints
		drv := v1.Group("/driver", middleware.RequireRole(h.Auth, auth.RoleDriver))
		{
			drv.GET("/requests", h.AvailableRides)
			drv.POST("/requests/:id/accept", h.AcceptRide)
			drv.POST("/requests/:id/start", h.StartRide)
			drv.POST("/requests/:id/complete", h.CompleteRide)
			drv.POST("/location", h.UpdateDriverLocation)
			drv.POST("/status", h.UpdateOnlineStatus)
		}

		// Admin endpoints
		admin := v1.Group("/admin", middleware.RequireRole(h.Auth, auth.RoleAdmin))
		{
			admin.GET("/requests", h.AdminListRequests)
			admin.GET("/requests/export", h.AdminExportCSV)
			admin.POST("/requests/:id/assign", h.AdminAssignDriver)
			admin.POST("/requests/:id/cancel", h.AdminCancelRequest)
			admin.GET("/dashboard", h.AdminDashboard)
			admin.GET("/analytics/daily", h.AdminDailyStats)
			admin.GET("/drivers", h.AdminListDrivers)
			admin.GET("/drivers/nearby", h.AdminNearbyDrivers)
		}
	}
}
