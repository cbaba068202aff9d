package routes

import (
	"time"

	"pharmakiosk/handlers"
	"pharmakiosk/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Options tunes the middleware applied while registering routes.
type Options struct {
	KioskRequestsPerMin int
	LoginRequestsPerMin int
	Logger              *zap.Logger
}

// RegisterKioskRoutes registers the public endpoints used by the feedback tablet.
func RegisterKioskRoutes(r *gin.Engine, hb *handlers.HandlerBundle, opts Options) {
	kiosk := r.Group("/api/kiosk")
	kiosk.Use(middleware.RateLimitMiddleware(opts.KioskRequestsPerMin, opts.Logger))
	{
		kiosk.POST("/sessions", hb.Kiosk.InitSessionHandler)
		kiosk.GET("/sessions/:id", hb.Kiosk.GetSessionHandler)
		kiosk.PUT("/sessions/:id/pharmacy-rating", hb.Kiosk.UpdatePharmacyRatingHandler)
		kiosk.PUT("/sessions/:id/employee-ratings", hb.Kiosk.UpdateEmployeeRatingsHandler)
		kiosk.PUT("/sessions/:id/client-data", hb.Kiosk.UpdateClientDataHandler)
		kiosk.PUT("/sessions/:id/suggestion", hb.Kiosk.UpdateSuggestionHandler)
		kiosk.POST("/sessions/:id/complete", hb.Kiosk.CompleteSessionHandler)
		kiosk.POST("/sync", hb.Kiosk.SyncHandler)
		kiosk.GET("/employees", hb.Kiosk.ListEmployeesHandler)
		kiosk.GET("/settings", hb.Kiosk.GetSettingsHandler)
	}
}

// RegisterAdminRoutes sets up the back-office endpoints. Everything but login
// requires an admin token.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle, opts Options) {
	adminGroup := r.Group("/api/admin")
	adminGroup.POST("/login", middleware.RateLimitMiddleware(opts.LoginRequestsPerMin, opts.Logger), hb.Staff.LoginHandler)

	protected := adminGroup.Group("")
	protected.Use(middleware.JWTAuthAdminMiddleware())
	{
		statsGroup := protected.Group("/stats")
		statsGroup.GET("/kpis", hb.Stats.DashboardKPIsHandler)
		statsGroup.GET("/satisfaction", hb.Stats.SatisfactionRateHandler)
		statsGroup.GET("/average-rating", hb.Stats.AverageRatingHandler)
		statsGroup.GET("/distribution", hb.Stats.StarDistributionHandler)
		statsGroup.GET("/visitors", hb.Stats.VisitorCountHandler)
		statsGroup.GET("/participation", hb.Stats.ParticipationRateHandler)
		statsGroup.GET("/employees", hb.Stats.EmployeeStatsHandler)
		statsGroup.GET("/completion", hb.Stats.CompletionRateHandler)
		statsGroup.GET("/time-of-day", hb.Stats.TimeOfDayHandler)
		statsGroup.GET("/recent", hb.Stats.RecentFeedbackHandler)

		protected.GET("/sessions", hb.Sessions.ListSessionsHandler)
		protected.POST("/sessions/sweep", hb.Sessions.SweepHandler)
		protected.GET("/sessions/:id", hb.Sessions.GetSessionHandler)
		protected.DELETE("/sessions/:id", hb.Sessions.DeleteSessionHandler)

		protected.GET("/reports", hb.Reports.ListReportsHandler)
		protected.POST("/reports", hb.Reports.GenerateReportHandler)
		protected.POST("/reports/monthly", hb.Reports.MonthlyReportHandler)
		protected.GET("/reports/:id", hb.Reports.GetReportHandler)
		protected.GET("/reports/:id/download", hb.Reports.DownloadReportHandler)
		protected.DELETE("/reports/:id", hb.Reports.DeleteReportHandler)

		protected.GET("/employees", hb.Staff.ListEmployeesHandler)
		protected.POST("/employees", hb.Staff.CreateEmployeeHandler)
		protected.GET("/employees/:id", hb.Staff.GetEmployeeHandler)
		protected.PUT("/employees/:id", hb.Staff.UpdateEmployeeHandler)
		protected.DELETE("/employees/:id", hb.Staff.DeleteEmployeeHandler)

		protected.GET("/positions", hb.Staff.ListPositionsHandler)
		protected.POST("/positions", hb.Staff.CreatePositionHandler)
		protected.GET("/positions/:id", hb.Staff.GetPositionHandler)
		protected.PUT("/positions/:id", hb.Staff.UpdatePositionHandler)
		protected.DELETE("/positions/:id", hb.Staff.DeletePositionHandler)

		protected.GET("/settings", hb.Settings.GetSettingsHandler)
		protected.PUT("/settings", hb.Settings.UpdateSettingsHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.Health.HealthCheckHandler)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, opts Options) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r, hb)
	RegisterKioskRoutes(r, hb, opts)
	RegisterAdminRoutes(r, hb, opts)
}
