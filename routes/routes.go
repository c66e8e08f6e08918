package routes

import (
	"net/http"
	"time"

	"agendapro/handlers"
	"agendapro/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterServiceRoutes registers the service catalog endpoints.
func RegisterServiceRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/services")
	{
		api.GET("", hb.ListServices)
		api.POST("", hb.CreateService)
		api.PUT("/:id", hb.UpdateService)
		api.DELETE("/:id", hb.DeleteService)
	}
}

// RegisterAppointmentRoutes registers the booking endpoints and the live feed.
func RegisterAppointmentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/appointments")
	{
		api.GET("", hb.ListAppointments)
		// static segment wins over :date in gin's tree
		api.GET("/stream", hb.StreamAppointments)
		api.GET("/:date", hb.ListAppointmentsByDate)
		api.POST("", hb.CreateAppointment)
		api.PUT("/:id/pay", hb.MarkAppointmentPaid)
	}
	r.GET("/api/availability", hb.GetAvailability)
	r.GET("/api/revenue/weekly", hb.WeeklyRevenue)
}

// RegisterAssistantRoutes registers the chat endpoints.
func RegisterAssistantRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/assistant")
	{
		api.POST("", hb.AssistantChat)
		api.GET("/stream", hb.AssistantStream)
		api.GET("/settings", hb.GetAssistantSettings)
		api.PUT("/settings", hb.UpdateAssistantSettings)
	}
	r.GET("/api/status", hb.AssistantStatus)
}

// RegisterSettingsRoutes registers the generic settings endpoints.
func RegisterSettingsRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/api/settings", hb.GetSettings)
	r.PUT("/api/settings", hb.UpdateSettings)
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		health := utils.GetHealthStatus()
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm AgendaPro", "store": health})
	})
}

// RegisterMetricsRoute exposes Prometheus metrics.
func RegisterMetricsRoute(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	RegisterServiceRoutes(r, hb)
	RegisterAppointmentRoutes(r, hb)
	RegisterAssistantRoutes(r, hb)
	RegisterSettingsRoutes(r, hb)
	RegisterHealthRoute(r)
	RegisterMetricsRoute(r)
}
