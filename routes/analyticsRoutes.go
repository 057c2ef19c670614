package routes

import (
	"civicpulse-be/controllers"
	"civicpulse-be/middlewares"
	"civicpulse-be/models"

	"github.com/gin-gonic/gin"
)

// AnalyticsRoutes sets up the dashboard analytics route
func AnalyticsRoutes(r *gin.Engine, ctrl *controllers.AnalyticsController, auth gin.HandlerFunc) {
	group := r.Group("/api/analytics")
	{
		group.GET("", auth, middlewares.Authorize(models.RoleAuthority, models.RoleAdmin), ctrl.Get)
	}
}
