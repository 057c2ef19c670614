package routes

import (
	"civicpulse-be/controllers"
	"civicpulse-be/middlewares"
	"civicpulse-be/models"

	"github.com/gin-gonic/gin"
)

// SOSRoutes sets up the emergency alert routes
func SOSRoutes(r *gin.Engine, ctrl *controllers.SOSController, auth gin.HandlerFunc) {
	group := r.Group("/api/sos")
	{
		group.POST("", auth, ctrl.Create)
		group.GET("", auth, ctrl.ListActive)
		group.PUT("/:id/assign", auth, middlewares.Authorize(models.RoleAuthority, models.RoleAdmin), ctrl.Assign)
		group.PUT("/:id/resolve", auth, middlewares.Authorize(models.RoleAuthority, models.RoleAdmin), ctrl.Resolve)
	}
}
