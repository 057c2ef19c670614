package routes

import (
	"civicpulse-be/controllers"
	"civicpulse-be/middlewares"
	"civicpulse-be/models"

	"github.com/gin-gonic/gin"
)

// DepartmentRoutes sets up the department registry routes
func DepartmentRoutes(r *gin.Engine, ctrl *controllers.DepartmentController, auth gin.HandlerFunc) {
	group := r.Group("/api/departments")
	{
		group.POST("", auth, middlewares.Authorize(models.RoleAdmin), ctrl.Create)
		group.GET("", auth, ctrl.List)
	}
}
