package routes

import (
	"civicpulse-be/controllers"
	"civicpulse-be/middlewares"
	"civicpulse-be/models"

	"github.com/gin-gonic/gin"
)

// IssueRoutes sets up the issue routes
func IssueRoutes(r *gin.Engine, ctrl *controllers.IssueController, auth gin.HandlerFunc) {
	group := r.Group("/api/issues")
	{
		group.POST("", auth, middlewares.IssueRateLimiter(10), ctrl.Create)
		group.GET("", auth, ctrl.List)
		group.PUT("/:id/status", auth, middlewares.Authorize(models.RoleAuthority, models.RoleAdmin), ctrl.UpdateStatus)
		group.POST("/:id/upvote", auth, ctrl.ToggleUpvote)
	}
}
