package routes

import (
	"resource-request-api/controllers"
	"resource-request-api/middleware"
	"resource-request-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Authentication
			public.POST("/login", controllers.Login)
			public.POST("/refresh", controllers.RefreshToken)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Resource Request API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// User profile
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/change-password", controllers.ChangePassword)

			// Reference data (all authenticated users)
			protected.GET("/departments", controllers.GetDepartments)
			protected.GET("/vehicles", controllers.GetVehicles)
			protected.GET("/venues", controllers.GetVenues)
			protected.GET("/inventory-items", controllers.GetInventoryItems)

			// Resource requests
			requests := protected.Group("/requests")
			{
				// Any authenticated user can create and list; visibility of
				// other people's requests is checked inside the handlers.
				requests.POST("", controllers.CreateRequest)
				requests.GET("", controllers.GetRequests)
				requests.GET("/:id", controllers.GetRequest)
				requests.GET("/:id/actions", controllers.GetRequestActions)

				// The requester cancels their own request; ownership is
				// enforced in the service layer.
				requests.POST("/:id/cancel", controllers.CancelRequest)

				// Review-capable roles drive the lifecycle. Per-department
				// scoping happens against the request's owning department.
				requests.POST("/:id/review", controllers.ReviewRequest)
				requests.POST("/:id/approve", controllers.ApproveRequest)
				requests.POST("/:id/reject", controllers.RejectRequest)
				requests.POST("/:id/hold", controllers.HoldRequest)
				requests.POST("/:id/resume", controllers.ResumeRequest)
				requests.POST("/:id/complete", controllers.CompleteRequest)

				// Job rework
				requests.POST("/:id/reject-completed", controllers.RejectCompletedJob)
				requests.POST("/:id/rework/finish", controllers.FinishRework)
				requests.POST("/:id/rework/resolve", controllers.ResolveRework)

				// Borrowed items
				requests.POST("/:id/return", controllers.ConfirmReturn)
				requests.POST("/:id/mark-lost", controllers.MarkLost)
			}

			// Overdue borrow report
			protected.GET("/borrow/overdue", controllers.GetOverdueBorrows)

			// Reference data maintenance (admins only)
			admin := protected.Group("/admin")
			admin.Use(middleware.RequireRole(models.RoleAdmin, models.RoleSystemAdmin))
			{
				admin.POST("/departments", controllers.CreateDepartment)
				admin.PUT("/departments/:id", controllers.UpdateDepartment)
				admin.POST("/vehicles", controllers.CreateVehicle)
				admin.PUT("/vehicles/:id", controllers.UpdateVehicle)
				admin.POST("/venues", controllers.CreateVenue)
				admin.PUT("/venues/:id", controllers.UpdateVenue)
				admin.POST("/inventory-items", controllers.CreateInventoryItem)
				admin.PUT("/inventory-items/:id", controllers.UpdateInventoryItem)
			}

			// Audit trail (admins and department heads)
			protected.GET("/audit-log/:entityType/:entityId",
				middleware.RequireRole(models.RoleAdmin, models.RoleSystemAdmin, models.RoleDepartmentHead),
				controllers.GetAuditLogs)

			// Notifications
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", controllers.GetNotifications)
				notifications.GET("/unread-count", controllers.GetNotificationCounter)
				notifications.PUT("/:id/read", controllers.MarkNotificationRead)
				notifications.PUT("/read-all", controllers.MarkAllNotificationsRead)
			}
		}
	}
}
