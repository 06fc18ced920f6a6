package routes

import (
	"pmajay-api/controllers"
	"pmajay-api/middleware"
	"pmajay-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			public.POST("/login", controllers.Login)

			// Agency self-registration lands in Pending until an admin
			// activates it
			public.POST("/agencies/register", controllers.RegisterAgency)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "PM-AJAY Fund Flow API is running",
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

			// Regions
			protected.GET("/states", controllers.GetStates)
			protected.POST("/states", middleware.RequireRole(models.RoleMinistry), controllers.CreateState)
			protected.GET("/districts", controllers.GetDistricts)
			protected.POST("/districts", middleware.RequireRole(models.RoleMinistry, models.RoleState), controllers.CreateDistrict)

			// Fund flow
			funds := protected.Group("/funds")
			{
				funds.POST("/allocate", middleware.RequireRole(models.RoleMinistry), controllers.AllocateFunds)
				funds.GET("/allocations", controllers.ListAllocations)
				funds.GET("/balance/:state_id", controllers.GetStateBalance)
				funds.GET("/district-balance/:district_id", controllers.GetDistrictBalance)

				funds.POST("/release", middleware.RequireRole(models.RoleMinistry, models.RoleState), controllers.ReleaseFunds)
				funds.POST("/release/agency", middleware.RequireRole(models.RoleDistrict), controllers.ReleaseToAgency)
				funds.POST("/release/village", middleware.RequireRole(models.RoleDistrict), controllers.ReleaseToVillage)
				funds.GET("/releases", controllers.ListReleases)
			}

			// Proposals
			proposals := protected.Group("/proposals")
			{
				proposals.GET("", controllers.ListProposals)
				proposals.GET("/:id", controllers.GetProposal)
				proposals.GET("/:id/history", controllers.GetProposalHistory)

				proposals.POST("", middleware.RequireRole(models.RoleDistrict), controllers.CreateProposal)
				proposals.PATCH("/:id/status", middleware.RequireRole(models.RoleMinistry, models.RoleState), controllers.UpdateProposalStatus)
				proposals.POST("/:id/assign-agency", middleware.RequireRole(models.RoleState, models.RoleDistrict), controllers.AssignAgency)
			}

			// Utilization certificates
			ucs := protected.Group("/uc")
			{
				ucs.GET("", controllers.ListUCs)
				ucs.POST("/submit", middleware.RequireRole(models.RoleDistrict), controllers.SubmitUC)
				ucs.PUT("/verify/:id", middleware.RequireRole(models.RoleState), controllers.VerifyUC)
			}

			// Agencies
			agencies := protected.Group("/agencies")
			{
				agencies.GET("", controllers.ListAgencies)
				agencies.GET("/:id", controllers.GetAgency)
				agencies.POST("", middleware.RequireRole(models.RoleMinistry, models.RoleState), controllers.CreateAgency)
				agencies.POST("/:id/activate", middleware.RequireRole(models.RoleMinistry, models.RoleState), controllers.ActivateAgency)
			}

			// Notifications
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", controllers.ListMyNotifications)
				notifications.GET("/poll", controllers.PollNotifications)
				notifications.PUT("/:id/read", controllers.MarkNotificationRead)
			}

			// Dashboard
			protected.GET("/dashboard/stats", controllers.GetDashboardStats)

			// Support tickets
			support := protected.Group("/support")
			{
				support.GET("", controllers.ListTickets)
				support.POST("", controllers.CreateTicket)
				support.PUT("/:id/respond", middleware.RequireRole(models.RoleMinistry, models.RoleState), controllers.RespondTicket)
			}
		}
	}
}
