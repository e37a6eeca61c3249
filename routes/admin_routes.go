package routes

import (
	"github.com/Amber-bisht/watch-me/controllers"
	"github.com/Amber-bisht/watch-me/middleware"
	"github.com/gin-gonic/gin"
)

// initAdminRoutes initializes all admin-related routes
func initAdminRoutes(router *gin.RouterGroup, cfg RouterConfig, h Handlers) {
	admin := router.Group("/admin")
	{
		// Public admin routes
		admin.POST("/login", h.Auth.AdminLogin)
		admin.POST("/logout", h.Auth.AdminLogout)

		// Protected admin routes
		protected := admin.Group("")
		protected.Use(middleware.AdminAuthMiddleware(cfg.JWTSecret))
		{
			protected.GET("/me", h.Auth.AdminProfile)

			// Product management
			protected.GET("/products", controllers.AdminListProducts)
			protected.GET("/products/:id", controllers.AdminGetProduct)
			protected.POST("/products", controllers.AdminCreateProduct)
			protected.PUT("/products/:id", controllers.AdminUpdateProduct)
			protected.DELETE("/products/:id", controllers.AdminDeleteProduct)

			// Collection management
			protected.GET("/collections", controllers.AdminListCollections)
			protected.GET("/collections/:id", controllers.AdminGetCollection)
			protected.POST("/collections", controllers.AdminCreateCollection)
			protected.PUT("/collections/:id", controllers.AdminUpdateCollection)
			protected.DELETE("/collections/:id", controllers.AdminDeleteCollection)

			// Order management
			protected.GET("/orders", h.Orders.ListOrders)
			protected.GET("/orders/export", h.Orders.ExportOrders)
			protected.GET("/orders/:id", h.Orders.GetOrder)
			protected.PATCH("/orders/:id", h.Orders.UpdateOrderStatus)
			protected.GET("/orders/:id/packing-slip", h.Orders.PackingSlip)

			// Shipments
			shipment := protected.Group("/orders/:id/shipment")
			{
				shipment.POST("", h.Shipments.CreateShipment)
				shipment.GET("", h.Shipments.GetShipment)
				shipment.POST("/assign-awb", h.Shipments.AssignAWB)
				shipment.POST("/schedule-pickup", h.Shipments.SchedulePickup)
				shipment.GET("/label", h.Shipments.Label)
				shipment.GET("/invoice", h.Shipments.Invoice)
			}
		}
	}
}
