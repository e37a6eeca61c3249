package routes

import (
	"github.com/Amber-bisht/watch-me/controllers"
	"github.com/gin-gonic/gin"
)

// initStoreRoutes initializes the public storefront routes
func initStoreRoutes(router *gin.RouterGroup, h Handlers) {
	// Catalog
	router.GET("/products", controllers.GetProducts)
	router.GET("/products/:slug", controllers.GetProductBySlug)
	router.GET("/collections", controllers.GetCollections)
	router.GET("/collections/:slug", controllers.GetCollectionBySlug)

	// Cart and checkout
	router.POST("/cart/quote", h.Checkout.Quote)
	checkout := router.Group("/checkout")
	{
		checkout.POST("/orders", h.Checkout.CreateOrder)
		checkout.POST("/verify", h.Checkout.VerifyPayment)
	}

	// Customer order lookup, keyed by order id plus the checkout email
	router.GET("/orders/:id", h.Orders.CustomerOrder)

	router.GET("/shipping/serviceability", h.Shipments.Serviceability)

	webhooks := router.Group("/webhooks")
	{
		webhooks.POST("/razorpay", h.Webhooks.Razorpay)
		webhooks.POST("/shiprocket", h.Webhooks.Shiprocket)
	}
}
