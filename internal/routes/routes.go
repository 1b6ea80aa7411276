package routes

import (
	"github.com/gin-gonic/gin"

	"freshkart_back_end/internal/handlers/admin"
	invoicehandler "freshkart_back_end/internal/handlers/invoice"
	"freshkart_back_end/internal/handlers/payment"
	"freshkart_back_end/internal/handlers/product"
	"freshkart_back_end/internal/handlers/user"
	"freshkart_back_end/internal/middleware"
)

func RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")
	api.Use(middleware.APIRateLimit())

	// --- Auth ---
	auth := api.Group("/auth")
	{
		auth.POST("/register", middleware.RegisterRateLimit(), user.Register)
		auth.POST("/login", middleware.LoginRateLimit(), user.Login)
		auth.GET("/me", middleware.AuthRequired(), user.Me)
		auth.GET("/:provider", user.BeginAuth)
		auth.GET("/:provider/callback", user.CallbackAuth)
	}

	// --- Public catalog ---
	api.GET("/products", product.GetAllProducts)
	api.GET("/products/search", middleware.SearchRateLimit(), product.SearchProducts)
	api.GET("/products/:id", product.GetProduct)
	api.GET("/categories", product.GetCategories)
	api.GET("/categories/:id/products", product.GetProductsByCategory)

	// --- Authenticated storefront ---
	authed := api.Group("")
	authed.Use(middleware.AuthRequired())
	{
		cart := authed.Group("/cart")
		{
			cart.GET("", user.GetCart)
			cart.GET("/ws", user.CartWebSocket)
			cart.POST("/add", middleware.CartRateLimit(), user.AddToCart)
			cart.PUT("/update", middleware.CartRateLimit(), user.UpdateCartItem)
			cart.DELETE("/:productId", user.RemoveFromCart)
			cart.DELETE("", user.ClearCart)
		}

		authed.POST("/orders/place", middleware.CheckoutRateLimit(), user.PlaceOrder)
		authed.GET("/orders", user.GetMyOrders)
		authed.GET("/orders/:id", user.GetOrder)

		authed.GET("/invoice/:id", invoicehandler.DownloadInvoice)
		authed.POST("/invoice/:id/send", invoicehandler.SendInvoice)
		authed.GET("/invoices", invoicehandler.ListInvoices)

		addresses := authed.Group("/addresses")
		{
			addresses.POST("", user.CreateAddress)
			addresses.GET("", user.ListAddresses)
			addresses.PUT("/:id", user.UpdateAddress)
			addresses.DELETE("/:id", user.DeleteAddress)
		}

		pay := authed.Group("/payment")
		{
			pay.POST("/intent", payment.CreatePaymentIntent)
			pay.GET("/upi-qr/:orderId", payment.UPIQr)
		}
	}

	// --- Admin ---
	adminGroup := api.Group("/admin")
	adminGroup.Use(middleware.AuthRequired(), middleware.RequireAdmin)
	{
		adminGroup.POST("/products", product.CreateProduct)
		adminGroup.PUT("/products/:id", product.UpdateProduct)
		adminGroup.DELETE("/products/:id", product.DeleteProduct)
		adminGroup.POST("/products/:id/image", product.UploadProductImage)

		adminGroup.POST("/categories", product.CreateCategory)
		adminGroup.DELETE("/categories/:id", product.DeleteCategory)

		adminGroup.GET("/orders", admin.ListAllOrders)
		adminGroup.PUT("/orders/:id/status", admin.UpdateOrderStatus)
	}
}
