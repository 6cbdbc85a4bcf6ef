package router

import (
	"github.com/gin-gonic/gin"
	"github.com/ttmai/velora-backend/config"
	"github.com/ttmai/velora-backend/internal/app/controller"
	"github.com/ttmai/velora-backend/internal/middleware"
)

type Router struct {
	authController      *controller.AuthController
	productController   *controller.ProductController
	cartController      *controller.CartController
	orderController     *controller.OrderController
	warehouseController *controller.WarehouseController
	purchaseController  *controller.PurchaseController
	paymentController   *controller.PaymentController
	feedbackController  *controller.FeedbackController
	uploadController    *controller.UploadController
	authMiddleware      *middleware.AuthMiddleware
	config              *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	productController *controller.ProductController,
	cartController *controller.CartController,
	orderController *controller.OrderController,
	warehouseController *controller.WarehouseController,
	purchaseController *controller.PurchaseController,
	paymentController *controller.PaymentController,
	feedbackController *controller.FeedbackController,
	uploadController *controller.UploadController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:      authController,
		productController:   productController,
		cartController:      cartController,
		orderController:     orderController,
		warehouseController: warehouseController,
		purchaseController:  purchaseController,
		paymentController:   paymentController,
		feedbackController:  feedbackController,
		uploadController:    uploadController,
		authMiddleware:      authMiddleware,
		config:              cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "VELORA API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.POST("/logout", r.authMiddleware.Authenticate(), r.authController.Logout)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.GetProfile)
			auth.PUT("/me", r.authMiddleware.Authenticate(), r.authController.UpdateProfile)
		}

		products := v1.Group("/products")
		{
			products.GET("", r.productController.GetProducts)
			products.GET("/:id", r.productController.GetProduct)

			products.POST("",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.productController.CreateProduct,
			)
			products.PUT("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.productController.UpdateProduct,
			)
			products.DELETE("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.productController.DeleteProduct,
			)
			products.POST("/:id/migrate-variants",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.productController.MigrateVariants,
			)
		}

		categories := v1.Group("/categories")
		{
			categories.GET("", r.productController.GetCategories)
			categories.POST("",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.productController.CreateCategory,
			)
		}

		cart := v1.Group("/cart")
		cart.Use(r.authMiddleware.Authenticate())
		{
			cart.GET("", r.cartController.GetCart)
			cart.POST("", r.cartController.AddToCart)
			cart.POST("/quick-add", r.cartController.QuickAdd)
			cart.PUT("/:id", r.cartController.UpdateCartItem)
			cart.DELETE("/:id", r.cartController.RemoveFromCart)
			cart.DELETE("", r.cartController.ClearCart)
		}

		orders := v1.Group("/orders")
		orders.Use(r.authMiddleware.Authenticate())
		{
			orders.GET("", r.orderController.GetMyOrders)
			orders.GET("/:id", r.orderController.GetOrder)
			orders.POST("/checkout", r.orderController.Checkout)
			orders.POST("/checkout/card", r.orderController.CheckoutCard)

			orders.PUT("/:id/deliver",
				r.authMiddleware.RequireRole("admin"),
				r.orderController.MarkDelivered,
			)
			orders.PUT("/:id/cancel",
				r.authMiddleware.RequireRole("admin"),
				r.orderController.CancelOrder,
			)
			orders.DELETE("/:id/items/:itemId",
				r.authMiddleware.RequireRole("admin"),
				r.orderController.DeleteOrderItem,
			)
			orders.DELETE("/:id",
				r.authMiddleware.RequireRole("admin"),
				r.orderController.DeleteOrder,
			)
		}

		admin := v1.Group("/admin")
		admin.Use(r.authMiddleware.Authenticate())
		admin.Use(r.authMiddleware.RequireRole("admin"))
		{
			admin.GET("/orders", r.orderController.GetAllOrders)

			admin.GET("/warehouses", r.warehouseController.GetWarehouses)
			admin.POST("/warehouses", r.warehouseController.CreateWarehouse)
			admin.PUT("/warehouses/:id", r.warehouseController.UpdateWarehouse)
			admin.PUT("/warehouses/:id/default", r.warehouseController.SetDefaultWarehouse)
			admin.DELETE("/warehouses/:id", r.warehouseController.DeleteWarehouse)
			admin.GET("/warehouses/:id/inventory", r.warehouseController.GetWarehouseInventory)
			admin.GET("/inventory/products/:id", r.warehouseController.GetProductInventory)
			admin.POST("/inventory/adjust", r.warehouseController.AdjustInventory)
			admin.POST("/inventory/reconcile", r.warehouseController.Reconcile)

			admin.GET("/purchase-logs", r.purchaseController.GetPurchaseLogs)
			admin.GET("/purchase-logs/products/:id", r.purchaseController.GetProductPurchaseLogs)
			admin.GET("/stock-report", r.purchaseController.StockReport)
			admin.GET("/stock-report/export", r.purchaseController.ExportReport)
			admin.POST("/purchase-logs/backfill", r.purchaseController.Backfill)

			admin.GET("/feedbacks", r.feedbackController.GetFeedbacks)
			admin.DELETE("/feedbacks/:id", r.feedbackController.DeleteFeedback)
		}

		payments := v1.Group("/payments")
		{
			payments.POST("/vnpay",
				r.authMiddleware.Authenticate(),
				r.paymentController.CreatePayment,
			)
			// VNPay redirects the customer here; authenticated by checksum, not JWT
			payments.GET("/vnpay/callback", r.paymentController.Callback)
		}

		feedback := v1.Group("/feedback")
		{
			feedback.POST("", r.feedbackController.SubmitFeedback)
		}

		upload := v1.Group("/upload")
		upload.Use(r.authMiddleware.Authenticate())
		upload.Use(r.authMiddleware.RequireRole("admin"))
		{
			upload.POST("/presigned-url", r.uploadController.GeneratePresignedURL)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
