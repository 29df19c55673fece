package router

import (
	"github.com/gin-gonic/gin"
	"github.com/mstavrou/epresent-backend/config"
	"github.com/mstavrou/epresent-backend/internal/app/controller"
	"github.com/mstavrou/epresent-backend/internal/middleware"
)

type Router struct {
	authController         *controller.AuthController
	categoryController     *controller.CategoryController
	productController      *controller.ProductController
	productMediaController *controller.ProductMediaController
	selectionController    *controller.SelectionController
	enquiryController      *controller.EnquiryController
	uploadController       *controller.UploadController
	authMiddleware         *middleware.AuthMiddleware
	config                 *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	categoryController *controller.CategoryController,
	productController *controller.ProductController,
	productMediaController *controller.ProductMediaController,
	selectionController *controller.SelectionController,
	enquiryController *controller.EnquiryController,
	uploadController *controller.UploadController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:         authController,
		categoryController:     categoryController,
		productController:      productController,
		productMediaController: productMediaController,
		selectionController:    selectionController,
		enquiryController:      enquiryController,
		uploadController:       uploadController,
		authMiddleware:         authMiddleware,
		config:                 cfg,
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
			"message": "ePresent API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/login", r.authController.Login)
			auth.POST("/refresh", r.authController.Refresh)
		}

		categories := v1.Group("/categories")
		{
			categories.GET("", r.categoryController.List)
			categories.GET("/tree", r.categoryController.GetTree)
			categories.GET("/:slug", r.categoryController.GetBySlug)
		}

		products := v1.Group("/products")
		{
			products.GET("", r.productController.List)
			products.GET("/featured", r.productController.Featured)
			products.GET("/new-arrivals", r.productController.NewArrivals)
			products.GET("/sku/:sku", r.productController.GetBySKU)
			products.GET("/:id", r.productController.GetByID)
		}

		sel := v1.Group("/selection")
		{
			sel.GET("", r.selectionController.Get)
			sel.POST("/items", r.selectionController.AddItem)
			sel.PUT("/items/:key", r.selectionController.UpdateItem)
			sel.DELETE("/items/:key", r.selectionController.RemoveItem)
			sel.DELETE("", r.selectionController.Clear)
			sel.POST("/export/pdf", r.selectionController.ExportPDF)
		}

		v1.POST("/enquiries", r.enquiryController.Submit)

		admin := v1.Group("/admin",
			r.authMiddleware.Authenticate(),
			r.authMiddleware.RequireRole("admin"),
		)
		{
			admin.POST("/categories", r.categoryController.Create)
			admin.PUT("/categories/:id", r.categoryController.Update)
			admin.DELETE("/categories/:id", r.categoryController.Delete)

			admin.GET("/products", r.productController.AdminList)
			admin.GET("/products/stats", r.productController.Stats)
			admin.GET("/products/:id", r.productController.AdminGetByID)
			admin.POST("/products", r.productController.Create)
			admin.PUT("/products/:id", r.productController.Update)
			admin.DELETE("/products/:id", r.productController.Delete)

			admin.POST("/products/:id/images", r.productMediaController.AddImage)
			admin.DELETE("/products/:id/images/:imageID", r.productMediaController.RemoveImage)
			admin.PUT("/products/:id/images/:imageID/primary", r.productMediaController.SetPrimaryImage)
			admin.POST("/products/:id/variants", r.productMediaController.AddVariant)
			admin.DELETE("/products/:id/variants/:variantID", r.productMediaController.RemoveVariant)
			admin.POST("/products/:id/variants/:variantID/images", r.productMediaController.AddVariantImage)
			admin.PUT("/products/:id/variants/:variantID/images/:imageID/primary", r.productMediaController.SetPrimaryVariantImage)
			admin.POST("/products/:id/sizes", r.productMediaController.AddSize)
			admin.DELETE("/products/:id/sizes/:sizeID", r.productMediaController.RemoveSize)

			admin.GET("/enquiries", r.enquiryController.List)
			admin.GET("/enquiries/stats", r.enquiryController.Stats)
			admin.GET("/enquiries/export.xlsx", r.enquiryController.Export)
			admin.GET("/enquiries/stream", r.enquiryController.Stream)
			admin.GET("/enquiries/:id", r.enquiryController.GetByID)
			admin.PUT("/enquiries/:id/status", r.enquiryController.UpdateStatus)

			admin.POST("/uploads/presign", r.uploadController.Presign)
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
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
