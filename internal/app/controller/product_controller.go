package controller

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mstavrou/epresent-backend/internal/app/model"
	"github.com/mstavrou/epresent-backend/internal/app/repository"
	"github.com/mstavrou/epresent-backend/internal/app/service"
	apperrors "github.com/mstavrou/epresent-backend/internal/errors"
	"github.com/mstavrou/epresent-backend/internal/middleware"
)

type ProductController struct {
	productService service.ProductService
}

func NewProductController(productService service.ProductService) *ProductController {
	return &ProductController{
		productService: productService,
	}
}

type CreateProductRequest struct {
	SKU           string           `json:"sku" binding:"required"`
	NameEN        string           `json:"name_en" binding:"required"`
	NameEL        string           `json:"name_el" binding:"required"`
	DescriptionEN *string          `json:"description_en"`
	DescriptionEL *string          `json:"description_el"`
	Price         float64          `json:"price" binding:"required,gt=0"`
	MOQ           int              `json:"moq"`
	CategoryID    *uint            `json:"category_id"`
	Tags          model.StringList `json:"tags"`
	IsFeatured    bool             `json:"is_featured"`
	IsNewArrival  bool             `json:"is_new_arrival"`
	IsActive      *bool            `json:"is_active"`
	SortOrder     int              `json:"sort_order"`
}

type UpdateProductRequest struct {
	SKU           *string           `json:"sku"`
	NameEN        *string           `json:"name_en"`
	NameEL        *string           `json:"name_el"`
	DescriptionEN *string           `json:"description_en"`
	DescriptionEL *string           `json:"description_el"`
	Price         *float64          `json:"price"`
	MOQ           *int              `json:"moq"`
	CategoryID    *uint             `json:"category_id"`
	ClearCategory bool              `json:"clear_category"`
	Tags          *model.StringList `json:"tags"`
	IsFeatured    *bool             `json:"is_featured"`
	IsNewArrival  *bool             `json:"is_new_arrival"`
	IsActive      *bool             `json:"is_active"`
	SortOrder     *int              `json:"sort_order"`
}

// List returns a filtered catalog page
// GET /api/v1/products
func (ctrl *ProductController) List(c *gin.Context) {
	ctrl.list(c, false)
}

// AdminList returns a catalog page including inactive products
// GET /api/v1/admin/products
func (ctrl *ProductController) AdminList(c *gin.Context) {
	ctrl.list(c, true)
}

func (ctrl *ProductController) list(c *gin.Context, adminView bool) {
	log := middleware.GetLoggerFromContext(c)

	query := service.ProductQuery{
		Search:    strings.TrimSpace(c.Query("search")),
		SortBy:    parseSort(c.Query("sort")),
		Page:      parsePositiveInt(c.Query("page"), 1),
		AdminView: adminView,
	}

	if raw := c.Query("category_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid category id")
			return
		}
		categoryID := uint(id)
		query.CategoryID = &categoryID
	}
	if raw := c.Query("tags"); raw != "" {
		for _, tag := range strings.Split(raw, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				query.Tags = append(query.Tags, tag)
			}
		}
	}
	if raw := c.Query("min_price"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "Invalid minimum price")
			return
		}
		query.MinPrice = &v
	}
	if raw := c.Query("max_price"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "Invalid maximum price")
			return
		}
		query.MaxPrice = &v
	}

	page, err := ctrl.productService.Query(query)
	if err != nil {
		log.Error("Failed to query products", err, nil)
		apperrors.InternalError(c, "Failed to fetch products")
		return
	}

	c.JSON(http.StatusOK, page)
}

// Featured returns the featured products carousel
// GET /api/v1/products/featured
func (ctrl *ProductController) Featured(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	products, err := ctrl.productService.Featured()
	if err != nil {
		log.Error("Failed to fetch featured products", err, nil)
		apperrors.InternalError(c, "Failed to fetch products")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
	})
}

// NewArrivals returns the new arrivals carousel
// GET /api/v1/products/new-arrivals
func (ctrl *ProductController) NewArrivals(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	products, err := ctrl.productService.NewArrivals()
	if err != nil {
		log.Error("Failed to fetch new arrivals", err, nil)
		apperrors.InternalError(c, "Failed to fetch products")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
	})
}

// GetByID returns one product with images, variants and sizes
// GET /api/v1/products/:id
func (ctrl *ProductController) GetByID(c *gin.Context) {
	ctrl.getByID(c, false)
}

// AdminGetByID returns one product regardless of active state
// GET /api/v1/admin/products/:id
func (ctrl *ProductController) AdminGetByID(c *gin.Context) {
	ctrl.getByID(c, true)
}

func (ctrl *ProductController) getByID(c *gin.Context, adminView bool) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	product, err := ctrl.productService.GetByID(id, adminView)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		log.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": id,
		})
		apperrors.InternalError(c, "Failed to fetch product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product": product,
	})
}

// GetBySKU returns one active product looked up by SKU
// GET /api/v1/products/sku/:sku
func (ctrl *ProductController) GetBySKU(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sku := c.Param("sku")

	product, err := ctrl.productService.GetBySKU(sku, false)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		log.Error("Failed to fetch product", err, map[string]interface{}{
			"sku": sku,
		})
		apperrors.InternalError(c, "Failed to fetch product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product": product,
	})
}

// Create creates a product (Admin only)
// POST /api/v1/admin/products
func (ctrl *ProductController) Create(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	product := &model.Product{
		SKU:           req.SKU,
		NameEN:        req.NameEN,
		NameEL:        req.NameEL,
		DescriptionEN: req.DescriptionEN,
		DescriptionEL: req.DescriptionEL,
		Price:         req.Price,
		MOQ:           req.MOQ,
		CategoryID:    req.CategoryID,
		Tags:          req.Tags,
		IsFeatured:    req.IsFeatured,
		IsNewArrival:  req.IsNewArrival,
		IsActive:      true,
		SortOrder:     req.SortOrder,
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	created, err := ctrl.productService.Create(product)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidSKU):
			apperrors.BadRequest(c, apperrors.ProductInvalidSKU, "SKU may only contain letters, digits and hyphens")
		case errors.Is(err, service.ErrSKUExists):
			apperrors.Conflict(c, apperrors.ProductSKUExists, "A product with this SKU already exists")
		default:
			log.Error("Failed to create product", err, nil)
			apperrors.InternalError(c, "Failed to create product")
		}
		return
	}

	log.Info("Product created", map[string]interface{}{
		"product_id": created.ID,
		"sku":        created.SKU,
	})
	c.JSON(http.StatusCreated, gin.H{
		"product": created,
	})
}

// Update updates a product (Admin only)
// PUT /api/v1/admin/products/:id
func (ctrl *ProductController) Update(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	product, err := ctrl.productService.Update(id, service.ProductMutation{
		SKU:           req.SKU,
		NameEN:        req.NameEN,
		NameEL:        req.NameEL,
		DescriptionEN: req.DescriptionEN,
		DescriptionEL: req.DescriptionEL,
		Price:         req.Price,
		MOQ:           req.MOQ,
		CategoryID:    req.CategoryID,
		ClearCategory: req.ClearCategory,
		Tags:          req.Tags,
		IsFeatured:    req.IsFeatured,
		IsNewArrival:  req.IsNewArrival,
		IsActive:      req.IsActive,
		SortOrder:     req.SortOrder,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
		case errors.Is(err, service.ErrInvalidSKU):
			apperrors.BadRequest(c, apperrors.ProductInvalidSKU, "SKU may only contain letters, digits and hyphens")
		case errors.Is(err, service.ErrSKUExists):
			apperrors.Conflict(c, apperrors.ProductSKUExists, "A product with this SKU already exists")
		default:
			log.Error("Failed to update product", err, map[string]interface{}{
				"product_id": id,
			})
			apperrors.InternalError(c, "Failed to update product")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product": product,
	})
}

// Delete soft-deletes a product (Admin only)
// DELETE /api/v1/admin/products/:id
func (ctrl *ProductController) Delete(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.productService.Delete(id); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		log.Error("Failed to delete product", err, map[string]interface{}{
			"product_id": id,
		})
		apperrors.InternalError(c, "Failed to delete product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product deleted",
	})
}

// Stats returns catalog counts for the admin dashboard
// GET /api/v1/admin/products/stats
func (ctrl *ProductController) Stats(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	total, active, err := ctrl.productService.Stats()
	if err != nil {
		log.Error("Failed to fetch product stats", err, nil)
		apperrors.InternalError(c, "Failed to fetch stats")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":  total,
		"active": active,
	})
}

func parseSort(raw string) repository.ProductSort {
	switch repository.ProductSort(raw) {
	case repository.ProductSortPriceAsc:
		return repository.ProductSortPriceAsc
	case repository.ProductSortPriceDesc:
		return repository.ProductSortPriceDesc
	case repository.ProductSortName:
		return repository.ProductSortName
	default:
		return repository.ProductSortNewest
	}
}

func parsePositiveInt(raw string, fallback int) int {
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return fallback
	}
	return v
}
