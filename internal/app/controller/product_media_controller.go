package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mstavrou/epresent-backend/internal/app/model"
	"github.com/mstavrou/epresent-backend/internal/app/service"
	apperrors "github.com/mstavrou/epresent-backend/internal/errors"
	"github.com/mstavrou/epresent-backend/internal/middleware"
)

// ProductMediaController manages images, color variants and size variants
// of a product. All endpoints are admin only.
type ProductMediaController struct {
	productService service.ProductService
}

func NewProductMediaController(productService service.ProductService) *ProductMediaController {
	return &ProductMediaController{
		productService: productService,
	}
}

type AddImageRequest struct {
	StoragePath string  `json:"storage_path" binding:"required"`
	AltEN       *string `json:"alt_en"`
	AltEL       *string `json:"alt_el"`
	SortOrder   int     `json:"sort_order"`
	IsPrimary   bool    `json:"is_primary"`
}

type AddVariantRequest struct {
	SKUSuffix   *string           `json:"sku_suffix"`
	ColorNameEN string            `json:"color_name_en" binding:"required"`
	ColorNameEL string            `json:"color_name_el" binding:"required"`
	HexColor    *string           `json:"hex_color"`
	VariantType model.VariantType `json:"variant_type"`
	SortOrder   int               `json:"sort_order"`
}

type AddSizeRequest struct {
	LabelEN   string  `json:"label_en" binding:"required"`
	LabelEL   string  `json:"label_el" binding:"required"`
	SKUSuffix *string `json:"sku_suffix"`
	SortOrder int     `json:"sort_order"`
}

// AddImage attaches an uploaded image to a product
// POST /api/v1/admin/products/:id/images
func (ctrl *ProductMediaController) AddImage(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req AddImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	image := &model.ProductImage{
		ProductID:   productID,
		StoragePath: req.StoragePath,
		AltEN:       req.AltEN,
		AltEL:       req.AltEL,
		SortOrder:   req.SortOrder,
		IsPrimary:   req.IsPrimary,
	}
	if err := ctrl.productService.AddImage(image); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		log.Error("Failed to add product image", err, map[string]interface{}{
			"product_id": productID,
		})
		apperrors.InternalError(c, "Failed to add image")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"image": image,
	})
}

// RemoveImage detaches an image
// DELETE /api/v1/admin/products/:id/images/:imageID
func (ctrl *ProductMediaController) RemoveImage(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	imageID, ok := parseIDParam(c, "imageID")
	if !ok {
		return
	}

	if err := ctrl.productService.RemoveImage(imageID); err != nil {
		log.Error("Failed to remove product image", err, map[string]interface{}{
			"image_id": imageID,
		})
		apperrors.InternalError(c, "Failed to remove image")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Image removed",
	})
}

// SetPrimaryImage flags one image as the product's primary
// PUT /api/v1/admin/products/:id/images/:imageID/primary
func (ctrl *ProductMediaController) SetPrimaryImage(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	imageID, ok := parseIDParam(c, "imageID")
	if !ok {
		return
	}

	if err := ctrl.productService.SetPrimaryImage(productID, imageID); err != nil {
		log.Error("Failed to set primary image", err, map[string]interface{}{
			"product_id": productID,
			"image_id":   imageID,
		})
		apperrors.InternalError(c, "Failed to set primary image")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Primary image updated",
	})
}

// AddVariant adds a color variant
// POST /api/v1/admin/products/:id/variants
func (ctrl *ProductMediaController) AddVariant(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req AddVariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	variantType := req.VariantType
	if variantType == "" {
		variantType = model.VariantTypeSwatch
	}

	variant := &model.ColorVariant{
		ProductID:   productID,
		SKUSuffix:   req.SKUSuffix,
		ColorNameEN: req.ColorNameEN,
		ColorNameEL: req.ColorNameEL,
		HexColor:    req.HexColor,
		VariantType: variantType,
		SortOrder:   req.SortOrder,
	}
	if err := ctrl.productService.AddVariant(variant); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		log.Error("Failed to add color variant", err, map[string]interface{}{
			"product_id": productID,
		})
		apperrors.InternalError(c, "Failed to add variant")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"variant": variant,
	})
}

// RemoveVariant removes a color variant
// DELETE /api/v1/admin/products/:id/variants/:variantID
func (ctrl *ProductMediaController) RemoveVariant(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	variantID, ok := parseIDParam(c, "variantID")
	if !ok {
		return
	}

	if err := ctrl.productService.RemoveVariant(variantID); err != nil {
		log.Error("Failed to remove color variant", err, map[string]interface{}{
			"variant_id": variantID,
		})
		apperrors.InternalError(c, "Failed to remove variant")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Variant removed",
	})
}

// AddVariantImage attaches an image to a color variant
// POST /api/v1/admin/products/:id/variants/:variantID/images
func (ctrl *ProductMediaController) AddVariantImage(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	variantID, ok := parseIDParam(c, "variantID")
	if !ok {
		return
	}

	var req AddImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	image := &model.VariantImage{
		VariantID:   variantID,
		StoragePath: req.StoragePath,
		AltEN:       req.AltEN,
		AltEL:       req.AltEL,
		SortOrder:   req.SortOrder,
		IsPrimary:   req.IsPrimary,
	}
	if err := ctrl.productService.AddVariantImage(image); err != nil {
		log.Error("Failed to add variant image", err, map[string]interface{}{
			"variant_id": variantID,
		})
		apperrors.InternalError(c, "Failed to add variant image")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"image": image,
	})
}

// SetPrimaryVariantImage flags one variant image as primary
// PUT /api/v1/admin/products/:id/variants/:variantID/images/:imageID/primary
func (ctrl *ProductMediaController) SetPrimaryVariantImage(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	variantID, ok := parseIDParam(c, "variantID")
	if !ok {
		return
	}
	imageID, ok := parseIDParam(c, "imageID")
	if !ok {
		return
	}

	if err := ctrl.productService.SetPrimaryVariantImage(variantID, imageID); err != nil {
		log.Error("Failed to set primary variant image", err, map[string]interface{}{
			"variant_id": variantID,
			"image_id":   imageID,
		})
		apperrors.InternalError(c, "Failed to set primary image")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Primary image updated",
	})
}

// AddSize adds a size variant
// POST /api/v1/admin/products/:id/sizes
func (ctrl *ProductMediaController) AddSize(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req AddSizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	size := &model.SizeVariant{
		ProductID: productID,
		LabelEN:   req.LabelEN,
		LabelEL:   req.LabelEL,
		SKUSuffix: req.SKUSuffix,
		SortOrder: req.SortOrder,
	}
	if err := ctrl.productService.AddSize(size); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		log.Error("Failed to add size variant", err, map[string]interface{}{
			"product_id": productID,
		})
		apperrors.InternalError(c, "Failed to add size")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"size": size,
	})
}

// RemoveSize removes a size variant
// DELETE /api/v1/admin/products/:id/sizes/:sizeID
func (ctrl *ProductMediaController) RemoveSize(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	sizeID, ok := parseIDParam(c, "sizeID")
	if !ok {
		return
	}

	if err := ctrl.productService.RemoveSize(sizeID); err != nil {
		log.Error("Failed to remove size variant", err, map[string]interface{}{
			"size_id": sizeID,
		})
		apperrors.InternalError(c, "Failed to remove size")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Size removed",
	})
}
