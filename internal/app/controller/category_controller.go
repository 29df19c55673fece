package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mstavrou/epresent-backend/internal/app/model"
	"github.com/mstavrou/epresent-backend/internal/app/service"
	apperrors "github.com/mstavrou/epresent-backend/internal/errors"
	"github.com/mstavrou/epresent-backend/internal/middleware"
)

type CategoryController struct {
	categoryService service.CategoryService
}

func NewCategoryController(categoryService service.CategoryService) *CategoryController {
	return &CategoryController{
		categoryService: categoryService,
	}
}

type CreateCategoryRequest struct {
	Slug      string `json:"slug"`
	NameEN    string `json:"name_en" binding:"required"`
	NameEL    string `json:"name_el" binding:"required"`
	ParentID  *uint  `json:"parent_id"`
	SortOrder int    `json:"sort_order"`
}

type UpdateCategoryRequest struct {
	Slug        *string `json:"slug"`
	NameEN      *string `json:"name_en"`
	NameEL      *string `json:"name_el"`
	ParentID    *uint   `json:"parent_id"`
	ClearParent bool    `json:"clear_parent"`
	SortOrder   *int    `json:"sort_order"`
}

// List returns every category as a flat slice
// GET /api/v1/categories
func (ctrl *CategoryController) List(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	categories, err := ctrl.categoryService.List()
	if err != nil {
		log.Error("Failed to list categories", err, nil)
		apperrors.InternalError(c, "Failed to fetch categories")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
	})
}

// GetTree returns the full category tree
// GET /api/v1/categories/tree
func (ctrl *CategoryController) GetTree(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	tree, err := ctrl.categoryService.BuildTree(c.Request.Context())
	if err != nil {
		log.Error("Failed to build category tree", err, nil)
		apperrors.InternalError(c, "Failed to fetch categories")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": tree,
	})
}

// GetBySlug returns one category with its ancestor chain
// GET /api/v1/categories/:slug
func (ctrl *CategoryController) GetBySlug(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	slug := c.Param("slug")

	category, err := ctrl.categoryService.GetBySlug(slug)
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			apperrors.NotFound(c, apperrors.CategoryNotFound, "Category not found")
			return
		}
		log.Error("Failed to fetch category", err, map[string]interface{}{
			"slug": slug,
		})
		apperrors.InternalError(c, "Failed to fetch category")
		return
	}

	ancestors, err := ctrl.categoryService.Ancestors(category.ID)
	if err != nil {
		log.Error("Failed to resolve category ancestors", err, map[string]interface{}{
			"category_id": category.ID,
		})
		apperrors.InternalError(c, "Failed to fetch category")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"category":  category,
		"ancestors": ancestors,
	})
}

// Create creates a category (Admin only)
// POST /api/v1/admin/categories
func (ctrl *CategoryController) Create(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	category, err := ctrl.categoryService.Create(&model.Category{
		Slug:      req.Slug,
		NameEN:    req.NameEN,
		NameEL:    req.NameEL,
		ParentID:  req.ParentID,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCategorySlugExists):
			apperrors.Conflict(c, apperrors.CategorySlugExists, "A category with this slug already exists")
		case errors.Is(err, service.ErrCategoryNotFound):
			apperrors.BadRequest(c, apperrors.CategoryNotFound, "Parent category not found")
		default:
			log.Error("Failed to create category", err, nil)
			apperrors.InternalError(c, "Failed to create category")
		}
		return
	}

	log.Info("Category created", map[string]interface{}{
		"category_id": category.ID,
	})
	c.JSON(http.StatusCreated, gin.H{
		"category": category,
	})
}

// Update updates a category (Admin only)
// PUT /api/v1/admin/categories/:id
func (ctrl *CategoryController) Update(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	category, err := ctrl.categoryService.Update(id, service.CategoryMutation{
		Slug:        req.Slug,
		NameEN:      req.NameEN,
		NameEL:      req.NameEL,
		ParentID:    req.ParentID,
		ClearParent: req.ClearParent,
		SortOrder:   req.SortOrder,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCategoryNotFound):
			apperrors.NotFound(c, apperrors.CategoryNotFound, "Category not found")
		case errors.Is(err, service.ErrCategorySlugExists):
			apperrors.Conflict(c, apperrors.CategorySlugExists, "A category with this slug already exists")
		case errors.Is(err, service.ErrCategorySelfParent):
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Category cannot be its own parent")
		default:
			log.Error("Failed to update category", err, map[string]interface{}{
				"category_id": id,
			})
			apperrors.InternalError(c, "Failed to update category")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"category": category,
	})
}

// Delete removes a category (Admin only). Children and products survive
// with their references cleared.
// DELETE /api/v1/admin/categories/:id
func (ctrl *CategoryController) Delete(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.categoryService.Delete(id); err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			apperrors.NotFound(c, apperrors.CategoryNotFound, "Category not found")
			return
		}
		log.Error("Failed to delete category", err, map[string]interface{}{
			"category_id": id,
		})
		apperrors.InternalError(c, "Failed to delete category")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Category deleted",
	})
}

// parseIDParam reads a numeric path parameter, responding with a 400 on
// malformed input.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	idStr := c.Param(name)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid id")
		return 0, false
	}
	return uint(id), true
}
