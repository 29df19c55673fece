package controller

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mstavrou/epresent-backend/internal/app/model"
	"github.com/mstavrou/epresent-backend/internal/app/service"
	apperrors "github.com/mstavrou/epresent-backend/internal/errors"
	"github.com/mstavrou/epresent-backend/internal/middleware"
)

// selectionCookieMaxAge keeps the session key for a year
const selectionCookieMaxAge = 365 * 24 * 60 * 60

// SelectionController exposes the wholesale selection of an anonymous
// storefront session. Sessions are identified by a long-lived cookie.
type SelectionController struct {
	selectionService service.SelectionService
	cookieName       string
}

func NewSelectionController(selectionService service.SelectionService, cookieName string) *SelectionController {
	return &SelectionController{
		selectionService: selectionService,
		cookieName:       cookieName,
	}
}

type AddSelectionItemRequest struct {
	ProductID uint  `json:"product_id" binding:"required"`
	VariantID *uint `json:"variant_id"`
	SizeID    *uint `json:"size_id"`
	Qty       int   `json:"qty"`
}

// UpdateSelectionQtyRequest carries the requested quantity. Zero and
// negative values are valid input; they clamp up to the line's MOQ.
type UpdateSelectionQtyRequest struct {
	Qty int `json:"qty"`
}

type ExportSelectionRequest struct {
	Locale string `json:"locale"`
}

// sessionKey reads the selection cookie, minting a fresh key when missing
func (ctrl *SelectionController) sessionKey(c *gin.Context) string {
	key, err := c.Cookie(ctrl.cookieName)
	if err != nil || key == "" {
		key = uuid.New().String()
		c.SetCookie(ctrl.cookieName, key, selectionCookieMaxAge, "/", "", false, true)
	}
	return key
}

// Get returns the current selection
// GET /api/v1/selection
func (ctrl *SelectionController) Get(c *gin.Context) {
	state := ctrl.selectionService.Get(ctrl.sessionKey(c))
	c.JSON(http.StatusOK, gin.H{
		"selection": state,
		"subtotal":  state.Subtotal(),
	})
}

// AddItem adds a product (with optional variant and size) to the selection
// POST /api/v1/selection/items
func (ctrl *SelectionController) AddItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req AddSelectionItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	state, err := ctrl.selectionService.Add(ctrl.sessionKey(c), service.AddToSelectionInput{
		ProductID: req.ProductID,
		VariantID: req.VariantID,
		SizeID:    req.SizeID,
		Qty:       req.Qty,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
		case errors.Is(err, service.ErrSelectionInvalidOption):
			apperrors.BadRequest(c, apperrors.SelectionInvalidOption, "Option does not belong to this product")
		default:
			log.Error("Failed to add selection item", err, map[string]interface{}{
				"product_id": req.ProductID,
			})
			apperrors.InternalError(c, "Failed to update selection")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"selection": state,
		"subtotal":  state.Subtotal(),
	})
}

// UpdateItem changes a line's quantity. Unknown keys leave the selection
// untouched.
// PUT /api/v1/selection/items/:key
func (ctrl *SelectionController) UpdateItem(c *gin.Context) {
	var req UpdateSelectionQtyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	state := ctrl.selectionService.UpdateQty(ctrl.sessionKey(c), c.Param("key"), req.Qty)
	c.JSON(http.StatusOK, gin.H{
		"selection": state,
		"subtotal":  state.Subtotal(),
	})
}

// RemoveItem drops a line. Unknown keys leave the selection untouched.
// DELETE /api/v1/selection/items/:key
func (ctrl *SelectionController) RemoveItem(c *gin.Context) {
	state := ctrl.selectionService.Remove(ctrl.sessionKey(c), c.Param("key"))
	c.JSON(http.StatusOK, gin.H{
		"selection": state,
		"subtotal":  state.Subtotal(),
	})
}

// Clear empties the selection
// DELETE /api/v1/selection
func (ctrl *SelectionController) Clear(c *gin.Context) {
	state := ctrl.selectionService.Clear(ctrl.sessionKey(c))
	c.JSON(http.StatusOK, gin.H{
		"selection": state,
		"subtotal":  state.Subtotal(),
	})
}

// ExportPDF streams the selection as a quotation-style PDF document
// POST /api/v1/selection/export/pdf
func (ctrl *SelectionController) ExportPDF(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ExportSelectionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
			return
		}
	}
	locale := req.Locale
	if locale != model.LocaleEL {
		locale = model.LocaleEN
	}

	var buf bytes.Buffer
	if err := ctrl.selectionService.ExportPDF(&buf, ctrl.sessionKey(c), locale); err != nil {
		if errors.Is(err, service.ErrSelectionEmpty) {
			apperrors.BadRequest(c, apperrors.SelectionLineNotFound, "Selection is empty")
			return
		}
		log.Error("Failed to render selection PDF", err, nil)
		apperrors.InternalError(c, "Failed to export selection")
		return
	}

	filename := fmt.Sprintf("selection-%s.pdf", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
