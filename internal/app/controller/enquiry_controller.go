package controller

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/mstavrou/epresent-backend/internal/app/model"
	"github.com/mstavrou/epresent-backend/internal/app/service"
	apperrors "github.com/mstavrou/epresent-backend/internal/errors"
	"github.com/mstavrou/epresent-backend/internal/export"
	"github.com/mstavrou/epresent-backend/internal/middleware"
	"github.com/mstavrou/epresent-backend/internal/notify"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Admin dashboards are served from a different origin than the API.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type EnquiryController struct {
	enquiryService service.EnquiryService
	hub            *notify.Hub
}

func NewEnquiryController(enquiryService service.EnquiryService, hub *notify.Hub) *EnquiryController {
	return &EnquiryController{
		enquiryService: enquiryService,
		hub:            hub,
	}
}

type UpdateEnquiryStatusRequest struct {
	Status model.EnquiryStatus `json:"status" binding:"required"`
}

// Submit files a storefront enquiry
// POST /api/v1/enquiries
func (ctrl *EnquiryController) Submit(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var input service.EnquiryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	enquiry, err := ctrl.enquiryService.Submit(input)
	if err != nil {
		var validationErr *service.EnquiryValidationError
		if errors.As(err, &validationErr) {
			log.Warn("Enquiry rejected by validation", map[string]interface{}{
				"fields": len(validationErr.Fields),
			})
			apperrors.RespondWithValidationError(c, validationErr.Fields)
			return
		}
		log.Error("Failed to submit enquiry", err, nil)
		apperrors.InternalError(c, "Failed to submit enquiry")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id": enquiry.ID,
	})
}

// List returns a page of enquiries (Admin only)
// GET /api/v1/admin/enquiries
func (ctrl *EnquiryController) List(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	opts := service.EnquiryListOptions{
		Page: parsePositiveInt(c.Query("page"), 1),
	}
	if raw := c.Query("status"); raw != "" {
		status := model.EnquiryStatus(raw)
		if !model.ValidEnquiryStatus(status) {
			apperrors.BadRequest(c, apperrors.EnquiryInvalidStatus, "Unknown enquiry status")
			return
		}
		opts.Status = &status
	}

	list, err := ctrl.enquiryService.List(opts)
	if err != nil {
		log.Error("Failed to list enquiries", err, nil)
		apperrors.InternalError(c, "Failed to fetch enquiries")
		return
	}

	c.JSON(http.StatusOK, list)
}

// GetByID returns one enquiry with its cart snapshot (Admin only)
// GET /api/v1/admin/enquiries/:id
func (ctrl *EnquiryController) GetByID(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	enquiry, err := ctrl.enquiryService.GetByID(id)
	if err != nil {
		if errors.Is(err, service.ErrEnquiryNotFound) {
			apperrors.NotFound(c, apperrors.EnquiryNotFound, "Enquiry not found")
			return
		}
		log.Error("Failed to fetch enquiry", err, map[string]interface{}{
			"enquiry_id": id,
		})
		apperrors.InternalError(c, "Failed to fetch enquiry")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"enquiry": enquiry,
	})
}

// UpdateStatus moves an enquiry to another status (Admin only)
// PUT /api/v1/admin/enquiries/:id/status
func (ctrl *EnquiryController) UpdateStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateEnquiryStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	if err := ctrl.enquiryService.UpdateStatus(id, req.Status); err != nil {
		switch {
		case errors.Is(err, service.ErrEnquiryInvalidStatus):
			apperrors.BadRequest(c, apperrors.EnquiryInvalidStatus, "Unknown enquiry status")
		case errors.Is(err, service.ErrEnquiryNotFound):
			apperrors.NotFound(c, apperrors.EnquiryNotFound, "Enquiry not found")
		default:
			log.Error("Failed to update enquiry status", err, map[string]interface{}{
				"enquiry_id": id,
			})
			apperrors.InternalError(c, "Failed to update enquiry")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Status updated",
	})
}

// Export streams the filtered enquiries as an XLSX workbook (Admin only)
// GET /api/v1/admin/enquiries/export.xlsx
func (ctrl *EnquiryController) Export(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	opts := service.EnquiryListOptions{}
	if raw := c.Query("status"); raw != "" {
		status := model.EnquiryStatus(raw)
		if !model.ValidEnquiryStatus(status) {
			apperrors.BadRequest(c, apperrors.EnquiryInvalidStatus, "Unknown enquiry status")
			return
		}
		opts.Status = &status
	}

	var buf bytes.Buffer
	if err := ctrl.enquiryService.ExportXLSX(&buf, opts); err != nil {
		log.Error("Failed to export enquiries", err, nil)
		apperrors.InternalError(c, "Failed to export enquiries")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.EnquiryExportFilename(time.Now())))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// Stats returns enquiry counts for the admin dashboard (Admin only)
// GET /api/v1/admin/enquiries/stats
func (ctrl *EnquiryController) Stats(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	total, unread, err := ctrl.enquiryService.Stats()
	if err != nil {
		log.Error("Failed to fetch enquiry stats", err, nil)
		apperrors.InternalError(c, "Failed to fetch stats")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":  total,
		"unread": unread,
	})
}

// Stream upgrades to a WebSocket pushing new-enquiry events (Admin only)
// GET /api/v1/admin/enquiries/stream
func (ctrl *EnquiryController) Stream(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, _ := middleware.GetUserID(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("Failed to upgrade enquiry stream", err, map[string]interface{}{
			"user_id": userID,
		})
		return
	}

	client := notify.NewClient(ctrl.hub, conn, userID)
	ctrl.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
