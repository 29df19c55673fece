package service

import (
	"errors"
	"fmt"
	"io"
	"net/mail"
	"strings"
	"time"

	"github.com/mstavrou/epresent-backend/internal/app/model"
	"github.com/mstavrou/epresent-backend/internal/app/repository"
	"github.com/mstavrou/epresent-backend/internal/export"
	"github.com/mstavrou/epresent-backend/internal/notify"
	"github.com/mstavrou/epresent-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrEnquiryNotFound      = errors.New("enquiry not found")
	ErrEnquiryInvalidStatus = errors.New("invalid enquiry status")
)

// EnquiryPageSize is the admin listing page size
const EnquiryPageSize = 20

// EnquiryValidationError carries per-field messages for a rejected intake.
// The whole submission is validated before any error is returned, so Fields
// names every problem at once.
type EnquiryValidationError struct {
	Fields map[string]string
}

func (e *EnquiryValidationError) Error() string {
	return fmt.Sprintf("enquiry validation failed: %d invalid fields", len(e.Fields))
}

// EnquiryInput is a storefront enquiry submission
type EnquiryInput struct {
	Name    string              `json:"name"`
	Email   string              `json:"email"`
	Company *string             `json:"company"`
	Phone   *string             `json:"phone"`
	Message *string             `json:"message"`
	Lines   []model.EnquiryLine `json:"cart_snapshot"`
}

type EnquiryListOptions struct {
	Status *model.EnquiryStatus
	Page   int
}

type EnquiryList struct {
	Items      []model.Enquiry `json:"items"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	TotalPages int             `json:"total_pages"`
}

type EnquiryService interface {
	Submit(input EnquiryInput) (*model.Enquiry, error)
	List(opts EnquiryListOptions) (*EnquiryList, error)
	GetByID(id uint) (*model.Enquiry, error)
	UpdateStatus(id uint, status model.EnquiryStatus) error
	ExportXLSX(w io.Writer, opts EnquiryListOptions) error
	PurgeArchived(retentionDays int) (int64, error)
	Stats() (total int64, unread int64, err error)
}

type enquiryService struct {
	enquiryRepo repository.EnquiryRepository
	hub         *notify.Hub
}

// NewEnquiryService creates the enquiry service. hub may be nil when no
// live notification stream is wanted.
func NewEnquiryService(enquiryRepo repository.EnquiryRepository, hub *notify.Hub) EnquiryService {
	return &enquiryService{
		enquiryRepo: enquiryRepo,
		hub:         hub,
	}
}

// Submit validates and persists a storefront enquiry. The cart snapshot is
// stored exactly as validated and never changes afterwards.
func (s *enquiryService) Submit(input EnquiryInput) (*model.Enquiry, error) {
	if err := validateEnquiry(&input); err != nil {
		return nil, err
	}

	enquiry := &model.Enquiry{
		Name:         strings.TrimSpace(input.Name),
		Email:        strings.TrimSpace(input.Email),
		Company:      trimOptional(input.Company),
		Phone:        trimOptional(input.Phone),
		Message:      trimOptional(input.Message),
		CartSnapshot: model.EnquiryLines(input.Lines),
		Status:       model.EnquiryStatusNew,
	}

	if err := s.enquiryRepo.Create(enquiry); err != nil {
		return nil, err
	}

	logger.Info("Enquiry submitted", map[string]interface{}{
		"enquiry_id": enquiry.ID,
		"lines":      len(enquiry.CartSnapshot),
	})

	if s.hub != nil {
		s.hub.Publish(notify.Event{
			Type: notify.EventEnquiryCreated,
			Payload: map[string]interface{}{
				"id":         enquiry.ID,
				"name":       enquiry.Name,
				"email":      enquiry.Email,
				"line_count": len(enquiry.CartSnapshot),
				"created_at": enquiry.CreatedAt,
			},
		})
	}
	return enquiry, nil
}

// validateEnquiry checks contact fields and every snapshot row, collecting
// all failures into a single error.
func validateEnquiry(input *EnquiryInput) error {
	fields := make(map[string]string)

	if len(strings.TrimSpace(input.Name)) < 2 {
		fields["name"] = "Name must be at least 2 characters"
	}
	email := strings.TrimSpace(input.Email)
	if email == "" {
		fields["email"] = "Email is required"
	} else if _, err := mail.ParseAddress(email); err != nil {
		fields["email"] = "Email address is not valid"
	}

	// An empty snapshot is a valid enquiry; only present rows are checked.
	for i, line := range input.Lines {
		prefix := fmt.Sprintf("cart_snapshot[%d]", i)
		if line.ProductID == 0 {
			fields[prefix+".product_id"] = "Product id is required"
		}
		if strings.TrimSpace(line.SKU) == "" {
			fields[prefix+".sku"] = "SKU is required"
		}
		if strings.TrimSpace(line.NameEN) == "" || strings.TrimSpace(line.NameEL) == "" {
			fields[prefix+".name"] = "Product name is required in both languages"
		}
		if line.Qty <= 0 {
			fields[prefix+".qty"] = "Quantity must be a positive integer"
		}
		if line.Price <= 0 {
			fields[prefix+".price"] = "Price must be positive"
		}
	}

	if len(fields) > 0 {
		return &EnquiryValidationError{Fields: fields}
	}
	return nil
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func (s *enquiryService) List(opts EnquiryListOptions) (*EnquiryList, error) {
	page := opts.Page
	if page < 1 {
		page = 1
	}

	items, total, err := s.enquiryRepo.FindWithFilter(repository.EnquiryFilter{
		Status: opts.Status,
		Limit:  EnquiryPageSize,
		Offset: (page - 1) * EnquiryPageSize,
	})
	if err != nil {
		return nil, err
	}

	totalPages := int((total + EnquiryPageSize - 1) / EnquiryPageSize)
	return &EnquiryList{
		Items:      items,
		Total:      total,
		Page:       page,
		TotalPages: totalPages,
	}, nil
}

func (s *enquiryService) GetByID(id uint) (*model.Enquiry, error) {
	enquiry, err := s.enquiryRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEnquiryNotFound
		}
		return nil, err
	}
	return enquiry, nil
}

// UpdateStatus moves an enquiry to any valid status. Transitions are not
// restricted; archived enquiries may be re-opened.
func (s *enquiryService) UpdateStatus(id uint, status model.EnquiryStatus) error {
	if !model.ValidEnquiryStatus(status) {
		return ErrEnquiryInvalidStatus
	}

	if err := s.enquiryRepo.UpdateStatus(id, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEnquiryNotFound
		}
		return err
	}
	return nil
}

// ExportXLSX writes the filtered enquiries as a workbook, one row per
// snapshot line.
func (s *enquiryService) ExportXLSX(w io.Writer, opts EnquiryListOptions) error {
	items, _, err := s.enquiryRepo.FindWithFilter(repository.EnquiryFilter{
		Status: opts.Status,
	})
	if err != nil {
		return err
	}
	return export.WriteEnquiriesXLSX(w, items)
}

// PurgeArchived hard-deletes archived enquiries older than the retention
// window and returns how many were removed.
func (s *enquiryService) PurgeArchived(retentionDays int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	return s.enquiryRepo.PurgeArchivedBefore(cutoff)
}

func (s *enquiryService) Stats() (int64, int64, error) {
	return s.enquiryRepo.Stats()
}
