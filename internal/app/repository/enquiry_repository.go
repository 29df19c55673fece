package repository

import (
	"time"

	"github.com/mstavrou/epresent-backend/internal/app/model"
	"github.com/mstavrou/epresent-backend/pkg/logger"
	"gorm.io/gorm"
)

type EnquiryFilter struct {
	Status *model.EnquiryStatus
	Limit  int
	Offset int
}

type EnquiryRepository interface {
	Create(enquiry *model.Enquiry) error
	FindWithFilter(filter EnquiryFilter) ([]model.Enquiry, int64, error)
	FindByID(id uint) (*model.Enquiry, error)
	UpdateStatus(id uint, status model.EnquiryStatus) error
	PurgeArchivedBefore(cutoff time.Time) (int64, error)
	Stats() (total int64, unread int64, err error)
}

type enquiryRepository struct {
	db *gorm.DB
}

func NewEnquiryRepository(db *gorm.DB) EnquiryRepository {
	return &enquiryRepository{db: db}
}

func (r *enquiryRepository) Create(enquiry *model.Enquiry) error {
	logger.Debug("Creating enquiry in database", map[string]interface{}{
		"email":      enquiry.Email,
		"line_count": len(enquiry.CartSnapshot),
	})

	if err := r.db.Create(enquiry).Error; err != nil {
		logger.Error("Failed to create enquiry in database", err, map[string]interface{}{
			"email": enquiry.Email,
		})
		return err
	}

	logger.Debug("Enquiry created in database", map[string]interface{}{
		"enquiry_id": enquiry.ID,
	})
	return nil
}

func (r *enquiryRepository) FindWithFilter(filter EnquiryFilter) ([]model.Enquiry, int64, error) {
	query := r.db.Model(&model.Enquiry{})
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count enquiries", err)
		return nil, 0, err
	}

	query = query.Order("created_at DESC").Order("id DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var enquiries []model.Enquiry
	if err := query.Find(&enquiries).Error; err != nil {
		logger.Error("Failed to list enquiries", err)
		return nil, 0, err
	}
	return enquiries, total, nil
}

func (r *enquiryRepository) FindByID(id uint) (*model.Enquiry, error) {
	var enquiry model.Enquiry
	if err := r.db.First(&enquiry, id).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find enquiry by ID", err, map[string]interface{}{
				"enquiry_id": id,
			})
		}
		return nil, err
	}
	return &enquiry, nil
}

// UpdateStatus changes only the status column; the cart snapshot is never
// touched after creation.
func (r *enquiryRepository) UpdateStatus(id uint, status model.EnquiryStatus) error {
	result := r.db.Model(&model.Enquiry{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		logger.Error("Failed to update enquiry status", result.Error, map[string]interface{}{
			"enquiry_id": id,
			"status":     status,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// PurgeArchivedBefore hard-deletes archived enquiries created before cutoff
func (r *enquiryRepository) PurgeArchivedBefore(cutoff time.Time) (int64, error) {
	result := r.db.Unscoped().
		Where("status = ? AND created_at < ?", model.EnquiryStatusArchived, cutoff).
		Delete(&model.Enquiry{})
	if result.Error != nil {
		logger.Error("Failed to purge archived enquiries", result.Error, map[string]interface{}{
			"cutoff": cutoff,
		})
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *enquiryRepository) Stats() (int64, int64, error) {
	var total, unread int64
	if err := r.db.Model(&model.Enquiry{}).Count(&total).Error; err != nil {
		return 0, 0, err
	}
	if err := r.db.Model(&model.Enquiry{}).
		Where("status = ?", model.EnquiryStatusNew).
		Count(&unread).Error; err != nil {
		return 0, 0, err
	}
	return total, unread, nil
}
