package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

type EnquiryStatus string

const (
	EnquiryStatusNew      EnquiryStatus = "new"
	EnquiryStatusRead     EnquiryStatus = "read"
	EnquiryStatusReplied  EnquiryStatus = "replied"
	EnquiryStatusArchived EnquiryStatus = "archived"
)

// ValidEnquiryStatus reports whether s is a known status value. Transitions
// between statuses are deliberately unconstrained; admins may move an
// enquiry to any status at any time, including re-opening archived ones.
func ValidEnquiryStatus(s EnquiryStatus) bool {
	switch s {
	case EnquiryStatusNew, EnquiryStatusRead, EnquiryStatusReplied, EnquiryStatusArchived:
		return true
	}
	return false
}

// EnquiryLine is one denormalized row of the cart snapshot embedded in an
// enquiry. It carries both identifiers and resolved localized labels so the
// snapshot stays meaningful after catalog edits or variant deletion.
type EnquiryLine struct {
	ProductID      uint    `json:"product_id"`
	SKU            string  `json:"sku"`
	NameEN         string  `json:"name_en"`
	NameEL         string  `json:"name_el"`
	Qty            int     `json:"qty"`
	Price          float64 `json:"price"`
	VariantID      *uint   `json:"variant_id,omitempty"`
	VariantColorEN string  `json:"variant_color_en,omitempty"`
	VariantColorEL string  `json:"variant_color_el,omitempty"`
	SizeID         *uint   `json:"size_id,omitempty"`
	SizeLabelEN    string  `json:"size_label_en,omitempty"`
	SizeLabelEL    string  `json:"size_label_el,omitempty"`
}

// EnquiryLines stores the snapshot as a JSON text column
type EnquiryLines []EnquiryLine

func (l EnquiryLines) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal([]EnquiryLine(l))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (l *EnquiryLines) Scan(value interface{}) error {
	if value == nil {
		*l = EnquiryLines{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("unsupported type for EnquiryLines")
	}

	if len(data) == 0 {
		*l = EnquiryLines{}
		return nil
	}
	return json.Unmarshal(data, (*[]EnquiryLine)(l))
}

// Enquiry is a wholesale enquiry filed from the storefront. CartSnapshot is
// immutable after creation; it is never re-derived from live catalog data.
type Enquiry struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Name         string         `gorm:"not null" json:"name"`
	Email        string         `gorm:"not null" json:"email"`
	Company      *string        `json:"company"`
	Phone        *string        `json:"phone"`
	Message      *string        `gorm:"type:text" json:"message"`
	CartSnapshot EnquiryLines   `gorm:"type:text" json:"cart_snapshot"`
	Status       EnquiryStatus  `gorm:"type:varchar(20);default:'new';index" json:"status"`
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Enquiry) TableName() string {
	return "enquiries"
}
