package model

import (
	"time"

	"gorm.io/gorm"
)

type VariantType string

const (
	VariantTypeSwatch VariantType = "swatch"
	VariantTypeImage  VariantType = "image"
)

// Product is a wholesale catalog entry. MOQ is the minimum order quantity;
// selection lines are never allowed below it.
type Product struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	SKU           string         `gorm:"uniqueIndex;not null" json:"sku"`
	NameEN        string         `gorm:"not null" json:"name_en"`
	NameEL        string         `gorm:"not null" json:"name_el"`
	DescriptionEN *string        `gorm:"type:text" json:"description_en"`
	DescriptionEL *string        `gorm:"type:text" json:"description_el"`
	Price         float64        `gorm:"not null" json:"price"`
	MOQ           int            `gorm:"not null;default:1" json:"moq"`
	CategoryID    *uint          `gorm:"index" json:"category_id"`
	Tags          StringList     `gorm:"type:text" json:"tags"`
	IsFeatured    bool           `gorm:"default:false" json:"is_featured"`
	IsNewArrival  bool           `gorm:"default:false" json:"is_new_arrival"`
	IsActive      bool           `gorm:"default:true" json:"is_active"`
	SortOrder     int            `gorm:"default:0" json:"sort_order"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Category *Category      `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Images   []ProductImage `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"images,omitempty"`
	Variants []ColorVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"variants,omitempty"`
	Sizes    []SizeVariant  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"sizes,omitempty"`
}

func (Product) TableName() string {
	return "products"
}

// Name returns the product name for the requested locale
func (p *Product) Name(locale string) string {
	if locale == LocaleEL {
		return p.NameEL
	}
	return p.NameEN
}

// PrimaryImage returns the image flagged primary, or the first by sort
// order when none is flagged. Nil when the product has no images.
func (p *Product) PrimaryImage() *ProductImage {
	var fallback *ProductImage
	for i := range p.Images {
		img := &p.Images[i]
		if img.IsPrimary {
			return img
		}
		if fallback == nil || img.SortOrder < fallback.SortOrder {
			fallback = img
		}
	}
	return fallback
}

type ProductImage struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	ProductID   uint      `gorm:"index;not null" json:"product_id"`
	StoragePath string    `gorm:"not null" json:"storage_path"`
	AltEN       *string   `json:"alt_en"`
	AltEL       *string   `json:"alt_el"`
	SortOrder   int       `gorm:"default:0" json:"sort_order"`
	IsPrimary   bool      `gorm:"default:false" json:"is_primary"`
	CreatedAt   time.Time `json:"created_at"`
}

func (ProductImage) TableName() string {
	return "product_images"
}

// ColorVariant is a color option of a product. Image variants are expected
// to carry at least one VariantImage; when they do not, display falls back
// to the swatch rendering.
type ColorVariant struct {
	ID          uint        `gorm:"primarykey" json:"id"`
	ProductID   uint        `gorm:"index;not null" json:"product_id"`
	SKUSuffix   *string     `json:"sku_suffix"`
	ColorNameEN string      `gorm:"not null" json:"color_name_en"`
	ColorNameEL string      `gorm:"not null" json:"color_name_el"`
	HexColor    *string     `json:"hex_color"`
	VariantType VariantType `gorm:"type:varchar(20);default:'swatch'" json:"variant_type"`
	SortOrder   int         `gorm:"default:0" json:"sort_order"`
	CreatedAt   time.Time   `json:"created_at"`

	Images []VariantImage `gorm:"foreignKey:VariantID;constraint:OnDelete:CASCADE" json:"images,omitempty"`
}

func (ColorVariant) TableName() string {
	return "color_variants"
}

// ColorName returns the color name for the requested locale
func (v *ColorVariant) ColorName(locale string) string {
	if locale == LocaleEL {
		return v.ColorNameEL
	}
	return v.ColorNameEN
}

// PrimaryImage returns the variant image flagged primary, or the first by
// sort order. Nil for swatch-only variants.
func (v *ColorVariant) PrimaryImage() *VariantImage {
	var fallback *VariantImage
	for i := range v.Images {
		img := &v.Images[i]
		if img.IsPrimary {
			return img
		}
		if fallback == nil || img.SortOrder < fallback.SortOrder {
			fallback = img
		}
	}
	return fallback
}

type VariantImage struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	VariantID   uint      `gorm:"index;not null" json:"variant_id"`
	StoragePath string    `gorm:"not null" json:"storage_path"`
	AltEN       *string   `json:"alt_en"`
	AltEL       *string   `json:"alt_el"`
	SortOrder   int       `gorm:"default:0" json:"sort_order"`
	IsPrimary   bool      `gorm:"default:false" json:"is_primary"`
	CreatedAt   time.Time `json:"created_at"`
}

func (VariantImage) TableName() string {
	return "variant_images"
}

type SizeVariant struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	ProductID uint      `gorm:"index;not null" json:"product_id"`
	LabelEN   string    `gorm:"not null" json:"label_en"`
	LabelEL   string    `gorm:"not null" json:"label_el"`
	SKUSuffix *string   `json:"sku_suffix"`
	SortOrder int       `gorm:"default:0" json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
}

func (SizeVariant) TableName() string {
	return "size_variants"
}

// Label returns the size label for the requested locale
func (s *SizeVariant) Label(locale string) string {
	if locale == LocaleEL {
		return s.LabelEL
	}
	return s.LabelEN
}
