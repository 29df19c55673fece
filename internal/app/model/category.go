package model

import (
	"time"
)

// Category is a node in the catalog's category forest. ParentID points at
// another category or is nil for roots; deleting a category never cascades,
// children and products are re-parented to nothing by the DB.
type Category struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Slug      string    `gorm:"uniqueIndex;not null" json:"slug"`
	NameEN    string    `gorm:"not null" json:"name_en"`
	NameEL    string    `gorm:"not null" json:"name_el"`
	ParentID  *uint     `gorm:"index" json:"parent_id"`
	SortOrder int       `gorm:"default:0" json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`

	// Relationships. Deleting a category nulls the references on its
	// children and products, it never cascades.
	Children []Category `gorm:"foreignKey:ParentID;constraint:OnDelete:SET NULL" json:"-"`
	Products []Product  `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"-"`
}

func (Category) TableName() string {
	return "categories"
}

// Name returns the category name for the requested locale
func (c *Category) Name(locale string) string {
	if locale == LocaleEL {
		return c.NameEL
	}
	return c.NameEN
}

// CategoryNode is a category plus its ordered children. Trees are built
// fresh from the flat category list on each request, never persisted.
type CategoryNode struct {
	Category
	Children []*CategoryNode `json:"children"`
}

// Supported storefront locales
const (
	LocaleEN = "en"
	LocaleEL = "el"
)
