package service

import (
	"errors"

	"github.com/mstavrou/epresent-backend/internal/app/model"
	"github.com/mstavrou/epresent-backend/internal/app/repository"
	"github.com/mstavrou/epresent-backend/pkg/logger"
	"github.com/mstavrou/epresent-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrSKUExists       = errors.New("a product with this SKU already exists")
	ErrInvalidSKU      = errors.New("SKU may only contain letters, digits and hyphens")
)

// Page sizes per listing surface
const (
	PublicPageSize   = 24
	AdminPageSize    = 30
	CarouselPageSize = 8
)

// ProductQuery is the public/admin catalog query. CategoryID is expanded to
// the whole subtree before filtering. Page starts at 1.
type ProductQuery struct {
	Search     string
	CategoryID *uint
	Tags       []string
	MinPrice   *float64
	MaxPrice   *float64
	SortBy     repository.ProductSort
	Page       int
	PageSize   int
	AdminView  bool
}

// ProductPage is one page of catalog results. TotalPages is derived from
// Total and the page size; a page past the end yields an empty Items slice
// with Total and TotalPages still reflecting the full result set.
type ProductPage struct {
	Items      []model.Product `json:"items"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	TotalPages int             `json:"total_pages"`
}

type ProductMutation struct {
	SKU           *string
	NameEN        *string
	NameEL        *string
	DescriptionEN *string
	DescriptionEL *string
	Price         *float64
	MOQ           *int
	CategoryID    *uint
	ClearCategory bool
	Tags          *model.StringList
	IsFeatured    *bool
	IsNewArrival  *bool
	IsActive      *bool
	SortOrder     *int
}

type ProductService interface {
	Query(query ProductQuery) (*ProductPage, error)
	GetByID(id uint, adminView bool) (*model.Product, error)
	GetBySKU(sku string, adminView bool) (*model.Product, error)
	Featured() ([]model.Product, error)
	NewArrivals() ([]model.Product, error)
	Create(product *model.Product) (*model.Product, error)
	Update(id uint, input ProductMutation) (*model.Product, error)
	Delete(id uint) error
	AddImage(image *model.ProductImage) error
	RemoveImage(id uint) error
	SetPrimaryImage(productID, imageID uint) error
	AddVariant(variant *model.ColorVariant) error
	RemoveVariant(id uint) error
	AddVariantImage(image *model.VariantImage) error
	SetPrimaryVariantImage(variantID, imageID uint) error
	AddSize(size *model.SizeVariant) error
	RemoveSize(id uint) error
	Stats() (total int64, active int64, err error)
}

type productService struct {
	productRepo     repository.ProductRepository
	categoryService CategoryService
}

func NewProductService(productRepo repository.ProductRepository, categoryService CategoryService) ProductService {
	return &productService{
		productRepo:     productRepo,
		categoryService: categoryService,
	}
}

// Query runs a catalog query. All filters combine with AND semantics; a
// category filter matches the category and its whole subtree.
func (s *productService) Query(query ProductQuery) (*ProductPage, error) {
	page := query.Page
	if page < 1 {
		page = 1
	}
	pageSize := query.PageSize
	if pageSize <= 0 {
		pageSize = PublicPageSize
		if query.AdminView {
			pageSize = AdminPageSize
		}
	}

	filter := repository.ProductFilter{
		Search:    query.Search,
		Tags:      query.Tags,
		MinPrice:  query.MinPrice,
		MaxPrice:  query.MaxPrice,
		AdminView: query.AdminView,
		SortBy:    query.SortBy,
		Limit:     pageSize,
		Offset:    (page - 1) * pageSize,
	}

	if query.CategoryID != nil {
		ids, err := s.categoryService.DescendantIDs(*query.CategoryID)
		if err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			// Unknown category matches nothing.
			return &ProductPage{Items: []model.Product{}, Page: page}, nil
		}
		filter.CategoryIDs = ids
	}

	items, total, err := s.productRepo.FindWithFilter(filter)
	if err != nil {
		logger.Error("Failed to query products", err)
		return nil, err
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return &ProductPage{
		Items:      items,
		Total:      total,
		Page:       page,
		TotalPages: totalPages,
	}, nil
}

func (s *productService) GetByID(id uint, adminView bool) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if !adminView && !product.IsActive {
		return nil, ErrProductNotFound
	}
	return product, nil
}

func (s *productService) GetBySKU(sku string, adminView bool) (*model.Product, error) {
	product, err := s.productRepo.FindBySKU(util.NormalizeSKU(sku), !adminView)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

// Featured returns the storefront carousel of featured products.
func (s *productService) Featured() ([]model.Product, error) {
	items, _, err := s.productRepo.FindWithFilter(repository.ProductFilter{
		FeaturedOnly: true,
		SortBy:       repository.ProductSortNewest,
		Limit:        CarouselPageSize,
	})
	return items, err
}

// NewArrivals returns the storefront carousel of recently added products.
func (s *productService) NewArrivals() ([]model.Product, error) {
	items, _, err := s.productRepo.FindWithFilter(repository.ProductFilter{
		NewArrivalOnly: true,
		SortBy:         repository.ProductSortNewest,
		Limit:          CarouselPageSize,
	})
	return items, err
}

func (s *productService) Create(product *model.Product) (*model.Product, error) {
	product.SKU = util.NormalizeSKU(product.SKU)
	if !util.ValidSKU(product.SKU) {
		return nil, ErrInvalidSKU
	}

	if _, err := s.productRepo.FindBySKU(product.SKU, false); err == nil {
		return nil, ErrSKUExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if product.MOQ < 1 {
		product.MOQ = 1
	}

	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}

	logger.Info("Product created", map[string]interface{}{
		"product_id": product.ID,
		"sku":        product.SKU,
	})
	return product, nil
}

func (s *productService) Update(id uint, input ProductMutation) (*model.Product, error) {
	product, err := s.GetByID(id, true)
	if err != nil {
		return nil, err
	}

	if input.SKU != nil {
		sku := util.NormalizeSKU(*input.SKU)
		if !util.ValidSKU(sku) {
			return nil, ErrInvalidSKU
		}
		if sku != product.SKU {
			existing, err := s.productRepo.FindBySKU(sku, false)
			if err == nil && existing.ID != id {
				return nil, ErrSKUExists
			}
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
			product.SKU = sku
		}
	}
	if input.NameEN != nil {
		product.NameEN = *input.NameEN
	}
	if input.NameEL != nil {
		product.NameEL = *input.NameEL
	}
	if input.DescriptionEN != nil {
		product.DescriptionEN = input.DescriptionEN
	}
	if input.DescriptionEL != nil {
		product.DescriptionEL = input.DescriptionEL
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.MOQ != nil {
		moq := *input.MOQ
		if moq < 1 {
			moq = 1
		}
		product.MOQ = moq
	}
	if input.ClearCategory {
		product.CategoryID = nil
	} else if input.CategoryID != nil {
		product.CategoryID = input.CategoryID
	}
	if input.Tags != nil {
		product.Tags = *input.Tags
	}
	if input.IsFeatured != nil {
		product.IsFeatured = *input.IsFeatured
	}
	if input.IsNewArrival != nil {
		product.IsNewArrival = *input.IsNewArrival
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	if input.SortOrder != nil {
		product.SortOrder = *input.SortOrder
	}

	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *productService) Delete(id uint) error {
	if _, err := s.GetByID(id, true); err != nil {
		return err
	}
	return s.productRepo.Delete(id)
}

func (s *productService) AddImage(image *model.ProductImage) error {
	if _, err := s.GetByID(image.ProductID, true); err != nil {
		return err
	}
	return s.productRepo.CreateImage(image)
}

func (s *productService) RemoveImage(id uint) error {
	return s.productRepo.DeleteImage(id)
}

func (s *productService) SetPrimaryImage(productID, imageID uint) error {
	return s.productRepo.SetPrimaryImage(productID, imageID)
}

func (s *productService) AddVariant(variant *model.ColorVariant) error {
	if _, err := s.GetByID(variant.ProductID, true); err != nil {
		return err
	}
	return s.productRepo.CreateVariant(variant)
}

func (s *productService) RemoveVariant(id uint) error {
	return s.productRepo.DeleteVariant(id)
}

func (s *productService) AddVariantImage(image *model.VariantImage) error {
	return s.productRepo.CreateVariantImage(image)
}

func (s *productService) SetPrimaryVariantImage(variantID, imageID uint) error {
	return s.productRepo.SetPrimaryVariantImage(variantID, imageID)
}

func (s *productService) AddSize(size *model.SizeVariant) error {
	if _, err := s.GetByID(size.ProductID, true); err != nil {
		return err
	}
	return s.productRepo.CreateSize(size)
}

func (s *productService) RemoveSize(id uint) error {
	return s.productRepo.DeleteSize(id)
}

func (s *productService) Stats() (int64, int64, error) {
	return s.productRepo.Stats()
}
