package repository

import (
	"strings"

	"github.com/mstavrou/epresent-backend/internal/app/model"
	"github.com/mstavrou/epresent-backend/pkg/logger"
	"gorm.io/gorm"
)

type ProductSort string

const (
	ProductSortNewest    ProductSort = "newest"
	ProductSortPriceAsc  ProductSort = "price_asc"
	ProductSortPriceDesc ProductSort = "price_desc"
	ProductSortName      ProductSort = "name"
)

// ProductFilter describes a catalog query. All fields are optional and
// combined with AND semantics. CategoryIDs is matched as set membership;
// callers expand a category to its descendants before querying. Tags match
// when at least one requested tag is present on the product.
type ProductFilter struct {
	Search         string
	CategoryIDs    []uint
	Tags           []string
	MinPrice       *float64
	MaxPrice       *float64
	FeaturedOnly   bool
	NewArrivalOnly bool
	AdminView      bool // include inactive products
	SortBy         ProductSort
	Limit          int
	Offset         int
	IncludeDetail  bool // preload variants and sizes
}

type ProductRepository interface {
	Create(product *model.Product) error
	FindWithFilter(filter ProductFilter) ([]model.Product, int64, error)
	FindByID(id uint) (*model.Product, error)
	FindBySKU(sku string, activeOnly bool) (*model.Product, error)
	Update(product *model.Product) error
	Delete(id uint) error
	CreateImage(image *model.ProductImage) error
	DeleteImage(id uint) error
	SetPrimaryImage(productID, imageID uint) error
	CreateVariant(variant *model.ColorVariant) error
	DeleteVariant(id uint) error
	CreateVariantImage(image *model.VariantImage) error
	SetPrimaryVariantImage(variantID, imageID uint) error
	CreateSize(size *model.SizeVariant) error
	DeleteSize(id uint) error
	Stats() (total int64, active int64, err error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(product *model.Product) error {
	logger.Debug("Creating product in database", map[string]interface{}{
		"sku":         product.SKU,
		"name_en":     product.NameEN,
		"category_id": product.CategoryID,
	})

	if err := r.db.Create(product).Error; err != nil {
		logger.Error("Failed to create product in database", err, map[string]interface{}{
			"sku": product.SKU,
		})
		return err
	}

	logger.Debug("Product created in database", map[string]interface{}{
		"product_id": product.ID,
		"sku":        product.SKU,
	})
	return nil
}

func (r *productRepository) baseQuery(includeDetail bool) *gorm.DB {
	query := r.db.Model(&model.Product{}).
		Preload("Category").
		Preload("Images")
	if includeDetail {
		query = query.
			Preload("Variants").
			Preload("Variants.Images").
			Preload("Sizes")
	}
	return query
}

// applyFilter adds the filter's WHERE conditions to a query. It is applied
// separately for the count and the page fetch.
func (r *productRepository) applyFilter(query *gorm.DB, filter ProductFilter) *gorm.DB {
	if !filter.AdminView {
		query = query.Where("products.is_active = ?", true)
	}

	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where(
			"LOWER(products.name_en) LIKE ? OR LOWER(products.name_el) LIKE ? OR LOWER(products.sku) LIKE ? OR LOWER(products.description_en) LIKE ? OR LOWER(products.description_el) LIKE ?",
			like, like, like, like, like,
		)
	}

	if len(filter.CategoryIDs) > 0 {
		query = query.Where("products.category_id IN ?", filter.CategoryIDs)
	}

	if len(filter.Tags) > 0 {
		// Tags live in a JSON text column; a product matches when any
		// requested tag is present.
		conds := make([]string, 0, len(filter.Tags))
		args := make([]interface{}, 0, len(filter.Tags))
		for _, tag := range filter.Tags {
			conds = append(conds, "products.tags LIKE ?")
			args = append(args, `%"`+tag+`"%`)
		}
		query = query.Where(strings.Join(conds, " OR "), args...)
	}

	if filter.MinPrice != nil {
		query = query.Where("products.price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("products.price <= ?", *filter.MaxPrice)
	}

	if filter.FeaturedOnly {
		query = query.Where("products.is_featured = ?", true)
	}
	if filter.NewArrivalOnly {
		query = query.Where("products.is_new_arrival = ?", true)
	}

	return query
}

func (r *productRepository) FindWithFilter(filter ProductFilter) ([]model.Product, int64, error) {
	logger.Debug("Finding products with filter", map[string]interface{}{
		"search":       filter.Search,
		"category_ids": filter.CategoryIDs,
		"tags":         filter.Tags,
		"sort_by":      filter.SortBy,
		"limit":        filter.Limit,
		"offset":       filter.Offset,
		"admin_view":   filter.AdminView,
	})

	var total int64
	countQuery := r.applyFilter(r.db.Model(&model.Product{}), filter)
	if err := countQuery.Count(&total).Error; err != nil {
		logger.Error("Failed to count products", err, map[string]interface{}{
			"search": filter.Search,
		})
		return nil, 0, err
	}

	query := r.applyFilter(r.baseQuery(filter.IncludeDetail), filter)

	// Stable ordering: every sort breaks ties by id
	switch filter.SortBy {
	case ProductSortPriceAsc:
		query = query.Order("products.price ASC").Order("products.id ASC")
	case ProductSortPriceDesc:
		query = query.Order("products.price DESC").Order("products.id ASC")
	case ProductSortName:
		query = query.Order("products.name_en ASC").Order("products.id ASC")
	case ProductSortNewest:
		fallthrough
	default:
		query = query.Order("products.created_at DESC").Order("products.id DESC")
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var products []model.Product
	if err := query.Find(&products).Error; err != nil {
		logger.Error("Failed to find products with filter", err, map[string]interface{}{
			"search": filter.Search,
		})
		return nil, 0, err
	}

	logger.Debug("Products found with filter", map[string]interface{}{
		"count": len(products),
		"total": total,
	})
	return products, total, nil
}

func (r *productRepository) FindByID(id uint) (*model.Product, error) {
	var product model.Product
	err := r.baseQuery(true).First(&product, id).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find product by ID in database", err, map[string]interface{}{
				"product_id": id,
			})
		}
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindBySKU(sku string, activeOnly bool) (*model.Product, error) {
	query := r.baseQuery(true).Where("products.sku = ?", sku)
	if activeOnly {
		query = query.Where("products.is_active = ?", true)
	}

	var product model.Product
	if err := query.First(&product).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find product by SKU in database", err, map[string]interface{}{
				"sku": sku,
			})
		}
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) Update(product *model.Product) error {
	logger.Debug("Updating product in database", map[string]interface{}{
		"product_id": product.ID,
		"sku":        product.SKU,
	})

	if err := r.db.Save(product).Error; err != nil {
		logger.Error("Failed to update product in database", err, map[string]interface{}{
			"product_id": product.ID,
		})
		return err
	}
	return nil
}

func (r *productRepository) Delete(id uint) error {
	logger.Debug("Deleting product from database", map[string]interface{}{
		"product_id": id,
	})

	if err := r.db.Delete(&model.Product{}, id).Error; err != nil {
		logger.Error("Failed to delete product from database", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}
	return nil
}

func (r *productRepository) CreateImage(image *model.ProductImage) error {
	return r.db.Create(image).Error
}

func (r *productRepository) DeleteImage(id uint) error {
	return r.db.Delete(&model.ProductImage{}, id).Error
}

// SetPrimaryImage flags one image primary and unsets the previous one, so
// at most one image per product carries the flag.
func (r *productRepository) SetPrimaryImage(productID, imageID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.ProductImage{}).
			Where("product_id = ? AND is_primary = ?", productID, true).
			Update("is_primary", false).Error; err != nil {
			return err
		}
		return tx.Model(&model.ProductImage{}).
			Where("id = ? AND product_id = ?", imageID, productID).
			Update("is_primary", true).Error
	})
}

func (r *productRepository) CreateVariant(variant *model.ColorVariant) error {
	return r.db.Create(variant).Error
}

func (r *productRepository) DeleteVariant(id uint) error {
	return r.db.Delete(&model.ColorVariant{}, id).Error
}

func (r *productRepository) CreateVariantImage(image *model.VariantImage) error {
	return r.db.Create(image).Error
}

func (r *productRepository) SetPrimaryVariantImage(variantID, imageID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.VariantImage{}).
			Where("variant_id = ? AND is_primary = ?", variantID, true).
			Update("is_primary", false).Error; err != nil {
			return err
		}
		return tx.Model(&model.VariantImage{}).
			Where("id = ? AND variant_id = ?", imageID, variantID).
			Update("is_primary", true).Error
	})
}

func (r *productRepository) CreateSize(size *model.SizeVariant) error {
	return r.db.Create(size).Error
}

func (r *productRepository) DeleteSize(id uint) error {
	return r.db.Delete(&model.SizeVariant{}, id).Error
}

func (r *productRepository) Stats() (int64, int64, error) {
	var total, active int64
	if err := r.db.Model(&model.Product{}).Count(&total).Error; err != nil {
		return 0, 0, err
	}
	if err := r.db.Model(&model.Product{}).Where("is_active = ?", true).Count(&active).Error; err != nil {
		return 0, 0, err
	}
	return total, active, nil
}
