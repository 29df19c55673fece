package service

import (
	"context"
	"errors"
	"sort"

	"github.com/mstavrou/epresent-backend/internal/app/model"
	"github.com/mstavrou/epresent-backend/internal/app/repository"
	"github.com/mstavrou/epresent-backend/internal/cache"
	"github.com/mstavrou/epresent-backend/pkg/logger"
	"github.com/mstavrou/epresent-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrCategoryNotFound   = errors.New("category not found")
	ErrCategorySlugExists = errors.New("a category with this slug already exists")
	ErrCategorySelfParent = errors.New("category cannot be its own parent")
)

type CategoryMutation struct {
	Slug        *string
	NameEN      *string
	NameEL      *string
	ParentID    *uint
	ClearParent bool
	SortOrder   *int
}

type CategoryService interface {
	List() ([]model.Category, error)
	BuildTree(ctx context.Context) ([]*model.CategoryNode, error)
	GetByID(id uint) (*model.Category, error)
	GetBySlug(slug string) (*model.Category, error)
	Ancestors(id uint) ([]model.Category, error)
	DescendantIDs(id uint) ([]uint, error)
	Create(category *model.Category) (*model.Category, error)
	Update(id uint, input CategoryMutation) (*model.Category, error)
	Delete(id uint) error
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
	catalogCache *cache.CatalogCache
}

func NewCategoryService(categoryRepo repository.CategoryRepository, catalogCache *cache.CatalogCache) CategoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
		catalogCache: catalogCache,
	}
}

// List returns every category as a flat slice, ordered for display.
func (s *categoryService) List() ([]model.Category, error) {
	return s.categoryRepo.FindAll()
}

// BuildTree assembles the category forest from the flat list. Siblings are
// ordered by sort order then English name. A category whose parent id does
// not resolve to a loaded category is promoted to a root rather than
// dropped.
func (s *categoryService) BuildTree(ctx context.Context) ([]*model.CategoryNode, error) {
	if tree, ok := s.catalogCache.GetCategoryTree(ctx); ok {
		return tree, nil
	}

	categories, err := s.categoryRepo.FindAll()
	if err != nil {
		logger.Error("Failed to load categories for tree", err)
		return nil, err
	}

	nodes := make(map[uint]*model.CategoryNode, len(categories))
	for i := range categories {
		nodes[categories[i].ID] = &model.CategoryNode{
			Category: categories[i],
			Children: []*model.CategoryNode{},
		}
	}

	roots := []*model.CategoryNode{}
	for _, category := range categories {
		node := nodes[category.ID]
		if node.ParentID == nil {
			roots = append(roots, node)
			continue
		}
		parent, ok := nodes[*node.ParentID]
		if !ok || parent == node {
			// Dangling or self-referencing parent. Keep the category
			// reachable by promoting it to a root.
			logger.Warn("Category has unresolvable parent, promoting to root", map[string]interface{}{
				"category_id": node.ID,
				"parent_id":   *node.ParentID,
			})
			roots = append(roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}

	sortNodes(roots)
	for _, node := range nodes {
		sortNodes(node.Children)
	}

	s.catalogCache.SetCategoryTree(ctx, roots)
	return roots, nil
}

func sortNodes(nodes []*model.CategoryNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].SortOrder != nodes[j].SortOrder {
			return nodes[i].SortOrder < nodes[j].SortOrder
		}
		return nodes[i].NameEN < nodes[j].NameEN
	})
}

func (s *categoryService) GetByID(id uint) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

func (s *categoryService) GetBySlug(slug string) (*model.Category, error) {
	category, err := s.categoryRepo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

// Ancestors returns the chain from the root-most ancestor down to the
// immediate parent. The target itself is excluded. The walk tracks visited
// ids and stops at the first repeat, so a cyclic parent chain terminates.
func (s *categoryService) Ancestors(id uint) ([]model.Category, error) {
	categories, err := s.categoryRepo.FindAll()
	if err != nil {
		return nil, err
	}

	byID := make(map[uint]*model.Category, len(categories))
	for i := range categories {
		byID[categories[i].ID] = &categories[i]
	}

	target, ok := byID[id]
	if !ok {
		return nil, ErrCategoryNotFound
	}

	visited := map[uint]bool{id: true}
	var chain []model.Category
	for current := target; current.ParentID != nil; {
		parent, ok := byID[*current.ParentID]
		if !ok || visited[parent.ID] {
			break
		}
		visited[parent.ID] = true
		chain = append(chain, *parent)
		current = parent
	}

	// Walked child to parent; callers want root first.
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

// DescendantIDs returns the ids of the category's whole subtree, including
// the category itself. An unknown id yields an empty slice, not an error,
// so a filter on a deleted category matches nothing.
func (s *categoryService) DescendantIDs(id uint) ([]uint, error) {
	categories, err := s.categoryRepo.FindAll()
	if err != nil {
		return nil, err
	}

	children := make(map[uint][]uint, len(categories))
	exists := make(map[uint]bool, len(categories))
	for i := range categories {
		exists[categories[i].ID] = true
		if categories[i].ParentID != nil {
			pid := *categories[i].ParentID
			children[pid] = append(children[pid], categories[i].ID)
		}
	}

	if !exists[id] {
		return []uint{}, nil
	}

	var ids []uint
	visited := make(map[uint]bool)
	stack := []uint{id}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[current] {
			continue
		}
		visited[current] = true
		ids = append(ids, current)
		stack = append(stack, children[current]...)
	}
	return ids, nil
}

func (s *categoryService) Create(category *model.Category) (*model.Category, error) {
	if category.Slug == "" {
		category.Slug = util.Slugify(category.NameEN)
	}

	if _, err := s.categoryRepo.FindBySlug(category.Slug); err == nil {
		return nil, ErrCategorySlugExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if category.ParentID != nil {
		if _, err := s.categoryRepo.FindByID(*category.ParentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCategoryNotFound
			}
			return nil, err
		}
	}

	if err := s.categoryRepo.Create(category); err != nil {
		return nil, err
	}

	s.catalogCache.InvalidateCategoryTree(context.Background())
	logger.Info("Category created", map[string]interface{}{
		"category_id": category.ID,
		"slug":        category.Slug,
	})
	return category, nil
}

func (s *categoryService) Update(id uint, input CategoryMutation) (*model.Category, error) {
	category, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if input.Slug != nil && *input.Slug != category.Slug {
		existing, err := s.categoryRepo.FindBySlug(*input.Slug)
		if err == nil && existing.ID != id {
			return nil, ErrCategorySlugExists
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		category.Slug = *input.Slug
	}
	if input.NameEN != nil {
		category.NameEN = *input.NameEN
	}
	if input.NameEL != nil {
		category.NameEL = *input.NameEL
	}
	if input.ClearParent {
		category.ParentID = nil
	} else if input.ParentID != nil {
		if *input.ParentID == id {
			return nil, ErrCategorySelfParent
		}
		if _, err := s.categoryRepo.FindByID(*input.ParentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCategoryNotFound
			}
			return nil, err
		}
		category.ParentID = input.ParentID
	}
	if input.SortOrder != nil {
		category.SortOrder = *input.SortOrder
	}

	if err := s.categoryRepo.Update(category); err != nil {
		return nil, err
	}

	s.catalogCache.InvalidateCategoryTree(context.Background())
	return category, nil
}

func (s *categoryService) Delete(id uint) error {
	if _, err := s.GetByID(id); err != nil {
		return err
	}

	if err := s.categoryRepo.Delete(id); err != nil {
		return err
	}

	s.catalogCache.InvalidateCategoryTree(context.Background())
	logger.Info("Category deleted", map[string]interface{}{
		"category_id": id,
	})
	return nil
}
