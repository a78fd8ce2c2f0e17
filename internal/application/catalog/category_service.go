package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

// CategoryService handles category browsing and admin management
type CategoryService struct {
	categoryRepo catalog.CategoryRepository
	productRepo  catalog.ProductRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo catalog.CategoryRepository, productRepo catalog.ProductRepository) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
	}
}

// Create creates a new category
func (s *CategoryService) Create(ctx context.Context, req CreateCategoryRequest) (*CategoryResponse, error) {
	category, err := catalog.NewCategory(req.Name, req.Description)
	if err != nil {
		return nil, err
	}

	if req.ParentID != nil {
		if err := s.requireCategory(ctx, *req.ParentID); err != nil {
			return nil, err
		}
		if err := category.SetParent(req.ParentID); err != nil {
			return nil, err
		}
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}

	resp := ToCategoryResponse(category)
	return &resp, nil
}

// GetByID retrieves a category by ID
func (s *CategoryService) GetByID(ctx context.Context, categoryID uuid.UUID) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	resp := ToCategoryResponse(category)
	return &resp, nil
}

// List returns all categories with their product counts, for navigation
func (s *CategoryService) List(ctx context.Context) ([]CategoryResponse, error) {
	withCounts, err := s.categoryRepo.ListWithProductCounts(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]CategoryResponse, len(withCounts))
	for i := range withCounts {
		resp := ToCategoryResponse(&withCounts[i].Category)
		resp.ProductCount = withCounts[i].ProductCount
		items[i] = resp
	}
	return items, nil
}

// Update applies partial changes to a category
func (s *CategoryService) Update(ctx context.Context, categoryID uuid.UUID, req UpdateCategoryRequest) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil || req.Description != nil {
		name := category.Name
		if req.Name != nil {
			name = *req.Name
		}
		description := category.Description
		if req.Description != nil {
			description = *req.Description
		}
		if err := category.Update(name, description); err != nil {
			return nil, err
		}
	}

	if req.ParentID != nil {
		if err := s.requireCategory(ctx, *req.ParentID); err != nil {
			return nil, err
		}
		if err := category.SetParent(req.ParentID); err != nil {
			return nil, err
		}
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}

	resp := ToCategoryResponse(category)
	return &resp, nil
}

// Delete removes a category. Categories still holding products or
// child categories cannot be removed.
func (s *CategoryService) Delete(ctx context.Context, categoryID uuid.UUID) error {
	if _, err := s.categoryRepo.FindByID(ctx, categoryID); err != nil {
		return err
	}

	children, err := s.categoryRepo.FindChildren(ctx, categoryID)
	if err != nil {
		return err
	}
	if len(children) > 0 {
		return shared.NewDomainError("CATEGORY_NOT_EMPTY", "Category has child categories")
	}

	filter := shared.DefaultFilter()
	filter.PageSize = 1
	products, err := s.productRepo.FindByCategory(ctx, categoryID, filter)
	if err != nil {
		return err
	}
	if len(products) > 0 {
		return shared.NewDomainError("CATEGORY_NOT_EMPTY", "Category still has products")
	}

	return s.categoryRepo.Delete(ctx, categoryID)
}

func (s *CategoryService) requireCategory(ctx context.Context, categoryID uuid.UUID) error {
	if _, err := s.categoryRepo.FindByID(ctx, categoryID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("INVALID_CATEGORY", "Category not found")
		}
		return err
	}
	return nil
}
