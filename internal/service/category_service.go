package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"inkwell/internal/cache"
	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/storage"
	"inkwell/internal/validation"
)

type CategoryService struct {
	categoryRepo repository.CategoryRepository
	images       *storage.ImageStore
}

type CreateCategoryInput struct {
	Name string
	Slug string
}

func NewCategoryService(categoryRepo repository.CategoryRepository, images *storage.ImageStore) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		images:       images,
	}
}

func (s *CategoryService) ListCategories(ctx context.Context) ([]*models.Category, error) {
	return s.categoryRepo.List(ctx)
}

func (s *CategoryService) CreateCategory(ctx context.Context, in CreateCategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, models.NewValidationError("Category name is required")
	}
	if utf8.RuneCountInString(name) > 100 {
		return nil, models.NewValidationError("Category name too long (max 100 characters)")
	}

	slug := strings.TrimSpace(in.Slug)
	if slug == "" {
		slug = validation.Slugify(name)
	}
	if err := validation.ValidateSlug(slug); err != nil {
		return nil, models.NewValidationError("Invalid category slug: " + err.Error())
	}

	category := &models.Category{Name: name, Slug: slug}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, models.NewValidationError("A category with this slug already exists")
		}
		return nil, models.NewInternalError(err)
	}
	return category, nil
}

// DeleteCategory removes the category with its posts and comments, then
// cleans up the orphaned image files.
func (s *CategoryService) DeleteCategory(ctx context.Context, id uint) error {
	imagePaths, err := s.categoryRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	for _, path := range imagePaths {
		s.images.Remove(path)
	}
	cache.InvalidatePosts(ctx)
	return nil
}
