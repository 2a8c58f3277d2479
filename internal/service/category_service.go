package service

import (
	"context"
	"errors"
	"fmt"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/collegekit/feedback-api/config"
	"github.com/collegekit/feedback-api/internal/dto"
	"github.com/collegekit/feedback-api/internal/errdefs"
	"github.com/collegekit/feedback-api/internal/model"
	"github.com/collegekit/feedback-api/internal/repository"
)

const (
	categoryListKey   = "categories:all"
	categoryKeyPrefix = "category:"
)

// CategoryService manages question categories. Reads go through a TTL cache
// keyed per entity plus one list key; every write invalidates exactly the
// keys it affects, so entries expire instead of the whole cache being wiped.
type CategoryService interface {
	List(ctx context.Context) ([]dto.CategoryResponseDTO, error)
	Get(ctx context.Context, id uint) (*dto.CategoryResponseDTO, error)
	Create(ctx context.Context, req dto.CategoryCreateDTO) (*dto.CategoryResponseDTO, error)
	Update(ctx context.Context, id uint, req dto.CategoryCreateDTO) (*dto.CategoryResponseDTO, error)
	Delete(ctx context.Context, id uint) error
}

type categoryService struct {
	repo  repository.CategoryRepository
	cache *gocache.Cache
}

func NewCategoryService(repo repository.CategoryRepository, cfg *config.Config) CategoryService {
	return &categoryService{
		repo:  repo,
		cache: gocache.New(cfg.Cache.TTL, 2*cfg.Cache.TTL),
	}
}

func (s *categoryService) List(ctx context.Context) ([]dto.CategoryResponseDTO, error) {
	if cached, ok := s.cache.Get(categoryListKey); ok {
		if rows, valid := cached.([]dto.CategoryResponseDTO); valid {
			return rows, nil
		}
	}

	categories, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	rows := make([]dto.CategoryResponseDTO, 0, len(categories))
	for i := range categories {
		rows = append(rows, categoryToDTO(&categories[i]))
	}
	s.cache.SetDefault(categoryListKey, rows)
	return rows, nil
}

func (s *categoryService) Get(ctx context.Context, id uint) (*dto.CategoryResponseDTO, error) {
	key := categoryKey(id)
	if cached, ok := s.cache.Get(key); ok {
		if row, valid := cached.(dto.CategoryResponseDTO); valid {
			return &row, nil
		}
	}

	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: category %d", errdefs.ErrNotFound, id)
		}
		return nil, fmt.Errorf("load category %d: %w", id, err)
	}
	row := categoryToDTO(category)
	s.cache.SetDefault(key, row)
	return &row, nil
}

func (s *categoryService) Create(ctx context.Context, req dto.CategoryCreateDTO) (*dto.CategoryResponseDTO, error) {
	category := model.QuestionCategory{Name: req.Name, Description: req.Description}
	if err := s.repo.Create(ctx, &category); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	log.Info().Uint("categoryID", category.ID).Str("name", category.Name).Msg("Question category created")

	row := categoryToDTO(&category)
	s.cache.SetDefault(categoryKey(category.ID), row)
	s.cache.Delete(categoryListKey)
	return &row, nil
}

func (s *categoryService) Update(ctx context.Context, id uint, req dto.CategoryCreateDTO) (*dto.CategoryResponseDTO, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: category %d", errdefs.ErrNotFound, id)
		}
		return nil, fmt.Errorf("load category %d: %w", id, err)
	}
	category.Name = req.Name
	category.Description = req.Description
	if err := s.repo.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("update category %d: %w", id, err)
	}

	row := categoryToDTO(category)
	s.cache.SetDefault(categoryKey(id), row)
	s.cache.Delete(categoryListKey)
	return &row, nil
}

func (s *categoryService) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: category %d", errdefs.ErrNotFound, id)
		}
		return fmt.Errorf("load category %d: %w", id, err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete category %d: %w", id, err)
	}
	s.cache.Delete(categoryKey(id))
	s.cache.Delete(categoryListKey)
	return nil
}

func categoryKey(id uint) string {
	return fmt.Sprintf("%s%d", categoryKeyPrefix, id)
}

func categoryToDTO(category *model.QuestionCategory) dto.CategoryResponseDTO {
	return dto.CategoryResponseDTO{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
		CreatedAt:   category.CreatedAt,
	}
}
