package categories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/internal/stores"
	"github.com/angelmondragon/marketplace-backend/pkg/db"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
)

const (
	NotFoundMessage = "category-not-found-or-you-are-not-owner"
	// InUseMessage rejects deleting a category that products still reference.
	InUseMessage = "category-in-use"
)

type categoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	FindOwned(ctx context.Context, id, userID uuid.UUID) (*models.Category, error)
	ListByOwner(ctx context.Context, userID uuid.UUID) ([]models.Category, error)
	ListByStore(ctx context.Context, storeID, userID uuid.UUID) ([]models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type storeResolver interface {
	GetByID(ctx context.Context, id, ownerID uuid.UUID) (*stores.StoreDTO, error)
}

// Service manages categories inside the caller's stores.
type Service interface {
	GetByID(ctx context.Context, id, ownerID uuid.UUID) (*CategoryDTO, error)
	Create(ctx context.Context, ownerID, storeID uuid.UUID, req CreateCategoryRequest) (*CategoryDTO, error)
	Update(ctx context.Context, id, ownerID uuid.UUID, req UpdateCategoryRequest) (*CategoryDTO, error)
	Delete(ctx context.Context, id, ownerID uuid.UUID) error
	FindAll(ctx context.Context, ownerID uuid.UUID) ([]CategoryDTO, error)
	FindByStore(ctx context.Context, storeID, ownerID uuid.UUID) ([]CategoryDTO, error)
}

type service struct {
	repo   categoryRepository
	stores storeResolver
}

func NewService(repo categoryRepository, stores storeResolver) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("category repository required")
	}
	if stores == nil {
		return nil, fmt.Errorf("store resolver required")
	}
	return &service{repo: repo, stores: stores}, nil
}

func (s *service) GetByID(ctx context.Context, id, ownerID uuid.UUID) (*CategoryDTO, error) {
	category, err := s.load(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	return FromModel(category), nil
}

func (s *service) Create(ctx context.Context, ownerID, storeID uuid.UUID, req CreateCategoryRequest) (*CategoryDTO, error) {
	if err := req.Validate().Err(); err != nil {
		return nil, err
	}
	if _, err := s.stores.GetByID(ctx, storeID, ownerID); err != nil {
		return nil, err
	}

	category := &models.Category{
		Title:       strings.TrimSpace(*req.Title),
		Description: *req.Description,
		StoreID:     storeID,
		UserID:      ownerID,
	}
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create category")
	}
	return FromModel(category), nil
}

func (s *service) Update(ctx context.Context, id, ownerID uuid.UUID, req UpdateCategoryRequest) (*CategoryDTO, error) {
	category, err := s.load(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if err := req.Validate().Err(); err != nil {
		return nil, err
	}

	if req.Title != nil {
		category.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		category.Description = *req.Description
	}

	if err := s.repo.Update(ctx, category); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update category")
	}
	return FromModel(category), nil
}

func (s *service) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	if _, err := s.load(ctx, id, ownerID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if db.IsForeignKeyViolation(err) {
			return pkgerrors.Wrap(pkgerrors.CodeConflict, err, InUseMessage)
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete category")
	}
	return nil
}

func (s *service) FindAll(ctx context.Context, ownerID uuid.UUID) ([]CategoryDTO, error) {
	rows, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	return FromModels(rows), nil
}

func (s *service) FindByStore(ctx context.Context, storeID, ownerID uuid.UUID) ([]CategoryDTO, error) {
	if _, err := s.stores.GetByID(ctx, storeID, ownerID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListByStore(ctx, storeID, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list store categories")
	}
	return FromModels(rows), nil
}

func (s *service) load(ctx context.Context, id, ownerID uuid.UUID) (*models.Category, error) {
	category, err := s.repo.FindOwned(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, NotFoundMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	return category, nil
}
