package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/internal/categories"
	"github.com/angelmondragon/marketplace-backend/internal/colors"
	"github.com/angelmondragon/marketplace-backend/internal/stores"
	"github.com/angelmondragon/marketplace-backend/pkg/db"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/angelmondragon/marketplace-backend/pkg/pagination"
)

const (
	NotFoundMessage = "product-not-found-or-you-are-not-owner"
	// InUseMessage rejects deleting a product that orders still reference.
	InUseMessage = "product-in-use"
	// PublicNotFoundMessage is used by catalog reads, which ignore ownership.
	PublicNotFoundMessage = "product-not-found"
)

type productRepository interface {
	Create(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindOwned(ctx context.Context, id, userID uuid.UUID) (*models.Product, error)
	ListByOwner(ctx context.Context, userID uuid.UUID) ([]models.Product, error)
	ListByStore(ctx context.Context, storeID, userID uuid.UUID) ([]models.Product, error)
	ListPublic(ctx context.Context, params PublicListParams, cursor *pagination.Cursor, limit int) ([]models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type storeResolver interface {
	GetByID(ctx context.Context, id, ownerID uuid.UUID) (*stores.StoreDTO, error)
}

type categoryResolver interface {
	GetByID(ctx context.Context, id, ownerID uuid.UUID) (*categories.CategoryDTO, error)
}

type colorResolver interface {
	GetByID(ctx context.Context, id, ownerID uuid.UUID) (*colors.ColorDTO, error)
}

// Service manages owned products and serves the public catalog.
type Service interface {
	GetByID(ctx context.Context, id, ownerID uuid.UUID) (*ProductDTO, error)
	Create(ctx context.Context, ownerID, storeID uuid.UUID, req CreateProductRequest) (*ProductDTO, error)
	Update(ctx context.Context, id, ownerID uuid.UUID, req UpdateProductRequest) (*ProductDTO, error)
	Delete(ctx context.Context, id, ownerID uuid.UUID) error
	FindAll(ctx context.Context, ownerID uuid.UUID) ([]ProductDTO, error)
	FindByStore(ctx context.Context, storeID, ownerID uuid.UUID) ([]ProductDTO, error)
	ListPublic(ctx context.Context, params PublicListParams) (pagination.Page[ProductDTO], error)
	GetPublic(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
}

// ServiceParams groups the collaborators of the product service.
type ServiceParams struct {
	Repo       productRepository
	Stores     storeResolver
	Categories categoryResolver
	Colors     colorResolver
}

type service struct {
	repo       productRepository
	stores     storeResolver
	categories categoryResolver
	colors     colorResolver
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if params.Stores == nil {
		return nil, fmt.Errorf("store resolver required")
	}
	if params.Categories == nil {
		return nil, fmt.Errorf("category resolver required")
	}
	if params.Colors == nil {
		return nil, fmt.Errorf("color resolver required")
	}
	return &service{
		repo:       params.Repo,
		stores:     params.Stores,
		categories: params.Categories,
		colors:     params.Colors,
	}, nil
}

func (s *service) GetByID(ctx context.Context, id, ownerID uuid.UUID) (*ProductDTO, error) {
	product, err := s.load(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	return FromModel(product), nil
}

func (s *service) Create(ctx context.Context, ownerID, storeID uuid.UUID, req CreateProductRequest) (*ProductDTO, error) {
	if err := req.Validate().Err(); err != nil {
		return nil, err
	}
	if _, err := s.stores.GetByID(ctx, storeID, ownerID); err != nil {
		return nil, err
	}
	categoryID, err := s.resolveCategory(ctx, *req.CategoryID, ownerID)
	if err != nil {
		return nil, err
	}
	colorID, err := s.resolveColor(ctx, *req.ColorID, ownerID)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		Title:       strings.TrimSpace(*req.Title),
		Description: *req.Description,
		Price:       priceFrom(*req.Price),
		Images:      append([]string(nil), req.Images...),
		CategoryID:  categoryID,
		ColorID:     colorID,
		StoreID:     storeID,
		UserID:      ownerID,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return FromModel(product), nil
}

func (s *service) Update(ctx context.Context, id, ownerID uuid.UUID, req UpdateProductRequest) (*ProductDTO, error) {
	product, err := s.load(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if err := req.Validate().Err(); err != nil {
		return nil, err
	}

	if req.Title != nil {
		product.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		product.Price = priceFrom(*req.Price)
	}
	if req.Images != nil {
		product.Images = append([]string(nil), req.Images...)
	}
	if req.CategoryID != nil {
		if product.CategoryID, err = s.resolveCategory(ctx, *req.CategoryID, ownerID); err != nil {
			return nil, err
		}
	}
	if req.ColorID != nil {
		if product.ColorID, err = s.resolveColor(ctx, *req.ColorID, ownerID); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	return FromModel(product), nil
}

func (s *service) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	if _, err := s.load(ctx, id, ownerID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if db.IsForeignKeyViolation(err) {
			return pkgerrors.Wrap(pkgerrors.CodeConflict, err, InUseMessage)
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

func (s *service) FindAll(ctx context.Context, ownerID uuid.UUID) ([]ProductDTO, error) {
	rows, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return FromModels(rows), nil
}

func (s *service) FindByStore(ctx context.Context, storeID, ownerID uuid.UUID) ([]ProductDTO, error) {
	if _, err := s.stores.GetByID(ctx, storeID, ownerID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListByStore(ctx, storeID, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list store products")
	}
	return FromModels(rows), nil
}

func (s *service) ListPublic(ctx context.Context, params PublicListParams) (pagination.Page[ProductDTO], error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return pagination.Page[ProductDTO]{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid-cursor")
	}

	rows, err := s.repo.ListPublic(ctx, params, cursor, pagination.LimitWithBuffer(params.Limit))
	if err != nil {
		return pagination.Page[ProductDTO]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list catalog")
	}

	page := pagination.Build(rows, params.Limit, func(p models.Product) pagination.Cursor {
		return pagination.Cursor{CreatedAt: p.CreatedAt, ID: p.ID}
	})
	return pagination.Page[ProductDTO]{
		Items:      FromModels(page.Items),
		NextCursor: page.NextCursor,
	}, nil
}

func (s *service) GetPublic(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, PublicNotFoundMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return FromModel(product), nil
}

func (s *service) load(ctx context.Context, id, ownerID uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindOwned(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, NotFoundMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

// resolveCategory checks that raw names a category owned by ownerID. A
// malformed id cannot reference anything and is reported as not found.
func (s *service) resolveCategory(ctx context.Context, raw string, ownerID uuid.UUID) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeNotFound, categories.NotFoundMessage)
	}
	if _, err := s.categories.GetByID(ctx, id, ownerID); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func (s *service) resolveColor(ctx context.Context, raw string, ownerID uuid.UUID) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeNotFound, colors.NotFoundMessage)
	}
	if _, err := s.colors.GetByID(ctx, id, ownerID); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}
