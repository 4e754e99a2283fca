package stores

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/pkg/db"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
)

const (
	// NotFoundMessage is returned when a store is missing or owned by someone else.
	NotFoundMessage = "shop-not-found-or-you-are-not-owner"
	// InUseMessage rejects deleting a store whose products have been ordered.
	InUseMessage = "shop-in-use"
)

type storeRepository interface {
	Create(ctx context.Context, store *models.Store) error
	FindOwned(ctx context.Context, id, userID uuid.UUID) (*models.Store, error)
	ListByOwner(ctx context.Context, userID uuid.UUID) ([]models.Store, error)
	Update(ctx context.Context, store *models.Store) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service exposes owner-scoped store operations.
type Service interface {
	GetByID(ctx context.Context, id, ownerID uuid.UUID) (*StoreDTO, error)
	Create(ctx context.Context, ownerID uuid.UUID, req CreateStoreRequest) (*StoreDTO, error)
	Update(ctx context.Context, id, ownerID uuid.UUID, req UpdateStoreRequest) (*StoreDTO, error)
	Delete(ctx context.Context, id, ownerID uuid.UUID) error
	FindAll(ctx context.Context, ownerID uuid.UUID) ([]StoreDTO, error)
}

type service struct {
	repo storeRepository
}

// NewService builds a store service with the provided repository.
func NewService(repo storeRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("store repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) GetByID(ctx context.Context, id, ownerID uuid.UUID) (*StoreDTO, error) {
	store, err := s.load(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	return FromModel(store), nil
}

func (s *service) Create(ctx context.Context, ownerID uuid.UUID, req CreateStoreRequest) (*StoreDTO, error) {
	if err := req.Validate().Err(); err != nil {
		return nil, err
	}
	store := &models.Store{
		Title:  strings.TrimSpace(*req.Title),
		UserID: ownerID,
	}
	if err := s.repo.Create(ctx, store); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create store")
	}
	return FromModel(store), nil
}

func (s *service) Update(ctx context.Context, id, ownerID uuid.UUID, req UpdateStoreRequest) (*StoreDTO, error) {
	store, err := s.load(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if err := req.Validate().Err(); err != nil {
		return nil, err
	}

	if req.Title != nil {
		store.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		desc := *req.Description
		store.Description = &desc
	}
	store.UserID = ownerID

	if err := s.repo.Update(ctx, store); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update store")
	}
	return FromModel(store), nil
}

func (s *service) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	if _, err := s.load(ctx, id, ownerID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if db.IsForeignKeyViolation(err) {
			return pkgerrors.Wrap(pkgerrors.CodeConflict, err, InUseMessage)
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete store")
	}
	return nil
}

func (s *service) FindAll(ctx context.Context, ownerID uuid.UUID) ([]StoreDTO, error) {
	rows, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list stores")
	}
	return FromModels(rows), nil
}

func (s *service) load(ctx context.Context, id, ownerID uuid.UUID) (*models.Store, error) {
	store, err := s.repo.FindOwned(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, NotFoundMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}
	return store, nil
}
