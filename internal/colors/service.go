package colors

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
	NotFoundMessage = "color-not-found-or-you-are-not-owner"
	// InUseMessage rejects deleting a color that products still reference.
	InUseMessage = "color-in-use"
)

type colorRepository interface {
	Create(ctx context.Context, color *models.Color) error
	FindOwned(ctx context.Context, id, userID uuid.UUID) (*models.Color, error)
	ListByOwner(ctx context.Context, userID uuid.UUID) ([]models.Color, error)
	ListByStore(ctx context.Context, storeID, userID uuid.UUID) ([]models.Color, error)
	Update(ctx context.Context, color *models.Color) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type storeResolver interface {
	GetByID(ctx context.Context, id, ownerID uuid.UUID) (*stores.StoreDTO, error)
}

// Service manages the color palette of the caller's stores.
type Service interface {
	GetByID(ctx context.Context, id, ownerID uuid.UUID) (*ColorDTO, error)
	Create(ctx context.Context, ownerID, storeID uuid.UUID, req CreateColorRequest) (*ColorDTO, error)
	Update(ctx context.Context, id, ownerID uuid.UUID, req UpdateColorRequest) (*ColorDTO, error)
	Delete(ctx context.Context, id, ownerID uuid.UUID) error
	FindAll(ctx context.Context, ownerID uuid.UUID) ([]ColorDTO, error)
	FindByStore(ctx context.Context, storeID, ownerID uuid.UUID) ([]ColorDTO, error)
}

type service struct {
	repo   colorRepository
	stores storeResolver
}

func NewService(repo colorRepository, stores storeResolver) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("color repository required")
	}
	if stores == nil {
		return nil, fmt.Errorf("store resolver required")
	}
	return &service{repo: repo, stores: stores}, nil
}

func (s *service) GetByID(ctx context.Context, id, ownerID uuid.UUID) (*ColorDTO, error) {
	color, err := s.load(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	return FromModel(color), nil
}

func (s *service) Create(ctx context.Context, ownerID, storeID uuid.UUID, req CreateColorRequest) (*ColorDTO, error) {
	if err := req.Validate().Err(); err != nil {
		return nil, err
	}
	if _, err := s.stores.GetByID(ctx, storeID, ownerID); err != nil {
		return nil, err
	}

	color := &models.Color{
		Name:    strings.TrimSpace(*req.Name),
		Value:   strings.TrimSpace(*req.Value),
		StoreID: storeID,
		UserID:  ownerID,
	}
	if err := s.repo.Create(ctx, color); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create color")
	}
	return FromModel(color), nil
}

func (s *service) Update(ctx context.Context, id, ownerID uuid.UUID, req UpdateColorRequest) (*ColorDTO, error) {
	color, err := s.load(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if err := req.Validate().Err(); err != nil {
		return nil, err
	}

	if req.Name != nil {
		color.Name = strings.TrimSpace(*req.Name)
	}
	if req.Value != nil {
		color.Value = strings.TrimSpace(*req.Value)
	}

	if err := s.repo.Update(ctx, color); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update color")
	}
	return FromModel(color), nil
}

func (s *service) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	if _, err := s.load(ctx, id, ownerID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if db.IsForeignKeyViolation(err) {
			return pkgerrors.Wrap(pkgerrors.CodeConflict, err, InUseMessage)
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete color")
	}
	return nil
}

func (s *service) FindAll(ctx context.Context, ownerID uuid.UUID) ([]ColorDTO, error) {
	rows, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list colors")
	}
	return FromModels(rows), nil
}

func (s *service) FindByStore(ctx context.Context, storeID, ownerID uuid.UUID) ([]ColorDTO, error) {
	if _, err := s.stores.GetByID(ctx, storeID, ownerID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListByStore(ctx, storeID, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list store colors")
	}
	return FromModels(rows), nil
}

func (s *service) load(ctx context.Context, id, ownerID uuid.UUID) (*models.Color, error) {
	color, err := s.repo.FindOwned(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, NotFoundMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load color")
	}
	return color, nil
}
