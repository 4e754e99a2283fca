package reviews

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/internal/products"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
)

const NotFoundMessage = "review-not-found-or-you-are-not-owner"

type reviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	FindOwned(ctx context.Context, id, userID uuid.UUID) (*models.Review, error)
	ListByOwner(ctx context.Context, userID uuid.UUID) ([]models.Review, error)
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.Review, error)
	Update(ctx context.Context, review *models.Review) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type productResolver interface {
	GetPublic(ctx context.Context, id uuid.UUID) (*products.ProductDTO, error)
}

// Service manages reviews. Any authenticated user may review any product;
// only the author can change or remove the review.
type Service interface {
	GetByID(ctx context.Context, id, ownerID uuid.UUID) (*ReviewDTO, error)
	Create(ctx context.Context, ownerID, productID uuid.UUID, req CreateReviewRequest) (*ReviewDTO, error)
	Update(ctx context.Context, id, ownerID uuid.UUID, req UpdateReviewRequest) (*ReviewDTO, error)
	Delete(ctx context.Context, id, ownerID uuid.UUID) error
	FindAll(ctx context.Context, ownerID uuid.UUID) ([]ReviewDTO, error)
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]ReviewDTO, error)
}

type service struct {
	repo     reviewRepository
	products productResolver
}

func NewService(repo reviewRepository, products productResolver) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("review repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product resolver required")
	}
	return &service{repo: repo, products: products}, nil
}

func (s *service) GetByID(ctx context.Context, id, ownerID uuid.UUID) (*ReviewDTO, error) {
	review, err := s.load(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	return FromModel(review), nil
}

func (s *service) Create(ctx context.Context, ownerID, productID uuid.UUID, req CreateReviewRequest) (*ReviewDTO, error) {
	if err := req.Validate().Err(); err != nil {
		return nil, err
	}
	product, err := s.products.GetPublic(ctx, productID)
	if err != nil {
		return nil, err
	}

	review := &models.Review{
		Text:      strings.TrimSpace(*req.Text),
		Rating:    *req.Rating,
		ProductID: product.ID,
		StoreID:   product.StoreID,
		UserID:    ownerID,
	}
	if err := s.repo.Create(ctx, review); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create review")
	}
	return FromModel(review), nil
}

func (s *service) Update(ctx context.Context, id, ownerID uuid.UUID, req UpdateReviewRequest) (*ReviewDTO, error) {
	review, err := s.load(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if err := req.Validate().Err(); err != nil {
		return nil, err
	}

	if req.Text != nil {
		review.Text = strings.TrimSpace(*req.Text)
	}
	if req.Rating != nil {
		review.Rating = *req.Rating
	}

	if err := s.repo.Update(ctx, review); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update review")
	}
	return FromModel(review), nil
}

func (s *service) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	if _, err := s.load(ctx, id, ownerID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete review")
	}
	return nil
}

func (s *service) FindAll(ctx context.Context, ownerID uuid.UUID) ([]ReviewDTO, error) {
	rows, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reviews")
	}
	return FromModels(rows), nil
}

func (s *service) FindByProduct(ctx context.Context, productID uuid.UUID) ([]ReviewDTO, error) {
	if _, err := s.products.GetPublic(ctx, productID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list product reviews")
	}
	return FromModels(rows), nil
}

func (s *service) load(ctx context.Context, id, ownerID uuid.UUID) (*models.Review, error) {
	review, err := s.repo.FindOwned(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, NotFoundMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load review")
	}
	return review, nil
}
