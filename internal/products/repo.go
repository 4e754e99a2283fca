package products

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/internal/repo"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/pagination"
)

type Repository struct {
	repo.Owned[models.Product]
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Owned: repo.NewOwned[models.Product](db, repo.OldestFirst)}
}

// FindByID loads a product regardless of owner.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.DB(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *Repository) ListByStore(ctx context.Context, storeID, userID uuid.UUID) ([]models.Product, error) {
	return r.List(ctx, "store_id = ? AND user_id = ?", storeID, userID)
}

// ListPublic returns up to limit rows of the catalog, newest first, after
// the keyset cursor when one is given.
func (r *Repository) ListPublic(ctx context.Context, params PublicListParams, cursor *pagination.Cursor, limit int) ([]models.Product, error) {
	qb := r.DB(ctx).Model(&models.Product{})

	if params.StoreID != nil {
		qb = qb.Where("store_id = ?", *params.StoreID)
	}
	if params.CategoryID != nil {
		qb = qb.Where("category_id = ?", *params.CategoryID)
	}
	if params.ColorID != nil {
		qb = qb.Where("color_id = ?", *params.ColorID)
	}
	if q := strings.TrimSpace(params.Search); q != "" {
		qb = qb.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(q)+"%")
	}
	if cursor != nil {
		qb = qb.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Product
	err := qb.
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
