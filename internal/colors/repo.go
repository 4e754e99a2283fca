package colors

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/internal/repo"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
)

type Repository struct {
	repo.Owned[models.Color]
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Owned: repo.NewOwned[models.Color](db, repo.OldestFirst)}
}

func (r *Repository) ListByStore(ctx context.Context, storeID, userID uuid.UUID) ([]models.Color, error) {
	return r.List(ctx, "store_id = ? AND user_id = ?", storeID, userID)
}
