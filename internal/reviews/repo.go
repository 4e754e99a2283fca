package reviews

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/internal/repo"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
)

// Repository lists reviews newest first.
type Repository struct {
	repo.Owned[models.Review]
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Owned: repo.NewOwned[models.Review](db, repo.NewestFirst)}
}

// ListByProduct is public: it ignores ownership.
func (r *Repository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.Review, error) {
	return r.List(ctx, "product_id = ?", productID)
}
