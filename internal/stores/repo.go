package stores

import (
	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/internal/repo"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
)

// Repository persists stores; every read is scoped to the owner.
type Repository struct {
	repo.Owned[models.Store]
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Owned: repo.NewOwned[models.Store](db, repo.OldestFirst)}
}
