package users

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/internal/repo"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
)

// Repository stores accounts. Emails are expected in NormalizeEmail form.
type Repository struct {
	base repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{base: repo.NewBase(db)}
}

// Create applies the default name and picture before inserting.
func (r *Repository) Create(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	if err := r.base.DB(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return first(r.base.DB(ctx).Where("email = ?", email))
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return first(r.base.DB(ctx).Where("id = ?", id))
}

// FindWithStores also loads the user's stores, oldest first.
func (r *Repository) FindWithStores(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := r.base.DB(ctx).
		Preload("Stores", func(db *gorm.DB) *gorm.DB { return db.Order(repo.OldestFirst) }).
		Where("id = ?", id)
	return first(query)
}

func first(query *gorm.DB) (*models.User, error) {
	var user models.User
	if err := query.First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
