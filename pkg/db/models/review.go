package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review is owned by its author; StoreID is copied from the product.
type Review struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Text      string    `gorm:"column:text;not null"`
	Rating    int       `gorm:"column:rating;not null"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;index"`
	StoreID   uuid.UUID `gorm:"column:store_id;type:uuid;not null;index"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (r *Review) BeforeCreate(*gorm.DB) error {
	ensureID(&r.ID)
	return nil
}
