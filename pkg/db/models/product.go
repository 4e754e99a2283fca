package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a store listing. Images are public paths as returned by the
// file upload endpoint.
type Product struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Title       string          `gorm:"column:title;not null"`
	Description string          `gorm:"column:description;not null"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Images      []string        `gorm:"column:images;type:jsonb;serializer:json;not null"`
	CategoryID  uuid.UUID       `gorm:"column:category_id;type:uuid;not null;index"`
	ColorID     uuid.UUID       `gorm:"column:color_id;type:uuid;not null;index"`
	StoreID     uuid.UUID       `gorm:"column:store_id;type:uuid;not null;index"`
	UserID      uuid.UUID       `gorm:"column:user_id;type:uuid;not null;index"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	if p.Images == nil {
		p.Images = []string{}
	}
	return nil
}
