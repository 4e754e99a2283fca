package products

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/pagination"
	"github.com/angelmondragon/marketplace-backend/pkg/validation"
)

// ProductDTO is the API representation of a product. Price is encoded as a
// decimal string to keep cents exact.
type ProductDTO struct {
	ID          uuid.UUID       `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Images      []string        `json:"images"`
	CategoryID  uuid.UUID       `json:"category_id"`
	ColorID     uuid.UUID       `json:"color_id"`
	StoreID     uuid.UUID       `json:"store_id"`
	UserID      uuid.UUID       `json:"user_id"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// CreateProductRequest is the payload for listing a product in a store.
type CreateProductRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Images      []string `json:"images"`
	CategoryID  *string  `json:"categoryId"`
	ColorID     *string  `json:"colorId"`
}

func (r CreateProductRequest) Validate() validation.Errors {
	var b validation.Builder
	b.RequiredString("title", r.Title, "title-required", "title-can-not-be-empty")
	b.RequiredString("description", r.Description, "description-required", "description-can-not-be-empty")
	b.Check(r.Price != nil, "price", "price-can-not-be-empty")
	b.Check(r.Images != nil, "images", "choose-at-least-one-image")
	validateImages(&b, r.Images)
	b.RequiredString("categoryId", r.CategoryID, "category-required", "ID-category-can-not-be-empty")
	b.RequiredString("colorId", r.ColorID, "color-required", "ID-color-can-not-be-empty")
	return b.Errors()
}

func (r CreateProductRequest) TypeMessages() map[string]string {
	return typeMessages
}

// UpdateProductRequest changes only the fields that are present. Present
// fields follow the same non-empty rules as on create.
type UpdateProductRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Images      []string `json:"images"`
	CategoryID  *string  `json:"categoryId"`
	ColorID     *string  `json:"colorId"`
}

func (r UpdateProductRequest) Validate() validation.Errors {
	var b validation.Builder
	if r.Title != nil {
		b.RequiredString("title", r.Title, "title-required", "title-can-not-be-empty")
	}
	if r.Description != nil {
		b.RequiredString("description", r.Description, "description-required", "description-can-not-be-empty")
	}
	if r.Images != nil {
		validateImages(&b, r.Images)
	}
	if r.CategoryID != nil {
		b.RequiredString("categoryId", r.CategoryID, "category-required", "ID-category-can-not-be-empty")
	}
	if r.ColorID != nil {
		b.RequiredString("colorId", r.ColorID, "color-required", "ID-color-can-not-be-empty")
	}
	return b.Errors()
}

func (r UpdateProductRequest) TypeMessages() map[string]string {
	return typeMessages
}

var typeMessages = map[string]string{
	"title":       "title-required",
	"description": "description-required",
	"price":       "price-must-be-number",
	"images":      "choose-at-least-one-image",
	"categoryId":  "category-required",
	"colorId":     "color-required",
}

func validateImages(b *validation.Builder, images []string) {
	if images == nil {
		return
	}
	b.Check(len(images) > 0, "images", "must-be-at-least-one-image")
	for _, img := range images {
		if strings.TrimSpace(img) == "" {
			b.Fail("images", "path-to-image-can-not-be-empty")
			return
		}
	}
}

// PublicListParams filters the public catalog. Nil filters are ignored.
type PublicListParams struct {
	pagination.Params
	StoreID    *uuid.UUID
	CategoryID *uuid.UUID
	ColorID    *uuid.UUID
	Search     string
}

func FromModel(m *models.Product) *ProductDTO {
	if m == nil {
		return nil
	}
	images := m.Images
	if images == nil {
		images = []string{}
	}
	return &ProductDTO{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Price:       m.Price,
		Images:      images,
		CategoryID:  m.CategoryID,
		ColorID:     m.ColorID,
		StoreID:     m.StoreID,
		UserID:      m.UserID,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func FromModels(rows []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}

func priceFrom(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}
