package categories

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/validation"
)

type CategoryDTO struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StoreID     uuid.UUID `json:"store_id"`
	UserID      uuid.UUID `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CreateCategoryRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

func (r CreateCategoryRequest) Validate() validation.Errors {
	var b validation.Builder
	b.RequiredString("title", r.Title, "title-required", "")
	b.RequiredString("description", r.Description, "description-required", "")
	return b.Errors()
}

func (r CreateCategoryRequest) TypeMessages() map[string]string {
	return typeMessages
}

// UpdateCategoryRequest carries only the fields to change.
type UpdateCategoryRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// Validate has nothing to check beyond JSON types, which the decoder reports.
func (r UpdateCategoryRequest) Validate() validation.Errors {
	return nil
}

func (r UpdateCategoryRequest) TypeMessages() map[string]string {
	return typeMessages
}

var typeMessages = map[string]string{
	"title":       "title-required",
	"description": "description-required",
}

func FromModel(m *models.Category) *CategoryDTO {
	if m == nil {
		return nil
	}
	return &CategoryDTO{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		StoreID:     m.StoreID,
		UserID:      m.UserID,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func FromModels(rows []models.Category) []CategoryDTO {
	out := make([]CategoryDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
