package stores

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/validation"
)

// StoreDTO exposes store data in API responses.
type StoreDTO struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	UserID      uuid.UUID `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateStoreRequest is the payload for opening a store.
type CreateStoreRequest struct {
	Title *string `json:"title"`
}

func (r CreateStoreRequest) Validate() validation.Errors {
	var b validation.Builder
	b.RequiredString("title", r.Title, "title-required", "")
	return b.Errors()
}

func (r CreateStoreRequest) TypeMessages() map[string]string {
	return map[string]string{"title": "title-required"}
}

// UpdateStoreRequest changes a store. Title is optional; description is
// mandatory on every update.
type UpdateStoreRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

func (r UpdateStoreRequest) Validate() validation.Errors {
	var b validation.Builder
	b.RequiredString("description", r.Description, "description-required", "")
	return b.Errors()
}

func (r UpdateStoreRequest) TypeMessages() map[string]string {
	return map[string]string{
		"title":       "title-required",
		"description": "description-required",
	}
}

// FromModel maps the persisted store into a DTO.
func FromModel(m *models.Store) *StoreDTO {
	if m == nil {
		return nil
	}
	return &StoreDTO{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		UserID:      m.UserID,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// FromModels maps a slice, always returning a non-nil result.
func FromModels(rows []models.Store) []StoreDTO {
	out := make([]StoreDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
