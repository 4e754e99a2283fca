package colors

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/validation"
)

type ColorDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Value     string    `json:"value"`
	StoreID   uuid.UUID `json:"store_id"`
	UserID    uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateColorRequest names a color and its display value (usually a hex code).
type CreateColorRequest struct {
	Name  *string `json:"name"`
	Value *string `json:"value"`
}

func (r CreateColorRequest) Validate() validation.Errors {
	var b validation.Builder
	b.RequiredString("name", r.Name, "name-required", "")
	b.RequiredString("value", r.Value, "value-required", "")
	return b.Errors()
}

func (r CreateColorRequest) TypeMessages() map[string]string {
	return typeMessages
}

type UpdateColorRequest struct {
	Name  *string `json:"name"`
	Value *string `json:"value"`
}

func (r UpdateColorRequest) Validate() validation.Errors {
	return nil
}

func (r UpdateColorRequest) TypeMessages() map[string]string {
	return typeMessages
}

var typeMessages = map[string]string{
	"name":  "name-required",
	"value": "value-required",
}

func FromModel(m *models.Color) *ColorDTO {
	if m == nil {
		return nil
	}
	return &ColorDTO{
		ID:        m.ID,
		Name:      m.Name,
		Value:     m.Value,
		StoreID:   m.StoreID,
		UserID:    m.UserID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func FromModels(rows []models.Color) []ColorDTO {
	out := make([]ColorDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
