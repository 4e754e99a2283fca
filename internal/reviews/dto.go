package reviews

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/validation"
)

type ReviewDTO struct {
	ID        uuid.UUID `json:"id"`
	Text      string    `json:"text"`
	Rating    int       `json:"rating"`
	ProductID uuid.UUID `json:"product_id"`
	StoreID   uuid.UUID `json:"store_id"`
	UserID    uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateReviewRequest struct {
	Text   *string `json:"text"`
	Rating *int    `json:"rating"`
}

func (r CreateReviewRequest) Validate() validation.Errors {
	var b validation.Builder
	b.RequiredString("text", r.Text, "review-text-required", "review-text-required")
	if r.Rating == nil {
		b.Fail("rating", "rating-required")
	} else {
		validateRating(&b, *r.Rating)
	}
	return b.Errors()
}

func (r CreateReviewRequest) TypeMessages() map[string]string {
	return typeMessages
}

type UpdateReviewRequest struct {
	Text   *string `json:"text"`
	Rating *int    `json:"rating"`
}

func (r UpdateReviewRequest) Validate() validation.Errors {
	var b validation.Builder
	if r.Text != nil {
		b.RequiredString("text", r.Text, "review-text-required", "review-text-required")
	}
	if r.Rating != nil {
		validateRating(&b, *r.Rating)
	}
	return b.Errors()
}

func (r UpdateReviewRequest) TypeMessages() map[string]string {
	return typeMessages
}

var typeMessages = map[string]string{
	"text":   "review-text-must-be-string",
	"rating": "rating-must-be-number",
}

func validateRating(b *validation.Builder, rating int) {
	b.Tag("rating", rating, "gte=1", "min-rating-1")
	b.Tag("rating", rating, "lte=5", "max-rating-5")
}

func FromModel(m *models.Review) *ReviewDTO {
	if m == nil {
		return nil
	}
	return &ReviewDTO{
		ID:        m.ID,
		Text:      m.Text,
		Rating:    m.Rating,
		ProductID: m.ProductID,
		StoreID:   m.StoreID,
		UserID:    m.UserID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func FromModels(rows []models.Review) []ReviewDTO {
	out := make([]ReviewDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
