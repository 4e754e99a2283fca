package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/marketplace-backend/internal/stores"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
)

const (
	DefaultName    = "Anonymous"
	DefaultPicture = "/uploads/no-user-image.png"
)

// UserDTO is the transport shape that omits credentials.
type UserDTO struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Picture   string    `json:"picture"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProfileDTO is the current user with the stores they own.
type ProfileDTO struct {
	UserDTO
	Stores []stores.StoreDTO `json:"stores"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
// Blank name and picture fall back to the defaults.
type CreateUserDTO struct {
	Email        string
	PasswordHash *string
	Name         string
	Picture      string
}

func (d CreateUserDTO) ToModel() *models.User {
	name := d.Name
	if name == "" {
		name = DefaultName
	}
	picture := d.Picture
	if picture == "" {
		picture = DefaultPicture
	}
	return &models.User{
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Name:         name,
		Picture:      picture,
	}
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Picture:   u.Picture,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func profileFromModel(u *models.User) *ProfileDTO {
	return &ProfileDTO{
		UserDTO: *FromModel(u),
		Stores:  stores.FromModels(u.Stores),
	}
}
