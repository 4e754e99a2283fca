package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/internal/auth/oauth"
	"github.com/angelmondragon/marketplace-backend/pkg/db"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
)

const (
	userNotFoundMessage       = "user-not-found"
	oauthEmailRequiredMessage = "oauth-email-required"
)

type userRepository interface {
	Create(ctx context.Context, dto CreateUserDTO) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindWithStores(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Service exposes profile reads and the OAuth account lookup.
type Service interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileDTO, error)
	FindOrCreateByEmail(ctx context.Context, identity oauth.NormalizedUser) (*UserDTO, error)
}

type service struct {
	repo userRepository
}

func NewService(repo userRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileDTO, error) {
	user, err := s.repo.FindWithStores(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, userNotFoundMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}
	return profileFromModel(user), nil
}

// FindOrCreateByEmail returns the existing account unchanged, or creates one
// from the provider data.
func (s *service) FindOrCreateByEmail(ctx context.Context, identity oauth.NormalizedUser) (*UserDTO, error) {
	if identity.Email == nil || strings.TrimSpace(*identity.Email) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, oauthEmailRequiredMessage)
	}
	email := NormalizeEmail(*identity.Email)

	existing, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		return FromModel(existing), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup user")
	}

	dto := CreateUserDTO{Email: email, Name: strings.TrimSpace(identity.Name)}
	if identity.Picture != nil {
		dto.Picture = strings.TrimSpace(*identity.Picture)
	}
	created, err := s.repo.Create(ctx, dto)
	if err != nil {
		// Two callbacks for the same new account can race; the loser reads
		// the winner's row.
		if db.IsUniqueViolation(err, "") {
			if existing, findErr := s.repo.FindByEmail(ctx, email); findErr == nil {
				return FromModel(existing), nil
			}
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}
	return FromModel(created), nil
}

// NormalizeEmail is the canonical form used for lookups and storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
