package stores

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/pkg/db/dbtest"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
)

func TestRepositoryFindOwnedScopesByUser(t *testing.T) {
	conn := dbtest.Open(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	owner := dbtest.SeedUser(t, conn)
	store := &models.Store{Title: "Owned", UserID: owner.ID}
	require.NoError(t, repo.Create(ctx, store))
	require.NotEqual(t, uuid.Nil, store.ID)

	found, err := repo.FindOwned(ctx, store.ID, owner.ID)
	require.NoError(t, err)
	require.Equal(t, "Owned", found.Title)

	_, err = repo.FindOwned(ctx, store.ID, uuid.New())
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestRepositoryUpdateAndDelete(t *testing.T) {
	conn := dbtest.Open(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	owner := dbtest.SeedUser(t, conn)
	store := dbtest.SeedStore(t, conn, owner.ID)

	desc := "updated"
	store.Description = &desc
	require.NoError(t, repo.Update(ctx, store))

	found, err := repo.FindOwned(ctx, store.ID, owner.ID)
	require.NoError(t, err)
	require.NotNil(t, found.Description)
	require.Equal(t, desc, *found.Description)

	require.NoError(t, repo.Delete(ctx, store.ID))
	list, err := repo.ListByOwner(ctx, owner.ID)
	require.NoError(t, err)
	require.Empty(t, list)
}
