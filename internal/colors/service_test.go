package colors

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/angelmondragon/marketplace-backend/internal/stores"
	"github.com/angelmondragon/marketplace-backend/pkg/db/dbtest"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/angelmondragon/marketplace-backend/pkg/validation"
)

// These tests run the service over the real repository on SQLite with a
// stubbed store resolver.

func TestServiceLifecycle(t *testing.T) {
	conn := dbtest.Open(t)
	owner := dbtest.SeedUser(t, conn)
	store := dbtest.SeedStore(t, conn, owner.ID)
	svc := newTestService(t, NewRepository(conn), ownedStores{store.ID: owner.ID})
	ctx := context.Background()

	name, value := "Red", "#ff0000"
	created, err := svc.Create(ctx, owner.ID, store.ID, CreateColorRequest{Name: &name, Value: &value})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	value = "#ee0000"
	updated, err := svc.Update(ctx, created.ID, owner.ID, UpdateColorRequest{Value: &value})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Red" || updated.Value != "#ee0000" {
		t.Fatalf("unexpected update result %+v", updated)
	}

	byStore, err := svc.FindByStore(ctx, store.ID, owner.ID)
	if err != nil {
		t.Fatalf("find by store: %v", err)
	}
	if len(byStore) != 1 || byStore[0].ID != created.ID {
		t.Fatalf("unexpected store colors %+v", byStore)
	}

	if err := svc.Delete(ctx, created.ID, owner.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.GetByID(ctx, created.ID, owner.ID); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestServiceForeignOwnerSeesNothing(t *testing.T) {
	conn := dbtest.Open(t)
	owner := dbtest.SeedUser(t, conn)
	intruder := dbtest.SeedUser(t, conn)
	store := dbtest.SeedStore(t, conn, owner.ID)
	svc := newTestService(t, NewRepository(conn), ownedStores{store.ID: owner.ID})
	ctx := context.Background()

	name, value := "Blue", "#0000ff"
	created, err := svc.Create(ctx, owner.ID, store.ID, CreateColorRequest{Name: &name, Value: &value})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = svc.GetByID(ctx, created.ID, intruder.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Message() != NotFoundMessage {
		t.Fatalf("expected %s, got %v", NotFoundMessage, err)
	}
	if err := svc.Delete(ctx, created.ID, intruder.ID); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found on foreign delete, got %v", err)
	}
	if _, err := svc.GetByID(ctx, created.ID, owner.ID); err != nil {
		t.Fatalf("owner should still see color: %v", err)
	}

	list, err := svc.FindAll(ctx, intruder.ID)
	if err != nil {
		t.Fatalf("find all: %v", err)
	}
	if list == nil || len(list) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", list)
	}

	if _, err := svc.Create(ctx, intruder.ID, store.ID, CreateColorRequest{Name: &name, Value: &value}); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected store not found for intruder, got %v", err)
	}
}

func TestCreateColorRequestValidate(t *testing.T) {
	name := "Green"
	errs := CreateColorRequest{Name: &name}.Validate()
	if len(errs) != 1 || errs[0].Field != "value" || errs[0].Message != "value-required" {
		t.Fatalf("unexpected errors %v", errs)
	}
	if errs := (CreateColorRequest{}).Validate(); len(errs) != 2 {
		t.Fatalf("expected two errors got %v", errs)
	}
}

func TestServiceCreateReturnsValidationError(t *testing.T) {
	svc := newTestService(t, NewRepository(dbtest.Open(t)), ownedStores{})
	_, err := svc.Create(context.Background(), uuid.New(), uuid.New(), CreateColorRequest{})
	if len(validation.FromError(err)) != 2 {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func newTestService(t *testing.T, repo colorRepository, resolver storeResolver) Service {
	t.Helper()
	svc, err := NewService(repo, resolver)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

type ownedStores map[uuid.UUID]uuid.UUID

func (o ownedStores) GetByID(_ context.Context, id, ownerID uuid.UUID) (*stores.StoreDTO, error) {
	if o[id] != ownerID || ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, stores.NotFoundMessage)
	}
	return &stores.StoreDTO{ID: id, UserID: ownerID}, nil
}


// referencedRepo rejects deletes the way Postgres does while a product still
// points at the color.
type referencedRepo struct {
	*Repository
}

func (referencedRepo) Delete(context.Context, uuid.UUID) error {
	return &pgconn.PgError{Code: "23503", ConstraintName: "products_color_id_fkey"}
}

func TestServiceDeleteColorInUse(t *testing.T) {
	conn := dbtest.Open(t)
	owner := dbtest.SeedUser(t, conn)
	store := dbtest.SeedStore(t, conn, owner.ID)
	svc := newTestService(t, referencedRepo{NewRepository(conn)}, ownedStores{store.ID: owner.ID})
	ctx := context.Background()

	name, value := "Red", "#ff0000"
	created, err := svc.Create(ctx, owner.ID, store.ID, CreateColorRequest{Name: &name, Value: &value})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	err = svc.Delete(ctx, created.ID, owner.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict || typed.Message() != InUseMessage {
		t.Fatalf("expected %s conflict, got %v", InUseMessage, err)
	}
	if _, err := svc.GetByID(ctx, created.ID, owner.ID); err != nil {
		t.Fatalf("color must survive a rejected delete: %v", err)
	}
}
