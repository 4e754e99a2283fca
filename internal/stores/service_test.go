package stores

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/angelmondragon/marketplace-backend/pkg/validation"
)

func TestNewServiceRequiresRepo(t *testing.T) {
	if _, err := NewService(nil); err == nil {
		t.Fatal("expected error creating service without repo")
	}
}

func TestServiceGetByIDReturnsOwnedStore(t *testing.T) {
	owner := uuid.New()
	store := baseStore(owner)
	repo := &stubStoreRepo{stores: []models.Store{*store}}
	svc := newTestService(t, repo)

	dto, err := svc.GetByID(context.Background(), store.ID, owner)
	if err != nil {
		t.Fatalf("get store: %v", err)
	}
	if dto.ID != store.ID || dto.Title != store.Title {
		t.Fatalf("unexpected store %+v", dto)
	}
	if dto.UserID != owner {
		t.Fatalf("expected owner %s got %s", owner, dto.UserID)
	}
}

func TestServiceGetByIDHidesForeignStore(t *testing.T) {
	store := baseStore(uuid.New())
	repo := &stubStoreRepo{stores: []models.Store{*store}}
	svc := newTestService(t, repo)

	_, err := svc.GetByID(context.Background(), store.ID, uuid.New())
	assertNotFound(t, err)
}

func TestServiceGetByIDDependencyError(t *testing.T) {
	repo := &stubStoreRepo{findErr: errors.New("boom")}
	svc := newTestService(t, repo)

	_, err := svc.GetByID(context.Background(), uuid.New(), uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestServiceCreateStampsOwner(t *testing.T) {
	owner := uuid.New()
	repo := &stubStoreRepo{}
	svc := newTestService(t, repo)

	title := "  Corner Shop "
	dto, err := svc.Create(context.Background(), owner, CreateStoreRequest{Title: &title})
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	if dto.UserID != owner {
		t.Fatalf("expected owner %s got %s", owner, dto.UserID)
	}
	if dto.Title != "Corner Shop" {
		t.Fatalf("expected trimmed title got %q", dto.Title)
	}
	if len(repo.stores) != 1 {
		t.Fatalf("expected store persisted, got %d", len(repo.stores))
	}
}

func TestServiceCreateRejectsMissingTitle(t *testing.T) {
	repo := &stubStoreRepo{}
	svc := newTestService(t, repo)

	_, err := svc.Create(context.Background(), uuid.New(), CreateStoreRequest{})
	errs := validation.FromError(err)
	if len(errs) != 1 || errs[0].Message != "title-required" {
		t.Fatalf("expected title-required, got %v", err)
	}
	if len(repo.stores) != 0 {
		t.Fatal("store should not be persisted")
	}
}

func TestServiceUpdateMergesPresentFields(t *testing.T) {
	owner := uuid.New()
	store := baseStore(owner)
	repo := &stubStoreRepo{stores: []models.Store{*store}}
	svc := newTestService(t, repo)

	desc := "Fresh goods"
	dto, err := svc.Update(context.Background(), store.ID, owner, UpdateStoreRequest{Description: &desc})
	if err != nil {
		t.Fatalf("update store: %v", err)
	}
	if dto.Title != store.Title {
		t.Fatalf("title should be unchanged, got %q", dto.Title)
	}
	if dto.Description == nil || *dto.Description != desc {
		t.Fatalf("expected description %q got %v", desc, dto.Description)
	}
	if repo.updates != 1 {
		t.Fatalf("expected one update, got %d", repo.updates)
	}
}

func TestServiceUpdateForeignStoreNeverMutates(t *testing.T) {
	store := baseStore(uuid.New())
	repo := &stubStoreRepo{stores: []models.Store{*store}}
	svc := newTestService(t, repo)

	desc := "hijack"
	_, err := svc.Update(context.Background(), store.ID, uuid.New(), UpdateStoreRequest{Description: &desc})
	assertNotFound(t, err)
	if repo.updates != 0 {
		t.Fatalf("expected no updates, got %d", repo.updates)
	}
}

func TestServiceUpdateRequiresDescription(t *testing.T) {
	owner := uuid.New()
	store := baseStore(owner)
	repo := &stubStoreRepo{stores: []models.Store{*store}}
	svc := newTestService(t, repo)

	title := "Renamed"
	_, err := svc.Update(context.Background(), store.ID, owner, UpdateStoreRequest{Title: &title})
	errs := validation.FromError(err)
	if len(errs) != 1 || errs[0].Message != "description-required" {
		t.Fatalf("expected description-required, got %v", err)
	}
	if repo.updates != 0 {
		t.Fatal("invalid update should not be persisted")
	}
}

func TestServiceDeleteChecksOwnership(t *testing.T) {
	owner := uuid.New()
	store := baseStore(owner)
	repo := &stubStoreRepo{stores: []models.Store{*store}}
	svc := newTestService(t, repo)

	assertNotFound(t, svc.Delete(context.Background(), store.ID, uuid.New()))
	if len(repo.deleted) != 0 {
		t.Fatal("foreign delete must not remove the store")
	}

	if err := svc.Delete(context.Background(), store.ID, owner); err != nil {
		t.Fatalf("delete store: %v", err)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != store.ID {
		t.Fatalf("expected store %s deleted, got %v", store.ID, repo.deleted)
	}
}

func TestServiceFindAllEmptyIsNonNil(t *testing.T) {
	svc := newTestService(t, &stubStoreRepo{})

	list, err := svc.FindAll(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("find all: %v", err)
	}
	if list == nil || len(list) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", list)
	}
}

func TestServiceFindAllFiltersByOwner(t *testing.T) {
	owner := uuid.New()
	repo := &stubStoreRepo{stores: []models.Store{*baseStore(owner), *baseStore(uuid.New()), *baseStore(owner)}}
	svc := newTestService(t, repo)

	list, err := svc.FindAll(context.Background(), owner)
	if err != nil {
		t.Fatalf("find all: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 stores got %d", len(list))
	}
}

func newTestService(t *testing.T, repo storeRepository) Service {
	t.Helper()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func assertNotFound(t *testing.T, err error) {
	t.Helper()
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if typed.Message() != NotFoundMessage {
		t.Fatalf("expected message %q got %q", NotFoundMessage, typed.Message())
	}
}

func baseStore(owner uuid.UUID) *models.Store {
	now := time.Now().UTC()
	return &models.Store{
		ID:        uuid.New(),
		Title:     "Main Street",
		UserID:    owner,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

type stubStoreRepo struct {
	stores    []models.Store
	findErr   error
	deleteErr error
	updates   int
	deleted   []uuid.UUID
}

func (s *stubStoreRepo) Create(_ context.Context, store *models.Store) error {
	if store.ID == uuid.Nil {
		store.ID = uuid.New()
	}
	s.stores = append(s.stores, *store)
	return nil
}

func (s *stubStoreRepo) FindOwned(_ context.Context, id, userID uuid.UUID) (*models.Store, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	for i := range s.stores {
		if s.stores[i].ID == id && s.stores[i].UserID == userID {
			store := s.stores[i]
			return &store, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubStoreRepo) ListByOwner(_ context.Context, userID uuid.UUID) ([]models.Store, error) {
	var out []models.Store
	for _, store := range s.stores {
		if store.UserID == userID {
			out = append(out, store)
		}
	}
	return out, nil
}

func (s *stubStoreRepo) Update(_ context.Context, store *models.Store) error {
	s.updates++
	for i := range s.stores {
		if s.stores[i].ID == store.ID {
			s.stores[i] = *store
		}
	}
	return nil
}

func (s *stubStoreRepo) Delete(_ context.Context, id uuid.UUID) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deleted = append(s.deleted, id)
	return nil
}

func TestServiceDeleteStoreWithOrderedProducts(t *testing.T) {
	owner := uuid.New()
	existing := models.Store{ID: uuid.New(), Title: "Shop", UserID: owner}
	repo := &stubStoreRepo{
		stores:    []models.Store{existing},
		deleteErr: &pq.Error{Code: "23503", Constraint: "order_items_product_id_fkey"},
	}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	err = svc.Delete(context.Background(), existing.ID, owner)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict || typed.Message() != InUseMessage {
		t.Fatalf("expected %s conflict, got %v", InUseMessage, err)
	}
	if len(repo.deleted) != 0 {
		t.Fatal("store must remain after a rejected delete")
	}
}
