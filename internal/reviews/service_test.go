package reviews

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/internal/products"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
)

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func TestCreateReviewRequestValidate(t *testing.T) {
	cases := []struct {
		name string
		req  CreateReviewRequest
		want []string
	}{
		{"valid", CreateReviewRequest{Text: strPtr("Great"), Rating: intPtr(5)}, nil},
		{"empty", CreateReviewRequest{}, []string{"review-text-required", "rating-required"}},
		{"blank text", CreateReviewRequest{Text: strPtr("  "), Rating: intPtr(3)}, []string{"review-text-required"}},
		{"rating too low", CreateReviewRequest{Text: strPtr("ok"), Rating: intPtr(0)}, []string{"min-rating-1"}},
		{"rating too high", CreateReviewRequest{Text: strPtr("ok"), Rating: intPtr(6)}, []string{"max-rating-5"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.req.Validate().Messages()
			if len(got) != len(tc.want) {
				t.Fatalf("expected %v got %v", tc.want, got)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("expected %v got %v", tc.want, got)
				}
			}
		})
	}
}

func TestServiceCreateCopiesProductStore(t *testing.T) {
	product := &products.ProductDTO{ID: uuid.New(), StoreID: uuid.New()}
	repo := &stubReviewRepo{}
	svc := newTestService(t, repo, stubProducts{product.ID: product})

	author := uuid.New()
	dto, err := svc.Create(context.Background(), author, product.ID, CreateReviewRequest{Text: strPtr(" Nice "), Rating: intPtr(4)})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if dto.StoreID != product.StoreID || dto.ProductID != product.ID || dto.UserID != author {
		t.Fatalf("unexpected review %+v", dto)
	}
	if dto.Text != "Nice" {
		t.Fatalf("expected trimmed text got %q", dto.Text)
	}
}

func TestServiceCreateUnknownProduct(t *testing.T) {
	repo := &stubReviewRepo{}
	svc := newTestService(t, repo, stubProducts{})

	_, err := svc.Create(context.Background(), uuid.New(), uuid.New(), CreateReviewRequest{Text: strPtr("x"), Rating: intPtr(1)})
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if len(repo.rows) != 0 {
		t.Fatal("review must not be stored")
	}
}

func TestServiceUpdateOnlyByAuthor(t *testing.T) {
	author := uuid.New()
	existing := models.Review{ID: uuid.New(), Text: "ok", Rating: 3, UserID: author}
	repo := &stubReviewRepo{rows: []models.Review{existing}}
	svc := newTestService(t, repo, stubProducts{})

	_, err := svc.Update(context.Background(), existing.ID, uuid.New(), UpdateReviewRequest{Rating: intPtr(1)})
	if typed := pkgerrors.As(err); typed == nil || typed.Message() != NotFoundMessage {
		t.Fatalf("expected %s, got %v", NotFoundMessage, err)
	}
	if repo.updates != 0 {
		t.Fatal("foreign update must not persist")
	}

	dto, err := svc.Update(context.Background(), existing.ID, author, UpdateReviewRequest{Rating: intPtr(5)})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if dto.Rating != 5 || dto.Text != "ok" {
		t.Fatalf("unexpected merge %+v", dto)
	}
}

func TestServiceDeleteMissing(t *testing.T) {
	repo := &stubReviewRepo{}
	svc := newTestService(t, repo, stubProducts{})

	if err := svc.Delete(context.Background(), uuid.New(), uuid.New()); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if repo.deletes != 0 {
		t.Fatal("expected no deletes")
	}
}

func TestServiceFindByProductIsPublic(t *testing.T) {
	product := &products.ProductDTO{ID: uuid.New()}
	repo := &stubReviewRepo{rows: []models.Review{
		{ID: uuid.New(), ProductID: product.ID, UserID: uuid.New()},
		{ID: uuid.New(), ProductID: product.ID, UserID: uuid.New()},
		{ID: uuid.New(), ProductID: uuid.New(), UserID: uuid.New()},
	}}
	svc := newTestService(t, repo, stubProducts{product.ID: product})

	list, err := svc.FindByProduct(context.Background(), product.ID)
	if err != nil {
		t.Fatalf("find by product: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 reviews got %d", len(list))
	}

	mine, err := svc.FindAll(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("find all: %v", err)
	}
	if mine == nil || len(mine) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", mine)
	}
}

func newTestService(t *testing.T, repo reviewRepository, resolver productResolver) Service {
	t.Helper()
	svc, err := NewService(repo, resolver)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

type stubProducts map[uuid.UUID]*products.ProductDTO

func (s stubProducts) GetPublic(_ context.Context, id uuid.UUID) (*products.ProductDTO, error) {
	if p, ok := s[id]; ok {
		return p, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product-not-found")
}

type stubReviewRepo struct {
	rows    []models.Review
	updates int
	deletes int
}

func (s *stubReviewRepo) Create(_ context.Context, review *models.Review) error {
	review.ID = uuid.New()
	s.rows = append(s.rows, *review)
	return nil
}

func (s *stubReviewRepo) FindOwned(_ context.Context, id, userID uuid.UUID) (*models.Review, error) {
	for _, row := range s.rows {
		if row.ID == id && row.UserID == userID {
			row := row
			return &row, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubReviewRepo) ListByOwner(_ context.Context, userID uuid.UUID) ([]models.Review, error) {
	var out []models.Review
	for _, row := range s.rows {
		if row.UserID == userID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (s *stubReviewRepo) ListByProduct(_ context.Context, productID uuid.UUID) ([]models.Review, error) {
	var out []models.Review
	for _, row := range s.rows {
		if row.ProductID == productID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (s *stubReviewRepo) Update(_ context.Context, review *models.Review) error {
	s.updates++
	return nil
}

func (s *stubReviewRepo) Delete(_ context.Context, id uuid.UUID) error {
	s.deletes++
	return nil
}
