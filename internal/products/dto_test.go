package products

import (
	"testing"

	"github.com/shopspring/decimal"
)

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func validCreateRequest(categoryID, colorID string) CreateProductRequest {
	return CreateProductRequest{
		Title:       strPtr("Sneakers"),
		Description: strPtr("White leather"),
		Price:       floatPtr(49.99),
		Images:      []string{"/uploads/products/1-a.png"},
		CategoryID:  strPtr(categoryID),
		ColorID:     strPtr(colorID),
	}
}

func TestCreateProductRequestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*CreateProductRequest)
		field  string
		msg    string
	}{
		{"missing title", func(r *CreateProductRequest) { r.Title = nil }, "title", "title-required"},
		{"blank title", func(r *CreateProductRequest) { r.Title = strPtr(" ") }, "title", "title-can-not-be-empty"},
		{"blank description", func(r *CreateProductRequest) { r.Description = strPtr("") }, "description", "description-can-not-be-empty"},
		{"missing price", func(r *CreateProductRequest) { r.Price = nil }, "price", "price-can-not-be-empty"},
		{"missing images", func(r *CreateProductRequest) { r.Images = nil }, "images", "choose-at-least-one-image"},
		{"no images", func(r *CreateProductRequest) { r.Images = []string{} }, "images", "must-be-at-least-one-image"},
		{"blank image", func(r *CreateProductRequest) { r.Images = []string{"a.png", ""} }, "images", "path-to-image-can-not-be-empty"},
		{"missing category", func(r *CreateProductRequest) { r.CategoryID = nil }, "categoryId", "category-required"},
		{"blank category", func(r *CreateProductRequest) { r.CategoryID = strPtr("") }, "categoryId", "ID-category-can-not-be-empty"},
		{"missing color", func(r *CreateProductRequest) { r.ColorID = nil }, "colorId", "color-required"},
		{"blank color", func(r *CreateProductRequest) { r.ColorID = strPtr("") }, "colorId", "ID-color-can-not-be-empty"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validCreateRequest("c", "k")
			tc.mutate(&req)
			errs := req.Validate()
			if len(errs) != 1 {
				t.Fatalf("expected one error, got %v", errs)
			}
			if errs[0].Field != tc.field || errs[0].Message != tc.msg {
				t.Fatalf("expected %s/%s got %s/%s", tc.field, tc.msg, errs[0].Field, errs[0].Message)
			}
		})
	}
}

func TestUpdateProductRequestValidatesOnlyPresentFields(t *testing.T) {
	if errs := (UpdateProductRequest{}).Validate(); len(errs) != 0 {
		t.Fatalf("empty update should be valid, got %v", errs)
	}
	errs := UpdateProductRequest{Title: strPtr(""), Images: []string{}}.Validate()
	got := errs.Messages()
	if len(got) != 2 || got[0] != "title-can-not-be-empty" || got[1] != "must-be-at-least-one-image" {
		t.Fatalf("unexpected messages %v", got)
	}
}

func TestPriceFromRoundsToCents(t *testing.T) {
	if got := priceFrom(12.345); !got.Equal(decimal.RequireFromString("12.35")) {
		t.Fatalf("expected 12.35 got %s", got)
	}
	if got := priceFrom(19.9); !got.Equal(decimal.RequireFromString("19.9")) {
		t.Fatalf("expected 19.9 got %s", got)
	}
}
