package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	OldestFirst = "created_at ASC"
	NewestFirst = "created_at DESC"
)

var errNilRow = errors.New("row is required")

// Owned implements the CRUD every user-owned table shares: rows carry id and
// user_id columns and are only ever read back through their owner.
type Owned[M any] struct {
	Base
	order string
}

// NewOwned builds an Owned repository listing rows in order.
func NewOwned[M any](db *gorm.DB, order string) Owned[M] {
	return Owned[M]{Base: NewBase(db), order: order}
}

func (o Owned[M]) Create(ctx context.Context, row *M) error {
	if row == nil {
		return errNilRow
	}
	return o.DB(ctx).Create(row).Error
}

// FindOwned returns gorm.ErrRecordNotFound both for a missing id and for a
// row owned by someone else.
func (o Owned[M]) FindOwned(ctx context.Context, id, userID uuid.UUID) (*M, error) {
	var row M
	if err := o.DB(ctx).Where("id = ? AND user_id = ?", id, userID).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (o Owned[M]) ListByOwner(ctx context.Context, userID uuid.UUID) ([]M, error) {
	return o.List(ctx, "user_id = ?", userID)
}

// List returns every row matching the condition in the repository order.
func (o Owned[M]) List(ctx context.Context, query string, args ...any) ([]M, error) {
	rows := []M{}
	err := o.DB(ctx).Where(query, args...).Order(o.order).Find(&rows).Error
	return rows, err
}

func (o Owned[M]) Update(ctx context.Context, row *M) error {
	if row == nil {
		return errNilRow
	}
	return o.DB(ctx).Save(row).Error
}

func (o Owned[M]) Delete(ctx context.Context, id uuid.UUID) error {
	var row M
	return o.DB(ctx).Where("id = ?", id).Delete(&row).Error
}
