package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/internal/products"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/angelmondragon/marketplace-backend/pkg/events"
	"github.com/angelmondragon/marketplace-backend/pkg/logger"
)

const NotFoundMessage = "order-not-found-or-you-are-not-owner"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type productLookup interface {
	GetPublic(ctx context.Context, id uuid.UUID) (*products.ProductDTO, error)
}

// Service manages a buyer's orders.
type Service interface {
	GetByID(ctx context.Context, id, ownerID uuid.UUID) (*OrderDTO, error)
	Create(ctx context.Context, ownerID uuid.UUID, req CreateOrderRequest) (*OrderDTO, error)
	Update(ctx context.Context, id, ownerID uuid.UUID, req UpdateOrderRequest) (*OrderDTO, error)
	Delete(ctx context.Context, id, ownerID uuid.UUID) error
	FindAll(ctx context.Context, ownerID uuid.UUID) ([]OrderDTO, error)
}

// ServiceParams groups the order service collaborators. Publisher and
// Logger are optional.
type ServiceParams struct {
	Repo      Repository
	Tx        txRunner
	Products  productLookup
	Publisher events.Publisher
	Logger    *logger.Logger
}

type service struct {
	repo      Repository
	tx        txRunner
	products  productLookup
	publisher events.Publisher
	logg      *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product lookup required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	publisher := params.Publisher
	if publisher == nil {
		publisher = events.NewLogPublisher(logg)
	}
	return &service{
		repo:      params.Repo,
		tx:        params.Tx,
		products:  params.Products,
		publisher: publisher,
		logg:      logg,
	}, nil
}

func (s *service) GetByID(ctx context.Context, id, ownerID uuid.UUID) (*OrderDTO, error) {
	order, err := s.load(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	return FromModel(order), nil
}

func (s *service) Create(ctx context.Context, ownerID uuid.UUID, req CreateOrderRequest) (*OrderDTO, error) {
	if err := req.Validate().Err(); err != nil {
		return nil, err
	}
	items, err := s.buildItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	status := enums.OrderStatusPending
	if req.Status != nil {
		status = enums.OrderStatus(*req.Status)
	}
	order := &models.Order{
		Status: status,
		Total:  Total(items),
		UserID: ownerID,
		Items:  items,
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Create(ctx, order)
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}

	s.publish(ctx, events.New(events.OrderCreated, order.ID, events.OrderCreatedData{
		UserID: ownerID,
		Status: order.Status.String(),
		Total:  order.Total.StringFixed(2),
		Items:  len(order.Items),
	}))
	return FromModel(order), nil
}

func (s *service) Update(ctx context.Context, id, ownerID uuid.UUID, req UpdateOrderRequest) (*OrderDTO, error) {
	order, err := s.load(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if err := req.Validate().Err(); err != nil {
		return nil, err
	}

	previous := order.Status
	if req.Status != nil {
		order.Status = enums.OrderStatus(*req.Status)
	}
	var items []models.OrderItem
	if req.Items != nil {
		if items, err = s.buildItems(ctx, req.Items); err != nil {
			return nil, err
		}
		order.Total = Total(items)
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Save(ctx, order); err != nil {
			return err
		}
		if items != nil {
			return repo.ReplaceItems(ctx, order.ID, items)
		}
		return nil
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order")
	}
	if items != nil {
		order.Items = items
	}

	if order.Status != previous {
		s.publish(ctx, events.New(events.OrderStatusChanged, order.ID, events.OrderStatusChangedData{
			UserID: ownerID,
			From:   previous.String(),
			To:     order.Status.String(),
		}))
	}
	return FromModel(order), nil
}

func (s *service) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	if _, err := s.load(ctx, id, ownerID); err != nil {
		return err
	}
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Delete(ctx, id)
	}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete order")
	}
	return nil
}

func (s *service) FindAll(ctx context.Context, ownerID uuid.UUID) ([]OrderDTO, error) {
	rows, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return FromModels(rows), nil
}

func (s *service) load(ctx context.Context, id, ownerID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindOwned(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, NotFoundMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

// buildItems resolves every referenced product. The stored price and store
// come from the product, not from the request.
func (s *service) buildItems(ctx context.Context, reqs []OrderItemRequest) ([]models.OrderItem, error) {
	items := make([]models.OrderItem, 0, len(reqs))
	for _, req := range reqs {
		productID, err := uuid.Parse(strings.TrimSpace(*req.ProductID))
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, products.PublicNotFoundMessage)
		}
		product, err := s.products.GetPublic(ctx, productID)
		if err != nil {
			return nil, err
		}
		items = append(items, models.OrderItem{
			Quantity:  *req.Quantity,
			Price:     product.Price,
			ProductID: product.ID,
			StoreID:   product.StoreID,
		})
	}
	return items, nil
}

func (s *service) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		ctx = s.logg.WithFields(ctx, map[string]any{
			"event_type":   string(event.Type),
			"aggregate_id": event.AggregateID.String(),
		})
		s.logg.Error(ctx, "publish order event", err)
	}
}
