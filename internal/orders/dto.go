package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	"github.com/angelmondragon/marketplace-backend/pkg/validation"
)

type OrderItemDTO struct {
	ID        uuid.UUID       `json:"id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	ProductID uuid.UUID       `json:"product_id"`
	StoreID   uuid.UUID       `json:"store_id"`
}

type OrderDTO struct {
	ID        uuid.UUID         `json:"id"`
	Status    enums.OrderStatus `json:"status"`
	Total     decimal.Decimal   `json:"total"`
	UserID    uuid.UUID         `json:"user_id"`
	Items     []OrderItemDTO    `json:"items"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// OrderItemRequest is one line of an order. Price and store are checked
// against the referenced product when the order is saved.
type OrderItemRequest struct {
	Quantity  *int     `json:"quantity"`
	Price     *float64 `json:"price"`
	ProductID *string  `json:"productId"`
	StoreID   *string  `json:"storeId"`
}

type CreateOrderRequest struct {
	Status *string            `json:"status"`
	Items  []OrderItemRequest `json:"items"`
}

func (r CreateOrderRequest) Validate() validation.Errors {
	var b validation.Builder
	validateStatus(&b, r.Status)
	b.Check(len(r.Items) > 0, "items", "order-doesnt-have-any-product")
	validateItems(&b, r.Items)
	return b.Errors()
}

func (r CreateOrderRequest) TypeMessages() map[string]string {
	return typeMessages
}

// UpdateOrderRequest may change the status and replace the item list.
type UpdateOrderRequest struct {
	Status *string            `json:"status"`
	Items  []OrderItemRequest `json:"items"`
}

func (r UpdateOrderRequest) Validate() validation.Errors {
	var b validation.Builder
	validateStatus(&b, r.Status)
	if r.Items != nil {
		b.Check(len(r.Items) > 0, "items", "order-doesnt-have-any-product")
		validateItems(&b, r.Items)
	}
	return b.Errors()
}

func (r UpdateOrderRequest) TypeMessages() map[string]string {
	return typeMessages
}

var typeMessages = map[string]string{
	"status":          "order-status-required",
	"items":           "order-doesnt-have-any-product",
	"items.quantity":  "quantity-must-be-number",
	"items.price":     "price-must-be-number",
	"items.productId": "product-id-must-be-string",
	"items.storeId":   "store-id-must-be-string",
}

func validateStatus(b *validation.Builder, status *string) {
	if status == nil {
		return
	}
	_, err := enums.ParseOrderStatus(*status)
	b.Check(err == nil, "status", "order-status-required")
}

func validateItems(b *validation.Builder, items []OrderItemRequest) {
	for _, item := range items {
		if item.Quantity == nil {
			b.Fail("items.quantity", "quantity-must-be-number")
		} else {
			b.Tag("items.quantity", *item.Quantity, "gte=1", "quantity-must-be-positive")
		}
		if item.Price == nil {
			b.Fail("items.price", "price-must-be-number")
		} else {
			b.Tag("items.price", *item.Price, "gte=0", "price-must-be-positive")
		}
		b.Check(item.ProductID != nil, "items.productId", "product-id-must-be-string")
		b.Check(item.StoreID != nil, "items.storeId", "store-id-must-be-string")
	}
}

func FromModel(m *models.Order) *OrderDTO {
	if m == nil {
		return nil
	}
	items := make([]OrderItemDTO, 0, len(m.Items))
	for _, item := range m.Items {
		items = append(items, OrderItemDTO{
			ID:        item.ID,
			Quantity:  item.Quantity,
			Price:     item.Price,
			ProductID: item.ProductID,
			StoreID:   item.StoreID,
		})
	}
	return &OrderDTO{
		ID:        m.ID,
		Status:    m.Status,
		Total:     m.Total,
		UserID:    m.UserID,
		Items:     items,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func FromModels(rows []models.Order) []OrderDTO {
	out := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}

// Total sums price × quantity over items.
func Total(items []models.OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}
