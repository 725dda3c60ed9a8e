package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/orderflow/orderflow/pkg/model"
)

// OrderItemService manages the item rows under orders. It has no invariants
// of its own; the owning order and product services enforce consistency by
// cascading into it.
type OrderItemService struct {
	items ItemStore
	log   *zap.Logger
}

// NewOrderItemService builds the order-item service.
func NewOrderItemService(items ItemStore, log *zap.Logger) *OrderItemService {
	return &OrderItemService{items: items, log: log}
}

// FindAll returns every order item.
func (s *OrderItemService) FindAll(ctx context.Context) ([]model.OrderItem, error) {
	return s.items.FindAll(ctx)
}

// FindAllByOrder returns the items of one order.
func (s *OrderItemService) FindAllByOrder(ctx context.Context, orderID int) ([]model.OrderItem, error) {
	return s.items.FindAllByOrder(ctx, orderID)
}

// FindAllByProduct returns the items referencing one product.
func (s *OrderItemService) FindAllByProduct(ctx context.Context, productID int) ([]model.OrderItem, error) {
	return s.items.FindAllByProduct(ctx, productID)
}

// Insert adds an item row.
func (s *OrderItemService) Insert(ctx context.Context, item *model.OrderItem) error {
	return s.items.Insert(ctx, item)
}

// Update rewrites the items keyed by the item's order id. The write is a
// no-op unless at least one row exists for both the order and the product;
// the check is coarse, matching the composite identity of the rows.
func (s *OrderItemService) Update(ctx context.Context, item *model.OrderItem) error {
	byOrder, err := s.items.FindAllByOrder(ctx, item.OrderID)
	if err != nil {
		return err
	}
	byProduct, err := s.items.FindAllByProduct(ctx, item.ProductID)
	if err != nil {
		return err
	}
	if len(byOrder) == 0 || len(byProduct) == 0 {
		s.log.Debug("order item update skipped, no matching rows",
			zap.Int("order", item.OrderID),
			zap.Int("product", item.ProductID))
		return nil
	}
	return s.items.Update(ctx, item)
}

// SoftDeleteAllForOrder flags every item of one order as deleted. Item rows
// share their order-id key, so a per-row UPDATE would overwrite siblings;
// the rows are rewritten in one pass instead.
func (s *OrderItemService) SoftDeleteAllForOrder(ctx context.Context, orderID int) error {
	items, err := s.items.FindAllByOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	if err := s.items.Delete(ctx, &items[0]); err != nil {
		return err
	}
	for i := range items {
		if err := items[i].SetDeleted(model.SoftDeleted); err != nil {
			return err
		}
		if err := s.items.Insert(ctx, &items[i]); err != nil {
			return err
		}
	}
	return nil
}

// DeleteAllForOrder removes every item of one order. Missing items are a
// no-op.
func (s *OrderItemService) DeleteAllForOrder(ctx context.Context, orderID int) error {
	items, err := s.items.FindAllByOrder(ctx, orderID)
	if err != nil {
		return err
	}
	for i := range items {
		if err := s.items.Delete(ctx, &items[i]); err != nil {
			return err
		}
	}
	return nil
}
