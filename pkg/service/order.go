package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/orderflow/orderflow/pkg/model"
	"github.com/orderflow/orderflow/pkg/store"
)

// OrderService implements order fulfillment: stock-checked placement,
// per-client aggregation and the order-level cascades.
type OrderService struct {
	orders   OrderStore
	items    *OrderItemService
	clients  ClientStore
	products ProductStore
	log      *zap.Logger
}

// NewOrderService builds the order service.
func NewOrderService(orders OrderStore, items *OrderItemService, clients ClientStore, products ProductStore, log *zap.Logger) *OrderService {
	return &OrderService{orders: orders, items: items, clients: clients, products: products, log: log}
}

// Place fulfills one purchase request. Client and product are resolved by
// name; an unresolved name fails with ErrUnresolvedName. When stock is too
// low the request is rejected without touching any row. Otherwise the
// purchase accumulates into the client's active order (creating it on first
// purchase), one item row is appended and the product's stock is
// decremented.
func (s *OrderService) Place(ctx context.Context, clientName, productName string, quantity int) (PlaceOutcome, error) {
	client, err := findClientByName(ctx, s.clients, clientName)
	if notFound(err) {
		return 0, fmt.Errorf("%w: client %q", ErrUnresolvedName, clientName)
	} else if err != nil {
		return 0, err
	}
	product, err := findProductByName(ctx, s.products, productName)
	if notFound(err) {
		return 0, fmt.Errorf("%w: product %q", ErrUnresolvedName, productName)
	} else if err != nil {
		return 0, err
	}

	if product.Quantity < quantity {
		s.log.Info("order rejected, insufficient stock",
			zap.String("client", clientName),
			zap.String("product", productName),
			zap.Int("requested", quantity),
			zap.Int("on_hand", product.Quantity))
		return RejectedInsufficientStock, nil
	}

	lineTotal := product.Price * float32(quantity)

	order, err := s.activeOrder(ctx, client.ID)
	if err != nil {
		return 0, err
	}
	if order != nil {
		order.Total += lineTotal
		if err := s.orders.Update(ctx, order); err != nil {
			return 0, err
		}
	} else {
		id, err := s.orders.NextID(ctx)
		if err != nil {
			return 0, err
		}
		order = &model.Order{ID: id, ClientID: client.ID, Total: lineTotal}
		if err := s.orders.Insert(ctx, order); err != nil {
			return 0, err
		}
	}

	if err := s.items.Insert(ctx, &model.OrderItem{OrderID: order.ID, ProductID: product.ID, Quantity: quantity}); err != nil {
		return 0, err
	}

	product.Quantity -= quantity
	if err := s.products.Update(ctx, product); err != nil {
		return 0, err
	}
	return Accepted, nil
}

// activeOrder returns the client's non-deleted order, or nil when the client
// has none. Soft-deleted orders never aggregate new purchases.
func (s *OrderService) activeOrder(ctx context.Context, clientID int) (*model.Order, error) {
	orders, err := s.orders.FindAllByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if orders[i].Deleted == model.Active {
			return &orders[i], nil
		}
	}
	return nil, nil
}

// FindByID returns the order with the given id.
func (s *OrderService) FindByID(ctx context.Context, id int) (*model.Order, error) {
	return s.orders.FindByID(ctx, id)
}

// FindByClient returns the client's active order.
func (s *OrderService) FindByClient(ctx context.Context, clientID int) (*model.Order, error) {
	order, err := s.activeOrder(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, store.ErrNotFound
	}
	return order, nil
}

// FindAll returns every order row.
func (s *OrderService) FindAll(ctx context.Context) ([]model.Order, error) {
	return s.orders.FindAll(ctx)
}

// Update rewrites an order after verifying it still exists; a vanished order
// is a no-op.
func (s *OrderService) Update(ctx context.Context, order *model.Order) error {
	if _, err := s.orders.FindByID(ctx, order.ID); notFound(err) {
		return nil
	} else if err != nil {
		return err
	}
	return s.orders.Update(ctx, order)
}

// HardDelete removes the order row and every item under it. A vanished
// order is a no-op.
func (s *OrderService) HardDelete(ctx context.Context, order *model.Order) error {
	if _, err := s.orders.FindByID(ctx, order.ID); notFound(err) {
		return nil
	} else if err != nil {
		return err
	}
	if err := s.orders.Delete(ctx, order); err != nil {
		return err
	}
	return s.items.DeleteAllForOrder(ctx, order.ID)
}

// SoftDelete flags the order and every item under it as deleted.
func (s *OrderService) SoftDelete(ctx context.Context, order *model.Order) error {
	if _, err := s.orders.FindByID(ctx, order.ID); notFound(err) {
		return nil
	} else if err != nil {
		return err
	}
	if err := order.SetDeleted(model.SoftDeleted); err != nil {
		return err
	}
	if err := s.orders.Update(ctx, order); err != nil {
		return err
	}
	return s.items.SoftDeleteAllForOrder(ctx, order.ID)
}
